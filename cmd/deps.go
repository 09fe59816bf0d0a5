package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/fit-advisor/internal/cache"
	"github.com/spigell/fit-advisor/internal/fit"
	"github.com/spigell/fit-advisor/internal/logger"
	"github.com/spigell/fit-advisor/internal/scorer"
	"github.com/spigell/fit-advisor/internal/secrets"
	"github.com/spigell/fit-advisor/internal/store"
	"github.com/spigell/fit-advisor/internal/storefront"
)

// setup builds the logger and reads the config shared by every command.
func setup() (*Config, *zap.Logger) {
	logger, err := logger.New(app, viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		logger.Fatal("config is required")
	}

	return config, logger
}

func newAdvisor(config *Config, logger *zap.Logger) (*fit.Advisor, error) {
	token, err := secrets.Load(secrets.Source{
		Name:     "scorer token",
		File:     config.Scorer.TokenFile,
		Env:      "FIT_SCORER_TOKEN",
		Optional: true,
	})
	if err != nil {
		return nil, err
	}

	client := scorer.New(logger.Named("scorer"), token)
	if config.Scorer.UserAgent != "" {
		client.UserAgent = config.Scorer.UserAgent
	}
	if config.Scorer.MaxLogLength > 0 {
		client.MaxLogLength = config.Scorer.MaxLogLength
	}

	return fit.New(fit.Config{
		BaseURL: config.Scorer.BaseURL,
		Timeout: time.Duration(config.Scorer.TimeoutMS) * time.Millisecond,
	}, client, logger.Named("advisor")), nil
}

// newCache returns the configured prediction cache and a cleanup function.
// A Redis server that cannot be reached falls back to the in-process cache.
func newCache(ctx context.Context, config *Config, logger *zap.Logger) (cache.Cache, func()) {
	if !config.Cache.Enabled {
		return cache.Nop{}, func() {}
	}

	if config.Cache.Redis.Addr == "" {
		logger.Info("using in-memory prediction cache", zap.Duration("ttl", config.Cache.TTL))
		return cache.NewMemoryCache(), func() {}
	}

	password, err := secrets.Load(secrets.Source{
		Name:     "redis password",
		File:     config.Cache.Redis.PasswordFile,
		Env:      "FIT_REDIS_PASSWORD",
		Optional: true,
	})
	if err != nil {
		logger.Fatal("loading redis password", zap.Error(err))
	}

	rc := cache.NewRedisCache(cache.RedisOptions{
		Addr:     config.Cache.Redis.Addr,
		Password: password,
		DB:       config.Cache.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		logger.Warn("redis is unavailable, using in-memory prediction cache",
			zap.String("addr", config.Cache.Redis.Addr),
			zap.Error(err),
		)
		_ = rc.Close()
		return cache.NewMemoryCache(), func() {}
	}

	logger.Info("using redis prediction cache", zap.String("addr", config.Cache.Redis.Addr))
	return rc, func() { _ = rc.Close() }
}

// newStorefront opens the store and wires the storefront service. The returned
// cleanup closes everything it opened.
func newStorefront(ctx context.Context, config *Config, logger *zap.Logger) (*store.Store, *storefront.Service, *fit.Advisor, func(), error) {
	advisor, err := newAdvisor(config, logger)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("building advisor: %w", err)
	}

	db, err := store.Open(config.Database.Path)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	c, closeCache := newCache(ctx, config, logger)

	svc := storefront.New(db, advisor, storefront.Options{
		Cache:    c,
		CacheTTL: config.Cache.TTL,
		Logger:   logger.Named("storefront"),
	})

	cleanup := func() {
		closeCache()
		if err := db.Close(); err != nil {
			logger.Warn("closing database", zap.Error(err))
		}
	}

	return db, svc, advisor, cleanup, nil
}

func recommendOptions(config *Config) (storefront.RecommendOptions, error) {
	tier, err := fit.ParseConfidence(config.Recommend.MinConfidence)
	if err != nil {
		return storefront.RecommendOptions{}, err
	}
	return storefront.RecommendOptions{
		Accept:        config.Recommend.Accept,
		MinConfidence: tier,
		Concurrency:   config.Recommend.Concurrency,
	}, nil
}
