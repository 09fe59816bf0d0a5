package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/fit-advisor/internal/fit"
	"github.com/spigell/fit-advisor/internal/storefront"
)

const (
	app = "fit-advisor"
)

type Config struct {
	Scorer    ScorerConfig    `mapstructure:"scorer"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Server    ServerConfig    `mapstructure:"server"`
	Recommend RecommendConfig `mapstructure:"recommend"`
}

type ScorerConfig struct {
	BaseURL      string `mapstructure:"base-url"`
	TimeoutMS    int    `mapstructure:"timeout-ms"`
	TokenFile    string `mapstructure:"token-file"`
	UserAgent    string `mapstructure:"user-agent"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr         string `mapstructure:"addr"`
	DB           int    `mapstructure:"db"`
	PasswordFile string `mapstructure:"password-file"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read-timeout"`
	WriteTimeout time.Duration `mapstructure:"write-timeout"`
}

type RecommendConfig struct {
	Concurrency   int      `mapstructure:"concurrency"`
	MinConfidence string   `mapstructure:"min-confidence"`
	Accept        []string `mapstructure:"accept"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "fit-advisor predicts how garments fit shoppers using an external fit scorer",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults()

	for key, env := range map[string]string{
		"scorer.base-url":   "FIT_SCORER_URL",
		"scorer.token-file": "FIT_SCORER_TOKEN_FILE",
		"database.path":     "FIT_DATABASE_PATH",
		"cache.redis.addr":  "FIT_REDIS_ADDR",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is fit-advisor.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("scorer.base-url", fit.DefaultBaseURL)
	viper.SetDefault("scorer.timeout-ms", fit.DefaultTimeout.Milliseconds())
	viper.SetDefault("scorer.max-log-length", 200)
	viper.SetDefault("database.path", app+".db")
	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.ttl", storefront.DefaultCacheTTL)
	viper.SetDefault("server.addr", ":3000")
	viper.SetDefault("server.read-timeout", 15*time.Second)
	viper.SetDefault("server.write-timeout", 15*time.Second)
	viper.SetDefault("recommend.concurrency", 4)
	viper.SetDefault("recommend.min-confidence", string(fit.ConfidenceMedium))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Every key has a default, so a missing default config file is fine. An
	// explicit --config or a broken file is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
