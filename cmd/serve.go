package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/fit-advisor/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the REST API for users, products, measurements and fit predictions",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default is server.addr from the config)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	ctx := context.Background()
	config, logger := setup()

	logger.Info("starting the fit-advisor api", zap.String("version", version))

	opts, err := recommendOptions(config)
	if err != nil {
		logger.Fatal("reading recommend options", zap.Error(err))
	}

	db, svc, advisor, cleanup, err := newStorefront(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing storefront", zap.Error(err))
	}
	defer cleanup()

	srv := &http.Server{
		Addr: config.Server.Addr,
		Handler: server.NewHandler(server.Deps{
			Store:     db,
			Advisor:   svc,
			Scorer:    advisor,
			Logger:    logger.Named("http"),
			Recommend: opts,
		}),
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("scorer", advisor.Config().BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("serving http", zap.Error(err))
		return
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutting down http server", zap.Error(err))
	}

	logger.Info("server exited")
}
