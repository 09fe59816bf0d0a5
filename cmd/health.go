package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the fit scorer",
	Run: func(_ *cobra.Command, _ []string) {
		health()
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func health() {
	config, logger := setup()

	advisor, err := newAdvisor(config, logger)
	if err != nil {
		logger.Fatal("building advisor", zap.Error(err))
	}

	h := advisor.CheckHealth(context.Background())
	printJSON(logger, h)

	if !h.Up {
		os.Exit(1)
	}
}
