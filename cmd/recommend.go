package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/fit-advisor/internal/fit"
	"github.com/spigell/fit-advisor/internal/storefront"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend USER_ID",
	Short: "List catalog products that fit a stored user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		recommend(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringP("category", "c", "", "comma separated categories to consider (default all)")
	recommendCmd.Flags().String("min-confidence", "", "lowest accepted confidence tier (default recommend.min-confidence)")
}

func recommend(cmd *cobra.Command, rawID string) {
	ctx := context.Background()
	config, logger := setup()

	userID, err := parseID(rawID)
	if err != nil {
		logger.Fatal("parsing user id", zap.Error(err))
	}

	opts, err := recommendOptions(config)
	if err != nil {
		logger.Fatal("reading recommend options", zap.Error(err))
	}

	if raw, _ := cmd.Flags().GetString("category"); raw != "" {
		if opts.Categories, err = storefront.ParseCategories(raw); err != nil {
			logger.Fatal("parsing categories", zap.Error(err))
		}
	}
	if raw, _ := cmd.Flags().GetString("min-confidence"); raw != "" {
		if opts.MinConfidence, err = fit.ParseConfidence(raw); err != nil {
			logger.Fatal("parsing min confidence", zap.Error(err))
		}
	}

	recs, err := recommendFor(ctx, config, logger, userID, opts)
	if err != nil {
		logger.Fatal("building recommendations", zap.Error(err))
	}

	if recs.Failed > 0 {
		logger.Warn("some products could not be scored", zap.Int("failed", recs.Failed), zap.Int("evaluated", recs.Evaluated))
	}
	logger.Info("recommendations ready", zap.Int("count", len(recs.Items)))

	printJSON(logger, recs)
}

// recommendFor releases the database and cache before returning, so callers
// may exit on error.
func recommendFor(ctx context.Context, config *Config, logger *zap.Logger, userID uint, opts storefront.RecommendOptions) (storefront.Recommendations, error) {
	_, svc, _, cleanup, err := newStorefront(ctx, config, logger)
	if err != nil {
		return storefront.Recommendations{}, fmt.Errorf("preparing storefront: %w", err)
	}
	defer cleanup()

	return svc.Recommend(ctx, userID, opts)
}
