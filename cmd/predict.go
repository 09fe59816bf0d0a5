package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/fit-advisor/internal/fit"
	"github.com/spigell/fit-advisor/internal/storefront"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Ask the scorer how a garment fits the given measurements",
	Example: `  fit-advisor predict --category upper_fitted --user bust=91,waist=78 --product chest=92,waist=80
  fit-advisor predict --user-id 1 --product-id 3`,
	Run: func(cmd *cobra.Command, _ []string) {
		predict(cmd)
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().StringP("category", "c", "", "fit category; asked interactively when empty")
	predictCmd.Flags().StringToString("user", nil, "user measurements in cm, e.g. bust=91,waist=78")
	predictCmd.Flags().StringToString("product", nil, "garment measurements in cm, e.g. chest=92,waist=80")
	predictCmd.Flags().Uint("user-id", 0, "stored user to predict for (with --product-id)")
	predictCmd.Flags().Uint("product-id", 0, "stored product to predict for (with --user-id)")
}

type predictOutput struct {
	Result  fit.Result `json:"result"`
	Message string     `json:"message"`
}

func predict(cmd *cobra.Command) {
	ctx := context.Background()
	config, logger := setup()

	userID, _ := cmd.Flags().GetUint("user-id")
	productID, _ := cmd.Flags().GetUint("product-id")

	if userID != 0 || productID != 0 {
		prediction, err := predictStored(ctx, config, logger, userID, productID)
		if err != nil {
			logger.Fatal("predicting fit", zap.Error(err))
		}
		printJSON(logger, predictOutput{Result: prediction.Result, Message: prediction.Message})
		return
	}

	raw, _ := cmd.Flags().GetString("category")
	if raw == "" {
		var err error
		raw, err = chooseCategory()
		if err != nil {
			logger.Fatal("choosing a category", zap.Error(err))
		}
	}
	category, err := fit.ParseCategory(raw)
	if err != nil {
		logger.Fatal("parsing category", zap.Error(err), zap.Any("known categories", fit.Categories()))
	}

	userFlag, _ := cmd.Flags().GetStringToString("user")
	productFlag, _ := cmd.Flags().GetStringToString("product")

	user, err := parseMeasurements(userFlag)
	if err != nil {
		logger.Fatal("parsing user measurements", zap.Error(err))
	}
	product, err := parseMeasurements(productFlag)
	if err != nil {
		logger.Fatal("parsing product measurements", zap.Error(err))
	}

	req, err := fit.BuildRequest(category, user, product)
	if err != nil {
		logger.Fatal("building prediction request", zap.Error(err),
			zap.Any("user measurements", category.UserKeys()),
			zap.Any("product measurements", category.ProductKeys()),
		)
	}

	advisor, err := newAdvisor(config, logger)
	if err != nil {
		logger.Fatal("building advisor", zap.Error(err))
	}

	result := advisor.Invoke(ctx, req)
	printJSON(logger, predictOutput{Result: result, Message: fit.GenerateMessage(result)})
}

// predictStored releases the database and cache before returning, so callers
// may exit on error.
func predictStored(ctx context.Context, config *Config, logger *zap.Logger, userID, productID uint) (storefront.Prediction, error) {
	_, svc, _, cleanup, err := newStorefront(ctx, config, logger)
	if err != nil {
		return storefront.Prediction{}, fmt.Errorf("preparing storefront: %w", err)
	}
	defer cleanup()

	return svc.Predict(ctx, userID, productID)
}

func chooseCategory() (string, error) {
	categories := fit.Categories()
	items := make([]string, 0, len(categories))
	for _, c := range categories {
		items = append(items, c.String())
	}

	prompt := promptui.Select{
		Label: "Choose a fit category",
		Items: items,
	}
	_, selected, err := prompt.Run()
	return selected, err
}

func parseMeasurements(raw map[string]string) (fit.Measurements, error) {
	out := make(fit.Measurements, len(raw))
	for k, v := range raw {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("measurement %s: %w", k, err)
		}
		out[fit.Measurement(strings.ToLower(strings.TrimSpace(k)))] = f
	}
	return out, nil
}

func printJSON(logger *zap.Logger, v any) {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Fatal("encoding output", zap.Error(err))
	}
	fmt.Fprintln(os.Stdout, string(pretty))
}
