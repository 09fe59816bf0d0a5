package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/fit-advisor/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed FILE",
	Short: "Load users, measurements and products from a YAML file into the database",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		seed(args[0])
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

// SeedFile is the YAML layout accepted by the seed command.
type SeedFile struct {
	Users    []SeedUser    `yaml:"users"`
	Products []SeedProduct `yaml:"products"`
}

type SeedUser struct {
	Email        string                   `yaml:"email"`
	Name         string                   `yaml:"name"`
	Measurements *store.MeasurementsInput `yaml:"measurements"`
}

type SeedProduct struct {
	Name        string   `yaml:"name"`
	FitCategory string   `yaml:"fit_category"`
	Chest       *float64 `yaml:"chest"`
	Waist       *float64 `yaml:"waist"`
	Hip         *float64 `yaml:"hip"`
	Price       string   `yaml:"price"`
}

type SeedReport struct {
	Users           int
	SkippedUsers    int
	Measurements    int
	Products        int
	SkippedProducts int
}

func seed(path string) {
	ctx := context.Background()
	config, logger := setup()

	file, err := loadSeedFile(path)
	if err != nil {
		logger.Fatal("reading seed file", zap.Error(err))
	}

	report, err := seedDatabase(ctx, config.Database.Path, file, logger)
	if err != nil {
		logger.Fatal("seeding database", zap.Error(err))
	}

	logger.Info("seeding completed",
		zap.String("database", config.Database.Path),
		zap.Int("users", report.Users),
		zap.Int("skipped_users", report.SkippedUsers),
		zap.Int("measurements", report.Measurements),
		zap.Int("products", report.Products),
		zap.Int("skipped_products", report.SkippedProducts),
	)
}

func seedDatabase(ctx context.Context, path string, file *SeedFile, logger *zap.Logger) (SeedReport, error) {
	db, err := store.Open(path)
	if err != nil {
		return SeedReport{}, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	return applySeed(ctx, db, file, logger)
}

func loadSeedFile(path string) (*SeedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var file SeedFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &file, nil
}

// applySeed creates the file's entities. Users whose email is already taken
// are skipped together with their measurements, and so are products whose
// name and category are already in the catalog.
func applySeed(ctx context.Context, db *store.Store, file *SeedFile, logger *zap.Logger) (SeedReport, error) {
	var report SeedReport

	for _, u := range file.Users {
		user, err := db.CreateUser(ctx, store.UserInput{Email: &u.Email, Name: &u.Name})
		if errors.Is(err, store.ErrAlreadyExists) {
			logger.Info("user already exists, skipping", zap.String("email", u.Email))
			report.SkippedUsers++
			continue
		}
		if err != nil {
			return report, fmt.Errorf("user %s: %w", u.Email, err)
		}
		report.Users++

		if u.Measurements == nil {
			continue
		}
		if _, err := db.CreateMeasurements(ctx, user.ID, *u.Measurements); err != nil {
			return report, fmt.Errorf("measurements of %s: %w", u.Email, err)
		}
		report.Measurements++
	}

	existing, err := db.ListProducts(ctx, store.ProductFilter{})
	if err != nil {
		return report, fmt.Errorf("listing products: %w", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		seen[productKey(p.Name, p.FitCategory.String())] = struct{}{}
	}

	for _, p := range file.Products {
		key := productKey(p.Name, p.FitCategory)
		if _, ok := seen[key]; ok {
			logger.Info("product already exists, skipping", zap.String("name", p.Name), zap.String("fit_category", p.FitCategory))
			report.SkippedProducts++
			continue
		}

		in := store.ProductInput{
			Name:        &p.Name,
			FitCategory: &p.FitCategory,
			Chest:       p.Chest,
			Waist:       p.Waist,
			Hip:         p.Hip,
		}
		if p.Price != "" {
			price, err := decimal.NewFromString(p.Price)
			if err != nil {
				return report, fmt.Errorf("product %s price: %w", p.Name, err)
			}
			in.Price = &price
		}

		if _, err := db.CreateProduct(ctx, in); err != nil {
			return report, fmt.Errorf("product %s: %w", p.Name, err)
		}
		seen[key] = struct{}{}
		report.Products++
	}

	return report, nil
}

func productKey(name, category string) string {
	return strings.ToLower(strings.TrimSpace(category)) + "/" + strings.TrimSpace(name)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}
