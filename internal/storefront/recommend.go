package storefront

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/spigell/fit-advisor/internal/catalog"
	"github.com/spigell/fit-advisor/internal/fit"
	"github.com/spigell/fit-advisor/internal/logger"
	"github.com/spigell/fit-advisor/internal/store"
)

type RecommendOptions struct {
	Categories    []fit.Category
	Accept        []string
	MinConfidence fit.ConfidenceTier
	Concurrency   int
}

// Recommendation is one accepted product.
type Recommendation struct {
	Product    store.Product      `json:"product"`
	Prediction fit.Response       `json:"prediction"`
	Confidence fit.ConfidenceTier `json:"confidence"`
	Message    string             `json:"message"`
}

type Recommendations struct {
	Items     []Recommendation `json:"items"`
	Evaluated int              `json:"evaluated"`
	Failed    int              `json:"failed"`
	Steps     []catalog.Status `json:"steps"`
}

// Recommend runs the user's measurements against the catalog and returns the
// accepted products, best match first.
func (s *Service) Recommend(ctx context.Context, userID uint, opts RecommendOptions) (Recommendations, error) {
	log := logger.WithFields(s.logger, logger.EntityFields(userID, 0)...)

	m, err := s.repo.GetMeasurements(ctx, userID)
	if err != nil {
		return Recommendations{}, fmt.Errorf("user measurements: %w", err)
	}

	products, err := s.repo.ListProducts(ctx, store.ProductFilter{Categories: opts.Categories})
	if err != nil {
		return Recommendations{}, fmt.Errorf("products: %w", err)
	}

	var evaluated, failed atomic.Int64
	evaluator := catalog.EvaluatorFunc(func(ctx context.Context, req fit.Request) fit.Result {
		result := s.Evaluate(ctx, req)
		evaluated.Add(1)
		if !result.OK() {
			failed.Add(1)
		}
		return result
	})

	cfg := &catalog.Config{
		Categories:    opts.Categories,
		Accept:        opts.Accept,
		MinConfidence: opts.MinConfidence,
		Concurrency:   opts.Concurrency,
	}
	steps := catalog.Default()
	if len(opts.Categories) == 0 {
		catalog.DisableByName(steps, "categories", "all categories requested")
	}
	deps := catalog.Deps{Logger: log, User: m.Values(), Evaluator: evaluator}

	accepted, err := catalog.Run(ctx, cfg, deps, steps, catalog.NewProducts(products))
	if err != nil {
		return Recommendations{}, err
	}

	out := Recommendations{
		Items:     make([]Recommendation, 0, accepted.Len()),
		Evaluated: int(evaluated.Load()),
		Failed:    int(failed.Load()),
		Steps:     catalog.Describe(steps),
	}
	for _, c := range accepted.Items {
		resp, tier, ok := c.Result.Success()
		if !ok {
			continue
		}
		out.Items = append(out.Items, Recommendation{
			Product:    c.Product,
			Prediction: resp,
			Confidence: tier,
			Message:    fit.GenerateMessage(c.Result),
		})
	}

	return out, nil
}

// ParseCategories reads a comma separated category list. Blank input means
// every category.
func ParseCategories(s string) ([]fit.Category, error) {
	var out []fit.Category
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c, err := fit.ParseCategory(part)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
