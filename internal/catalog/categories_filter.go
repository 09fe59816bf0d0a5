package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/fit-advisor/internal/fit"
)

type categoriesFilter struct {
	categories []fit.Category
	disabled   bool
	reason     string
}

// NewCategories creates a filter that keeps products of the configured categories.
func NewCategories() Filter {
	return &categoriesFilter{}
}

func (f *categoriesFilter) Name() string { return "categories" }

func (f *categoriesFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *categoriesFilter) IsEnabled() bool { return !f.disabled }

func (f *categoriesFilter) Validate(cfg *Config) error {
	f.categories = nil
	if cfg == nil {
		return nil
	}
	for _, c := range cfg.Categories {
		if !c.Valid() {
			return fmt.Errorf("%w: %q", fit.ErrUnknownCategory, c)
		}
	}
	f.categories = append(f.categories, cfg.Categories...)
	return nil
}

func (f *categoriesFilter) Apply(_ context.Context, deps Deps, p *Products) (*Products, Step, error) {
	initial := p.Len()
	if len(f.categories) == 0 {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	excluded := p.Exclude(func(c *Candidate) bool {
		return !slices.Contains(f.categories, c.Product.FitCategory)
	})
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Debug("excluding products by category",
			zap.Strings("excluded_products", excluded),
			zap.Int("products_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(excluded), Left: p.Len()}, nil
}

func (f *categoriesFilter) Status() Status {
	details := map[string]string{}
	if len(f.categories) > 0 {
		names := make([]string, 0, len(f.categories))
		for _, c := range f.categories {
			names = append(names, c.String())
		}
		details["categories"] = strings.Join(names, ",")
	}
	return Status{Name: f.Name(), Enabled: !f.disabled, Reason: f.reason, Details: details}
}
