package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/fit-advisor/internal/fit"
)

type measurableFilter struct{}

// NewMeasurable creates a filter that drops products which cannot be scored
// because the user or the garment lacks a measurement the category needs.
// Surviving candidates get their prediction request attached.
func NewMeasurable() Filter {
	return &measurableFilter{}
}

func (f *measurableFilter) Name() string { return "measurable" }

func (f *measurableFilter) Disable(string) {}

func (f *measurableFilter) IsEnabled() bool { return true }

func (f *measurableFilter) Validate(*Config) error { return nil }

func (f *measurableFilter) Apply(_ context.Context, deps Deps, p *Products) (*Products, Step, error) {
	initial := p.Len()

	excluded := p.Exclude(func(c *Candidate) bool {
		req, err := requestFor(deps.User, c)
		if err != nil {
			if deps.Logger != nil {
				deps.Logger.Debug("product is not measurable",
					zap.Uint("product_id", c.Product.ID),
					zap.Error(err),
				)
			}
			return true
		}
		c.Request = &req
		return false
	})
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding products with incomplete measurements",
			zap.Strings("excluded_products", excluded),
			zap.Int("products_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(excluded), Left: p.Len()}, nil
}

func requestFor(user fit.Measurements, c *Candidate) (fit.Request, error) {
	category := c.Product.FitCategory

	u, err := user.Only(category.UserKeys())
	if err != nil {
		return fit.Request{}, err
	}
	g, err := c.Product.Measurements().Only(category.ProductKeys())
	if err != nil {
		return fit.Request{}, err
	}

	return fit.BuildRequest(category, u, g)
}
