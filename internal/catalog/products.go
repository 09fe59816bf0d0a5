package catalog

import (
	"slices"
	"strconv"

	"github.com/spigell/fit-advisor/internal/fit"
	"github.com/spigell/fit-advisor/internal/store"
)

// Candidate is a product moving through the pipeline. Request is filled by
// the measurable step, Result by the fit step.
type Candidate struct {
	Product store.Product
	Request *fit.Request
	Result  fit.Result
}

func (c *Candidate) ID() string {
	return strconv.FormatUint(uint64(c.Product.ID), 10)
}

type Products struct {
	Items []*Candidate
}

func NewProducts(products []store.Product) *Products {
	p := &Products{Items: make([]*Candidate, 0, len(products))}
	for _, product := range products {
		p.Items = append(p.Items, &Candidate{Product: product})
	}
	return p
}

func (p *Products) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}

// Exclude removes the candidates matching drop and returns their ids.
func (p *Products) Exclude(drop func(*Candidate) bool) []string {
	var excluded []string
	p.Items = slices.DeleteFunc(p.Items, func(c *Candidate) bool {
		if drop(c) {
			excluded = append(excluded, c.ID())
			return true
		}
		return false
	})
	return excluded
}
