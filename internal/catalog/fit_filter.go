package catalog

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/fit-advisor/internal/fit"
	"github.com/spigell/fit-advisor/internal/logger"
)

const (
	DefaultConcurrency   = 4
	DefaultMinConfidence = fit.ConfidenceMedium
)

// DefaultAccept holds the labels recommended when none are configured.
var DefaultAccept = []string{"Perfect Fit"}

type fitFilter struct {
	disabled      bool
	reason        string
	accept        []string
	minConfidence fit.ConfidenceTier
	concurrency   int
	failed        atomic.Int64
}

// NewFit creates the step asking the scorer about every candidate and keeping
// the accepted predictions.
func NewFit() Filter {
	return &fitFilter{}
}

func (f *fitFilter) Name() string { return "fit" }

func (f *fitFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *fitFilter) IsEnabled() bool { return !f.disabled }

func (f *fitFilter) Validate(cfg *Config) error {
	f.accept = DefaultAccept
	f.minConfidence = DefaultMinConfidence
	f.concurrency = DefaultConcurrency
	if cfg == nil {
		return nil
	}

	if len(cfg.Accept) > 0 {
		f.accept = append([]string(nil), cfg.Accept...)
	}
	if cfg.MinConfidence != "" {
		tier, err := fit.ParseConfidence(string(cfg.MinConfidence))
		if err != nil {
			return err
		}
		f.minConfidence = tier
	}
	if cfg.Concurrency > 0 {
		f.concurrency = cfg.Concurrency
	}
	return nil
}

func (f *fitFilter) Apply(ctx context.Context, deps Deps, p *Products) (*Products, Step, error) {
	initial := p.Len()
	if deps.Evaluator == nil {
		return p, Step{}, errors.New("evaluator is required for fit evaluation")
	}

	f.failed.Store(0)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for _, c := range p.Items {
		if c.Request == nil {
			continue
		}
		g.Go(func() error {
			c.Result = deps.Evaluator.Evaluate(gctx, *c.Request)
			if fail, failed := c.Result.Failure(); failed {
				f.failed.Add(1)
				if deps.Logger != nil {
					deps.Logger.Warn("fit evaluation failed",
						append(logger.EntityFields(0, c.Product.ID), zap.Error(fail))...,
					)
				}
			}
			return nil
		})
	}
	// Evaluations never return errors; failures stay in each Result.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return p, Step{}, err
	}

	excluded := p.Exclude(func(c *Candidate) bool { return !f.accepted(c.Result) })
	if deps.Logger != nil {
		deps.Logger.Info("fit evaluation completed",
			zap.Int("initial_products", initial),
			zap.Int("accepted_products", p.Len()),
			zap.Int64("failed_products", f.failed.Load()),
		)
	}

	slices.SortStableFunc(p.Items, func(a, b *Candidate) int {
		return compareProbability(b, a)
	})

	return p, Step{Initial: initial, Dropped: len(excluded), Left: p.Len()}, nil
}

func (f *fitFilter) accepted(result fit.Result) bool {
	resp, tier, ok := result.Success()
	if !ok {
		return false
	}
	return slices.Contains(f.accept, resp.PredictedFit) && tier.AtLeast(f.minConfidence)
}

func (f *fitFilter) Status() Status {
	details := map[string]string{
		"accept":         strings.Join(f.accept, ","),
		"min_confidence": string(f.minConfidence),
		"concurrency":    strconv.Itoa(f.concurrency),
		"failed":         strconv.FormatInt(f.failed.Load(), 10),
	}
	return Status{Name: f.Name(), Enabled: !f.disabled, Reason: f.reason, Details: details}
}

func compareProbability(a, b *Candidate) int {
	pa, pb := probability(a.Result), probability(b.Result)
	switch {
	case pa < pb:
		return -1
	case pa > pb:
		return 1
	default:
		return 0
	}
}

func probability(r fit.Result) float64 {
	resp, _, ok := r.Success()
	if !ok {
		return 0
	}
	return resp.Probability()
}
