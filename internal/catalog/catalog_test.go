package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/fit-advisor/internal/fit"
	"github.com/spigell/fit-advisor/internal/store"
)

func f64(v float64) *float64 { return &v }

func testProducts() []store.Product {
	return []store.Product{
		{ID: 1, Name: "Shirt", FitCategory: fit.UpperFittedCategory, Chest: f64(96), Waist: f64(84)},
		{ID: 2, Name: "Tee", FitCategory: fit.UpperLooseCategory, Chest: f64(104)},
		{ID: 3, Name: "Jeans", FitCategory: fit.LowerFittedCategory, Waist: f64(76)},
		{ID: 4, Name: "Dress", FitCategory: fit.DressesCategory, Chest: f64(90), Waist: f64(72), Hip: f64(98)},
	}
}

func scoreByChest(predictions map[float64]fit.Response) Evaluator {
	return EvaluatorFunc(func(_ context.Context, req fit.Request) fit.Result {
		if req.ProductDetails.ChestCM == nil {
			return fit.Failed(nil)
		}
		resp, ok := predictions[*req.ProductDetails.ChestCM]
		if !ok {
			return fit.Failed(nil)
		}
		return fit.Succeeded(resp)
	})
}

func ids(p *Products) []uint {
	out := make([]uint, 0, p.Len())
	for _, c := range p.Items {
		out = append(out, c.Product.ID)
	}
	return out
}

func equalIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRunDefaultPipeline(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	user := fit.Measurements{fit.Bust: 92, fit.Waist: 74, fit.Hip: 100}

	evaluator := scoreByChest(map[float64]fit.Response{
		96:  {PredictedFit: "Perfect Fit", Probabilities: map[string]float64{"Perfect Fit": 0.7}},
		104: {PredictedFit: "Slightly Loose", Probabilities: map[string]float64{"Slightly Loose": 0.9}},
		90:  {PredictedFit: "Perfect Fit", Probabilities: map[string]float64{"Perfect Fit": 0.95}},
	})

	steps := Default()
	result, err := Run(context.Background(), &Config{}, Deps{Logger: zap.New(core), User: user, Evaluator: evaluator}, steps, NewProducts(testProducts()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Jeans lack a hip measurement, the tee is not a perfect fit, and the
	// dress outranks the shirt.
	if got := ids(result); !equalIDs(got, []uint{4, 1}) {
		t.Fatalf("unexpected products: %v", got)
	}

	stepLogs := observed.FilterMessage("filter step").All()
	if len(stepLogs) != len(steps) {
		t.Fatalf("expected %d step logs, got %d", len(steps), len(stepLogs))
	}
	measurable := stepLogs[1].ContextMap()
	if measurable["name"] != "measurable" || measurable["dropped"] != int64(1) {
		t.Fatalf("unexpected measurable step: %v", measurable)
	}
}

func TestCategoriesFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		categories []fit.Category
		expect     []uint
		expectErr  bool
	}{
		{name: "no categories keeps everything", expect: []uint{1, 2, 3, 4}},
		{name: "single category", categories: []fit.Category{fit.DressesCategory}, expect: []uint{4}},
		{name: "several categories", categories: []fit.Category{fit.UpperLooseCategory, fit.LowerFittedCategory}, expect: []uint{2, 3}},
		{name: "unknown category", categories: []fit.Category{"capes"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			filter := NewCategories()
			err := filter.Validate(&Config{Categories: tt.categories})
			if tt.expectErr {
				if !errors.Is(err, fit.ErrUnknownCategory) {
					t.Fatalf("expected unknown category error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			p, step, err := filter.Apply(context.Background(), Deps{}, NewProducts(testProducts()))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := ids(p); !equalIDs(got, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
			if step.Initial != 4 || step.Left != len(tt.expect) || step.Dropped != 4-len(tt.expect) {
				t.Fatalf("unexpected step: %+v", step)
			}
		})
	}
}

func TestMeasurableFilterAttachesRequests(t *testing.T) {
	user := fit.Measurements{fit.Bust: 92, fit.Waist: 74}

	p, step, err := NewMeasurable().Apply(context.Background(), Deps{User: user}, NewProducts(testProducts()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(p); !equalIDs(got, []uint{1, 2}) {
		t.Fatalf("unexpected products: %v", got)
	}
	if step.Dropped != 2 {
		t.Fatalf("unexpected step: %+v", step)
	}

	shirt := p.Items[0].Request
	if shirt == nil || shirt.UserProfile.HipCM != nil || *shirt.UserProfile.BustCM != 92 || *shirt.ProductDetails.ChestCM != 96 {
		t.Fatalf("unexpected request: %+v", shirt)
	}
	tee := p.Items[1].Request
	if tee == nil || tee.UserProfile.WaistCM != nil {
		t.Fatalf("loose tops must only carry bust: %+v", tee)
	}
}

func TestFitFilter(t *testing.T) {
	t.Parallel()

	responses := map[float64]fit.Response{
		96:  {PredictedFit: "Perfect Fit", Probabilities: map[string]float64{"Perfect Fit": 0.65}},
		104: {PredictedFit: "Slightly Loose", Probabilities: map[string]float64{"Slightly Loose": 0.85}},
		90:  {PredictedFit: "Perfect Fit", Probabilities: map[string]float64{"Perfect Fit": 0.4}},
	}

	tests := []struct {
		name   string
		cfg    *Config
		expect []uint
	}{
		{name: "defaults", cfg: nil, expect: []uint{1}},
		{name: "low confidence accepted", cfg: &Config{MinConfidence: fit.ConfidenceLow}, expect: []uint{1, 4}},
		{name: "high confidence only", cfg: &Config{MinConfidence: fit.ConfidenceHigh}, expect: []uint{}},
		{name: "custom labels ordered by probability", cfg: &Config{Accept: []string{"Perfect Fit", "Slightly Loose"}, MinConfidence: fit.ConfidenceLow}, expect: []uint{2, 1, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			deps := Deps{User: fit.Measurements{fit.Bust: 92, fit.Waist: 74, fit.Hip: 100}, Evaluator: scoreByChest(responses)}

			products := NewProducts(testProducts())
			products, _, err := NewMeasurable().Apply(context.Background(), deps, products)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			filter := NewFit()
			if err := filter.Validate(tt.cfg); err != nil {
				t.Fatalf("unexpected validate error: %v", err)
			}
			p, _, err := filter.Apply(context.Background(), deps, products)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := ids(p); !equalIDs(got, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestFitFilterRespectsConcurrencyAndKeepsFailuresOut(t *testing.T) {
	var inFlight, peak atomic.Int64
	evaluator := EvaluatorFunc(func(context.Context, fit.Request) fit.Result {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		return fit.Failed(nil)
	})

	products := make([]store.Product, 0, 20)
	for i := range 20 {
		products = append(products, store.Product{ID: uint(i + 1), FitCategory: fit.UpperLooseCategory, Chest: f64(100)})
	}
	deps := Deps{User: fit.Measurements{fit.Bust: 92}, Evaluator: evaluator}

	p, _, err := NewMeasurable().Apply(context.Background(), deps, NewProducts(products))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	filter := NewFit()
	if err := filter.Validate(&Config{Concurrency: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, step, err := filter.Apply(context.Background(), deps, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Len() != 0 || step.Dropped != 20 {
		t.Fatalf("failed evaluations must not be recommended: %+v", step)
	}
	if peak.Load() > 2 {
		t.Fatalf("expected at most 2 concurrent evaluations, got %d", peak.Load())
	}

	status := Describe([]Filter{filter})[0]
	if status.Details["failed"] != "20" || status.Details["concurrency"] != "2" {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestFitFilterRequiresEvaluator(t *testing.T) {
	filter := NewFit()
	_ = filter.Validate(nil)
	if _, _, err := filter.Apply(context.Background(), Deps{}, NewProducts(testProducts())); err == nil {
		t.Fatalf("expected error without evaluator")
	}
}

func TestDisabledFilterIsSkipped(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	steps := Default()
	DisableByName(steps, "fit", "scorer unavailable")

	p, err := Run(context.Background(), nil, Deps{Logger: zap.New(core), User: fit.Measurements{fit.Bust: 92}}, steps, NewProducts(testProducts()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(p); !equalIDs(got, []uint{2}) {
		t.Fatalf("unexpected products: %v", got)
	}
	if observed.FilterMessage("filter disabled").Len() != 1 {
		t.Fatalf("expected disabled filter to be logged")
	}

	for _, status := range Describe(steps) {
		if status.Name == "fit" && (status.Enabled || status.Reason != "scorer unavailable") {
			t.Fatalf("unexpected fit status: %+v", status)
		}
	}
}

func TestFitFilterStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	deps := Deps{
		User: fit.Measurements{fit.Bust: 92},
		Evaluator: EvaluatorFunc(func(ctx context.Context, _ fit.Request) fit.Result {
			return fit.Failed(nil)
		}),
	}
	p, _, _ := NewMeasurable().Apply(ctx, deps, NewProducts(testProducts()))

	filter := NewFit()
	_ = filter.Validate(nil)
	if _, _, err := filter.Apply(ctx, deps, p); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
