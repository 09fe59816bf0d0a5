package fit

import "testing"

func TestClassifyConfidence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		p      float64
		expect ConfidenceTier
	}{
		{name: "certain", p: 1, expect: ConfidenceHigh},
		{name: "high boundary", p: 0.8, expect: ConfidenceHigh},
		{name: "just below high", p: 0.7999, expect: ConfidenceMedium},
		{name: "medium boundary", p: 0.6, expect: ConfidenceMedium},
		{name: "just below medium", p: 0.5999, expect: ConfidenceLow},
		{name: "zero", p: 0, expect: ConfidenceLow},
		{name: "out of range values are trusted", p: 3.5, expect: ConfidenceHigh},
		{name: "negative", p: -0.2, expect: ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			probs := map[string]float64{"Perfect Fit": tt.p, "Very Loose": 0.99}
			if got := ClassifyConfidence(probs, "Perfect Fit"); got != tt.expect {
				t.Fatalf("p=%v: expected %s, got %s", tt.p, tt.expect, got)
			}
		})
	}
}

func TestClassifyConfidenceMissingLabel(t *testing.T) {
	probs := map[string]float64{"Very Tight": 0.95}
	if got := ClassifyConfidence(probs, "Perfect Fit"); got != ConfidenceLow {
		t.Fatalf("expected Low for missing label, got %s", got)
	}

	if got := ClassifyConfidence(nil, "Perfect Fit"); got != ConfidenceLow {
		t.Fatalf("expected Low for nil probabilities, got %s", got)
	}
}

func TestConfidenceAtLeast(t *testing.T) {
	if !ConfidenceHigh.AtLeast(ConfidenceMedium) {
		t.Fatalf("High must satisfy Medium")
	}
	if ConfidenceLow.AtLeast(ConfidenceMedium) {
		t.Fatalf("Low must not satisfy Medium")
	}
	if !ConfidenceMedium.AtLeast(ConfidenceMedium) {
		t.Fatalf("a tier satisfies itself")
	}
}

func TestParseConfidence(t *testing.T) {
	for input, expect := range map[string]ConfidenceTier{
		"high":   ConfidenceHigh,
		"Medium": ConfidenceMedium,
		"":       ConfidenceLow,
	} {
		got, err := ParseConfidence(input)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", input, err)
		}
		if got != expect {
			t.Fatalf("%q: expected %s, got %s", input, expect, got)
		}
	}

	if _, err := ParseConfidence("certain"); err == nil {
		t.Fatalf("expected error for unknown tier")
	}
}
