package fit

import "fmt"

// ConfidenceTier buckets the probability of the predicted label.
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "High"
	ConfidenceMedium ConfidenceTier = "Medium"
	ConfidenceLow    ConfidenceTier = "Low"
)

const (
	highThreshold   = 0.8
	mediumThreshold = 0.6
)

// ClassifyConfidence looks up the probability of label. A missing label
// counts as zero. Values are not range checked.
func ClassifyConfidence(probabilities map[string]float64, label string) ConfidenceTier {
	p := probabilities[label]
	switch {
	case p >= highThreshold:
		return ConfidenceHigh
	case p >= mediumThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ParseConfidence accepts the tier names used in configuration and query strings.
func ParseConfidence(s string) (ConfidenceTier, error) {
	switch s {
	case "High", "high":
		return ConfidenceHigh, nil
	case "Medium", "medium":
		return ConfidenceMedium, nil
	case "Low", "low", "":
		return ConfidenceLow, nil
	default:
		return "", fmt.Errorf("unknown confidence tier %q", s)
	}
}

// Rank orders tiers: Low < Medium < High.
func (t ConfidenceTier) Rank() int {
	switch t {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether t is the same as or above min.
func (t ConfidenceTier) AtLeast(min ConfidenceTier) bool {
	return t.Rank() >= min.Rank()
}
