package fit

import "fmt"

const (
	FallbackMessage = "Unable to determine fit. Please check measurements."

	perfectFitMessage    = "This item should fit you perfectly! 👌"
	goodFitMessage       = "This item looks like a good fit for you! 👍"
	slightlyTightMessage = "This might be a bit snug. Consider sizing up for comfort. 📏"
	slightlyLooseMessage = "This might be a bit loose. You could try sizing down. 📐"
	veryTightMessage     = "This will likely be too tight. We recommend going up a size. ⬆️"
	veryLooseMessage     = "This will likely be too loose. We recommend going down a size. ⬇️"
)

// GenerateMessage turns a result into text for shoppers. Failures always map
// to FallbackMessage so error details never reach the user.
func GenerateMessage(result Result) string {
	resp, tier, ok := result.Success()
	if !ok {
		return FallbackMessage
	}

	label := resp.Label()
	switch label.Kind() {
	case LabelPerfectFit:
		if tier == ConfidenceHigh {
			return perfectFitMessage
		}
		return goodFitMessage
	case LabelSlightlyTight:
		return slightlyTightMessage
	case LabelSlightlyLoose:
		return slightlyLooseMessage
	case LabelVeryTight:
		return veryTightMessage
	case LabelVeryLoose:
		return veryLooseMessage
	case LabelUnrecognized:
		return fmt.Sprintf("Predicted fit: %s", label)
	}

	return fmt.Sprintf("Predicted fit: %s", label)
}
