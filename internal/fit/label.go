package fit

// LabelKind enumerates the fit labels the scorer is known to produce.
type LabelKind int

const (
	// LabelUnrecognized covers any label outside the known set. The raw
	// string is kept on the Label.
	LabelUnrecognized LabelKind = iota
	LabelPerfectFit
	LabelSlightlyTight
	LabelSlightlyLoose
	LabelVeryTight
	LabelVeryLoose
)

var knownLabels = map[string]LabelKind{
	"Perfect Fit":    LabelPerfectFit,
	"Slightly Tight": LabelSlightlyTight,
	"Slightly Loose": LabelSlightlyLoose,
	"Very Tight":     LabelVeryTight,
	"Very Loose":     LabelVeryLoose,
}

// Label is a parsed predicted_fit value.
type Label struct {
	kind LabelKind
	raw  string
}

// ParseLabel matches s exactly and case-sensitively against the known labels.
func ParseLabel(s string) Label {
	return Label{kind: knownLabels[s], raw: s}
}

func (l Label) Kind() LabelKind { return l.kind }

func (l Label) String() string { return l.raw }

func (l Label) Recognized() bool { return l.kind != LabelUnrecognized }
