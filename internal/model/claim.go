package model

// LabelTrue is the only label value rendered as an affirmative verdict.
// Comparison is exact: "True", "TRUE", a JSON boolean or a missing label are all negative.
const LabelTrue = "true"

// Analysis is one checked claim together with its verdict
type Analysis struct {
	Claim         string     `json:"claim"`                   // Claim text (may be empty in the legacy array format)
	Label         string     `json:"label"`                   // Verdict label; only set when the payload carried a JSON string
	Justification string     `json:"justification,omitempty"` // Reasoning behind the verdict
	Evidence      []Evidence `json:"evidence,omitempty"`      // Supporting facts consulted by the backend
}

// Affirmative reports whether the verdict is exactly "true"
func (a Analysis) Affirmative() bool {
	return IsAffirmative(a.Label)
}

// IsAffirmative applies the strict verdict rule to a raw label
func IsAffirmative(label string) bool {
	return label == LabelTrue
}
