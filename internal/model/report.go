package model

import "encoding/json"

// ResultKind discriminates the recognized shapes of a query response
type ResultKind int

const (
	KindUnrecognized ResultKind = iota // Matches none of the known shapes
	KindAnalyses                       // {analyses: [...], final_label, final_justification}
	KindClaims                         // {claims: [...], labels: [...], justifications: [...]}
	KindArray                          // [{claim, label, justification, evidence}, ...]
)

func (k ResultKind) String() string {
	switch k {
	case KindAnalyses:
		return "analyses"
	case KindClaims:
		return "claims"
	case KindArray:
		return "array"
	default:
		return "unrecognized"
	}
}

// QueryResult is a classified query response. Exactly the fields belonging to
// Kind are populated; Raw always holds the payload as received.
type QueryResult struct {
	Kind ResultKind `json:"kind"`

	// KindAnalyses and KindArray
	Analyses []Analysis `json:"analyses,omitempty"`

	// KindClaims: three index-aligned sequences, not required to have equal length
	Claims         []string `json:"claims,omitempty"`
	Labels         []string `json:"labels,omitempty"`
	Justifications []string `json:"justifications,omitempty"`

	// Final verdict (KindAnalyses and KindClaims)
	FinalVerdict *FinalVerdict `json:"final_verdict,omitempty"`

	Raw json.RawMessage `json:"raw"`
}

// FinalVerdict is the overall verdict, present only when both the final label
// and the final justification were non-empty in the payload
type FinalVerdict struct {
	Label         string `json:"label"`         // Strict label, empty unless the payload carried a JSON string
	LabelText     string `json:"label_text"`    // Label as displayed next to the icon
	Justification string `json:"justification"` // Final justification text
}

// Recognized reports whether the result matched one of the known shapes
func (r QueryResult) Recognized() bool {
	return r.Kind != KindUnrecognized
}

// Len returns the number of cards the result renders
func (r QueryResult) Len() int {
	switch r.Kind {
	case KindClaims:
		return len(r.Claims)
	case KindAnalyses, KindArray:
		return len(r.Analyses)
	default:
		return 0
	}
}

// ClaimAt returns the legacy claim at index i as an Analysis. Missing parallel
// entries come back empty.
func (r QueryResult) ClaimAt(i int) Analysis {
	var a Analysis
	if i < len(r.Claims) {
		a.Claim = r.Claims[i]
	}
	if i < len(r.Labels) {
		a.Label = r.Labels[i]
	}
	if i < len(r.Justifications) {
		a.Justification = r.Justifications[i]
	}
	return a
}
