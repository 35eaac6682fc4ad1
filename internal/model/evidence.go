package model

// Evidence is a named supporting fact attached to an analysis
type Evidence struct {
	Name   string `json:"name,omitempty"` // Tool or source name, empty when the backend omitted it
	Result string `json:"result"`         // Display form: strings verbatim, anything else as compact JSON
}
