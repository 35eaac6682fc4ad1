package model

import "encoding/json"

// SharedResultRecord is the body persisted by the share endpoint
type SharedResultRecord struct {
	Query      string          `json:"query"`
	ResultData json.RawMessage `json:"result_data"` // The payload exactly as it was rendered
	IsPublic   bool            `json:"is_public"`
}

// ShareResponse is the share endpoint's reply
type ShareResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	SharedURL string `json:"shared_url,omitempty"` // Path relative to the backend origin
}

// QueryRequest is the body submitted to the query service
type QueryRequest struct {
	Body    string   `json:"body"`
	Sources []string `json:"sources"`
}

// APIKeyResponse is the credential endpoint's reply
type APIKeyResponse struct {
	APIKey string `json:"api_key"`
}
