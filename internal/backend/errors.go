package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrAuthRequired is returned when the credential endpoint rejects the session
	ErrAuthRequired = errors.New("authentication required")
	// ErrMissingAPIKey is returned when the credential endpoint answers without a key
	ErrMissingAPIKey = errors.New("no api key in response")
)

// StatusError is a non-2xx response from the backend
type StatusError struct {
	Code       int
	StatusText string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Network response was not ok: %d %s", e.Code, e.StatusText)
}

func newStatusError(resp *http.Response) *StatusError {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return &StatusError{Code: resp.StatusCode, StatusText: text}
}

// IsStatus reports whether err is a StatusError carrying code
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
