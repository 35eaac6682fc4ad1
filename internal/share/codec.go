package share

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errOuterNotText = errors.New("outer payload is an array or object")

// DecodeEmbedded unwraps a doubly JSON-encoded payload: the outer value is a
// JSON string whose content is the payload itself. An outer number, boolean
// or null stands for its own text, so it decodes to itself and renders as an
// unrecognized result.
func DecodeEmbedded(embedded string) ([]byte, error) {
	var outer any
	if err := json.Unmarshal([]byte(embedded), &outer); err != nil {
		return nil, fmt.Errorf("decode outer payload: %w", err)
	}

	var inner string
	switch v := outer.(type) {
	case string:
		inner = v
	case []any, map[string]any:
		return nil, fmt.Errorf("decode outer payload: %w", errOuterNotText)
	default:
		inner = strings.TrimSpace(embedded)
	}

	var payload json.RawMessage
	if err := json.Unmarshal([]byte(inner), &payload); err != nil {
		return nil, fmt.Errorf("decode inner payload: %w", err)
	}
	return payload, nil
}

// EncodeEmbedded is the inverse of DecodeEmbedded
func EncodeEmbedded(payload []byte) (string, error) {
	if !json.Valid(payload) {
		return "", fmt.Errorf("payload is not valid JSON")
	}
	outer, err := json.Marshal(string(payload))
	if err != nil {
		return "", err
	}
	return string(outer), nil
}
