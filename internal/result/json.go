package result

import (
	"bytes"
	"encoding/json"
)

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// elements splits a JSON array; anything else yields no elements
func elements(raw json.RawMessage) []json.RawMessage {
	if !isArray(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// stringOf returns the value of a JSON string and "" for every other value
func stringOf(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// textOf renders a value as text: strings verbatim, null or absent as "",
// anything else as compact JSON
func textOf(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		return stringOf(trimmed)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}

// truthyText is textOf for fields that fall back to a placeholder when falsy
func truthyText(raw json.RawMessage) string {
	if !truthy(raw) {
		return ""
	}
	return textOf(raw)
}

// resultText renders an evidence result. Null is serialized rather than dropped.
func resultText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return "null"
	}
	return textOf(trimmed)
}

// truthy mirrors JSON-value truthiness: absent, null, false, 0 and "" are falsy
func truthy(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}

	switch trimmed[0] {
	case 'n', 'f':
		return false
	case '"':
		return stringOf(trimmed) != ""
	case '{', '[', 't':
		return true
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return false
		}
		return n != 0
	}
}

// Indent pretty-prints a payload with two-space indentation for the raw-data panel
func Indent(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
