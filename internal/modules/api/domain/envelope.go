package domain

import (
	"encoding/json"
	"strings"

	"dareNowConsole/internal/shared/normalization"
)

// Decode parses a JSON response body. An empty body decodes to nil.
func Decode(body []byte) (any, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Unwrap returns the content of a {data: ...} envelope, or payload itself.
func Unwrap(payload any) any {
	if root := normalization.AsMap(payload); root != nil {
		if inner, ok := root["data"]; ok && inner != nil {
			return inner
		}
	}
	return payload
}

// ErrorMessage extracts the server's explanation from an error body: message, then
// responseMsg, then error. Plain-text bodies are returned trimmed.
func ErrorMessage(body []byte) string {
	payload, err := Decode(body)
	if err != nil {
		text := strings.TrimSpace(string(body))
		if len(text) > 200 || strings.HasPrefix(text, "<") {
			return ""
		}
		return text
	}
	root := normalization.AsMap(payload)
	if root == nil {
		return normalization.AsString(payload)
	}
	if msg := normalization.FirstString(root, "message", "responseMsg", "error"); msg != "" {
		return msg
	}
	return normalization.FirstString(normalization.AsMap(root["data"]), "message", "responseMsg", "error")
}
