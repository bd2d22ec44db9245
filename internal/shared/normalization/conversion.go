package normalization

import (
	"strconv"
	"strings"
)

// AsString trims and returns the string representation of value when possible.
// Numbers are rendered without a fractional part when they are integral, since the
// REST layer sends identifiers either as strings or as JSON numbers.
func AsString(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		if typed == float64(int64(typed)) {
			return strconv.FormatInt(int64(typed), 10)
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return ""
	}
}

// AsInt coerces numeric values supported by the REST layer into Go ints.
func AsInt(value any) int {
	switch typed := value.(type) {
	case float64:
		return int(typed)
	case float32:
		return int(typed)
	case int:
		return typed
	case int32:
		return int(typed)
	case int64:
		return int(typed)
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(typed)); err == nil {
			return parsed
		}
	}
	return 0
}

// AsBool accepts JSON booleans and the usual textual spellings.
func AsBool(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		return err == nil && parsed
	default:
		return false
	}
}

// AsInterfaceSlice normalizes different collection types into a []any.
func AsInterfaceSlice(value any) []any {
	switch typed := value.(type) {
	case []any:
		return typed
	case []map[string]any:
		items := make([]any, 0, len(typed))
		for _, entry := range typed {
			items = append(items, entry)
		}
		return items
	default:
		return nil
	}
}

// AsMap returns value as a JSON object or nil.
func AsMap(value any) map[string]any {
	typed, _ := value.(map[string]any)
	return typed
}

// MapFromPayload unwraps the {"data": {...}} envelope used by the REST API into a plain map.
// Bare objects are returned as is.
func MapFromPayload(value any) map[string]any {
	if value == nil {
		return nil
	}
	if typed, ok := value.(map[string]any); ok {
		if data, ok := typed["data"].(map[string]any); ok {
			return data
		}
		return typed
	}
	return nil
}

// FirstString returns the first non-empty string found under keys.
func FirstString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if value := AsString(raw[key]); value != "" {
			return value
		}
	}
	return ""
}
