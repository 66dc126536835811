// Package jsonfield serializes free-form report content into a text column
// and back.
package jsonfield

import (
	"encoding/json"
	"fmt"
	"strings"
)

const emptyObject = "{}"

// Stringify renders v as JSON text for storage.
//
// Objects and arrays are marshaled as-is. A string that already holds valid
// JSON is kept verbatim; any other string is wrapped as {"text": v}. Other
// scalars are wrapped as {"value": v} and nil becomes {}.
func Stringify(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return emptyObject, nil
	case string:
		if json.Valid([]byte(val)) {
			return val, nil
		}
		return marshal(map[string]any{"text": val})
	case json.RawMessage:
		if len(val) == 0 {
			return emptyObject, nil
		}
		if !json.Valid(val) {
			return "", fmt.Errorf("invalid raw json")
		}
		return string(val), nil
	case bool, float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return marshal(map[string]any{"value": val})
	default:
		return marshal(val)
	}
}

// Parse decodes stored text. Empty text yields an empty object and text that
// is not JSON comes back as {"text": s}.
func Parse(s string) any {
	if strings.TrimSpace(s) == "" {
		return map[string]any{}
	}
	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return map[string]any{"text": s}
	}
	return out
}

func marshal(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal json field: %w", err)
	}
	return string(b), nil
}
