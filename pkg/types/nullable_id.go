package types

import (
	"bytes"
	"encoding/json"
)

// NullableID tracks whether an optional foreign key was explicitly present in
// a JSON payload, so partial updates can tell "unset" apart from "null".
type NullableID struct {
	Valid bool
	Value *uint
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	n.Valid = true
	if bytes.Equal(trimmed, []byte("null")) {
		n.Value = nil
		return nil
	}

	var parsed uint
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	n.Value = &parsed
	return nil
}

// Column returns the value to write into a nullable column.
func (n NullableID) Column() any {
	if n.Value == nil {
		return nil
	}
	return *n.Value
}
