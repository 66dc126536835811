package jsonfield

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringifyObjectRoundTrip(t *testing.T) {
	in := map[string]any{"total": 1500.5, "orders": []any{"a", "b"}}
	s, err := Stringify(in)
	require.NoError(t, err)
	assert.Equal(t, in, Parse(s))
}

func TestStringifyArrayRoundTrip(t *testing.T) {
	in := []any{float64(1), "two", map[string]any{"three": true}}
	s, err := Stringify(in)
	require.NoError(t, err)
	assert.Equal(t, in, Parse(s))
}

func TestStringifyPlainStringWraps(t *testing.T) {
	s, err := Stringify("hello")
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hello"}`, s)
	assert.Equal(t, map[string]any{"text": "hello"}, Parse(s))
}

func TestStringifyJSONStringKept(t *testing.T) {
	s, err := Stringify(`{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, s)
}

func TestStringifyScalarsAndNil(t *testing.T) {
	s, err := Stringify(42)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":42}`, s)

	s, err = Stringify(true)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":true}`, s)

	s, err = Stringify(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", s)

	s, err = Stringify(json.RawMessage(`[1,2]`))
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", s)
}

func TestParseFallbacks(t *testing.T) {
	assert.Equal(t, map[string]any{}, Parse(""))
	assert.Equal(t, map[string]any{"text": "not json"}, Parse("not json"))
}

func TestStringifyUnsupported(t *testing.T) {
	_, err := Stringify(map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}
