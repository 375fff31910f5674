package snapshot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericReads(t *testing.T) {
	m := Map{"a": 3, "b": int64(4), "c": float64(5.9), "d": "x"}
	assert.Equal(t, 3, Int(m, "a"))
	assert.Equal(t, 4, Int(m, "b"))
	assert.Equal(t, 5, Int(m, "c"))
	assert.Equal(t, 0, Int(m, "d"))
	assert.Equal(t, 0, Int(m, "missing"))

	assert.Equal(t, 3.0, Float(m, "a"))
	assert.Equal(t, 5.9, Float(m, "c"))
	assert.Equal(t, 0.0, Float(m, "missing"))
}

func TestStringAndBool(t *testing.T) {
	m := Map{"s": "hello", "b": true, "n": 1}
	assert.Equal(t, "hello", String(m, "s"))
	assert.Equal(t, "", String(m, "n"))
	assert.True(t, Bool(m, "b"))
	assert.False(t, Bool(m, "n"))
}

func TestSliceReads(t *testing.T) {
	m := Map{
		"maps":  []any{Map{"k": 1}, "not a map", Map{"k": 2}},
		"typed": []Map{{"k": 3}},
		"strs":  []any{"a", 1, "b"},
	}
	assert.Equal(t, []Map{{"k": 1}, {"k": 2}}, MapSlice(m, "maps"))
	assert.Equal(t, []Map{{"k": 3}}, MapSlice(m, "typed"))
	assert.Nil(t, MapSlice(m, "missing"))
	assert.Equal(t, []string{"a", "b"}, StringSlice(m, "strs"))
}

func TestNested(t *testing.T) {
	m := Map{"inner": Map{"x": 1}}
	assert.Equal(t, Map{"x": 1}, Nested(m, "inner"))
	assert.Nil(t, Nested(m, "missing"))
}

// JSON round trips turn every number into float64; the readers must still
// produce the original integers.
func TestJSONRoundTripReads(t *testing.T) {
	raw, err := json.Marshal(Map{"hp": 17, "items": []Map{{"value": 25}}, "name": "Kai"})
	require.NoError(t, err)

	var m Map
	require.NoError(t, json.Unmarshal(raw, &m))

	assert.Equal(t, 17, Int(m, "hp"))
	assert.Equal(t, "Kai", String(m, "name"))
	items := MapSlice(m, "items")
	require.Len(t, items, 1)
	assert.Equal(t, 25, Int(items[0], "value"))
}
