package canonical

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapping_SetLastWriteWins(t *testing.T) {
	m := NewMapping(0)
	m.Set("a", Int(1))
	m.Set("b", Int(2))
	m.Set("a", Int(3))

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, Int(3), v)
}

func TestMapping_LargeUsesIndex(t *testing.T) {
	m := NewMapping(0)
	for i := 0; i < 100; i++ {
		m.Set(strconv.Itoa(i), Int(i))
	}
	m.Set("42", Text("replaced"))

	assert.Equal(t, 100, m.Len())
	assert.Equal(t, "42", m.Keys()[42])
	v, ok := m.Get("42")
	require.True(t, ok)
	assert.Equal(t, Text("replaced"), v)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestMapping_NilIsEmpty(t *testing.T) {
	var m *Mapping
	assert.Zero(t, m.Len())
	assert.Empty(t, m.Keys())
	_, ok := m.Get("x")
	assert.False(t, ok)
}

func TestMapping_RangeStops(t *testing.T) {
	m := MappingOf(
		Entry{Key: "a", Value: Int(1)},
		Entry{Key: "b", Value: Int(2)},
		Entry{Key: "c", Value: Int(3)},
	)

	var seen []string
	m.Range(func(key string, _ Value) bool {
		seen = append(seen, key)
		return key != "b"
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}
