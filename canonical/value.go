// Package canonical defines the value domain that a JSON text record can express
// directly, and its encoding.
//
// Values are built by the normalize package from schema-typed cells and handed to
// an Encoder; they hold no references back into the columnar source.
package canonical

// Value is a canonical value: Null, Bool, Int, Uint, Float, Text, Sequence or
// *Mapping.
type Value interface {
	canonicalValue()
}

// Null is the JSON null.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Int is an integral JSON number from a signed source.
type Int int64

// Uint is an integral JSON number from an unsigned source.
type Uint uint64

// Float is a floating point JSON number. Bits is the source width and controls
// the shortest rendering.
type Float struct {
	V    float64
	Bits int
}

// Text is a JSON string.
type Text string

// Sequence is a JSON array.
type Sequence []Value

func (Null) canonicalValue()     {}
func (Bool) canonicalValue()     {}
func (Int) canonicalValue()      {}
func (Uint) canonicalValue()     {}
func (Float) canonicalValue()    {}
func (Text) canonicalValue()     {}
func (Sequence) canonicalValue() {}
func (*Mapping) canonicalValue() {}

// indexThreshold is the size above which a Mapping keeps a key index instead of
// scanning its keys.
const indexThreshold = 16

// Entry is one key/value pair of a Mapping.
type Entry struct {
	Key   string
	Value Value
}

// Mapping is a JSON object with string keys in insertion order. Setting a key
// that is already present replaces its value and keeps its position.
type Mapping struct {
	keys  []string
	vals  []Value
	index map[string]int
}

// NewMapping returns an empty mapping with room for n entries.
func NewMapping(n int) *Mapping {
	return &Mapping{
		keys: make([]string, 0, n),
		vals: make([]Value, 0, n),
	}
}

// MappingOf builds a mapping from entries, applying them in order.
func MappingOf(entries ...Entry) *Mapping {
	m := NewMapping(len(entries))
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Set stores v under key.
func (m *Mapping) Set(key string, v Value) {
	if i, ok := m.lookup(key); ok {
		m.vals[i] = v
		return
	}

	m.keys = append(m.keys, key)
	m.vals = append(m.vals, v)

	switch {
	case m.index != nil:
		m.index[key] = len(m.keys) - 1
	case len(m.keys) > indexThreshold:
		m.index = make(map[string]int, len(m.keys)*2)
		for i, k := range m.keys {
			m.index[k] = i
		}
	}
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.lookup(key)
	if !ok {
		return nil, false
	}
	return m.vals[i], true
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order. The slice must not be modified.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Range calls fn for each entry in order until fn returns false.
func (m *Mapping) Range(fn func(key string, v Value) bool) {
	for i := 0; i < m.Len(); i++ {
		if !fn(m.keys[i], m.vals[i]) {
			return
		}
	}
}

func (m *Mapping) lookup(key string) (int, bool) {
	if m.index != nil {
		i, ok := m.index[key]
		return i, ok
	}
	for i, k := range m.keys {
		if k == key {
			return i, true
		}
	}
	return 0, false
}
