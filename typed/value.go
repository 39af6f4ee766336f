// Package typed defines the values handed over by a columnar reader: one cell of
// one row, tagged with the type the file's schema declares for it.
//
// Value is a closed set of variants. Consumers switch on the concrete type:
//
//	switch v := cell.(type) {
//	case typed.Null:
//	case typed.Int:
//	case typed.Map:
//	    ...
//	}
//
// A nil Value stands for an absent value and is treated like Null.
package typed

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Value is a single schema-typed cell value.
type Value interface {
	typedValue()
}

// Null is the absence of a value.
type Null struct{}

// Bool is a boolean scalar.
type Bool bool

// Int is a signed integer scalar of any width.
type Int int64

// Uint is an unsigned integer scalar of any width.
type Uint uint64

// Float is a floating point scalar. Bits records the source width (16, 32 or
// 64) so the value can be rendered with the precision it was stored with.
type Float struct {
	V    float64
	Bits int
}

// String is a UTF-8 text scalar.
type String string

// Bytes is an opaque byte sequence.
type Bytes []byte

// TemporalKind tells which part of a Time is meaningful.
type TemporalKind uint8

const (
	// Timestamp is an instant with date and time of day.
	Timestamp TemporalKind = iota
	// Date is a calendar date without time of day.
	Date
	// TimeOfDay is a wall clock time without a date.
	TimeOfDay
)

func (k TemporalKind) String() string {
	switch k {
	case Timestamp:
		return "timestamp"
	case Date:
		return "date"
	case TimeOfDay:
		return "time"
	default:
		return "unknown"
	}
}

// Time is a temporal scalar. Zoned is set for timestamps that are anchored to
// UTC; naive timestamps carry their wall clock reading in T's UTC fields.
type Time struct {
	T     time.Time
	Kind  TemporalKind
	Zoned bool
}

// Duration is an elapsed time scalar.
type Duration time.Duration

// Decimal is an exact decimal scalar.
type Decimal struct {
	decimal.Decimal
}

// UUID is a 16 byte universally unique identifier.
type UUID uuid.UUID

// Other is a scalar with no canonical class. Text is its default textual form
// and Type names the source type, for diagnostics.
type Other struct {
	Type string
	Text string
}

// List is an ordered sequence. Large marks lists stored with 64-bit offsets; it
// does not affect the value.
type List struct {
	Items []Value
	Large bool
}

// Map is an ordered sequence of key/value pairs held as two parallel slices in
// the order the source presented them. Keys and Values must have equal length.
type Map struct {
	Keys   []Value
	Values []Value
}

// Len returns the number of pairs, or -1 if the key and value slices disagree.
func (m Map) Len() int {
	if len(m.Keys) != len(m.Values) {
		return -1
	}
	return len(m.Keys)
}

// Field is one named member of a Struct. A nil Value means the source did not
// provide the field.
type Field struct {
	Name  string
	Value Value
}

// Struct is a record with fields in schema order.
type Struct struct {
	Fields []Field
}

// Column wraps a cell that the reader handed back as a short array instead of a
// single value. It may only appear as the outermost value of a cell.
type Column struct {
	Items []Value
}

func (Null) typedValue()     {}
func (Bool) typedValue()     {}
func (Int) typedValue()      {}
func (Uint) typedValue()     {}
func (Float) typedValue()    {}
func (String) typedValue()   {}
func (Bytes) typedValue()    {}
func (Time) typedValue()     {}
func (Duration) typedValue() {}
func (Decimal) typedValue()  {}
func (UUID) typedValue()     {}
func (Other) typedValue()    {}
func (List) typedValue()     {}
func (Map) typedValue()      {}
func (Struct) typedValue()   {}
func (Column) typedValue()   {}

// Float64 returns a 64-bit Float.
func Float64(v float64) Float {
	return Float{V: v, Bits: 64}
}

// Float32 returns a 32-bit Float.
func Float32(v float32) Float {
	return Float{V: float64(v), Bits: 32}
}
