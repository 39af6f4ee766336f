// Package normalize turns schema-typed cell values into canonical values that a
// JSON record can carry.
//
// Normalization is total for well-formed input: every typed value maps to
// exactly one canonical value. Scalars without a JSON class are rendered as
// text with fixed layouts:
//
//	bytes       padded standard base64
//	timestamp   2006-01-02T15:04:05.999999999Z07:00 (UTC) or without offset when naive
//	date        2006-01-02
//	time        15:04:05.999999999
//	duration    Go duration syntax, 1h2m3.5s
//	decimal     exact decimal text, 123.45
//	uuid        8-4-4-4-12 lower case
//	NaN, ±Inf   NaN, +Inf, -Inf
//
// Map keys become object keys: null keys are dropped, other keys are rendered
// as text, and a later pair wins when two keys render alike. Struct fields are
// always present, absent ones as null.
//
// Strings and map keys are passed through byte for byte, even when they are
// not valid UTF-8; the canonical encoder replaces invalid sequences with
// U+FFFD when the record is written.
//
// The only error is *InvariantViolation, raised for malformed input.
package normalize

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vegasq/parquet2jsonl/canonical"
	"github.com/vegasq/parquet2jsonl/typed"
)

// DefaultMaxDepth is the container nesting limit used when none is configured.
const DefaultMaxDepth = 128

// Normalizer converts typed values to canonical values. It holds no mutable
// state and is safe for concurrent use.
type Normalizer struct {
	maxDepth int
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithMaxDepth limits how many containers may enclose a value. Values nested
// deeper fail with an InvariantViolation. n <= 0 selects DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(nz *Normalizer) {
		if n > 0 {
			nz.maxDepth = n
		}
	}
}

// New returns a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// MaxDepth returns the configured nesting limit.
func (n *Normalizer) MaxDepth() int {
	return n.maxDepth
}

var defaultNormalizer = New()

// Value normalizes v with the default settings.
func Value(v typed.Value) (canonical.Value, error) {
	return defaultNormalizer.Normalize(v)
}

// Normalize converts one cell value. A Column wrapper is unwrapped here: no
// items yield null, one item yields that item, more yield a sequence.
func (n *Normalizer) Normalize(v typed.Value) (canonical.Value, error) {
	col, ok := v.(typed.Column)
	if !ok {
		return n.value(v, 0)
	}

	switch len(col.Items) {
	case 0:
		return canonical.Null{}, nil
	case 1:
		return n.value(col.Items[0], 0)
	default:
		return n.sequence(col.Items, 0)
	}
}

func (n *Normalizer) value(v typed.Value, depth int) (canonical.Value, error) {
	switch v := v.(type) {
	case nil, typed.Null:
		return canonical.Null{}, nil
	case typed.Bool:
		return canonical.Bool(v), nil
	case typed.Int:
		return canonical.Int(v), nil
	case typed.Uint:
		return canonical.Uint(v), nil
	case typed.Float:
		return floatValue(v), nil
	case typed.String:
		return canonical.Text(v), nil
	case typed.Bytes:
		return canonical.Text(FormatBytes(v)), nil
	case typed.Time:
		return canonical.Text(FormatTime(v)), nil
	case typed.Duration:
		return canonical.Text(FormatDuration(v)), nil
	case typed.Decimal:
		return canonical.Text(v.String()), nil
	case typed.UUID:
		return canonical.Text(FormatUUID(v)), nil
	case typed.Other:
		return canonical.Text(v.Text), nil
	case typed.List:
		return n.sequence(v.Items, depth)
	case typed.Map:
		return n.mapping(v, depth)
	case typed.Struct:
		return n.record(v, depth)
	case typed.Column:
		return nil, violation("column wrapper nested inside a container")
	default:
		return nil, violation("unsupported typed value %T", v)
	}
}

func floatValue(v typed.Float) canonical.Value {
	bits := v.Bits
	if bits == 0 {
		bits = 64
	}
	if math.IsNaN(v.V) || math.IsInf(v.V, 0) {
		return canonical.Text(canonical.FormatFloat(v.V, bits))
	}
	return canonical.Float{V: v.V, Bits: bits}
}

func (n *Normalizer) enter(depth int) error {
	if depth >= n.maxDepth {
		return violation("nesting deeper than %d levels", n.maxDepth)
	}
	return nil
}

func (n *Normalizer) sequence(items []typed.Value, depth int) (canonical.Value, error) {
	if err := n.enter(depth); err != nil {
		return nil, err
	}

	seq := make(canonical.Sequence, len(items))
	for i, item := range items {
		c, err := n.value(item, depth+1)
		if err != nil {
			return nil, within("["+strconv.Itoa(i)+"]", err)
		}
		seq[i] = c
	}
	return seq, nil
}

func (n *Normalizer) mapping(m typed.Map, depth int) (canonical.Value, error) {
	if err := n.enter(depth); err != nil {
		return nil, err
	}
	if m.Len() < 0 {
		return nil, violation("map has %d keys but %d values", len(m.Keys), len(m.Values))
	}

	out := canonical.NewMapping(len(m.Keys))
	for i := range m.Keys {
		k, err := n.value(m.Keys[i], depth+1)
		if err != nil {
			return nil, within(fmt.Sprintf("<key %d>", i), err)
		}
		if _, isNull := k.(canonical.Null); isNull {
			continue
		}

		key, err := keyText(k)
		if err != nil {
			return nil, violation("map key %d cannot be rendered: %v", i, err)
		}

		v, err := n.value(m.Values[i], depth+1)
		if err != nil {
			return nil, within("{"+key+"}", err)
		}
		out.Set(key, v)
	}
	return out, nil
}

func (n *Normalizer) record(s typed.Struct, depth int) (canonical.Value, error) {
	if err := n.enter(depth); err != nil {
		return nil, err
	}

	out := canonical.NewMapping(len(s.Fields))
	for _, f := range s.Fields {
		v, err := n.value(f.Value, depth+1)
		if err != nil {
			return nil, within("."+f.Name, err)
		}
		out.Set(f.Name, v)
	}
	return out, nil
}
