package canonical

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
)

// api writes UTF-8 text as is and leaves <, > and & alone.
var api = jsoniter.Config{
	EscapeHTML: false,
}.Froze()

const defaultBufferSize = 4096

// Encoder writes canonical values as JSON text.
//
// Text and keys that are not valid UTF-8 have each invalid byte sequence
// replaced by U+FFFD, so every line written is valid UTF-8.
//
// Output is buffered; call Flush to push it to the underlying writer. An
// Encoder is not safe for concurrent use.
type Encoder struct {
	stream  *jsoniter.Stream
	itemSep string
	keySep  string
}

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// Compact drops the blank after item and key separators.
func Compact() EncoderOption {
	return func(e *Encoder) {
		e.itemSep = ","
		e.keySep = ":"
	}
}

// NewEncoder returns an encoder writing to w. By default items are separated by
// ", " and keys by ": ".
func NewEncoder(w io.Writer, opts ...EncoderOption) *Encoder {
	e := &Encoder{
		stream:  jsoniter.NewStream(api, w, defaultBufferSize),
		itemSep: ", ",
		keySep:  ": ",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode writes v followed by a newline into the buffer.
func (e *Encoder) Encode(v Value) error {
	e.write(v)
	e.stream.WriteRaw("\n")
	return e.stream.Error
}

// Buffered returns the number of bytes not yet flushed.
func (e *Encoder) Buffered() int {
	return e.stream.Buffered()
}

// Flush writes buffered output to the underlying writer.
func (e *Encoder) Flush() error {
	return e.stream.Flush()
}

// Reset discards buffered output and switches to w.
func (e *Encoder) Reset(w io.Writer) {
	e.stream.Reset(w)
}

func (e *Encoder) write(v Value) {
	s := e.stream
	switch v := v.(type) {
	case nil, Null:
		s.WriteNil()
	case Bool:
		s.WriteBool(bool(v))
	case Int:
		s.WriteInt64(int64(v))
	case Uint:
		s.WriteUint64(uint64(v))
	case Float:
		if math.IsNaN(v.V) || math.IsInf(v.V, 0) {
			s.WriteString(FormatFloat(v.V, v.Bits))
			return
		}
		s.SetBuffer(AppendFloat(s.Buffer(), v.V, v.Bits))
	case Text:
		e.writeText(string(v))
	case Sequence:
		s.WriteRaw("[")
		for i, item := range v {
			if i > 0 {
				s.WriteRaw(e.itemSep)
			}
			e.write(item)
		}
		s.WriteRaw("]")
	case *Mapping:
		s.WriteRaw("{")
		first := true
		v.Range(func(key string, val Value) bool {
			if !first {
				s.WriteRaw(e.itemSep)
			}
			first = false
			e.writeText(key)
			s.WriteRaw(e.keySep)
			e.write(val)
			return true
		})
		s.WriteRaw("}")
	default:
		// Values from outside this package: fall back to their default text form.
		e.writeText(fmt.Sprint(v))
	}
}

func (e *Encoder) writeText(s string) {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
	}
	e.stream.WriteString(s)
}

// Marshal returns the compact JSON text of v without a trailing newline.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, Compact())
	enc.write(v)
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AppendFloat appends the JSON number text of f, stored with the given bit
// width, to dst. It uses the shortest representation that round-trips, switches
// to exponent form below 1e-6 and from 1e21 on, and keeps a ".0" on integral
// values so the text still reads as a float. f must be finite.
func AppendFloat(dst []byte, f float64, bits int) []byte {
	if bits != 64 {
		bits = 32
	}

	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) ||
			bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}

	start := len(dst)
	dst = strconv.AppendFloat(dst, f, format, -1, bits)

	if format == 'e' {
		// e-07 -> e-7, as encoding/json does.
		n := len(dst)
		if n-start >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
		return dst
	}

	if bytes.IndexByte(dst[start:], '.') < 0 {
		dst = append(dst, '.', '0')
	}
	return dst
}

// FormatFloat returns the text AppendFloat would produce. Non-finite values are
// rendered as NaN, +Inf and -Inf.
func FormatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return string(AppendFloat(nil, f, bits))
}
