package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/parquet2jsonl/canonical"
	"github.com/vegasq/parquet2jsonl/typed"
)

// Source yields rows of typed cells in a fixed column order.
type Source interface {
	// Columns returns the column names in order
	Columns() []string

	// Next returns the cells of the next row, or io.EOF after the last row
	Next(ctx context.Context) ([]typed.Value, error)
}

// Formatter defines the interface for output formatters.
//
// Rows are written one at a time and buffered; nothing is guaranteed to
// reach the writer until Flush returns.
type Formatter interface {
	// Begin is called once with the column names before the first row
	Begin(columns []string) error

	// WriteRow writes a single record
	WriteRow(row *canonical.Mapping) error

	// Buffered returns the number of bytes written but not yet flushed
	Buffered() int

	// Flush writes buffered output to the writer
	Flush() error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// Format names an output format.
type Format string

const (
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
)

// ParseFormat validates a format name. Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSONL, FormatCSV:
		return f, nil
	case "json":
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected jsonl or csv)", s)
	}
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	if f == FormatCSV {
		return ".csv"
	}
	return ".jsonl"
}

// NewFormatter creates a formatter for the given format writing to w. compact
// only affects JSON Lines output.
func NewFormatter(f Format, w io.Writer, compact bool) (Formatter, error) {
	switch f {
	case FormatJSONL, "":
		var opts []canonical.EncoderOption
		if compact {
			opts = append(opts, canonical.Compact())
		}
		return NewJSONFormatter(w, opts...), nil
	case FormatCSV:
		return NewCSVFormatter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", string(f))
	}
}
