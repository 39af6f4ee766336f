package output

import (
	"io"

	"github.com/vegasq/parquet2jsonl/canonical"
)

// JSONFormatter outputs rows as JSON Lines format
type JSONFormatter struct {
	enc *canonical.Encoder
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer, opts ...canonical.EncoderOption) *JSONFormatter {
	return &JSONFormatter{enc: canonical.NewEncoder(w, opts...)}
}

// SetOutput sets the output writer. Unflushed output is discarded.
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.enc.Reset(w)
}

// Begin is a no-op: JSON Lines has no header.
func (j *JSONFormatter) Begin([]string) error {
	return nil
}

// WriteRow writes row as one JSON object followed by a newline
func (j *JSONFormatter) WriteRow(row *canonical.Mapping) error {
	return j.enc.Encode(row)
}

// Buffered returns the number of bytes not yet flushed
func (j *JSONFormatter) Buffered() int {
	return j.enc.Buffered()
}

// Flush writes buffered records to the writer
func (j *JSONFormatter) Flush() error {
	return j.enc.Flush()
}
