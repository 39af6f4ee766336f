package output

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vegasq/parquet2jsonl/canonical"
)

const csvBufferSize = 64 << 10

// CSVFormatter outputs rows as CSV format
type CSVFormatter struct {
	buf       *bufio.Writer
	csvWriter *csv.Writer
	columns   []string
	record    []string
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	c := &CSVFormatter{}
	c.SetOutput(w)
	return c
}

// SetOutput sets the output writer. Unflushed output is discarded.
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.buf = bufio.NewWriterSize(w, csvBufferSize)
	// csv.NewWriter reuses a large enough *bufio.Writer, so Buffered is exact.
	c.csvWriter = csv.NewWriter(c.buf)
}

// Begin writes the header row. Columns keep the order they were given in; a
// repeated name is written once, at its first position.
func (c *CSVFormatter) Begin(columns []string) error {
	seen := make(map[string]bool, len(columns))
	c.columns = c.columns[:0]
	for _, col := range columns {
		if seen[col] {
			continue
		}
		seen[col] = true
		c.columns = append(c.columns, col)
	}
	c.record = make([]string, len(c.columns))

	if err := c.csvWriter.Write(c.columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	return nil
}

// WriteRow writes row as one CSV record in header order
func (c *CSVFormatter) WriteRow(row *canonical.Mapping) error {
	for i, col := range c.columns {
		v, _ := row.Get(col)
		s, err := formatValue(v)
		if err != nil {
			return fmt.Errorf("failed to format column %s: %w", col, err)
		}
		c.record[i] = s
	}
	return c.csvWriter.Write(c.record)
}

// Buffered returns the number of bytes not yet flushed
func (c *CSVFormatter) Buffered() int {
	return c.buf.Buffered()
}

// Flush writes buffered records to the writer
func (c *CSVFormatter) Flush() error {
	c.csvWriter.Flush()
	if err := c.csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

// formatValue converts a value to string for CSV output
func formatValue(v canonical.Value) (string, error) {
	switch val := v.(type) {
	case nil, canonical.Null:
		return "", nil
	case canonical.Text:
		return sanitize(strings.ToValidUTF8(string(val), "\uFFFD")), nil
	case canonical.Int:
		return strconv.FormatInt(int64(val), 10), nil
	case canonical.Uint:
		return strconv.FormatUint(uint64(val), 10), nil
	case canonical.Float:
		return canonical.FormatFloat(val.V, val.Bits), nil
	case canonical.Bool:
		return strconv.FormatBool(bool(val)), nil
	default:
		// For nested types, use compact JSON representation
		b, err := canonical.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// sanitize guards against CSV injection by prefixing characters that could
// trigger formula execution in spreadsheet applications.
func sanitize(val string) string {
	if len(val) == 0 {
		return val
	}
	switch val[0] {
	case '=', '+', '-', '@', '\t', '\r', '\n', '|':
		// Escape existing single quotes and prefix with quote
		return "'" + strings.ReplaceAll(val, "'", "''")
	}
	return val
}
