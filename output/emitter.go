package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vegasq/parquet2jsonl/canonical"
	"github.com/vegasq/parquet2jsonl/normalize"
	"github.com/vegasq/parquet2jsonl/typed"
)

const (
	// DefaultProgressInterval is the number of rows between progress reports.
	DefaultProgressInterval = 1000

	// FlushThreshold is the buffered size past which output is flushed.
	FlushThreshold = 64 << 10
)

// ProgressFunc observes emission progress. total is -1 when the source does
// not know its row count.
type ProgressFunc func(done, total int64)

// Emitter writes the rows of a Source through a Formatter. It keeps no state
// between calls.
type Emitter struct {
	normalizer *normalize.Normalizer
	interval   int64
	progress   ProgressFunc
}

// EmitterOption configures an Emitter.
type EmitterOption func(*Emitter)

// WithNormalizer sets the normalizer used for cells.
func WithNormalizer(n *normalize.Normalizer) EmitterOption {
	return func(e *Emitter) {
		if n != nil {
			e.normalizer = n
		}
	}
}

// WithProgressInterval sets how many rows pass between progress reports.
// n <= 0 keeps DefaultProgressInterval.
func WithProgressInterval(n int64) EmitterOption {
	return func(e *Emitter) {
		if n > 0 {
			e.interval = n
		}
	}
}

// WithProgress sets the progress callback. It runs on the emitting goroutine.
func WithProgress(fn ProgressFunc) EmitterOption {
	return func(e *Emitter) {
		e.progress = fn
	}
}

// NewEmitter creates an Emitter.
func NewEmitter(opts ...EmitterOption) *Emitter {
	e := &Emitter{
		normalizer: normalize.New(),
		interval:   DefaultProgressInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Row builds the record for one row: every cell normalized and keyed by its
// column, in column order. A repeated column name overwrites its predecessor.
func (e *Emitter) Row(columns []string, cells []typed.Value) (*canonical.Mapping, error) {
	if len(cells) != len(columns) {
		return nil, &normalize.InvariantViolation{
			Detail: fmt.Sprintf("row has %d cells for %d columns", len(cells), len(columns)),
		}
	}

	row := canonical.NewMapping(len(columns))
	for i, col := range columns {
		v, err := e.normalizer.Normalize(cells[i])
		if err != nil {
			return nil, &RowError{Column: col, Err: err}
		}
		row.Set(col, v)
	}
	return row, nil
}

// Emit writes every row of src to f and returns the number of rows written.
//
// A row is written only once all of its cells are normalized. On failure the
// rows already written are flushed and the error is returned: *RowError for a
// cell that cannot be normalized, *SourceError when reading fails and
// *SinkError when writing fails. Cancelling ctx stops emission between rows.
func (e *Emitter) Emit(ctx context.Context, src Source, f Formatter) (int64, error) {
	columns := src.Columns()
	total := int64(-1)
	if counted, ok := src.(interface{ NumRows() int64 }); ok {
		total = counted.NumRows()
	}

	if err := f.Begin(columns); err != nil {
		return 0, &SinkError{Err: err}
	}

	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, e.abort(f, err)
		}

		cells, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return written, e.abort(f, &SourceError{Row: written, Err: err})
		}

		row, err := e.Row(columns, cells)
		if err != nil {
			var rowErr *RowError
			if !errors.As(err, &rowErr) {
				rowErr = &RowError{Err: err}
			}
			rowErr.Row = written
			return written, e.abort(f, rowErr)
		}

		if err := f.WriteRow(row); err != nil {
			return written, &SinkError{Err: err}
		}
		written++

		if written%e.interval == 0 {
			if err := f.Flush(); err != nil {
				return written, &SinkError{Err: err}
			}
			e.report(written, total)
			continue
		}
		if f.Buffered() >= FlushThreshold {
			if err := f.Flush(); err != nil {
				return written, &SinkError{Err: err}
			}
		}
	}

	if err := f.Flush(); err != nil {
		return written, &SinkError{Err: err}
	}
	if written%e.interval != 0 {
		e.report(written, total)
	}
	return written, nil
}

// EmitFile creates path, along with any missing parent directories, and emits
// src into it through the formatter returned by newFormatter. A file that
// fails part way keeps the rows written before the failure.
func (e *Emitter) EmitFile(ctx context.Context, src Source, path string, newFormatter func(io.Writer) Formatter) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, &SinkError{Err: fmt.Errorf("failed to create output directory: %w", err)}
	}

	out, err := os.Create(path)
	if err != nil {
		return 0, &SinkError{Err: fmt.Errorf("failed to create output file: %w", err)}
	}

	n, err := e.Emit(ctx, src, newFormatter(out))
	if closeErr := out.Close(); closeErr != nil && err == nil {
		err = &SinkError{Err: fmt.Errorf("failed to close output file: %w", closeErr)}
	}
	return n, err
}

// abort flushes the rows written so far and returns cause, or the flush error
// if flushing fails.
func (e *Emitter) abort(f Formatter, cause error) error {
	if err := f.Flush(); err != nil {
		return &SinkError{Err: err}
	}
	return cause
}

func (e *Emitter) report(done, total int64) {
	if e.progress != nil {
		e.progress(done, total)
	}
}
