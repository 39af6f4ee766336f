package reader

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/vegasq/parquet2jsonl/typed"
)

// DefaultBatchSize is the number of rows decoded per Arrow record batch.
const DefaultBatchSize = 1024

// Reader streams the rows of a parquet file as typed cell values.
//
// Only one record batch is held in memory at a time, so memory use is bounded
// by the batch size rather than by the file size.
type Reader struct {
	pqFile  *file.Reader
	arrow   *pqarrow.FileReader
	schema  *arrow.Schema
	columns []string
	numRows int64

	records pqarrow.RecordReader
	current arrow.Record
	row     int
	done    bool
}

// Option configures a Reader.
type Option func(*options)

type options struct {
	batchSize int64
	mem       memory.Allocator
}

// WithBatchSize sets how many rows are decoded at once. n <= 0 keeps
// DefaultBatchSize.
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = int64(n)
		}
	}
}

// WithAllocator sets the Arrow allocator used for record batches.
func WithAllocator(mem memory.Allocator) Option {
	return func(o *options) {
		if mem != nil {
			o.mem = mem
		}
	}
}

// NewReader opens the parquet file at path.
//
// The file is opened and validated as a parquet file. Returns an error if
// the file doesn't exist or is not a valid parquet file.
//
// Example:
//
//	r, err := reader.NewReader("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
func NewReader(path string, opts ...Option) (*Reader, error) {
	o := options{batchSize: DefaultBatchSize, mem: memory.DefaultAllocator}
	for _, opt := range opts {
		opt(&o)
	}

	pqFile, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	fr, err := pqarrow.NewFileReader(pqFile, pqarrow.ArrowReadProperties{BatchSize: o.batchSize}, o.mem)
	if err != nil {
		_ = pqFile.Close()
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	schema, err := fr.Schema()
	if err != nil {
		_ = pqFile.Close()
		return nil, fmt.Errorf("failed to convert schema: %w", err)
	}

	columns := make([]string, schema.NumFields())
	for i, f := range schema.Fields() {
		columns[i] = f.Name
	}

	return &Reader{
		pqFile:  pqFile,
		arrow:   fr,
		schema:  schema,
		columns: columns,
		numRows: pqFile.NumRows(),
	}, nil
}

// Columns returns the top-level column names in schema order.
func (r *Reader) Columns() []string {
	return r.columns
}

// NumRows returns the row count recorded in the file metadata.
func (r *Reader) NumRows() int64 {
	return r.numRows
}

// ArrowSchema returns the file schema converted to Arrow types.
func (r *Reader) ArrowSchema() *arrow.Schema {
	return r.schema
}

// Next returns the cells of the next row in column order, or io.EOF after the
// last row. The returned slice is owned by the caller.
func (r *Reader) Next(ctx context.Context) ([]typed.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for r.current == nil || r.row >= int(r.current.NumRows()) {
		if err := r.advance(ctx); err != nil {
			return nil, err
		}
	}

	cells := make([]typed.Value, r.current.NumCols())
	for c := range cells {
		cells[c] = CellValue(r.current.Column(c), r.row)
	}
	r.row++
	return cells, nil
}

// advance moves to the next record batch.
func (r *Reader) advance(ctx context.Context) error {
	if r.done {
		return io.EOF
	}

	if r.records == nil {
		rr, err := r.arrow.GetRecordReader(ctx, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to create record reader: %w", err)
		}
		r.records = rr
	}

	if !r.records.Next() {
		r.done = true
		r.current = nil
		if err := r.records.Err(); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read record batch: %w", err)
		}
		return io.EOF
	}

	r.current = r.records.Record()
	r.row = 0
	return nil
}

// Close releases the record reader and closes the file. It is safe to call
// Close multiple times.
func (r *Reader) Close() error {
	r.current = nil
	if r.records != nil {
		r.records.Release()
		r.records = nil
	}
	if r.pqFile == nil {
		return nil
	}
	err := r.pqFile.Close()
	r.pqFile = nil
	return err
}
