package output

import "fmt"

// RowError reports a cell that could not be normalized. Rows before Row were
// already written.
type RowError struct {
	Row    int64
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d, column %q: %v", e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// SinkError reports a failed write or flush to the destination.
type SinkError struct {
	Err error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("failed to write output: %v", e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// SourceError reports a failure reading row Row from the source.
type SourceError struct {
	Row int64
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("failed to read row %d: %v", e.Row, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
