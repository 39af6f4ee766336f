package normalize

import (
	"errors"
	"fmt"
)

// ErrInvariantViolation matches every *InvariantViolation with errors.Is.
var ErrInvariantViolation = errors.New("invariant violation")

// InvariantViolation reports a typed value that breaks the structural rules the
// columnar reader guarantees, such as a map whose key and value counts differ,
// or nesting deeper than the configured limit.
type InvariantViolation struct {
	// Path locates the offending value inside the cell, e.g. "[3].tags{a}".
	Path   string
	Detail string
}

func (e *InvariantViolation) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invariant violation: %s", e.Detail)
	}
	return fmt.Sprintf("invariant violation at %s: %s", e.Path, e.Detail)
}

// Is reports whether target is ErrInvariantViolation.
func (e *InvariantViolation) Is(target error) bool {
	return target == ErrInvariantViolation
}

func violation(format string, args ...interface{}) error {
	return &InvariantViolation{Detail: fmt.Sprintf(format, args...)}
}

// within prefixes the path of a violation raised below the given segment.
func within(segment string, err error) error {
	var v *InvariantViolation
	if errors.As(err, &v) {
		v.Path = segment + v.Path
	}
	return err
}
