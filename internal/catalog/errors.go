package catalog

import (
	"errors"
	"fmt"
)

// ErrInvalidName is returned when a name cannot be encoded as a catalog line.
var ErrInvalidName = errors.New("invalid product name")

// ErrSumOverflow is returned when the price total does not fit in an int64.
var ErrSumOverflow = errors.New("price total overflows int64")

// FormatError reports a stored line that does not decode into a record.
type FormatError struct {
	Path string
	Line int    // 1-based line number
	Text string // the offending line
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: malformed line %q: %v", e.Path, e.Line, e.Text, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// IOError reports a catalog file that could not be read or written.
// A missing file on load is not an IOError.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
