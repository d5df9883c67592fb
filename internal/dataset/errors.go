package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput indicates a file without a header row.
	ErrEmptyInput = errors.New("empty input")
	// ErrMissingColumns indicates the header lacks one or more required columns.
	ErrMissingColumns = errors.New("missing required columns")
)

// LoadError reports a failure to read or parse the input table. It is fatal:
// no records are returned alongside it.
type LoadError struct {
	Path string
	// Row is the 1-based data row that failed, or 0 for file and header errors.
	Row int
	Op  string
	Err error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "load error"
	}
	loc := e.Path
	if loc == "" {
		loc = "input"
	}
	if e.Row > 0 {
		return fmt.Sprintf("load %s: row %d: %s: %v", loc, e.Row, e.Op, e.Err)
	}
	return fmt.Sprintf("load %s: %s: %v", loc, e.Op, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
