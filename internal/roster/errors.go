package roster

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is wrapped by every row- or file-level ingestion error.
	ErrParse = errors.New("parse error")

	ErrMissingColumn = errors.New("missing required column")
	ErrMissingValue  = errors.New("missing value")
	ErrNoSeparator   = errors.New("score must look like earned/total")
	ErrNotNumeric    = errors.New("not a number")
	ErrZeroTotal     = errors.New("total is zero")
	ErrOverflow      = errors.New("percentage is not a finite number")
)

// ParseError describes a rejected file (Row == 0) or a rejected row.
type ParseError struct {
	File   string
	Row    int
	Column string
	Raw    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
	if e.Column == "" {
		return fmt.Sprintf("%s row %d: %v", e.File, e.Row, e.Err)
	}
	return fmt.Sprintf("%s row %d: %s %q: %v", e.File, e.Row, e.Column, e.Raw, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }

// FileScoped reports whether the whole file was rejected.
func (e *ParseError) FileScoped() bool { return e.Row == 0 }

// DataQualityWarning flags a percentage outside [0,100]. The row is kept.
type DataQualityWarning struct {
	File  string  `json:"file"`
	Row   int     `json:"row"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func (w DataQualityWarning) String() string {
	return fmt.Sprintf("%s row %d: score %.2f%% for %q is outside 0-100", w.File, w.Row, w.Score, w.Name)
}
