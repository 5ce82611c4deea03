package core

import (
	"errors"
	"fmt"
)

var (
	ErrParse        = errors.New("parse error")
	ErrEmptyDataset = errors.New("empty dataset")
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidMonth = errors.New("invalid month")
)

// ParseError reports input that cannot become a dataset. Row is 1-based and
// counts data rows only; zero means the problem is not tied to a row.
type ParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Row > 0:
		return fmt.Sprintf("parse %q row %d value %q: %v", e.Column, e.Row, e.Value, e.Err)
	case e.Column != "":
		return fmt.Sprintf("parse %q: %v", e.Column, e.Err)
	default:
		return fmt.Sprintf("parse: %v", e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// UnknownFieldError is returned when a column is referenced that the dataset
// does not have.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}

func (e *UnknownFieldError) Is(target error) bool { return target == ErrUnknownField }

// EmptyDatasetError is returned by operations whose answer is undefined
// without records.
type EmptyDatasetError struct {
	Op string
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("%s: empty dataset", e.Op)
}

func (e *EmptyDatasetError) Is(target error) bool { return target == ErrEmptyDataset }
