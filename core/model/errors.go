package model

import (
	"errors"
	"fmt"
)

var (
	// ErrShape is matched by every ShapeError.
	ErrShape = errors.New("invalid record shape")
	// ErrParse is matched by every ParseError.
	ErrParse = errors.New("invalid value format")
)

// ShapeError reports a record missing a field or carrying the wrong structure.
type ShapeError struct {
	Record string
	Field  string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Record, e.Field, e.Reason)
}

func (e *ShapeError) Is(target error) bool { return target == ErrShape }

func shapeErr(record, field, reason string) error {
	return &ShapeError{Record: record, Field: field, Reason: reason}
}

// ParseError reports a timestamp or work time that does not match its format.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }
