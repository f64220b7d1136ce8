package pyast

import (
	"errors"
	"fmt"
)

// ErrParse is the sentinel wrapped by every ParseError.
var ErrParse = errors.New("syntax error")

// ParseError reports source that is not valid Python. Line and Column are
// 1-based and point at the first offending node.
type ParseError struct {
	Msg    string
	Line   int
	Column int
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// Unwrap returns ErrParse.
func (e *ParseError) Unwrap() error {
	return ErrParse
}
