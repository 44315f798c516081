package bvh

import (
	"errors"
	"fmt"
)

// Error categories. Every parse failure wraps one of these, so callers can
// match with errors.Is. Missing files surface as the os.Open error before
// any parsing happens.
var (
	ErrSyntax        = errors.New("syntax error")
	ErrUnexpectedEOF = errors.New("unexpected end of input")
)

// ParseError carries the location of a parse failure.
type ParseError struct {
	Err     error // category: ErrSyntax or ErrUnexpectedEOF
	Msg     string
	Line    int
	Column  int
	RawLine string
}

func (e *ParseError) Error() string {
	if e.RawLine == "" {
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("line %d, column %d: %s: %q", e.Line, e.Column, e.Msg, e.RawLine)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func syntaxError(pos position, format string, a ...interface{}) error {
	return &ParseError{
		Err:     ErrSyntax,
		Msg:     fmt.Sprintf(format, a...),
		Line:    pos.line,
		Column:  pos.column,
		RawLine: pos.raw,
	}
}
