package prettify

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ParseError is returned when the source text is not valid in the requested
// format. It is the only error kind the formatters produce for bad input.
type ParseError struct {
	Format string // "json" or "xml"
	Offset int    // byte offset into the source
	Line   int    // 1-based
	Column int    // 1-based, in runes
	Err    error
}

func (e *ParseError) Error() string {
	msg := "invalid input"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d, column %d: %s", e.Format, e.Line, e.Column, msg)
	}
	return fmt.Sprintf("%s: %s", e.Format, msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Relocate returns a copy of e positioned in document, for a source that was
// the part of document starting at byte offset start.
func (e *ParseError) Relocate(document string, start int) *ParseError {
	return newParseError(e.Format, document, start+e.Offset, e.Err)
}

func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

func newParseError(format, src string, offset int, err error) *ParseError {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	line, column := lineColumn(src, offset)
	return &ParseError{
		Format: format,
		Offset: offset,
		Line:   line,
		Column: column,
		Err:    err,
	}
}

func lineColumn(src string, offset int) (int, int) {
	head := src[:offset]
	line := strings.Count(head, "\n") + 1
	lineStart := strings.LastIndexByte(head, '\n') + 1
	column := utf8.RuneCountInString(head[lineStart:]) + 1
	return line, column
}
