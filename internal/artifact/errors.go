package artifact

import (
	"errors"
	"fmt"
)

// ParseError reports a structurally malformed artifact.
type ParseError struct {
	// Path is the file being parsed.
	Path string

	// Format is "json", "csv" or "schema".
	Format string

	// Line is the 1-based line of the fault when the parser reports one.
	Line int

	// Message describes the fault.
	Message string

	// Err is the underlying parser error, if any.
	Err error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s parse error: %s", e.Path, e.Line, e.Format, e.Message)
	}
	return fmt.Sprintf("%s: %s parse error: %s", e.Path, e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
