// Package canon enforces the canonical text form of pipeline artifacts.
//
// Canonical text is UTF-8 with LF ("\n") as the only line terminator.
// A CRLF pair or a lone CR anywhere in the content is a format defect;
// nothing is repaired or normalized here.
package canon

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// FormatError reports content that is not canonical text.
type FormatError struct {
	// Path is the offending file, empty for in-memory checks.
	Path string

	// Reason is a short description ("CRLF line ending", "invalid UTF-8").
	Reason string

	// Line is the 1-based line of the defect, 0 if unknown.
	Line int

	// Offset is the byte offset of the defect, -1 if unknown.
	Offset int
}

func (e *FormatError) Error() string {
	where := e.Path
	if where == "" {
		where = "<input>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s at byte %d", where, e.Line, e.Reason, e.Offset)
	}
	return fmt.Sprintf("%s: %s", where, e.Reason)
}

// IsFormatError reports whether err is or wraps a *FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// ReadFile reads path and returns its content if it is canonical text.
// I/O failures are returned as-is (wrapped with the path); defects are
// returned as *FormatError.
func ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if err := check(path, b); err != nil {
		return "", err
	}
	return string(b), nil
}

// Check validates b as canonical text.
func Check(b []byte) error {
	return check("", b)
}

func check(path string, b []byte) error {
	if _, _, err := transform.Bytes(encoding.UTF8Validator, b); err != nil {
		return &FormatError{Path: path, Reason: "invalid UTF-8", Offset: -1}
	}

	i := bytes.IndexByte(b, '\r')
	if i < 0 {
		return nil
	}
	reason := "CR line ending"
	if i+1 < len(b) && b[i+1] == '\n' {
		reason = "CRLF line ending"
	}
	return &FormatError{
		Path:   path,
		Reason: reason,
		Line:   bytes.Count(b[:i], []byte{'\n'}) + 1,
		Offset: i,
	}
}
