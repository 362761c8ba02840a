package artifact

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/normverify/internal/canon"
)

// Report is the run report written by the normalizer as report.json.
type Report struct {
	Tool             string   `json:"tool"`
	Version          string   `json:"version,omitempty"`
	Input            string   `json:"input,omitempty"`
	Schema           string   `json:"schema,omitempty"`
	RowsTotal        int      `json:"rows_total"`
	RowsOK           int      `json:"rows_ok"`
	RowsError        int      `json:"rows_error"`
	Cols             int      `json:"cols,omitempty"`
	Sha256Input      string   `json:"sha256_input"`
	Sha256Schema     string   `json:"sha256_schema"`
	Sha256Normalized string   `json:"sha256_normalized"`
	Sha256Errors     string   `json:"sha256_errors"`
	GeneratedFiles   []string `json:"generated_files,omitempty"`
}

// Report digest field names, in the order they are checked.
const (
	FieldSha256Input      = "sha256_input"
	FieldSha256Schema     = "sha256_schema"
	FieldSha256Normalized = "sha256_normalized"
	FieldSha256Errors     = "sha256_errors"
)

// Digest returns the recorded digest for one of the Field* names.
func (r *Report) Digest(field string) (string, error) {
	switch field {
	case FieldSha256Input:
		return r.Sha256Input, nil
	case FieldSha256Schema:
		return r.Sha256Schema, nil
	case FieldSha256Normalized:
		return r.Sha256Normalized, nil
	case FieldSha256Errors:
		return r.Sha256Errors, nil
	default:
		return "", fmt.Errorf("unknown digest field %q", field)
	}
}

// RowsConsistent reports whether rows_total == rows_ok + rows_error.
func (r *Report) RowsConsistent() bool {
	return r.RowsTotal == r.RowsOK+r.RowsError
}

// LoadReport reads and validates report.json.
func LoadReport(path string) (*Report, error) {
	data, err := decodeJSON(path, "#Report")
	if err != nil {
		return nil, err
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, jsonParseError(path, data, err)
	}
	return &r, nil
}

// decodeJSON reads path as canonical text, checks it is well-formed JSON
// and validates it against the named CUE definition.
func decodeJSON(path, definition string) ([]byte, error) {
	text, err := canon.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data := []byte(text)

	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, jsonParseError(path, data, err)
	}
	if _, ok := probe.(map[string]any); !ok {
		return nil, &ParseError{Path: path, Format: "json", Message: "top-level value must be an object"}
	}

	if err := validateJSON(path, definition, data); err != nil {
		return nil, err
	}
	return data, nil
}

func jsonParseError(path string, data []byte, err error) *ParseError {
	pe := &ParseError{Path: path, Format: "json", Message: err.Error(), Err: err}
	var offset int64 = -1
	switch e := err.(type) {
	case *json.SyntaxError:
		offset = e.Offset
	case *json.UnmarshalTypeError:
		offset = e.Offset
	}
	if offset >= 0 {
		pe.Line = lineAt(data, offset)
	}
	return pe
}

func lineAt(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line := 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
		}
	}
	return line
}
