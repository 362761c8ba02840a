package artifact

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/roach88/normverify/internal/canon"
)

// Table is a parsed CSV artifact. Header is the first record.
type Table struct {
	Header []string
	Rows   [][]string
}

// LoadTable reads a canonical CSV file. Every record must have as many
// fields as the header.
func LoadTable(path string) (*Table, error) {
	text, err := canon.ReadFile(path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(strings.NewReader(text))
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Path: path, Format: "csv", Message: "missing header row"}
	}
	if err != nil {
		return nil, csvParseError(path, err)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, csvParseError(path, err)
	}
	return &Table{Header: header, Rows: rows}, nil
}

func csvParseError(path string, err error) *ParseError {
	pe := &ParseError{Path: path, Format: "csv", Message: err.Error(), Err: err}
	var ce *csv.ParseError
	if errors.As(err, &ce) {
		pe.Line = ce.Line
		pe.Message = ce.Err.Error()
	}
	return pe
}
