package artifact

import (
	"encoding/json"
	"fmt"
)

// Schema is the ordered column list of schema.json. Column order defines
// the expected header order of normalized.csv.
type Schema struct {
	Columns []Column `json:"columns"`
}

// Column describes one schema column. Only Name takes part in verification.
type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// Names returns the column names in schema order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// LoadSchema reads and validates schema.json. A schema must declare at
// least one column and every column needs a name.
func LoadSchema(path string) (*Schema, error) {
	data, err := decodeJSON(path, "#Schema")
	if err != nil {
		return nil, err
	}

	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, jsonParseError(path, data, err)
	}
	if len(s.Columns) == 0 {
		return nil, &ParseError{Path: path, Format: "schema", Message: "schema has no columns"}
	}
	for i, c := range s.Columns {
		if c.Name == "" {
			return nil, &ParseError{Path: path, Format: "schema", Message: fmt.Sprintf("column[%d] name is empty", i)}
		}
	}
	return &s, nil
}
