package testutil

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/normverify/internal/artifact"
	"github.com/roach88/normverify/internal/cases"
	"github.com/roach88/normverify/internal/digest"
)

// Tool is the report.tool value written by conformant fixtures.
const Tool = "proof-first-normalizer"

// CaseFixture is a case written to disk by WriteCase.
type CaseFixture struct {
	Case    cases.Case
	Columns []string
	Report  artifact.Report
}

type caseConfig struct {
	columns   []string
	header    []string
	rows      [][]string
	errorRows [][]string
	mutate    []func(*artifact.Report)
	goldens   bool
}

// Option customizes WriteCase.
type Option func(*caseConfig)

// WithColumns sets the schema column names (and, unless WithHeader is
// given, the normalized header).
func WithColumns(cols ...string) Option {
	return func(c *caseConfig) { c.columns = cols }
}

// WithHeader writes normalized.csv with this header instead of the schema order.
func WithHeader(header ...string) Option {
	return func(c *caseConfig) { c.header = header }
}

// WithRows sets the normalized data rows.
func WithRows(rows [][]string) Option {
	return func(c *caseConfig) { c.rows = rows }
}

// WithErrorRows sets the rows of errors.csv (without its header).
func WithErrorRows(rows [][]string) Option {
	return func(c *caseConfig) { c.errorRows = rows }
}

// WithReport edits the report after digests and counts are filled in and
// before it is written.
func WithReport(fn func(*artifact.Report)) Option {
	return func(c *caseConfig) { c.mutate = append(c.mutate, fn) }
}

// WithoutGoldens skips writing the expected copies.
func WithoutGoldens() Option {
	return func(c *caseConfig) { c.goldens = false }
}

// NewLayout creates an empty fixtures/out tree in a temp directory.
func NewLayout(t testing.TB) cases.Layout {
	t.Helper()
	root := t.TempDir()
	layout := cases.Layout{
		FixturesRoot: filepath.Join(root, "fixtures"),
		OutRoot:      filepath.Join(root, "out"),
	}
	require.NoError(t, os.MkdirAll(filepath.Join(layout.FixturesRoot, "input"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(layout.FixturesRoot, "expected"), 0755))
	require.NoError(t, os.MkdirAll(layout.OutRoot, 0755))
	return layout
}

// DefaultRows returns n rows of id,name,amount data.
func DefaultRows(n int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("%d", i+1), fmt.Sprintf("name-%d", i+1), fmt.Sprintf("%d.00", (i+1)*10)}
	}
	return rows
}

// WriteCase writes the fixtures and pipeline outputs of a case whose
// artifacts satisfy every invariant unless options say otherwise. By
// default the schema is id,name,amount with ten rows and no errors, and
// golden copies equal to the outputs are written.
func WriteCase(t testing.TB, layout cases.Layout, name string, opts ...Option) *CaseFixture {
	t.Helper()

	cfg := &caseConfig{
		columns: []string{"id", "name", "amount"},
		rows:    DefaultRows(10),
		goldens: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.header == nil {
		cfg.header = cfg.columns
	}

	c, err := cases.New(name, layout)
	require.NoError(t, err)

	raw := encodeCSV(t, append([][]string{cfg.columns}, cfg.rows...))
	schema := encodeSchema(t, cfg.columns)
	normalized := encodeCSV(t, append([][]string{cfg.header}, cfg.rows...))
	errorsCSV := encodeCSV(t, append([][]string{{"row", "field", "code", "message", "value"}}, cfg.errorRows...))

	rep := artifact.Report{
		Tool:             Tool,
		Version:          "dev",
		Input:            name,
		Schema:           filepath.ToSlash(filepath.Join("fixtures", "input", name, cases.SchemaFile)),
		RowsTotal:        len(cfg.rows) + len(cfg.errorRows),
		RowsOK:           len(cfg.rows),
		RowsError:        len(cfg.errorRows),
		Cols:             len(cfg.columns),
		Sha256Input:      digest.Bytes(raw),
		Sha256Schema:     digest.Bytes(schema),
		Sha256Normalized: digest.Bytes(normalized),
		Sha256Errors:     digest.Bytes(errorsCSV),
		GeneratedFiles:   append([]string(nil), cases.Artifacts...),
	}
	for _, fn := range cfg.mutate {
		fn(&rep)
	}
	report := EncodeReport(t, rep)

	WriteFile(t, c.RawPath(), raw)
	WriteFile(t, c.SchemaPath(), schema)
	WriteFile(t, c.OutputPath(cases.NormalizedFile), normalized)
	WriteFile(t, c.OutputPath(cases.ErrorsFile), errorsCSV)
	WriteFile(t, c.OutputPath(cases.ReportFile), report)

	if cfg.goldens {
		WriteFile(t, c.GoldenPath(cases.NormalizedFile), normalized)
		WriteFile(t, c.GoldenPath(cases.ErrorsFile), errorsCSV)
		WriteFile(t, c.GoldenPath(cases.ReportFile), report)
	} else {
		require.NoError(t, os.MkdirAll(c.ExpectedDir(), 0755))
	}

	return &CaseFixture{Case: c, Columns: cfg.columns, Report: rep}
}

// WriteExpectedFailure writes input fixtures plus an error.txt marker
// holding recorded. No outputs are written.
func WriteExpectedFailure(t testing.TB, layout cases.Layout, name, recorded string) cases.Case {
	t.Helper()
	c, err := cases.New(name, layout)
	require.NoError(t, err)

	WriteFile(t, c.RawPath(), []byte("id,name\n1,\n"))
	WriteFile(t, c.SchemaPath(), encodeSchema(t, []string{"id", "name", "amount"}))
	WriteFile(t, c.MarkerPath(), []byte(recorded+"\n"))
	return c
}

// EncodeReport renders a report the way the normalizer does: two-space
// indented JSON with a trailing newline.
func EncodeReport(t testing.TB, rep artifact.Report) []byte {
	t.Helper()
	b, err := json.MarshalIndent(rep, "", "  ")
	require.NoError(t, err)
	return append(b, '\n')
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

// Rewrite replaces the content of path with fn(content).
func Rewrite(t testing.TB, path string, fn func([]byte) []byte) {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, fn(b), 0644))
}

// FlipByte toggles the low bit of the byte at offset in path.
func FlipByte(t testing.TB, path string, offset int) {
	t.Helper()
	Rewrite(t, path, func(b []byte) []byte {
		require.Less(t, offset, len(b))
		out := append([]byte(nil), b...)
		out[offset] ^= 0x01
		return out
	})
}

// ReplaceFirst rewrites path replacing the first occurrence of old with repl.
func ReplaceFirst(t testing.TB, path, old, repl string) {
	t.Helper()
	Rewrite(t, path, func(b []byte) []byte {
		s := string(b)
		require.Contains(t, s, old)
		return []byte(strings.Replace(s, old, repl, 1))
	})
}

func encodeCSV(t testing.TB, records [][]string) []byte {
	t.Helper()
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	require.NoError(t, w.WriteAll(records))
	return []byte(sb.String())
}

func encodeSchema(t testing.TB, columns []string) []byte {
	t.Helper()
	schema := artifact.Schema{Columns: make([]artifact.Column, len(columns))}
	for i, name := range columns {
		schema.Columns[i] = artifact.Column{Name: name, Type: "string"}
	}
	b, err := json.MarshalIndent(schema, "", "  ")
	require.NoError(t, err)
	return append(b, '\n')
}
