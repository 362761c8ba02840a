// Package cases resolves verification cases to their fixture and output
// directories and classifies them as expected-success or expected-failure.
//
// Directory layout:
//
//	<fixtures>/input/<case>/raw.csv
//	<fixtures>/input/<case>/schema.json
//	<fixtures>/expected/<case>/normalized.csv   golden copies
//	<fixtures>/expected/<case>/errors.csv
//	<fixtures>/expected/<case>/report.json
//	<fixtures>/expected/<case>/error.txt        expected-failure marker
//	<out-root>/<case>/normalized.csv            pipeline output
//	<out-root>/<case>/errors.csv
//	<out-root>/<case>/report.json
package cases

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Artifact and fixture file names.
const (
	NormalizedFile = "normalized.csv"
	ErrorsFile     = "errors.csv"
	ReportFile     = "report.json"
	RawFile        = "raw.csv"
	SchemaFile     = "schema.json"
	ErrorMarker    = "error.txt"
)

// Artifacts lists the pipeline outputs in verification order.
var Artifacts = []string{NormalizedFile, ErrorsFile, ReportFile}

// Layout locates the fixture tree and the pipeline output tree.
type Layout struct {
	FixturesRoot string
	OutRoot      string
}

// Case is a single named scenario within a Layout.
type Case struct {
	Name   string
	Layout Layout
}

// New validates name and returns the case. Names are single path elements.
func New(name string, layout Layout) (Case, error) {
	if err := validateName(name); err != nil {
		return Case{}, err
	}
	return Case{Name: name, Layout: layout}, nil
}

func validateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("case name is required")
	case name == "." || name == "..":
		return fmt.Errorf("invalid case name %q", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("case name %q must not contain path separators", name)
	}
	return nil
}

// InputDir holds raw.csv and schema.json.
func (c Case) InputDir() string {
	return filepath.Join(c.Layout.FixturesRoot, "input", c.Name)
}

// ExpectedDir holds golden copies and the expected-failure marker.
func (c Case) ExpectedDir() string {
	return filepath.Join(c.Layout.FixturesRoot, "expected", c.Name)
}

// OutputDir holds the artifacts produced by the pipeline.
func (c Case) OutputDir() string {
	return filepath.Join(c.Layout.OutRoot, c.Name)
}

// RawPath is the raw input fixture.
func (c Case) RawPath() string { return filepath.Join(c.InputDir(), RawFile) }

// SchemaPath is the schema fixture.
func (c Case) SchemaPath() string { return filepath.Join(c.InputDir(), SchemaFile) }

// MarkerPath is the recorded error string of an expected-failure case.
func (c Case) MarkerPath() string { return filepath.Join(c.ExpectedDir(), ErrorMarker) }

// OutputPath is the produced artifact with the given name.
func (c Case) OutputPath(artifact string) string {
	return filepath.Join(c.OutputDir(), artifact)
}

// GoldenPath is the checked-in reference copy of an artifact.
func (c Case) GoldenPath(artifact string) string {
	return filepath.Join(c.ExpectedDir(), artifact)
}

// Discover lists case names that have an input directory under the
// fixtures root, sorted by name.
func Discover(fixturesRoot string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(fixturesRoot, "input"))
	if err != nil {
		return nil, fmt.Errorf("discover cases: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && validateName(e.Name()) == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether path exists. Errors other than not-exist are
// returned so permission problems are not mistaken for absence.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
