package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/normverify/internal/cases"
	"github.com/roach88/normverify/internal/verify"
)

// Scenario defines a conformance scenario: a fixture tree, an output tree
// and the verdict expected for each case.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario pins down.
	Description string `yaml:"description"`

	// Fixtures is the fixtures root (input/ and expected/ live under it).
	Fixtures string `yaml:"fixtures"`

	// OutRoot holds one output directory per case.
	OutRoot string `yaml:"out_root"`

	// Tool overrides the expected report.tool value.
	Tool string `yaml:"tool,omitempty"`

	// CompareGoldens enables golden comparison for every case.
	CompareGoldens bool `yaml:"compare_goldens,omitempty"`

	// Cases lists the expected verdicts, in the order they are checked.
	Cases []Expectation `yaml:"cases"`
}

// Expectation is the verdict a case must receive.
type Expectation struct {
	// Case is the case name.
	Case string `yaml:"case"`

	// Expect is the expected status: pass, fail or skip.
	Expect verify.Status `yaml:"expect"`

	// Kind, Artifact and Field narrow an expected failure. Empty means any.
	Kind     verify.Kind `yaml:"kind,omitempty"`
	Artifact string      `yaml:"artifact,omitempty"`
	Field    string      `yaml:"field,omitempty"`

	// RecordedError narrows an expected skip to a recorded error string.
	RecordedError string `yaml:"recorded_error,omitempty"`
}

// Layout returns the case layout of the scenario.
func (s *Scenario) Layout() cases.Layout {
	return cases.Layout{FixturesRoot: s.Fixtures, OutRoot: s.OutRoot}
}

var knownKinds = map[verify.Kind]bool{
	verify.KindMissingFixture:   true,
	verify.KindMissingArtifact:  true,
	verify.KindFormatError:      true,
	verify.KindParseError:       true,
	verify.KindIdentityMismatch: true,
	verify.KindDigestMismatch:   true,
	verify.KindCountMismatch:    true,
	verify.KindHeaderMismatch:   true,
	verify.KindGoldenMismatch:   true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// Relative fixture and output paths are resolved against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "case:" vs "cases:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	if scenario.Fixtures != "" && !filepath.IsAbs(scenario.Fixtures) {
		scenario.Fixtures = filepath.Join(base, scenario.Fixtures)
	}
	if scenario.OutRoot != "" && !filepath.IsAbs(scenario.OutRoot) {
		scenario.OutRoot = filepath.Join(base, scenario.OutRoot)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Fixtures == "" {
		return fmt.Errorf("fixtures is required")
	}

	if s.OutRoot == "" {
		return fmt.Errorf("out_root is required")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, exp := range s.Cases {
		if err := validateExpectation(i, &exp); err != nil {
			return err
		}
		if seen[exp.Case] {
			return fmt.Errorf("cases[%d]: duplicate case %q", i, exp.Case)
		}
		seen[exp.Case] = true
	}

	return nil
}

// validateExpectation validates a single expectation based on its status.
func validateExpectation(index int, e *Expectation) error {
	if e.Case == "" {
		return fmt.Errorf("cases[%d]: case is required", index)
	}
	if _, err := cases.New(e.Case, cases.Layout{}); err != nil {
		return fmt.Errorf("cases[%d]: %w", index, err)
	}

	switch e.Expect {
	case verify.StatusPass:
		if e.Kind != "" || e.Artifact != "" || e.Field != "" || e.RecordedError != "" {
			return fmt.Errorf("cases[%d]: expect pass takes no kind, artifact, field or recorded_error", index)
		}
	case verify.StatusFail:
		if e.Kind != "" && !knownKinds[e.Kind] {
			return fmt.Errorf("cases[%d]: unknown kind %q", index, e.Kind)
		}
		if e.RecordedError != "" {
			return fmt.Errorf("cases[%d]: recorded_error is only valid with expect skip", index)
		}
	case verify.StatusSkip:
		if e.Kind != "" || e.Artifact != "" || e.Field != "" {
			return fmt.Errorf("cases[%d]: kind, artifact and field are only valid with expect fail", index)
		}
	case "":
		return fmt.Errorf("cases[%d]: expect is required", index)
	default:
		return fmt.Errorf("cases[%d]: unknown expect %q (want pass, fail or skip)", index, e.Expect)
	}

	return nil
}
