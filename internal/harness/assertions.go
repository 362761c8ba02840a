package harness

import (
	"fmt"

	"github.com/roach88/normverify/internal/verify"
)

// AssertionError is returned when a case's verdict does not meet its
// expectation. It names the first property that differed.
type AssertionError struct {
	Case     string // Case name
	Property string // "status", "kind", "artifact", "field" or "recorded_error"
	Expected string // Expected value
	Actual   string // Actual value
	Verdict  string // Outcome line, for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: %s: expected %q, got %q (%s)", e.Case, e.Property, e.Expected, e.Actual, e.Verdict)
}

// CheckExpectation compares an outcome with its expectation.
// Returns nil when the expectation is met.
func CheckExpectation(exp Expectation, out verify.Outcome) error {
	mismatch := func(property, expected, actual string) error {
		return &AssertionError{
			Case:     exp.Case,
			Property: property,
			Expected: expected,
			Actual:   actual,
			Verdict:  out.Line(),
		}
	}

	if out.Status != exp.Expect {
		return mismatch("status", string(exp.Expect), string(out.Status))
	}

	switch exp.Expect {
	case verify.StatusFail:
		v := out.Violation
		if v == nil {
			return mismatch("kind", string(exp.Kind), "")
		}
		if exp.Kind != "" && v.Kind != exp.Kind {
			return mismatch("kind", string(exp.Kind), string(v.Kind))
		}
		if exp.Artifact != "" && v.Artifact != exp.Artifact {
			return mismatch("artifact", exp.Artifact, v.Artifact)
		}
		if exp.Field != "" && v.Field != exp.Field {
			return mismatch("field", exp.Field, v.Field)
		}
	case verify.StatusSkip:
		if exp.RecordedError != "" && out.RecordedError != exp.RecordedError {
			return mismatch("recorded_error", exp.RecordedError, out.RecordedError)
		}
	}

	return nil
}

// EvaluateExpectations checks every outcome against the expectation for
// the same case and returns the failure messages. Cases without an
// outcome are reported as not verified.
func EvaluateExpectations(expectations []Expectation, outcomes []verify.Outcome) []string {
	byCase := make(map[string]verify.Outcome, len(outcomes))
	for _, out := range outcomes {
		byCase[out.Case] = out
	}

	var errors []string
	for _, exp := range expectations {
		out, ok := byCase[exp.Case]
		if !ok {
			errors = append(errors, fmt.Sprintf("%s: not verified", exp.Case))
			continue
		}
		if err := CheckExpectation(exp, out); err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}
