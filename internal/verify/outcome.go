package verify

import "fmt"

// Status is the tag of an Outcome.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// Outcome is the result of verifying one case.
//
// Exactly one of the variants applies:
//   - Pass: every invariant held
//   - Fail: Violation names the first invariant that did not hold
//   - Skip: the case is an expected-failure case and was not verified here
type Outcome struct {
	Case   string `json:"case"`
	Status Status `json:"status"`

	// Reason is a one-line explanation for Fail and Skip.
	Reason string `json:"reason,omitempty"`

	// Violation is set for Fail.
	Violation *Violation `json:"violation,omitempty"`

	// RecordedError is the expected error string of a skipped case.
	RecordedError string `json:"recorded_error,omitempty"`
}

// Pass returns a passing outcome.
func Pass(caseName string) Outcome {
	return Outcome{Case: caseName, Status: StatusPass}
}

// Fail returns a failing outcome for v.
func Fail(v *Violation) Outcome {
	return Outcome{Case: v.Case, Status: StatusFail, Reason: v.Error(), Violation: v}
}

// Skip returns a skipped outcome.
func Skip(caseName, reason, recordedError string) Outcome {
	return Outcome{Case: caseName, Status: StatusSkip, Reason: reason, RecordedError: recordedError}
}

// OK reports whether the outcome should be treated as success by a caller
// that only distinguishes success from failure. Skips count as success.
func (o Outcome) OK() bool {
	return o.Status != StatusFail
}

// Line is the single line printed for the outcome.
func (o Outcome) Line() string {
	switch o.Status {
	case StatusPass:
		return "OK: normalizer outputs are internally consistent."
	case StatusSkip:
		return "SKIP: " + o.Reason
	case StatusFail:
		return "FAIL: " + o.Reason
	default:
		return fmt.Sprintf("UNKNOWN: %s", o.Case)
	}
}
