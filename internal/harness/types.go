package harness

import "github.com/roach88/normverify/internal/verify"

// Result is the outcome of a scenario run.
type Result struct {
	// Pass indicates overall scenario success.
	// True if every case met its expectation.
	Pass bool `json:"pass"`

	// Outcomes holds the verifier's verdict per case, in scenario order.
	Outcomes []verify.Outcome `json:"outcomes"`

	// Errors contains expectation mismatches and per-case errors.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Outcomes: []verify.Outcome{},
		Errors:   []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Pass = false
	r.Errors = append(r.Errors, msg)
}
