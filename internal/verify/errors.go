package verify

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes an invariant violation.
type Kind string

const (
	// KindMissingFixture indicates raw.csv, schema.json or a golden copy is absent.
	KindMissingFixture Kind = "MISSING_FIXTURE"

	// KindMissingArtifact indicates a pipeline output is absent.
	KindMissingArtifact Kind = "MISSING_ARTIFACT"

	// KindFormatError indicates non-canonical text.
	KindFormatError Kind = "FORMAT_ERROR"

	// KindParseError indicates malformed JSON or CSV content.
	KindParseError Kind = "PARSE_ERROR"

	// KindIdentityMismatch indicates report.tool names another pipeline.
	KindIdentityMismatch Kind = "IDENTITY_MISMATCH"

	// KindDigestMismatch indicates a recorded digest differs from the file.
	KindDigestMismatch Kind = "DIGEST_MISMATCH"

	// KindCountMismatch indicates rows_total != rows_ok + rows_error.
	KindCountMismatch Kind = "COUNT_MISMATCH"

	// KindHeaderMismatch indicates the normalized header is not the schema order.
	KindHeaderMismatch Kind = "HEADER_MISMATCH"

	// KindGoldenMismatch indicates an output differs from its golden copy.
	KindGoldenMismatch Kind = "GOLDEN_MISMATCH"
)

// Violation is the single failure reported for a case.
type Violation struct {
	// Kind identifies the failed invariant.
	Kind Kind `json:"kind"`

	// Case is the case name.
	Case string `json:"case"`

	// Artifact is the file involved (e.g. "report.json"), if any.
	Artifact string `json:"artifact,omitempty"`

	// Field is the report field involved (e.g. "sha256_normalized"), if any.
	Field string `json:"field,omitempty"`

	// Expected and Actual hold the compared values where a comparison failed.
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`

	// Message is a one-line description.
	Message string `json:"message"`

	// Details carries extra diagnostics (e.g. a header diff).
	Details map[string]string `json:"details,omitempty"`

	// Err is the underlying error, if any.
	Err error `json:"-"`
}

// Error implements the error interface. The result is always one line.
func (v *Violation) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", v.Kind, v.Case, v.Message)
	return strings.ReplaceAll(msg, "\n", " ")
}

func (v *Violation) Unwrap() error {
	return v.Err
}

// KindOf returns the violation kind of err, or "" if err is not a Violation.
func KindOf(err error) Kind {
	var v *Violation
	if errors.As(err, &v) {
		return v.Kind
	}
	return ""
}

// IsViolation reports whether err is or wraps a *Violation.
func IsViolation(err error) bool {
	var v *Violation
	return errors.As(err, &v)
}

func newMissingArtifact(caseName, artifact, path string) *Violation {
	return &Violation{
		Kind:     KindMissingArtifact,
		Case:     caseName,
		Artifact: artifact,
		Message:  fmt.Sprintf("missing output file: %s", path),
	}
}

func newMissingFixture(caseName, fixture, path string) *Violation {
	return &Violation{
		Kind:     KindMissingFixture,
		Case:     caseName,
		Artifact: fixture,
		Message:  fmt.Sprintf("missing fixture %s: %s", fixture, path),
	}
}

func newIdentityMismatch(caseName, want, got string) *Violation {
	return &Violation{
		Kind:     KindIdentityMismatch,
		Case:     caseName,
		Artifact: "report.json",
		Field:    "tool",
		Expected: want,
		Actual:   got,
		Message:  fmt.Sprintf("report.json tool mismatch: got %q, want %q", got, want),
	}
}

func newDigestMismatch(caseName, field, recorded, actual string) *Violation {
	return &Violation{
		Kind:     KindDigestMismatch,
		Case:     caseName,
		Artifact: "report.json",
		Field:    field,
		Expected: recorded,
		Actual:   actual,
		Message:  fmt.Sprintf("%s mismatch: report=%s actual=%s", field, orNone(recorded), actual),
	}
}

func newCountMismatch(caseName string, total, ok, bad int) *Violation {
	return &Violation{
		Kind:     KindCountMismatch,
		Case:     caseName,
		Artifact: "report.json",
		Field:    "rows_total",
		Expected: fmt.Sprintf("%d", ok+bad),
		Actual:   fmt.Sprintf("%d", total),
		Message: fmt.Sprintf("rows_total != rows_ok + rows_error (%d != %d; rows_ok=%d, rows_error=%d)",
			total, ok+bad, ok, bad),
	}
}

func newHeaderMismatch(caseName string, want, got []string) *Violation {
	return &Violation{
		Kind:     KindHeaderMismatch,
		Case:     caseName,
		Artifact: "normalized.csv",
		Expected: formatNames(want),
		Actual:   formatNames(got),
		Message:  fmt.Sprintf("normalized header mismatch: got=%s want=%s", formatNames(got), formatNames(want)),
	}
}

func newGoldenMismatch(caseName, artifact string, offset int) *Violation {
	return &Violation{
		Kind:     KindGoldenMismatch,
		Case:     caseName,
		Artifact: artifact,
		Message:  fmt.Sprintf("golden mismatch: %s/%s (first difference at byte %d)", caseName, artifact, offset),
		Details:  map[string]string{"offset": fmt.Sprintf("%d", offset)},
	}
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}

func formatNames(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return "[" + strings.Join(quoted, ",") + "]"
}
