package verify

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViolation_SingleLine(t *testing.T) {
	v := &Violation{Kind: KindParseError, Case: "c", Message: "line one\nline two"}
	assert.Equal(t, "PARSE_ERROR: c: line one line two", v.Error())
}

func TestViolation_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	v := &Violation{Kind: KindFormatError, Case: "c", Message: "m", Err: cause}
	wrapped := fmt.Errorf("outer: %w", v)

	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, KindFormatError, KindOf(wrapped))
	assert.True(t, IsViolation(wrapped))
	assert.Equal(t, Kind(""), KindOf(cause))
	assert.False(t, IsViolation(cause))
}

func TestViolationMessages(t *testing.T) {
	tests := []struct {
		v    *Violation
		want string
	}{
		{
			newMissingArtifact("case01_ok", "errors.csv", "out/case01_ok/errors.csv"),
			"MISSING_ARTIFACT: case01_ok: missing output file: out/case01_ok/errors.csv",
		},
		{
			newMissingFixture("case01_ok", "raw.csv", "fixtures/input/case01_ok/raw.csv"),
			"MISSING_FIXTURE: case01_ok: missing fixture raw.csv: fixtures/input/case01_ok/raw.csv",
		},
		{
			newIdentityMismatch("case01_ok", "proof-first-normalizer", "x"),
			`IDENTITY_MISMATCH: case01_ok: report.json tool mismatch: got "x", want "proof-first-normalizer"`,
		},
		{
			newDigestMismatch("case01_ok", "sha256_normalized", "aa", "bb"),
			"DIGEST_MISMATCH: case01_ok: sha256_normalized mismatch: report=aa actual=bb",
		},
		{
			newCountMismatch("case01_ok", 10, 7, 2),
			"COUNT_MISMATCH: case01_ok: rows_total != rows_ok + rows_error (10 != 9; rows_ok=7, rows_error=2)",
		},
		{
			newHeaderMismatch("case01_ok", []string{"id", "name"}, []string{"name", "id"}),
			`HEADER_MISMATCH: case01_ok: normalized header mismatch: got=["name","id"] want=["id","name"]`,
		},
		{
			newGoldenMismatch("case01_ok", "report.json", 17),
			"GOLDEN_MISMATCH: case01_ok: golden mismatch: case01_ok/report.json (first difference at byte 17)",
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.v.Kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Error())
		})
	}
}

func TestOutcomeLines(t *testing.T) {
	assert.Equal(t, "OK: normalizer outputs are internally consistent.", Pass("a").Line())
	assert.Equal(t, "SKIP: why", Skip("a", "why", "").Line())

	f := Fail(newCountMismatch("a", 3, 1, 1))
	assert.Equal(t, StatusFail, f.Status)
	assert.Equal(t, "a", f.Case)
	assert.Equal(t, "FAIL: COUNT_MISMATCH: a: rows_total != rows_ok + rows_error (3 != 2; rows_ok=1, rows_error=1)", f.Line())
	assert.False(t, f.OK())
}
