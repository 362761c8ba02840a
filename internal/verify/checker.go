package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"slices"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/normverify/internal/artifact"
	"github.com/roach88/normverify/internal/canon"
	"github.com/roach88/normverify/internal/cases"
	"github.com/roach88/normverify/internal/digest"
)

// DefaultTool is the report.tool value written by the normalizer.
const DefaultTool = "proof-first-normalizer"

// Options configures a Checker.
type Options struct {
	// Tool is the expected report.tool value. Defaults to DefaultTool.
	Tool string

	// CompareGoldens enables byte-exact comparison against the expected copies.
	CompareGoldens bool

	// Logger receives per-invariant debug logs. Defaults to a discarding logger.
	Logger *slog.Logger
}

// Checker verifies cases. It holds no per-case state and is safe for
// concurrent use across cases.
type Checker struct {
	tool           string
	compareGoldens bool
	logger         *slog.Logger
}

// New creates a Checker.
func New(opts Options) *Checker {
	c := &Checker{
		tool:           opts.Tool,
		compareGoldens: opts.CompareGoldens,
		logger:         opts.Logger,
	}
	if c.tool == "" {
		c.tool = DefaultTool
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// Tool returns the expected report.tool value.
func (c *Checker) Tool() string {
	return c.tool
}

// run carries values loaded by earlier invariants to later ones.
type run struct {
	c      cases.Case
	report *artifact.Report
}

type invariant struct {
	name  string
	check func(r *run) error
}

func (c *Checker) invariants() []invariant {
	list := []invariant{
		{"artifact_presence", c.checkArtifactsPresent},
		{"canonical_text", c.checkCanonicalText},
		{"report_identity", c.checkReportIdentity},
		{"fixture_presence", c.checkFixturesPresent},
		{"digests", c.checkDigests},
		{"row_counts", c.checkRowCounts},
		{"header_order", c.checkHeaderOrder},
	}
	if c.compareGoldens {
		list = append(list, invariant{"goldens", func(r *run) error { return CompareGoldens(r.c) }})
	}
	return list
}

// Check verifies one case.
//
// The returned error is reserved for conditions that are not verdicts on
// the pipeline: a cancelled context or an I/O error other than a missing
// file. Every invariant violation is reported through the Outcome.
func (c *Checker) Check(ctx context.Context, cs cases.Case) (Outcome, error) {
	cl, err := cases.Classify(cs)
	if err != nil {
		return Outcome{}, err
	}
	if cl.Expectation == cases.ExpectFailure {
		reason := fmt.Sprintf("%s is an expected-fail case (%s)", cs.Name, cs.MarkerPath())
		c.logger.Info("case skipped", "case", cs.Name, "marker", cs.MarkerPath())
		return Skip(cs.Name, reason, cl.RecordedError), nil
	}

	r := &run{c: cs}
	for _, inv := range c.invariants() {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		if err := inv.check(r); err != nil {
			var v *Violation
			if errors.As(err, &v) {
				c.logger.Info("case failed", "case", cs.Name, "invariant", inv.name, "kind", v.Kind)
				return Fail(v), nil
			}
			return Outcome{}, fmt.Errorf("%s: %s: %w", cs.Name, inv.name, err)
		}
		c.logger.Debug("invariant held", "case", cs.Name, "invariant", inv.name)
	}

	c.logger.Info("case passed", "case", cs.Name)
	return Pass(cs.Name), nil
}

func (c *Checker) checkArtifactsPresent(r *run) error {
	for _, name := range cases.Artifacts {
		path := r.c.OutputPath(name)
		ok, err := cases.Exists(path)
		if err != nil {
			return err
		}
		if !ok {
			return newMissingArtifact(r.c.Name, name, path)
		}
	}
	return nil
}

func (c *Checker) checkCanonicalText(r *run) error {
	for _, name := range cases.Artifacts {
		if _, err := canon.ReadFile(r.c.OutputPath(name)); err != nil {
			return classify(r.c.Name, name, err)
		}
	}
	return nil
}

func (c *Checker) checkReportIdentity(r *run) error {
	rep, err := artifact.LoadReport(r.c.OutputPath(cases.ReportFile))
	if err != nil {
		return classify(r.c.Name, cases.ReportFile, err)
	}
	r.report = rep
	if rep.Tool != c.tool {
		return newIdentityMismatch(r.c.Name, c.tool, rep.Tool)
	}
	return nil
}

func (c *Checker) checkFixturesPresent(r *run) error {
	for _, fx := range []struct{ name, path string }{
		{cases.RawFile, r.c.RawPath()},
		{cases.SchemaFile, r.c.SchemaPath()},
	} {
		ok, err := cases.Exists(fx.path)
		if err != nil {
			return err
		}
		if !ok {
			return newMissingFixture(r.c.Name, fx.name, fx.path)
		}
	}
	return nil
}

func (c *Checker) checkDigests(r *run) error {
	for _, d := range []struct{ field, path string }{
		{artifact.FieldSha256Input, r.c.RawPath()},
		{artifact.FieldSha256Schema, r.c.SchemaPath()},
		{artifact.FieldSha256Normalized, r.c.OutputPath(cases.NormalizedFile)},
		{artifact.FieldSha256Errors, r.c.OutputPath(cases.ErrorsFile)},
	} {
		recorded, err := r.report.Digest(d.field)
		if err != nil {
			return err
		}
		actual, err := digest.File(d.path)
		if err != nil {
			return err
		}
		if recorded != actual {
			return newDigestMismatch(r.c.Name, d.field, recorded, actual)
		}
	}
	return nil
}

func (c *Checker) checkRowCounts(r *run) error {
	rep := r.report
	if !rep.RowsConsistent() {
		return newCountMismatch(r.c.Name, rep.RowsTotal, rep.RowsOK, rep.RowsError)
	}
	return nil
}

func (c *Checker) checkHeaderOrder(r *run) error {
	schema, err := artifact.LoadSchema(r.c.SchemaPath())
	if err != nil {
		return classify(r.c.Name, cases.SchemaFile, err)
	}
	table, err := artifact.LoadTable(r.c.OutputPath(cases.NormalizedFile))
	if err != nil {
		return classify(r.c.Name, cases.NormalizedFile, err)
	}

	want := schema.Names()
	if !slices.Equal(table.Header, want) {
		v := newHeaderMismatch(r.c.Name, want, table.Header)
		v.Details = map[string]string{"diff": cmp.Diff(want, table.Header)}
		return v
	}
	return nil
}

// classify turns a loader error into a Violation. Errors that are not
// verdicts on the artifacts are returned unchanged.
func classify(caseName, file string, err error) error {
	var fe *canon.FormatError
	if errors.As(err, &fe) {
		return &Violation{
			Kind:     KindFormatError,
			Case:     caseName,
			Artifact: file,
			Message:  fe.Error(),
			Err:      err,
		}
	}
	var pe *artifact.ParseError
	if errors.As(err, &pe) {
		return &Violation{
			Kind:     KindParseError,
			Case:     caseName,
			Artifact: file,
			Message:  pe.Error(),
			Err:      err,
		}
	}
	if errors.Is(err, fs.ErrNotExist) {
		if file == cases.SchemaFile || file == cases.RawFile {
			return &Violation{Kind: KindMissingFixture, Case: caseName, Artifact: file, Message: err.Error(), Err: err}
		}
		return &Violation{Kind: KindMissingArtifact, Case: caseName, Artifact: file, Message: err.Error(), Err: err}
	}
	return err
}
