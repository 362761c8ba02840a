package harness

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/normverify/internal/artifact"
	"github.com/roach88/normverify/internal/cases"
	"github.com/roach88/normverify/internal/testutil"
	"github.com/roach88/normverify/internal/verify"
)

// writeDemoTree builds five cases covering each verdict.
func writeDemoTree(t *testing.T) cases.Layout {
	t.Helper()
	layout := testutil.NewLayout(t)

	testutil.WriteCase(t, layout, "case01_ok")
	testutil.WriteExpectedFailure(t, layout, "case02_expected_fail", "row 3: invalid amount")

	tampered := testutil.WriteCase(t, layout, "case03_tampered")
	testutil.FlipByte(t, tampered.Case.OutputPath(cases.NormalizedFile), 1)

	testutil.WriteCase(t, layout, "case04_counts", testutil.WithReport(func(r *artifact.Report) {
		r.RowsTotal = 9
	}))
	testutil.WriteCase(t, layout, "case05_header", testutil.WithHeader("name", "id", "amount"))
	return layout
}

func demoScenario(layout cases.Layout) *Scenario {
	return &Scenario{
		Name:        "demo",
		Description: "one case per verdict",
		Fixtures:    layout.FixturesRoot,
		OutRoot:     layout.OutRoot,
		Cases: []Expectation{
			{Case: "case01_ok", Expect: verify.StatusPass},
			{Case: "case02_expected_fail", Expect: verify.StatusSkip, RecordedError: "row 3: invalid amount"},
			{Case: "case03_tampered", Expect: verify.StatusFail, Kind: verify.KindDigestMismatch, Field: "sha256_normalized"},
			{Case: "case04_counts", Expect: verify.StatusFail, Kind: verify.KindCountMismatch},
			{Case: "case05_header", Expect: verify.StatusFail, Kind: verify.KindHeaderMismatch, Artifact: "normalized.csv"},
		},
	}
}

func TestRun_AllExpectationsMet(t *testing.T) {
	layout := writeDemoTree(t)

	result, err := Run(context.Background(), demoScenario(layout))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Outcomes, 5)
	assert.Equal(t, "case01_ok", result.Outcomes[0].Case)
	assert.Equal(t, "case05_header", result.Outcomes[4].Case)
}

func TestRun_Golden(t *testing.T) {
	layout := writeDemoTree(t)

	result, err := Run(context.Background(), demoScenario(layout))
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	// Regenerate with: go test ./internal/harness -run TestRun_Golden -update
	AssertGolden(t, "demo", result)
}

func TestRun_ExpectationNotMet(t *testing.T) {
	layout := writeDemoTree(t)
	scenario := demoScenario(layout)
	scenario.Cases[3].Kind = verify.KindDigestMismatch

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `case04_counts: kind: expected "DIGEST_MISMATCH", got "COUNT_MISMATCH"`)
}

func TestRun_CaseErrorIsRecorded(t *testing.T) {
	layout := writeDemoTree(t)
	scenario := demoScenario(layout)
	scenario.Cases = append(scenario.Cases, Expectation{Case: "..", Expect: verify.StatusPass})

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `invalid case name ".."`)
	assert.Len(t, result.Outcomes, 5)
}

func TestRun_Tool(t *testing.T) {
	layout := testutil.NewLayout(t)
	testutil.WriteCase(t, layout, "case01_ok")

	scenario := &Scenario{
		Name:     "tool",
		Fixtures: layout.FixturesRoot,
		OutRoot:  layout.OutRoot,
		Tool:     "another-normalizer",
		Cases:    []Expectation{{Case: "case01_ok", Expect: verify.StatusFail, Kind: verify.KindIdentityMismatch}},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_CompareGoldens(t *testing.T) {
	layout := testutil.NewLayout(t)
	fx := testutil.WriteCase(t, layout, "case01_ok")
	testutil.FlipByte(t, fx.Case.GoldenPath(cases.ErrorsFile), 0)

	scenario := &Scenario{
		Name:           "goldens",
		Fixtures:       layout.FixturesRoot,
		OutRoot:        layout.OutRoot,
		CompareGoldens: true,
		Cases: []Expectation{
			{Case: "case01_ok", Expect: verify.StatusFail, Kind: verify.KindGoldenMismatch, Artifact: cases.ErrorsFile},
		},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_CancelledContext(t *testing.T) {
	layout := writeDemoTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, demoScenario(layout))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRun_Logger(t *testing.T) {
	layout := writeDemoTree(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Run(context.Background(), demoScenario(layout), WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "case verified")
	assert.Contains(t, buf.String(), "scenario=demo")
}

func TestRun_FromFile(t *testing.T) {
	layout := writeDemoTree(t)
	root := filepath.Dir(layout.FixturesRoot)

	var sb bytes.Buffer
	fmt.Fprintf(&sb, "name: demo\ndescription: from file\nfixtures: fixtures\nout_root: out\ncases:\n")
	for _, exp := range demoScenario(layout).Cases {
		fmt.Fprintf(&sb, "  - case: %s\n    expect: %s\n", exp.Case, exp.Expect)
		if exp.Kind != "" {
			fmt.Fprintf(&sb, "    kind: %s\n", exp.Kind)
		}
	}
	path := filepath.Join(root, "demo.yaml")
	require.NoError(t, os.WriteFile(path, sb.Bytes(), 0644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}
