package cli

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/normverify/internal/artifact"
	"github.com/roach88/normverify/internal/cases"
	"github.com/roach88/normverify/internal/testutil"
)

// runCLI executes the root command with args and captures both streams.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// newGoldie resolves the golden directory before a test changes its
// working directory.
func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	dir, err := filepath.Abs(filepath.Join("testdata", "golden"))
	require.NoError(t, err)
	return goldie.New(t,
		goldie.WithFixtureDir(dir),
		goldie.WithNameSuffix(".golden"),
	)
}

// chdirTree creates an empty fixtures/out tree and makes its parent the
// working directory, so commands can use the relative paths "fixtures"
// and "out" and print path-stable messages.
func chdirTree(t *testing.T) cases.Layout {
	t.Helper()
	layout := testutil.NewLayout(t)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(filepath.Dir(layout.FixturesRoot)); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return layout
}

// writeMixedTree writes one passing case, one expected-fail case and two
// failing cases with path-free diagnostics.
func writeMixedTree(t *testing.T, layout cases.Layout) {
	t.Helper()
	testutil.WriteCase(t, layout, "case01_ok")
	testutil.WriteExpectedFailure(t, layout, "case02_expected_fail", "row 3: invalid amount")
	testutil.WriteCase(t, layout, "case04_counts", testutil.WithReport(func(r *artifact.Report) {
		r.RowsTotal = 9
	}))
	testutil.WriteCase(t, layout, "case05_header", testutil.WithHeader("name", "id", "amount"))
}

// walkFiles calls fn for every regular file under root, in lexical order.
func walkFiles(root string, fn func(path string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			fn(path)
		}
		return nil
	})
}
