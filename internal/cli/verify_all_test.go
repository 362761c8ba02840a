package cli

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/normverify/internal/store"
	"github.com/roach88/normverify/internal/testutil"
	"github.com/roach88/normverify/internal/verify"
)

func TestVerifyAll_Text(t *testing.T) {
	g := newGoldie(t)
	layout := chdirTree(t)
	writeMixedTree(t, layout)

	stdout, _, err := runCLI(t, "verify-all", "--out-root", "out", "--parallel", "2")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "2 case(s) failed verification", err.Error())
	g.Assert(t, "verify_all_text", []byte(stdout))
}

func TestVerifyAll_AllPass(t *testing.T) {
	layout := chdirTree(t)
	testutil.WriteCase(t, layout, "case01_ok")
	testutil.WriteCase(t, layout, "case02_ok")
	testutil.WriteExpectedFailure(t, layout, "case03_expected_fail", "boom")

	stdout, _, err := runCLI(t, "verify-all", "--out-root", "out")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Verify Summary: 2 passed, 0 failed, 1 skipped, 0 errored, 3 total")
	assert.Contains(t, stdout, "✓ All cases verified")
}

func TestVerifyAll_Filter(t *testing.T) {
	layout := chdirTree(t)
	writeMixedTree(t, layout)

	stdout, _, err := runCLI(t, "verify-all", "--out-root", "out", "--filter", "case0[12]*")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ case01_ok")
	assert.Contains(t, stdout, "- case02_expected_fail")
	assert.NotContains(t, stdout, "case04_counts")
	assert.Contains(t, stdout, "2 total")
}

func TestVerifyAll_FilterMatchesNothing(t *testing.T) {
	layout := chdirTree(t)
	writeMixedTree(t, layout)

	stdout, _, err := runCLI(t, "verify-all", "--out-root", "out", "--filter", "nomatch*")
	require.NoError(t, err)
	assert.Equal(t, "No cases found.\n", stdout)
}

func TestVerifyAll_InvalidFilter(t *testing.T) {
	layout := chdirTree(t)
	writeMixedTree(t, layout)

	_, _, err := runCLI(t, "verify-all", "--out-root", "out", "--filter", "case[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestVerifyAll_MissingFixturesRoot(t *testing.T) {
	chdirTree(t)

	_, _, err := runCLI(t, "verify-all", "--fixtures", "nowhere", "--out-root", "out")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to discover cases")
}

func TestVerifyAll_NegativeParallel(t *testing.T) {
	chdirTree(t)

	_, _, err := runCLI(t, "verify-all", "--out-root", "out", "--parallel", "-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "parallel must be >= 0")
}

func TestVerifyAll_JSON(t *testing.T) {
	layout := chdirTree(t)
	writeMixedTree(t, layout)

	stdout, _, err := runCLI(t, "--format", "json", "verify-all", "--out-root", "out")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string         `json:"status"`
		Data   verify.Summary `json:"data"`
		Error  *CLIError      `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_VERIFY_FAILED", resp.Error.Code)
	assert.Equal(t, 4, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 2, resp.Data.Failed)
	assert.Equal(t, 1, resp.Data.Skipped)
	require.Len(t, resp.Data.Results, 4)
	assert.Equal(t, "case04_counts", resp.Data.Results[2].Case)
	require.NotNil(t, resp.Data.Results[2].Violation)
	assert.Equal(t, verify.KindCountMismatch, resp.Data.Results[2].Violation.Kind)
	assert.Equal(t, "row 3: invalid amount", resp.Data.Results[1].RecordedError)
}

func TestVerifyAll_JSONEmpty(t *testing.T) {
	chdirTree(t)

	stdout, _, err := runCLI(t, "--format", "json", "verify-all", "--out-root", "out")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"results":[],"passed":0,"failed":0,"skipped":0,"errored":0,"total":0}}`, stdout)
}

func TestVerifyAll_Ledger(t *testing.T) {
	layout := chdirTree(t)
	writeMixedTree(t, layout)

	stdout, _, err := runCLI(t, "verify-all", "--out-root", "out", "--ledger", "runs.db")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "Recorded batch #1 (")

	stdout, _, err = runCLI(t, "--format", "json", "verify-all", "--out-root", "out", "--ledger", "runs.db")
	require.Error(t, err)

	var resp struct {
		BatchID string `json:"batch_id"`
		Data    struct {
			Batch *store.Batch `json:"batch"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.NotNil(t, resp.Data.Batch)
	assert.Equal(t, int64(2), resp.Data.Batch.Seq)
	assert.Equal(t, resp.Data.Batch.ID, resp.BatchID)
	assert.Equal(t, 2, resp.Data.Batch.Failed)

	st, err := store.Open("runs.db")
	require.NoError(t, err)
	defer st.Close()
	batches, err := st.Batches(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, batches, 2)
}

func TestVerifyAll_ConfigFile(t *testing.T) {
	layout := chdirTree(t)
	writeMixedTree(t, layout)
	require.NoError(t, os.WriteFile("normverify.yaml", []byte("out_root: out\nfilter: \"case01*\"\nparallel: 1\n"), 0644))

	stdout, _, err := runCLI(t, "verify-all", "--config", "normverify.yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 total")

	// The flag replaces the file's filter.
	_, _, err = runCLI(t, "verify-all", "--config", "normverify.yaml", "--filter", "case04*")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestVerifyAll_DoesNotWriteUnderRoots(t *testing.T) {
	layout := chdirTree(t)
	writeMixedTree(t, layout)

	before := listFiles(t, ".")
	_, _, _ = runCLI(t, "verify-all", "--out-root", "out", "--compare-goldens")
	assert.Equal(t, before, listFiles(t, "."))
}

func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	require.NoError(t, walkFiles(root, func(path string) { files = append(files, path) }))
	return files
}
