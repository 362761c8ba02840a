package verify

import (
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/normverify/internal/cases"
	"github.com/roach88/normverify/internal/testutil"
)

func TestCompareGoldens_Identical(t *testing.T) {
	layout := testutil.NewLayout(t)
	fx := testutil.WriteCase(t, layout, "case01_ok")

	assert.NoError(t, CompareGoldens(fx.Case))
}

func TestCompareGoldens_SingleByte(t *testing.T) {
	for _, name := range cases.Artifacts {
		t.Run(name, func(t *testing.T) {
			layout := testutil.NewLayout(t)
			fx := testutil.WriteCase(t, layout, "case04_quoted_fields")
			testutil.FlipByte(t, fx.Case.OutputPath(name), 2)

			err := CompareGoldens(fx.Case)
			require.Error(t, err)
			assert.Equal(t, KindGoldenMismatch, KindOf(err))

			var v *Violation
			require.ErrorAs(t, err, &v)
			assert.Equal(t, name, v.Artifact)
			assert.Equal(t, "2", v.Details["offset"])
			assert.Contains(t, err.Error(), "case04_quoted_fields/"+name)
		})
	}
}

func TestCompareGoldens_TrailingBytes(t *testing.T) {
	layout := testutil.NewLayout(t)
	fx := testutil.WriteCase(t, layout, "case01_ok")
	path := fx.Case.OutputPath(cases.NormalizedFile)
	testutil.Rewrite(t, path, func(b []byte) []byte { return append(b, '\n') })

	info, err := os.Stat(fx.Case.GoldenPath(cases.NormalizedFile))
	require.NoError(t, err)

	err = CompareGoldens(fx.Case)
	var v *Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, KindGoldenMismatch, v.Kind)
	assert.Equal(t, strconv.FormatInt(info.Size(), 10), v.Details["offset"])
}

func TestCompareGoldens_MissingGolden(t *testing.T) {
	layout := testutil.NewLayout(t)
	fx := testutil.WriteCase(t, layout, "case01_ok", testutil.WithoutGoldens())

	err := CompareGoldens(fx.Case)
	assert.Equal(t, KindMissingFixture, KindOf(err))
	assert.Contains(t, err.Error(), "golden normalized.csv")
}

func TestCompareGoldens_MissingOutput(t *testing.T) {
	layout := testutil.NewLayout(t)
	fx := testutil.WriteCase(t, layout, "case01_ok")
	require.NoError(t, os.Remove(fx.Case.OutputPath(cases.ReportFile)))

	err := CompareGoldens(fx.Case)
	assert.Equal(t, KindMissingArtifact, KindOf(err))
}

func TestFirstDifference(t *testing.T) {
	assert.Equal(t, 0, firstDifference([]byte("a"), []byte("b")))
	assert.Equal(t, 2, firstDifference([]byte("abc"), []byte("abd")))
	assert.Equal(t, 3, firstDifference([]byte("abc"), []byte("abcd")))
	assert.Equal(t, 0, firstDifference(nil, []byte("x")))
}
