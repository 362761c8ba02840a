package verify

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/roach88/normverify/internal/cases"
)

// CompareGoldens requires every produced artifact of c to be byte-identical
// to its checked-in copy under the expected directory. It returns a
// *Violation on the first mismatch.
func CompareGoldens(c cases.Case) error {
	for _, name := range cases.Artifacts {
		want, err := os.ReadFile(c.GoldenPath(name))
		if errors.Is(err, fs.ErrNotExist) {
			return newMissingFixture(c.Name, "golden "+name, c.GoldenPath(name))
		}
		if err != nil {
			return fmt.Errorf("read golden: %w", err)
		}

		got, err := os.ReadFile(c.OutputPath(name))
		if errors.Is(err, fs.ErrNotExist) {
			return newMissingArtifact(c.Name, name, c.OutputPath(name))
		}
		if err != nil {
			return fmt.Errorf("read output: %w", err)
		}

		if !bytes.Equal(got, want) {
			return newGoldenMismatch(c.Name, name, firstDifference(got, want))
		}
	}
	return nil
}

// firstDifference returns the offset of the first differing byte. When
// one slice is a prefix of the other it returns the shorter length.
func firstDifference(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
