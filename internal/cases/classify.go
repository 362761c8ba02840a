package cases

import (
	"fmt"
	"os"
	"strings"
)

// Expectation is how a case is verified.
type Expectation int

const (
	// ExpectSuccess cases are verified against their output artifacts.
	ExpectSuccess Expectation = iota
	// ExpectFailure cases carry a recorded error string instead.
	ExpectFailure
)

func (e Expectation) String() string {
	switch e {
	case ExpectSuccess:
		return "expected-success"
	case ExpectFailure:
		return "expected-failure"
	default:
		return fmt.Sprintf("Expectation(%d)", int(e))
	}
}

// Classification is the result of Classify.
type Classification struct {
	Expectation Expectation

	// RecordedError is the trimmed content of error.txt for
	// expected-failure cases.
	RecordedError string
}

// Classify decides how c is verified by looking for the expected-failure
// marker in the fixture tree. Only the fixture tree is consulted.
func Classify(c Case) (Classification, error) {
	ok, err := Exists(c.MarkerPath())
	if err != nil {
		return Classification{}, fmt.Errorf("classify %s: %w", c.Name, err)
	}
	if !ok {
		return Classification{Expectation: ExpectSuccess}, nil
	}

	b, err := os.ReadFile(c.MarkerPath())
	if err != nil {
		return Classification{}, fmt.Errorf("classify %s: %w", c.Name, err)
	}
	return Classification{
		Expectation:   ExpectFailure,
		RecordedError: strings.TrimSpace(string(b)),
	}, nil
}
