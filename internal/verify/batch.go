package verify

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/normverify/internal/cases"
)

// CaseResult is the batch entry for one case. Err is set when the case
// could not be verified at all (see Checker.Check); Outcome is then zero.
type CaseResult struct {
	Outcome
	Err string `json:"error,omitempty"`
}

// Summary aggregates a batch run. Results are in input order.
type Summary struct {
	Results []CaseResult `json:"results"`
	Passed  int          `json:"passed"`
	Failed  int          `json:"failed"`
	Skipped int          `json:"skipped"`
	Errored int          `json:"errored"`
	Total   int          `json:"total"`
}

// OK reports whether no case failed or errored.
func (s *Summary) OK() bool {
	return s.Failed == 0 && s.Errored == 0
}

// RunAll verifies the named cases with at most parallel concurrent checks
// (GOMAXPROCS when parallel <= 0). Cases are independent; each one is
// still evaluated sequentially by the checker. A cancelled context stops
// the batch and is returned as the error.
func RunAll(ctx context.Context, checker *Checker, layout cases.Layout, names []string, parallel int) (*Summary, error) {
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}

	results := make([]CaseResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			results[i] = checkOne(gctx, checker, layout, name)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := &Summary{Results: results, Total: len(results)}
	for _, r := range results {
		switch {
		case r.Err != "":
			s.Errored++
		case r.Status == StatusPass:
			s.Passed++
		case r.Status == StatusSkip:
			s.Skipped++
		default:
			s.Failed++
		}
	}
	return s, nil
}

func checkOne(ctx context.Context, checker *Checker, layout cases.Layout, name string) CaseResult {
	c, err := cases.New(name, layout)
	if err != nil {
		return CaseResult{Outcome: Outcome{Case: name}, Err: err.Error()}
	}
	out, err := checker.Check(ctx, c)
	if err != nil {
		return CaseResult{Outcome: Outcome{Case: name}, Err: err.Error()}
	}
	return CaseResult{Outcome: out}
}
