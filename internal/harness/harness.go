package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/normverify/internal/cases"
	"github.com/roach88/normverify/internal/verify"
)

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger handed to the checker.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) { c.logger = l }
}

// Run verifies every case of the scenario in order and evaluates the
// expectations.
//
// The returned error is reserved for a cancelled context. A case that
// could not be verified (for example an unreadable directory) is recorded
// in Result.Errors and fails the scenario.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := &runConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(cfg)
	}

	checker := verify.New(verify.Options{
		Tool:           scenario.Tool,
		CompareGoldens: scenario.CompareGoldens,
		Logger:         cfg.logger,
	})
	layout := scenario.Layout()

	result := NewResult()
	verified := make([]Expectation, 0, len(scenario.Cases))
	for _, exp := range scenario.Cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c, err := cases.New(exp.Case, layout)
		if err != nil {
			result.AddError(fmt.Sprintf("%s: %v", exp.Case, err))
			continue
		}

		out, err := checker.Check(ctx, c)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			result.AddError(fmt.Sprintf("%s: verification error: %v", exp.Case, err))
			continue
		}

		cfg.logger.Debug("case verified", "scenario", scenario.Name, "case", exp.Case, "status", out.Status)
		result.Outcomes = append(result.Outcomes, out)
		verified = append(verified, exp)
	}

	for _, msg := range EvaluateExpectations(verified, result.Outcomes) {
		result.AddError(msg)
	}

	return result, nil
}
