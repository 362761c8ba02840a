package cli

import (
	"context"
	"fmt"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/roach88/normverify/internal/cases"
	"github.com/roach88/normverify/internal/config"
	"github.com/roach88/normverify/internal/store"
	"github.com/roach88/normverify/internal/verify"
)

// VerifyAllOptions holds flags for the verify-all command.
type VerifyAllOptions struct {
	*RootOptions
	flags config.Config
}

// VerifyAllResult is the JSON payload of verify-all.
type VerifyAllResult struct {
	*verify.Summary
	Batch *store.Batch `json:"batch,omitempty"`
}

// NewVerifyAllCommand creates the verify-all command.
func NewVerifyAllCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyAllOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify-all",
		Short: "Verify every case under the fixtures root",
		Long: `Verify every case that has a directory under <fixtures>/input.

Cases are independent and are verified concurrently (--parallel, default
GOMAXPROCS); results are printed in case-name order. With --ledger the
batch is recorded in a SQLite ledger readable by the history command.

Exit codes:
  0 - Every case passed or was skipped as expected-fail
  1 - One or more cases violated an invariant
  2 - Command error, or a case could not be verified at all

Examples:
  normverify verify-all --out-root out/demo
  normverify verify-all --out-root out/demo --filter "case0*" --parallel 4
  normverify verify-all --out-root out/demo --ledger runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerifyAll(opts, cmd)
		},
	}

	bindLayoutFlags(cmd, &opts.flags)
	cmd.Flags().IntVar(&opts.flags.Parallel, flagParallel, 0, "maximum concurrent cases (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&opts.flags.Ledger, flagLedger, "", "record the batch in this SQLite ledger")
	cmd.Flags().StringVar(&opts.flags.Filter, flagFilter, "", "only verify cases matching this glob pattern")

	return cmd
}

func runVerifyAll(opts *VerifyAllOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	settings, err := resolveSettings(cmd, opts.RootOptions, opts.flags)
	if err != nil {
		return err
	}

	names, err := cases.Discover(settings.FixturesRoot)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to discover cases", err)
	}
	names, err = filterCases(names, settings.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid filter pattern", err)
	}

	f := opts.formatter(cmd)
	if len(names) == 0 {
		if f.JSON() {
			return f.Respond(CLIResponse{
				Status: "ok",
				Data:   VerifyAllResult{Summary: &verify.Summary{Results: []verify.CaseResult{}}},
			})
		}
		f.Textf("No cases found.")
		return nil
	}

	logger := opts.newLogger(cmd.ErrOrStderr())
	checker := verify.New(verify.Options{
		Tool:           settings.Tool,
		CompareGoldens: settings.CompareGoldens,
		Logger:         logger,
	})

	f.VerboseLog("Verifying %d case(s)", len(names))
	summary, err := verify.RunAll(ctx, checker, layoutOf(settings), names, settings.Parallel)
	if err != nil {
		return WrapExitError(ExitCommandError, "verification interrupted", err)
	}

	result := VerifyAllResult{Summary: summary}
	if settings.Ledger != "" {
		batch, err := recordBatch(ctx, settings, summary)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to record batch", err)
		}
		logger.Info("batch recorded", "id", batch.ID, "seq", batch.Seq, "ledger", settings.Ledger)
		result.Batch = &batch
	}

	if f.JSON() {
		resp := CLIResponse{Status: "ok", Data: result}
		if result.Batch != nil {
			resp.BatchID = result.Batch.ID
		}
		if !summary.OK() {
			resp.Status = "error"
			resp.Error = &CLIError{Code: "E_VERIFY_FAILED", Message: summaryMessage(summary)}
		}
		if err := f.Respond(resp); err != nil {
			return err
		}
	} else {
		outputVerifyAllText(f, result, settings.Ledger)
	}

	switch {
	case summary.Errored > 0:
		return NewExitError(ExitCommandError, summaryMessage(summary))
	case summary.Failed > 0:
		// Violations = exit code 1
		return NewExitError(ExitFailure, summaryMessage(summary))
	}
	return nil
}

// filterCases keeps the names matching pattern. An empty pattern keeps all.
func filterCases(names []string, pattern string) ([]string, error) {
	if pattern == "" {
		return names, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	var kept []string
	for _, name := range names {
		if g.Match(name) {
			kept = append(kept, name)
		}
	}
	return kept, nil
}

func recordBatch(ctx context.Context, settings config.Config, summary *verify.Summary) (store.Batch, error) {
	st, err := store.Open(settings.Ledger)
	if err != nil {
		return store.Batch{}, err
	}
	defer st.Close()

	return st.RecordBatch(ctx, store.RunInfo{
		Tool:           settings.Tool,
		FixturesRoot:   settings.FixturesRoot,
		OutRoot:        settings.OutRoot,
		CompareGoldens: settings.CompareGoldens,
	}, summary)
}

func summaryMessage(s *verify.Summary) string {
	switch {
	case s.Errored > 0:
		return fmt.Sprintf("%d case(s) could not be verified", s.Errored)
	case s.Failed > 0:
		return fmt.Sprintf("%d case(s) failed verification", s.Failed)
	}
	return "all cases verified"
}

// outputVerifyAllText prints one block per case and the summary.
func outputVerifyAllText(f *OutputFormatter, result VerifyAllResult, ledger string) {
	for _, r := range result.Results {
		switch {
		case r.Err != "":
			f.Textf("! %s", r.Case)
			f.Textf("  ERROR: %s", r.Err)
		case r.Status == verify.StatusPass:
			f.Textf("✓ %s", r.Case)
		case r.Status == verify.StatusSkip:
			f.Textf("- %s", r.Case)
			f.Textf("  %s", r.Line())
		default:
			f.Textf("✗ %s", r.Case)
			f.Textf("  %s", r.Line())
		}
	}

	s := result.Summary
	f.Textf("")
	f.Textf("Verify Summary: %d passed, %d failed, %d skipped, %d errored, %d total",
		s.Passed, s.Failed, s.Skipped, s.Errored, s.Total)
	if result.Batch != nil {
		f.Textf("Recorded batch #%d (%s) in %s", result.Batch.Seq, result.Batch.ID, ledger)
	}

	if s.OK() {
		f.Textf("✓ All cases verified")
		return
	}
	f.Textf("✗ %s", summaryMessage(s))
}
