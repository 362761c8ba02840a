package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/normverify/internal/store"
	"github.com/roach88/normverify/internal/verify"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Ledger  string
	Case    string
	Status  string
	Limit   int
	Batches bool
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List verification runs recorded in a ledger",
		Long: `List case results recorded by verify-all --ledger, newest batch first.

Exit codes:
  0 - Success
  2 - Command error (ledger not found, invalid filter, etc.)

Examples:
  normverify history --ledger runs.db
  normverify history --ledger runs.db --case case01_ok --limit 5
  normverify history --ledger runs.db --status fail
  normverify history --ledger runs.db --batches --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Ledger, flagLedger, "", "path to the SQLite ledger (or set ledger in the config file)")
	cmd.Flags().StringVar(&opts.Case, "case", "", "only this case")
	cmd.Flags().StringVar(&opts.Status, "status", "", "only this status (pass|fail|skip|error)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum rows (0 = all)")
	cmd.Flags().BoolVar(&opts.Batches, "batches", false, "list batches instead of case results")

	return cmd
}

var validStatuses = []string{
	string(verify.StatusPass), string(verify.StatusFail), string(verify.StatusSkip), store.StatusError,
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	ledger := opts.Config.Ledger
	if cmd.Flags().Changed(flagLedger) {
		ledger = opts.Ledger
	}
	if ledger == "" {
		return NewExitError(ExitCommandError, "--ledger is required (or set ledger in the config file)")
	}
	if opts.Status != "" && !contains(validStatuses, opts.Status) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid status %q: must be one of %v", opts.Status, validStatuses))
	}
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--limit must be >= 0, got %d", opts.Limit))
	}

	// store.Open would create a missing ledger; history only reads.
	if _, err := os.Stat(ledger); errors.Is(err, fs.ErrNotExist) {
		return NewExitError(ExitCommandError, fmt.Sprintf("ledger not found: %s", ledger))
	}

	st, err := store.Open(ledger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	defer st.Close()

	f := opts.formatter(cmd)

	if opts.Batches {
		batches, err := st.Batches(ctx, opts.Limit)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read batches", err)
		}
		if f.JSON() {
			return f.Success(batches)
		}
		if len(batches) == 0 {
			f.Textf("No batches recorded.")
			return nil
		}
		for _, b := range batches {
			f.Textf("#%d %s tool=%s passed=%d failed=%d skipped=%d errored=%d",
				b.Seq, b.ID, b.Tool, b.Passed, b.Failed, b.Skipped, b.Errored)
		}
		return nil
	}

	entries, err := st.History(ctx, store.HistoryFilter{Case: opts.Case, Status: opts.Status, Limit: opts.Limit})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read history", err)
	}
	if f.JSON() {
		return f.Success(entries)
	}
	if len(entries) == 0 {
		f.Textf("No results recorded.")
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("#%d %-5s %s", e.BatchSeq, e.Status, e.Case)
		if e.Reason != "" {
			line += ": " + e.Reason
		}
		f.Textf("%s", line)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
