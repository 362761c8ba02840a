package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/normverify/internal/cases"
	"github.com/roach88/normverify/internal/config"
	"github.com/roach88/normverify/internal/verify"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Case  string
	flags config.Config
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the outputs of one case",
		Long: `Verify the outputs of one case against its fixtures.

Checks run in order and stop at the first violation: artifact presence,
canonical LF text, report.tool identity, fixture presence, SHA-256
digests, row counts, normalized header order and, with
--compare-goldens, byte equality with expected/<case>/.

Exit codes:
  0 - Outputs are consistent, or the case is an expected-fail case
  1 - An invariant was violated
  2 - Command error (bad flags, unreadable config, I/O errors, etc.)

Examples:
  normverify verify --out-root out/demo --case case01_ok
  normverify verify --fixtures fixtures --out-root out/demo --case case01_ok --compare-goldens
  normverify verify --config normverify.yaml --case case01_ok --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, cmd)
		},
	}

	bindLayoutFlags(cmd, &opts.flags)
	cmd.Flags().StringVar(&opts.Case, "case", "", "case name (required)")
	_ = cmd.MarkFlagRequired("case")

	return cmd
}

func runVerify(opts *VerifyOptions, cmd *cobra.Command) error {
	settings, err := resolveSettings(cmd, opts.RootOptions, opts.flags)
	if err != nil {
		return err
	}

	c, err := cases.New(opts.Case, layoutOf(settings))
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid case", err)
	}

	checker := verify.New(verify.Options{
		Tool:           settings.Tool,
		CompareGoldens: settings.CompareGoldens,
		Logger:         opts.newLogger(cmd.ErrOrStderr()),
	})

	out, err := checker.Check(cmd.Context(), c)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to verify %s", c.Name), err)
	}

	f := opts.formatter(cmd)
	if f.JSON() {
		if err := f.Respond(outcomeResponse(out)); err != nil {
			return err
		}
	} else if out.OK() {
		f.Textf("%s", out.Line())
	}

	if !out.OK() {
		// Violations = exit code 1; the line is printed by main on stderr.
		return NewExitError(ExitFailure, out.Line())
	}
	return nil
}

// outcomeResponse wraps an outcome in the JSON envelope. A failed outcome
// carries its violation kind as the error code.
func outcomeResponse(out verify.Outcome) CLIResponse {
	resp := CLIResponse{Status: "ok", Data: out}
	if v := out.Violation; v != nil {
		resp.Status = "error"
		resp.Error = &CLIError{
			Code:    string(v.Kind),
			Message: v.Message,
		}
		if len(v.Details) > 0 {
			resp.Error.Details = v.Details
		}
	}
	return resp
}
