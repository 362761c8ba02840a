package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/normverify/internal/cases"
	"github.com/roach88/normverify/internal/config"
)

// Flag names shared by the verify commands and matched against the
// config file keys.
const (
	flagFixtures       = "fixtures"
	flagOutRoot        = "out-root"
	flagTool           = "tool"
	flagCompareGoldens = "compare-goldens"
	flagParallel       = "parallel"
	flagLedger         = "ledger"
	flagFilter         = "filter"
)

// bindLayoutFlags registers the flags every verify command accepts.
func bindLayoutFlags(cmd *cobra.Command, f *config.Config) {
	def := config.Default()
	cmd.Flags().StringVar(&f.FixturesRoot, flagFixtures, def.FixturesRoot, "fixtures root (contains input/ and expected/)")
	cmd.Flags().StringVar(&f.OutRoot, flagOutRoot, "", "output root (one directory per case)")
	cmd.Flags().StringVar(&f.Tool, flagTool, def.Tool, "expected report.tool value")
	cmd.Flags().BoolVar(&f.CompareGoldens, flagCompareGoldens, false, "compare outputs byte-for-byte with expected/<case>/")
}

// mergeFlags returns base with every explicitly set flag applied.
// Flags left at their defaults do not override the config file.
func mergeFlags(cmd *cobra.Command, base, flags config.Config) config.Config {
	fs := cmd.Flags()
	if fs.Changed(flagFixtures) {
		base.FixturesRoot = flags.FixturesRoot
	}
	if fs.Changed(flagOutRoot) {
		base.OutRoot = flags.OutRoot
	}
	if fs.Changed(flagTool) {
		base.Tool = flags.Tool
	}
	if fs.Changed(flagCompareGoldens) {
		base.CompareGoldens = flags.CompareGoldens
	}
	if fs.Changed(flagParallel) {
		base.Parallel = flags.Parallel
	}
	if fs.Changed(flagLedger) {
		base.Ledger = flags.Ledger
	}
	if fs.Changed(flagFilter) {
		base.Filter = flags.Filter
	}
	return base
}

// resolveSettings merges flags over the loaded config and validates the
// result for commands that read a case tree.
func resolveSettings(cmd *cobra.Command, opts *RootOptions, flags config.Config) (config.Config, error) {
	s := mergeFlags(cmd, opts.Config, flags)
	if err := s.Validate(); err != nil {
		return config.Config{}, NewExitError(ExitCommandError, err.Error())
	}
	if s.OutRoot == "" {
		return config.Config{}, NewExitError(ExitCommandError,
			fmt.Sprintf("--%s is required (or set out_root in the config file)", flagOutRoot))
	}
	return s, nil
}

func layoutOf(s config.Config) cases.Layout {
	return cases.Layout{FixturesRoot: s.FixturesRoot, OutRoot: s.OutRoot}
}
