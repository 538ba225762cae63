package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/vera/internal/compiler"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	ProgramOptions
}

// CheckOutput is the JSON payload of the check command.
type CheckOutput struct {
	Delimiter   string                  `json:"delimiter"`
	Symbols     int                     `json:"symbols"`
	Rules       int                     `json:"rules"`
	Facts       int                     `json:"facts"`
	Fingerprint string                  `json:"fingerprint"`
	Warnings    []compiler.CycleWarning `json:"warnings"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Parse a program and report its shape",
		Long: `Parse a Vera program and report symbol and rule counts, its
fingerprint, and rules that may keep it from terminating.

The fingerprint is a hash of the program's canonical form, so sources
that differ only in whitespace share one fingerprint.

Warnings never fail the command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	addProgramFlags(cmd, &opts.ProgramOptions)

	return cmd
}

func runCheck(opts *CheckOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if err := opts.ProgramOptions.validate(); err != nil {
		return err
	}

	lp, err := loadProgram(cmd, args, opts.ProgramOptions)
	if err != nil {
		return reportError(formatter, lp.Name, err)
	}
	p := lp.Program

	fp, err := p.Fingerprint()
	if err != nil {
		return reportError(formatter, lp.Name, err)
	}

	out := CheckOutput{
		Delimiter:   string([]byte{p.Delimiter}),
		Symbols:     p.Symbols.Len(),
		Rules:       len(p.Rules) - p.FactCount(),
		Facts:       p.FactCount(),
		Fingerprint: fp,
		Warnings:    compiler.AnalyzeCycles(p),
	}
	if out.Warnings == nil {
		out.Warnings = []compiler.CycleWarning{}
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ %s: %d symbol(s), %d rule(s), %d fact(s)\n", lp.Name, out.Symbols, out.Rules, out.Facts)
	fmt.Fprintf(w, "  fingerprint: %s\n", out.Fingerprint)
	for _, warn := range out.Warnings {
		fmt.Fprintf(w, "  %s: %s\n", warn.Level, warn.Message)
	}
	return nil
}
