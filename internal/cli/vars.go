package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/vera/internal/variables"
)

// VarsOptions holds flags for the vars command.
type VarsOptions struct {
	*RootOptions
	Force bool
}

// VarsOutput is the JSON payload of the vars command.
type VarsOutput struct {
	Rules  []string         `json:"rules"`
	Report variables.Report `json:"report"`
}

// NewVarsCommand creates the vars command.
func NewVarsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VarsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "vars [file]",
		Short: "Expand variables annotations and print the program",
		Long: `Expand variables annotations and print the resulting program.

A rule "|#| variables, a, b" declares a and b as variables. For every
ordered pair whose control symbol ("a -> b") appears in the program, two
rules are appended: one moves a to b while the control symbol is present,
the next drains the control symbol. --force generates every pair.

Examples:
  vera vars program.vera
  vera vars --force program.vera`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVars(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "generate every transfer rule")

	return cmd
}

func runVars(opts *VarsOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	lp, err := loadProgram(cmd, args, ProgramOptions{Vars: true, Force: opts.Force})
	if err != nil {
		return reportError(formatter, lp.Name, err)
	}
	report := *lp.Report

	for _, control := range report.Skipped {
		formatter.VerboseLog("Skipped %q: control symbol never used", control)
	}

	if formatter.Format == "json" {
		rules := make([]string, len(lp.Program.Rules))
		for i := range lp.Program.Rules {
			rules[i] = lp.Program.FormatRule(i)
		}
		return formatter.Success(VarsOutput{Rules: rules, Report: report})
	}

	if _, err := fmt.Fprint(formatter.Writer, lp.Program.Format()); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	return nil
}
