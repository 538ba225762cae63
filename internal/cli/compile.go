package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/vera/internal/compiler"
	"github.com/roach88/vera/internal/engine"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	ProgramOptions
	Target  string // "c" | "go"
	Package string // Go package clause
	Debug   bool   // Go: emit Values()
	Output  string // output file path
}

// CompileOutput is the JSON payload of the compile command.
type CompileOutput struct {
	Target string `json:"target"`
	Output string `json:"output,omitempty"`
	Source string `json:"source,omitempty"`
	Bytes  int    `json:"bytes"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile a program to C or Go",
		Long: `Compile a Vera program to C or Go source.

Every symbol becomes a variable initialized from the program's facts,
and every rule becomes a branch of step(). eval() calls step() until
no rule applies. Symbol names are rewritten into identifiers; two names
that rewrite to the same identifier are an error.

Reads stdin when no file is given and writes to stdout unless --output
is set.

Examples:
  vera compile program.vera > program.c
  vera compile --target go --package game --vars -o game.go program.vera`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Target, "target", compiler.TargetC, "output language (c|go)")
	cmd.Flags().StringVar(&opts.Package, "package", compiler.DefaultPackage, "package name for Go output")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Go: also emit Values() for inspection")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	addProgramFlags(cmd, &opts.ProgramOptions)

	return cmd
}

func runCompile(opts *CompileOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if err := opts.ProgramOptions.validate(); err != nil {
		return err
	}

	target, err := compiler.NewTarget(opts.Target, compiler.Options{
		Package: opts.Package,
		Debug:   opts.Debug,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid target options", err)
	}

	lp, err := loadProgram(cmd, args, opts.ProgramOptions)
	if err != nil {
		return reportError(formatter, lp.Name, err)
	}
	if lp.Report != nil {
		formatter.VerboseLog("Expanded %d variable(s) into %d transfer(s)",
			len(lp.Report.Variables), len(lp.Report.Transfers))
	}

	in := engine.New(lp.Program)
	in.PopulateFacts()

	code, err := compiler.Compile(lp.Program, in.Accumulator().Counts(), target)
	if err != nil {
		return reportError(formatter, lp.Name, err)
	}
	formatter.VerboseLog("Compiled %d rule(s) to %s", len(lp.Program.Rules)-lp.Program.FactCount(), target.Name())

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, code, 0o644); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, ErrCodeWriteFailed, err).reported()
		}
	}

	if formatter.Format == "json" {
		out := CompileOutput{Target: target.Name(), Output: opts.Output, Bytes: len(code)}
		if opts.Output == "" {
			out.Source = string(code)
		}
		return formatter.Success(out)
	}

	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "Wrote %s output to %s\n", target.Name(), opts.Output)
		return nil
	}
	if _, err := formatter.Writer.Write(code); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	return nil
}
