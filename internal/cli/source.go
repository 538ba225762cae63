package cli

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/vera/internal/config"
	"github.com/roach88/vera/internal/ir"
	"github.com/roach88/vera/internal/parser"
	"github.com/roach88/vera/internal/variables"
)

// stdinName names standard input in messages.
const stdinName = "<stdin>"

// ProgramOptions are the flags shared by commands that load a program.
type ProgramOptions struct {
	Vars  bool // run the variables pass
	Force bool // generate every transfer rule
}

func addProgramFlags(cmd *cobra.Command, opts *ProgramOptions) {
	cmd.Flags().BoolVar(&opts.Vars, "vars", false, "expand variables annotations before use")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "with --vars, generate every transfer rule")
}

func (o ProgramOptions) validate() error {
	if o.Force && !o.Vars {
		return NewExitError(ExitCommandError, "--force requires --vars")
	}
	return nil
}

// readSource reads the file named by args[0], or stdin when there is no
// argument or it is "-".
func readSource(cmd *cobra.Command, args []string) (string, []byte, error) {
	name := stdinName
	var (
		src []byte
		err error
	)
	if len(args) == 0 || args[0] == "-" {
		src, err = io.ReadAll(cmd.InOrStdin())
	} else {
		name = args[0]
		src, err = os.ReadFile(name)
	}

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fs.ErrNotExist
		}
		return name, nil, &SourceError{Code: ErrCodeSourceMissing, Path: name, Err: err}
	}
	if len(src) == 0 {
		return name, nil, &SourceError{Code: ErrCodeSourceEmpty, Path: name}
	}
	return name, src, nil
}

// loadedProgram is a parsed, optionally expanded program.
type loadedProgram struct {
	Name    string
	Program *ir.Program
	Config  config.Config
	Report  *variables.Report // nil unless --vars
}

// loadProgram reads, parses and optionally expands the program named by args.
// The returned name is valid even when err is not nil.
func loadProgram(cmd *cobra.Command, args []string, opts ProgramOptions) (*loadedProgram, error) {
	name, src, err := readSource(cmd, args)
	lp := &loadedProgram{Name: name}
	if err != nil {
		return lp, err
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return lp, err
	}
	lp.Config = cfg

	prog, err := parser.Parse(src, cfg.ParserOptions())
	if err != nil {
		return lp, err
	}

	if opts.Vars {
		report, err := variables.Expand(prog, variables.Options{Force: opts.Force})
		if err != nil {
			return lp, err
		}
		lp.Report = &report
	}

	lp.Program = prog
	return lp, nil
}
