package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/vera/internal/compiler"
	"github.com/roach88/vera/internal/engine"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	ProgramOptions
	MaxSteps int
	Trace    bool
	Compiled bool

	// RunIDGenerator allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDGenerator engine.RunIDGenerator
}

// RunOutput is the JSON payload of the run command.
type RunOutput struct {
	Steps int            `json:"steps"`
	Final map[string]int `json:"final"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Evaluate a program and print the final bag",
		Long: `Evaluate a Vera program and print its final bag of facts.

Each line is a symbol with a nonzero count: the bare name for a count
of one, "name:count" otherwise. Reads stdin when no file is given.

With --trace, every intermediate bag is printed, separated by the
index of the rule that fired ("Matched rule N..."; -1 when none did).

With --compiled, the program is compiled to Go and executed by an
embedded interpreter instead.

Examples:
  vera run program.vera
  vera run --max-steps 100 --trace program.vera
  echo '|| a:2' | vera run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", engine.Unbounded, "stop after this many firings, negative for no limit")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print the bag after every firing")
	cmd.Flags().BoolVar(&opts.Compiled, "compiled", false, "execute compiled Go code instead of the interpreter")
	addProgramFlags(cmd, &opts.ProgramOptions)

	return cmd
}

func runProgram(opts *RunOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	if err := opts.ProgramOptions.validate(); err != nil {
		return err
	}
	if opts.Trace && opts.Compiled {
		return NewExitError(ExitCommandError, "--trace and --compiled are mutually exclusive")
	}
	if opts.Trace && opts.Format == "json" {
		return NewExitError(ExitCommandError, "--trace is only available with text output")
	}

	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	runIDs := opts.RunIDGenerator
	if runIDs == nil {
		runIDs = engine.UUIDv7Generator{}
	}
	runID := runIDs.Generate()
	logger = logger.With("run_id", runID)

	lp, err := loadProgram(cmd, args, opts.ProgramOptions)
	if err != nil {
		return reportError(formatter, lp.Name, err)
	}
	logger.Debug("program loaded",
		"source", lp.Name,
		"rules", len(lp.Program.Rules),
		"symbols", lp.Program.Symbols.Len(),
	)

	in := engine.New(lp.Program, engine.WithLogger(logger))
	in.PopulateFacts()

	var steps int
	switch {
	case opts.Trace:
		steps, err = engine.Trace(formatter.Writer, in, opts.MaxSteps)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to write trace", err)
		}
		logger.Debug("run finished", "steps", steps)
		return nil
	case opts.Compiled:
		steps, err = runCompiled(in, opts.MaxSteps)
		if err != nil {
			return reportError(formatter, lp.Name, err)
		}
	default:
		steps = in.Eval(opts.MaxSteps)
	}
	logger.Debug("run finished", "steps", steps, "compiled", opts.Compiled)

	acc := in.Accumulator()
	if formatter.Format == "json" {
		return formatter.SuccessWithTrace(RunOutput{Steps: steps, Final: acc.Snapshot()}, runID)
	}
	if err := acc.Render(formatter.Writer); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	return nil
}

// runCompiled lowers the seeded accumulator of in to Go, executes it in
// yaegi and writes the resulting values back into the accumulator.
func runCompiled(in *engine.Interpreter, maxSteps int) (int, error) {
	target, err := compiler.NewTarget(compiler.TargetGo, compiler.Options{Debug: true})
	if err != nil {
		return 0, err
	}
	code, err := compiler.Compile(in.Program(), in.Accumulator().Counts(), target)
	if err != nil {
		return 0, err
	}
	loaded, err := compiler.LoadGo(code, compiler.DefaultPackage)
	if err != nil {
		return 0, fmt.Errorf("failed to load compiled program: %w", err)
	}

	budget := engine.NewStepBudget(maxSteps)
	for !budget.Exhausted() && loaded.Step() != -1 {
		budget.Record()
	}

	if err := in.Accumulator().Restore(loaded.Values()); err != nil {
		return 0, err
	}
	return budget.Used(), nil
}
