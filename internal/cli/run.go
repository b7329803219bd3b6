package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/unitgate/internal/engine"
	"github.com/roach88/unitgate/internal/plan"
	"github.com/roach88/unitgate/internal/report"
	"github.com/roach88/unitgate/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Plan            string
	Database        string
	Units           []string
	NoCheckRequired bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run units in requirement order",
		Long: `Run the suite, or the units a plan selects, in requirement order.

Required units that have not run yet are run first. A unit whose required
units did not pass is skipped.

Exit codes:
  0 - No unit failed or errored
  1 - A unit failed or errored
  2 - Command error (bad plan, unknown unit, etc.)

Examples:
  unitgate run
  unitgate run --plan smoke.yaml
  unitgate run --unit app.CacheTest --db history.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnits(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Plan, "plan", "", "run plan file (.yaml, .yml or .cue)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")
	cmd.Flags().StringSliceVar(&opts.Units, "unit", nil, "unit identity to run (repeatable)")
	cmd.Flags().BoolVar(&opts.NoCheckRequired, "no-check-required", false, "skip requirements that have not run instead of running them")

	return cmd
}

// resolvePlan loads the plan file, if any, and applies flag overrides.
func resolvePlan(opts *RunOptions, cmd *cobra.Command) (*plan.Plan, error) {
	p := &plan.Plan{Name: "default", Format: opts.Format}
	if opts.Plan != "" {
		loaded, err := plan.Load(opts.Plan)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load plan", err)
		}
		p = loaded
		if cmd.Flags().Changed("format") {
			p.Format = opts.Format
		}
	}

	if len(opts.Units) > 0 {
		p.Units = opts.Units
	}
	if cmd.Flags().Changed("no-check-required") {
		check := !opts.NoCheckRequired
		p.CheckRequired = &check
	}
	if opts.Database != "" {
		p.Store = opts.Database
	}
	return p, nil
}

func runUnits(opts *RunOptions, cmd *cobra.Command) error {
	if opts.Suite == nil {
		return NewExitError(ExitCommandError, "no suite configured")
	}

	p, err := resolvePlan(opts, cmd)
	if err != nil {
		return err
	}
	// Errors from here on are reported in the plan's format.
	opts.Format = p.Format

	units, err := p.Select(opts.Suite())
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid unit selection", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose).With("plan", p.Name)
	runIDs := opts.RunIDs
	if runIDs == nil {
		runIDs = engine.UUIDv7Generator{}
	}
	eng := engine.New(engine.WithLogger(logger), engine.WithRunIDGenerator(runIDs))

	ctx := commandContext(cmd)
	run, runErr := eng.RunAll(ctx, units)
	rep := report.FromRun(run)

	if p.Store != "" {
		if err := recordRun(ctx, p.Store, rep, logger); err != nil {
			return err
		}
	}

	out := &OutputFormatter{Format: p.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if err := out.Report(rep); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if runErr != nil {
		return WrapExitError(ExitFailure, "run aborted", runErr)
	}
	if !rep.Summary.OK() {
		return NewExitError(ExitFailure,
			fmt.Sprintf("%d failed, %d errored", rep.Summary.Failed, rep.Summary.Errored))
	}
	return nil
}

// recordRun writes the report to the run history database.
func recordRun(ctx context.Context, path string, rep *report.Report, logger *slog.Logger) error {
	st, err := store.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	if _, err := st.WriteReport(ctx, rep); err != nil {
		return WrapExitError(ExitCommandError, "failed to record run", err)
	}
	logger.Debug("run recorded", "db", path, "run_id", rep.RunID)
	return nil
}
