package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/unitgate/internal/store"
)

// HistoryOptions holds flags shared by the commands that read run history.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List runs recorded with --db, most recent first.

Example:
  unitgate history --db history.db --limit 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs (0 for all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func listHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(commandContext(cmd), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.Format == "json" {
		return opts.formatter(cmd).Success(runs)
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		s := r.Summary
		fmt.Fprintf(w, "%d  %s  %d passed, %d failed, %d skipped, %d errored\n",
			r.Seq, r.ID, s.Passed, s.Failed, s.Skipped, s.Errored)
	}
	return nil
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show a recorded run",
		Long: `Show the report of a recorded run. Without a run ID, shows the most
recent run.

Example:
  unitgate show --db history.db
  unitgate show --db history.db 0192f3a4-... --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			return showRun(opts, runID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func showRun(opts *HistoryOptions, runID string, cmd *cobra.Command) error {
	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := commandContext(cmd)
	if runID == "" {
		runID, err = st.LatestRunID(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "no runs recorded", err)
		}
	}

	rep, err := st.ReadReport(ctx, runID)
	if errors.Is(err, store.ErrRunNotFound) {
		return WrapExitError(ExitCommandError, "unknown run", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	return opts.formatter(cmd).Report(rep)
}

// NewFailuresCommand creates the failures command.
func NewFailuresCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "failures <identity>",
		Short: "List recorded failures of a unit",
		Long: `List the failing outcomes a unit recorded across all runs, most recent
run first.

Example:
  unitgate failures --db history.db app.CacheTest`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listFailures(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func listFailures(opts *HistoryOptions, identity string, cmd *cobra.Command) error {
	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	failures, err := st.Failures(commandContext(cmd), identity)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read failures", err)
	}

	if opts.Format == "json" {
		return opts.formatter(cmd).Success(failures)
	}

	w := cmd.OutOrStdout()
	if len(failures) == 0 {
		fmt.Fprintf(w, "No failures recorded for %s.\n", identity)
		return nil
	}
	for _, f := range failures {
		fmt.Fprintf(w, "%s  %s  %s\n", f.Operation, f.Site, f.Message)
	}
	return nil
}

// openExisting opens a history database that must already exist.
func openExisting(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path), err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
