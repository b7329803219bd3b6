package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Execute runs the command line of a driver binary and returns the exit
// code. Interrupts cancel the run between units.
//
//	func main() {
//		os.Exit(cli.Execute(mysuite.Units))
//	}
func Execute(suite Suite) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, &RootOptions{Suite: suite}, os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(ctx)
	code := GetExitCode(err)
	if err == nil {
		return code
	}

	// Command errors become a JSON error response so scripted callers
	// always get one document. opts.Format is the run plan's format once a
	// plan has loaded. Run failures already printed their report.
	if opts.Format == "json" && code == ExitCommandError {
		out := &OutputFormatter{Format: "json", Writer: stdout}
		_ = out.Error(fmt.Sprintf("E%03d", code), err.Error(), nil)
		return code
	}
	fmt.Fprintln(stderr, err)
	return code
}
