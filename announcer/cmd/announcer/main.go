package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nodeops-io/tx-announcer/announcer/cmd/announcer/daemon"
	"github.com/nodeops-io/tx-announcer/version"
)

const (
	BinaryName = "announcer"

	// exitInterrupted is reported when the run is stopped by a signal
	exitInterrupted = 400
)

// NewRootCmd creates a new root command for announcer. It is called once in the main function.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           BinaryName,
		Short:         fmt.Sprintf("%s - node transaction announcer.", BinaryName),
		Long:          fmt.Sprintf(`%s announces the key link and setup transactions of the configured nodes.`, BinaryName),
		SilenceErrors: false,
		SilenceUsage:  true,
	}

	return rootCmd
}

func main() {
	cmd := NewRootCmd()

	daemon.AddDaemonCommands(cmd, BinaryName)
	cmd.AddCommand(version.CommandVersion(BinaryName))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your %s CLI '%s'\n", BinaryName, err)
		os.Exit(exitCode(ctx, err)) //nolint:gocritic
	}
}

// exitCode maps the outcome of a command to the process exit status. A run
// stopped by a signal reports exitInterrupted whatever error it returned.
func exitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return 0
	case ctx.Err() != nil:
		return exitInterrupted
	default:
		return 1
	}
}
