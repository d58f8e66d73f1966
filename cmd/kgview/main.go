// Command kgview explores knowledge graphs with a force-directed layout.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kgview/internal/cli"
	"github.com/matzehuels/kgview/pkg/buildinfo"
	kgerrors "github.com/matzehuels/kgview/pkg/errors"
)

// Exit codes.
const (
	exitError       = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	os.Exit(exitCode(err))
}

func run(ctx context.Context) error {
	buildinfo.Resolve()

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	// The level must be set before setup loads the config, so setup can log.
	setup := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if setup == nil {
			return nil
		}
		return setup(cmd, args)
	}

	return root.ExecuteContext(ctx)
}

// exitCode reports err on stderr and maps it to a process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	}

	code := kgerrors.GetCode(err)
	if code == "" {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitError
	}
	fmt.Fprintf(os.Stderr, "Error: %s (%s)\n", kgerrors.UserMessage(err), code)
	switch code {
	case kgerrors.ErrCodeInvalidInput, kgerrors.ErrCodeInvalidQuery, kgerrors.ErrCodeInvalidFormat, kgerrors.ErrCodeInvalidConfig:
		return exitUsage
	}
	return exitError
}
