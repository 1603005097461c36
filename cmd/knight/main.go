package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vanshika/knighttravails/internal/service"
)

// Exit codes.
const (
	exitSuccess = 0
	exitError   = 1
	exitNoPath  = 2
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "knight",
		Short: "Shortest knight routes on an 8x8 chessboard",
		Long: `knight computes the shortest sequence of knight moves between two squares
using a breadth-first search over the board's knight-move graph.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPathCmd(), newSeedCmd(), newTableCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		// The path command already printed its own "no path" line.
		if !errors.Is(err, service.ErrNoPath) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}
