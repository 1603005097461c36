package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vanshika/knighttravails/internal/board"
	"github.com/vanshika/knighttravails/internal/service"
)

// The route printed when no squares are given.
var (
	demoFrom = board.Square{File: 3, Rank: 3}
	demoTo   = board.Square{File: 4, Rank: 3}
)

func newPathCmd() *cobra.Command {
	var (
		backend string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "path [from to]",
		Short: "Print the shortest knight route between two squares",
		Long: `Prints one shortest knight route. Squares are given in algebraic notation
(d4) or as zero-based file,rank pairs (3,3). Without arguments the route from
d4 to e4 is printed.`,
		Example: `  knight path
  knight path a1 h8
  knight path 0,0 7,7 --json`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected zero or two squares, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to := demoFrom, demoTo
			if len(args) == 2 {
				var err error
				if from, err = board.ParseSquare(args[0]); err != nil {
					return err
				}
				if to, err = board.ParseSquare(args[1]); err != nil {
					return err
				}
			}

			svc, cleanup, err := newPathServiceFor(cmd.Context(), backend)
			if err != nil {
				return err
			}
			defer cleanup()

			return printPath(cmd.Context(), cmd.OutOrStdout(), svc, from, to, asJSON)
		},
	}

	cmd.Flags().StringVar(&backend, "backend", defaultBackend(), "search backend: memory or neo4j (defaults to PATH_BACKEND)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the route as JSON")
	return cmd
}

type pathOutput struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	Squares []string `json:"squares"`
	Moves   int      `json:"moves"`
	Found   bool     `json:"found"`
}

func printPath(ctx context.Context, out io.Writer, svc *service.PathService, from, to board.Square, asJSON bool) error {
	path, err := svc.FindPath(ctx, from, to)
	found := err == nil
	if err != nil && !errors.Is(err, service.ErrNoPath) {
		return err
	}

	if asJSON {
		payload := pathOutput{From: from.String(), To: to.String(), Squares: []string{}, Found: found}
		for _, sq := range path.Squares {
			payload.Squares = append(payload.Squares, sq.String())
		}
		payload.Moves = path.Moves
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if encErr := encoder.Encode(payload); encErr != nil {
			return encErr
		}
		return err
	}

	if !found {
		fmt.Fprintf(out, "no path from %s to %s\n", from, to)
		return err
	}

	fmt.Fprintf(out, "%s (%d moves)\n", service.FormatPath(path.Squares), path.Moves)
	for i, sq := range path.Squares {
		fmt.Fprintf(out, "  %d. %s [%d,%d]\n", i, sq, sq.File, sq.Rank)
	}
	return nil
}

func exitCode(err error) int {
	if errors.Is(err, service.ErrNoPath) {
		return exitNoPath
	}
	return exitError
}
