package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanshika/knighttravails/internal/board"
)

func newSeedCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the knight-move graph into Neo4j",
		Long: `Creates one :Square node per square and one :KNIGHT_MOVE relationship per
legal knight move in the database named by GRAPH_URI. Safe to run repeatedly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := contextWithTimeout(cmd, timeout)
			defer cancel()

			repo, logger, closeFn, err := openRepository(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			start := time.Now()
			stats, err := repo.SeedBoard(ctx, board.Build())
			if err != nil {
				return err
			}
			logger.Info("seed complete", "squares", stats.Squares, "moves", stats.Moves, "duration", time.Since(start).String())

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d squares and %d knight moves\n", stats.Squares, stats.Moves)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "maximum time to spend seeding")
	return cmd
}
