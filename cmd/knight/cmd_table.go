package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanshika/knighttravails/internal/board"
	"github.com/vanshika/knighttravails/internal/export"
	"github.com/vanshika/knighttravails/internal/service"
)

func newTableCmd() *cobra.Command {
	var (
		format    string
		outputDir string
		workers   int
		stdout    bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Export the knight distance between every pair of squares",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := contextWithTimeout(cmd, timeout)
			defer cancel()

			table, err := service.NewTableBuilder(board.Build(), workers).Build(ctx)
			if err != nil {
				return fmt.Errorf("build distance table: %w", err)
			}

			if stdout {
				return export.Encode(cmd.OutOrStdout(), table, format)
			}

			path, err := export.WriteTable(table, outputDir, format)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %dx%d distance table (max %d moves) to %s\n",
				len(table.Rows), len(table.Rows), table.MaxDistance, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", export.FormatJSON, "output format: json, yaml or csv")
	cmd.Flags().StringVar(&outputDir, "output-dir", "data", "directory to write distances.<format>")
	cmd.Flags().IntVar(&workers, "workers", 4, "number of concurrent row workers")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "maximum time to spend building the table")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "write the table to stdout instead of a file")
	return cmd
}
