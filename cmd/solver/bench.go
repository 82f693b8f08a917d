package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-agent/internal/game"
)

func newBenchCmd(opts *options) *cobra.Command {
	var (
		games   int
		workers int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Play many games concurrently and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			closure, err := opts.validate()
			if err != nil {
				return err
			}

			start := time.Now()
			results, err := game.PlayMany(cmd.Context(), game.BatchOptions{
				Params:  opts.params,
				Seed:    opts.seed,
				Games:   games,
				Workers: workers,
				Closure: closure,
				Audit:   opts.audit,
			})
			if err != nil {
				return err
			}
			summary := game.Summarize(results)

			log.WithFields(logrus.Fields{
				"games":    summary.Games,
				"won":      summary.Won,
				"duration": time.Since(start),
			}).Info("bench finished")

			out := cmd.OutOrStdout()
			if opts.json {
				return json.NewEncoder(out).Encode(summary)
			}
			fmt.Fprintf(out,
				"board %s, closure %s: won %d/%d (%.1f%%), %d moves (%d safe, %d random)\n",
				opts.params.Seed(), closure,
				summary.Won, summary.Games, summary.WinRate*100,
				summary.Moves, summary.SafeMoves, summary.RandomMoves,
			)
			return nil
		},
	}

	cmd.Flags().IntVarP(&games, "games", "n", 100, "number of games")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent games (default GOMAXPROCS)")

	return cmd
}
