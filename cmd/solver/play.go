package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-agent/internal/game"
)

func newPlayCmd(opts *options) *cobra.Command {
	var (
		index     int
		showBoard bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a single game and print every move",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			closure, err := opts.validate()
			if err != nil {
				return err
			}

			board, agent, err := game.Setup(opts.params, opts.seed, index, closure)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if showBoard && !opts.json {
				fmt.Fprint(out, board)
			}

			res, err := game.Play(cmd.Context(), board, agent, game.Options{
				Audit: opts.audit,
				OnMove: func(m game.Move) {
					log.WithFields(logrus.Fields{
						"cell":  m.Cell,
						"kind":  m.Kind,
						"count": m.Count,
					}).Debug("move")
				},
			})
			if err != nil {
				return err
			}
			res.Seed = opts.seed

			if opts.json {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printResult(out, res)
			return nil
		},
	}

	cmd.Flags().IntVar(&index, "game", 0, "index of the game within the seeded batch")
	cmd.Flags().BoolVar(&showBoard, "show-board", false, "print the mine layout first")

	return cmd
}

func printResult(w io.Writer, res *game.Result) {
	for i, m := range res.Moves {
		if m.Mine {
			fmt.Fprintf(w, "%3d. %-6s %s mine\n", i+1, m.Kind, m.Cell)
			continue
		}
		fmt.Fprintf(w, "%3d. %-6s %s %d\n", i+1, m.Kind, m.Cell, m.Count)
	}

	outcome := "lost"
	if res.Won {
		outcome = "won"
	}
	fmt.Fprintf(w, "%s after %d moves (%d safe, %d random), mines found: %s\n",
		outcome,
		len(res.Moves),
		res.CountMoves(game.SafeMove),
		res.CountMoves(game.RandomMove),
		res.Mines,
	)
}
