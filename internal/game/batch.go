package game

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-agent/internal/knowledge"
	"github.com/vancomm/minesweeper-agent/internal/mines"
)

type BatchOptions struct {
	Params  mines.GameParams
	Seed    uint64
	Games   int
	Workers int // defaults to GOMAXPROCS
	Closure knowledge.Closure
	Audit   bool
}

type Summary struct {
	Games       int     `json:"games"`
	Won         int     `json:"won"`
	Lost        int     `json:"lost"`
	Moves       int     `json:"moves"`
	SafeMoves   int     `json:"safe_moves"`
	RandomMoves int     `json:"random_moves"`
	WinRate     float64 `json:"win_rate"`
}

func Summarize(results []*Result) Summary {
	var s Summary
	for _, r := range results {
		if r == nil {
			continue
		}
		s.Games++
		if r.Won {
			s.Won++
		}
		if r.Lost {
			s.Lost++
		}
		s.Moves += len(r.Moves)
		s.SafeMoves += r.CountMoves(SafeMove)
		s.RandomMoves += r.CountMoves(RandomMove)
	}
	if s.Games > 0 {
		s.WinRate = float64(s.Won) / float64(s.Games)
	}
	return s
}

/*
PlayMany runs opts.Games independent games on a bounded pool of workers.

Game i draws its board and random moves from a source seeded with
(opts.Seed, i), so results do not depend on scheduling. The first failing
game cancels the rest; results[i] is nil for games that never started.
*/
func PlayMany(ctx context.Context, opts BatchOptions) ([]*Result, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	if opts.Games < 0 {
		return nil, fmt.Errorf("negative game count %d", opts.Games)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, opts.Games)
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i := range opts.Games {
		if gctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			res, err := Run(gctx, opts.Params, opts.Seed, i, opts.Closure, Options{
				Audit: opts.Audit,
			})
			results[i] = res
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return fmt.Errorf("game %d: %w", i, err)
			}
			Log.WithFields(logrus.Fields{
				"game":  i,
				"won":   res.Won,
				"moves": len(res.Moves),
			}).Debug("game finished")
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
