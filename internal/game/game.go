package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-agent/internal/knowledge"
	"github.com/vancomm/minesweeper-agent/internal/metrics"
	"github.com/vancomm/minesweeper-agent/internal/mines"
)

var Log = logrus.New()

var ErrUnsoundDeduction = errors.New("deduction not entailed by observations")

type MoveKind string

const (
	SafeMove   MoveKind = "safe"
	RandomMove MoveKind = "random"
)

type Move struct {
	Cell  mines.Cell `json:"cell"`
	Kind  MoveKind   `json:"kind"`
	Count int        `json:"count"`          // observed adjacent mines, -1 on a mine
	Mine  bool       `json:"mine,omitempty"` // the move lost the game
}

type Result struct {
	Params  mines.GameParams `json:"params"`
	Seed    uint64           `json:"seed"`
	Closure string           `json:"closure"`
	Won     bool             `json:"won"`
	Lost    bool             `json:"lost"`
	Moves   []Move           `json:"moves"`
	Mines   mines.CellSet    `json:"mines"`
	Safes   mines.CellSet    `json:"safes"`
	Stats   knowledge.Stats  `json:"stats"`
}

func (r *Result) Outcome() string {
	switch {
	case r.Won:
		return metrics.Won
	case r.Lost:
		return metrics.Lost
	default:
		return metrics.Cancelled
	}
}

func (r *Result) CountMoves(kind MoveKind) (n int) {
	for _, m := range r.Moves {
		if m.Kind == kind {
			n++
		}
	}
	return
}

type Options struct {
	// Audit checks every fact the agent learns against a SAT encoding
	// of the observations made so far.
	Audit bool
	// OnMove is called after each reveal.
	OnMove func(Move)
}

// NewRand returns the source for game number index of a seeded batch.
func NewRand(seed uint64, index int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(index)))
}

// Setup creates the board and agent for game number index of a batch.
// Both draw from the same seeded source.
func Setup(
	params mines.GameParams, seed uint64, index int, closure knowledge.Closure,
) (*mines.Board, *knowledge.KnowledgeBase, error) {
	r := NewRand(seed, index)
	board, err := mines.NewBoard(params, r)
	if err != nil {
		return nil, nil, err
	}
	agent := knowledge.New(
		params.Height, params.Width,
		knowledge.WithClosure(closure),
		knowledge.WithRand(r),
	)
	return board, agent, nil
}

/*
Play drives agent over board until the game is won, a mine is hit or no
move is left.

Each turn a known safe cell is preferred; a random unrevealed cell not
known to be a mine is chosen otherwise. Every revealed cell is reported
to the agent exactly once with its orthogonal mine count.

The partial result is returned together with any error.
*/
func Play(
	ctx context.Context,
	board *mines.Board,
	agent *knowledge.KnowledgeBase,
	opts Options,
) (*Result, error) {
	res := &Result{
		Params:  board.GameParams,
		Closure: agent.Closure().String(),
	}
	defer func() {
		res.Mines = agent.Mines()
		res.Safes = agent.Safes()
		res.Stats = agent.Stats()
	}()

	var aud *auditor
	if opts.Audit {
		aud = newAuditor(board.Height, board.Width)
	}

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if board.Won(agent.Mines()) {
			res.Won = true
			return res, nil
		}

		kind := SafeMove
		cell, ok := agent.MakeSafeMove()
		if !ok {
			kind = RandomMove
			if cell, ok = agent.MakeRandomMove(); !ok {
				res.Won = board.Won(agent.Mines())
				return res, nil
			}
		}

		move := Move{Cell: cell, Kind: kind}
		if board.IsMine(cell) {
			move.Count, move.Mine = -1, true
			res.Moves = append(res.Moves, move)
			res.Lost = true
			metrics.MoveMade(string(kind))
			if opts.OnMove != nil {
				opts.OnMove(move)
			}
			Log.WithFields(logrus.Fields{
				"cell": cell,
				"kind": kind,
			}).Debug("hit a mine")
			return res, nil
		}

		move.Count = board.NearbyMines(cell)
		inferred := agent.Stats().Inferred
		start := time.Now()
		if err := agent.AddKnowledge(cell, move.Count); err != nil {
			return res, fmt.Errorf("unable to add knowledge for %s: %w", cell, err)
		}
		metrics.ObserveUpdate(res.Closure, time.Since(start))
		metrics.SentencesInferred(agent.Stats().Inferred - inferred)
		metrics.MoveMade(string(kind))

		res.Moves = append(res.Moves, move)
		if opts.OnMove != nil {
			opts.OnMove(move)
		}

		if aud != nil {
			if err := aud.check(move, agent); err != nil {
				return res, err
			}
		}
	}
}

// Run sets up and plays game number index of a seeded batch.
func Run(
	ctx context.Context,
	params mines.GameParams,
	seed uint64,
	index int,
	closure knowledge.Closure,
	opts Options,
) (*Result, error) {
	board, agent, err := Setup(params, seed, index, closure)
	if err != nil {
		return nil, err
	}
	res, err := Play(ctx, board, agent, opts)
	res.Seed = seed
	outcome := res.Outcome()
	if err != nil && !errors.Is(err, context.Canceled) {
		outcome = metrics.Failed
	}
	metrics.GameFinished(outcome, res.Closure)
	return res, err
}
