package repository

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vancomm/minesweeper-agent/internal/game"
	"github.com/vancomm/minesweeper-agent/internal/mines"
)

type SolverRun struct {
	RunId     int64              `db:"run_id" json:"run_id"`
	Height    int                `db:"height" json:"height"`
	Width     int                `db:"width" json:"width"`
	MineCount int                `db:"mine_count" json:"mine_count"`
	Seed      int64              `db:"seed" json:"seed"`
	Closure   string             `db:"closure" json:"closure"`
	Won       bool               `db:"won" json:"won"`
	Lost      bool               `db:"lost" json:"lost"`
	Moves     int                `db:"moves" json:"moves"`
	State     []byte             `db:"state" json:"-"`
	CreatedAt pgtype.Timestamptz `db:"created_at" json:"created_at"`
}

func EncodeResult(res *game.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(res); err != nil {
		return nil, fmt.Errorf("unable to encode run state: %w", err)
	}
	return buf.Bytes(), nil
}

// Result decodes the stored game.
func (r SolverRun) Result() (*game.Result, error) {
	var res game.Result
	if err := gob.NewDecoder(bytes.NewReader(r.State)).Decode(&res); err != nil {
		return nil, fmt.Errorf("unable to decode state of run %d: %w", r.RunId, err)
	}
	return &res, nil
}

func (q *Queries) CreateRun(ctx context.Context, res *game.Result) (*SolverRun, error) {
	state, err := EncodeResult(res)
	if err != nil {
		return nil, err
	}

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO solver_run (
			height, width, mine_count, seed, closure, won, lost, moves, state
		)
		VALUES (
			@height, @width, @mine_count, @seed, @closure, @won, @lost, @moves, @state
		)
		RETURNING *;`,
		pgx.NamedArgs{
			"height":     res.Params.Height,
			"width":      res.Params.Width,
			"mine_count": res.Params.MineCount,
			"seed":       int64(res.Seed),
			"closure":    res.Closure,
			"won":        res.Won,
			"lost":       res.Lost,
			"moves":      len(res.Moves),
			"state":      state,
		},
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[SolverRun])
}

func (q *Queries) FetchRun(ctx context.Context, runId int64) (*SolverRun, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM solver_run WHERE run_id = $1", runId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[SolverRun])
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

type RunFilter struct {
	Won        *bool
	Closure    *string
	GameParams *mines.GameParams
	Limit      int
}

func (f RunFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Won != nil {
		clauses = append(clauses, "won = @won")
		args["won"] = *f.Won
	}
	if f.Closure != nil {
		clauses = append(clauses, "closure = @closure")
		args["closure"] = *f.Closure
	}
	if f.GameParams != nil {
		clauses = append(
			clauses,
			"height = @height",
			"width = @width",
			"mine_count = @mine_count",
		)
		args["height"] = f.GameParams.Height
		args["width"] = f.GameParams.Width
		args["mine_count"] = f.GameParams.MineCount
	}
	return strings.Join(clauses, " AND "), args
}

func (f RunFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	default:
		return f.Limit
	}
}

// ListRuns returns the newest runs matching filter.
func (q *Queries) ListRuns(ctx context.Context, filter RunFilter) ([]SolverRun, error) {
	query := "SELECT * FROM solver_run"

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	query += " ORDER BY run_id DESC LIMIT @limit;"
	args["limit"] = filter.limit()

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[SolverRun])
}
