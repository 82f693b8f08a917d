// custom query
package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type RunStats struct {
	Height    int     `db:"height" json:"height"`
	Width     int     `db:"width" json:"width"`
	MineCount int     `db:"mine_count" json:"mine_count"`
	Closure   string  `db:"closure" json:"closure"`
	Games     int64   `db:"games" json:"games"`
	Won       int64   `db:"won" json:"won"`
	WinRate   float64 `db:"win_rate" json:"win_rate"`
	AvgMoves  float64 `db:"avg_moves" json:"avg_moves"`
}

// GetStats aggregates stored runs per board configuration and closure.
// Limit is ignored.
func (q *Queries) GetStats(ctx context.Context, filter RunFilter) ([]RunStats, error) {
	query := `
	SELECT
		height,
		width,
		mine_count,
		closure,
		count(*) games,
		count(*) FILTER (WHERE won) won,
		avg(won::int)::float8 win_rate,
		avg(moves)::float8 avg_moves
	FROM solver_run
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	query += `
	GROUP BY height, width, mine_count, closure
	ORDER BY height, width, mine_count, closure;`

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[RunStats])
}
