package handlers

import (
	"fmt"
	"net/url"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-agent/internal/game"
	"github.com/vancomm/minesweeper-agent/internal/mines"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

var decoder = func() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}()

type CreateRunDTO struct {
	Height    int     `schema:"height,required"`
	Width     int     `schema:"width,required"`
	MineCount int     `schema:"mine_count,required"`
	Seed      *uint64 `schema:"seed"`
	Closure   string  `schema:"closure"`
	Audit     bool    `schema:"audit"`
}

func ParseCreateRunDTO(src url.Values) (CreateRunDTO, error) {
	var dto CreateRunDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

func (dto CreateRunDTO) GameParams() mines.GameParams {
	return mines.GameParams{
		Height:    dto.Height,
		Width:     dto.Width,
		MineCount: dto.MineCount,
	}
}

type ListRunsDTO struct {
	Won       *bool   `schema:"won"`
	Closure   *string `schema:"closure"`
	Height    *int    `schema:"height"`
	Width     *int    `schema:"width"`
	MineCount *int    `schema:"mine_count"`
	Limit     int     `schema:"limit"`
}

func ParseListRunsDTO(src url.Values) (ListRunsDTO, error) {
	var dto ListRunsDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

// Filter requires height, width and mine_count to be given together.
func (dto ListRunsDTO) Filter() (repository.RunFilter, error) {
	filter := repository.RunFilter{
		Won:     dto.Won,
		Closure: dto.Closure,
		Limit:   dto.Limit,
	}
	switch {
	case dto.Height == nil && dto.Width == nil && dto.MineCount == nil:
	case dto.Height != nil && dto.Width != nil && dto.MineCount != nil:
		filter.GameParams = &mines.GameParams{
			Height:    *dto.Height,
			Width:     *dto.Width,
			MineCount: *dto.MineCount,
		}
	default:
		return filter, fmt.Errorf("height, width and mine_count must be given together")
	}
	return filter, nil
}

type RunDTO struct {
	RunId     int64 `json:"run_id"`
	CreatedAt int64 `json:"created_at"`
	*game.Result
}

func NewRunDTO(run *repository.SolverRun, res *game.Result) *RunDTO {
	return &RunDTO{
		RunId:     run.RunId,
		CreatedAt: run.CreatedAt.Time.UnixMilli(),
		Result:    res,
	}
}

type RunSummaryDTO struct {
	RunId     int64  `json:"run_id"`
	Height    int    `json:"height"`
	Width     int    `json:"width"`
	MineCount int    `json:"mine_count"`
	Seed      uint64 `json:"seed"`
	Closure   string `json:"closure"`
	Won       bool   `json:"won"`
	Lost      bool   `json:"lost"`
	Moves     int    `json:"moves"`
	CreatedAt int64  `json:"created_at"`
}

func NewRunSummaryDTO(run repository.SolverRun) RunSummaryDTO {
	return RunSummaryDTO{
		RunId:     run.RunId,
		Height:    run.Height,
		Width:     run.Width,
		MineCount: run.MineCount,
		Seed:      uint64(run.Seed),
		Closure:   run.Closure,
		Won:       run.Won,
		Lost:      run.Lost,
		Moves:     run.Moves,
		CreatedAt: run.CreatedAt.Time.UnixMilli(),
	}
}

type ReplayFrame struct {
	Index int        `json:"index"`
	Move  *game.Move `json:"move,omitempty"`
	Done  bool       `json:"done,omitempty"`
	Won   bool       `json:"won,omitempty"`
	Lost  bool       `json:"lost,omitempty"`
}
