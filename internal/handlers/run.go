package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/game"
	"github.com/vancomm/minesweeper-agent/internal/knowledge"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

// RunStore is implemented by *repository.Queries.
type RunStore interface {
	CreateRun(ctx context.Context, res *game.Result) (*repository.SolverRun, error)
	FetchRun(ctx context.Context, runId int64) (*repository.SolverRun, error)
	ListRuns(ctx context.Context, filter repository.RunFilter) ([]repository.SolverRun, error)
	GetStats(ctx context.Context, filter repository.RunFilter) ([]repository.RunStats, error)
}

type RunHandler struct {
	logger *slog.Logger
	store  RunStore
	ws     *config.WebSocket
	solver *config.Solver

	mu  sync.Mutex // guards rnd
	rnd *rand.Rand
}

func NewRunHandler(
	logger *slog.Logger,
	store RunStore,
	ws *config.WebSocket,
	solver *config.Solver,
	rnd *rand.Rand,
) *RunHandler {
	return &RunHandler{
		logger: logger,
		store:  store,
		ws:     ws,
		solver: solver,
		rnd:    rnd,
	}
}

func (h *RunHandler) newSeed() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	// stored as bigint
	return h.rnd.Uint64() >> 1
}

func (h *RunHandler) NewRun(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateRunDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, h.logger, http.StatusBadRequest, err)
		return
	}

	params := dto.GameParams()
	if err := params.Validate(); err != nil {
		sendErrorOrLog(w, h.logger, http.StatusBadRequest, err)
		return
	}

	closure := h.solver.Closure
	if dto.Closure != "" {
		if closure, err = knowledge.ParseClosure(dto.Closure); err != nil {
			sendErrorOrLog(w, h.logger, http.StatusBadRequest, err)
			return
		}
	}

	var seed uint64
	if dto.Seed != nil {
		seed = *dto.Seed
	} else {
		seed = h.newSeed()
	}

	res, err := game.Run(r.Context(), params, seed, 0, closure, game.Options{
		Audit: h.solver.Audit || dto.Audit,
	})
	if errors.Is(err, context.Canceled) {
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error(
			"agent failed",
			slog.String("params", params.Seed()),
			slog.Uint64("seed", seed),
			slog.String("closure", closure.String()),
			slog.Any("error", err),
		)
		return
	}

	run, err := h.store.CreateRun(r.Context(), res)
	if err != nil {
		if isIntegrityViolation(err) {
			sendErrorOrLog(w, h.logger, http.StatusBadRequest, fmt.Errorf("run rejected by database"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to store run", slog.Any("error", err))
		return
	}

	h.logger.Debug(
		"run stored",
		slog.Int64("run_id", run.RunId),
		slog.Bool("won", res.Won),
		slog.Int("moves", len(res.Moves)),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	sendJSONOrLog(w, h.logger, NewRunDTO(run, res))
}

// fetch loads the run named by the {id} path value, writing the error
// response itself when it returns false.
func (h *RunHandler) fetch(
	w http.ResponseWriter, r *http.Request,
) (*repository.SolverRun, *game.Result, bool) {
	runId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		sendErrorOrLog(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid run id"))
		return nil, nil, false
	}

	run, err := h.store.FetchRun(r.Context(), runId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return nil, nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to fetch run from db", slog.Any("error", err))
		return nil, nil, false
	}

	res, err := run.Result()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("db returned invalid solver_run.state", slog.Any("error", err))
		return nil, nil, false
	}
	return run, res, true
}

func (h *RunHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	run, res, ok := h.fetch(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, h.logger, NewRunDTO(run, res))
}

func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	runs, err := h.store.ListRuns(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to list runs", slog.Any("error", err))
		return
	}

	dtos := make([]RunSummaryDTO, len(runs))
	for i, run := range runs {
		dtos[i] = NewRunSummaryDTO(run)
	}
	sendJSONOrLog(w, h.logger, dtos)
}

func (h *RunHandler) Stats(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	stats, err := h.store.GetStats(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to compute run stats", slog.Any("error", err))
		return
	}
	if stats == nil {
		stats = []repository.RunStats{}
	}
	sendJSONOrLog(w, h.logger, stats)
}

func (h *RunHandler) parseFilter(w http.ResponseWriter, r *http.Request) (repository.RunFilter, bool) {
	dto, err := ParseListRunsDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, h.logger, http.StatusBadRequest, err)
		return repository.RunFilter{}, false
	}
	filter, err := dto.Filter()
	if err != nil {
		sendErrorOrLog(w, h.logger, http.StatusBadRequest, err)
		return repository.RunFilter{}, false
	}
	return filter, true
}
