package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/game"
	"github.com/vancomm/minesweeper-agent/internal/knowledge"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

type emptyStore struct{}

func (emptyStore) CreateRun(context.Context, *game.Result) (*repository.SolverRun, error) {
	return &repository.SolverRun{RunId: 1}, nil
}

func (emptyStore) FetchRun(context.Context, int64) (*repository.SolverRun, error) {
	return nil, io.EOF
}

func (emptyStore) ListRuns(context.Context, repository.RunFilter) ([]repository.SolverRun, error) {
	return nil, nil
}

func (emptyStore) GetStats(context.Context, repository.RunFilter) ([]repository.RunStats, error) {
	return nil, nil
}

func newTestApp(t *testing.T, basePath string) http.Handler {
	t.Setenv("APP_BASE_PATH", basePath)
	a := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	a.store = emptyStore{}
	a.solver = &config.Solver{Workers: 1, Closure: knowledge.Fixpoint}
	a.loadRoutes()
	return a.Handler()
}

func TestRoutes(t *testing.T) {
	h := newTestApp(t, "/api")

	tests := []struct {
		method string
		target string
		want   int
	}{
		{http.MethodGet, "/api/healthz", http.StatusNoContent},
		{http.MethodGet, "/api/metrics", http.StatusOK},
		{http.MethodGet, "/api/runs", http.StatusOK},
		{http.MethodGet, "/api/runs/stats", http.StatusOK},
		{http.MethodPost, "/api/runs?height=3&width=3&mine_count=1&seed=1", http.StatusCreated},
		{http.MethodGet, "/api/runs/1", http.StatusInternalServerError},
		{http.MethodGet, "/runs", http.StatusNotFound},
		{http.MethodDelete, "/api/runs/1", http.StatusMethodNotAllowed},
	}

	for _, test := range tests {
		t.Run(test.method+" "+test.target, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(test.method, test.target, nil))
			assert.Equal(t, test.want, w.Code)
		})
	}
}

func TestMetricsExposeAgentCounters(t *testing.T) {
	h := newTestApp(t, "")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/runs?height=4&width=4&mine_count=2&seed=9", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "minesweeper_agent_games_total")
	assert.Contains(t, w.Body.String(), "minesweeper_agent_moves_total")
}
