package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/game"
	"github.com/vancomm/minesweeper-agent/internal/knowledge"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeStore struct {
	mu     sync.Mutex
	runs   []repository.SolverRun
	reject error
	filter repository.RunFilter
}

func (s *fakeStore) CreateRun(ctx context.Context, res *game.Result) (*repository.SolverRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reject != nil {
		return nil, s.reject
	}
	state, err := repository.EncodeResult(res)
	if err != nil {
		return nil, err
	}
	run := repository.SolverRun{
		RunId:     int64(len(s.runs) + 1),
		Height:    res.Params.Height,
		Width:     res.Params.Width,
		MineCount: res.Params.MineCount,
		Seed:      int64(res.Seed),
		Closure:   res.Closure,
		Won:       res.Won,
		Lost:      res.Lost,
		Moves:     len(res.Moves),
		State:     state,
		CreatedAt: pgtype.Timestamptz{Time: time.UnixMilli(1700000000000), Valid: true},
	}
	s.runs = append(s.runs, run)
	return &run, nil
}

func (s *fakeStore) FetchRun(ctx context.Context, runId int64) (*repository.SolverRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, run := range s.runs {
		if run.RunId == runId {
			return &run, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeStore) ListRuns(ctx context.Context, filter repository.RunFilter) ([]repository.SolverRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
	return s.runs, nil
}

func (s *fakeStore) GetStats(ctx context.Context, filter repository.RunFilter) ([]repository.RunStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
	return nil, nil
}

func newTestHandler(store RunStore) *RunHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRunHandler(
		logger,
		store,
		config.NewWebSocket(),
		&config.Solver{Workers: 1, Closure: knowledge.Fixpoint},
		rand.New(rand.NewPCG(1, 2)),
	)
}

func newTestMux(h *RunHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /runs", h.NewRun)
	mux.HandleFunc("GET /runs", h.List)
	mux.HandleFunc("GET /runs/stats", h.Stats)
	mux.HandleFunc("GET /runs/{id}", h.Fetch)
	mux.HandleFunc("GET /runs/{id}/replay", h.Replay)
	return mux
}

func do(t *testing.T, mux http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestNewRun(t *testing.T) {
	store := &fakeStore{}
	mux := newTestMux(newTestHandler(store))

	w := do(t, mux, http.MethodPost, "/runs?height=8&width=8&mine_count=10&seed=42&closure=bounded&audit=1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got RunDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(1), got.RunId)
	assert.Equal(t, uint64(42), got.Seed)
	assert.Equal(t, "bounded", got.Closure)
	assert.NotEqual(t, got.Won, got.Lost)
	assert.NotEmpty(t, got.Moves)

	want, err := game.Run(context.Background(), got.Params, 42, 0, knowledge.Bounded, game.Options{})
	require.NoError(t, err)
	assert.Equal(t, want.Moves, got.Moves)
}

func TestNewRunPicksSeed(t *testing.T) {
	store := &fakeStore{}
	mux := newTestMux(newTestHandler(store))

	w := do(t, mux, http.MethodPost, "/runs?height=4&width=4&mine_count=2")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, store.runs, 1)
	assert.GreaterOrEqual(t, store.runs[0].Seed, int64(0))
	assert.Equal(t, "fixpoint", store.runs[0].Closure)
}

func TestNewRunBadRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"missing params", "height=8&width=8"},
		{"not a number", "height=eight&width=8&mine_count=1"},
		{"too many mines", "height=2&width=2&mine_count=5"},
		{"unknown closure", "height=2&width=2&mine_count=1&closure=greedy"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			mux := newTestMux(newTestHandler(&fakeStore{}))
			w := do(t, mux, http.MethodPost, "/runs?"+test.query)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestNewRunRejectedByDatabase(t *testing.T) {
	store := &fakeStore{reject: &pgconn.PgError{Code: pgerrcode.CheckViolation}}
	mux := newTestMux(newTestHandler(store))

	w := do(t, mux, http.MethodPost, "/runs?height=3&width=3&mine_count=1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFetch(t *testing.T) {
	store := &fakeStore{}
	mux := newTestMux(newTestHandler(store))
	require.Equal(t, http.StatusCreated, do(t, mux, http.MethodPost, "/runs?height=5&width=5&mine_count=3&seed=7").Code)

	w := do(t, mux, http.MethodGet, "/runs/1")
	require.Equal(t, http.StatusOK, w.Code)
	var got RunDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(1700000000000), got.CreatedAt)
	assert.Equal(t, uint64(7), got.Seed)

	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, "/runs/2").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/runs/abc").Code)
}

func TestList(t *testing.T) {
	store := &fakeStore{}
	mux := newTestMux(newTestHandler(store))

	w := do(t, mux, http.MethodGet, "/runs")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	require.Equal(t, http.StatusCreated, do(t, mux, http.MethodPost, "/runs?height=5&width=5&mine_count=3&seed=7").Code)
	w = do(t, mux, http.MethodGet, "/runs?won=true&closure=fixpoint&height=5&width=5&mine_count=3&limit=3")
	require.Equal(t, http.StatusOK, w.Code)

	var got []RunSummaryDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, uint64(7), got[0].Seed)

	require.NotNil(t, store.filter.Won)
	assert.True(t, *store.filter.Won)
	assert.Equal(t, "fixpoint", *store.filter.Closure)
	assert.Equal(t, 3, store.filter.Limit)
	assert.Equal(t, 5, store.filter.GameParams.Height)

	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/runs?height=5").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/runs?won=maybe").Code)
}

func TestStats(t *testing.T) {
	mux := newTestMux(newTestHandler(&fakeStore{}))

	w := do(t, mux, http.MethodGet, "/runs/stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestReplay(t *testing.T) {
	store := &fakeStore{}
	h := newTestHandler(store)
	server := httptest.NewServer(newTestMux(h))
	defer server.Close()

	resp, err := http.Post(server.URL+"/runs?height=6&width=6&mine_count=4&seed=3", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	server.Client().CloseIdleConnections()
	http.DefaultClient.CloseIdleConnections()

	res, err := store.runs[0].Result()
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/runs/1/replay"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer c.Close()

	var frames []ReplayFrame
	for {
		var frame ReplayFrame
		if err := c.ReadJSON(&frame); err != nil {
			require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), err)
			break
		}
		frames = append(frames, frame)
	}

	require.Len(t, frames, len(res.Moves)+1)
	for i, m := range res.Moves {
		assert.Equal(t, i, frames[i].Index)
		assert.Equal(t, m, *frames[i].Move)
	}
	last := frames[len(frames)-1]
	assert.True(t, last.Done)
	assert.Equal(t, res.Won, last.Won)
}

func TestReplayNotFound(t *testing.T) {
	mux := newTestMux(newTestHandler(&fakeStore{}))
	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, "/runs/9/replay").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/runs/1/replay?delay_ms=-4").Code)
}

func TestParseCreateRunDTO(t *testing.T) {
	seed := uint64(12)

	tests := []struct {
		name    string
		query   string
		want    CreateRunDTO
		wantErr bool
	}{
		{
			name:  "all fields",
			query: "height=3&width=4&mine_count=2&seed=12&closure=bounded&audit=true&extra=1",
			want: CreateRunDTO{
				Height: 3, Width: 4, MineCount: 2, Seed: &seed, Closure: "bounded", Audit: true,
			},
		},
		{
			name:  "required only",
			query: "height=3&width=4&mine_count=2",
			want:  CreateRunDTO{Height: 3, Width: 4, MineCount: 2},
		},
		{
			name:    "missing mine_count",
			query:   "height=3&width=4",
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/runs?"+test.query, nil)
			dto, err := ParseCreateRunDTO(r.URL.Query())
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, dto)
			assert.Equal(t, 3, dto.GameParams().Height)
		})
	}
}
