package app

import (
	"hash/maphash"
	"math/rand/v2"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vancomm/minesweeper-agent/internal/handlers"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	runs := handlers.NewRunHandler(
		a.logger, a.store, a.ws, a.solver, createRand(),
	)
	base := a.basePath

	a.router.HandleFunc("POST "+base+"/runs", runs.NewRun)
	a.router.HandleFunc("GET "+base+"/runs", runs.List)
	a.router.HandleFunc("GET "+base+"/runs/stats", runs.Stats)
	a.router.HandleFunc("GET "+base+"/runs/{id}", runs.Fetch)
	a.router.HandleFunc("GET "+base+"/runs/{id}/replay", runs.Replay)
	a.router.Handle("GET "+base+"/metrics", promhttp.Handler())
	a.router.HandleFunc("GET "+base+"/healthz", a.healthz)
}

func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	if a.db != nil {
		if err := a.db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
