package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/database"
	"github.com/vancomm/minesweeper-agent/internal/handlers"
	"github.com/vancomm/minesweeper-agent/internal/middleware"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	logger   *slog.Logger
	router   *http.ServeMux
	basePath string
	db       *pgxpool.Pool
	store    handlers.RunStore
	ws       *config.WebSocket
	solver   *config.Solver
}

func New(logger *slog.Logger) *App {
	return &App{
		logger:   logger,
		router:   http.NewServeMux(),
		basePath: config.BasePath(),
		ws:       config.NewWebSocket(),
	}
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Logging(a.logger),
		middleware.Cors(config.AllowedOrigins()...),
	)
}

func (a *App) Start(ctx context.Context) error {
	solver, err := config.NewSolver()
	if err != nil {
		return fmt.Errorf("unable to read solver config: %w", err)
	}
	a.solver = solver

	db, migrator, err := database.ConnectAndMigrate(ctx)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	defer db.Close()
	if version, dirty, err := migrator.Version(); err == nil {
		a.logger.Info("database ready", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	}
	a.db = db
	a.store = repository.New(db)

	a.loadRoutes()

	addr := config.Addr()
	server := &http.Server{
		Addr:    addr,
		Handler: a.Handler(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", addr), slog.String("base path", a.basePath))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	return g.Wait()
}
