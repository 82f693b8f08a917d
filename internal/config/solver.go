package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/vancomm/minesweeper-agent/internal/knowledge"
)

// Solver holds the defaults applied to runs requested over HTTP.
type Solver struct {
	Workers int
	Closure knowledge.Closure
	Audit   bool
}

func NewSolver() (*Solver, error) {
	cfg := &Solver{
		Workers: runtime.GOMAXPROCS(0),
		Closure: knowledge.Fixpoint,
	}

	if workersStr, ok := os.LookupEnv("SOLVER_WORKERS"); ok {
		workers, err := strconv.Atoi(workersStr)
		if err != nil {
			return nil, fmt.Errorf("unable to convert SOLVER_WORKERS to int: %w", err)
		}
		if workers <= 0 {
			return nil, fmt.Errorf("SOLVER_WORKERS must be positive, got %d", workers)
		}
		cfg.Workers = workers
	}

	if closureStr, ok := os.LookupEnv("SOLVER_CLOSURE"); ok {
		closure, err := knowledge.ParseClosure(closureStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SOLVER_CLOSURE: %w", err)
		}
		cfg.Closure = closure
	}

	if audit, ok := os.LookupEnv("SOLVER_AUDIT"); ok {
		cfg.Audit = audit != "0"
	}

	return cfg, nil
}
