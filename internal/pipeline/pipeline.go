package pipeline

import (
	"context"
	"log/slog"

	"camtrap/internal/config"
	"camtrap/internal/runlog"
)

// Env carries the shared dependencies every stage needs.
type Env struct {
	Config *config.Config
	Logger *slog.Logger
	Runs   *runlog.Store
}

// Outcome describes what a completed stage produced.
type Outcome struct {
	// OutputPath is the artifact the stage wrote.
	OutputPath string
	// Detail is a one-line human summary for the ledger and logs.
	Detail string
	// InPlace marks runs that overwrote their own input.
	InPlace bool
}

// Stage is one pipeline step.
type Stage interface {
	Name() string
	Run(ctx context.Context, env *Env) (Outcome, error)
}
