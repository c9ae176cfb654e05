package pipeline

import (
	"context"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"camtrap/internal/logging"
	"camtrap/internal/runlog"
	"camtrap/internal/services"
)

// Runner executes stages in order under the pipeline lock, recording each in
// the run ledger. The first failing stage stops the run.
type Runner struct {
	env *Env
}

// NewRunner constructs a runner over the shared environment.
func NewRunner(env *Env) *Runner {
	return &Runner{env: env}
}

// Execute runs the stages sequentially under a single run identifier.
func (r *Runner) Execute(ctx context.Context, stages ...Stage) error {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)

	lock := flock.New(r.env.Config.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrPrecondition, "pipeline", "acquire lock",
			"Could not acquire the pipeline lock", err)
	}
	if !locked {
		return services.Wrap(services.ErrPrecondition, "pipeline", "acquire lock",
			"Another camtrap invocation holds the pipeline lock; wait for it to finish", nil)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	for _, stage := range stages {
		if err := r.runStage(ctx, runID, stage); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runStage(ctx context.Context, runID string, stage Stage) error {
	stageCtx := services.WithStage(ctx, stage.Name())
	logger := logging.WithContext(stageCtx, r.env.Logger)

	ledgerID, err := r.env.Runs.Begin(stageCtx, runID, stage.Name())
	if err != nil {
		return services.Wrap(services.ErrStructural, stage.Name(), "record run start",
			"Could not write to the run ledger", err)
	}

	start := time.Now()
	logger.Info("stage started")

	outcome, runErr := stage.Run(stageCtx, r.env)
	if runErr != nil {
		logger.Error("stage failed", "error", runErr, "duration", time.Since(start).Round(time.Millisecond))
		if finishErr := r.env.Runs.Finish(stageCtx, ledgerID, runlog.Result{
			Status:    runlog.StatusFailed,
			ErrorText: runErr.Error(),
		}); finishErr != nil {
			logger.Error("failed to record stage failure", "error", finishErr)
		}
		return runErr
	}

	if finishErr := r.env.Runs.Finish(stageCtx, ledgerID, runlog.Result{
		Status:     runlog.StatusSucceeded,
		InPlace:    outcome.InPlace,
		OutputPath: outcome.OutputPath,
		Detail:     outcome.Detail,
	}); finishErr != nil {
		return services.Wrap(services.ErrStructural, stage.Name(), "record run result",
			"Could not write to the run ledger", finishErr)
	}

	logger.Info("stage completed",
		"output", outcome.OutputPath,
		"detail", outcome.Detail,
		"duration", time.Since(start).Round(time.Millisecond))
	return nil
}
