package pipeline

import (
	"context"
	"fmt"
	"time"

	"camtrap/internal/fileutil"
	"camtrap/internal/logging"
	"camtrap/internal/reconcile"
	"camtrap/internal/services"
	"camtrap/internal/tabular"
)

// Merge reconciles edited labels (and optionally machine detections) into
// the observation table. The default writes a separate reviewable artifact;
// InPlace overwrites the observation table itself, which requires a prior
// successful non-destructive merge in the ledger and takes a backup first.
type Merge struct {
	InPlace       bool
	UseDetections bool
	// EditedBy attributes applied human changes; empty falls back to "human".
	EditedBy string

	// Report describes the human-label merge after Run.
	Report *reconcile.Report
	// Machine describes the detections pass after Run, when one ran.
	Machine *reconcile.MachineReport
	// BackupPath is the pre-overwrite copy taken by an in-place run.
	BackupPath string
}

func (m *Merge) Name() string { return "merge" }

func (m *Merge) Run(ctx context.Context, env *Env) (Outcome, error) {
	cfg := env.Config
	logger := logging.WithContext(ctx, env.Logger)

	current, err := tabular.ReadFile(cfg.ObservationsPath())
	if err != nil {
		return Outcome{}, services.Wrap(services.ErrPrecondition, m.Name(), "read observations",
			fmt.Sprintf("Could not read %s; run camtrap observations first", cfg.ObservationsPath()), err)
	}
	edits, err := tabular.ReadFile(cfg.LabelTemplatePath())
	if err != nil {
		return Outcome{}, services.Wrap(services.ErrStructural, m.Name(), "read edited labels",
			fmt.Sprintf("Could not read %s", cfg.LabelTemplatePath()), err)
	}

	merged, report := reconcile.Merge(current, edits, reconcile.Options{
		MediaIDFallback: cfg.Merge.MediaIDFallback,
		EditedBy:        m.EditedBy,
	})
	m.Report = report

	for _, conflict := range report.Conflicts {
		logger.Warn("edit row conflicts with stored context",
			"line", conflict.Line, "observation", conflict.ObservationID,
			"field", conflict.Field, "expected", conflict.Expected, "actual", conflict.Actual)
	}
	for _, fieldErr := range report.FieldErrors {
		logger.Warn("edit field rejected",
			"line", fieldErr.Line, "observation", fieldErr.ObservationID,
			"field", fieldErr.Field, "value", fieldErr.Value, "reason", fieldErr.Message)
	}
	for _, orphan := range report.Orphans {
		logger.Warn("edit row matches no observation", "line", orphan.Line, "key", orphan.Key)
	}

	detail := fmt.Sprintf("%d rows changed, %d conflicts, %d field errors, %d orphans",
		report.RowsChanged, len(report.Conflicts), len(report.FieldErrors), len(report.Orphans))

	if m.UseDetections {
		detections, err := tabular.ReadFile(cfg.DetectionsPath())
		if err != nil {
			return Outcome{}, services.Wrap(services.ErrStructural, m.Name(), "read detections",
				fmt.Sprintf("Could not read %s", cfg.DetectionsPath()), err)
		}
		merged, m.Machine = reconcile.ApplyDetections(merged, detections, reconcile.DetectionOptions{
			Threshold: cfg.Merge.DetectionsThreshold,
		})
		detail += fmt.Sprintf("; detections: %d applied, %d low confidence, %d human-kept",
			len(m.Machine.Applied), m.Machine.SkippedLowConfidence, m.Machine.SkippedHuman)
	}

	out := cfg.MergedObservationsPath()
	if m.InPlace {
		reviewed, err := env.Runs.HasNonDestructive(ctx, m.Name())
		if err != nil {
			return Outcome{}, services.Wrap(services.ErrStructural, m.Name(), "check run ledger",
				"Could not read the run ledger", err)
		}
		if !reviewed {
			return Outcome{}, services.Wrap(services.ErrPrecondition, m.Name(), "check run ledger",
				"In-place merge requires a reviewed non-destructive merge first; run camtrap merge without --inplace", nil)
		}

		backup, err := fileutil.BackupFile(cfg.ObservationsPath(), time.Now())
		if err != nil {
			return Outcome{}, services.Wrap(services.ErrStructural, m.Name(), "back up observations",
				fmt.Sprintf("Could not back up %s", cfg.ObservationsPath()), err)
		}
		m.BackupPath = backup
		logger.Info("observation table backed up", "backup", backup)

		out = cfg.ObservationsPath()
	}

	if err := writeTable(merged, out); err != nil {
		if m.InPlace && m.BackupPath != "" {
			// The overwrite failed; best effort restore from the backup.
			if restoreErr := fileutil.CopyFile(m.BackupPath, cfg.ObservationsPath()); restoreErr != nil {
				logger.Error("failed to restore observation table from backup",
					"backup", m.BackupPath, "error", restoreErr)
			}
		}
		return Outcome{}, services.Wrap(services.ErrStructural, m.Name(), "write merged observations",
			fmt.Sprintf("Could not write %s", out), err)
	}

	return Outcome{OutputPath: out, Detail: detail, InPlace: m.InPlace}, nil
}

var _ Stage = (*Merge)(nil)
