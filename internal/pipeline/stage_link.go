package pipeline

import (
	"context"
	"fmt"

	"camtrap/internal/deploy"
	"camtrap/internal/link"
	"camtrap/internal/logging"
	"camtrap/internal/media"
	"camtrap/internal/services"
	"camtrap/internal/tabular"
)

// Link associates extracted media with deployment intervals by camera serial
// and capture instant.
type Link struct {
	// Summary counts link outcomes after Run.
	Summary link.Summary
	// RowErrors holds media rows the loader rejected.
	RowErrors []tabular.RowError
}

func (l *Link) Name() string { return "link" }

func (l *Link) Run(ctx context.Context, env *Env) (Outcome, error) {
	cfg := env.Config

	deploymentsTable, err := tabular.ReadFile(cfg.DeploymentsPath())
	if err != nil {
		return Outcome{}, services.Wrap(services.ErrPrecondition, l.Name(), "read deployments",
			fmt.Sprintf("Could not read %s; run camtrap deployments first", cfg.DeploymentsPath()), err)
	}
	deployments, deployErrors := deploy.FromTable(deploymentsTable)
	if len(deployErrors) > 0 {
		return Outcome{}, services.Wrap(services.ErrStructural, l.Name(), "parse deployments",
			fmt.Sprintf("%s is malformed; rebuild it with camtrap deployments", cfg.DeploymentsPath()), nil)
	}

	mediaTable, err := tabular.ReadFile(cfg.MediaPath())
	if err != nil {
		return Outcome{}, services.Wrap(services.ErrStructural, l.Name(), "read media table",
			fmt.Sprintf("Could not read %s", cfg.MediaPath()), err)
	}
	index, err := media.LoadMetadataIndex(cfg.MediaMetadataPath())
	if err != nil {
		return Outcome{}, services.Wrap(services.ErrStructural, l.Name(), "read media metadata",
			fmt.Sprintf("Could not read %s", cfg.MediaMetadataPath()), err)
	}

	records, rowErrors := media.FromTable(mediaTable, index)
	l.RowErrors = rowErrors

	logger := logging.WithContext(ctx, env.Logger)
	for _, rowErr := range rowErrors {
		logger.Warn("media row rejected",
			"line", rowErr.Line, "field", rowErr.Field, "reason", rowErr.Message)
	}

	linked, summary := link.Link(deployments, records)
	l.Summary = summary

	out := cfg.LinkedMediaPath()
	if err := writeTable(link.Table(mediaTable, linked), out); err != nil {
		return Outcome{}, services.Wrap(services.ErrStructural, l.Name(), "write linked media",
			fmt.Sprintf("Could not write %s", out), err)
	}

	logger.Info("media linked",
		"total", summary.Total,
		"linked", summary.Linked,
		"unmatched", summary.Unmatched,
		"ambiguous", summary.Ambiguous)

	return Outcome{
		OutputPath: out,
		Detail: fmt.Sprintf("%d media: %d linked, %d unmatched, %d ambiguous",
			summary.Total, summary.Linked, summary.Unmatched, summary.Ambiguous),
	}, nil
}

var _ Stage = (*Link)(nil)
