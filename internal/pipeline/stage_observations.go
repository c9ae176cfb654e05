package pipeline

import (
	"context"
	"fmt"

	"camtrap/internal/config"
	"camtrap/internal/link"
	"camtrap/internal/logging"
	"camtrap/internal/media"
	"camtrap/internal/observation"
	"camtrap/internal/services"
	"camtrap/internal/tabular"
)

// Observations derives the baseline observation table from linked media.
type Observations struct {
	// Count is the number of emitted observations after Run.
	Count int
	// TemplatePath is the label template artifact, when one was written.
	TemplatePath string
}

func (o *Observations) Name() string { return "observations" }

func (o *Observations) Run(ctx context.Context, env *Env) (Outcome, error) {
	cfg := env.Config

	linkedTable, err := tabular.ReadFile(cfg.LinkedMediaPath())
	if err != nil {
		return Outcome{}, services.Wrap(services.ErrPrecondition, o.Name(), "read linked media",
			fmt.Sprintf("Could not read %s; run camtrap link first", cfg.LinkedMediaPath()), err)
	}
	index, err := media.LoadMetadataIndex(cfg.MediaMetadataPath())
	if err != nil {
		return Outcome{}, services.Wrap(services.ErrStructural, o.Name(), "read media metadata",
			fmt.Sprintf("Could not read %s", cfg.MediaMetadataPath()), err)
	}

	linked, rowErrors := link.FromTable(linkedTable, index)
	logger := logging.WithContext(ctx, env.Logger)
	for _, rowErr := range rowErrors {
		logger.Warn("linked media row rejected",
			"line", rowErr.Line, "field", rowErr.Field, "reason", rowErr.Message)
	}

	includeAll := cfg.Observations.Include == config.IncludeAll
	observations := observation.Build(linked, observation.Options{IncludeAll: includeAll})
	o.Count = len(observations)

	table := observation.Table(observations, includeAll)
	out := cfg.ObservationsPath()
	if err := writeTable(table, out); err != nil {
		return Outcome{}, services.Wrap(services.ErrStructural, o.Name(), "write observations",
			fmt.Sprintf("Could not write %s", out), err)
	}

	detail := fmt.Sprintf("%d observations", len(observations))
	if cfg.Observations.EmitLabelTemplate {
		templatePath := cfg.LabelTemplatePath()
		if err := writeTable(observation.Template(table), templatePath); err != nil {
			return Outcome{}, services.Wrap(services.ErrStructural, o.Name(), "write label template",
				fmt.Sprintf("Could not write %s", templatePath), err)
		}
		o.TemplatePath = templatePath
		detail += ", label template emitted"
	}

	return Outcome{OutputPath: out, Detail: detail}, nil
}

var _ Stage = (*Observations)(nil)
