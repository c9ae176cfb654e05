package pipeline

import (
	"context"
	"fmt"

	"camtrap/internal/deploy"
	"camtrap/internal/logging"
	"camtrap/internal/services"
	"camtrap/internal/tabular"
)

// Deployments builds the normalized deployment registry from the field sheet.
type Deployments struct {
	// RowErrors holds the rejected sheet rows after Run.
	RowErrors []tabular.RowError
	// Count is the number of registered intervals after Run.
	Count int
}

func (d *Deployments) Name() string { return "deployments" }

func (d *Deployments) Run(ctx context.Context, env *Env) (Outcome, error) {
	cfg := env.Config

	sheet, err := tabular.ReadFile(cfg.RawDeploymentPath())
	if err != nil {
		return Outcome{}, services.Wrap(services.ErrStructural, d.Name(), "read deployment sheet",
			fmt.Sprintf("Could not read %s", cfg.RawDeploymentPath()), err)
	}

	set, rowErrors := deploy.Parse(sheet, deploy.Options{
		DefaultOffset: cfg.Registry.DefaultUTCOffset,
	})
	d.RowErrors = rowErrors
	d.Count = set.Len()

	logger := logging.WithContext(ctx, env.Logger)
	for _, rowErr := range rowErrors {
		logger.Warn("deployment row rejected",
			"line", rowErr.Line, "field", rowErr.Field, "reason", rowErr.Message)
	}
	if set.Len() == 0 {
		return Outcome{}, services.Wrap(services.ErrValidation, d.Name(), "parse deployment sheet",
			"No usable deployment rows; inspect the rejected rows and fix the sheet", nil)
	}

	out := cfg.DeploymentsPath()
	if err := writeTable(set.Table(), out); err != nil {
		return Outcome{}, services.Wrap(services.ErrStructural, d.Name(), "write deployments",
			fmt.Sprintf("Could not write %s", out), err)
	}

	return Outcome{
		OutputPath: out,
		Detail:     fmt.Sprintf("%d deployments, %d rejected rows", set.Len(), len(rowErrors)),
	}, nil
}

var _ Stage = (*Deployments)(nil)
