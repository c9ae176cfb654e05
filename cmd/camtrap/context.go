package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"camtrap/internal/config"
	"camtrap/internal/logging"
	"camtrap/internal/pipeline"
	"camtrap/internal/runlog"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// pipelineEnv assembles the stage environment. The returned closer releases
// the run ledger.
func (c *commandContext) pipelineEnv() (*pipeline.Env, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("configure logging: %w", err)
	}

	runs, err := runlog.Open(cfg.RunLogPath())
	if err != nil {
		return nil, nil, fmt.Errorf("open run ledger: %w", err)
	}

	env := &pipeline.Env{Config: cfg, Logger: logger, Runs: runs}
	return env, func() { _ = runs.Close() }, nil
}

// runStages executes stages under the pipeline runner with shared teardown.
func (c *commandContext) runStages(ctx context.Context, stages ...pipeline.Stage) error {
	env, closeEnv, err := c.pipelineEnv()
	if err != nil {
		return err
	}
	defer closeEnv()
	return pipeline.NewRunner(env).Execute(ctx, stages...)
}
