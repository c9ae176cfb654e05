package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateObservations(); err != nil {
		return err
	}
	if err := c.validateMerge(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DatapackageDir == "" {
		return errors.New("paths.datapackage_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateObservations() error {
	switch c.Observations.Include {
	case IncludeLinked, IncludeAll:
		return nil
	default:
		return fmt.Errorf("observations.include must be %q or %q, got %q", IncludeLinked, IncludeAll, c.Observations.Include)
	}
}

func (c *Config) validateMerge() error {
	if c.Merge.DetectionsThreshold < 0 || c.Merge.DetectionsThreshold > 1 {
		return errors.New("merge.detections_threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
