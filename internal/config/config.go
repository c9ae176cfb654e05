package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DatapackageDir string `toml:"datapackage_dir"`
	LogDir         string `toml:"log_dir"`
}

// Registry contains configuration for deployment-sheet parsing.
type Registry struct {
	DefaultUTCOffset string `toml:"default_utc_offset"`
}

// Observations contains configuration for the observation builder.
type Observations struct {
	Include           string `toml:"include"`
	EmitLabelTemplate bool   `toml:"emit_label_template"`
}

// Merge contains configuration for label reconciliation.
type Merge struct {
	MediaIDFallback     bool    `toml:"media_id_fallback"`
	DetectionsThreshold float64 `toml:"detections_threshold"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for camtrap.
type Config struct {
	Paths        Paths        `toml:"paths"`
	Registry     Registry     `toml:"registry"`
	Observations Observations `toml:"observations"`
	Merge        Merge        `toml:"merge"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/camtrap/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second and third
// return values report which path was used and whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = os.Getenv("CAMTRAP_CONFIG")
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("camtrap.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.DatapackageDir, err = expandPath(c.Paths.DatapackageDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	c.Registry.DefaultUTCOffset = strings.TrimSpace(c.Registry.DefaultUTCOffset)
	c.Observations.Include = strings.ToLower(strings.TrimSpace(c.Observations.Include))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// EnsureDirectories creates the directories required for pipeline operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DatapackageDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Datapackage artifact locations. Every stage reads and writes through these
// so the artifact names stay consistent across commands.

// RawDeploymentPath is the hand-filled field sheet input.
func (c *Config) RawDeploymentPath() string {
	return filepath.Join(c.Paths.DatapackageDir, "raw_deployment.csv")
}

// DeploymentsPath is the normalized deployment interval table.
func (c *Config) DeploymentsPath() string {
	return filepath.Join(c.Paths.DatapackageDir, "deployments.csv")
}

// MediaPath is the per-file media metadata table from the external extractor.
func (c *Config) MediaPath() string {
	return filepath.Join(c.Paths.DatapackageDir, "media.csv")
}

// MediaMetadataPath is the optional side-channel EXIF dump keyed by file path.
func (c *Config) MediaMetadataPath() string {
	return filepath.Join(c.Paths.DatapackageDir, "media_metadata.json")
}

// LinkedMediaPath is the media table augmented with deployment associations.
func (c *Config) LinkedMediaPath() string {
	return filepath.Join(c.Paths.DatapackageDir, "media_linked.csv")
}

// ObservationsPath is the authoritative observation table.
func (c *Config) ObservationsPath() string {
	return filepath.Join(c.Paths.DatapackageDir, "observations.csv")
}

// LabelTemplatePath is the disposable hand-editing view of the observations.
func (c *Config) LabelTemplatePath() string {
	return filepath.Join(c.Paths.DatapackageDir, "observations_to_label.csv")
}

// MergedObservationsPath is the reviewable non-destructive merge output.
func (c *Config) MergedObservationsPath() string {
	return filepath.Join(c.Paths.DatapackageDir, "observations_merged.csv")
}

// DetectionsPath is the optional machine-detections table.
func (c *Config) DetectionsPath() string {
	return filepath.Join(c.Paths.DatapackageDir, "detections_bioclip.csv")
}

// RunLogPath is the SQLite run ledger.
func (c *Config) RunLogPath() string {
	return filepath.Join(c.Paths.LogDir, "runs.db")
}

// LockPath is the pipeline lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.LogDir, "camtrap.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
