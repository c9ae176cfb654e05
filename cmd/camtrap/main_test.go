package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"camtrap/internal/config"
	"camtrap/internal/tabular"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DatapackageDir = filepath.Join(base, "datapackage")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfg := &cfgVal

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	encoded, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func seedDatapackage(t *testing.T, cfg *config.Config) {
	t.Helper()

	sheet := tabular.New("siteID", "cameraSerial", "startLocal", "endLocal", "StartTime", "EndTime EST")
	sheet.Append(tabular.Row{
		"siteID":       "SITE1",
		"cameraSerial": "H500X1",
		"startLocal":   "06/01/2023",
		"endLocal":     "06/30/2023",
	})
	if err := sheet.WriteFile(cfg.RawDeploymentPath()); err != nil {
		t.Fatalf("write deployment sheet: %v", err)
	}

	media := tabular.New("filePath", "timestamp", "exifData")
	media.Append(tabular.Row{
		"filePath":  "images/SITE1/IMG_0001.JPG",
		"timestamp": "2023-06-10T08:00:00-05:00",
		"exifData":  `{"SerialNumber":"H500X1"}`,
	})
	if err := media.WriteFile(cfg.MediaPath()); err != nil {
		t.Fatalf("write media table: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, error) {
	t.Helper()

	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}
