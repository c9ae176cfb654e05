package pipeline

import (
	"os"
	"path/filepath"

	"camtrap/internal/tabular"
)

// writeTable writes a CSV artifact, creating its parent directory on demand.
func writeTable(table *tabular.Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return table.WriteFile(path)
}
