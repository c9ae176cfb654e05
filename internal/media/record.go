package media

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"camtrap/internal/tabular"
)

// mediaNamespace seeds deterministic media identifiers. Fixed forever:
// changing it would re-key every dataset built by this pipeline.
var mediaNamespace = uuid.MustParse("8c2c9edb-0c5e-4dc2-9e2f-6a1df7a3b518")

// Record is one extracted media file. Immutable once loaded.
type Record struct {
	MediaID      string
	FilePath     string
	CameraSerial string
	CaptureTime  time.Time
	// EXIF is the opaque extractor payload; the pipeline reads serial and
	// event hints out of it and otherwise passes it through.
	EXIF map[string]any
	// Source is the originating table row, preserved for pass-through
	// columns when the linked table is written.
	Source tabular.Row
}

// IDFor derives the stable media identifier for a file path. Identical paths
// always produce identical IDs, across runs and machines.
func IDFor(filePath string) string {
	return uuid.NewSHA1(mediaNamespace, []byte(strings.TrimSpace(filePath))).String()
}
