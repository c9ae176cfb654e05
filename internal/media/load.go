package media

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"camtrap/internal/tabular"
	"camtrap/internal/timeutil"
)

// MetadataIndex maps absolute file paths to extractor EXIF payloads. It is
// the fallback source for camera serials when the media table's embedded
// exifData column is empty.
type MetadataIndex map[string]map[string]any

type metadataEntry struct {
	File     string         `json:"file"`
	Metadata map[string]any `json:"metadata"`
}

// LoadMetadataIndex reads the optional media_metadata.json side channel.
// A missing file yields an empty index, not an error.
func LoadMetadataIndex(path string) (MetadataIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return MetadataIndex{}, nil
		}
		return nil, err
	}
	var entries []metadataEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	index := make(MetadataIndex, len(entries))
	for _, entry := range entries {
		abs, err := filepath.Abs(entry.File)
		if err != nil {
			abs = entry.File
		}
		index[abs] = entry.Metadata
	}
	return index, nil
}

// FromTable converts extractor output rows into typed records. Rows without
// a usable path, timestamp, or serial are reported and skipped.
func FromTable(table *tabular.Table, index MetadataIndex) ([]Record, []tabular.RowError) {
	var records []Record
	var rowErrors []tabular.RowError

	for i, row := range table.Rows {
		line := table.Line(i)

		path := row.Get("filePath")
		if path == "" {
			rowErrors = append(rowErrors, tabular.RowError{Line: line, Field: "filePath", Message: "file path is required"})
			continue
		}

		captureTime, err := timeutil.ParseInstant(row.Get("timestamp"))
		if err != nil {
			rowErrors = append(rowErrors, tabular.RowError{Line: line, Field: "timestamp", Message: err.Error()})
			continue
		}

		exif := exifPayload(row, path, index)
		serial := serialFrom(exif)
		if serial == "" {
			rowErrors = append(rowErrors, tabular.RowError{Line: line, Field: "exifData", Message: "no camera serial in EXIF payload"})
			continue
		}

		id := row.Get("mediaID")
		if id == "" {
			id = IDFor(path)
		}

		records = append(records, Record{
			MediaID:      id,
			FilePath:     path,
			CameraSerial: serial,
			CaptureTime:  captureTime,
			EXIF:         exif,
			Source:       row,
		})
	}

	return records, rowErrors
}

func exifPayload(row tabular.Row, path string, index MetadataIndex) map[string]any {
	if raw := row.Get("exifData"); raw != "" {
		var exif map[string]any
		if err := json.Unmarshal([]byte(raw), &exif); err == nil {
			return exif
		}
	}
	if index != nil {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if exif, ok := index[abs]; ok {
			return exif
		}
	}
	return nil
}

func serialFrom(exif map[string]any) string {
	for _, key := range []string{"SerialNumber", "BodySerialNumber"} {
		if v, ok := exif[key]; ok {
			if s := fmt.Sprintf("%v", v); s != "" && s != "<nil>" {
				return s
			}
		}
	}
	return ""
}
