package media_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"camtrap/internal/media"
	"camtrap/internal/tabular"
)

func mediaTable(t *testing.T, csv string) *tabular.Table {
	t.Helper()
	table, err := tabular.Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("read table: %v", err)
	}
	return table
}

func TestFromTableReadsEmbeddedEXIF(t *testing.T) {
	table := mediaTable(t, strings.Join([]string{
		"mediaID,filePath,timestamp,exifData",
		`m-1,images/IMG_0001.JPG,2023-06-10T08:00:00-04:00,"{""SerialNumber"":""A1"",""EventNumber"":7}"`,
	}, "\n"))

	records, rowErrors := media.FromTable(table, nil)
	if len(rowErrors) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrors)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.MediaID != "m-1" || r.CameraSerial != "A1" {
		t.Fatalf("unexpected record: %+v", r)
	}
	if r.EXIF["EventNumber"] != float64(7) {
		t.Fatalf("EXIF payload not preserved: %v", r.EXIF)
	}
}

func TestFromTableFallsBackToMetadataIndex(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "IMG_0002.JPG")
	metadataPath := filepath.Join(dir, "media_metadata.json")
	payload := `[{"file": "` + imgPath + `", "metadata": {"BodySerialNumber": "B2"}}]`
	if err := os.WriteFile(metadataPath, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	index, err := media.LoadMetadataIndex(metadataPath)
	if err != nil {
		t.Fatalf("load index: %v", err)
	}

	table := mediaTable(t, strings.Join([]string{
		"filePath,timestamp,exifData",
		imgPath + ",2023-06-10T08:00:00-04:00,",
	}, "\n"))
	records, rowErrors := media.FromTable(table, index)
	if len(rowErrors) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrors)
	}
	if records[0].CameraSerial != "B2" {
		t.Fatalf("fallback serial not applied: %+v", records[0])
	}
}

func TestFromTableDerivesStableMediaID(t *testing.T) {
	csv := strings.Join([]string{
		"filePath,timestamp,exifData",
		`images/IMG_0003.JPG,2023-06-10T08:00:00-04:00,"{""SerialNumber"":""C3""}"`,
	}, "\n")
	first, _ := media.FromTable(mediaTable(t, csv), nil)
	second, _ := media.FromTable(mediaTable(t, csv), nil)
	if first[0].MediaID == "" || first[0].MediaID != second[0].MediaID {
		t.Fatalf("media IDs must be stable: %q vs %q", first[0].MediaID, second[0].MediaID)
	}
	if first[0].MediaID == media.IDFor("images/IMG_0004.JPG") {
		t.Fatal("different paths must not collide")
	}
}

func TestFromTableReportsMissingSerialAndTimestamp(t *testing.T) {
	table := mediaTable(t, strings.Join([]string{
		"filePath,timestamp,exifData",
		"images/a.jpg,2023-06-10T08:00:00-04:00,",
		"images/b.jpg,not a time,\"{\"\"SerialNumber\"\":\"\"A1\"\"}\"",
	}, "\n"))
	records, rowErrors := media.FromTable(table, nil)
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
	if len(rowErrors) != 2 {
		t.Fatalf("expected 2 row errors, got %v", rowErrors)
	}
}

func TestLoadMetadataIndexMissingFile(t *testing.T) {
	index, err := media.LoadMetadataIndex(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing side channel should not error: %v", err)
	}
	if len(index) != 0 {
		t.Fatalf("expected empty index, got %v", index)
	}
}
