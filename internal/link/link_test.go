package link_test

import (
	"strings"
	"testing"
	"time"

	"camtrap/internal/deploy"
	"camtrap/internal/link"
	"camtrap/internal/media"
	"camtrap/internal/tabular"
)

func deployments(t *testing.T, rows ...string) *deploy.Set {
	t.Helper()
	csv := "siteID,cameraSerial,startLocal,endLocal,StartTime,EndTime\n" + strings.Join(rows, "\n")
	table, err := tabular.Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	set, rowErrors := deploy.Parse(table, deploy.Options{DefaultOffset: "-04:00"})
	if len(rowErrors) != 0 {
		t.Fatalf("sheet errors: %v", rowErrors)
	}
	return set
}

func record(serial, ts string) media.Record {
	capture, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return media.Record{
		MediaID:      media.IDFor("images/" + serial + "_" + ts + ".jpg"),
		FilePath:     "images/" + serial + "_" + ts + ".jpg",
		CameraSerial: serial,
		CaptureTime:  capture,
		Source:       tabular.Row{},
	}
}

func TestLinkSingleCandidate(t *testing.T) {
	set := deployments(t, "S01,A1,06/01/2023,06/15/2023,00:00:00,00:00:00")
	linked, summary := link.Link(set, []media.Record{record("A1", "2023-06-10T08:00:00-04:00")})

	if summary.Linked != 1 || summary.Total != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if linked[0].Status != link.StatusLinked {
		t.Fatalf("expected linked, got %s", linked[0].Status)
	}
	if linked[0].DeploymentID != "S01_A1_20230601" {
		t.Fatalf("unexpected deployment: %q", linked[0].DeploymentID)
	}
}

func TestLinkUnknownSerialIsUnmatched(t *testing.T) {
	set := deployments(t, "S01,A1,06/01/2023,06/15/2023,00:00:00,00:00:00")
	linked, summary := link.Link(set, []media.Record{record("ZZ", "2023-06-10T08:00:00-04:00")})
	if linked[0].Status != link.StatusUnmatched || linked[0].DeploymentID != "" {
		t.Fatalf("unexpected result: %+v", linked[0])
	}
	if summary.Unmatched != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestLinkOutsideWindowIsUnmatched(t *testing.T) {
	set := deployments(t, "S01,A1,06/01/2023,06/15/2023,00:00:00,00:00:00")
	linked, _ := link.Link(set, []media.Record{record("A1", "2023-07-01T08:00:00-04:00")})
	if linked[0].Status != link.StatusUnmatched {
		t.Fatalf("expected unmatched, got %s", linked[0].Status)
	}
}

func TestLinkOverlapIsAmbiguousWithLatestStartTieBreak(t *testing.T) {
	set := deployments(t,
		"S01,A1,06/01/2023,06/15/2023,00:00:00,00:00:00",
		"S02,A1,06/08/2023,06/20/2023,00:00:00,00:00:00",
	)
	linked, summary := link.Link(set, []media.Record{record("A1", "2023-06-10T08:00:00-04:00")})

	if linked[0].Status != link.StatusAmbiguous {
		t.Fatalf("expected ambiguous, got %s", linked[0].Status)
	}
	if linked[0].DeploymentID != "S02_A1_20230608" {
		t.Fatalf("tie-break should pick the later start: %q", linked[0].DeploymentID)
	}
	if linked[0].Candidates != 2 {
		t.Fatalf("candidate count should survive: %d", linked[0].Candidates)
	}
	if summary.Ambiguous != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestLinkEndBoundaryBelongsToNextInterval(t *testing.T) {
	set := deployments(t,
		"S01,A1,06/01/2023,06/15/2023,00:00:00,00:00:00",
		"S02,A1,06/15/2023,06/30/2023,00:00:00,00:00:00",
	)
	linked, _ := link.Link(set, []media.Record{record("A1", "2023-06-15T00:00:00-04:00")})

	if linked[0].Status != link.StatusLinked {
		t.Fatalf("boundary capture should link exactly once: %+v", linked[0])
	}
	if linked[0].DeploymentID != "S02_A1_20230615" {
		t.Fatalf("boundary belongs to the next interval: %q", linked[0].DeploymentID)
	}
}

func TestLinkIsIdempotent(t *testing.T) {
	set := deployments(t,
		"S01,A1,06/01/2023,06/15/2023,00:00:00,00:00:00",
		"S02,A1,06/08/2023,06/20/2023,00:00:00,00:00:00",
	)
	records := []media.Record{
		record("A1", "2023-06-10T08:00:00-04:00"),
		record("A1", "2023-06-16T08:00:00-04:00"),
		record("B9", "2023-06-10T08:00:00-04:00"),
	}

	first, _ := link.Link(set, records)
	second, _ := link.Link(set, records)
	for i := range first {
		if first[i].Status != second[i].Status || first[i].DeploymentID != second[i].DeploymentID {
			t.Fatalf("run %d diverged: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestTablePreservesOrderAndSourceColumns(t *testing.T) {
	source, err := tabular.Read(strings.NewReader(strings.Join([]string{
		"filePath,timestamp,exifData,fileMediatype",
		`images/a.jpg,2023-06-10T08:00:00-04:00,"{""SerialNumber"":""A1""}",image/jpeg`,
		`images/b.jpg,2023-06-16T08:00:00-04:00,"{""SerialNumber"":""A1""}",image/jpeg`,
	}, "\n")))
	if err != nil {
		t.Fatalf("read media: %v", err)
	}
	records, rowErrors := media.FromTable(source, nil)
	if len(rowErrors) != 0 {
		t.Fatalf("media errors: %v", rowErrors)
	}

	set := deployments(t, "S01,A1,06/01/2023,06/15/2023,00:00:00,00:00:00")
	linked, _ := link.Link(set, records)
	out := link.Table(source, linked)

	if len(out.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out.Rows))
	}
	if got := out.Rows[0].Get("linkStatus"); got != "linked" {
		t.Fatalf("row 0 should be linked: %q", got)
	}
	if got := out.Rows[1].Get("linkStatus"); got != "unmatched" {
		t.Fatalf("row 1 outside window should be unmatched: %q", got)
	}
	if got := out.Rows[0].Get("fileMediatype"); got != "image/jpeg" {
		t.Fatalf("source column lost: %q", got)
	}
	if out.Rows[0].Get("mediaID") == "" {
		t.Fatal("mediaID column should be filled")
	}
}
