package deploy_test

import (
	"strings"
	"testing"
	"time"

	"camtrap/internal/deploy"
	"camtrap/internal/tabular"
)

func sheet(t *testing.T, csv string) *tabular.Table {
	t.Helper()
	table, err := tabular.Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	return table
}

func TestParseNormalizesTimestamps(t *testing.T) {
	table := sheet(t, strings.Join([]string{
		"siteID,cameraSerial,cameraModel,latitude,longitude,startLocal,endLocal,StartTime,EndTime EST",
		"S01,A1,HF2X,35.1,-82.2,06/01/2023,06/15/2023,8:00 AM,",
	}, "\n"))

	set, rowErrors := deploy.Parse(table, deploy.Options{DefaultOffset: "Z"})
	if len(rowErrors) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrors)
	}
	if set.Len() != 1 {
		t.Fatalf("expected 1 interval, got %d", set.Len())
	}

	iv := set.Intervals()[0]
	if iv.DeploymentID != "S01_A1_20230601" {
		t.Fatalf("unexpected deployment ID: %q", iv.DeploymentID)
	}
	if iv.Offset != "-05:00" {
		t.Fatalf("zone hint from header should apply: %q", iv.Offset)
	}
	if got := iv.Start.Format(time.RFC3339); got != "2023-06-01T08:00:00-05:00" {
		t.Fatalf("unexpected start: %q", got)
	}
	// Missing end clock defaults to end of day.
	if got := iv.End.Format(time.RFC3339); got != "2023-06-15T23:59:59-05:00" {
		t.Fatalf("unexpected end: %q", got)
	}
	if iv.CameraModel != "Reconyx-HF2X" {
		t.Fatalf("camera model not normalized: %q", iv.CameraModel)
	}
}

func TestParseRejectsInvertedInterval(t *testing.T) {
	table := sheet(t, strings.Join([]string{
		"siteID,cameraSerial,startLocal,endLocal,StartTime,EndTime",
		"S01,A1,06/15/2023,06/01/2023,,",
		"S02,B2,06/01/2023,06/15/2023,,",
	}, "\n"))

	set, rowErrors := deploy.Parse(table, deploy.Options{DefaultOffset: "Z"})
	if len(rowErrors) != 1 {
		t.Fatalf("expected 1 row error, got %v", rowErrors)
	}
	if rowErrors[0].Line != 2 {
		t.Fatalf("error should name line 2: %v", rowErrors[0])
	}
	if set.Len() != 1 {
		t.Fatalf("good row should survive: %d", set.Len())
	}
}

func TestParseRejectsUnparsableTimestamp(t *testing.T) {
	table := sheet(t, strings.Join([]string{
		"siteID,cameraSerial,startLocal,endLocal,StartTime,EndTime",
		"S01,A1,sometime in June,06/15/2023,,",
	}, "\n"))

	set, rowErrors := deploy.Parse(table, deploy.Options{DefaultOffset: "Z"})
	if set.Len() != 0 || len(rowErrors) != 1 {
		t.Fatalf("expected rejection: %d intervals, %v", set.Len(), rowErrors)
	}
	if rowErrors[0].Field != "startLocal" {
		t.Fatalf("error should name the field: %v", rowErrors[0])
	}
}

func TestParseReportsPhysicalLineAcrossBlankRows(t *testing.T) {
	table := sheet(t, strings.Join([]string{
		"siteID,cameraSerial,startLocal,endLocal,StartTime,EndTime",
		"S01,A1,06/01/2023,06/15/2023,,",
		",,,,,",
		"S02,,06/01/2023,06/15/2023,,",
	}, "\n"))

	_, rowErrors := deploy.Parse(table, deploy.Options{DefaultOffset: "Z"})
	if len(rowErrors) != 1 {
		t.Fatalf("expected one rejection: %v", rowErrors)
	}
	if rowErrors[0].Line != 4 {
		t.Fatalf("error should carry the sheet line, not the row index: %v", rowErrors[0])
	}
}

func TestParseDuplicateHandling(t *testing.T) {
	table := sheet(t, strings.Join([]string{
		"siteID,cameraSerial,startLocal,endLocal,StartTime,EndTime",
		"S01,A1,06/01/2023,06/15/2023,,",
		"S01,A1,06/01/2023,06/15/2023,,",
		"S01,A1,06/01/2023,06/20/2023,,",
	}, "\n"))

	set, rowErrors := deploy.Parse(table, deploy.Options{DefaultOffset: "Z"})
	if set.Len() != 1 {
		t.Fatalf("exact duplicate should dedupe: %d", set.Len())
	}
	if len(rowErrors) != 1 {
		t.Fatalf("conflicting redefinition must error: %v", rowErrors)
	}
	if !strings.Contains(rowErrors[0].Message, "different end") {
		t.Fatalf("unexpected message: %v", rowErrors[0])
	}
}

func TestParseRejectsSameDayRedeployment(t *testing.T) {
	table := sheet(t, strings.Join([]string{
		"siteID,cameraSerial,startLocal,endLocal,StartTime,EndTime",
		"S01,A1,06/01/2023,06/05/2023,8:00 AM,9:00 AM",
		"S01,A1,06/01/2023,06/15/2023,2:00 PM,",
	}, "\n"))

	set, rowErrors := deploy.Parse(table, deploy.Options{DefaultOffset: "EST"})
	if set.Len() != 1 {
		t.Fatalf("same-day restart must not yield a second interval: %d", set.Len())
	}
	if len(rowErrors) != 1 {
		t.Fatalf("same-day restart must error: %v", rowErrors)
	}
	if rowErrors[0].Line != 3 {
		t.Fatalf("error should name the second row: %v", rowErrors[0])
	}
	if !strings.Contains(rowErrors[0].Message, "one deployment start per day") {
		t.Fatalf("unexpected message: %v", rowErrors[0])
	}
	if got := set.Intervals()[0].Start.Hour(); got != 8 {
		t.Fatalf("first occurrence should win: start hour %d", got)
	}
}

func TestParseStableAcrossRuns(t *testing.T) {
	csv := strings.Join([]string{
		"siteID,cameraSerial,startLocal,endLocal,StartTime,EndTime",
		"S01,A1,06/01/2023,06/15/2023,,",
	}, "\n")
	first, _ := deploy.Parse(sheet(t, csv), deploy.Options{DefaultOffset: "EST"})
	second, _ := deploy.Parse(sheet(t, csv), deploy.Options{DefaultOffset: "EST"})
	if first.Intervals()[0].DeploymentID != second.Intervals()[0].DeploymentID {
		t.Fatal("deployment IDs must be identical across runs")
	}
}

func TestTableRoundTrip(t *testing.T) {
	table := sheet(t, strings.Join([]string{
		"siteID,cameraSerial,cameraModel,startLocal,endLocal,StartTime,EndTime,habitat",
		"S01,A1,HC600,06/01/2023,06/15/2023,12:00:00,09:30:00,forest",
	}, "\n"))
	set, _ := deploy.Parse(table, deploy.Options{DefaultOffset: "-04:00"})

	out := set.Table()
	if got := out.Rows[0].Get("deploymentStart"); got != "2023-06-01T12:00:00-04:00" {
		t.Fatalf("unexpected serialized start: %q", got)
	}
	if got := out.Rows[0].Get("habitat"); got != "forest" {
		t.Fatalf("pass-through column lost: %q", got)
	}

	back, rowErrors := deploy.FromTable(out)
	if len(rowErrors) != 0 {
		t.Fatalf("round trip errors: %v", rowErrors)
	}
	if back.Len() != 1 {
		t.Fatalf("expected 1 interval, got %d", back.Len())
	}
	iv := back.Intervals()[0]
	if !iv.Start.Equal(set.Intervals()[0].Start) || !iv.End.Equal(set.Intervals()[0].End) {
		t.Fatal("window changed across round trip")
	}
	if len(back.BySerial("A1")) != 1 {
		t.Fatal("serial index missing interval")
	}
}

func TestContainsIsHalfOpen(t *testing.T) {
	table := sheet(t, strings.Join([]string{
		"siteID,cameraSerial,startLocal,endLocal,StartTime,EndTime",
		"S01,A1,06/01/2023,06/15/2023,00:00:00,00:00:00",
	}, "\n"))
	set, _ := deploy.Parse(table, deploy.Options{DefaultOffset: "Z"})
	iv := set.Intervals()[0]

	if !iv.Contains(iv.Start) {
		t.Fatal("start instant belongs to the interval")
	}
	if iv.Contains(iv.End) {
		t.Fatal("end instant must not belong to the interval")
	}
}

func TestNormalizeBool(t *testing.T) {
	cases := map[string]string{
		"Yes": "true", "n": "false", "1": "true", "0": "false", "maybe": "", "": "",
	}
	for in, want := range cases {
		if got := deploy.NormalizeBool(in); got != want {
			t.Fatalf("NormalizeBool(%q) = %q, want %q", in, got, want)
		}
	}
}
