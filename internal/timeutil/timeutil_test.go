package timeutil_test

import (
	"testing"
	"time"

	"camtrap/internal/timeutil"
)

func TestNormalizeOffsetPriority(t *testing.T) {
	got, err := timeutil.NormalizeOffset("EDT", "EST", "Z")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got != "-04:00" {
		t.Fatalf("row value should win: %q", got)
	}

	got, err = timeutil.NormalizeOffset("", "PST", "Z")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got != "-08:00" {
		t.Fatalf("hint should win over fallback: %q", got)
	}

	got, err = timeutil.NormalizeOffset("", "", "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got != "Z" {
		t.Fatalf("empty defaults to Z: %q", got)
	}
}

func TestNormalizeOffsetNumericPassThrough(t *testing.T) {
	got, err := timeutil.NormalizeOffset("+05:30", "", "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got != "+05:30" {
		t.Fatalf("unexpected offset: %q", got)
	}
}

func TestNormalizeOffsetRejectsGarbage(t *testing.T) {
	if _, err := timeutil.NormalizeOffset("local time", "", ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestLocationFor(t *testing.T) {
	loc, err := timeutil.LocationFor("-04:00")
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	instant := time.Date(2023, 6, 1, 0, 0, 0, 0, loc)
	if got := timeutil.FormatInstant(instant); got != "2023-06-01T00:00:00-04:00" {
		t.Fatalf("unexpected format: %q", got)
	}

	utc, err := timeutil.LocationFor("Z")
	if err != nil || utc != time.UTC {
		t.Fatalf("Z should map to UTC: %v %v", utc, err)
	}
}

func TestParseInstant(t *testing.T) {
	got, err := timeutil.ParseInstant("2023-06-10T08:00:00-04:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2023, 6, 10, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("wrong instant: %v", got)
	}

	if _, err := timeutil.ParseInstant("06/10/2023"); err == nil {
		t.Fatal("expected error for offset-less timestamp")
	}
	if _, err := timeutil.ParseInstant(""); err == nil {
		t.Fatal("expected error for empty timestamp")
	}
}
