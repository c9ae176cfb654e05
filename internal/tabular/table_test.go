package tabular_test

import (
	"path/filepath"
	"strings"
	"testing"

	"camtrap/internal/tabular"
)

func TestReadSkipsBlankLinesAndTrimsBOM(t *testing.T) {
	input := "\uFEFFsiteID,cameraSerial\nS01,A1\n,\nS02,B2\n"
	table, err := tabular.Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := len(table.Rows); got != 2 {
		t.Fatalf("expected 2 rows, got %d", got)
	}
	if table.Columns[0] != "siteID" {
		t.Fatalf("BOM not stripped from first column: %q", table.Columns[0])
	}
	if got := table.Rows[1].Get("cameraSerial"); got != "B2" {
		t.Fatalf("unexpected value: %q", got)
	}
	// The blank line on line 3 is dropped, so S02 sits on physical line 4.
	if got := table.Line(0); got != 2 {
		t.Fatalf("expected line 2 for first row, got %d", got)
	}
	if got := table.Line(1); got != 4 {
		t.Fatalf("expected line 4 for row after blank, got %d", got)
	}
}

func TestReadMissingHeader(t *testing.T) {
	if _, err := tabular.Read(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestReadShortRecords(t *testing.T) {
	input := "a,b,c\n1,2\n"
	table, err := tabular.Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := table.Rows[0].Get("c"); got != "" {
		t.Fatalf("expected blank for missing field, got %q", got)
	}
}

func TestWriteRoundTripPreservesColumnOrder(t *testing.T) {
	table := tabular.New("z", "a", "m")
	table.Append(tabular.Row{"z": "1", "a": "2", "m": "3"})

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := table.WriteFile(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	back, err := tabular.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if back.Columns[0] != "z" || back.Columns[1] != "a" || back.Columns[2] != "m" {
		t.Fatalf("column order not preserved: %v", back.Columns)
	}
	if got := back.Rows[0].Get("m"); got != "3" {
		t.Fatalf("unexpected value: %q", got)
	}
}

func TestEnsureColumns(t *testing.T) {
	table := tabular.New("a")
	table.EnsureColumns("a", "b")
	if len(table.Columns) != 2 {
		t.Fatalf("unexpected columns: %v", table.Columns)
	}
}
