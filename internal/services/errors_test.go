package services_test

import (
	"context"
	"errors"
	"testing"

	"camtrap/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrStructural, "link", "read media", "open table", base)
	if !errors.Is(err, services.ErrStructural) {
		t.Fatalf("expected structural marker: %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause: %v", err)
	}
	if !services.IsStructural(err) {
		t.Fatal("IsStructural should report true")
	}
}

func TestWrapNilMarkerDefaultsToStructural(t *testing.T) {
	err := services.Wrap(nil, "merge", "", "", nil)
	if !errors.Is(err, services.ErrStructural) {
		t.Fatalf("expected structural fallback: %v", err)
	}
}

func TestWrapEmptyDetail(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "", "", "", nil)
	if err == nil || err.Error() == "" {
		t.Fatal("expected non-empty error")
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-42")
	ctx = services.WithStage(ctx, "reconcile")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-42" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "reconcile" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
}

func TestBlankStagePreservesContext(t *testing.T) {
	ctx := services.WithStage(context.Background(), "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
}
