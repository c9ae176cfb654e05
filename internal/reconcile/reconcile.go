package reconcile

import (
	"strings"
	"time"

	"camtrap/internal/tabular"
)

const (
	methodHuman   = "human"
	methodMachine = "machine learning"
)

// Options controls a label merge.
type Options struct {
	// MediaIDFallback matches edit rows by mediaID when their observationID
	// no longer resolves, instead of treating them as orphans.
	MediaIDFallback bool
	// EditedBy attributes applied human changes in classifiedBy.
	EditedBy string
	// Now supplies the classification timestamp; defaults to time.Now.
	Now func() time.Time
}

// Merge applies an edited label table onto a copy of the current observation
// table and returns the reconciled copy plus the merge report. The inputs
// are never mutated; callers decide whether the result replaces the
// authoritative table or becomes a reviewable artifact.
func Merge(current, edits *tabular.Table, opts Options) (*tabular.Table, *Report) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	editedBy := opts.EditedBy
	if editedBy == "" {
		editedBy = methodHuman
	}

	result := current.Clone()
	result.EnsureColumns(EditableFields...)
	result.EnsureColumns("classificationMethod", "classifiedBy", "classificationTimestamp")

	byObservation := make(map[string]tabular.Row, len(result.Rows))
	byMedia := make(map[string]tabular.Row, len(result.Rows))
	for _, row := range result.Rows {
		if id := row.Get("observationID"); id != "" {
			byObservation[id] = row
		}
		if id := row.Get("mediaID"); id != "" {
			byMedia[id] = row
		}
	}

	editable := presentFields(edits, EditableFields)
	report := &Report{}

	for i, edit := range edits.Rows {
		line := edits.Line(i)

		target, key, viaFallback := matchTarget(edit, byObservation, byMedia, opts.MediaIDFallback)
		if target == nil {
			report.Orphans = append(report.Orphans, Orphan{Line: line, Key: key})
			continue
		}

		if conflict, ok := contextConflict(line, edit, target, viaFallback); ok {
			report.Conflicts = append(report.Conflicts, conflict)
			continue
		}

		changed := false
		for _, field := range editable {
			proposed := edit.Get(field)
			if proposed == "" {
				// Blank means "no opinion", never "clear".
				continue
			}
			stored := target.Get(field)

			if field == "observationType" {
				v := strings.ToLower(proposed)
				cur := strings.ToLower(stored)
				// A template default that never got edited is not a change.
				if v == "unclassified" && (cur == "" || cur == "unclassified") {
					continue
				}
				if v == cur {
					continue
				}
			} else if proposed == stored {
				continue
			}

			canonical, err := validateField(field, proposed)
			if err != nil {
				report.FieldErrors = append(report.FieldErrors, FieldError{
					Line:          line,
					ObservationID: target.Get("observationID"),
					Field:         field,
					Value:         proposed,
					Message:       err.Error(),
				})
				continue
			}
			if canonical == stored {
				continue
			}

			report.Applied = append(report.Applied, Change{
				ObservationID: target.Get("observationID"),
				Field:         field,
				From:          stored,
				To:            canonical,
			})
			target.Set(field, canonical)
			changed = true
		}

		if changed {
			report.RowsChanged++
			stampHuman(target, editedBy, now)
		}
	}

	return result, report
}

// matchTarget resolves an edit row to a stored observation, primarily by
// observationID and optionally by mediaID when the numbering has drifted.
func matchTarget(edit tabular.Row, byObservation, byMedia map[string]tabular.Row, fallback bool) (tabular.Row, string, bool) {
	if id := edit.Get("observationID"); id != "" {
		if row, ok := byObservation[id]; ok {
			return row, id, false
		}
		if fallback {
			if mediaID := edit.Get("mediaID"); mediaID != "" {
				if row, ok := byMedia[mediaID]; ok {
					return row, mediaID, true
				}
			}
		}
		return nil, id, false
	}
	if mediaID := edit.Get("mediaID"); mediaID != "" {
		if row, ok := byMedia[mediaID]; ok {
			return row, mediaID, true
		}
		return nil, mediaID, false
	}
	return nil, "", false
}

// contextConflict verifies the immutable context columns the edit row still
// carries. Matching by media fallback skips the mediaID comparison, which
// the key itself already asserted.
func contextConflict(line int, edit, target tabular.Row, viaFallback bool) (Conflict, bool) {
	for _, field := range ContextFields {
		if field == "mediaID" && viaFallback {
			continue
		}
		expected := target.Get(field)
		actual := edit.Get(field)
		if actual == "" || expected == "" {
			continue
		}
		if actual != expected {
			return Conflict{
				Line:          line,
				ObservationID: target.Get("observationID"),
				Field:         field,
				Expected:      expected,
				Actual:        actual,
			}, true
		}
	}
	return Conflict{}, false
}

// stampHuman records that a human authored the row's current labels, unless
// a human already had.
func stampHuman(row tabular.Row, editedBy string, now func() time.Time) {
	method := strings.ToLower(row.Get("classificationMethod"))
	if method != "" && method != methodMachine {
		return
	}
	row.Set("classificationMethod", methodHuman)
	if row.Get("classifiedBy") == "" || method == methodMachine {
		row.Set("classifiedBy", editedBy)
	}
	row.Set("classificationTimestamp", now().UTC().Format(time.RFC3339))
}

func presentFields(table *tabular.Table, fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		if table.HasColumn(field) {
			out = append(out, field)
		}
	}
	return out
}
