package reconcile

// Change is one applied field edit.
type Change struct {
	ObservationID string
	Field         string
	From          string
	To            string
}

// Conflict is an edit row whose context columns disagree with the stored
// observation. The row is skipped in full.
type Conflict struct {
	Line          int
	ObservationID string
	Field         string
	Expected      string
	Actual        string
}

// FieldError is a single out-of-domain field value. Only the field is
// skipped; valid fields in the same row still apply.
type FieldError struct {
	Line          int
	ObservationID string
	Field         string
	Value         string
	Message       string
}

// Orphan is an edit row with no matching observation under any enabled key.
type Orphan struct {
	Line int
	Key  string
}

// Report enumerates everything a merge did and declined to do, attributable
// to a row and field.
type Report struct {
	Applied     []Change
	Conflicts   []Conflict
	FieldErrors []FieldError
	Orphans     []Orphan
	// RowsChanged counts edit rows that produced at least one change.
	RowsChanged int
}

// Clean reports whether the merge had no conflicts, invalid fields, or
// orphan edits.
func (r *Report) Clean() bool {
	return len(r.Conflicts) == 0 && len(r.FieldErrors) == 0 && len(r.Orphans) == 0
}
