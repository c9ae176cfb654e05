// Package reconcile merges externally-edited label tables back into the
// authoritative observation table.
//
// The merge is keyed by observation identity, never row position. Context
// columns (mediaID, filePath, timestamp) are verified before any edit
// applies; a mismatch is a conflict and the row is skipped, never
// guess-merged. Editable fields validate individually against their domains
// with partial-row granularity: an invalid field is reported and skipped
// while valid fields in the same row still apply. Blank fields leave stored
// values untouched, so partial annotation passes compose.
//
// Merging is additive and idempotent; applying the same edit table twice
// equals applying it once. Every skipped row or field lands in the merge
// report — no silent data loss.
package reconcile
