// Package deploy turns the hand-filled deployment field sheet into typed,
// normalized deployment intervals.
//
// Each interval describes one camera placement: site, camera serial and
// model, coordinates, and a half-open [start, end) activity window as
// absolute instants retaining the sheet's UTC offset. Rows that cannot be
// parsed, describe an inverted interval, or conflict with an already-seen
// (serial, start) pair are rejected individually and surfaced as RowErrors;
// the rest of the sheet still parses.
//
// Interval identity is derived from site, serial, and start date, so re-runs
// over the same sheet reproduce identical deployment IDs.
package deploy
