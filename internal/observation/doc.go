// Package observation derives the baseline observation table from linked
// media and owns observation identity.
//
// Each included media record becomes exactly one observation with every
// editable field at its unclassified default. Observation IDs are SHA-1
// namespace UUIDs of the media ID, so rebuilding over unchanged input
// reproduces identical IDs and never reassigns an existing media item.
//
// The package also emits the label-template view: the same rows restricted
// to immutable context columns plus the hand-editable fields.
package observation
