// Package runlog persists a ledger of pipeline runs in SQLite. Each stage
// invocation records what it ran, where it wrote, and how it ended, so later
// runs can check preconditions (an in-place merge requires a prior reviewed
// non-destructive one) and `camtrap runs` can show history.
package runlog
