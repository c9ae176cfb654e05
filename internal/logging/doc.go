// Package logging assembles the structured slog loggers used across the
// pipeline stages.
//
// It owns the console and JSON handlers, centralizes level parsing, and
// exposes context-aware helpers so stage code can automatically tag log lines
// with run identifiers and stage names. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
