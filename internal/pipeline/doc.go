// Package pipeline orchestrates the datapackage stages. Each stage reads its
// CSV inputs, produces its artifact, and reports an outcome; the runner wraps
// stages with the pipeline lock, run-scoped logging, and ledger bookkeeping
// so that `camtrap run` and the individual subcommands behave identically.
package pipeline
