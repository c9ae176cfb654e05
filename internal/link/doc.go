// Package link associates media records with the deployment interval that
// was active for their camera at capture time.
//
// Candidate intervals share the record's camera serial and contain the
// capture instant in their half-open [start, end) window. Zero candidates
// leaves the record unmatched; exactly one links it; two or more mark it
// ambiguous. Ambiguous records still receive a deterministic tie-break — the
// latest-starting candidate — but the flag survives so auditors can recover
// every ambiguous case from the output rather than from a log.
//
// Linking never mutates its inputs and is idempotent: running it twice over
// identical input produces identical output.
package link
