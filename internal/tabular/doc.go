// Package tabular reads and writes the header-keyed CSV tables that every
// pipeline stage consumes and produces.
//
// A Table preserves column order and row order, and rows are addressed by
// column name rather than position so stages survive reordered or extended
// headers. Reads tolerate a UTF-8 BOM because field sheets frequently arrive
// from spreadsheet exports.
package tabular
