package tabular

import "fmt"

// RowError describes a rejected input row. Row errors are report values, not
// Go errors: the surrounding run continues without the row and the caller
// surfaces the collected list.
type RowError struct {
	Line    int
	Field   string
	Message string
}

func (e RowError) String() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("row %d: %s: %s", e.Line, e.Field, e.Message)
}
