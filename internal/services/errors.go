package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStructural marks unrecoverable input problems that abort a stage:
	// a missing required file, an unreadable table, a wholly unusable schema.
	ErrStructural = errors.New("structural error")
	// ErrValidation marks out-of-domain values supplied by a caller.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks a missing record or artifact.
	ErrNotFound = errors.New("not found")
	// ErrPrecondition marks an operation attempted before its required
	// prior state exists, such as an in-place merge with no reviewed artifact.
	ErrPrecondition = errors.New("precondition not met")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrStructural
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsStructural reports whether an error carries the structural marker and
// should therefore abort the run instead of appearing in a row-level report.
func IsStructural(err error) bool {
	return errors.Is(err, ErrStructural)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
