package deploy

import "strings"

// NormalizeCameraModel canonicalizes the free-text camera model field.
// Reconyx Hyperfire variants are the common case on our sheets and get a
// manufacturer prefix so downstream grouping works.
func NormalizeCameraModel(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		return ""
	}
	upper := strings.ToUpper(model)
	if strings.Contains(upper, "HF2") || strings.Contains(upper, "HYPERFIRE") {
		return "Reconyx-" + model
	}
	return model
}

// NormalizeBool canonicalizes yes/no style sheet values to "true", "false",
// or "" when unrecognized.
func NormalizeBool(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "t", "yes", "y", "1":
		return "true"
	case "false", "f", "no", "n", "0":
		return "false"
	default:
		return ""
	}
}
