package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// EditableFields are the observation columns humans may change, in table
// order. Everything else in the observation table is machine-authoritative.
var EditableFields = []string{
	"observationType", "scientificName", "count", "lifeStage", "sex",
	"behavior", "observationComments",
}

// ContextFields identify a row's provenance and are never mutated by a
// merge; they are compared instead.
var ContextFields = []string{"mediaID", "filePath", "timestamp"}

var observationTypeEnum = map[string]struct{}{
	"animal": {}, "human": {}, "vehicle": {}, "blank": {}, "unknown": {}, "unclassified": {},
}

var lifeStageEnum = map[string]struct{}{
	"adult": {}, "subadult": {}, "juvenile": {},
}

var sexEnum = map[string]struct{}{
	"female": {}, "male": {},
}

var genusCaser = cases.Title(language.Und)

// validateField checks one proposed value against its field domain and
// returns the canonical form to store.
func validateField(field, value string) (string, error) {
	switch field {
	case "observationType":
		v := strings.ToLower(value)
		if _, ok := observationTypeEnum[v]; !ok {
			return "", fmt.Errorf("invalid observationType %q", value)
		}
		return v, nil
	case "lifeStage":
		v := strings.ToLower(value)
		if _, ok := lifeStageEnum[v]; !ok {
			return "", fmt.Errorf("invalid lifeStage %q", value)
		}
		return v, nil
	case "sex":
		v := strings.ToLower(value)
		if _, ok := sexEnum[v]; !ok {
			return "", fmt.Errorf("invalid sex %q", value)
		}
		return v, nil
	case "count":
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", fmt.Errorf("invalid count %q: not an integer", value)
		}
		if n < 1 {
			return "", fmt.Errorf("invalid count %d: must be >= 1", n)
		}
		return strconv.Itoa(n), nil
	case "scientificName":
		return normalizeScientificName(value), nil
	case "behavior", "observationComments":
		return value, nil
	default:
		return "", fmt.Errorf("field %q is not editable", field)
	}
}

// normalizeScientificName canonicalizes Latin binomial casing: genus
// capitalized, epithets lowered. Free text that is not a binomial passes
// through with only whitespace collapsed.
func normalizeScientificName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	fields[0] = genusCaser.String(strings.ToLower(fields[0]))
	for i := 1; i < len(fields); i++ {
		fields[i] = strings.ToLower(fields[i])
	}
	return strings.Join(fields, " ")
}
