package observation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"camtrap/internal/link"
	"camtrap/internal/tabular"
	"camtrap/internal/timeutil"
)

// observationNamespace seeds deterministic observation identifiers. Fixed
// forever: changing it would orphan every labeled dataset.
var observationNamespace = uuid.MustParse("c1c73261-2c6b-4f34-bf02-d1bb7cfc9dcd")

// DefaultType is the editable-field default before any labeling pass.
const DefaultType = "unclassified"

// Columns is the observation table header. Everything before
// observationLevel is immutable context; the reconciler never touches it.
var Columns = []string{
	"observationID", "deploymentID", "mediaID", "eventID", "eventStart", "eventEnd",
	"timestamp", "filePath",
	"observationLevel", "observationType",
	"scientificName", "count", "lifeStage", "sex", "behavior",
	"classificationMethod", "classifiedBy", "classificationTimestamp", "classificationProbability",
	"observationComments",
}

// TemplateColumns is the label-template header: just enough context to
// identify the row plus every hand-editable field.
var TemplateColumns = []string{
	"observationID", "mediaID", "filePath", "timestamp",
	"observationType", "scientificName", "count", "lifeStage", "sex", "behavior",
	"observationComments",
}

// Observation is one baseline observation row.
type Observation struct {
	ObservationID string
	DeploymentID  string
	MediaID       string
	EventID       string
	Timestamp     string
	FilePath      string
	LinkStatus    link.Status
}

// IDFor derives the stable observation identifier for a media ID.
func IDFor(mediaID string) string {
	return uuid.NewSHA1(observationNamespace, []byte(mediaID)).String()
}

// Options controls which linked media become observations.
type Options struct {
	// IncludeAll keeps unmatched and ambiguous media as flagged rows with an
	// empty deploymentID. The default keeps cleanly linked media only.
	IncludeAll bool
}

// Build derives one observation per included media record, in input order.
func Build(linked []link.Linked, opts Options) []Observation {
	out := make([]Observation, 0, len(linked))
	for _, item := range linked {
		if !opts.IncludeAll && item.Status != link.StatusLinked {
			continue
		}
		deploymentID := item.DeploymentID
		if item.Status != link.StatusLinked {
			// Visible flag, no silent deployment claim.
			deploymentID = ""
		}
		out = append(out, Observation{
			ObservationID: IDFor(item.MediaID),
			DeploymentID:  deploymentID,
			MediaID:       item.MediaID,
			EventID:       eventID(deploymentID, item.EXIF),
			Timestamp:     timeutil.FormatInstant(item.CaptureTime),
			FilePath:      item.FilePath,
			LinkStatus:    item.Status,
		})
	}
	return out
}

// Table renders observations with every editable field at its default.
// includeStatus adds the linkStatus audit column (used with Options.IncludeAll).
func Table(observations []Observation, includeStatus bool) *tabular.Table {
	out := tabular.New(Columns...)
	if includeStatus {
		out.EnsureColumns("linkStatus")
	}
	for _, obs := range observations {
		row := tabular.Row{
			"observationID":    obs.ObservationID,
			"deploymentID":     obs.DeploymentID,
			"mediaID":          obs.MediaID,
			"eventID":          obs.EventID,
			"eventStart":       obs.Timestamp,
			"eventEnd":         obs.Timestamp,
			"timestamp":        obs.Timestamp,
			"filePath":         obs.FilePath,
			"observationLevel": "media",
			"observationType":  DefaultType,
		}
		if includeStatus {
			row.Set("linkStatus", string(obs.LinkStatus))
		}
		out.Append(row)
	}
	return out
}

// Template renders the label-template view of an observation table. It is a
// derived, disposable artifact; edits flow back through the reconciler.
func Template(observations *tabular.Table) *tabular.Table {
	out := tabular.New(TemplateColumns...)
	for _, row := range observations.Rows {
		tmpl := make(tabular.Row, len(TemplateColumns))
		for _, column := range TemplateColumns {
			tmpl[column] = row.Get(column)
		}
		out.Append(tmpl)
	}
	return out
}

// eventID derives a stable within-deployment event identifier from Reconyx
// EXIF fields: EventNumber when present, else the ordinal in a
// "Sequence: 1 of 3" burst. Empty when neither applies.
func eventID(deploymentID string, exif map[string]any) string {
	if deploymentID == "" || exif == nil {
		return ""
	}
	if v, ok := exif["EventNumber"]; ok {
		if n, ok := asOrdinal(v); ok {
			return fmt.Sprintf("%s_ev%s", deploymentID, n)
		}
	}
	if seq, ok := exif["Sequence"].(string); ok {
		if idx := strings.Index(seq, "of"); idx > 0 {
			first := strings.TrimSpace(seq[:idx])
			if _, ok := asOrdinal(first); ok {
				return fmt.Sprintf("%s_ev%s", deploymentID, first)
			}
		}
	}
	return ""
}

func asOrdinal(v any) (string, bool) {
	switch n := v.(type) {
	case float64:
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n)), true
		}
		return "", false
	case int:
		return fmt.Sprintf("%d", n), true
	case string:
		trimmed := strings.TrimSpace(n)
		if trimmed == "" {
			return "", false
		}
		for _, r := range trimmed {
			if r < '0' || r > '9' {
				return "", false
			}
		}
		return trimmed, true
	default:
		return "", false
	}
}
