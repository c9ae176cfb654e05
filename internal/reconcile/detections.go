package reconcile

import (
	"strconv"
	"strings"
	"time"

	"camtrap/internal/tabular"
)

// MachineReport enumerates what a detections pass did and skipped.
type MachineReport struct {
	Applied              []Change
	SkippedLowConfidence int
	SkippedHuman         int
	NoDetection          int
}

// DetectionOptions controls the machine-label fill.
type DetectionOptions struct {
	// Threshold is the minimum classificationProbability that may apply.
	Threshold float64
	// ClassifiedBy names the detector when the detections table does not.
	ClassifiedBy string
	// Now supplies the classification timestamp; defaults to time.Now.
	Now func() time.Time
}

// ApplyDetections fills still-unclassified observations from an externally
// produced detections table keyed by mediaID. Human labels are never
// overridden: any row a human has touched is skipped outright, and machine
// values only replace blanks or prior machine values. Classification itself
// happens outside this pipeline; this merges its output.
func ApplyDetections(current, detections *tabular.Table, opts DetectionOptions) (*tabular.Table, *MachineReport) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	classifiedBy := opts.ClassifiedBy
	if classifiedBy == "" {
		classifiedBy = "machine"
	}

	result := current.Clone()
	result.EnsureColumns("observationType", "scientificName",
		"classificationMethod", "classifiedBy", "classificationTimestamp", "classificationProbability")

	best := bestByMedia(detections)
	report := &MachineReport{}

	for _, row := range result.Rows {
		mediaID := row.Get("mediaID")
		if mediaID == "" {
			continue
		}
		detection, ok := best[mediaID]
		if !ok {
			report.NoDetection++
			continue
		}

		method := strings.ToLower(row.Get("classificationMethod"))
		if method != "" && method != methodMachine {
			report.SkippedHuman++
			continue
		}
		if detection.probability < opts.Threshold {
			report.SkippedLowConfidence++
			continue
		}

		rowChanged := false
		apply := func(field, value string) {
			stored := row.Get(field)
			occupied := stored != "" && stored != "unclassified"
			if occupied && method != methodMachine {
				return
			}
			if stored == value {
				return
			}
			report.Applied = append(report.Applied, Change{
				ObservationID: row.Get("observationID"),
				Field:         field,
				From:          stored,
				To:            value,
			})
			row.Set(field, value)
			rowChanged = true
		}

		observationType := strings.ToLower(detection.row.Get("observationType"))
		if _, valid := observationTypeEnum[observationType]; !valid || observationType == "" {
			observationType = "unknown"
		}
		apply("observationType", observationType)
		if name := detection.row.Get("scientificName"); name != "" {
			apply("scientificName", normalizeScientificName(name))
		}
		if rowChanged {
			row.Set("classificationMethod", methodMachine)
			row.Set("classifiedBy", firstNonEmpty(detection.row.Get("classifiedBy"), classifiedBy))
			row.Set("classificationTimestamp", now().UTC().Format(time.RFC3339))
			row.Set("classificationProbability", detection.row.Get("classificationProbability"))
		}
	}

	return result, report
}

type detection struct {
	row         tabular.Row
	probability float64
}

// bestByMedia keeps the highest-probability detection per media item.
func bestByMedia(detections *tabular.Table) map[string]detection {
	best := make(map[string]detection)
	for _, row := range detections.Rows {
		mediaID := row.Get("mediaID")
		if mediaID == "" {
			continue
		}
		probability, _ := strconv.ParseFloat(row.Get("classificationProbability"), 64)
		if prior, ok := best[mediaID]; !ok || probability > prior.probability {
			best[mediaID] = detection{row: row, probability: probability}
		}
	}
	return best
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
