package deploy

import (
	"fmt"
	"strings"
	"time"

	"camtrap/internal/tabular"
	"camtrap/internal/timeutil"
)

// Options controls sheet parsing.
type Options struct {
	// DefaultOffset applies to rows that carry no offset of their own and
	// whose sheet header embeds no zone hint.
	DefaultOffset string
}

// passThrough maps optional sheet columns onto normalized output columns.
// Values travel opaque; only booleans are canonicalized separately.
var passThrough = []struct{ out, in string }{
	{"coordinateUncertainty", "coordinateUncertainty"},
	{"setupBy", "setUp"},
	{"cameraDelay", "cameraDelay"},
	{"cameraHeight", "cameraHeight"},
	{"cameraDepth", "cameraDepth"},
	{"cameraTilt", "cameraTilt"},
	{"cameraHeading", "cameraHeading"},
	{"detectionDistance", "detectionDistance"},
	{"featureType", "featureType"},
	{"habitat", "habitat"},
	{"deploymentGroups", "deploymentGroups"},
	{"deploymentTags", "deploymentTags"},
	{"deploymentComments", "comments"},
}

// Parse converts raw field-sheet rows into a deployment interval set.
// Unusable rows are reported individually; parsing never aborts on them.
func Parse(sheet *tabular.Table, opts Options) (*Set, []tabular.RowError) {
	endColumn, zoneHint := endTimeHeader(sheet.Columns)

	var intervals []Interval
	var rowErrors []tabular.RowError
	seen := make(map[string]Interval)
	byID := make(map[string]Interval)

	for i, row := range sheet.Rows {
		line := sheet.Line(i)
		fail := func(field, format string, args ...any) {
			rowErrors = append(rowErrors, tabular.RowError{Line: line, Field: field, Message: fmt.Sprintf(format, args...)})
		}

		serial := row.Get("cameraSerial")
		if serial == "" {
			fail("cameraSerial", "camera serial is required")
			continue
		}
		siteID := row.Get("siteID")

		offset, err := timeutil.NormalizeOffset(row.Get("offset"), zoneHint, opts.DefaultOffset)
		if err != nil {
			fail("offset", "%v", err)
			continue
		}
		loc, err := timeutil.LocationFor(offset)
		if err != nil {
			fail("offset", "%v", err)
			continue
		}

		startDate, err := parseSheetDate(row.Get("startLocal"))
		if err != nil {
			fail("startLocal", "%v", err)
			continue
		}
		endDate, err := parseSheetDate(row.Get("endLocal"))
		if err != nil {
			fail("endLocal", "%v", err)
			continue
		}
		startClock, hasStartClock, err := parseSheetTime(row.Get("StartTime"))
		if err != nil {
			fail("StartTime", "%v", err)
			continue
		}
		var endClock clock
		var hasEndClock bool
		if endColumn != "" {
			endClock, hasEndClock, err = parseSheetTime(row.Get(endColumn))
			if err != nil {
				fail(endColumn, "%v", err)
				continue
			}
		}

		start := combineSheetTimestamp(startDate, startClock, hasStartClock, false, loc)
		end := combineSheetTimestamp(endDate, endClock, hasEndClock, true, loc)
		if !start.Before(end) {
			fail("", "deployment start %s is not before end %s",
				timeutil.FormatInstant(start), timeutil.FormatInstant(end))
			continue
		}

		interval := Interval{
			DeploymentID: deploymentID(siteID, serial, start),
			SiteID:       siteID,
			LocationID:   firstNonEmpty(row.Get("locationID"), siteID),
			LocationName: row.Get("locationName"),
			CameraSerial: serial,
			CameraModel:  NormalizeCameraModel(row.Get("cameraModel")),
			Latitude:     row.Get("latitude"),
			Longitude:    row.Get("longitude"),
			Start:        start,
			End:          end,
			Offset:       offset,
			Extra:        extraColumns(row),
		}

		key := serial + "|" + start.UTC().Format(time.RFC3339)
		if prior, dup := seen[key]; dup {
			if prior.End.Equal(end) {
				// Exact duplicate row; first occurrence already holds it.
				continue
			}
			fail("", "deployment %s redefines (serial %s, start %s) with a different end",
				interval.DeploymentID, serial, timeutil.FormatInstant(start))
			continue
		}
		// Deployment IDs carry only the start date, so a second deployment
		// of the same camera starting later the same day would collide.
		if prior, dup := byID[interval.DeploymentID]; dup {
			fail("", "deployment %s already starts %s; a camera supports one deployment start per day",
				interval.DeploymentID, timeutil.FormatInstant(prior.Start))
			continue
		}
		seen[key] = interval
		byID[interval.DeploymentID] = interval
		intervals = append(intervals, interval)
	}

	return newSet(intervals), rowErrors
}

func deploymentID(siteID, serial string, start time.Time) string {
	parts := make([]string, 0, 3)
	if siteID != "" {
		parts = append(parts, siteID)
	}
	parts = append(parts, serial, start.Format("20060102"))
	return strings.Join(parts, "_")
}

func extraColumns(row tabular.Row) map[string]string {
	extra := make(map[string]string, len(passThrough)+2)
	for _, mapping := range passThrough {
		extra[mapping.out] = row.Get(mapping.in)
	}
	extra["timestampIssues"] = NormalizeBool(row.Get("timestampIssues"))
	extra["baitUse"] = NormalizeBool(row.Get("baitUse"))
	return extra
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
