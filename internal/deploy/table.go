package deploy

import (
	"camtrap/internal/tabular"
	"camtrap/internal/timeutil"
)

// tableColumns is the normalized deployment table header, in output order.
var tableColumns = []string{
	"deploymentID", "locationID", "locationName", "latitude", "longitude",
	"coordinateUncertainty", "deploymentStart", "deploymentEnd", "setupBy",
	"cameraID", "cameraModel", "cameraDelay", "cameraHeight", "cameraDepth",
	"cameraTilt", "cameraHeading", "detectionDistance", "timestampIssues",
	"baitUse", "featureType", "habitat", "deploymentGroups", "deploymentTags",
	"deploymentComments",
}

// Table renders the interval set as the normalized deployments table with
// ISO-8601 timestamps carrying explicit offsets.
func (s *Set) Table() *tabular.Table {
	out := tabular.New(tableColumns...)
	for _, iv := range s.intervals {
		row := tabular.Row{
			"deploymentID":    iv.DeploymentID,
			"locationID":      iv.LocationID,
			"locationName":    iv.LocationName,
			"latitude":        iv.Latitude,
			"longitude":       iv.Longitude,
			"deploymentStart": timeutil.FormatInstant(iv.Start),
			"deploymentEnd":   timeutil.FormatInstant(iv.End),
			"cameraID":        iv.CameraSerial,
			"cameraModel":     iv.CameraModel,
		}
		for key, value := range iv.Extra {
			row[key] = value
		}
		out.Append(row)
	}
	return out
}

// FromTable loads an interval set back from a normalized deployments table.
// Rows with missing identity or unparsable timestamps are reported and
// skipped so a hand-amended table cannot silently poison linking.
func FromTable(table *tabular.Table) (*Set, []tabular.RowError) {
	var intervals []Interval
	var rowErrors []tabular.RowError

	for i, row := range table.Rows {
		line := table.Line(i)

		serial := firstNonEmpty(row.Get("cameraID"), row.Get("deviceID"))
		if serial == "" {
			rowErrors = append(rowErrors, tabular.RowError{Line: line, Field: "cameraID", Message: "camera serial is required"})
			continue
		}
		id := row.Get("deploymentID")
		if id == "" {
			rowErrors = append(rowErrors, tabular.RowError{Line: line, Field: "deploymentID", Message: "deployment ID is required"})
			continue
		}
		start, err := timeutil.ParseInstant(row.Get("deploymentStart"))
		if err != nil {
			rowErrors = append(rowErrors, tabular.RowError{Line: line, Field: "deploymentStart", Message: err.Error()})
			continue
		}
		end, err := timeutil.ParseInstant(row.Get("deploymentEnd"))
		if err != nil {
			rowErrors = append(rowErrors, tabular.RowError{Line: line, Field: "deploymentEnd", Message: err.Error()})
			continue
		}
		if !start.Before(end) {
			rowErrors = append(rowErrors, tabular.RowError{Line: line, Message: "deployment start is not before end"})
			continue
		}

		intervals = append(intervals, Interval{
			DeploymentID: id,
			SiteID:       row.Get("locationID"),
			LocationID:   row.Get("locationID"),
			LocationName: row.Get("locationName"),
			CameraSerial: serial,
			CameraModel:  row.Get("cameraModel"),
			Latitude:     row.Get("latitude"),
			Longitude:    row.Get("longitude"),
			Start:        start,
			End:          end,
			Offset:       timeutil.OffsetOf(start),
		})
	}

	return newSet(intervals), rowErrors
}
