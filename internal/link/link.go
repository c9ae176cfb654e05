package link

import (
	"camtrap/internal/deploy"
	"camtrap/internal/media"
	"camtrap/internal/tabular"
	"camtrap/internal/timeutil"
)

// Status is the linking outcome for one media record.
type Status string

const (
	// StatusLinked means exactly one deployment interval matched.
	StatusLinked Status = "linked"
	// StatusUnmatched means no interval matched the serial and instant.
	StatusUnmatched Status = "unmatched"
	// StatusAmbiguous means several intervals matched; the tie-break picked
	// one, but the record needs auditing.
	StatusAmbiguous Status = "ambiguous"
)

// Linked augments a media record with its association result.
type Linked struct {
	media.Record
	DeploymentID string
	Status       Status
	// Candidates is how many intervals contained the capture instant.
	Candidates int
}

// Summary counts outcomes for reporting.
type Summary struct {
	Total     int
	Linked    int
	Unmatched int
	Ambiguous int
}

// Link resolves every media record against the deployment set. Output order
// matches input order.
func Link(deployments *deploy.Set, records []media.Record) ([]Linked, Summary) {
	out := make([]Linked, 0, len(records))
	var summary Summary
	summary.Total = len(records)

	for _, record := range records {
		linked := resolve(deployments, record)
		switch linked.Status {
		case StatusLinked:
			summary.Linked++
		case StatusAmbiguous:
			summary.Ambiguous++
		default:
			summary.Unmatched++
		}
		out = append(out, linked)
	}
	return out, summary
}

func resolve(deployments *deploy.Set, record media.Record) Linked {
	var candidates []deploy.Interval
	for _, iv := range deployments.BySerial(record.CameraSerial) {
		if iv.Contains(record.CaptureTime) {
			candidates = append(candidates, iv)
		}
	}

	linked := Linked{Record: record, Candidates: len(candidates)}
	switch len(candidates) {
	case 0:
		linked.Status = StatusUnmatched
	case 1:
		linked.Status = StatusLinked
		linked.DeploymentID = candidates[0].DeploymentID
	default:
		linked.Status = StatusAmbiguous
		linked.DeploymentID = tieBreak(candidates).DeploymentID
	}
	return linked
}

// tieBreak prefers the most recently begun deployment; equal starts fall
// back to the lexicographically greatest ID so the choice never depends on
// sheet order.
func tieBreak(candidates []deploy.Interval) deploy.Interval {
	best := candidates[0]
	for _, iv := range candidates[1:] {
		if iv.Start.After(best.Start) {
			best = iv
			continue
		}
		if iv.Start.Equal(best.Start) && iv.DeploymentID > best.DeploymentID {
			best = iv
		}
	}
	return best
}

// FromTable reloads a previously written linked-media table. Rows the media
// loader rejects are reported and skipped; rows without a link status are
// treated as unmatched.
func FromTable(table *tabular.Table, index media.MetadataIndex) ([]Linked, []tabular.RowError) {
	records, rowErrors := media.FromTable(table, index)
	out := make([]Linked, 0, len(records))
	for _, record := range records {
		status := Status(record.Source.Get("linkStatus"))
		switch status {
		case StatusLinked, StatusUnmatched, StatusAmbiguous:
		default:
			status = StatusUnmatched
		}
		out = append(out, Linked{
			Record:       record,
			DeploymentID: record.Source.Get("deploymentID"),
			Status:       status,
		})
	}
	return out, rowErrors
}

// Table renders linked records as the media table augmented with the
// deploymentID and linkStatus columns. Source columns pass through.
func Table(source *tabular.Table, linked []Linked) *tabular.Table {
	out := tabular.New(source.Columns...)
	out.EnsureColumns("mediaID", "deploymentID", "timestamp", "filePath", "linkStatus")

	for _, item := range linked {
		row := item.Source.Clone()
		row.Set("mediaID", item.MediaID)
		row.Set("deploymentID", item.DeploymentID)
		row.Set("timestamp", timeutil.FormatInstant(item.CaptureTime))
		row.Set("filePath", item.FilePath)
		row.Set("linkStatus", string(item.Status))
		out.Append(row)
	}
	return out
}
