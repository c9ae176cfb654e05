package deploy

import "time"

// Interval is a single camera placement, active over [Start, End).
// Intervals are immutable once parsed.
type Interval struct {
	DeploymentID string
	SiteID       string
	LocationID   string
	LocationName string
	CameraSerial string
	CameraModel  string
	Latitude     string
	Longitude    string
	Start        time.Time
	End          time.Time
	// Offset is the sheet's display offset ("Z" or "±HH:MM"); Start and End
	// already carry it.
	Offset string
	// Extra holds pass-through metadata columns keyed by output column name.
	Extra map[string]string
}

// Contains reports whether the instant falls inside the half-open window.
// An instant equal to End belongs to the next interval, never this one.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Set is an immutable collection of intervals indexed by camera serial.
type Set struct {
	intervals []Interval
	bySerial  map[string][]Interval
}

func newSet(intervals []Interval) *Set {
	bySerial := make(map[string][]Interval)
	for _, iv := range intervals {
		bySerial[iv.CameraSerial] = append(bySerial[iv.CameraSerial], iv)
	}
	return &Set{intervals: intervals, bySerial: bySerial}
}

// Intervals returns all intervals in sheet order.
func (s *Set) Intervals() []Interval {
	return s.intervals
}

// BySerial returns the intervals registered for a camera serial, in sheet order.
func (s *Set) BySerial(serial string) []Interval {
	return s.bySerial[serial]
}

// Len returns the number of intervals.
func (s *Set) Len() int {
	return len(s.intervals)
}
