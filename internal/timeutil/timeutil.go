// Package timeutil normalizes the timestamp representations that arrive on
// field sheets and extractor output: zone abbreviations, explicit UTC
// offsets, and ISO-8601 instants.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// offsetByAbbreviation maps the zone abbreviations that show up on North
// American field sheets to explicit UTC offsets.
var offsetByAbbreviation = map[string]string{
	"UTC": "Z", "Z": "Z",
	"EST": "-05:00", "EDT": "-04:00",
	"CST": "-06:00", "CDT": "-05:00",
	"MST": "-07:00", "MDT": "-06:00",
	"PST": "-08:00", "PDT": "-07:00",
}

// NormalizeOffset resolves a timestamp offset from, in priority order, the
// row value, a header hint (for sheets titled like "EndTime EST"), and the
// configured fallback. The result is "Z" or "±HH:MM".
func NormalizeOffset(value, hint, fallback string) (string, error) {
	for _, candidate := range []string{value, hint, fallback} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		normalized, err := canonicalOffset(candidate)
		if err != nil {
			return "", err
		}
		return normalized, nil
	}
	return "Z", nil
}

func canonicalOffset(value string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	if mapped, ok := offsetByAbbreviation[v]; ok {
		return mapped, nil
	}
	if isNumericOffset(v) {
		return v, nil
	}
	return "", fmt.Errorf("unrecognized UTC offset %q", value)
}

func isNumericOffset(v string) bool {
	if len(v) != 6 || (v[0] != '+' && v[0] != '-') || v[3] != ':' {
		return false
	}
	for _, i := range []int{1, 2, 4, 5} {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}

// LocationFor returns a fixed time.Location for a canonical offset.
func LocationFor(offset string) (*time.Location, error) {
	if offset == "Z" || offset == "" {
		return time.UTC, nil
	}
	if !isNumericOffset(offset) {
		return nil, fmt.Errorf("invalid offset %q", offset)
	}
	hours := int(offset[1]-'0')*10 + int(offset[2]-'0')
	minutes := int(offset[4]-'0')*10 + int(offset[5]-'0')
	seconds := (hours*60 + minutes) * 60
	if offset[0] == '-' {
		seconds = -seconds
	}
	return time.FixedZone(offset, seconds), nil
}

// instantLayouts are the absolute-instant representations accepted on input.
// Every layout carries an explicit offset; local-only timestamps must go
// through NormalizeOffset + LocationFor instead.
var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
}

// ParseInstant parses an ISO-8601 instant with an explicit offset.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", s)
}

// FormatInstant renders an instant as ISO-8601 retaining its offset.
func FormatInstant(t time.Time) string {
	return t.Format(time.RFC3339)
}

// OffsetOf returns the canonical offset string for an instant's zone.
func OffsetOf(t time.Time) string {
	s := t.Format("-07:00")
	if s == "+00:00" {
		return "Z"
	}
	return s
}
