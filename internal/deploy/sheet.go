package deploy

import (
	"fmt"
	"strings"
	"time"
)

// Field sheets arrive from several crews; accept the date and clock formats
// all of them have actually used.
var sheetDateLayouts = []string{"01/02/2006", "01/02/06", "2006-01-02"}

var sheetTimeLayouts = []string{"3:04:05 PM", "3:04 PM", "15:04:05", "15:04"}

func parseSheetDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	for _, layout := range sheetDateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
}

type clock struct {
	hour, minute, second int
}

func parseSheetTime(s string) (clock, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return clock{}, false, nil
	}
	for _, layout := range sheetTimeLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			return clock{hour: t.Hour(), minute: t.Minute(), second: t.Second()}, true, nil
		}
	}
	return clock{}, false, fmt.Errorf("unrecognized time format %q", s)
}

// combineSheetTimestamp builds an instant from a sheet date, an optional
// clock, and a location. A missing end-side clock defaults to end of day so
// a retrieval date without a time still covers that day's captures.
func combineSheetTimestamp(date time.Time, c clock, hasClock bool, endOfDay bool, loc *time.Location) time.Time {
	if !hasClock && endOfDay {
		c = clock{hour: 23, minute: 59, second: 59}
	}
	return time.Date(date.Year(), date.Month(), date.Day(), c.hour, c.minute, c.second, 0, loc)
}

// endTimeHeader finds the sheet's end-time column, which often embeds a zone
// hint in its header ("EndTime EST"). Returns the column name and the hint.
func endTimeHeader(columns []string) (string, string) {
	for _, column := range columns {
		compact := strings.ToLower(strings.ReplaceAll(column, " ", ""))
		if strings.HasPrefix(compact, "endtime") {
			parts := strings.Fields(column)
			if len(parts) >= 2 {
				return column, parts[len(parts)-1]
			}
			return column, ""
		}
	}
	return "", ""
}
