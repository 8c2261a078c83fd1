package parser

import (
	"fmt"
	"strconv"
	"time"
)

// months maps the three-letter abbreviations used by the log format.
// Anything outside this table is a parse failure.
var months = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// Normalize combines the wall-clock fields of a log timestamp with its
// UTC offset and returns the corresponding UTC instant. The offset is in
// ±HHMM form, so "12:00:00 +0200" and "10:00:00 +0000" normalize to the
// same instant.
func Normalize(day, monthAbbrev, year, hour, minute, second, offset string) (time.Time, error) {
	month, ok := months[monthAbbrev]
	if !ok {
		return time.Time{}, fmt.Errorf("unrecognized month %q", monthAbbrev)
	}

	d := mustInt(day)
	y := mustInt(year)
	h := mustInt(hour)
	min := mustInt(minute)
	sec := mustInt(second)

	// The regexp only guarantees digit counts; reject values time.Date
	// would silently roll over. The day bound depends on the month, so
	// 30/Feb and 31/Apr are failures, not instants in the next month.
	if d < 1 || d > daysInMonth(y, month) || h > 23 || min > 59 || sec > 59 {
		return time.Time{}, fmt.Errorf("timestamp field out of range")
	}

	offsetSecs, err := parseOffset(offset)
	if err != nil {
		return time.Time{}, err
	}

	loc := time.FixedZone(offset, offsetSecs)
	return time.Date(y, month, d, h, min, sec, 0, loc).UTC(), nil
}

// daysInMonth returns the calendar length of a month, accounting for
// leap years.
func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// parseOffset converts a ±HHMM offset into seconds east of UTC.
func parseOffset(offset string) (int, error) {
	if len(offset) != 5 {
		return 0, fmt.Errorf("invalid UTC offset %q", offset)
	}

	hours := mustInt(offset[1:3])
	mins := mustInt(offset[3:5])
	if hours > 23 || mins > 59 {
		return 0, fmt.Errorf("invalid UTC offset %q", offset)
	}

	secs := hours*3600 + mins*60
	if offset[0] == '-' {
		secs = -secs
	}
	return secs, nil
}

// mustInt is only ever called on regexp-validated digit runs.
func mustInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
