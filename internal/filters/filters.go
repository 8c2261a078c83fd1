package filters

import (
	"fmt"
	"strings"
	"time"

	"github.com/alogtools/alog/pkg/models"
)

// Bound layouts accepted on the command line. Bounds carry no offset and
// are interpreted directly in the normalized (UTC) instant space, so they
// compare one-to-one with entry timestamps.
const (
	boundLayoutFull = "2006-01-02T15:04:05"
	boundLayoutDay  = "2006-01-02"
)

// ErrInvalidBound reports a malformed --start/--end value. It is surfaced
// before any file is opened.
type ErrInvalidBound struct {
	Value string
}

func (e *ErrInvalidBound) Error() string {
	return fmt.Sprintf("invalid time bound %q: use YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS", e.Value)
}

// ParseBound parses a user-supplied window bound. An empty string means
// the bound is absent. When endOfDay is set, a date-only value is
// extended to the last second of that day, giving whole-day semantics
// for --end.
func ParseBound(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(boundLayoutFull, value); err == nil {
		t = t.UTC()
		return &t, nil
	}

	t, err := time.Parse(boundLayoutDay, value)
	if err != nil {
		return nil, &ErrInvalidBound{Value: value}
	}
	t = t.UTC()
	if endOfDay {
		t = t.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	}
	return &t, nil
}

// NewTimeWindow builds a window from the raw --start/--end values.
func NewTimeWindow(start, end string) (models.TimeWindow, error) {
	s, err := ParseBound(start, false)
	if err != nil {
		return models.TimeWindow{}, err
	}
	e, err := ParseBound(end, true)
	if err != nil {
		return models.TimeWindow{}, err
	}
	return models.TimeWindow{Start: s, End: e}, nil
}

// InWindow reports whether an instant falls inside the window. Both
// bounds are inclusive; a nil bound is unbounded on that side.
func InWindow(instant time.Time, window models.TimeWindow) bool {
	if window.Start != nil && instant.Before(*window.Start) {
		return false
	}
	if window.End != nil && instant.After(*window.End) {
		return false
	}
	return true
}

// LogFilter holds optional entry-level filters applied after the time
// window check.
type LogFilter struct {
	statusCodes map[int]bool
	methods     map[string]bool
	excludeBots bool
}

// NewLogFilter creates a new log filter with default settings
func NewLogFilter() *LogFilter {
	return &LogFilter{
		statusCodes: make(map[int]bool),
		methods:     make(map[string]bool),
	}
}

// AddStatusFilter adds a status code filter
func (f *LogFilter) AddStatusFilter(codes []int) {
	for _, code := range codes {
		f.statusCodes[code] = true
	}
}

// AddMethodFilter adds an HTTP method filter
func (f *LogFilter) AddMethodFilter(methods []string) {
	for _, method := range methods {
		f.methods[strings.ToUpper(method)] = true
	}
}

// SetExcludeBots sets whether to exclude bot traffic
func (f *LogFilter) SetExcludeBots(exclude bool) {
	f.excludeBots = exclude
}

// ShouldInclude checks the entry-level filters beyond the time window.
func (f *LogFilter) ShouldInclude(entry *models.LogEntry) bool {
	if f.excludeBots && entry.IsBot {
		return false
	}
	if len(f.statusCodes) > 0 && !f.statusCodes[entry.Status] {
		return false
	}
	if len(f.methods) > 0 && !f.methods[entry.Method] {
		return false
	}
	return true
}
