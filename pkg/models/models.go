package models

import (
	"time"
)

// RawLine is a single line of input text together with its origin,
// carried through the pipeline for diagnostics.
type RawLine struct {
	Text   string
	Source string
	Number int
}

// LogEntry represents one successfully parsed access-log line. Timestamps
// are normalized to UTC so entries from files written in different
// timezones compare and filter consistently.
type LogEntry struct {
	ClientAddr string
	UserID     string
	Timestamp  time.Time
	Method     string
	URI        string
	Protocol   string
	Status     int
	BytesSent  int64
	HasBytes   bool // false when the log recorded "-" for bytes sent
	Referer    string
	UserAgent  string
	ParsedUA   *UserAgentInfo
	IsBot      bool
	Source     string
	Line       int
}

// UserAgentInfo contains parsed user agent information
type UserAgentInfo struct {
	Browser string
	OS      string
	Device  string
}

// TimeWindow is an inclusive [Start, End] filter range. A nil bound
// means unbounded on that side.
type TimeWindow struct {
	Start *time.Time
	End   *time.Time
}

// TimeRange is the observed span of valid entries in a run.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// KeyCount is one ranked frequency-table entry.
type KeyCount struct {
	Key   string
	Count int64
}

// StatusCount is one entry of the status-code distribution.
type StatusCount struct {
	Status int
	Count  int64
}

// FileReport contains per-file accounting for one input file.
type FileReport struct {
	Path        string
	Valid       int64
	ParseFailed int64
	FilteredOut int64
}

// ByteStats contains statistics over bytes sent, computed only from
// entries where the log recorded an actual byte count.
type ByteStats struct {
	TotalBytes int64
	Mean       float64
	Median     float64
	P95        float64
	Counted    int64
	Absent     int64
}

// AnalysisResult contains the aggregated outcome of one analysis run.
// It is data only; rendering is the caller's concern.
type AnalysisResult struct {
	TotalValid         int64
	TotalParseFailures int64
	TotalFilteredOut   int64

	IPCounts      map[string]int64
	StatusCounts  map[int]int64
	URICounts     map[string]int64
	MethodCounts  map[string]int64
	BrowserCounts map[string]int64

	BotRequests   int64
	HumanRequests int64

	ByteStats ByteStats
	TimeRange *TimeRange

	Files []FileReport

	// SkippedFiles lists input paths that could not be read, sorted;
	// SkipReasons maps each one to the cause.
	SkippedFiles []string
	SkipReasons  map[string]string
}

// TotalLines returns the number of raw lines that entered the pipeline.
func (r *AnalysisResult) TotalLines() int64 {
	return r.TotalValid + r.TotalParseFailures + r.TotalFilteredOut
}
