package aggregators

import (
	"sync"
	"time"

	"github.com/alogtools/alog/pkg/models"
	"github.com/montanaflynn/stats"
)

// Aggregator accumulates parsed, in-window log entries into frequency
// tables and running totals. Increments are commutative, so entries may
// arrive in any order; a mutex serializes access when files are
// processed concurrently. One aggregator per worker merged at the end is
// the cheaper layout for large inputs (see Merge).
type Aggregator struct {
	mu sync.RWMutex

	totalValid         int64
	totalParseFailures int64
	totalFilteredOut   int64

	ipCounts      map[string]int64
	statusCounts  map[int]int64
	uriCounts     map[string]int64
	methodCounts  map[string]int64
	browserCounts map[string]int64

	botRequests   int64
	humanRequests int64

	byteValues  []float64
	totalBytes  int64
	bytesAbsent int64

	minTime time.Time
	maxTime time.Time
}

// NewAggregator creates a new empty aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{
		ipCounts:      make(map[string]int64),
		statusCounts:  make(map[int]int64),
		uriCounts:     make(map[string]int64),
		methodCounts:  make(map[string]int64),
		browserCounts: make(map[string]int64),
	}
}

// Update adds one accepted entry: every valid, in-window entry
// contributes exactly one increment to each core table, keeping the
// table sums equal to the valid total.
func (a *Aggregator) Update(entry *models.LogEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalValid++
	a.ipCounts[entry.ClientAddr]++
	a.statusCounts[entry.Status]++
	a.uriCounts[entry.URI]++
	a.methodCounts[entry.Method]++

	if entry.IsBot {
		a.botRequests++
	} else {
		a.humanRequests++
	}

	if entry.ParsedUA != nil && entry.ParsedUA.Browser != "" {
		a.browserCounts[entry.ParsedUA.Browser]++
	}

	if entry.HasBytes {
		a.totalBytes += entry.BytesSent
		a.byteValues = append(a.byteValues, float64(entry.BytesSent))
	} else {
		a.bytesAbsent++
	}

	// Track time range
	if a.minTime.IsZero() || entry.Timestamp.Before(a.minTime) {
		a.minTime = entry.Timestamp
	}
	if entry.Timestamp.After(a.maxTime) {
		a.maxTime = entry.Timestamp
	}
}

// RecordParseFailure counts a line that did not match the grammar.
func (a *Aggregator) RecordParseFailure() {
	a.mu.Lock()
	a.totalParseFailures++
	a.mu.Unlock()
}

// RecordFilteredOut counts a valid line excluded by the time window.
func (a *Aggregator) RecordFilteredOut() {
	a.mu.Lock()
	a.totalFilteredOut++
	a.mu.Unlock()
}

// Counts returns the valid / parse-failed / filtered-out totals.
func (a *Aggregator) Counts() (valid, parseFailed, filteredOut int64) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.totalValid, a.totalParseFailures, a.totalFilteredOut
}

// Merge folds another aggregator into this one. Used to combine
// per-file aggregators after concurrent processing; the result is
// identical to having aggregated every entry into one value.
func (a *Aggregator) Merge(other *Aggregator) {
	other.mu.RLock()
	defer other.mu.RUnlock()
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalValid += other.totalValid
	a.totalParseFailures += other.totalParseFailures
	a.totalFilteredOut += other.totalFilteredOut

	for k, v := range other.ipCounts {
		a.ipCounts[k] += v
	}
	for k, v := range other.statusCounts {
		a.statusCounts[k] += v
	}
	for k, v := range other.uriCounts {
		a.uriCounts[k] += v
	}
	for k, v := range other.methodCounts {
		a.methodCounts[k] += v
	}
	for k, v := range other.browserCounts {
		a.browserCounts[k] += v
	}

	a.botRequests += other.botRequests
	a.humanRequests += other.humanRequests

	a.totalBytes += other.totalBytes
	a.bytesAbsent += other.bytesAbsent
	a.byteValues = append(a.byteValues, other.byteValues...)

	if !other.minTime.IsZero() && (a.minTime.IsZero() || other.minTime.Before(a.minTime)) {
		a.minTime = other.minTime
	}
	if other.maxTime.After(a.maxTime) {
		a.maxTime = other.maxTime
	}
}

// Result snapshots the aggregator into an AnalysisResult. The returned
// maps are copies; the aggregator may keep accumulating afterwards.
func (a *Aggregator) Result() *models.AnalysisResult {
	a.mu.RLock()
	defer a.mu.RUnlock()

	result := &models.AnalysisResult{
		TotalValid:         a.totalValid,
		TotalParseFailures: a.totalParseFailures,
		TotalFilteredOut:   a.totalFilteredOut,
		IPCounts:           copyStringCounts(a.ipCounts),
		StatusCounts:       copyIntCounts(a.statusCounts),
		URICounts:          copyStringCounts(a.uriCounts),
		MethodCounts:       copyStringCounts(a.methodCounts),
		BrowserCounts:      copyStringCounts(a.browserCounts),
		BotRequests:        a.botRequests,
		HumanRequests:      a.humanRequests,
		ByteStats:          a.byteStats(),
	}

	if !a.minTime.IsZero() {
		result.TimeRange = &models.TimeRange{Start: a.minTime, End: a.maxTime}
	}

	return result
}

// byteStats computes bytes-sent statistics over entries that carried an
// actual byte count. Entries logged with "-" are excluded, not zeroed.
func (a *Aggregator) byteStats() models.ByteStats {
	bs := models.ByteStats{
		TotalBytes: a.totalBytes,
		Counted:    int64(len(a.byteValues)),
		Absent:     a.bytesAbsent,
	}

	if len(a.byteValues) > 0 {
		bs.Mean, _ = stats.Mean(a.byteValues)
		bs.Median, _ = stats.Median(a.byteValues)
		if p95, err := stats.Percentile(a.byteValues, 95); err == nil {
			bs.P95 = p95
		}
	}

	return bs
}

func copyStringCounts(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyIntCounts(src map[int]int64) map[int]int64 {
	dst := make(map[int]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
