package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alogtools/alog/pkg/models"
)

func TestDisplayReport(t *testing.T) {
	result := &models.AnalysisResult{
		TotalValid:         2,
		TotalParseFailures: 1,
		IPCounts:           map[string]int64{"1.1.1.1": 1, "2.2.2.2": 1},
		StatusCounts:       map[int]int64{200: 1, 404: 1},
		URICounts:          map[string]int64{"/a": 2},
		MethodCounts:       map[string]int64{"GET": 2},
		HumanRequests:      2,
		ByteStats:          models.ByteStats{TotalBytes: 100, Mean: 100, Median: 100, P95: 100, Counted: 1, Absent: 1},
		TimeRange: &models.TimeRange{
			Start: time.Date(2023, 10, 10, 13, 55, 36, 0, time.UTC),
			End:   time.Date(2023, 10, 10, 13, 56, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	u := NewConsoleUIWithWriter(&buf, false)
	u.DisplayReport(result, 5, nil)

	out := buf.String()
	assert.Contains(t, out, "LOG ANALYSIS REPORT")
	assert.Contains(t, out, "Valid Requests")
	assert.Contains(t, out, "Parse Failures")
	assert.Contains(t, out, "1.1.1.1")
	assert.Contains(t, out, "2.2.2.2")
	assert.Contains(t, out, "/a")
	assert.Contains(t, out, "404")
	assert.Contains(t, out, "GET")

	// Headers report what the tables actually hold, not the requested N.
	assert.Contains(t, out, "Top 2 Client Addresses")
	assert.Contains(t, out, "Top 1 Requested URIs")
	assert.NotContains(t, out, "Top 5")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "long st...", truncate("long string here", 10))
}
