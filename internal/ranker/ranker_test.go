package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alogtools/alog/pkg/models"
)

func TestTopNOrdering(t *testing.T) {
	table := map[string]int64{
		"/contact": 3,
		"/about":   3,
		"/":        10,
		"/login":   7,
	}

	got := TopN(table, 3)
	want := []models.KeyCount{
		{Key: "/", Count: 10},
		{Key: "/login", Count: 7},
		{Key: "/about", Count: 3}, // tie broken by ascending key
	}
	assert.Equal(t, want, got)
}

func TestTopNTieBreakIsDeterministic(t *testing.T) {
	table := map[string]int64{
		"3.3.3.3": 1, "1.1.1.1": 1, "2.2.2.2": 1, "0.0.0.0": 1,
	}

	want := []models.KeyCount{
		{Key: "0.0.0.0", Count: 1},
		{Key: "1.1.1.1", Count: 1},
		{Key: "2.2.2.2", Count: 1},
		{Key: "3.3.3.3", Count: 1},
	}

	// Map iteration order varies between runs; the ranking must not.
	for i := 0; i < 20; i++ {
		assert.Equal(t, want, TopN(table, 4))
	}
}

func TestTopNBounds(t *testing.T) {
	table := map[string]int64{"a": 2, "b": 1}

	assert.Empty(t, TopN(table, 0))
	assert.Empty(t, TopN(table, -1))
	assert.Len(t, TopN(table, 100), 2, "n beyond table size returns everything")
	assert.Empty(t, TopN(map[string]int64{}, 5))
}

func TestStatusDistributionAscending(t *testing.T) {
	table := map[int]int64{500: 2, 200: 10, 301: 1, 404: 4}

	got := StatusDistribution(table)
	want := []models.StatusCount{
		{Status: 200, Count: 10},
		{Status: 301, Count: 1},
		{Status: 404, Count: 4},
		{Status: 500, Count: 2},
	}
	assert.Equal(t, want, got)
}
