// Package ranker turns unordered frequency tables into deterministic
// rankings. Map iteration order must never leak into output, so every
// ordered view of a table goes through here.
package ranker

import (
	"sort"

	"github.com/alogtools/alog/pkg/models"
)

// TopN returns the n highest-count entries of a frequency table, ordered
// descending by count with ties broken by ascending key. The tie-break
// makes rankings reproducible regardless of aggregation order. n == 0
// yields an empty slice; n beyond the table size yields everything.
func TopN(table map[string]int64, n int) []models.KeyCount {
	if n < 0 {
		n = 0
	}

	ranked := make([]models.KeyCount, 0, len(table))
	for key, count := range table {
		ranked = append(ranked, models.KeyCount{Key: key, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Key < ranked[j].Key
	})

	if n < len(ranked) {
		return ranked[:n]
	}
	return ranked
}

// StatusDistribution returns the full status-code table ordered by
// ascending code. Status codes are never truncated to a top-N.
func StatusDistribution(table map[int]int64) []models.StatusCount {
	dist := make([]models.StatusCount, 0, len(table))
	for status, count := range table {
		dist = append(dist, models.StatusCount{Status: status, Count: count})
	}

	sort.Slice(dist, func(i, j int) bool {
		return dist[i].Status < dist[j].Status
	})

	return dist
}
