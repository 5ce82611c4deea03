package core

// ComparisonStats is the relative size of two views. NoData is set when both
// views are empty, in which case both shares are zero.
type ComparisonStats struct {
	CountA int     `json:"count_a"`
	CountB int     `json:"count_b"`
	ShareA float64 `json:"share_a"`
	ShareB float64 `json:"share_b"`
	NoData bool    `json:"no_data"`
}

// Compare sizes view a against view b.
func Compare(a, b *Dataset) ComparisonStats {
	return CompareCounts(a.Len(), b.Len())
}

// CompareCounts is Compare on precomputed sizes.
func CompareCounts(countA, countB int) ComparisonStats {
	stats := ComparisonStats{CountA: countA, CountB: countB}
	total := countA + countB
	if total == 0 {
		stats.NoData = true
		return stats
	}
	stats.ShareA = float64(countA) / float64(total)
	stats.ShareB = 1 - stats.ShareA
	return stats
}
