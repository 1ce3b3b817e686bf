package news

import "sort"

// Deduplicate removes near-duplicate titles within one batch.
//
// Records are ordered by ascending SourcePriority, then descending Score, and
// walked greedily: a record is dropped when its title is at least threshold
// similar to any record already kept. The comparison is only against kept
// records, so the result is not a transitive clustering.
func Deduplicate(records []Record, threshold float64) []Record {
	if len(records) == 0 {
		return nil
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SourcePriority != sorted[j].SourcePriority {
			return sorted[i].SourcePriority < sorted[j].SourcePriority
		}
		return sorted[i].Score > sorted[j].Score
	})

	kept := make([]Record, 0, len(sorted))
	for _, cand := range sorted {
		dup := false
		for _, k := range kept {
			if Similarity(cand.Title, k.Title) >= threshold {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, cand)
		}
	}
	return kept
}
