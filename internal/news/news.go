// Package news holds the news record model and the pure selection logic:
// title similarity, importance scoring and in-batch deduplication.
package news

import "time"

// Sentinel categories returned by the scorer for records that must never be published.
const (
	CategoryExcluded  = "EXCLUDED"
	CategoryClickbait = "CLICKBAIT"
)

// Record is a single news item delivered by the feed supplier.
// Everything except Score and Categories is fixed once fetched.
type Record struct {
	Title          string
	Link           string
	Summary        string
	PublishedAt    time.Time
	Source         string
	SourceWeight   float64 // multiplier applied to the final score
	SourcePriority int     // 1 = highest
	ImageURL       string

	Score      int
	Categories []string
}

// Rejected reports whether the categories carry the EXCLUDED or CLICKBAIT sentinel.
func (r Record) Rejected() bool {
	return len(r.Categories) == 1 &&
		(r.Categories[0] == CategoryExcluded || r.Categories[0] == CategoryClickbait)
}
