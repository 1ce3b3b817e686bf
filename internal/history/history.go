// Package history keeps the record of already published news so the same
// story is not posted twice across runs.
package history

import (
	"strings"
	"time"

	"github.com/deusflow/cryptonews/internal/news"
)

// Entry is one published item. PublishedDate is kept as the raw stored text
// so that unparseable values survive a load/save cycle.
type Entry struct {
	Title         string `json:"title"`
	Link          string `json:"link"`
	PublishedDate string `json:"published_date"`
}

// timestampLayout is ISO-8601 with microseconds and offset.
const timestampLayout = "2006-01-02T15:04:05.000000-07:00"

var offsetLayouts = []string{
	time.RFC3339Nano,
	timestampLayout,
}

// naiveLayouts carry no zone and are read as local time.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NewEntry builds the history entry committed for a selected record.
func NewEntry(r news.Record, now time.Time) Entry {
	return Entry{
		Title:         r.Title,
		Link:          r.Link,
		PublishedDate: now.Format(timestampLayout),
	}
}

// Published parses PublishedDate. ok is false for missing or malformed dates.
func (e Entry) Published() (t time.Time, ok bool) {
	s := strings.TrimSpace(e.PublishedDate)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PurgeResult reports what Purge dropped.
type PurgeResult struct {
	Kept      []Entry
	Expired   int
	Untitled  int
	Malformed int // kept despite an unreadable date
}

// Purge drops untitled entries and entries older than retention.
// Entries with a missing or unparseable date are kept.
func Purge(entries []Entry, now time.Time, retention time.Duration) PurgeResult {
	cutoff := now.Add(-retention)
	res := PurgeResult{Kept: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		if e.Title == "" {
			res.Untitled++
			continue
		}
		pub, ok := e.Published()
		if !ok {
			res.Malformed++
			res.Kept = append(res.Kept, e)
			continue
		}
		if pub.Before(cutoff) {
			res.Expired++
			continue
		}
		res.Kept = append(res.Kept, e)
	}
	return res
}

// IsDuplicate reports whether r matches any entry by identical non-empty link
// or by title similarity at or above threshold.
func IsDuplicate(r news.Record, entries []Entry, threshold float64) bool {
	for _, e := range entries {
		if r.Link != "" && e.Link != "" && r.Link == e.Link {
			return true
		}
		if r.Title != "" && e.Title != "" && news.Similarity(r.Title, e.Title) >= threshold {
			return true
		}
	}
	return false
}
