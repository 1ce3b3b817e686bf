// Package pipeline turns a raw batch into the ranked set of records to publish:
// history filter, score and threshold, batch dedupe, rank and truncate.
package pipeline

import (
	"sort"
	"time"

	"github.com/deusflow/cryptonews/internal/config"
	"github.com/deusflow/cryptonews/internal/history"
	"github.com/deusflow/cryptonews/internal/logger"
	"github.com/deusflow/cryptonews/internal/news"
)

// Stats counts what each stage removed.
type Stats struct {
	Input             int
	HistoryDuplicates int
	Excluded          int
	Clickbait         int
	BelowThreshold    int // includes Excluded and Clickbait
	AboveThreshold    int
	BatchDuplicates   int
	Selected          int
}

type Result struct {
	Selected []news.Record
	Stats    Stats
}

// Selector is built once per rules version and is safe for concurrent use.
type Selector struct {
	rules  *config.Rules
	scorer *news.Scorer
}

func NewSelector(rules *config.Rules) *Selector {
	return &Selector{
		rules:  rules,
		scorer: news.NewScorer(rules.ScoringRules()),
	}
}

func (s *Selector) Rules() *config.Rules { return s.rules }

// Select runs every stage over records. hist must already be purged.
// An empty stage ends the run with an empty, non-error result.
func (s *Selector) Select(records []news.Record, hist []history.Entry) Result {
	var res Result
	res.Stats.Input = len(records)
	if len(records) == 0 {
		return res
	}

	fresh := s.filterHistory(records, hist, &res.Stats)
	if len(fresh) == 0 {
		logger.Info("No new items after history filter", "input", len(records))
		return res
	}

	scored := s.scoreAndThreshold(fresh, &res.Stats)
	if len(scored) == 0 {
		logger.Info("No items above threshold", "candidates", len(fresh))
		return res
	}

	unique := news.Deduplicate(scored, s.rules.BatchSimilarity)
	res.Stats.BatchDuplicates = len(scored) - len(unique)

	res.Selected = s.rankAndTruncate(unique)
	res.Stats.Selected = len(res.Selected)
	return res
}

func (s *Selector) filterHistory(records []news.Record, hist []history.Entry, st *Stats) []news.Record {
	out := make([]news.Record, 0, len(records))
	for _, r := range records {
		if history.IsDuplicate(r, hist, s.rules.PublishedSimilarity) {
			st.HistoryDuplicates++
			logger.Debug("Already published", "title", r.Title, "link", r.Link)
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s *Selector) scoreAndThreshold(records []news.Record, st *Stats) []news.Record {
	out := make([]news.Record, 0, len(records))
	for _, r := range records {
		r = s.scorer.Annotate(r)
		switch {
		case len(r.Categories) == 1 && r.Categories[0] == news.CategoryExcluded:
			st.Excluded++
		case len(r.Categories) == 1 && r.Categories[0] == news.CategoryClickbait:
			st.Clickbait++
		}
		// A zero score never passes, even with a zero threshold.
		if r.Score == 0 || r.Score < s.rules.Threshold(r.Source) {
			st.BelowThreshold++
			continue
		}
		out = append(out, r)
	}
	st.AboveThreshold = len(out)
	return out
}

func (s *Selector) rankAndTruncate(records []news.Record) []news.Record {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})
	if len(records) > s.rules.TopK {
		records = records[:s.rules.TopK]
	}
	return records
}

// Commit appends one history entry per selected record, stamped with now.
func Commit(hist []history.Entry, selected []news.Record, now time.Time) []history.Entry {
	for _, r := range selected {
		hist = append(hist, history.NewEntry(r, now))
	}
	return hist
}
