// Package app wires the collaborators of one bot run around the selection
// pipeline: fetch, load history, purge, select, commit, enrich, publish.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deusflow/cryptonews/internal/config"
	"github.com/deusflow/cryptonews/internal/enrich"
	"github.com/deusflow/cryptonews/internal/history"
	"github.com/deusflow/cryptonews/internal/logger"
	"github.com/deusflow/cryptonews/internal/metrics"
	"github.com/deusflow/cryptonews/internal/news"
	"github.com/deusflow/cryptonews/internal/pipeline"
	"github.com/deusflow/cryptonews/internal/publish"
)

// Supplier yields the raw batch for a run.
type Supplier interface {
	Supply(ctx context.Context) []news.Record
}

// Deps are the collaborators of a Runner. Enricher and Publisher may be nil.
type Deps struct {
	Supplier  Supplier
	Store     history.Store
	Enricher  *enrich.Enricher
	Publisher *publish.Fanout
	Metrics   *metrics.Metrics
}

// Report describes one finished run.
type Report struct {
	RunID     string
	Stats     pipeline.Stats
	Purge     history.PurgeResult
	Items     []publish.Item
	Published int
	Duration  time.Duration
}

// Runner executes pipeline runs one at a time.
type Runner struct {
	mu       sync.Mutex
	deps     Deps
	selector *pipeline.Selector
	now      func() time.Time
}

func NewRunner(rules *config.Rules, deps Deps) *Runner {
	if deps.Metrics == nil {
		deps.Metrics = metrics.Global
	}
	if deps.Publisher == nil {
		deps.Publisher = publish.NewFanout()
	}
	return &Runner{
		deps:     deps,
		selector: pipeline.NewSelector(rules),
		now:      time.Now,
	}
}

// SetRules installs a new rule set. It waits for a running pass to finish.
func (r *Runner) SetRules(rules *config.Rules) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.selector = pipeline.NewSelector(rules)
	if s, ok := r.deps.Supplier.(interface{ SetRules(*config.Rules) }); ok {
		s.SetRules(rules)
	}
	r.deps.Enricher.SetAllowedHashtags(rules.AllowedHashtags)
	logger.Info("Rules applied", "categories", len(rules.Categories), "top_k", rules.TopK)
}

// Rules returns the active rule set.
func (r *Runner) Rules() *config.Rules {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selector.Rules()
}

// Run performs a full pass. The selected records are committed to history
// before enrichment and publication, so a delivery failure never leads to
// a repeat post. A history store that cannot be read (other than a corrupt
// one) or saved fails the run before anything is published.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	return r.run(ctx, false)
}

// Preview runs selection without committing, enriching or publishing.
func (r *Runner) Preview(ctx context.Context) (*Report, error) {
	return r.run(ctx, true)
}

func (r *Runner) run(ctx context.Context, dryRun bool) (*Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := r.now()
	rep := &Report{RunID: uuid.NewString()}
	log := logger.With("run_id", rep.RunID)
	rules := r.selector.Rules()

	log.Info("Run started", "dry_run", dryRun)

	records := r.deps.Supplier.Supply(ctx)
	log.Info("Fetched records", "count", len(records))

	hist, err := r.deps.Store.Load(ctx)
	switch {
	case errors.Is(err, history.ErrCorrupt):
		log.Warn("History corrupt, starting empty", "store", fmt.Sprint(r.deps.Store), "error", err)
		hist = nil
	case err != nil:
		r.deps.Metrics.SetError(err.Error())
		return rep, fmt.Errorf("load history: %w", err)
	}

	rep.Purge = history.Purge(hist, start, retention(rules))
	log.Info("History purged",
		"kept", len(rep.Purge.Kept),
		"expired", rep.Purge.Expired,
		"untitled", rep.Purge.Untitled,
		"malformed_date", rep.Purge.Malformed)

	res := r.selector.Select(records, rep.Purge.Kept)
	rep.Stats = res.Stats
	log.Info("Selection finished",
		"input", res.Stats.Input,
		"history_duplicates", res.Stats.HistoryDuplicates,
		"above_threshold", res.Stats.AboveThreshold,
		"batch_duplicates", res.Stats.BatchDuplicates,
		"selected", res.Stats.Selected)

	for _, rec := range res.Selected {
		rep.Items = append(rep.Items, publish.Item{Record: rec, RunID: rep.RunID})
	}

	if dryRun {
		rep.Duration = r.now().Sub(start)
		return rep, nil
	}

	r.deps.Metrics.RecordSelection(res.Stats)

	if len(res.Selected) == 0 {
		log.Info("No important news found")
		rep.Duration = r.now().Sub(start)
		r.deps.Metrics.RecordRun(rep.RunID, rep.Duration)
		return rep, nil
	}

	updated := pipeline.Commit(rep.Purge.Kept, res.Selected, r.now())
	if err := r.deps.Store.Save(ctx, updated); err != nil {
		r.deps.Metrics.SetError(err.Error())
		return rep, fmt.Errorf("save history: %w", err)
	}

	r.enrich(ctx, rep)
	rep.Published = r.publish(ctx, rep)

	rep.Duration = r.now().Sub(start)
	r.deps.Metrics.RecordRun(rep.RunID, rep.Duration)
	log.Info("Run finished", "selected", len(rep.Items), "published", rep.Published, "duration", rep.Duration)

	return rep, nil
}

func (r *Runner) enrich(ctx context.Context, rep *Report) {
	if r.deps.Enricher == nil {
		return
	}
	r.deps.Enricher.ResetBudget()

	for i := range rep.Items {
		a := r.deps.Enricher.Enrich(ctx, rep.Items[i].Record)
		r.deps.Metrics.RecordEnrich(a != nil)
		rep.Items[i].Annotation = a
	}
}

func (r *Runner) publish(ctx context.Context, rep *Report) int {
	if r.deps.Publisher.Len() == 0 {
		return 0
	}

	published := 0
	for _, item := range rep.Items {
		res := r.deps.Publisher.Publish(ctx, item)
		if len(res) == 0 {
			continue
		}
		ok := res.OK()
		r.deps.Metrics.RecordPublish(ok)
		if ok {
			published++
			logger.Info("Published", "run_id", rep.RunID, "title", item.Record.Title, "score", item.Record.Score)
		}
		if err := res.Err(); err != nil {
			logger.Warn("Publish failed", "run_id", rep.RunID, "title", item.Record.Title, "error", err)
		}
	}
	return published
}

// History returns the stored entries.
func (r *Runner) History(ctx context.Context) ([]history.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deps.Store.Load(ctx)
}

// PurgeHistory applies the retention window to the store and saves it.
func (r *Runner) PurgeHistory(ctx context.Context) (history.PurgeResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	hist, err := r.deps.Store.Load(ctx)
	if err != nil {
		return history.PurgeResult{}, fmt.Errorf("load history: %w", err)
	}

	res := history.Purge(hist, r.now(), retention(r.selector.Rules()))
	if err := r.deps.Store.Save(ctx, res.Kept); err != nil {
		return res, fmt.Errorf("save history: %w", err)
	}
	return res, nil
}

func retention(rules *config.Rules) time.Duration {
	return time.Duration(rules.RetentionDays) * 24 * time.Hour
}
