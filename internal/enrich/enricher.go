package enrich

import (
	"context"
	"time"

	"github.com/deusflow/cryptonews/internal/cache"
	"github.com/deusflow/cryptonews/internal/logger"
	"github.com/deusflow/cryptonews/internal/news"
	"github.com/deusflow/cryptonews/internal/ratelimit"
)

const annotationTTL = 24 * time.Hour

// Enricher wraps an Annotator with a request budget, a per-call timeout and
// an annotation cache. A nil *Enricher annotates nothing.
type Enricher struct {
	annotator Annotator
	limiter   *ratelimit.Limiter
	cache     *cache.Cache[Annotation]
	timeout   time.Duration
	allowed   []string
}

func NewEnricher(a Annotator, limiter *ratelimit.Limiter, timeout time.Duration, allowed []string) *Enricher {
	return &Enricher{
		annotator: a,
		limiter:   limiter,
		cache:     cache.New[Annotation](time.Hour),
		timeout:   timeout,
		allowed:   allowed,
	}
}

// SetAllowedHashtags replaces the hashtag allow-list after a rules reload.
func (e *Enricher) SetAllowedHashtags(allowed []string) {
	if e != nil {
		e.allowed = allowed
	}
}

// Enrich returns an annotation for r, or nil when the budget is spent, the
// call fails, or the model output is unusable.
func (e *Enricher) Enrich(ctx context.Context, r news.Record) *Annotation {
	if e == nil || e.annotator == nil {
		return nil
	}

	key := cache.Key(r.Title, r.Link)
	if a, ok := e.cache.Get(key); ok {
		if e.limiter != nil {
			e.limiter.RecordCacheHit()
		}
		return &a
	}

	name := e.annotator.Name()
	if e.limiter != nil {
		if err := e.limiter.Use(name); err != nil {
			logger.Warn("Skipping enrichment", "title", r.Title, "error", err)
			return nil
		}
	}

	callCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	system, user := BuildPrompts(r, e.allowed)
	content, err := e.annotator.Complete(callCtx, system, user)
	if err != nil {
		logger.Warn("Enrichment failed", "provider", name, "title", r.Title, "error", err)
		return nil
	}

	a, ok := Parse(content, e.allowed)
	if !ok {
		logger.Warn("Enrichment produced no usable insight", "provider", name, "title", r.Title)
		return nil
	}

	e.cache.Set(key, *a, annotationTTL)
	return a
}

// ResetBudget starts a fresh per-run request budget.
func (e *Enricher) ResetBudget() {
	if e != nil && e.limiter != nil {
		e.limiter.Reset()
	}
}

func (e *Enricher) Close() {
	if e == nil {
		return
	}
	e.cache.Close()
	if c, ok := e.annotator.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}
