// Package publish defines the sink side of a run: a selected record,
// optionally annotated, handed to every configured channel.
package publish

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/deusflow/cryptonews/internal/enrich"
	"github.com/deusflow/cryptonews/internal/logger"
	"github.com/deusflow/cryptonews/internal/news"
)

// Item is what a publisher receives.
type Item struct {
	Record     news.Record
	Annotation *enrich.Annotation
	RunID      string
}

// Publisher is one output channel. Publish reports success or failure only.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, item Item) error
}

// Mirror is implemented by sinks that only echo posts, such as a live feed.
// Their outcome is logged but never counts as a delivery.
type Mirror interface {
	Mirror() bool
}

func isMirror(p Publisher) bool {
	m, ok := p.(Mirror)
	return ok && m.Mirror()
}

// Result maps a delivery channel name to its error, nil on success.
// Mirrors are left out, so an empty Result means no delivery channel is attached.
type Result map[string]error

// OK reports whether at least one publisher accepted the item.
func (r Result) OK() bool {
	for _, err := range r {
		if err == nil {
			return true
		}
	}
	return false
}

// Err joins the individual failures.
func (r Result) Err() error {
	var errs []error
	for name, err := range r {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Fanout sends items to several publishers concurrently.
type Fanout struct {
	publishers []Publisher
}

func NewFanout(publishers ...Publisher) *Fanout {
	var ps []Publisher
	for _, p := range publishers {
		if p != nil {
			ps = append(ps, p)
		}
	}
	return &Fanout{publishers: ps}
}

func (f *Fanout) Len() int { return len(f.publishers) }

// Publish delivers item to every publisher. A failing publisher does not
// stop the others.
func (f *Fanout) Publish(ctx context.Context, item Item) Result {
	res := make(Result, len(f.publishers))
	var mu sync.Mutex

	var g errgroup.Group
	for _, p := range f.publishers {
		g.Go(func() error {
			err := p.Publish(ctx, item)
			if isMirror(p) {
				if err != nil {
					logger.Warn("Mirror publish failed", "publisher", p.Name(), "error", err)
				}
				return nil
			}
			mu.Lock()
			res[p.Name()] = err
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return res
}
