// Package rss is the feed supplier: it reads the source list and turns every
// feed entry into a news.Record.
package rss

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/deusflow/cryptonews/internal/logger"
	"github.com/deusflow/cryptonews/internal/news"
	"github.com/deusflow/cryptonews/internal/scraper"
)

const maxSummaryRunes = 300

// Source is one configured feed.
type Source struct {
	Name             string  `yaml:"name"`
	URL              string  `yaml:"url"`
	Priority         int     `yaml:"priority"`
	WeightMultiplier float64 `yaml:"weight_multiplier"`
}

// SourcesConfig is YAML config structure
// sources:
//   - name: coindesk
//     url: https://...
//     priority: 1
//     weight_multiplier: 1.2
type SourcesConfig struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources reads the source list from YAML file
func LoadSources(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg SourcesConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sources: %w", err)
	}

	for i := range cfg.Sources {
		s := &cfg.Sources[i]
		if s.Name == "" || s.URL == "" {
			return nil, fmt.Errorf("source #%d needs name and url", i+1)
		}
		if s.Priority < 1 {
			s.Priority = 1
		}
		switch {
		case s.WeightMultiplier < 0:
			return nil, fmt.Errorf("source %s: weight_multiplier must not be negative", s.Name)
		case s.WeightMultiplier == 0:
			s.WeightMultiplier = 1.0
		}
	}
	return cfg.Sources, nil
}

// Fetcher downloads and normalizes feeds.
type Fetcher struct {
	client      *http.Client
	concurrency int
	priorities  map[string]int
	now         func() time.Time
}

// NewFetcher builds a fetcher. priorities overrides Source.Priority by name.
func NewFetcher(timeout time.Duration, concurrency int, priorities map[string]int) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Fetcher{
		client:      &http.Client{Timeout: timeout},
		concurrency: concurrency,
		priorities:  priorities,
		now:         time.Now,
	}
}

// SetPriorities replaces the priority table. Not safe during FetchAll.
func (f *Fetcher) SetPriorities(priorities map[string]int) {
	f.priorities = priorities
}

// FetchAll fetches every source in parallel. A failing source is logged and
// skipped; records keep the order of the source list.
func (f *Fetcher) FetchAll(ctx context.Context, sources []Source) []news.Record {
	results := make([][]news.Record, len(sources))
	var (
		mu     sync.Mutex
		failed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, src := range sources {
		g.Go(func() error {
			recs, err := f.Fetch(gctx, src)
			if err != nil {
				logger.Warn("Feed fetch failed", "source", src.Name, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			logger.Info("Parsed feed", "source", src.Name, "entries", len(recs))
			results[i] = recs
			return nil
		})
	}
	_ = g.Wait()

	var all []news.Record
	for _, recs := range results {
		all = append(all, recs...)
	}
	logger.Info("Processed feeds", "ok", len(sources)-failed, "total", len(sources), "items", len(all))
	return all
}

// Fetch parses one source.
func (f *Fetcher) Fetch(ctx context.Context, src Source) ([]news.Record, error) {
	parser := gofeed.NewParser()
	parser.Client = f.client
	parser.UserAgent = "cryptonews/1.0"

	feed, err := parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, err
	}
	if len(feed.Items) == 0 {
		return nil, fmt.Errorf("feed has no entries")
	}

	feedImage := ""
	if feed.Image != nil {
		feedImage = feed.Image.URL
	}

	priority := src.Priority
	if p, ok := f.priorities[src.Name]; ok {
		priority = p
	}

	records := make([]news.Record, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		records = append(records, f.toRecord(item, src, priority, feedImage))
	}
	return records, nil
}

func (f *Fetcher) toRecord(item *gofeed.Item, src Source, priority int, feedImage string) news.Record {
	published := f.now()
	switch {
	case item.PublishedParsed != nil:
		published = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		published = *item.UpdatedParsed
	}

	raw := item.Description
	if raw == "" {
		raw = item.Content
	}

	return news.Record{
		Title:          strings.TrimSpace(item.Title),
		Link:           strings.TrimSpace(item.Link),
		Summary:        scraper.Truncate(scraper.PlainText(raw), maxSummaryRunes),
		PublishedAt:    published,
		Source:         src.Name,
		SourceWeight:   src.WeightMultiplier,
		SourcePriority: priority,
		ImageURL:       imageURL(item, feedImage),
	}
}

// imageURL prefers media:content, then media:thumbnail, enclosures, the item
// image, the first <img> of the description and finally the feed image.
func imageURL(item *gofeed.Item, feedImage string) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, key := range []string{"content", "thumbnail"} {
			for _, ext := range media[key] {
				if u := ext.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}
	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" {
			return enc.URL
		}
	}
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	if img := scraper.FirstImage(item.Description); img != "" {
		return img
	}
	return feedImage
}
