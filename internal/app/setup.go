package app

import (
	"context"
	"fmt"

	"github.com/deusflow/cryptonews/internal/config"
	"github.com/deusflow/cryptonews/internal/enrich"
	"github.com/deusflow/cryptonews/internal/history"
	"github.com/deusflow/cryptonews/internal/live"
	"github.com/deusflow/cryptonews/internal/logger"
	"github.com/deusflow/cryptonews/internal/metrics"
	"github.com/deusflow/cryptonews/internal/news"
	"github.com/deusflow/cryptonews/internal/publish"
	"github.com/deusflow/cryptonews/internal/rss"
	"github.com/deusflow/cryptonews/internal/telegram"
	"github.com/deusflow/cryptonews/internal/twitter"
)

// FeedSupplier fetches every configured source.
type FeedSupplier struct {
	Fetcher *rss.Fetcher
	Sources []rss.Source
}

func (f *FeedSupplier) Supply(ctx context.Context) []news.Record {
	return f.Fetcher.FetchAll(ctx, f.Sources)
}

// SetRules refreshes the source priority table after a rules reload.
func (f *FeedSupplier) SetRules(rules *config.Rules) {
	f.Fetcher.SetPriorities(rules.SourcePriority)
}

// Service is a fully wired runner plus the resources it owns.
type Service struct {
	Runner *Runner
	Hub    *live.Hub
	Config *config.Config

	store    history.Store
	enricher *enrich.Enricher
}

// Options select the optional parts of a Service.
type Options struct {
	Publish bool // attach Telegram when configured
	Live    bool // attach the websocket hub
}

// Build loads sources and rules and opens the history store named by cfg.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*Service, error) {
	rules, err := config.LoadRules(cfg.RulesConfigPath)
	if err != nil {
		return nil, err
	}
	rules.ApplyOverrides(cfg)

	sources, err := rss.LoadSources(cfg.SourcesConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}

	store, err := history.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}

	svc := &Service{Config: cfg, store: store}

	var publishers []publish.Publisher
	if opts.Publish {
		svc.enricher, err = enrich.FromConfig(ctx, cfg, rules.AllowedHashtags)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		if cfg.TelegramEnabled() {
			publishers = append(publishers, telegram.New(cfg.TelegramToken, cfg.TelegramChannelID))
		} else {
			logger.Warn("Telegram credentials not set, skipping Telegram")
		}
		if cfg.TwitterReady() {
			publishers = append(publishers, twitter.New(
				cfg.TwitterAPIKey, cfg.TwitterAPISecret,
				cfg.TwitterAccessToken, cfg.TwitterAccessTokenSecret))
		} else if cfg.TwitterEnabled {
			logger.Warn("Twitter credentials not set, skipping Twitter")
		}
	}
	if opts.Live {
		svc.Hub = live.NewHub()
		publishers = append(publishers, svc.Hub)
	}

	supplier := &FeedSupplier{
		Fetcher: rss.NewFetcher(cfg.RequestTimeout, cfg.FetchConcurrency, rules.SourcePriority),
		Sources: sources,
	}

	svc.Runner = NewRunner(rules, Deps{
		Supplier:  supplier,
		Store:     store,
		Enricher:  svc.enricher,
		Publisher: publish.NewFanout(publishers...),
		Metrics:   metrics.Global,
	})

	logger.Info("Service ready",
		"sources", len(sources),
		"history", fmt.Sprint(store),
		"publishers", len(publishers),
		"enrichment", svc.enricher != nil)

	return svc, nil
}

func (s *Service) Close() error {
	if s.Hub != nil {
		s.Hub.Close()
	}
	s.enricher.Close()
	return s.store.Close()
}
