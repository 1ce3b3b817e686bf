package enrich

import (
	"context"
	"fmt"

	"github.com/deusflow/cryptonews/internal/config"
	"github.com/deusflow/cryptonews/internal/logger"
	"github.com/deusflow/cryptonews/internal/ratelimit"
)

// FromConfig builds the configured enricher. It returns nil, nil when
// enrichment is disabled or the provider has no API key.
func FromConfig(ctx context.Context, cfg *config.Config, allowed []string) (*Enricher, error) {
	var a Annotator
	switch cfg.EnrichProvider {
	case "none", "":
		return nil, nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			logger.Info("OPENAI_API_KEY not set, enrichment disabled")
			return nil, nil
		}
		a = NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, "")
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			logger.Info("GEMINI_API_KEY not set, enrichment disabled")
			return nil, nil
		}
		g, err := NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		a = g
	default:
		return nil, fmt.Errorf("unknown enrich provider %q", cfg.EnrichProvider)
	}

	limiter := ratelimit.New(cfg.MaxAIRequests, 0, nil)
	return NewEnricher(a, limiter, cfg.EnrichTimeout, allowed), nil
}
