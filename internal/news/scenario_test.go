package news_test

import (
	"testing"

	"github.com/deusflow/cryptonews/internal/config"
	"github.com/deusflow/cryptonews/internal/news"
)

func defaultScorer() *news.Scorer {
	return news.NewScorer(config.DefaultRules().ScoringRules())
}

func TestHowToIsExcludedBeforeClickbait(t *testing.T) {
	score, cats := defaultScorer().Score(news.Record{Title: "How to buy Bitcoin in 2024?", Source: "decrypt", SourceWeight: 1})
	if score != 0 || len(cats) != 1 || cats[0] != news.CategoryExcluded {
		t.Fatalf("got %d %v, want 0 [EXCLUDED]", score, cats)
	}
}

func TestFedRatesScenario(t *testing.T) {
	s := defaultScorer()
	in := []news.Record{
		{Title: "Fed raises rates", Source: "coindesk", SourcePriority: 1, SourceWeight: 1.2},
		{Title: "Fed Raises Rates Again", Source: "decrypt", SourcePriority: 6, SourceWeight: 1.0},
	}
	for i := range in {
		in[i] = s.Annotate(in[i])
	}

	if in[0].Score != 180 || in[1].Score != 150 {
		t.Fatalf("scores %d/%d, want 180/150", in[0].Score, in[1].Score)
	}
	if in[0].Categories[0] != "STOCK_CRITICAL" {
		t.Fatalf("categories %v", in[0].Categories)
	}

	out := news.Deduplicate(in, config.DefaultRules().BatchSimilarity)
	if len(out) != 1 || out[0].Source != "coindesk" {
		t.Fatalf("expected only coindesk, got %+v", out)
	}
}

func TestDefaultRulesScoring(t *testing.T) {
	s := defaultScorer()
	tests := []struct {
		title string
		want  int
		cat   string
	}{
		{"Why is Bitcoin crashing?", 0, news.CategoryClickbait},
		{"Exchange hack drains hot wallet", 100, "CRITICAL"},
		{"SEC delays decision on Solana fund", 50, "HIGH"},
		{"Bitcoin hits record high", 52, "MARKET_MOVE"},
		{"BTC breaks $70,000", 62, "MARKET_MOVE"},
		{"Opinion: the ETF approval changes nothing", 0, news.CategoryExcluded},
	}
	for _, tt := range tests {
		score, cats := s.Score(news.Record{Title: tt.title, SourceWeight: 1})
		if score != tt.want || len(cats) == 0 || cats[0] != tt.cat {
			t.Errorf("%q: got %d %v, want %d [%s ...]", tt.title, score, cats, tt.want, tt.cat)
		}
	}
}
