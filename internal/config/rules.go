package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/deusflow/cryptonews/internal/news"
)

// CategoryRule is one entry of the ordered importance table.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Weight   int      `yaml:"weight"`
	Keywords []string `yaml:"keywords"`
}

// Rules is everything the selection core consumes. Keys missing from the
// YAML file keep their built-in defaults.
type Rules struct {
	Categories          []CategoryRule `yaml:"categories"`
	ExcludeKeywords     []string       `yaml:"exclude_keywords"`
	ClickbaitPatterns   []string       `yaml:"clickbait_patterns"`
	MinImportanceScore  int            `yaml:"min_importance_score"`
	StockThreshold      int            `yaml:"stock_market_threshold"`
	StockSources        []string       `yaml:"stock_sources"`
	PublishedSimilarity float64        `yaml:"published_similarity_threshold"`
	BatchSimilarity     float64        `yaml:"batch_similarity_threshold"`
	SourcePriority      map[string]int `yaml:"source_priority"`
	TopK                int            `yaml:"top_k"`
	RetentionDays       int            `yaml:"retention_days"`
	AllowedHashtags     []string       `yaml:"allowed_hashtags"`

	clickbait []*regexp.Regexp
}

// LoadRules reads the rules file at path on top of DefaultRules.
// An empty path or a missing file yields the defaults.
func LoadRules(path string) (*Rules, error) {
	r := DefaultRules()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read rules file: %w", err)
		default:
			if err := yaml.Unmarshal(data, r); err != nil {
				return nil, fmt.Errorf("failed to parse rules file: %w", err)
			}
		}
	}
	if err := r.compile(); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	return r, nil
}

// ApplyOverrides lets env settings win over the rules file.
func (r *Rules) ApplyOverrides(c *Config) {
	if c == nil {
		return
	}
	if c.TopK > 0 {
		r.TopK = c.TopK
	}
	if c.RetentionDays > 0 {
		r.RetentionDays = c.RetentionDays
	}
}

func (r *Rules) compile() error {
	r.clickbait = make([]*regexp.Regexp, 0, len(r.ClickbaitPatterns))
	for _, p := range r.ClickbaitPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("bad clickbait pattern %q: %w", p, err)
		}
		r.clickbait = append(r.clickbait, re)
	}
	return nil
}

func (r *Rules) Validate() error {
	seen := make(map[string]bool, len(r.Categories))
	for _, c := range r.Categories {
		if c.Name == "" {
			return fmt.Errorf("category without a name")
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate category %q", c.Name)
		}
		seen[c.Name] = true
		if c.Weight <= 0 {
			return fmt.Errorf("category %q: weight must be positive", c.Name)
		}
	}
	if r.PublishedSimilarity < 0 || r.PublishedSimilarity > 1 {
		return fmt.Errorf("published_similarity_threshold must be within [0,1]")
	}
	if r.BatchSimilarity < 0 || r.BatchSimilarity > 1 {
		return fmt.Errorf("batch_similarity_threshold must be within [0,1]")
	}
	if len(r.StockSources) > 0 && r.StockThreshold <= r.MinImportanceScore {
		return fmt.Errorf("stock_market_threshold (%d) must be above min_importance_score (%d)",
			r.StockThreshold, r.MinImportanceScore)
	}
	if r.TopK < 1 {
		return fmt.Errorf("top_k must be at least 1")
	}
	if r.RetentionDays < 1 {
		return fmt.Errorf("retention_days must be at least 1")
	}
	if len(r.clickbait) != len(r.ClickbaitPatterns) {
		return fmt.Errorf("clickbait patterns not compiled")
	}
	return nil
}

// ScoringRules converts the table into the scorer's input.
func (r *Rules) ScoringRules() news.ScoringRules {
	cats := make([]news.Category, 0, len(r.Categories))
	for _, c := range r.Categories {
		cats = append(cats, news.Category{Name: c.Name, Weight: c.Weight, Keywords: c.Keywords})
	}
	return news.ScoringRules{
		Categories: cats,
		Exclude:    r.ExcludeKeywords,
		Clickbait:  r.clickbait,
	}
}

// IsStockSource reports whether source must clear StockThreshold.
func (r *Rules) IsStockSource(source string) bool {
	for _, s := range r.StockSources {
		if s == source {
			return true
		}
	}
	return false
}

// Threshold is the minimum score a record from source needs.
func (r *Rules) Threshold(source string) int {
	if r.IsStockSource(source) {
		return r.StockThreshold
	}
	return r.MinImportanceScore
}
