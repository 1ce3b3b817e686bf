package news

import (
	"math"
	"regexp"
	"strings"

	"github.com/deusflow/cryptonews/internal/logger"
)

const (
	secBonus    = 50
	secCategory = "HIGH"

	bitcoinBoost = 1.3
	amountBoost  = 1.2
)

var (
	btcWord       = regexp.MustCompile(`\bbtc\b`)
	amountPattern = regexp.MustCompile(`(?i)\$\s*[\d,]+\.?\d*\s*[mbk]?|\$\s*[\d,]+|\d+\.?\d*%`)
)

// Category is one importance class: the weight is added once when any keyword hits.
type Category struct {
	Name     string
	Weight   int
	Keywords []string
}

// ScoringRules is the immutable input of a Scorer. Categories are evaluated in slice order.
type ScoringRules struct {
	Categories []Category
	Exclude    []string
	Clickbait  []*regexp.Regexp
}

// Scorer assigns importance scores to records.
type Scorer struct {
	categories []Category
	exclude    []string
	clickbait  []*regexp.Regexp
}

// NewScorer copies rules and lower-cases every keyword so later matching is a plain substring test.
func NewScorer(rules ScoringRules) *Scorer {
	s := &Scorer{
		categories: make([]Category, 0, len(rules.Categories)),
		exclude:    lowerAll(rules.Exclude),
		clickbait:  append([]*regexp.Regexp(nil), rules.Clickbait...),
	}
	for _, c := range rules.Categories {
		s.categories = append(s.categories, Category{
			Name:     c.Name,
			Weight:   c.Weight,
			Keywords: lowerAll(c.Keywords),
		})
	}
	return s
}

// Score returns the importance of r and the categories it matched.
// Exclusion keywords win over everything, then clickbait patterns; both yield 0.
func (s *Scorer) Score(r Record) (int, []string) {
	title := strings.ToLower(r.Title)

	for _, ex := range s.exclude {
		if strings.Contains(title, ex) {
			return 0, []string{CategoryExcluded}
		}
	}

	for _, re := range s.clickbait {
		if re.MatchString(r.Title) {
			logger.Debug("Clickbait filtered", "title", truncate(r.Title, 50), "pattern", re.String())
			return 0, []string{CategoryClickbait}
		}
	}

	score := 0.0
	var matched []string
	for _, c := range s.categories {
		hit := false
		for _, kw := range c.Keywords {
			if strings.Contains(title, kw) {
				hit = true
				break
			}
		}
		if hit {
			score += float64(c.Weight)
			matched = appendUnique(matched, c.Name)
		}
	}

	if strings.Contains(title, "sec") && !contains(matched, "CRITICAL") && !contains(matched, secCategory) {
		score += secBonus
		matched = append(matched, secCategory)
	}

	if strings.Contains(title, "bitcoin") || btcWord.MatchString(title) {
		score *= bitcoinBoost
	}
	if amountPattern.MatchString(title) {
		score *= amountBoost
	}

	score *= r.SourceWeight

	return int(math.RoundToEven(score)), matched
}

// Annotate scores r in place and returns it.
func (s *Scorer) Annotate(r Record) Record {
	r.Score, r.Categories = s.Score(r)
	return r
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		if k = strings.ToLower(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func appendUnique(list []string, v string) []string {
	if contains(list, v) {
		return list
	}
	return append(list, v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
