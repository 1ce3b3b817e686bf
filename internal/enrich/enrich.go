// Package enrich asks a text-generation model for an "Alpha Take" on a
// selected record: one line of insight, a strength/sentiment context and
// two hashtags. Enrichment is optional; every failure yields no annotation.
package enrich

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/deusflow/cryptonews/internal/news"
)

// Annotation is the structured result attached to a published record.
type Annotation struct {
	Insight  string   `json:"insight"`
	Context  string   `json:"context,omitempty"`
	Hashtags []string `json:"hashtags,omitempty"`
}

// Annotator is one text-generation backend. Complete returns the raw model output.
type Annotator interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
}

const systemPrompt = `You are a crypto market analyst writing for regular investors.

TASK: Analyze the news and provide VALUE-ADDED insight, NOT a summary of the headline.

OUTPUT FORMAT (MANDATORY):
ALPHA_TAKE: [One sentence with NEW INSIGHT not in the headline. Explain the IMPLICATION or CONSEQUENCE for investors. Do not repeat facts from the title.]

CONTEXT: [Strength] [Sentiment]
Sentiment options: Neutral | Negative | Positive
Strength options: Low | Medium | Strong
Example: "Strong positive" or "Medium negative"

HASHTAGS: [Exactly 2 short hashtags from this list ONLY: %s]

RULES:
- The Alpha Take must add value, not restate the headline
- Never repeat the company name or action from the headline
- Focus on why it matters, what happens next, who benefits or loses
- Context must be exactly "[Strength] [Sentiment]"
- Hashtags: exactly 2, short, from the allowed list only`

// Impact buckets a score for the prompt.
func Impact(score int) string {
	switch {
	case score >= 80:
		return "HIGH"
	case score >= 60:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// BuildPrompts returns the system and user prompts for r.
func BuildPrompts(r news.Record, allowed []string) (string, string) {
	summary := r.Summary
	if summary == "" {
		summary = "No summary available"
	}
	user := fmt.Sprintf(`News Title: %s

Summary: %s

Score: %d | Impact: %s
Categories: %s
Source: %s

Generate Alpha Take, Context, and Hashtags.`,
		r.Title, summary, r.Score, Impact(r.Score), strings.Join(r.Categories, ", "), strings.ToUpper(r.Source))

	return fmt.Sprintf(systemPrompt, strings.Join(allowed, " ")), user
}

var (
	hashtagRe     = regexp.MustCompile(`#\w+`)
	contextPrefix = regexp.MustCompile(`[Cc]ontext:?\s*`)
)

const minInsightLen = 10

// Parse reads the labelled model output. When no ALPHA_TAKE label is present
// the whole content is the insight. ok is false when the insight is too short.
func Parse(content string, allowed []string) (*Annotation, bool) {
	content = strings.TrimSpace(content)

	var insight, ctxLine, tags string
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "ALPHA_TAKE:"):
			insight = strings.TrimSpace(strings.TrimPrefix(line, "ALPHA_TAKE:"))
		case strings.HasPrefix(line, "CONTEXT:"):
			ctxLine = strings.TrimSpace(strings.TrimPrefix(line, "CONTEXT:"))
		case strings.HasPrefix(line, "HASHTAGS:"):
			tags = strings.TrimSpace(strings.TrimPrefix(line, "HASHTAGS:"))
		}
	}
	if insight == "" {
		insight = content
	}
	if utf8.RuneCountInString(insight) <= minInsightLen {
		return nil, false
	}

	return &Annotation{
		Insight:  insight,
		Context:  strings.TrimSpace(contextPrefix.ReplaceAllString(ctxLine, "")),
		Hashtags: FilterHashtags(tags, allowed),
	}, true
}

// FilterHashtags keeps at most two tags: allowed ones up to 15 characters and
// any tag up to 12 characters.
func FilterHashtags(raw string, allowed []string) []string {
	allow := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		allow[a] = true
	}

	var out []string
	for _, tag := range hashtagRe.FindAllString(raw, -1) {
		n := utf8.RuneCountInString(tag)
		if (n <= 15 && allow[tag]) || n <= 12 {
			out = append(out, tag)
		}
		if len(out) == 2 {
			break
		}
	}
	return out
}
