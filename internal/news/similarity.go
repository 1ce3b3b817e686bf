package news

import (
	"regexp"
	"strings"
)

// nonWord matches anything that is neither a word character nor whitespace.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// tokenize lower-cases s, strips punctuation and returns the set of words.
func tokenize(s string) map[string]struct{} {
	s = nonWord.ReplaceAllString(strings.ToLower(s), "")
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Similarity returns the Jaccard index of the word sets of a and b.
// It is 0 when either side has no words.
func Similarity(a, b string) float64 {
	ta := tokenize(a)
	tb := tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	inter := 0
	for w := range ta {
		if _, ok := tb[w]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}
