// Package scraper turns the HTML fragments found in feed descriptions into
// plain text and pulls inline images out of them.
package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips tags and decodes entities, collapsing whitespace.
func PlainText(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}
	if !strings.ContainsAny(fragment, "<&") {
		return cleanContent(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return cleanContent(fragment)
	}
	doc.Find("script, style, noscript").Remove()

	// Keep paragraph boundaries as spaces so words do not run together.
	doc.Find("p, br, li, div, h1, h2, h3, h4").Each(func(i int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	return cleanContent(doc.Text())
}

// FirstImage returns the src of the first <img> in fragment, if any.
func FirstImage(fragment string) string {
	if !strings.Contains(fragment, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	var src string
	doc.Find("img").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if v, ok := s.Attr("src"); ok && strings.HasPrefix(v, "http") {
			src = v
			return false
		}
		return true
	})
	return src
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// cleanContent collapses all runs of whitespace into single spaces.
func cleanContent(content string) string {
	return strings.Join(strings.Fields(content), " ")
}
