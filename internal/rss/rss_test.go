package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
<channel>
  <title>Sample</title>
  <link>https://example.com</link>
  <description>sample</description>
  <item>
    <title>  SEC approves spot Bitcoin ETF  </title>
    <link>https://example.com/a</link>
    <description><![CDATA[<p>The <b>SEC</b> &amp; friends</p>]]></description>
    <pubDate>Mon, 02 Jan 2006 15:04:05 +0000</pubDate>
    <media:content url="https://img.example.com/a.jpg" medium="image"/>
  </item>
  <item>
    <title>Second story</title>
    <link>https://example.com/b</link>
    <description>plain</description>
    <enclosure url="https://img.example.com/b.jpg" type="image/jpeg" length="1"/>
  </item>
</channel>
</rss>`

func TestFetch_NormalizesItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f := NewFetcher(5*time.Second, 2, map[string]int{"coindesk": 2})
	f.now = func() time.Time { return fixed }

	recs, err := f.Fetch(context.Background(), Source{Name: "coindesk", URL: srv.URL, Priority: 1, WeightMultiplier: 1.2})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}

	a := recs[0]
	if a.Title != "SEC approves spot Bitcoin ETF" {
		t.Errorf("title not trimmed: %q", a.Title)
	}
	if a.Summary != "The SEC & friends" {
		t.Errorf("summary = %q", a.Summary)
	}
	if a.ImageURL != "https://img.example.com/a.jpg" {
		t.Errorf("image = %q", a.ImageURL)
	}
	if a.SourcePriority != 2 {
		t.Errorf("priority table should override source priority, got %d", a.SourcePriority)
	}
	if a.SourceWeight != 1.2 || a.Source != "coindesk" {
		t.Errorf("source fields = %+v", a)
	}
	if a.PublishedAt.Year() != 2006 {
		t.Errorf("published = %v", a.PublishedAt)
	}

	b := recs[1]
	if b.ImageURL != "https://img.example.com/b.jpg" {
		t.Errorf("enclosure image = %q", b.ImageURL)
	}
	if !b.PublishedAt.Equal(fixed) {
		t.Errorf("missing date should default to now, got %v", b.PublishedAt)
	}
}

func TestFetchAll_SkipsFailingSources(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleFeed))
	}))
	defer ok.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer bad.Close()

	f := NewFetcher(5*time.Second, 4, nil)
	recs := f.FetchAll(context.Background(), []Source{
		{Name: "broken", URL: bad.URL, Priority: 1, WeightMultiplier: 1},
		{Name: "decrypt", URL: ok.URL, Priority: 6, WeightMultiplier: 1},
	})
	if len(recs) != 2 {
		t.Fatalf("expected 2 records from the healthy source, got %d", len(recs))
	}
	for _, r := range recs {
		if r.Source != "decrypt" || r.SourcePriority != 6 {
			t.Errorf("unexpected record %+v", r)
		}
	}
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sources.yaml")
	data := `sources:
  - name: coindesk
    url: https://www.coindesk.com/arc/outboundfeeds/rss/
    priority: 1
    weight_multiplier: 1.2
  - name: decrypt
    url: https://decrypt.co/feed
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	srcs, err := LoadSources(path)
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	if len(srcs) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(srcs))
	}
	if srcs[1].Priority != 1 {
		t.Errorf("missing priority should default to 1, got %d", srcs[1].Priority)
	}
	if srcs[1].WeightMultiplier != 1.0 {
		t.Errorf("missing weight should default to 1.0, got %v", srcs[1].WeightMultiplier)
	}
	if srcs[0].WeightMultiplier != 1.2 {
		t.Errorf("expected weight 1.2, got %v", srcs[0].WeightMultiplier)
	}
}

func TestLoadSources_RejectsIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	os.WriteFile(path, []byte("sources:\n  - name: x\n"), 0644)
	if _, err := LoadSources(path); err == nil {
		t.Fatal("expected error for source without url")
	}
}
