package news

import "testing"

func titles(rs []Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Title
	}
	return out
}

func equalTitles(t *testing.T, got []Record, want ...string) {
	t.Helper()
	g := titles(got)
	if len(g) != len(want) {
		t.Fatalf("got %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("got %v, want %v", g, want)
		}
	}
}

func TestDeduplicatePrefersLowerPriority(t *testing.T) {
	in := []Record{
		{Title: "Fed Raises Rates Again", Source: "decrypt", SourcePriority: 6, Score: 300},
		{Title: "Fed raises rates", Source: "coindesk", SourcePriority: 1, Score: 180},
	}
	equalTitles(t, Deduplicate(in, 0.5), "Fed raises rates")
}

func TestDeduplicateScoreBreaksPriorityTie(t *testing.T) {
	in := []Record{
		{Title: "Bitcoin ETF approved by SEC", SourcePriority: 2, Score: 100},
		{Title: "SEC: Bitcoin ETF approved", SourcePriority: 2, Score: 150},
		{Title: "Solana outage halts network", SourcePriority: 3, Score: 40},
	}
	got := Deduplicate(in, 0.5)
	equalTitles(t, got, "SEC: Bitcoin ETF approved", "Solana outage halts network")
}

func TestDeduplicateIsNotTransitive(t *testing.T) {
	// x~y and y~z are at the threshold, x~z is not: y goes, z stays.
	in := []Record{
		{Title: "approved today officially", SourcePriority: 3},
		{Title: "bitcoin etf approved", SourcePriority: 1},
		{Title: "etf approved today", SourcePriority: 2},
	}
	equalTitles(t, Deduplicate(in, 0.5), "bitcoin etf approved", "approved today officially")
}

func TestDeduplicateStableOnFullTie(t *testing.T) {
	in := []Record{
		{Title: "first unrelated story", SourcePriority: 1, Score: 50},
		{Title: "second different headline", SourcePriority: 1, Score: 50},
	}
	equalTitles(t, Deduplicate(in, 0.5), "first unrelated story", "second different headline")
}

func TestDeduplicateEmpty(t *testing.T) {
	if got := Deduplicate(nil, 0.5); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}

func TestDeduplicateDoesNotReorderInput(t *testing.T) {
	in := []Record{
		{Title: "b", SourcePriority: 2},
		{Title: "a", SourcePriority: 1},
	}
	Deduplicate(in, 0.5)
	if in[0].Title != "b" {
		t.Fatal("input slice was reordered")
	}
}
