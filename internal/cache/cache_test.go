package cache

import (
	"testing"
	"time"
)

func TestCacheExpiry(t *testing.T) {
	c := New[string](0)
	defer c.Close()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("a", "alpha", time.Minute)
	if v, ok := c.Get("a"); !ok || v != "alpha" {
		t.Fatalf("expected hit, got %q %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be removed on read, len=%d", c.Len())
	}
}

func TestCacheCleanup(t *testing.T) {
	c := New[int](0)
	defer c.Close()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	c.Set("short", 1, time.Second)
	c.Set("long", 2, time.Hour)

	now = now.Add(time.Minute)
	c.cleanup()

	if c.Len() != 1 {
		t.Fatalf("expected 1 item after sweep, got %d", c.Len())
	}
	if _, ok := c.Get("long"); !ok {
		t.Fatal("long-lived item should survive")
	}
}

func TestKeyIsStable(t *testing.T) {
	if Key("a", "bc") != Key("a", "bc") {
		t.Fatal("key must be deterministic")
	}
	if Key("a", "bc") == Key("ab", "c") {
		t.Fatal("part boundaries must affect the key")
	}
}

func TestCloseTwice(t *testing.T) {
	c := New[int](time.Hour)
	c.Close()
	c.Close()
}
