package cache

import (
	"testing"
)

func TestHighlightCache_GetSet(t *testing.T) {
	c := NewHighlightCache(2)
	if v, ok := c.Get("a"); ok || v != nil {
		t.Fatal("expected miss")
	}
	c.Set("a", []string{"CamA"})
	v, ok := c.Get("a")
	if !ok || len(v) != 1 || v[0] != "CamA" {
		t.Errorf("Get: got %v, %v", v, ok)
	}
	c.Set("b", []string{})
	// a becomes most recent, so adding c evicts b.
	c.Get("a")
	c.Set("c", []string{"CamC"})
	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to remain")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestHighlightCache_ReturnsCopies(t *testing.T) {
	c := NewHighlightCache(4)
	names := []string{"CamA"}
	c.Set("k", names)
	names[0] = "changed"
	got, _ := c.Get("k")
	got[0] = "mutated"
	again, _ := c.Get("k")
	if again[0] != "CamA" {
		t.Errorf("cached value leaked mutation: %v", again)
	}
}

func TestHighlightCache_DisabledAndPurge(t *testing.T) {
	off := NewHighlightCache(0)
	off.Set("k", []string{"x"})
	if _, ok := off.Get("k"); ok {
		t.Error("zero capacity should not cache")
	}

	c := NewHighlightCache(4)
	c.Set(Key("v1", "lens"), []string{"CamA"})
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len after Purge = %d", c.Len())
	}
}
