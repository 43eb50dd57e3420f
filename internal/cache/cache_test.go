package cache

import (
	"context"
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	c, err := NewLRU(10)
	if err != nil {
		t.Fatalf("NewLRU failed: %v", err)
	}
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("Expected miss for unknown key")
	}

	c.Set(ctx, "index:1", []byte("page"), time.Minute)
	got, ok := c.Get(ctx, "index:1")
	if !ok || string(got) != "page" {
		t.Errorf("Expected cached page, got %q (%v)", got, ok)
	}
}

func TestLRUExpiry(t *testing.T) {
	c, _ := NewLRU(10)
	ctx := context.Background()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", []byte("v"), time.Second)
	now = now.Add(2 * time.Second)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("Expected expired entry to be dropped")
	}
	if c.entries.Len() != 0 {
		t.Errorf("Expected expired entry removed, %d left", c.entries.Len())
	}
}

func TestLRUInvalidate(t *testing.T) {
	c, _ := NewLRU(10)
	ctx := context.Background()
	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Minute)

	c.Invalidate(ctx)

	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("Expected a to be invalidated")
	}
	if _, ok := c.Get(ctx, "b"); ok {
		t.Error("Expected b to be invalidated")
	}
}

func TestNopNeverHits(t *testing.T) {
	var c Cache = Nop{}
	ctx := context.Background()
	c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("Nop cache returned a value")
	}
}
