package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type item struct {
	data      []byte
	expiresAt time.Time
}

// LRU is an in-process cache bounded by entry count.
type LRU struct {
	entries *lru.Cache[string, item]
	now     func() time.Time
}

func NewLRU(size int) (*LRU, error) {
	l, err := lru.New[string, item](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &LRU{entries: l, now: time.Now}, nil
}

func (c *LRU) Get(_ context.Context, key string) ([]byte, bool) {
	val, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if c.now().After(val.expiresAt) {
		c.entries.Remove(key)
		return nil, false
	}
	return val.data, true
}

func (c *LRU) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.entries.Add(key, item{data: value, expiresAt: c.now().Add(ttl)})
}

func (c *LRU) Invalidate(context.Context) {
	c.entries.Purge()
}
