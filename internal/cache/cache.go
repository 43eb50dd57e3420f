// Package cache holds short-lived listing data. Entries are opaque bytes;
// callers own the encoding.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get returns the value for key, or false if it is missing or expired.
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Invalidate drops every entry.
	Invalidate(ctx context.Context)
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Nop) Set(context.Context, string, []byte, time.Duration) {}
func (Nop) Invalidate(context.Context) {}
