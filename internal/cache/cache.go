// Package cache defines the response cache the proxy puts in front of
// the CDSS REST API.
package cache

import (
	"context"
	"strings"
	"time"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error

	// DelPrefix removes every key under the prefix and reports how many
	// were dropped. Invalidation works on prefixes because one upstream
	// change fans out over many filter combinations.
	DelPrefix(ctx context.Context, prefix string) (int, error)

	Close() error
}

// TTL resolves the cache lifetime for a resource. Overrides are keyed
// by service family (the first path segment, e.g. "referencetables").
type TTL struct {
	Default   time.Duration
	Overrides map[string]time.Duration
}

func (t TTL) For(resource string) time.Duration {
	family := resource
	if i := strings.IndexByte(resource, '/'); i >= 0 {
		family = resource[:i]
	}
	if d, ok := t.Overrides[family]; ok {
		return d
	}
	return t.Default
}
