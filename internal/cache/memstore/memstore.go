// Package memstore is an in-process LRU response cache, the default
// when no redis address is configured.
package memstore

import (
	"context"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/anguswg-ucsb/cdssgo/internal/observability"
)

type entry struct {
	val     []byte
	expires time.Time
}

type Store struct {
	lru *lru.Cache[string, entry]
	now func() time.Time
}

func New(size int) (*Store, error) {
	if size <= 0 {
		size = 1024
	}
	c, err := lru.New[string, entry](size)
	if err != nil {
		return nil, err
	}
	return &Store{lru: c, now: time.Now}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	defer func() { observability.ObserveCacheOp("get", nil, time.Since(start).Seconds()) }()

	e, ok := s.lru.Get(key)
	if !ok {
		observability.IncCacheMiss()
		return nil, false, nil
	}
	if s.now().After(e.expires) {
		s.lru.Remove(key)
		observability.IncCacheMiss()
		return nil, false, nil
	}
	observability.IncCacheHit()
	return e.val, true, nil
}

func (s *Store) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	start := time.Now()
	s.lru.Add(key, entry{val: val, expires: s.now().Add(ttl)})
	observability.ObserveCacheOp("set", nil, time.Since(start).Seconds())
	return nil
}

func (s *Store) DelPrefix(_ context.Context, prefix string) (int, error) {
	start := time.Now()
	n := 0
	for _, k := range s.lru.Keys() {
		if strings.HasPrefix(k, prefix) {
			s.lru.Remove(k)
			n++
		}
	}
	observability.ObserveCacheOp("delprefix", nil, time.Since(start).Seconds())
	return n, nil
}

func (s *Store) Close() error { return nil }
