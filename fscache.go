// Package fscache tracks which files are cached on a node's local disk on
// behalf of remote-backed indices.
//
// Entries are keyed by canonical (symlink-resolved) path: the same file must
// map to the same key no matter which logical view it was reached through, so
// callers canonicalize before Put and Remove. The cache records bookkeeping
// only; it never touches the files themselves and carries no eviction policy.
//
// Keys are hash-partitioned across internal shards, each behind its own lock,
// so concurrent Put/Get/Remove from many goroutines do not contend on a
// single mutex.
package fscache

import (
	"hash/fnv"
	"sync"
)

const defaultNumShards = 16

// Stats is a point-in-time summary of cache contents.
type Stats struct {
	Entries   int
	SizeBytes int64
}

type entry struct {
	size int64
}

type cacheShard struct {
	mu      sync.RWMutex
	entries map[string]entry
	size    int64
}

// Cache is a concurrency-safe registry of locally cached files.
type Cache struct {
	shards []*cacheShard
}

// Option configures a Cache.
type Option func(*Cache)

// WithNumShards sets the number of internal lock shards. Values <= 0 fall
// back to the default.
func WithNumShards(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.shards = make([]*cacheShard, n)
		}
	}
}

// New creates an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{}
	for _, opt := range opts {
		opt(c)
	}
	if c.shards == nil {
		c.shards = make([]*cacheShard, defaultNumShards)
	}
	for i := range c.shards {
		c.shards[i] = &cacheShard{entries: make(map[string]entry)}
	}
	return c
}

func (c *Cache) shardFor(path string) *cacheShard {
	h := fnv.New32a()
	h.Write([]byte(path))
	return c.shards[h.Sum32()%uint32(len(c.shards))]
}

// Put inserts or replaces the entry for a canonical path.
func (c *Cache) Put(path string, size int64) {
	s := c.shardFor(path)
	s.mu.Lock()
	if old, ok := s.entries[path]; ok {
		s.size -= old.size
	}
	s.entries[path] = entry{size: size}
	s.size += size
	s.mu.Unlock()
}

// Get returns the recorded size for a canonical path.
func (c *Cache) Get(path string) (int64, bool) {
	s := c.shardFor(path)
	s.mu.RLock()
	e, ok := s.entries[path]
	s.mu.RUnlock()
	return e.size, ok
}

// Remove drops the entry for a canonical path. Removing an absent path is a
// no-op. Safe under concurrent invocation from multiple goroutines.
func (c *Cache) Remove(path string) {
	s := c.shardFor(path)
	s.mu.Lock()
	if e, ok := s.entries[path]; ok {
		s.size -= e.size
		delete(s.entries, path)
	}
	s.mu.Unlock()
}

// Len returns the number of tracked entries.
func (c *Cache) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}

// Stats returns a point-in-time summary. Shards are read independently, so
// the summary is approximate while writers are active.
func (c *Cache) Stats() Stats {
	var st Stats
	for _, s := range c.shards {
		s.mu.RLock()
		st.Entries += len(s.entries)
		st.SizeBytes += s.size
		s.mu.RUnlock()
	}
	return st
}
