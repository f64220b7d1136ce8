// Package cache provides a size-bounded LRU cache.
package cache

import (
	"sync"
	"sync/atomic"
)

// DefaultMaxSize is the default weight limit of an LRU (16 MiB of source).
const DefaultMaxSize = 16 << 20

// LRU maps keys to values and evicts the least recently used entries once
// the summed entry weights exceed the limit. It is safe for concurrent use.
type LRU[K comparable, V any] struct {
	mu          sync.Mutex
	entries     map[K]*lruEntry[K, V]
	head        *lruEntry[K, V] // Most recently used.
	tail        *lruEntry[K, V] // Least recently used.
	maxSize     int64
	currentSize int64

	hits   atomic.Int64
	misses atomic.Int64
}

type lruEntry[K comparable, V any] struct {
	key   K
	value V
	size  int64
	prev  *lruEntry[K, V]
	next  *lruEntry[K, V]
}

// Stats is a snapshot of cache usage.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
	Size    int64
	MaxSize int64
}

// HitRate returns hits / (hits + misses), or zero before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// NewLRU creates a cache holding at most maxSize total weight. A
// non-positive maxSize uses DefaultMaxSize.
func NewLRU[K comparable, V any](maxSize int64) *LRU[K, V] {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	return &LRU[K, V]{
		entries: make(map[K]*lruEntry[K, V]),
		maxSize: maxSize,
	}
}

// Get returns the value for key and marks it as recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)

		var zero V

		return zero, false
	}

	c.hits.Add(1)
	c.moveToFront(entry)

	return entry.value, true
}

// Put stores value under key with the given weight. Values heavier than the
// whole cache are not stored.
func (c *LRU[K, V]) Put(key K, value V, size int64) {
	if size > c.maxSize {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		c.currentSize += size - entry.size
		entry.value = value
		entry.size = size
		c.moveToFront(entry)
	} else {
		entry := &lruEntry[K, V]{key: key, value: value, size: size}
		c.entries[key] = entry
		c.currentSize += size
		c.addToFront(entry)
	}

	for c.currentSize > c.maxSize && c.tail != nil {
		c.removeEntry(c.tail)
	}
}

// Remove drops key from the cache.
func (c *LRU[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		c.removeEntry(entry)
	}
}

// Len returns the number of entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: len(c.entries),
		Size:    c.currentSize,
		MaxSize: c.maxSize,
	}
}

func (c *LRU[K, V]) addToFront(entry *lruEntry[K, V]) {
	entry.prev = nil
	entry.next = c.head

	if c.head != nil {
		c.head.prev = entry
	}

	c.head = entry

	if c.tail == nil {
		c.tail = entry
	}
}

func (c *LRU[K, V]) unlink(entry *lruEntry[K, V]) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		c.head = entry.next
	}

	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		c.tail = entry.prev
	}

	entry.prev = nil
	entry.next = nil
}

func (c *LRU[K, V]) moveToFront(entry *lruEntry[K, V]) {
	if c.head == entry {
		return
	}

	c.unlink(entry)
	c.addToFront(entry)
}

func (c *LRU[K, V]) removeEntry(entry *lruEntry[K, V]) {
	c.unlink(entry)
	delete(c.entries, entry.key)
	c.currentSize -= entry.size
}
