package cache

import "github.com/stormlightlabs/clipstash/internal/clip"

// DefaultCapacity is the number of entries kept in memory.
const DefaultCapacity = 256

// Clips is a bounded cache of materialised clips keyed by id. Clips never
// change after insert, so entries only leave on eviction or deletion.
type Clips struct {
	lru *LRU[int64, clip.Clip]
}

// NewClips creates a cache holding up to capacity clips.
func NewClips(capacity int) *Clips {
	return &Clips{lru: NewLRU[int64, clip.Clip](capacity)}
}

// Get returns a cached clip and marks it recently used.
func (c *Clips) Get(id int64) (clip.Clip, bool) { return c.lru.Get(id) }

// Put stores a clip, evicting the least recently used one when full.
func (c *Clips) Put(cl clip.Clip) { c.lru.Put(cl.ID, cl) }

// Delete drops a clip from the cache.
func (c *Clips) Delete(id int64) { c.lru.Delete(id) }

// Clear drops every entry.
func (c *Clips) Clear() { c.lru.Clear() }

// Len returns the number of cached clips.
func (c *Clips) Len() int { return c.lru.Len() }
