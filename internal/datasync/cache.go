// Package datasync keeps the in-process snapshot of every content collection
// and synchronizes it with the remote collection store.
package datasync

import (
	"slices"
	"sync"

	"github.com/jonathan/portfolio/internal/content"
)

// Cache holds the current ordered records of each collection and the number
// of bulk loads in flight. Readers always get copies; every mutation is applied
// under one lock so a reader never sees a half-applied change.
type Cache struct {
	mu       sync.RWMutex
	items    map[content.Collection][]content.Record
	inFlight int
	loaded   bool
}

// NewCache returns an empty cache. It reports loading until the first bulk
// load finishes.
func NewCache() *Cache {
	items := make(map[content.Collection][]content.Record, 8)
	for _, c := range content.Collections() {
		items[c] = nil
	}
	return &Cache{items: items}
}

// Loading reports whether a bulk load is in progress or none has finished yet.
func (c *Cache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inFlight > 0 || !c.loaded
}

// BeginLoad marks the start of a bulk load. Every call must be paired with
// EndLoad; overlapping loads keep the cache loading until the last one ends.
func (c *Cache) BeginLoad() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight++
}

// EndLoad marks the end of a bulk load started with BeginLoad.
func (c *Cache) EndLoad() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight > 0 {
		c.inFlight--
	}
	c.loaded = true
}

// Items returns a copy of the records of collection col.
func (c *Cache) Items(col content.Collection) []content.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items[col])
}

// Len returns the number of records held for col.
func (c *Cache) Len(col content.Collection) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items[col])
}

// Counts returns the number of records held per collection.
func (c *Cache) Counts() map[content.Collection]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[content.Collection]int, len(c.items))
	for col, items := range c.items {
		out[col] = len(items)
	}
	return out
}

// Find returns the record of col with the given id.
func (c *Cache) Find(col content.Collection, id string) (content.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx := indexOf(c.items[col], id)
	if idx < 0 {
		return nil, false
	}
	return c.items[col][idx], true
}

// Replace swaps in a whole new ordered list for col.
func (c *Cache) Replace(col content.Collection, records []content.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[col] = slices.Clone(records)
}

// Prepend puts rec at the front of col.
func (c *Cache) Prepend(col content.Collection, rec content.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[col] = slices.Insert(slices.Clone(c.items[col]), 0, rec)
}

// ReplaceByID swaps the record of col whose id is id for rec, keeping its
// position. It reports whether a record was replaced.
func (c *Cache) ReplaceByID(col content.Collection, id string, rec content.Record) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := indexOf(c.items[col], id)
	if idx < 0 {
		return false
	}
	next := slices.Clone(c.items[col])
	next[idx] = rec
	c.items[col] = next
	return true
}

// RemoveByID drops the record of col whose id is id. It reports whether a
// record was removed.
func (c *Cache) RemoveByID(col content.Collection, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := indexOf(c.items[col], id)
	if idx < 0 {
		return false
	}
	c.items[col] = slices.Delete(slices.Clone(c.items[col]), idx, idx+1)
	return true
}

func indexOf(items []content.Record, id string) int {
	return slices.IndexFunc(items, func(r content.Record) bool { return r.RecordID() == id })
}

// itemsOf returns the records of col that are of variant T.
func itemsOf[T content.Record](c *Cache, col content.Collection) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.items[col]))
	for _, r := range c.items[col] {
		if v, ok := r.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func (c *Cache) Skills() []content.Skill {
	return itemsOf[content.Skill](c, content.CollectionSkills)
}

func (c *Cache) Experiences() []content.Experience {
	return itemsOf[content.Experience](c, content.CollectionExperiences)
}

func (c *Cache) Education() []content.Education {
	return itemsOf[content.Education](c, content.CollectionEducation)
}

func (c *Cache) Projects() []content.Project {
	return itemsOf[content.Project](c, content.CollectionProjects)
}

func (c *Cache) Testimonials() []content.Testimonial {
	return itemsOf[content.Testimonial](c, content.CollectionTestimonials)
}

func (c *Cache) BlogPosts() []content.BlogPost {
	return itemsOf[content.BlogPost](c, content.CollectionBlogPosts)
}

func (c *Cache) Stats() []content.Stat {
	return itemsOf[content.Stat](c, content.CollectionStats)
}

func (c *Cache) Brands() []content.Brand {
	return itemsOf[content.Brand](c, content.CollectionBrands)
}
