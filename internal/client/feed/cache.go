// Package feed holds the client-side projection of the feed: a merged cache
// of posts keyed by id, and the cursor engine driving pagination.
package feed

import (
	"sort"
	"sync"

	"github.com/phototrail/cli/internal/client/models"
)

// Page is one pagination round's results, keyed by post id. It has the same
// shape as the cache restricted to that round.
type Page map[int]models.Post

// Cache is the merged, addressable projection of all fetched posts. It is a
// cache, not a ledger: the server remains the durable store and the cache can
// be discarded and rebuilt at any time.
//
// All mutation goes through methods holding the lock, so every handler reads
// the live state at call time. Merging is idempotent, and commutative for
// pages with disjoint id sets.
type Cache struct {
	mu    sync.RWMutex
	posts map[int]models.Post
}

func NewCache() *Cache {
	return &Cache{posts: make(map[int]models.Post)}
}

// Len returns the number of cached posts.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.posts)
}

// Get returns a copy of the post with the given id, if resident.
func (c *Cache) Get(id int) (models.Post, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.posts[id]
	if !ok {
		return models.Post{}, false
	}
	return p.Clone(), true
}

// Put inserts or replaces a post wholesale.
func (c *Cache) Put(p models.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts[p.ID] = p
}

// Delete removes the post with the given id, if resident.
func (c *Cache) Delete(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.posts, id)
}

// Update applies fn to the current value of the post under the lock and
// stores the result. fn receives a copy of the live value, never a stale
// snapshot. It reports whether the post was resident.
func (c *Cache) Update(id int, fn func(models.Post) models.Post) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.posts[id]
	if !ok {
		return false
	}
	c.posts[id] = fn(p.Clone())
	return true
}

// MergePage overlays a fetched page onto the cache. Page entries win on id
// collision; this is safe because every local mutation re-reads the live
// cache before writing, so a later merge can only be overwritten by a
// mutation that already saw it.
func (c *Cache) MergePage(page Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, p := range page {
		c.posts[id] = p
	}
}

// Reset discards every cached post.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts = make(map[int]models.Post)
}

// Sorted returns copies of the cached posts in display order: newest first,
// ties broken by descending id.
func (c *Cache) Sorted() []models.Post {
	c.mu.RLock()
	result := make([]models.Post, 0, len(c.posts))
	for _, p := range c.posts {
		result = append(result, p.Clone())
	}
	c.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}
