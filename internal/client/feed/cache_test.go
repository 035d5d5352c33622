package feed

import (
	"sync"
	"testing"
	"time"

	"github.com/phototrail/cli/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(id int, createdAt time.Time) models.Post {
	return models.Post{ID: id, UserName: "ann", Text: "post", CreatedAt: createdAt}
}

func TestCache_MergePage_Idempotent(t *testing.T) {
	now := time.Now().UTC()
	page := Page{
		1: post(1, now),
		2: post(2, now.Add(-time.Minute)),
	}

	c := NewCache()
	c.MergePage(page)
	once := c.Sorted()

	c.MergePage(page)
	twice := c.Sorted()

	assert.Equal(t, once, twice)
	assert.Equal(t, 2, c.Len())
}

func TestCache_MergePage_CommutativeOnDisjointPages(t *testing.T) {
	now := time.Now().UTC()
	p1 := Page{1: post(1, now), 2: post(2, now.Add(-time.Minute))}
	p2 := Page{3: post(3, now.Add(-2 * time.Minute)), 4: post(4, now.Add(-3 * time.Minute))}

	a := NewCache()
	a.MergePage(p1)
	a.MergePage(p2)

	b := NewCache()
	b.MergePage(p2)
	b.MergePage(p1)

	assert.Equal(t, a.Sorted(), b.Sorted())
}

func TestCache_Update_ReadsLiveState(t *testing.T) {
	now := time.Now().UTC()
	c := NewCache()
	c.Put(post(1, now))

	// A mutation landing between two updates must be visible to the second
	// one: each update receives the live value, not a snapshot.
	c.Update(1, func(p models.Post) models.Post {
		p.Likes = append(p.Likes, models.Like{UserID: 7, UserName: "bob"})
		return p
	})
	c.Update(1, func(p models.Post) models.Post {
		require.Len(t, p.Likes, 1)
		p.Likes = append(p.Likes, models.Like{UserID: 8, UserName: "eve"})
		return p
	})

	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Len(t, got.Likes, 2)
}

func TestCache_Update_MissingPost(t *testing.T) {
	c := NewCache()
	ok := c.Update(42, func(p models.Post) models.Post { return p })
	assert.False(t, ok)
}

func TestCache_Get_ReturnsCopy(t *testing.T) {
	now := time.Now().UTC()
	c := NewCache()
	p := post(1, now)
	p.Likes = []models.Like{{UserID: 1, UserName: "ann"}}
	c.Put(p)

	got, ok := c.Get(1)
	require.True(t, ok)
	got.Likes[0].UserName = "mallory"

	fresh, _ := c.Get(1)
	assert.Equal(t, "ann", fresh.Likes[0].UserName)
}

func TestCache_Sorted_NewestFirstWithIDTiebreak(t *testing.T) {
	now := time.Now().UTC()
	c := NewCache()
	c.Put(post(1, now.Add(-time.Hour)))
	c.Put(post(2, now))
	c.Put(post(3, now)) // same timestamp as 2

	sorted := c.Sorted()
	require.Len(t, sorted, 3)
	assert.Equal(t, 3, sorted[0].ID)
	assert.Equal(t, 2, sorted[1].ID)
	assert.Equal(t, 1, sorted[2].ID)
}

func TestCache_Delete(t *testing.T) {
	now := time.Now().UTC()
	c := NewCache()
	c.Put(post(1, now))
	c.Delete(1)

	_, ok := c.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_Reset(t *testing.T) {
	now := time.Now().UTC()
	c := NewCache()
	c.MergePage(Page{1: post(1, now), 2: post(2, now)})
	c.Reset()
	assert.Equal(t, 0, c.Len())
}

func TestCache_ConcurrentMergeAndUpdate(t *testing.T) {
	now := time.Now().UTC()
	c := NewCache()
	c.Put(post(1, now))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.MergePage(Page{1: post(1, now)})
		}(i)
		go func(i int) {
			defer wg.Done()
			c.Update(1, func(p models.Post) models.Post { return p })
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, c.Len())
}
