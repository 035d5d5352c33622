// Package models defines the feed entities exchanged with the Phototrail API
// and held in the local feed cache.
package models

import "time"

// Like records that a user liked a post.
type Like struct {
	UserID   int    `json:"user_id"`
	UserName string `json:"user_name"`
}

// Comment is a single comment on a post. Comments keep their append order;
// CreatedAt is informational and does not drive ordering.
type Comment struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	UserName  string    `json:"user_name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Post is a feed entry. Identity is the server-assigned ID. Likes and
// Comments may be nil, meaning "unknown, not yet loaded" as opposed to
// "known empty".
type Post struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	UserName  string    `json:"user_name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Images    []string  `json:"images"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
}

// LikedBy reports whether the given user is present in the post's likes.
func (p Post) LikedBy(userID int) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the post, so a caller can hold or mutate it
// without aliasing cache-resident slices.
func (p Post) Clone() Post {
	c := p
	if p.Images != nil {
		c.Images = append([]string(nil), p.Images...)
	}
	if p.Likes != nil {
		c.Likes = append([]Like(nil), p.Likes...)
	}
	if p.Comments != nil {
		c.Comments = append([]Comment(nil), p.Comments...)
	}
	return c
}

// User identifies the authenticated account, as returned by the API.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
