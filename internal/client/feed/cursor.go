package feed

import (
	"net/url"
	"strconv"
	"time"
)

// Cursor is the pagination parameter set for one feed fetch. From is the
// exclusive upper bound on created_at; the zero value means no bound (first
// page).
type Cursor struct {
	Limit int
	From  time.Time
}

// Query renders the cursor as feed query parameters.
func (c Cursor) Query() url.Values {
	v := make(url.Values)
	v.Set("limit", strconv.Itoa(c.Limit))
	if !c.From.IsZero() {
		v.Set("from", c.From.UTC().Format(time.RFC3339))
	}
	return v
}

// NextCursor decides the cursor for the fetch after previous, or reports that
// pagination is over.
//
//   - pageIndex 0: page size only, no time bound.
//   - previous absent, empty, or smaller than pageSize: last page, stop.
//   - otherwise: bound the next fetch to items older than the oldest entry of
//     previous. The oldest entry is chosen by (created_at, then id) so the
//     choice is deterministic when timestamps tie.
func NextCursor(pageIndex int, previous Page, pageSize int) (Cursor, bool) {
	if pageIndex == 0 {
		return Cursor{Limit: pageSize}, true
	}
	if len(previous) == 0 || len(previous) < pageSize {
		return Cursor{}, false
	}

	var from time.Time
	var fromID int
	first := true
	for id, p := range previous {
		switch {
		case first, p.CreatedAt.Before(from):
			from, fromID, first = p.CreatedAt, id, false
		case p.CreatedAt.Equal(from) && id < fromID:
			fromID = id
		}
	}
	return Cursor{Limit: pageSize, From: from}, true
}
