package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/phototrail/cli/internal/client/api"
	"github.com/phototrail/cli/internal/client/feed"
	"github.com/phototrail/cli/internal/client/models"
	"github.com/phototrail/cli/internal/client/session"
	"github.com/phototrail/cli/internal/common"
	"github.com/phototrail/cli/internal/logging"
)

// FeedService owns the feed cache and runs every mutation against it.
//
// Each handler is one logical operation: read the live cache, compute the
// next value, write it back, perform the network call, then reconcile on
// success or failure. Handlers read cache state through the cache's
// serialized accessors at invocation time, never from captured snapshots.
type FeedService struct {
	client   api.Client
	cache    *feed.Cache
	sessions *session.Manager
	logger   logging.Logger
	pageSize int

	// pages retains one entry per pagination round, in fetch order. It only
	// exists to compute the next cursor and detect the last page.
	mu    sync.Mutex
	pages []feed.Page
}

func NewFeedService(client api.Client, cache *feed.Cache, sessions *session.Manager, logger logging.Logger, pageSize int) *FeedService {
	return &FeedService{
		client:   client,
		cache:    cache,
		sessions: sessions,
		logger:   logger,
		pageSize: pageSize,
	}
}

// Posts returns the cached posts in display order.
func (s *FeedService) Posts() []models.Post {
	return s.cache.Sorted()
}

// Refresh fetches the first page and merges it, restarting pagination from
// the top. The cache itself is kept; merge semantics make the overlay safe.
func (s *FeedService) Refresh(ctx context.Context) error {
	cursor, _ := feed.NextCursor(0, nil, s.pageSize)
	page, err := s.client.Feed(ctx, cursor)
	if err != nil {
		return err
	}

	s.cache.MergePage(page)

	s.mu.Lock()
	s.pages = []feed.Page{page}
	s.mu.Unlock()
	return nil
}

// LoadMore fetches the next older page, if any, and merges it. It reports
// whether a page was fetched; false means pagination already reached the
// last page.
func (s *FeedService) LoadMore(ctx context.Context) (bool, error) {
	s.mu.Lock()
	index := len(s.pages)
	var previous feed.Page
	if index > 0 {
		previous = s.pages[index-1]
	}
	s.mu.Unlock()

	cursor, ok := feed.NextCursor(index, previous, s.pageSize)
	if !ok {
		return false, nil
	}

	page, err := s.client.Feed(ctx, cursor)
	if err != nil {
		return false, err
	}

	s.cache.MergePage(page)

	s.mu.Lock()
	s.pages = append(s.pages, page)
	s.mu.Unlock()
	return true, nil
}

// ToggleLike flips the current user's like on a post. The direction is
// decided from the live cache at call time. The cache is updated
// optimistically; if the server call fails, the handler's own contribution
// is reverted, leaving any concurrent toggles intact.
func (s *FeedService) ToggleLike(ctx context.Context, postID int) error {
	sess, ok := s.sessions.Current()
	if !ok {
		return session.ErrNoSession
	}

	var liked bool
	found := s.cache.Update(postID, func(p models.Post) models.Post {
		liked = p.LikedBy(sess.UserID)
		if liked {
			p.Likes = withoutLike(p.Likes, sess.UserID)
		} else {
			p.Likes = append(p.Likes, models.Like{UserID: sess.UserID, UserName: sess.UserName})
		}
		return p
	})
	if !found {
		return fmt.Errorf("post %d: %w", postID, common.ErrorNotFound)
	}

	var err error
	if liked {
		err = s.client.Unlike(ctx, postID)
	} else {
		err = s.client.Like(ctx, postID)
	}
	if err != nil {
		// Roll back: undo exactly this handler's change against the live
		// state, so a toggle issued meanwhile is not dropped.
		s.cache.Update(postID, func(p models.Post) models.Post {
			if liked {
				p.Likes = append(p.Likes, models.Like{UserID: sess.UserID, UserName: sess.UserName})
			} else {
				p.Likes = withoutLike(p.Likes, sess.UserID)
			}
			return p
		})
		return fmt.Errorf("toggling like: %w", err)
	}
	return nil
}

func withoutLike(likes []models.Like, userID int) []models.Like {
	result := make([]models.Like, 0, len(likes))
	for _, l := range likes {
		if l.UserID != userID {
			result = append(result, l)
		}
	}
	return result
}

// CreatePost publishes a new post with best-effort image attachment: the
// post is created first, then each image uploads independently; failed
// uploads are reported but do not retract the post or the other images.
//
// An empty submission (no text, no images) is rejected locally as a no-op
// before any network call.
func (s *FeedService) CreatePost(ctx context.Context, text string, images []io.Reader) (models.Post, error) {
	if text == "" && len(images) == 0 {
		return models.Post{}, nil
	}

	sess, ok := s.sessions.Current()
	if !ok {
		return models.Post{}, session.ErrNoSession
	}

	postID, err := s.client.CreatePost(ctx, text)
	if err != nil {
		return models.Post{}, fmt.Errorf("creating post: %w", err)
	}

	var paths []string
	var uploadErr error
	for _, image := range images {
		path, err := s.client.UploadImage(ctx, postID, image)
		if err != nil {
			uploadErr = errors.Join(uploadErr, err)
			continue
		}
		paths = append(paths, path)
	}

	post := models.Post{
		ID:        postID,
		UserID:    sess.UserID,
		UserName:  sess.UserName,
		Text:      text,
		CreatedAt: timeNow().UTC(),
		Images:    paths,
	}
	s.cache.Put(post)

	if uploadErr != nil {
		return post, fmt.Errorf("attaching images: %w", uploadErr)
	}
	return post, nil
}

// DeletePost removes a post. The cache entry is dropped only once the server
// acknowledges the deletion; removing it earlier would let the next merge
// resurrect a post whose deletion actually failed.
func (s *FeedService) DeletePost(ctx context.Context, postID int) error {
	if err := s.client.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	s.cache.Delete(postID)
	return nil
}

// CreateComment appends a comment to a post. The comment id is assigned by
// the server, so the local append happens only after the round-trip returns
// it.
func (s *FeedService) CreateComment(ctx context.Context, postID int, text string) error {
	sess, ok := s.sessions.Current()
	if !ok {
		return session.ErrNoSession
	}

	commentID, err := s.client.CreateComment(ctx, postID, text)
	if err != nil {
		return fmt.Errorf("creating comment: %w", err)
	}

	s.cache.Update(postID, func(p models.Post) models.Post {
		p.Comments = append(p.Comments, models.Comment{
			ID:        commentID,
			UserID:    sess.UserID,
			UserName:  sess.UserName,
			Text:      text,
			CreatedAt: timeNow().UTC(),
		})
		return p
	})
	return nil
}

// DeleteComment removes exactly the comment with the given id, preserving
// the order of the rest. The cache changes only after the server
// acknowledges.
func (s *FeedService) DeleteComment(ctx context.Context, postID, commentID int) error {
	if err := s.client.DeleteComment(ctx, postID, commentID); err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}

	s.cache.Update(postID, func(p models.Post) models.Post {
		comments := make([]models.Comment, 0, len(p.Comments))
		for _, c := range p.Comments {
			if c.ID != commentID {
				comments = append(comments, c)
			}
		}
		p.Comments = comments
		return p
	})
	return nil
}

// StartBackgroundRefresh periodically merges the newest page into the cache
// until ctx is cancelled. Transient availability errors are retried with a
// capped exponential backoff inside each tick; a tick superseded by the next
// one is harmless because the merge is idempotent.
func (s *FeedService) StartBackgroundRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tickCtx, cancel := context.WithTimeout(ctx, interval)
			err := retry.Do(tickCtx, retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond)), func(ctx context.Context) error {
				if err := s.pollOnce(ctx); err != nil {
					if errors.Is(err, api.ErrUnavailable) {
						return retry.RetryableError(err)
					}
					return err
				}
				return nil
			})
			cancel()
			if err != nil {
				s.logger.Warn(ctx, "background feed refresh failed", "err", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// pollOnce merges the newest page without touching pagination state, so a
// poll landing between two LoadMore calls cannot reset the cursor chain.
func (s *FeedService) pollOnce(ctx context.Context) error {
	cursor, _ := feed.NextCursor(0, nil, s.pageSize)
	page, err := s.client.Feed(ctx, cursor)
	if err != nil {
		return err
	}
	s.cache.MergePage(page)
	return nil
}
