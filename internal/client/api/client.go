package api

import (
	"context"
	"io"

	"github.com/phototrail/cli/internal/client/feed"
	"github.com/phototrail/cli/internal/client/models"
)

// Client is the typed contract for the Phototrail REST API. It maps
// operations one-to-one onto endpoints and never touches the feed cache.
type Client interface {
	Feed(ctx context.Context, cursor feed.Cursor) (feed.Page, error)
	CreatePost(ctx context.Context, text string) (int, error)
	UploadImage(ctx context.Context, postID int, image io.Reader) (string, error)
	DeletePost(ctx context.Context, postID int) error
	Like(ctx context.Context, postID int) error
	Unlike(ctx context.Context, postID int) error
	CreateComment(ctx context.Context, postID int, text string) (int, error)
	DeleteComment(ctx context.Context, postID, commentID int) error
	Me(ctx context.Context) (models.User, error)
}
