package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/phototrail/cli/internal/client/feed"
	"github.com/phototrail/cli/internal/client/models"
)

// HTTPClient implements Client on top of the authenticated Transport.
type HTTPClient struct {
	transport *Transport
}

func NewHTTPClient(transport *Transport) *HTTPClient {
	return &HTTPClient{transport: transport}
}

// apiError is embedded in response payloads; a non-empty Error field marks a
// logical failure regardless of the HTTP status.
type apiError struct {
	Error string `json:"error"`
}

func (e apiError) errMessage() string { return e.Error }

type errCarrier interface {
	errMessage() string
}

// call performs the request and decodes the JSON response into out. A
// payload carrying an error field fails the call; otherwise a non-2xx status
// does.
func (c *HTTPClient) call(ctx context.Context, method, path string, body []byte, out errCarrier) error {
	res, err := c.transport.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if msg := out.errMessage(); msg != "" {
		return &ServerError{Message: msg}
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case res.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrUnavailable, res.Status)
	case res.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("unexpected status: %s", res.Status)
	}
	return nil
}

func jsonBody(v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	return body, nil
}

// Feed fetches one page of the feed and returns it keyed by post id.
func (c *HTTPClient) Feed(ctx context.Context, cursor feed.Cursor) (feed.Page, error) {
	var body struct {
		apiError
		Posts []models.Post `json:"posts"`
	}
	if err := c.call(ctx, http.MethodGet, "/feed?"+cursor.Query().Encode(), nil, &body); err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}

	page := make(feed.Page, len(body.Posts))
	for _, p := range body.Posts {
		page[p.ID] = p
	}
	return page, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, text string) (int, error) {
	payload, err := jsonBody(map[string]string{"text": text})
	if err != nil {
		return 0, err
	}

	var body struct {
		apiError
		PostID int `json:"post_id"`
	}
	if err := c.call(ctx, http.MethodPost, "/posts", payload, &body); err != nil {
		return 0, fmt.Errorf("creating post: %w", err)
	}
	return body.PostID, nil
}

func (c *HTTPClient) UploadImage(ctx context.Context, postID int, image io.Reader) (string, error) {
	raw, err := io.ReadAll(image)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}

	var body struct {
		apiError
		Path string `json:"path"`
	}
	if err := c.call(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/images", postID), raw, &body); err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}
	return body.Path, nil
}

func (c *HTTPClient) DeletePost(ctx context.Context, postID int) error {
	var body struct {
		apiError
		Acknowledged bool `json:"acknowledged"`
	}
	if err := c.call(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", postID), nil, &body); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	return nil
}

func (c *HTTPClient) Like(ctx context.Context, postID int) error {
	var body struct {
		apiError
		Acknowledged bool `json:"acknowledged"`
	}
	if err := c.call(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/like", postID), nil, &body); err != nil {
		return fmt.Errorf("liking post: %w", err)
	}
	return nil
}

func (c *HTTPClient) Unlike(ctx context.Context, postID int) error {
	var body struct {
		apiError
		Acknowledged bool `json:"acknowledged"`
	}
	if err := c.call(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d/like", postID), nil, &body); err != nil {
		return fmt.Errorf("unliking post: %w", err)
	}
	return nil
}

func (c *HTTPClient) CreateComment(ctx context.Context, postID int, text string) (int, error) {
	payload, err := jsonBody(map[string]string{"text": text})
	if err != nil {
		return 0, err
	}

	var body struct {
		apiError
		CommentID int `json:"comment_id"`
	}
	if err := c.call(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/comments", postID), payload, &body); err != nil {
		return 0, fmt.Errorf("creating comment: %w", err)
	}
	return body.CommentID, nil
}

func (c *HTTPClient) DeleteComment(ctx context.Context, postID, commentID int) error {
	var body struct {
		apiError
		Acknowledged bool `json:"acknowledged"`
	}
	if err := c.call(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d/comments/%d", postID, commentID), nil, &body); err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return nil
}

func (c *HTTPClient) Me(ctx context.Context) (models.User, error) {
	var body struct {
		apiError
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := c.call(ctx, http.MethodGet, "/me", nil, &body); err != nil {
		return models.User{}, fmt.Errorf("fetching profile: %w", err)
	}
	return models.User{ID: body.ID, Name: body.Name}, nil
}
