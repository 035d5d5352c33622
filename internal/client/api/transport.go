package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/phototrail/cli/internal/client/session"
	"github.com/phototrail/cli/internal/common"
	"github.com/phototrail/cli/internal/logging"
	"golang.org/x/sync/singleflight"
)

// timeNow is a test seam.
var timeNow = time.Now

// Transport issues HTTP calls with the current bearer token injected, and
// transparently drives one refresh-and-replay cycle on 401.
//
// The token is read from the session Manager at call time, never cached in
// the Transport, so a refresh completed by any call is observed by every
// subsequent call. Concurrent 401s share a single refresh via the
// singleflight group; each pending caller then replays its own original
// request once. A second 401 after replay is returned as-is.
type Transport struct {
	baseURL  string
	client   *http.Client
	sessions *session.Manager
	logger   logging.Logger

	refresh singleflight.Group
}

func NewTransport(baseURL string, sessions *session.Manager, logger logging.Logger) *Transport {
	return &Transport{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		sessions: sessions,
		logger:   logger,
	}
}

// Do performs an authenticated request against path (relative to the base
// URL). The body is passed as a byte slice so the request can be replayed
// after a token refresh. Statuses other than 401 are passed through
// untouched; it is the caller's job to handle them.
func (t *Transport) Do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	cur, ok := t.sessions.Current()
	if !ok {
		return nil, ErrSessionExpired
	}

	res, err := t.send(ctx, method, path, body, cur.AccessToken)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusUnauthorized {
		return res, nil
	}

	// 401 means the token is no good; everything else is the caller's
	// problem. Drain the failed response and go through the refresh cycle.
	io.Copy(io.Discard, res.Body)
	res.Body.Close()

	refreshed, err := t.refreshSession(ctx)
	if err != nil {
		return nil, err
	}

	return t.send(ctx, method, path, body, refreshed.AccessToken)
}

func (t *Transport) send(ctx context.Context, method, path string, body []byte, token string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)

	res, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return res, nil
}

// refreshSession exchanges the stored refresh token for a new token pair,
// persisting the new session before returning it. Concurrent callers share
// one in-flight exchange. On failure, the session is cleared: the refresh
// token is terminally unusable and the user must log in again.
func (t *Transport) refreshSession(ctx context.Context) (session.Session, error) {
	v, err, _ := t.refresh.Do("refresh", func() (any, error) {
		cur, ok := t.sessions.Current()
		if !ok || cur.RefreshToken == "" {
			return nil, ErrSessionExpired
		}

		payload, err := json.Marshal(map[string]string{
			"refresh_token": cur.RefreshToken,
		})
		if err != nil {
			return nil, fmt.Errorf("encoding refresh request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/refresh", bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("building refresh request: %w", err)
		}

		res, err := t.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("refresh rejected: %s", res.Status)
		}

		var body struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
			ExpiresIn    int    `json:"expires_in"`
			Error        string `json:"error"`
		}
		if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decoding refresh response: %w", err)
		}
		if body.Error != "" {
			return nil, &ServerError{Message: body.Error}
		}

		next := session.FromToken(body.AccessToken, body.RefreshToken, body.ExpiresIn, timeNow())
		next.UserID, next.UserName = cur.UserID, cur.UserName

		if err := t.sessions.Replace(ctx, next); err != nil {
			return nil, err
		}

		t.logger.Info(ctx, "session refreshed", "expires_at", next.ExpiresAt)
		return next, nil
	})
	if err != nil {
		t.logger.Warn(ctx, "session refresh failed, logging out", "err", err)
		if clearErr := t.sessions.Clear(ctx); clearErr != nil {
			t.logger.Error(ctx, "clearing session", "err", clearErr)
		}
		return session.Session{}, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	return v.(session.Session), nil
}
