// Package services contains application services for the Phototrail client.
// This file defines the authentication service: building the login URL,
// completing a login from redirect parameters, restoring a persisted
// session, and logging out.
package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/phototrail/cli/internal/client/api"
	"github.com/phototrail/cli/internal/client/session"
	"github.com/phototrail/cli/internal/randx"
)

// timeNow is a test seam.
var timeNow = time.Now

// AuthService defines the session lifecycle operations for the CLI.
//
// Contract:
//   - LoginURL: build the authorization endpoint URL the user must visit.
//   - CompleteLogin: turn the redirect fragment parameters into a live,
//     persisted session, resolving the user's id and name on the way.
//   - Restore: load the persisted session, if still usable.
//   - Logout: drop the live session and its stored record.
type AuthService interface {
	LoginURL() (string, error)
	CompleteLogin(ctx context.Context, fragment url.Values) (session.Session, error)
	Restore(ctx context.Context) (session.Session, error)
	Logout(ctx context.Context) error
}

type authService struct {
	client   api.Client
	sessions *session.Manager

	authDomain  string
	clientID    string
	redirectURL string
}

// NewAuthService constructs an AuthService bound to the given API client and
// session manager.
func NewAuthService(client api.Client, sessions *session.Manager, authDomain, clientID, redirectURL string) AuthService {
	return &authService{
		client:      client,
		sessions:    sessions,
		authDomain:  authDomain,
		clientID:    clientID,
		redirectURL: redirectURL,
	}
}

// LoginURL builds the authorization URL for the implicit token flow, with
// fresh random state and nonce values.
func (a *authService) LoginURL() (string, error) {
	nonce, err := randx.HexString(8)
	if err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	conf := oauth2.Config{
		ClientID:    a.clientID,
		RedirectURL: a.redirectURL,
		Scopes:      []string{"openid", "profile", "email"},
		Endpoint: oauth2.Endpoint{
			AuthURL: fmt.Sprintf("https://%s/authorize", a.authDomain),
		},
	}

	return conf.AuthCodeURL(uuid.NewString(),
		oauth2.SetAuthURLParam("response_type", "token"),
		oauth2.SetAuthURLParam("nonce", nonce),
	), nil
}

// CompleteLogin builds a session from the parameters the authorization
// server put in the redirect fragment (access_token, refresh_token,
// expires_in), resolves the user's identity through the API, and persists
// the result.
func (a *authService) CompleteLogin(ctx context.Context, fragment url.Values) (session.Session, error) {
	token := fragment.Get("access_token")
	if token == "" {
		return session.Session{}, session.ErrNoSession
	}

	expiresIn, _ := strconv.Atoi(fragment.Get("expires_in"))
	s := session.FromToken(token, fragment.Get("refresh_token"), expiresIn, timeNow())

	// The session has to be live before the profile call, so the transport
	// can pick up the new token.
	if err := a.sessions.Replace(ctx, s); err != nil {
		return session.Session{}, err
	}

	user, err := a.client.Me(ctx)
	if err != nil {
		// Roll the half-built session back; a token we cannot identify
		// ourselves with is useless.
		_ = a.sessions.Clear(ctx)
		return session.Session{}, fmt.Errorf("resolving user: %w", err)
	}

	s.UserID, s.UserName = user.ID, user.Name
	if err := a.sessions.Replace(ctx, s); err != nil {
		return session.Session{}, err
	}
	return s, nil
}

// Restore proxies to the session manager.
func (a *authService) Restore(ctx context.Context) (session.Session, error) {
	return a.sessions.Restore(ctx)
}

// Logout wipes the live session and its persisted record.
func (a *authService) Logout(ctx context.Context) error {
	return a.sessions.Clear(ctx)
}
