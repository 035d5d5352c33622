// Package session owns the client credential: the Session record, its
// durable persistence contract, and the in-memory Manager through which all
// components read and replace the live session.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSession is returned when no usable session is stored locally.
var ErrNoSession = errors.New("no session available")

// Session is the single client credential. ExpiresAt drives pre-emptive
// validity checks only; the server's 401 response stays authoritative for
// actual invalidity.
type Session struct {
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expiration"`
	UserID       int       `json:"user_id"`
	UserName     string    `json:"user_name"`
}

// Valid reports whether the session holds a token that has not expired yet.
func (s Session) Valid(now time.Time) bool {
	return s.AccessToken != "" && now.Before(s.ExpiresAt)
}

// FromToken builds a Session from a freshly acquired token pair. expiresIn is
// the advertised lifetime in seconds; when absent (<= 0), the expiry falls
// back to the exp claim of the access token itself.
func FromToken(accessToken, refreshToken string, expiresIn int, now time.Time) Session {
	s := Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}
	if expiresIn > 0 {
		s.ExpiresAt = now.Add(time.Duration(expiresIn) * time.Second)
	} else if exp, ok := tokenExpiry(accessToken); ok {
		s.ExpiresAt = exp
	}
	return s
}

// tokenExpiry extracts the exp claim from a JWT access token without
// verifying the signature. Verification is the server's job; the claim is
// only used for the local pre-emptive expiry check.
func tokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
