// Package auth holds the session identity shared by handlers and services.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrUnauthorized is returned when an action needs a verified session.
var ErrUnauthorized = errors.New("authentication required")

// Session is a verified login.
type Session struct {
	Email     string
	ExpiresAt time.Time
}

// Username is the public handle derived from the email local part.
func (s *Session) Username() string {
	return UsernameFromEmail(s.Email)
}

// UsernameFromEmail lowercases the part before '@'.
func UsernameFromEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

type sessionKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// AuthSessionFrom returns the session stored by WithSession.
func AuthSessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
