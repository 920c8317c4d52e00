package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_RoundTrip(t *testing.T) {
	m, err := NewSessionManager(SessionConfig{Secret: "test-secret", Issuer: "promptdial"})
	require.NoError(t, err)

	token, expires, err := m.Issue("alice@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expires, time.Minute)

	s, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", s.Email)
	assert.Equal(t, "alice", s.Username())
}

func TestSessionManager_Rejects(t *testing.T) {
	m, err := NewSessionManager(SessionConfig{Secret: "test-secret", TTL: time.Hour, Issuer: "promptdial"})
	require.NoError(t, err)
	token, _, err := m.Issue("alice@example.com")
	require.NoError(t, err)

	other, err := NewSessionManager(SessionConfig{Secret: "other-secret", Issuer: "promptdial"})
	require.NoError(t, err)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = m.Parse("")
	assert.ErrorIs(t, err, ErrInvalidSession)
	_, err = m.Parse("garbage.token.value")
	assert.ErrorIs(t, err, ErrInvalidSession)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = NewSessionManager(SessionConfig{})
	assert.Error(t, err)
}

func TestSessionManager_Cookies(t *testing.T) {
	m, err := NewSessionManager(SessionConfig{Secret: "s", TTL: time.Hour, CookieSecure: true})
	require.NoError(t, err)

	c := m.Cookie("tok", time.Now().Add(time.Hour))
	assert.Equal(t, SessionCookieName, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 3600, c.MaxAge)

	cleared := m.ClearCookie()
	assert.Equal(t, -1, cleared.MaxAge)
	assert.Empty(t, cleared.Value)
}
