package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	pkgauth "github.com/promptdial/promptdial/pkg/registry/auth"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// SessionConfig configures SessionManager.
type SessionConfig struct {
	Secret       string        `env:"JWT_SECRET"`
	TTL          time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"true"`
	Issuer       string        `env:"SESSION_ISSUER" envDefault:"promptdial"`
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies HS256 session tokens.
type SessionManager struct {
	key []byte
	cfg SessionConfig
	now func() time.Time
}

// NewSessionManager requires a non-empty secret.
func NewSessionManager(cfg SessionConfig) (*SessionManager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("session secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "promptdial"
	}
	return &SessionManager{key: []byte(cfg.Secret), cfg: cfg, now: time.Now}, nil
}

// Issue signs a token for email.
func (m *SessionManager) Issue(email string) (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.cfg.TTL)
	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, expires, nil
}

// Parse verifies token and returns the session it carries.
func (m *SessionManager) Parse(token string) (*pkgauth.Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if claims.Email == "" {
		return nil, ErrInvalidSession
	}
	return &pkgauth.Session{Email: claims.Email, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Cookie wraps a token in the httpOnly session cookie.
func (m *SessionManager) Cookie(token string, expires time.Time) http.Cookie {
	return http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(m.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie expires the session cookie.
func (m *SessionManager) ClearCookie() http.Cookie {
	return http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
