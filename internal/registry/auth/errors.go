// Package auth implements the email one-time-passcode login and signed session cookies.
package auth

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrDomainNotAllowed = errors.New("email domain not allowed")
	ErrRateLimited      = errors.New("too many code requests")
	ErrTooManyAttempts  = errors.New("too many verification attempts")
	ErrCodeExpired      = errors.New("code expired or not requested")
	ErrInvalidCode      = errors.New("invalid code")
	ErrDelivery         = errors.New("failed to deliver code")
	ErrInvalidSession   = errors.New("invalid session")
)

// LimitError annotates a limit-related failure with a hint for the caller.
type LimitError struct {
	Err        error
	RetryAfter time.Duration
	Remaining  int
}

func (e *LimitError) Error() string {
	switch {
	case e.RetryAfter > 0:
		return fmt.Sprintf("%v: retry in %s", e.Err, e.RetryAfter.Round(time.Second))
	case errors.Is(e.Err, ErrInvalidCode):
		return fmt.Sprintf("%v: %d attempts remaining", e.Err, e.Remaining)
	}
	return e.Err.Error()
}

func (e *LimitError) Unwrap() error { return e.Err }
