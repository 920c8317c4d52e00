// Package auth registers the email sign-in endpoints.
package auth

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	intauth "github.com/promptdial/promptdial/internal/registry/auth"
	"github.com/promptdial/promptdial/internal/registry/logging"
	"github.com/promptdial/promptdial/internal/registry/telemetry"
	"github.com/promptdial/promptdial/pkg/registry/auth"
	"github.com/promptdial/promptdial/pkg/types"
)

// RequestCodeInput asks for a sign-in code.
type RequestCodeInput struct {
	Body struct {
		Email string `json:"email" example:"alice@example.com"`
	}
}

// VerifyCodeInput exchanges a code for a session.
type VerifyCodeInput struct {
	Body struct {
		Email string `json:"email" example:"alice@example.com"`
		Code  string `json:"code" example:"123456"`
	}
}

// SessionBody describes the current session.
type SessionBody struct {
	types.OK
	Authenticated bool       `json:"authenticated"`
	Email         string     `json:"email,omitempty"`
	Username      string     `json:"username,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

// SessionCookieOutput sets or clears the session cookie.
type SessionCookieOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      SessionBody
}

// RegisterAuthEndpoints registers the sign-in endpoints.
func RegisterAuthEndpoints(api huma.API, pathPrefix string, otp *intauth.OTPService, sessions *intauth.SessionManager, metrics *telemetry.Metrics) {
	tags := []string{"auth"}
	suffix := strings.ReplaceAll(pathPrefix, "/", "-")

	huma.Register(api, huma.Operation{
		OperationID: "auth-request-code" + suffix,
		Method:      http.MethodPost,
		Path:        pathPrefix + "/auth/request-code",
		Summary:     "Request sign-in code",
		Description: "Email a one-time sign-in code. Requests are rate limited per address.",
		Tags:        tags,
	}, func(ctx context.Context, input *RequestCodeInput) (*types.Response[types.EmptyResponse], error) {
		err := otp.RequestCode(ctx, input.Body.Email)
		outcome := "sent"
		if err != nil {
			outcome = "rejected"
		}
		metrics.Count(ctx, func(m *telemetry.Metrics) metric.Int64Counter { return m.OTPRequests },
			attribute.String("outcome", outcome))
		if err != nil {
			return nil, authError(ctx, err)
		}
		return &types.Response[types.EmptyResponse]{Body: types.Message("Verification code sent")}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "auth-verify" + suffix,
		Method:      http.MethodPost,
		Path:        pathPrefix + "/auth/verify",
		Summary:     "Verify sign-in code",
		Description: "Exchange a sign-in code for a session cookie.",
		Tags:        tags,
	}, func(ctx context.Context, input *VerifyCodeInput) (*SessionCookieOutput, error) {
		email, err := otp.VerifyCode(ctx, input.Body.Email, input.Body.Code)
		if err != nil {
			return nil, authError(ctx, err)
		}
		token, expires, err := sessions.Issue(email)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to create session", err)
		}
		logging.Log(ctx, logging.APIEventLog, zapcore.InfoLevel, "user signed in",
			zap.String("username", auth.UsernameFromEmail(email)))
		return &SessionCookieOutput{
			SetCookie: sessions.Cookie(token, expires),
			Body: SessionBody{
				OK:            types.Success(),
				Authenticated: true,
				Email:         email,
				Username:      auth.UsernameFromEmail(email),
				ExpiresAt:     &expires,
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "auth-session" + suffix,
		Method:      http.MethodGet,
		Path:        pathPrefix + "/auth/session",
		Summary:     "Get current session",
		Tags:        tags,
	}, func(ctx context.Context, _ *struct{}) (*types.Response[SessionBody], error) {
		body := SessionBody{OK: types.Success()}
		if s, ok := auth.AuthSessionFrom(ctx); ok {
			expires := s.ExpiresAt
			body.Authenticated = true
			body.Email = s.Email
			body.Username = s.Username()
			body.ExpiresAt = &expires
		}
		return &types.Response[SessionBody]{Body: body}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "auth-logout" + suffix,
		Method:      http.MethodPost,
		Path:        pathPrefix + "/auth/logout",
		Summary:     "Sign out",
		Tags:        tags,
	}, func(_ context.Context, _ *struct{}) (*SessionCookieOutput, error) {
		return &SessionCookieOutput{
			SetCookie: sessions.ClearCookie(),
			Body:      SessionBody{OK: types.Success()},
		}, nil
	})
}

// authError maps sign-in failures. Delivery failures are reported separately
// from bad codes so users know whether to retry or re-enter.
func authError(ctx context.Context, err error) error {
	var limit *intauth.LimitError
	errors.As(err, &limit)

	switch {
	case errors.Is(err, intauth.ErrInvalidEmail):
		return huma.Error400BadRequest("Invalid email address")
	case errors.Is(err, intauth.ErrDomainNotAllowed):
		return huma.Error403Forbidden("Email domain is not allowed")
	case errors.Is(err, intauth.ErrRateLimited):
		e := types.NewError(http.StatusTooManyRequests, "Too many code requests, try again later")
		if limit != nil {
			e.RetryAfter = int(math.Ceil(limit.RetryAfter.Seconds()))
		}
		return e
	case errors.Is(err, intauth.ErrTooManyAttempts):
		return types.NewError(http.StatusTooManyRequests, "Too many attempts, request a new code")
	case errors.Is(err, intauth.ErrCodeExpired):
		return huma.Error410Gone("Code expired or not requested, request a new code")
	case errors.Is(err, intauth.ErrInvalidCode):
		e := types.NewError(http.StatusUnauthorized, "Invalid code")
		if limit != nil {
			remaining := limit.Remaining
			e.Remaining = &remaining
		}
		return e
	case errors.Is(err, intauth.ErrDelivery):
		return huma.Error500InternalServerError("Failed to send verification code", err)
	}
	logging.Log(ctx, logging.APIEventLog, zapcore.ErrorLevel, "sign-in failed", zap.Error(err))
	return huma.Error500InternalServerError("Sign-in failed", err)
}
