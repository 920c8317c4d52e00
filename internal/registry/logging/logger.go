package logging

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

// level is shared by every logger built in this package so SetLevel applies process-wide.
var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// SetLevel changes the minimum level of all loggers created by this package.
func SetLevel(name string) error {
	l, err := zapcore.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	level.SetLevel(l)
	return nil
}

// NewLogger creates a named zap production logger.
func NewLogger(name string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger.Named(name)
}

// WithRequestID returns a logger with request_id from context.
func WithRequestID(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if reqID, ok := ctx.Value(requestIDKey).(string); ok && reqID != "" {
		return logger.With(zap.String("request_id", reqID))
	}
	return logger
}

// L returns base enriched with the request scoped fields stored in ctx.
func L(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil {
		return base
	}
	logger := WithRequestID(ctx, base)
	if uid := GetUserID(ctx); uid != "" {
		logger = logger.With(zap.String("user_id", uid))
	}
	return logger
}

// SetRequestID stores request_id in context (call once in middleware).
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves request_id from context.
func GetRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey).(string); ok {
		return reqID
	}
	return ""
}

type userIDKeyType struct{}

// SetUserID attaches the acting user to ctx for log enrichment.
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKeyType{}, userID)
}

// GetUserID returns the user stored by SetUserID.
func GetUserID(ctx context.Context) string {
	if uid, ok := ctx.Value(userIDKeyType{}).(string); ok {
		return uid
	}
	return ""
}
