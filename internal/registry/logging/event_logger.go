package logging

import (
	"context"
	"hash/fnv"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventLoggingConfig controls request sampling, path filtering and field
// redaction for event logs. Lists are comma separated.
type EventLoggingConfig struct {
	SuccessSampleRate float64 `env:"LOG_SUCCESS_SAMPLE_RATE" envDefault:"0.1"`
	ExcludePaths      string  `env:"LOG_EXCLUDE_PATHS" envDefault:"/v0/health,/v0/ping,/metrics"`
	ErrorOnlyPaths    string  `env:"LOG_ERROR_ONLY_PATHS" envDefault:"/v0/version"`
	RedactPatterns    string  `env:"LOG_REDACT_PATTERNS" envDefault:"password,token,secret,key,authorization,credential,bearer,otp,private"`
}

// DefaultEventLoggingConfig returns the envDefault values of EventLoggingConfig.
func DefaultEventLoggingConfig() *EventLoggingConfig {
	cfg, err := env.ParseAsWithOptions[EventLoggingConfig](env.Options{Environment: map[string]string{}})
	if err != nil {
		panic("logging: invalid EventLoggingConfig defaults: " + err.Error())
	}
	return &cfg
}

type eventConfig struct {
	sampleRate float64
	exclude    map[string]bool
	errorOnly  map[string]bool
	redact     *regexp.Regexp
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

func compileEventConfig(cfg *EventLoggingConfig) *eventConfig {
	out := &eventConfig{
		sampleRate: cfg.SuccessSampleRate,
		exclude:    toSet(splitList(cfg.ExcludePaths)),
		errorOnly:  toSet(splitList(cfg.ErrorOnlyPaths)),
	}
	patterns := splitList(cfg.RedactPatterns)
	for i, p := range patterns {
		patterns[i] = regexp.QuoteMeta(p)
	}
	if len(patterns) > 0 {
		out.redact = regexp.MustCompile("(?i)(" + strings.Join(patterns, "|") + ")")
	}
	return out
}

// Named loggers shared by all requests.
var (
	APIEventLog = NewLogger("api")
	ServiceLog  = NewLogger("service")
	SystemLog   = NewLogger("system")
)

var active atomic.Pointer[eventConfig]

func init() {
	Configure(DefaultEventLoggingConfig())
}

// Configure replaces the process-wide event logging configuration.
func Configure(cfg *EventLoggingConfig) {
	active.Store(compileEventConfig(cfg))
}

const redactedValue = "***"

// RedactFields masks fields whose key matches a redaction pattern.
func RedactFields(fields ...zap.Field) []zap.Field {
	re := active.Load().redact
	if re == nil {
		return fields
	}
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		if re.MatchString(f.Key) {
			f = zap.String(f.Key, redactedValue)
		}
		out[i] = f
	}
	return out
}

// ShouldLog reports whether info and debug events for the request in ctx are
// sampled in. Events outside a request are always logged.
func ShouldLog(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	reqID := GetRequestID(ctx)
	if reqID == "" {
		return true
	}
	rate := active.Load().sampleRate
	switch {
	case rate >= 1:
		return true
	case rate <= 0:
		return false
	}
	return sampleValue(reqID) < rate
}

// sampleValue maps a request id onto [0,1], the same value for every event
// of a request.
func sampleValue(requestID string) float64 {
	h := fnv.New64a()
	h.Write([]byte(requestID))
	return float64(h.Sum64()) / float64(^uint64(0))
}

// Log writes an event through base, enriched from ctx. Warnings and errors
// are always written; lower levels follow the request's sampling decision.
//
//	logging.Log(ctx, logging.ServiceLog, zapcore.InfoLevel, "Generated prompt", zap.String("persona_id", id))
func Log(ctx context.Context, base *zap.Logger, level zapcore.Level, message string, fields ...zap.Field) {
	if level < zapcore.WarnLevel && !ShouldLog(ctx) {
		return
	}
	L(ctx, base).Log(level, message, RedactFields(fields...)...)
}

// EventLevelFromStatusCode picks the log level for a finished request.
func EventLevelFromStatusCode(statusCode int) zapcore.Level {
	switch {
	case statusCode >= 500:
		return zapcore.ErrorLevel
	case statusCode >= 400:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// skipRequest reports whether the access log for path at level is filtered out.
func skipRequest(path string, level zapcore.Level) bool {
	cfg := active.Load()
	if cfg.exclude[path] {
		return true
	}
	return cfg.errorOnly[path] && level < zapcore.WarnLevel
}
