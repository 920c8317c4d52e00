// Package api assembles the HTTP server: the huma API, plain routes and the
// middleware chain around them.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/promptdial/promptdial/internal/mcp/registryserver"
	v0 "github.com/promptdial/promptdial/internal/registry/api/handlers/v0"
	"github.com/promptdial/promptdial/internal/registry/api/router"
	intauth "github.com/promptdial/promptdial/internal/registry/auth"
	"github.com/promptdial/promptdial/internal/registry/logging"
	"github.com/promptdial/promptdial/internal/registry/service"
	"github.com/promptdial/promptdial/internal/registry/telemetry"
	"github.com/promptdial/promptdial/pkg/registry/auth"
	"github.com/promptdial/promptdial/pkg/types"
)

// Options configures NewServer.
type Options struct {
	Address            string
	CORSAllowedOrigins []string

	Service  service.PersonaService
	OTP      *intauth.OTPService
	Sessions *intauth.SessionManager

	Metrics        *telemetry.Metrics
	MetricsHandler http.Handler
	EnableMCP      bool

	BlobDir    string
	BlobPrefix string

	Version *v0.VersionBody
}

// Server is the promptdial HTTP server.
type Server struct {
	api     huma.API
	handler http.Handler
	http    *http.Server
}

// UseJSONErrors makes every huma error render as types.ErrorResponse.
func UseJSONErrors() {
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return types.NewError(status, msg, errs...)
	}
}

// NewAPI builds the huma API on mux with the standard configuration.
func NewAPI(mux *http.ServeMux, apiVersion string) huma.API {
	UseJSONErrors()
	cfg := huma.DefaultConfig("PromptDial API", apiVersion)
	cfg.Info.Description = "Persona configuration, system prompt compilation and publishing."
	// Disable $schema property injection in responses
	cfg.CreateHooks = []func(huma.Config) huma.Config{}
	return humago.New(mux, cfg)
}

// NewServer registers every route and wraps the mux in middleware.
func NewServer(opts Options) *Server {
	versionInfo := opts.Version
	if versionInfo == nil {
		versionInfo = &v0.VersionBody{}
	}

	mux := http.NewServeMux()
	api := NewAPI(mux, versionInfo.Version)
	api.UseMiddleware(telemetry.MetricTelemetryMiddleware(opts.Metrics))

	router.RegisterRoutes(api, opts.Service, opts.Metrics, versionInfo, &router.RouteOptions{
		OTP:      opts.OTP,
		Sessions: opts.Sessions,
	})

	routes := router.HTTPRoutes{
		Metrics:    opts.MetricsHandler,
		BlobDir:    opts.BlobDir,
		BlobPrefix: opts.BlobPrefix,
	}
	if opts.EnableMCP {
		mcpServer := registryserver.NewServer(opts.Service)
		routes.MCP = mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return mcpServer
		}, nil)
	}
	router.RegisterAPIRoutes(mux, routes)

	var handler http.Handler = mux
	handler = SessionMiddleware(opts.Sessions)(handler)
	handler = RecoverMiddleware(handler)
	handler = logging.HTTPMiddleware(handler)
	handler = corsHandler(opts.CORSAllowedOrigins).Handler(handler)

	return &Server{
		api:     api,
		handler: handler,
		http: &http.Server{
			Addr:              opts.Address,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// API exposes the huma API, mainly for OpenAPI generation.
func (s *Server) API() huma.API { return s.api }

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	logging.Log(context.Background(), logging.SystemLog, zapcore.InfoLevel, "http server listening",
		zap.String("address", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsHandler(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{logging.RequestIDHeader},
		AllowCredentials: true,
	})
}

// SessionMiddleware attaches the verified session from the cookie, or from a
// bearer token for non-browser clients. Invalid tokens are treated as anonymous.
func SessionMiddleware(sessions *intauth.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if sessions == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			sess, err := sessions.Parse(token)
			if err != nil {
				logging.Log(r.Context(), logging.APIEventLog, zapcore.DebugLevel, "ignoring invalid session", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			ctx := auth.WithSession(r.Context(), sess)
			ctx = logging.SetUserID(ctx, sess.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(intauth.SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RecoverMiddleware turns a panic into a JSON 500.
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logging.Log(r.Context(), logging.APIEventLog, zapcore.ErrorLevel, "panic while handling request",
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
			)
			body := types.NewError(http.StatusInternalServerError, "Internal server error")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(body)
		}()
		next.ServeHTTP(w, r)
	})
}
