package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/promptdial/promptdial/internal/registry/api"
	v0 "github.com/promptdial/promptdial/internal/registry/api/handlers/v0"
	intauth "github.com/promptdial/promptdial/internal/registry/auth"
	"github.com/promptdial/promptdial/internal/registry/blob"
	"github.com/promptdial/promptdial/internal/registry/config"
	"github.com/promptdial/promptdial/internal/registry/kv"
	"github.com/promptdial/promptdial/internal/registry/llm"
	"github.com/promptdial/promptdial/internal/registry/logging"
	"github.com/promptdial/promptdial/internal/registry/service"
	"github.com/promptdial/promptdial/internal/registry/telemetry"
	"github.com/promptdial/promptdial/internal/version"
	"github.com/promptdial/promptdial/pkg/registry/database"
)

const shutdownTimeout = 30 * time.Second

var serveAddress string

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the PromptDial API server",
	Long: `Runs the HTTP API, the MCP endpoint and the metrics endpoint.

Configuration is read from PROMPTDIAL_* environment variables and an optional .env file.`,
	Annotations: map[string]string{OfflineAnnotation: "true"},
	RunE:        runServe,
}

func init() {
	ServeCmd.Flags().StringVar(&serveAddress, "address", "", "Listen address (overrides PROMPTDIAL_SERVER_ADDRESS)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if serveAddress != "" {
		cfg.ServerAddress = serveAddress
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.close()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.server.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logging.Log(context.Background(), logging.SystemLog, zapcore.InfoLevel, "received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logging.Log(context.Background(), logging.SystemLog, zapcore.InfoLevel, "server stopped gracefully")
	return nil
}

// app is everything serve builds, plus what must be released on exit.
type app struct {
	server  *api.Server
	closers []func() error
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logging.Log(context.Background(), logging.SystemLog, zapcore.WarnLevel, "cleanup failed", zap.Error(err))
		}
	}
}

// newApp validates cfg and wires the server. On error, anything already
// opened is closed before returning.
func newApp(ctx context.Context, cfg *config.Config) (_ *app, err error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	logging.Configure(&cfg.Logging)

	a := &app{}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	store, err := kv.Open(ctx, cfg.KVURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open key-value store: %w", err)
	}
	a.closers = append(a.closers, store.Close)

	blobs, blobDir, err := openBlobStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if closer, ok := blobs.(io.Closer); ok {
		a.closers = append(a.closers, closer.Close)
	}

	completer, images, err := llm.NewProviders(cfg.LLM)
	if err != nil {
		return nil, err
	}
	if completer == nil {
		logging.Log(ctx, logging.SystemLog, zapcore.WarnLevel,
			"no LLM credential configured; refinement is skipped and model-backed endpoints will fail",
			zap.String("provider", string(cfg.LLM.Provider)))
	}
	adapter := llm.NewAdapter(completer, images, blobs, llm.WithTimeout(cfg.LLM.Timeout))

	svc := service.NewPersonaService(database.NewKV(store), adapter, cfg.Service)

	mailer, err := newMailer(cfg)
	if err != nil {
		return nil, err
	}
	otp := intauth.NewOTPService(store, mailer, cfg.OTP)

	sessionCfg := cfg.Session
	if sessionCfg.Secret == "" {
		sessionCfg.Secret, err = ephemeralSecret()
		if err != nil {
			return nil, err
		}
		logging.Log(ctx, logging.SystemLog, zapcore.WarnLevel,
			"PROMPTDIAL_JWT_SECRET is not set; using an ephemeral secret, sessions will not survive a restart")
	}
	sessions, err := intauth.NewSessionManager(sessionCfg)
	if err != nil {
		return nil, err
	}

	opts := api.Options{
		Address:            cfg.ServerAddress,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Service:            svc,
		OTP:                otp,
		Sessions:           sessions,
		EnableMCP:          cfg.EnableMCP,
		BlobDir:            blobDir,
		BlobPrefix:         cfg.BlobBaseURL,
		Version: &v0.VersionBody{
			Version:   version.Version,
			GitCommit: version.GitCommit,
			BuildTime: version.BuildDate,
		},
	}

	if cfg.EnableMetrics {
		provider, err := telemetry.NewPrometheusProvider("promptdial", version.Version)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { return provider.Shutdown(context.Background()) })
		metrics, err := telemetry.NewMetrics(provider.MeterProvider)
		if err != nil {
			return nil, err
		}
		opts.Metrics = metrics
		opts.MetricsHandler = provider.Handler
	}

	a.server = api.NewServer(opts)
	logging.Log(ctx, logging.SystemLog, zapcore.InfoLevel, "server configured",
		zap.String("address", cfg.ServerAddress),
		zap.String("blob_backend", cfg.BlobBackend),
		zap.Bool("mcp", cfg.EnableMCP),
		zap.Bool("metrics", cfg.EnableMetrics))
	return a, nil
}

// openBlobStore returns the store and, for the file backend, the directory the
// server should expose under the blob URL prefix.
func openBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, string, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendGCS:
		store, err := blob.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSPrefix)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open GCS bucket: %w", err)
		}
		return store, "", nil
	default:
		store, err := blob.NewFileStore(cfg.BlobDir, cfg.BlobBaseURL)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open blob directory: %w", err)
		}
		return store, store.Root(), nil
	}
}

func newMailer(cfg *config.Config) (intauth.Mailer, error) {
	if cfg.SMTP.Host == "" {
		logging.Log(context.Background(), logging.SystemLog, zapcore.WarnLevel,
			"PROMPTDIAL_SMTP_HOST is not set; verification codes will be written to the log")
		return intauth.LogMailer{}, nil
	}
	mailer, err := intauth.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		return nil, fmt.Errorf("failed to configure SMTP: %w", err)
	}
	return mailer, nil
}

func ephemeralSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Join(errors.New("failed to generate session secret"), err)
	}
	return hex.EncodeToString(buf), nil
}
