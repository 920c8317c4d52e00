package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Validate performs runtime validations on the loaded configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	switch cfg.BlobBackend {
	case BlobBackendFile:
		if cfg.BlobDir == "" {
			return fmt.Errorf("blob directory must be specified for the file backend")
		}
	case BlobBackendGCS:
		if cfg.GCSBucket == "" {
			return fmt.Errorf("GCS bucket must be specified for the gcs backend")
		}
	default:
		return fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
	if err := cfg.LLM.Validate(); err != nil {
		return err
	}
	if cfg.OTP.MaxAttempts <= 0 || cfg.OTP.RequestLimit <= 0 {
		return fmt.Errorf("OTP attempt and request limits must be positive")
	}
	if cfg.OTP.CodeTTL <= 0 || cfg.OTP.RequestWindow <= 0 {
		return fmt.Errorf("OTP durations must be positive")
	}
	if cfg.Session.Secret != "" && len(cfg.Session.Secret) < 32 {
		return fmt.Errorf("session secret must be at least 32 bytes (got %d)", len(cfg.Session.Secret))
	}
	if cfg.Logging.SuccessSampleRate < 0 || cfg.Logging.SuccessSampleRate > 1 {
		return fmt.Errorf("log success sample rate must be between 0 and 1 (got %v)", cfg.Logging.SuccessSampleRate)
	}
	return nil
}
