// Package llm wraps third-party chat completion and image generation APIs.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMissingCredential is returned before any network call when no API key is configured.
	ErrMissingCredential = errors.New("llm: API credential not configured")
	// ErrDownloadFailed is returned when a generated image cannot be fetched.
	ErrDownloadFailed = errors.New("llm: download failed")
	// ErrAvatarGeneration wraps every failure of the avatar pipeline.
	ErrAvatarGeneration = errors.New("llm: avatar generation failed")
	// ErrUnknownCategory is returned for sample categories with no scenarios.
	ErrUnknownCategory = errors.New("llm: unknown sample category")
	// ErrEmptyResponse is returned when a provider answers without content.
	ErrEmptyResponse = errors.New("llm: empty response")
)

// ProviderType names a supported completion backend.
type ProviderType string

const (
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
)

// CompletionRequest is a single system+user exchange.
type CompletionRequest struct {
	System      string
	User        string
	Temperature *float64
	MaxTokens   int
}

// Completer produces one assistant message for a request.
type Completer interface {
	Name() string
	Complete(ctx context.Context, req *CompletionRequest) (string, error)
}

// ImageGenerator turns a prompt into a temporary image URL.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Config selects and configures the providers.
type Config struct {
	Provider        ProviderType  `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey    string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string        `env:"OPENAI_BASE_URL"`
	OpenAIModel     string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	ImageModel      string        `env:"OPENAI_IMAGE_MODEL" envDefault:"dall-e-3"`
	AnthropicAPIKey string        `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string        `env:"ANTHROPIC_MODEL" envDefault:"claude-haiku-4-5-20251001"`
	MaxTokens       int           `env:"LLM_MAX_TOKENS" envDefault:"2048"`
	Timeout         time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
}

// Validate checks the provider selection.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("llm config: provider must be %q or %q", ProviderOpenAI, ProviderAnthropic)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("llm config: max tokens must not be negative")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("llm config: timeout must not be negative")
	}
	return nil
}

// NewProviders builds the completer and image generator described by cfg.
// Providers without credentials come back nil; the Adapter reports
// ErrMissingCredential when they are needed.
func NewProviders(cfg Config) (Completer, ImageGenerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	var images ImageGenerator
	var openaiProvider *OpenAIProvider
	if cfg.OpenAIAPIKey != "" {
		openaiProvider = NewOpenAIProvider(OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.OpenAIModel,
			ImageModel: cfg.ImageModel,
			MaxTokens:  cfg.MaxTokens,
		})
		images = openaiProvider
	}

	switch cfg.Provider {
	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, images, nil
		}
		return NewAnthropicProvider(AnthropicConfig{
			APIKey:    cfg.AnthropicAPIKey,
			Model:     cfg.AnthropicModel,
			MaxTokens: cfg.MaxTokens,
		}), images, nil
	default:
		if openaiProvider == nil {
			return nil, nil, nil
		}
		return openaiProvider, images, nil
	}
}
