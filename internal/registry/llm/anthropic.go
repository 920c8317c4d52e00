package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicMaxTokens = 2048

// AnthropicConfig configures AnthropicProvider.
type AnthropicConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// AnthropicProvider implements Completer against the Anthropic Messages API.
type AnthropicProvider struct {
	client *anthropic.Client
	config AnthropicConfig
}

var _ Completer = (*AnthropicProvider)(nil)

// NewAnthropicProvider creates a provider with the given configuration.
func NewAnthropicProvider(config AnthropicConfig) *AnthropicProvider {
	if config.Model == "" {
		config.Model = "claude-haiku-4-5-20251001"
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = defaultAnthropicMaxTokens
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	client := anthropic.NewClient(opts...)
	return &AnthropicProvider{client: &client, config: config}
}

// Name returns the provider identifier
func (p *AnthropicProvider) Name() string {
	return string(ProviderAnthropic)
}

// Complete performs a non-streaming message request.
func (p *AnthropicProvider) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.config.Model),
		MaxTokens: int64(maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: req.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic generate: %w", err)
	}

	var content strings.Builder
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			content.WriteString(b.Text)
		}
	}
	out := strings.TrimSpace(content.String())
	if out == "" {
		return "", fmt.Errorf("anthropic generate: %w", ErrEmptyResponse)
	}
	return out, nil
}
