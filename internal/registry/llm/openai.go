package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIConfig configures OpenAIProvider.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	ImageModel string
	MaxTokens  int
}

// OpenAIProvider implements Completer and ImageGenerator against the OpenAI API.
type OpenAIProvider struct {
	client *openai.Client
	config OpenAIConfig
}

var (
	_ Completer      = (*OpenAIProvider)(nil)
	_ ImageGenerator = (*OpenAIProvider)(nil)
)

// NewOpenAIProvider creates a provider with the given configuration.
func NewOpenAIProvider(config OpenAIConfig) *OpenAIProvider {
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}
	if config.ImageModel == "" {
		config.ImageModel = "dall-e-3"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	client := openai.NewClient(opts...)
	return &OpenAIProvider{client: &client, config: config}
}

// Name returns the provider identifier
func (p *OpenAIProvider) Name() string {
	return string(ProviderOpenAI)
}

// Complete performs a non-streaming chat completion.
func (p *OpenAIProvider) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(maxTokens))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai generate: %w", ErrEmptyResponse)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai generate: %w", ErrEmptyResponse)
	}
	return content, nil
}

// GenerateImage requests a single 1024x1024 image and returns its temporary URL.
func (p *OpenAIProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(p.config.ImageModel),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize1024x1024,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatURL,
	})
	if err != nil {
		return "", fmt.Errorf("openai image: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("openai image: %w", ErrEmptyResponse)
	}
	return resp.Data[0].URL, nil
}
