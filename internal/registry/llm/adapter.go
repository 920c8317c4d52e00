package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/promptdial/promptdial/internal/registry/blob"
	"github.com/promptdial/promptdial/internal/registry/compiler"
	"github.com/promptdial/promptdial/internal/registry/logging"
	"github.com/promptdial/promptdial/pkg/models"
)

const (
	refineSystemPrompt = "You are a formatting assistant. Reproduce the user's text verbatim. Do not modify, summarize, add or remove anything."
	refineTemperature  = 0.1
	sampleTemperature  = 0.7

	// maxImageBytes bounds the downloaded avatar.
	maxImageBytes = 20 << 20
)

// Adapter is the single entry point for outbound model calls.
type Adapter struct {
	completer Completer
	images    ImageGenerator
	blobs     blob.Store
	http      *http.Client
	timeout   time.Duration
}

// Option customizes an Adapter.
type Option func(*Adapter)

// WithTimeout bounds every outbound call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) { a.timeout = d }
}

// WithHTTPClient sets the client used to download generated images.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) { a.http = c }
}

// NewAdapter wires providers and blob storage. Nil providers are allowed and
// surface as ErrMissingCredential when used.
func NewAdapter(completer Completer, images ImageGenerator, blobs blob.Store, opts ...Option) *Adapter {
	a := &Adapter{
		completer: completer,
		images:    images,
		blobs:     blobs,
		http:      http.DefaultClient,
		timeout:   60 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

func (a *Adapter) complete(ctx context.Context, req *CompletionRequest) (string, error) {
	if a.completer == nil {
		return "", ErrMissingCredential
	}
	ctx, cancel := a.bound(ctx)
	defer cancel()
	return a.completer.Complete(ctx, req)
}

// Refine passes compiled text through the model with a reproduce-verbatim
// instruction. Any failure, including a missing credential, returns text unchanged.
func (a *Adapter) Refine(ctx context.Context, text string) string {
	temp := refineTemperature
	out, err := a.complete(ctx, &CompletionRequest{
		System:      refineSystemPrompt,
		User:        text,
		Temperature: &temp,
	})
	if err != nil {
		logging.Log(ctx, logging.ServiceLog, zapcore.WarnLevel, "prompt refinement skipped", zap.Error(err))
		return text
	}
	return out
}

// Test runs one live completion with the persona's instruction prompt.
func (a *Adapter) Test(ctx context.Context, p *models.Persona, message string) (string, error) {
	return a.complete(ctx, &CompletionRequest{
		System: compiler.Instructions(p),
		User:   message,
	})
}

// GenerateSamples runs the category's three scenarios concurrently. A failed
// scenario is reported in its item's Error; the result always has one item
// per scenario, in scenario order.
func (a *Adapter) GenerateSamples(ctx context.Context, p *models.Persona, category string) ([]models.Sample, error) {
	list, ok := scenarios[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if a.completer == nil {
		return nil, ErrMissingCredential
	}

	system := compiler.Instructions(p)
	temp := sampleTemperature

	samples := iter.Map(list, func(s *scenario) models.Sample {
		sample := models.Sample{Scenario: s.Title, Prompt: s.Prompt}
		content, err := a.complete(ctx, &CompletionRequest{
			System:      system,
			User:        s.Prompt,
			Temperature: &temp,
		})
		if err != nil {
			logging.Log(ctx, logging.ServiceLog, zapcore.WarnLevel, "sample generation failed",
				zap.String("scenario", s.Title), zap.Error(err))
			sample.Error = err.Error()
			return sample
		}
		sample.Content = content
		return sample
	})
	return samples, nil
}

// GenerateAvatar creates an image for the persona, copies it to blob storage
// and returns the durable URL. Every failure wraps ErrAvatarGeneration.
func (a *Adapter) GenerateAvatar(ctx context.Context, p *models.Persona) (string, error) {
	if a.images == nil {
		return "", fmt.Errorf("%w: %w", ErrAvatarGeneration, ErrMissingCredential)
	}
	if a.blobs == nil {
		return "", fmt.Errorf("%w: no blob store configured", ErrAvatarGeneration)
	}

	ctx, cancel := a.bound(ctx)
	defer cancel()

	tempURL, err := a.images.GenerateImage(ctx, compiler.AvatarPrompt(p))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAvatarGeneration, err)
	}

	data, contentType, err := a.download(ctx, tempURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAvatarGeneration, err)
	}

	name := avatarObjectName(p, contentType)
	url, err := a.blobs.Put(ctx, name, contentType, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: upload: %w", ErrAvatarGeneration, err)
	}

	logging.Log(ctx, logging.ServiceLog, zapcore.InfoLevel, "avatar stored", zap.String("object", name))
	return url, nil
}

func (a *Adapter) download(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: status %d", ErrDownloadFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("%w: image exceeds %d bytes", ErrDownloadFailed, maxImageBytes)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty body", ErrDownloadFailed)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

func avatarObjectName(p *models.Persona, contentType string) string {
	base := "persona"
	if p != nil {
		if s := compiler.Slug(p.Name); s != "" {
			base = s
		} else if p.ID != "" {
			base = p.ID
		}
	}
	return "avatars/" + base + "-" + uuid.NewString() + blob.ExtensionFor(contentType)
}
