// Package client is a small HTTP client for the PromptDial API used by the CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	v0 "github.com/promptdial/promptdial/internal/registry/api/handlers/v0"
	"github.com/promptdial/promptdial/pkg/models"
	"github.com/promptdial/promptdial/pkg/types"
)

// DefaultBaseURL is used when PROMPTDIAL_API_URL is not set.
const DefaultBaseURL = "http://localhost:8080/v0"

// Environment variables read by NewClientFromEnv.
const (
	EnvAPIURL   = "PROMPTDIAL_API_URL"
	EnvAPIToken = "PROMPTDIAL_API_TOKEN"
)

// ErrNotFound is returned when the server answers 404.
var ErrNotFound = errors.New("not found")

const (
	defaultTimeout = 30 * time.Second
	pingAttempts   = 5
	pingBackoff    = 200 * time.Millisecond
)

// Client talks to a PromptDial server.
type Client struct {
	BaseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for baseURL. token is sent as a bearer token when non-empty.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// NewClientFromEnv reads PROMPTDIAL_API_URL and PROMPTDIAL_API_TOKEN and
// waits for the server to answer a ping.
func NewClientFromEnv() (*Client, error) {
	c := NewClient(os.Getenv(EnvAPIURL), os.Getenv(EnvAPIToken))
	if err := pingWithRetry(c); err != nil {
		return nil, fmt.Errorf("server at %s is not reachable: %w", c.BaseURL, err)
	}
	return c, nil
}

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%d): %s", e.Message, e.Status, e.Details)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var body types.ErrorResponse
		if json.Unmarshal(data, &body) == nil && body.Message != "" {
			apiErr.Message = body.Message
			apiErr.Details = body.Details
		}
		return nil, apiErr
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	data, err := c.send(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Ping checks that the server answers.
func (c *Client) Ping() error {
	return c.do(context.Background(), http.MethodGet, "/ping", nil, nil)
}

func pingWithRetry(c *Client) error {
	var err error
	for attempt := range pingAttempts {
		if err = c.Ping(); err == nil {
			return nil
		}
		time.Sleep(pingBackoff * time.Duration(attempt+1))
	}
	return err
}

// GetVersion returns the server build metadata.
func (c *Client) GetVersion() (*v0.VersionBody, error) {
	var out v0.VersionBody
	if err := c.do(context.Background(), http.MethodGet, "/version", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health returns the health report. A failing backend comes back as an *APIError.
func (c *Client) Health() (*v0.HealthBody, error) {
	var out v0.HealthBody
	if err := c.do(context.Background(), http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Share stores raw prompt text without expiry and returns its id and URL.
func (c *Client) Share(text string) (*v0.PublishBody, error) {
	var out v0.PublishBody
	body := map[string]string{"promptText": text}
	if err := c.do(context.Background(), http.MethodPost, "/share", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetShared fetches the raw text stored under id.
func (c *Client) GetShared(id string) (string, error) {
	req, err := c.newRequest(context.Background(), http.MethodGet, "/share/"+url.PathEscape(id), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/plain")
	data, err := c.send(req)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Publish stores a prompt page snapshot.
func (c *Client) Publish(promptID, text, configName string) (*v0.PublishBody, error) {
	var out v0.PublishBody
	body := map[string]string{"promptId": promptID, "promptText": text, "configName": configName}
	if err := c.do(context.Background(), http.MethodPost, "/publish", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPublished fetches a prompt page snapshot.
func (c *Client) GetPublished(id string) (*models.PublishedPrompt, error) {
	var out v0.PublishedPromptBody
	if err := c.do(context.Background(), http.MethodGet, "/publish/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.PublishedPrompt, nil
}

// ListPersonalities lists the personalities username has published.
func (c *Client) ListPersonalities(username string) ([]models.PublicPersonality, error) {
	var out v0.PersonalityListBody
	if err := c.do(context.Background(), http.MethodGet, "/personalities/"+url.PathEscape(username), nil, &out); err != nil {
		return nil, err
	}
	return out.Personalities, nil
}

// GetPersonality fetches one published personality.
func (c *Client) GetPersonality(username, slug string) (*models.PublicPersonality, error) {
	var out v0.PersonalityBody
	path := "/personalities/" + url.PathEscape(username) + "/" + url.PathEscape(slug)
	if err := c.do(context.Background(), http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Personality, nil
}

// ListPrompts returns the caller's generated prompt history.
func (c *Client) ListPrompts() ([]*models.GeneratedPrompt, error) {
	var out v0.PromptListBody
	if err := c.do(context.Background(), http.MethodGet, "/prompts", nil, &out); err != nil {
		return nil, err
	}
	return out.Prompts, nil
}

// DeletePrompts removes history records and reports how many were deleted.
func (c *Client) DeletePrompts(ids ...string) (int, error) {
	var out v0.DeletePromptsBody
	body := map[string][]string{"ids": ids}
	if err := c.do(context.Background(), http.MethodDelete, "/prompts", body, &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}
