// Package client exposes the PromptDial API client for use outside this module.
package client

import (
	"github.com/promptdial/promptdial/internal/client"
)

// Client is the PromptDial API client.
type Client = client.Client

// NewClientFromEnv builds a client from PROMPTDIAL_API_URL and PROMPTDIAL_API_TOKEN
// and waits for the server to answer.
func NewClientFromEnv() (*client.Client, error) {
	return client.NewClientFromEnv()
}

func NewClient(baseURL, token string) *client.Client {
	return client.NewClient(baseURL, token)
}
