// Package blob stores generated assets (avatar images) and returns durable URLs.
package blob

import (
	"context"
	"errors"
	"io"
	"strings"
)

// ErrInvalidName is returned for object names that are empty or escape the store root.
var ErrInvalidName = errors.New("invalid object name")

// Store persists an object and returns the URL it can be fetched from.
type Store interface {
	Put(ctx context.Context, name, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, name string) error
}

func validName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}

// ExtensionFor maps an image content type to a file extension.
func ExtensionFor(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0])) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
