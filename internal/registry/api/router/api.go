package router

import (
	"net/http"
	"strings"
)

// HTTPRoutes are plain net/http handlers mounted beside the huma API.
// Nil handlers are skipped.
type HTTPRoutes struct {
	Metrics http.Handler
	MCP     http.Handler

	// BlobDir is served at BlobPrefix when avatars are stored on local disk.
	BlobDir    string
	BlobPrefix string
}

// RegisterAPIRoutes mounts the non-versioned routes on mux.
func RegisterAPIRoutes(mux *http.ServeMux, routes HTTPRoutes) {
	if routes.Metrics != nil {
		mux.Handle("GET /metrics", routes.Metrics)
	}
	if routes.MCP != nil {
		mux.Handle("/mcp", routes.MCP)
		mux.Handle("/mcp/", routes.MCP)
	}
	if routes.BlobDir != "" && strings.HasPrefix(routes.BlobPrefix, "/") {
		prefix := strings.TrimRight(routes.BlobPrefix, "/") + "/"
		files := http.StripPrefix(prefix, http.FileServer(http.Dir(routes.BlobDir)))
		mux.Handle("GET "+prefix, files)
	}
}
