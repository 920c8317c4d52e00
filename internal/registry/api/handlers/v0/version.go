package v0

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptdial/promptdial/pkg/types"
)

// VersionBody represents the version information
type VersionBody struct {
	types.OK
	Version   string `json:"version" example:"1.0.0" doc:"Version of the API"`
	GitCommit string `json:"gitCommit" example:"abc123" doc:"Git commit hash"`
	BuildTime string `json:"buildTime" example:"2024-01-01T00:00:00Z" doc:"Build timestamp"`
}

// RegisterVersionEndpoint registers the version endpoint
func RegisterVersionEndpoint(api huma.API, pathPrefix string, versionInfo *VersionBody) {
	huma.Register(api, huma.Operation{
		OperationID: "get-version" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/version",
		Summary:     "Get API version information",
		Description: "Returns version, build time, and git commit information",
		Tags:        []string{"version"},
	}, func(_ context.Context, _ *struct{}) (*types.Response[VersionBody], error) {
		body := *versionInfo
		body.OK = types.Success()
		return &types.Response[VersionBody]{Body: body}, nil
	})
}
