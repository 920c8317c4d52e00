package v0

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/promptdial/promptdial/internal/registry/logging"
	"github.com/promptdial/promptdial/internal/registry/service"
	"github.com/promptdial/promptdial/pkg/types"
)

const healthCheckTimeout = 3 * time.Second

// HealthBody represents the health check response body
type HealthBody struct {
	types.OK
	Status string `json:"status" example:"ok" doc:"Health status"`
	KV     string `json:"kv" example:"ok" doc:"Key-value backend status"`
}

// RegisterHealthEndpoint registers the health check endpoint. It pings the key-value backend.
func RegisterHealthEndpoint(api huma.API, pathPrefix string, svc service.PersonaService) {
	huma.Register(api, huma.Operation{
		OperationID: "get-health" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/health",
		Summary:     "Health check",
		Description: "Check the health status of the API and its key-value backend",
		Tags:        []string{"health"},
	}, func(ctx context.Context, _ *struct{}) (*types.Response[HealthBody], error) {
		ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
		defer cancel()
		if err := svc.Ping(ctx); err != nil {
			logging.Log(ctx, logging.APIEventLog, zapcore.ErrorLevel, "health check failed", zap.Error(err))
			return nil, huma.Error500InternalServerError("Key-value backend unavailable", err)
		}
		return &types.Response[HealthBody]{
			Body: HealthBody{OK: types.Success(), Status: "ok", KV: "ok"},
		}, nil
	})
}
