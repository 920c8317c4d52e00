package v0

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/promptdial/promptdial/internal/registry/service"
	"github.com/promptdial/promptdial/internal/registry/telemetry"
	"github.com/promptdial/promptdial/pkg/models"
	"github.com/promptdial/promptdial/pkg/types"
)

// shareCacheControl lets clients and proxies cache shared text for a year.
const shareCacheControl = "public, max-age=31536000"

// PublishInput represents the input for publishing a prompt page
type PublishInput struct {
	Body struct {
		PromptID   string `json:"promptId" required:"false"`
		PromptText string `json:"promptText"`
		ConfigName string `json:"configName" required:"false"`
	}
}

// ShareInput represents the input for sharing raw prompt text
type ShareInput struct {
	Body struct {
		PromptText string `json:"promptText"`
	}
}

// SnapshotIDInput addresses a published snapshot.
type SnapshotIDInput struct {
	ID string `path:"id" doc:"Snapshot id"`
}

// PublishBody identifies a stored snapshot.
type PublishBody struct {
	types.OK
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PublishedPromptBody is the stored page envelope.
type PublishedPromptBody struct {
	types.OK
	models.PublishedPrompt
}

// SharedPromptOutput is served as plain text.
type SharedPromptOutput struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

// RegisterPublishEndpoints registers both publishing schemes.
func RegisterPublishEndpoints(api huma.API, pathPrefix string, svc service.PersonaService, metrics *telemetry.Metrics) {
	tags := []string{"publish"}
	suffix := strings.ReplaceAll(pathPrefix, "/", "-")

	publish := func(ctx context.Context, req service.PublishRequest) (*types.Response[PublishBody], error) {
		res, err := svc.Publish(ctx, req)
		if err != nil {
			return nil, serviceError(err, "Not found", "Failed to publish prompt")
		}
		metrics.Count(ctx, func(m *telemetry.Metrics) metric.Int64Counter { return m.Publishes },
			attribute.String("scheme", string(req.Retention.Kind)))
		return &types.Response[PublishBody]{Body: PublishBody{OK: types.Success(), ID: res.ID, URL: res.URL}}, nil
	}

	huma.Register(api, huma.Operation{
		OperationID: "publish-prompt" + suffix,
		Method:      http.MethodPost,
		Path:        pathPrefix + "/publish",
		Summary:     "Publish prompt page",
		Description: "Store a prompt snapshot for the public prompt page. Snapshots expire after one year.",
		Tags:        tags,
	}, func(ctx context.Context, input *PublishInput) (*types.Response[PublishBody], error) {
		return publish(ctx, service.PublishRequest{
			Retention:  service.PageRetention,
			PromptID:   input.Body.PromptID,
			PromptText: input.Body.PromptText,
			ConfigName: input.Body.ConfigName,
		})
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-published-prompt" + suffix,
		Method:      http.MethodGet,
		Path:        pathPrefix + "/publish/{id}",
		Summary:     "Get published prompt",
		Tags:        tags,
	}, func(ctx context.Context, input *SnapshotIDInput) (*types.Response[PublishedPromptBody], error) {
		p, err := svc.GetPublished(ctx, input.ID)
		if err != nil {
			return nil, serviceError(err, "Published prompt not found", "Failed to get published prompt")
		}
		return &types.Response[PublishedPromptBody]{Body: PublishedPromptBody{OK: types.Success(), PublishedPrompt: *p}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "share-prompt" + suffix,
		Method:      http.MethodPost,
		Path:        pathPrefix + "/share",
		Summary:     "Share prompt text",
		Description: "Store raw prompt text under a short id. Shared text never expires.",
		Tags:        tags,
	}, func(ctx context.Context, input *ShareInput) (*types.Response[PublishBody], error) {
		return publish(ctx, service.PublishRequest{
			Retention:  service.ShareRetention,
			PromptText: input.Body.PromptText,
		})
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-shared-prompt" + suffix,
		Method:      http.MethodGet,
		Path:        pathPrefix + "/share/{id}",
		Summary:     "Get shared prompt text",
		Tags:        tags,
		Responses: map[string]*huma.Response{
			"200": {
				Description: "Shared prompt text",
				Content:     map[string]*huma.MediaType{"text/plain": {}},
			},
		},
	}, func(ctx context.Context, input *SnapshotIDInput) (*SharedPromptOutput, error) {
		text, err := svc.GetShared(ctx, input.ID)
		if err != nil {
			return nil, serviceError(err, "Shared prompt not found", "Failed to get shared prompt")
		}
		return &SharedPromptOutput{
			ContentType:  "text/plain; charset=utf-8",
			CacheControl: shareCacheControl,
			Body:         []byte(text),
		}, nil
	})
}
