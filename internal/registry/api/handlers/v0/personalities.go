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

// PublishPersonaInput toggles public visibility of a persona.
type PublishPersonaInput struct {
	ID   string `path:"id" doc:"Persona id"`
	Body struct {
		Publish bool `json:"publish" doc:"true to publish, false to withdraw"`
	}
}

// PersonalityListInput selects a user's public personalities.
type PersonalityListInput struct {
	Username string `path:"username" example:"alice"`
}

// PersonalityInput selects one public personality.
type PersonalityInput struct {
	Username string `path:"username" example:"alice"`
	Slug     string `path:"slug" example:"friendly-loan-officer"`
}

// PersonalityListBody lists public personalities.
type PersonalityListBody struct {
	types.OK
	Personalities []models.PublicPersonality `json:"personalities"`
}

// PersonalityBody wraps one public personality.
type PersonalityBody struct {
	types.OK
	Personality *models.PublicPersonality `json:"personality"`
}

// RegisterPersonalitiesEndpoints registers personality publication and public reads.
func RegisterPersonalitiesEndpoints(api huma.API, pathPrefix string, svc service.PersonaService, metrics *telemetry.Metrics) {
	suffix := strings.ReplaceAll(pathPrefix, "/", "-")

	huma.Register(api, huma.Operation{
		OperationID: "publish-persona" + suffix,
		Method:      http.MethodPost,
		Path:        pathPrefix + "/personas/{id}/publish",
		Summary:     "Publish or withdraw persona",
		Description: "Make a persona publicly readable under the signed-in user's handle. Requires a session.",
		Tags:        []string{"personas", "personalities"},
	}, func(ctx context.Context, input *PublishPersonaInput) (*types.Response[PersonaBody], error) {
		p, err := svc.SetPersonalityPublished(ctx, input.ID, input.Body.Publish)
		if err != nil {
			return nil, serviceError(err, "Persona not found", "Failed to update publication")
		}
		if input.Body.Publish {
			metrics.Count(ctx, func(m *telemetry.Metrics) metric.Int64Counter { return m.Publishes },
				attribute.String("scheme", "personality"))
		}
		return &types.Response[PersonaBody]{Body: PersonaBody{OK: types.Success(), Persona: p}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-personalities" + suffix,
		Method:      http.MethodGet,
		Path:        pathPrefix + "/personalities/{username}",
		Summary:     "List public personalities",
		Tags:        []string{"personalities"},
	}, func(ctx context.Context, input *PersonalityListInput) (*types.Response[PersonalityListBody], error) {
		list, err := svc.ListPersonalities(ctx, input.Username)
		if err != nil {
			return nil, serviceError(err, "User not found", "Failed to list personalities")
		}
		return &types.Response[PersonalityListBody]{Body: PersonalityListBody{OK: types.Success(), Personalities: list}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-personality" + suffix,
		Method:      http.MethodGet,
		Path:        pathPrefix + "/personalities/{username}/{slug}",
		Summary:     "Get public personality",
		Tags:        []string{"personalities"},
	}, func(ctx context.Context, input *PersonalityInput) (*types.Response[PersonalityBody], error) {
		p, err := svc.GetPersonality(ctx, input.Username, input.Slug)
		if err != nil {
			return nil, serviceError(err, "Personality not found", "Failed to get personality")
		}
		return &types.Response[PersonalityBody]{Body: PersonalityBody{OK: types.Success(), Personality: p}}, nil
	})
}
