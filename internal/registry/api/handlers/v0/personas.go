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

// PersonaListBody is the response for listing personas.
type PersonaListBody struct {
	types.OK
	Personas []*models.Persona `json:"personas" doc:"Personas owned by the caller, oldest first"`
}

// PersonaBody wraps a single persona.
type PersonaBody struct {
	types.OK
	Persona *models.Persona `json:"persona"`
}

// SavePersonaInput represents the input for creating or updating a persona
type SavePersonaInput struct {
	Body models.Persona
}

// DeletePersonaInput selects the persona to delete.
type DeletePersonaInput struct {
	ID string `query:"id" doc:"Persona id" required:"false" example:"0190c1d2-5b1e-7c3a-9f00-1a2b3c4d5e6f"`
}

// GeneratePromptInput represents the input for generating a prompt from a stored persona
type GeneratePromptInput struct {
	ID   string `path:"id" doc:"Persona id"`
	Body *struct {
		Mode service.CompileMode `json:"mode,omitempty" enum:"documentation,instructions" default:"documentation" required:"false"`
	} `required:"false"`
}

// GeneratePromptBody is the response for prompt generation.
type GeneratePromptBody struct {
	types.OK
	Prompt  *models.GeneratedPrompt `json:"prompt"`
	Persona *models.Persona         `json:"persona"`
}

// CompileInput renders a persona without saving it.
type CompileInput struct {
	Body struct {
		Persona models.Persona      `json:"persona"`
		Mode    service.CompileMode `json:"mode,omitempty" enum:"documentation,instructions" default:"documentation" required:"false"`
	}
}

// CompileBody is the compiler output.
type CompileBody struct {
	types.OK
	Mode service.CompileMode `json:"mode"`
	Text string              `json:"text"`
}

// SamplesInput requests scenario samples for a persona.
type SamplesInput struct {
	Body struct {
		Persona  models.Persona `json:"persona"`
		Category string         `json:"category" doc:"One of loan-product, borrower-pitch, document-request" example:"loan-product"`
	}
}

// SamplesBody holds one entry per scenario, in scenario order.
type SamplesBody struct {
	types.OK
	Category string          `json:"category"`
	Samples  []models.Sample `json:"samples"`
}

// AvatarInput requests an avatar for a persona.
type AvatarInput struct {
	Body struct {
		Persona models.Persona `json:"persona"`
	}
}

// AvatarBody carries the durable image URL.
type AvatarBody struct {
	types.OK
	ImageURL string `json:"imageUrl"`
}

// TestPersonaInput sends one message to a persona.
type TestPersonaInput struct {
	Body struct {
		Persona models.Persona `json:"persona"`
		Message string         `json:"message"`
	}
}

// TestPersonaBody is the model reply.
type TestPersonaBody struct {
	types.OK
	Reply string `json:"reply"`
}

// RegisterPersonasEndpoints registers persona CRUD and generation endpoints.
func RegisterPersonasEndpoints(api huma.API, pathPrefix string, svc service.PersonaService, metrics *telemetry.Metrics) {
	tags := []string{"personas"}
	suffix := strings.ReplaceAll(pathPrefix, "/", "-")

	huma.Register(api, huma.Operation{
		OperationID: "list-personas" + suffix,
		Method:      http.MethodGet,
		Path:        pathPrefix + "/personas",
		Summary:     "List personas",
		Description: "List the caller's personas. Example personas are created on first use.",
		Tags:        tags,
	}, func(ctx context.Context, _ *struct{}) (*types.Response[PersonaListBody], error) {
		personas, err := svc.ListPersonas(ctx)
		if err != nil {
			return nil, serviceError(err, "Not found", "Failed to list personas")
		}
		return &types.Response[PersonaListBody]{Body: PersonaListBody{OK: types.Success(), Personas: personas}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "save-persona" + suffix,
		Method:      http.MethodPost,
		Path:        pathPrefix + "/personas",
		Summary:     "Create or update persona",
		Description: "Create a persona, or replace the one with the same id. The slug and system prompt are recomputed by the server.",
		Tags:        tags,
	}, func(ctx context.Context, input *SavePersonaInput) (*types.Response[PersonaBody], error) {
		saved, err := svc.SavePersona(ctx, &input.Body)
		if err != nil {
			return nil, serviceError(err, "Persona not found", "Failed to save persona")
		}
		return &types.Response[PersonaBody]{Body: PersonaBody{OK: types.Success(), Persona: saved}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-persona" + suffix,
		Method:      http.MethodDelete,
		Path:        pathPrefix + "/personas",
		Summary:     "Delete persona",
		Tags:        tags,
	}, func(ctx context.Context, input *DeletePersonaInput) (*types.Response[types.EmptyResponse], error) {
		if strings.TrimSpace(input.ID) == "" {
			return nil, huma.Error400BadRequest("Persona id is required")
		}
		if err := svc.DeletePersona(ctx, input.ID); err != nil {
			return nil, serviceError(err, "Persona not found", "Failed to delete persona")
		}
		return &types.Response[types.EmptyResponse]{Body: types.Message("Persona deleted successfully")}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "generate-persona-prompt" + suffix,
		Method:      http.MethodPost,
		Path:        pathPrefix + "/personas/{id}/generate",
		Summary:     "Generate prompt",
		Description: "Compile and refine the stored persona, save the result as its system prompt and append it to the prompt history.",
		Tags:        tags,
	}, func(ctx context.Context, input *GeneratePromptInput) (*types.Response[GeneratePromptBody], error) {
		mode := service.ModeDocumentation
		if input.Body != nil && input.Body.Mode != "" {
			mode = input.Body.Mode
		}
		record, persona, err := svc.GeneratePrompt(ctx, input.ID, mode)
		if err != nil {
			return nil, serviceError(err, "Persona not found", "Failed to generate prompt")
		}
		metrics.Count(ctx, func(m *telemetry.Metrics) metric.Int64Counter { return m.Generations },
			attribute.String("mode", string(mode)))
		return &types.Response[GeneratePromptBody]{
			Body: GeneratePromptBody{OK: types.Success(), Prompt: record, Persona: persona},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "compile-persona" + suffix,
		Method:      http.MethodPost,
		Path:        pathPrefix + "/personas/compile",
		Summary:     "Preview compiled prompt",
		Description: "Render a persona as documentation or instructions without saving anything.",
		Tags:        tags,
	}, func(_ context.Context, input *CompileInput) (*types.Response[CompileBody], error) {
		mode := input.Body.Mode
		if mode == "" {
			mode = service.ModeDocumentation
		}
		text, err := svc.Compile(&input.Body.Persona, mode)
		if err != nil {
			return nil, serviceError(err, "Not found", "Failed to compile persona")
		}
		return &types.Response[CompileBody]{Body: CompileBody{OK: types.Success(), Mode: mode, Text: text}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "persona-samples" + suffix,
		Method:      http.MethodPost,
		Path:        pathPrefix + "/personas/samples",
		Summary:     "Generate scenario samples",
		Description: "Run the three scenario prompts of a category against the persona. Failed scenarios carry an error instead of content.",
		Tags:        tags,
	}, func(ctx context.Context, input *SamplesInput) (*types.Response[SamplesBody], error) {
		samples, err := svc.GenerateSamples(ctx, &input.Body.Persona, input.Body.Category)
		if err != nil {
			return nil, serviceError(err, "Not found", "Failed to generate samples")
		}
		return &types.Response[SamplesBody]{
			Body: SamplesBody{OK: types.Success(), Category: input.Body.Category, Samples: samples},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "persona-avatar" + suffix,
		Method:      http.MethodPost,
		Path:        pathPrefix + "/personas/avatar",
		Summary:     "Generate avatar",
		Tags:        tags,
	}, func(ctx context.Context, input *AvatarInput) (*types.Response[AvatarBody], error) {
		url, err := svc.GenerateAvatar(ctx, &input.Body.Persona)
		if err != nil {
			return nil, serviceError(err, "Not found", "Failed to generate avatar")
		}
		return &types.Response[AvatarBody]{Body: AvatarBody{OK: types.Success(), ImageURL: url}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "test-persona" + suffix,
		Method:      http.MethodPost,
		Path:        pathPrefix + "/personas/test",
		Summary:     "Test persona",
		Description: "Send a single message to the model using the persona's instructions as the system prompt.",
		Tags:        tags,
	}, func(ctx context.Context, input *TestPersonaInput) (*types.Response[TestPersonaBody], error) {
		reply, err := svc.TestPersona(ctx, &input.Body.Persona, input.Body.Message)
		if err != nil {
			return nil, serviceError(err, "Not found", "Failed to get a response")
		}
		return &types.Response[TestPersonaBody]{Body: TestPersonaBody{OK: types.Success(), Reply: reply}}, nil
	})
}
