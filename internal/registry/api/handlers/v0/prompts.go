package v0

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptdial/promptdial/internal/registry/service"
	"github.com/promptdial/promptdial/pkg/models"
	"github.com/promptdial/promptdial/pkg/types"
)

// PromptListBody is the caller's generated prompt history.
type PromptListBody struct {
	types.OK
	Prompts []*models.GeneratedPrompt `json:"prompts" doc:"Most recent first, at most 10"`
}

// PromptBody wraps a single history record.
type PromptBody struct {
	types.OK
	Prompt *models.GeneratedPrompt `json:"prompt"`
}

// CreatePromptInput represents the input for storing a generated prompt
type CreatePromptInput struct {
	Body models.GeneratedPrompt
}

// DeletePromptsInput deletes one record by query id or several by body ids.
type DeletePromptsInput struct {
	ID   string `query:"id" doc:"Prompt id" required:"false"`
	Body *struct {
		IDs []string `json:"ids" doc:"Prompt ids to delete"`
	} `required:"false"`
}

// DeletePromptsBody reports how many records were removed.
type DeletePromptsBody struct {
	types.OK
	Deleted int `json:"deleted"`
}

// RegisterPromptsEndpoints registers the generated prompt history endpoints.
func RegisterPromptsEndpoints(api huma.API, pathPrefix string, svc service.PersonaService) {
	tags := []string{"prompts"}
	suffix := strings.ReplaceAll(pathPrefix, "/", "-")

	huma.Register(api, huma.Operation{
		OperationID: "list-prompts" + suffix,
		Method:      http.MethodGet,
		Path:        pathPrefix + "/prompts",
		Summary:     "List generated prompts",
		Description: "Return the caller's most recent generated prompts, newest first.",
		Tags:        tags,
	}, func(ctx context.Context, _ *struct{}) (*types.Response[PromptListBody], error) {
		prompts, err := svc.ListPrompts(ctx)
		if err != nil {
			return nil, serviceError(err, "Not found", "Failed to get prompts list")
		}
		return &types.Response[PromptListBody]{Body: PromptListBody{OK: types.Success(), Prompts: prompts}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-prompt" + suffix,
		Method:      http.MethodPost,
		Path:        pathPrefix + "/prompts",
		Summary:     "Store generated prompt",
		Description: "Store a client-built history record as-is. Older records beyond the history limit are dropped.",
		Tags:        tags,
	}, func(ctx context.Context, input *CreatePromptInput) (*types.Response[PromptBody], error) {
		stored, err := svc.AddPrompt(ctx, &input.Body)
		if err != nil {
			return nil, serviceError(err, "Not found", "Failed to create prompt")
		}
		return &types.Response[PromptBody]{Body: PromptBody{OK: types.Success(), Prompt: stored}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-prompts" + suffix,
		Method:      http.MethodDelete,
		Path:        pathPrefix + "/prompts",
		Summary:     "Delete generated prompts",
		Description: "Delete one prompt with ?id= or several with a body of the form {\"ids\": [...]}.",
		Tags:        tags,
	}, func(ctx context.Context, input *DeletePromptsInput) (*types.Response[DeletePromptsBody], error) {
		var ids []string
		single := strings.TrimSpace(input.ID) != ""
		switch {
		case single:
			ids = []string{input.ID}
		case input.Body != nil:
			ids = input.Body.IDs
		}
		if len(ids) == 0 {
			return nil, huma.Error400BadRequest("Prompt id is required")
		}

		n, err := svc.DeletePrompts(ctx, ids...)
		if err != nil {
			return nil, serviceError(err, "Prompt not found", "Failed to delete prompts")
		}
		if single && n == 0 {
			return nil, huma.Error404NotFound("Prompt not found")
		}
		return &types.Response[DeletePromptsBody]{Body: DeletePromptsBody{OK: types.Success(), Deleted: n}}, nil
	})
}
