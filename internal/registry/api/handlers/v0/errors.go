package v0

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptdial/promptdial/internal/registry/llm"
	"github.com/promptdial/promptdial/pkg/registry/auth"
	"github.com/promptdial/promptdial/pkg/registry/database"
)

// serviceError maps service failures onto HTTP errors. msg describes the
// failed action for 500 responses.
func serviceError(err error, notFound, msg string) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return huma.Error404NotFound(notFound)
	case errors.Is(err, database.ErrConflict):
		return huma.Error409Conflict("Conflict", err)
	case errors.Is(err, database.ErrInvalidInput):
		return huma.Error400BadRequest("Invalid request", err)
	case errors.Is(err, auth.ErrUnauthorized):
		return huma.Error401Unauthorized("Sign in required")
	case errors.Is(err, llm.ErrUnknownCategory):
		return huma.Error400BadRequest("Unknown sample category", err)
	case errors.Is(err, llm.ErrMissingCredential):
		return huma.Error500InternalServerError("LLM provider is not configured", err)
	}
	return huma.Error500InternalServerError(msg, err)
}
