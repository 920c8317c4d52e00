package v0_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v0 "github.com/promptdial/promptdial/internal/registry/api/handlers/v0"
	servicetesting "github.com/promptdial/promptdial/internal/registry/service/testing"
	"github.com/promptdial/promptdial/pkg/models"
)

func newPromptsAPI(t *testing.T, fake *servicetesting.FakeService) http.Handler {
	t.Helper()
	mux, api := newTestAPI(t)
	v0.RegisterPromptsEndpoints(api, "/v0", fake)
	return mux
}

func TestPrompts_CreateAndList(t *testing.T) {
	fake := servicetesting.NewFakeService()
	mux := newPromptsAPI(t, fake)

	w := serve(t, mux, http.MethodPost, "/v0/prompts", map[string]any{
		"id":              "g1",
		"templateId":      "p1",
		"configName":      "Friendly",
		"promptText":      "You are friendly.",
		"variation":       1,
		"totalVariations": 1,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "You are friendly.", decode[v0.PromptBody](t, w).Prompt.PromptText)

	w = serve(t, mux, http.MethodGet, "/v0/prompts", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode[v0.PromptListBody](t, w)
	assert.True(t, out.Success)
	require.Len(t, out.Prompts, 1)
	assert.Equal(t, "g1", out.Prompts[0].ID)
}

func TestDeletePrompts(t *testing.T) {
	t.Run("missing id", func(t *testing.T) {
		mux := newPromptsAPI(t, servicetesting.NewFakeService())

		w := serve(t, mux, http.MethodDelete, "/v0/prompts", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Prompt id is required", decode[errorBody](t, w).Error)

		w = serve(t, mux, http.MethodDelete, "/v0/prompts", map[string]any{"ids": []string{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("single", func(t *testing.T) {
		fake := servicetesting.NewFakeService()
		mux := newPromptsAPI(t, fake)

		w := serve(t, mux, http.MethodDelete, "/v0/prompts?id=g1", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, 1, decode[v0.DeletePromptsBody](t, w).Deleted)
		assert.Equal(t, []string{"g1"}, fake.DeletedPrompts)
	})

	t.Run("bulk", func(t *testing.T) {
		fake := servicetesting.NewFakeService()
		mux := newPromptsAPI(t, fake)

		w := serve(t, mux, http.MethodDelete, "/v0/prompts", map[string]any{"ids": []string{"g1", "g2"}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, 2, decode[v0.DeletePromptsBody](t, w).Deleted)
		assert.Equal(t, []string{"g1", "g2"}, fake.DeletedPrompts)
	})

	t.Run("unknown single", func(t *testing.T) {
		fake := servicetesting.NewFakeService()
		fake.DeletePromptsFn = func(context.Context, ...string) (int, error) { return 0, nil }
		mux := newPromptsAPI(t, fake)

		w := serve(t, mux, http.MethodDelete, "/v0/prompts?id=nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListPrompts_Empty(t *testing.T) {
	fake := servicetesting.NewFakeService()
	fake.ListPromptsFn = func(context.Context) ([]*models.GeneratedPrompt, error) {
		return []*models.GeneratedPrompt{}, nil
	}
	mux := newPromptsAPI(t, fake)

	w := serve(t, mux, http.MethodGet, "/v0/prompts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"prompts":[]`)
}
