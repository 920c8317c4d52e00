package registryserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	servicetesting "github.com/promptdial/promptdial/internal/registry/service/testing"
	"github.com/promptdial/promptdial/pkg/models"
)

func connect(t *testing.T, fake *servicetesting.FakeService) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := NewServer(fake)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Wait() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = clientSession.Close() })
	return clientSession
}

func callTool[T any](t *testing.T, session *mcp.ClientSession, name string, args map[string]any) (T, *mcp.CallToolResult) {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	var out T
	if !res.IsError {
		require.NotNil(t, res.StructuredContent)
		raw, err := json.Marshal(res.StructuredContent)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return out, res
}

func TestListTools(t *testing.T) {
	session := connect(t, servicetesting.NewFakeService())

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"compile_persona", "list_personalities", "get_personality",
		"get_shared_prompt", "registry_health", "registry_version",
	}, names)
}

func TestCompilePersonaTool(t *testing.T) {
	session := connect(t, servicetesting.NewFakeService())
	persona := map[string]any{"name": "Helper", "detailLevel": 90, "jobRole": "Underwriter"}

	doc, res := callTool[CompileResult](t, session, "compile_persona", map[string]any{"persona": persona})
	require.False(t, res.IsError)
	assert.Equal(t, "documentation", doc.Mode)
	assert.NotEmpty(t, doc.Text)

	inst, res := callTool[CompileResult](t, session, "compile_persona", map[string]any{"persona": persona, "mode": "Instructions"})
	require.False(t, res.IsError)
	assert.Equal(t, "instructions", inst.Mode)
	assert.NotEqual(t, doc.Text, inst.Text)

	_, res = callTool[CompileResult](t, session, "compile_persona", map[string]any{"persona": persona, "mode": "poetry"})
	assert.True(t, res.IsError)
}

func TestPersonalityTools(t *testing.T) {
	fake := servicetesting.NewFakeService()
	fake.Personalities["alice/friendly"] = &models.PublicPersonality{
		ID: "p1", Name: "Friendly", Slug: "friendly", SystemPrompt: "Be kind.", Username: "alice",
	}
	session := connect(t, fake)

	list, res := callTool[PersonalityList](t, session, "list_personalities", map[string]any{"username": "alice"})
	require.False(t, res.IsError)
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, "friendly", list.Personalities[0].Slug)

	empty, res := callTool[PersonalityList](t, session, "list_personalities", map[string]any{"username": "nobody"})
	require.False(t, res.IsError)
	assert.Zero(t, empty.Count)

	one, res := callTool[models.PublicPersonality](t, session, "get_personality", map[string]any{"username": "alice", "slug": "friendly"})
	require.False(t, res.IsError)
	assert.Equal(t, "Be kind.", one.SystemPrompt)

	_, res = callTool[models.PublicPersonality](t, session, "get_personality", map[string]any{"username": "alice", "slug": "missing"})
	assert.True(t, res.IsError)
}

func TestGetSharedPromptTool(t *testing.T) {
	fake := servicetesting.NewFakeService()
	fake.Shared["abc123def456"] = "raw text"
	session := connect(t, fake)

	out, res := callTool[SharedPrompt](t, session, "get_shared_prompt", map[string]any{"id": "abc123def456"})
	require.False(t, res.IsError)
	assert.Equal(t, "raw text", out.PromptText)

	_, res = callTool[SharedPrompt](t, session, "get_shared_prompt", map[string]any{"id": "nope"})
	assert.True(t, res.IsError)
}
