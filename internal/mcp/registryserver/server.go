// Package registryserver exposes read-only persona tools over MCP.
package registryserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/promptdial/promptdial/internal/registry/service"
	"github.com/promptdial/promptdial/internal/version"
	"github.com/promptdial/promptdial/pkg/models"
)

const serverName = "promptdial-mcp"

// NewServer constructs an MCP server that exposes read-only tools backed by the persona service.
// Only public content (personalities and shared prompts) is reachable, plus stateless compilation.
func NewServer(svc service.PersonaService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version.Version,
	}, &mcp.ServerOptions{
		HasTools: true,
	})

	addCompileTools(server, svc)
	addPersonalityTools(server, svc)
	addShareTools(server, svc)
	addMetaTools(server, svc)

	return server
}

// The persona is taken as a loose object so callers may omit any field.
type compilePersonaArgs struct {
	Persona map[string]any `json:"persona" jsonschema:"persona configuration to compile, using the HTTP API field names"`
	Mode    string         `json:"mode,omitempty" jsonschema:"documentation (default) or instructions"`
}

// CompileResult is the output of compile_persona.
type CompileResult struct {
	Mode string `json:"mode"`
	Text string `json:"text"`
}

func addCompileTools(server *mcp.Server, svc service.PersonaService) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile_persona",
		Description: "Compile a persona configuration into a system prompt without saving it",
	}, func(_ context.Context, _ *mcp.CallToolRequest, args compilePersonaArgs) (*mcp.CallToolResult, CompileResult, error) {
		mode := service.CompileMode(strings.ToLower(strings.TrimSpace(args.Mode)))
		if mode == "" {
			mode = service.ModeDocumentation
		}
		raw, err := json.Marshal(args.Persona)
		if err != nil {
			return nil, CompileResult{}, err
		}
		var persona models.Persona
		if err := json.Unmarshal(raw, &persona); err != nil {
			return nil, CompileResult{}, fmt.Errorf("invalid persona: %w", err)
		}
		text, err := svc.Compile(&persona, mode)
		if err != nil {
			return nil, CompileResult{}, fmt.Errorf("unsupported mode %q", args.Mode)
		}
		return nil, CompileResult{Mode: string(mode), Text: text}, nil
	})
}

// PersonalityList is the output of list_personalities.
type PersonalityList struct {
	Username      string                     `json:"username"`
	Personalities []models.PublicPersonality `json:"personalities"`
	Count         int                        `json:"count"`
}

func addPersonalityTools(server *mcp.Server, svc service.PersonaService) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_personalities",
		Description: "List the personalities a user has published",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args struct {
		Username string `json:"username"`
	}) (*mcp.CallToolResult, PersonalityList, error) {
		if args.Username == "" {
			return nil, PersonalityList{}, fmt.Errorf("username is required")
		}
		list, err := svc.ListPersonalities(ctx, args.Username)
		if err != nil {
			return nil, PersonalityList{}, err
		}
		if list == nil {
			list = []models.PublicPersonality{}
		}
		return nil, PersonalityList{
			Username:      strings.ToLower(args.Username),
			Personalities: list,
			Count:         len(list),
		}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_personality",
		Description: "Fetch a published personality, including its system prompt",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args struct {
		Username string `json:"username"`
		Slug     string `json:"slug"`
	}) (*mcp.CallToolResult, models.PublicPersonality, error) {
		if args.Username == "" || args.Slug == "" {
			return nil, models.PublicPersonality{}, fmt.Errorf("username and slug are required")
		}
		p, err := svc.GetPersonality(ctx, args.Username, args.Slug)
		if err != nil {
			return nil, models.PublicPersonality{}, err
		}
		return nil, *p, nil
	})
}

// SharedPrompt is the output of get_shared_prompt.
type SharedPrompt struct {
	ID         string `json:"id"`
	PromptText string `json:"promptText"`
}

func addShareTools(server *mcp.Server, svc service.PersonaService) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_shared_prompt",
		Description: "Fetch the raw text of a shared prompt by id",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args struct {
		ID string `json:"id"`
	}) (*mcp.CallToolResult, SharedPrompt, error) {
		if args.ID == "" {
			return nil, SharedPrompt{}, fmt.Errorf("id is required")
		}
		text, err := svc.GetShared(ctx, args.ID)
		if err != nil {
			return nil, SharedPrompt{}, err
		}
		return nil, SharedPrompt{ID: args.ID, PromptText: text}, nil
	})
}

func addMetaTools(server *mcp.Server, svc service.PersonaService) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "registry_health",
		Description: "Check that the persona store is reachable",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, map[string]string, error) {
		if err := svc.Ping(ctx); err != nil {
			return nil, nil, err
		}
		return nil, map[string]string{"status": "ok"}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "registry_version",
		Description: "Return build metadata",
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, map[string]string, error) {
		return nil, map[string]string{
			"version":    version.Version,
			"serverName": serverName,
		}, nil
	})
}
