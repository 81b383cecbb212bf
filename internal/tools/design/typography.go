package design

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/args"
)

// TypographyTool registers a typography profile.
type TypographyTool struct {
	designs *Designs
}

func NewTypographyTool(designs *Designs) *TypographyTool {
	return &TypographyTool{designs: designs}
}

func (t *TypographyTool) Name() string {
	return "create_typography_profile"
}

func (t *TypographyTool) Title() string {
	return "Create Typography Profile"
}

func (t *TypographyTool) Description() string {
	return `Register a typography profile mapping the roles title, subtitle,
heading, body, and caption to font descriptors, and return its profile_id.

Roles not listed are simply absent; applying an absent role later fails.
Use apply_typography_style to style a shape from the profile.`
}

func (t *TypographyTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *TypographyTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"name": {
				"type": "string",
				"description": "Display name for the profile"
			},
			"roles": {
				"type": "object",
				"description": "Font descriptor per role: {\"title\": {\"font_name\": \"Georgia\", \"font_size\": 40, \"bold\": true}}"
			}
		},
		"required": ["roles"]
	}`)
}

func (t *TypographyTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		Name  string                `json:"name"`
		Roles map[string]*args.Font `json:"roles"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if len(req.Roles) == 0 {
		return nil, tools.NewBadArgument("roles is required and must not be empty")
	}

	roles := make(map[string]deck.Font, len(req.Roles))
	for role, fontArg := range req.Roles {
		if !validTypographyRole(role) {
			return nil, tools.NewBadArgument("unknown typography role %q: expected one of %v", role, deck.TypographyRoles)
		}
		font, err := fontArg.Full()
		if err != nil {
			return nil, err
		}
		if font == nil {
			return nil, tools.NewBadArgument("role %q has an empty font descriptor", role)
		}
		roles[role] = *font
	}

	name := req.Name
	if name == "" {
		name = "custom"
	}
	p := &deck.TypographyProfile{Name: name, Roles: roles}
	id := t.designs.AddProfile(p)

	roleNames := make([]string, 0, len(roles))
	for _, r := range deck.TypographyRoles {
		if _, ok := roles[r]; ok {
			roleNames = append(roleNames, r)
		}
	}
	return map[string]interface{}{
		"profile_id": id,
		"name":       name,
		"roles":      roleNames,
	}, nil
}

func validTypographyRole(role string) bool {
	for _, r := range deck.TypographyRoles {
		if r == role {
			return true
		}
	}
	return false
}
