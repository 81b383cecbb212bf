package design

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// PaletteTool registers a color palette for later application.
type PaletteTool struct {
	designs *Designs
}

func NewPaletteTool(designs *Designs) *PaletteTool {
	return &PaletteTool{designs: designs}
}

func (t *PaletteTool) Name() string {
	return "create_color_palette"
}

func (t *PaletteTool) Title() string {
	return "Create Color Palette"
}

func (t *PaletteTool) Description() string {
	return `Register a color palette and return its palette_id.

Start from a predefined scheme (corporate_blue, modern_dark, warm_earth,
minimal_gray, vibrant), supply a custom colors map for the roles primary,
secondary, accent, background, and text, or combine both: custom colors
override the scheme role by role. Palettes are not tied to a presentation;
apply one with apply_color_palette.`
}

func (t *PaletteTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *PaletteTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"name": {
				"type": "string",
				"description": "Display name for the palette"
			},
			"base_scheme": {
				"type": "string",
				"description": "Predefined scheme to start from"
			},
			"colors": {
				"type": "object",
				"description": "Role colors, e.g. {\"primary\": \"#1F4E79\", \"text\": [38, 38, 38]}"
			}
		}
	}`)
}

func (t *PaletteTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		Name       string                 `json:"name"`
		BaseScheme string                 `json:"base_scheme"`
		Colors     map[string]interface{} `json:"colors"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if req.BaseScheme == "" && len(req.Colors) == 0 {
		return nil, tools.NewBadArgument("provide base_scheme, colors, or both")
	}

	colors := make(map[string]deck.RGB)
	if req.BaseScheme != "" {
		scheme, ok := deck.PredefinedPalette(req.BaseScheme)
		if !ok {
			return nil, tools.NewBadArgument("unknown scheme %q: expected one of %v", req.BaseScheme, deck.PredefinedPaletteNames())
		}
		colors = scheme
	}
	for role, raw := range req.Colors {
		if !validPaletteRole(role) {
			return nil, tools.NewBadArgument("unknown palette role %q: expected one of %v", role, deck.PaletteRoles)
		}
		c, err := deck.ParseColor(raw)
		if err != nil {
			return nil, err
		}
		colors[role] = *c
	}

	name := req.Name
	if name == "" {
		name = req.BaseScheme
	}
	if name == "" {
		name = "custom"
	}

	p := &deck.Palette{Name: name, Colors: colors}
	id := t.designs.AddPalette(p)

	hex := make(map[string]string, len(colors))
	for role, c := range colors {
		hex[role] = c.Hex()
	}
	return map[string]interface{}{
		"palette_id": id,
		"name":       name,
		"colors":     hex,
	}, nil
}

func validPaletteRole(role string) bool {
	for _, r := range deck.PaletteRoles {
		if r == role {
			return true
		}
	}
	return false
}
