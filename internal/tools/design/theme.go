package design

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/args"
)

// ThemeTool registers a master slide theme.
type ThemeTool struct {
	designs *Designs
}

func NewThemeTool(designs *Designs) *ThemeTool {
	return &ThemeTool{designs: designs}
}

func (t *ThemeTool) Name() string {
	return "create_master_slide_theme"
}

func (t *ThemeTool) Title() string {
	return "Create Master Slide Theme"
}

func (t *ThemeTool) Description() string {
	return `Register a reusable deck-wide theme and return its theme_id.

A theme bundles a background color, a title font, a body font, and accent
colors. It changes nothing until apply_master_theme is called, and the same
theme can be applied to any number of presentations.`
}

func (t *ThemeTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *ThemeTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"name": {
				"type": "string",
				"description": "Display name for the theme"
			},
			"background": {
				"description": "Slide background as \"#RRGGBB\" or [r, g, b]"
			},
			"title_font": {
				"type": "object",
				"description": "Font descriptor for title text"
			},
			"body_font": {
				"type": "object",
				"description": "Font descriptor for body text"
			},
			"accents": {
				"type": "array",
				"description": "Accent colors",
				"items": {}
			}
		},
		"required": ["name"]
	}`)
}

func (t *ThemeTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		Name       string        `json:"name"`
		Background interface{}   `json:"background"`
		TitleFont  *args.Font    `json:"title_font"`
		BodyFont   *args.Font    `json:"body_font"`
		Accents    []interface{} `json:"accents"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if req.Name == "" {
		return nil, tools.NewBadArgument("name is required")
	}

	theme := &deck.MasterTheme{Name: req.Name}
	if req.Background != nil {
		bg, err := deck.ParseColor(req.Background)
		if err != nil {
			return nil, err
		}
		theme.Background = bg
	}
	if req.TitleFont != nil {
		font, err := req.TitleFont.Full()
		if err != nil {
			return nil, err
		}
		if font != nil {
			theme.TitleFont = *font
		}
	}
	if req.BodyFont != nil {
		font, err := req.BodyFont.Full()
		if err != nil {
			return nil, err
		}
		if font != nil {
			theme.BodyFont = *font
		}
	}
	for _, raw := range req.Accents {
		c, err := deck.ParseColor(raw)
		if err != nil {
			return nil, err
		}
		theme.Accents = append(theme.Accents, *c)
	}

	id := t.designs.AddTheme(theme)
	return map[string]interface{}{
		"theme_id": id,
		"name":     req.Name,
	}, nil
}
