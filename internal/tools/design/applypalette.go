package design

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// ApplyPaletteTool recolors a presentation from a registered palette.
type ApplyPaletteTool struct {
	sessions *session.Registry
	designs  *Designs
}

func NewApplyPaletteTool(sessions *session.Registry, designs *Designs) *ApplyPaletteTool {
	return &ApplyPaletteTool{sessions: sessions, designs: designs}
}

func (t *ApplyPaletteTool) Name() string {
	return "apply_color_palette"
}

func (t *ApplyPaletteTool) Title() string {
	return "Apply Color Palette"
}

func (t *ApplyPaletteTool) Description() string {
	return `Recolor a presentation from a registered palette.

Title-area text takes the primary color, other text the text color, shape
fills the accent, and slide backgrounds the background color. apply_to
limits the pass to text, shapes, or backgrounds (default all).`
}

func (t *ApplyPaletteTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *ApplyPaletteTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"presentation_id": {
				"type": "string",
				"description": "Handle of the presentation to recolor"
			},
			"palette_id": {
				"type": "string",
				"description": "Palette handle from create_color_palette"
			},
			"apply_to": {
				"type": "string",
				"description": "all, text, shapes, or backgrounds (default all)"
			}
		},
		"required": ["presentation_id", "palette_id"]
	}`)
}

func (t *ApplyPaletteTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string `json:"presentation_id"`
		PaletteID      string `json:"palette_id"`
		ApplyTo        string `json:"apply_to"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}

	p, err := t.designs.Palette(req.PaletteID)
	if err != nil {
		return nil, err
	}

	s, err := t.sessions.Get(req.PresentationID)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	touched, err := s.Deck.ApplyPalette(p, req.ApplyTo)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"palette_id":       req.PaletteID,
		"elements_touched": touched,
	}, nil
}
