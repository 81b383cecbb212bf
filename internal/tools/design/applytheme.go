package design

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// ApplyThemeTool applies a registered master theme to a whole deck.
type ApplyThemeTool struct {
	sessions *session.Registry
	designs  *Designs
}

func NewApplyThemeTool(sessions *session.Registry, designs *Designs) *ApplyThemeTool {
	return &ApplyThemeTool{sessions: sessions, designs: designs}
}

func (t *ApplyThemeTool) Name() string {
	return "apply_master_theme"
}

func (t *ApplyThemeTool) Title() string {
	return "Apply Master Theme"
}

func (t *ApplyThemeTool) Description() string {
	return `Apply a registered theme to every slide of a presentation: backgrounds
take the theme background, title-area text the title font, and other text
the body font. Existing font sizes are kept.`
}

func (t *ApplyThemeTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *ApplyThemeTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"presentation_id": {
				"type": "string",
				"description": "Handle of the presentation to restyle"
			},
			"theme_id": {
				"type": "string",
				"description": "Theme handle from create_master_slide_theme"
			}
		},
		"required": ["presentation_id", "theme_id"]
	}`)
}

func (t *ApplyThemeTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string `json:"presentation_id"`
		ThemeID        string `json:"theme_id"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}

	theme, err := t.designs.Theme(req.ThemeID)
	if err != nil {
		return nil, err
	}

	s, err := t.sessions.Get(req.PresentationID)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	updated := s.Deck.ApplyTheme(theme)

	return map[string]interface{}{
		"theme_id":       req.ThemeID,
		"slides_updated": updated,
	}, nil
}
