package design

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// ApplyTypographyTool styles one shape from a typography profile role.
type ApplyTypographyTool struct {
	sessions *session.Registry
	designs  *Designs
}

func NewApplyTypographyTool(sessions *session.Registry, designs *Designs) *ApplyTypographyTool {
	return &ApplyTypographyTool{sessions: sessions, designs: designs}
}

func (t *ApplyTypographyTool) Name() string {
	return "apply_typography_style"
}

func (t *ApplyTypographyTool) Title() string {
	return "Apply Typography Style"
}

func (t *ApplyTypographyTool) Description() string {
	return `Apply one role of a typography profile (title, subtitle, heading, body,
or caption) to every run of a shape's text. The profile must define the
role; the shape must have text.`
}

func (t *ApplyTypographyTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *ApplyTypographyTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"presentation_id": {
				"type": "string",
				"description": "Handle of the presentation"
			},
			"profile_id": {
				"type": "string",
				"description": "Profile handle from create_typography_profile"
			},
			"slide_index": {
				"type": "integer",
				"description": "0-based index of the slide"
			},
			"shape_index": {
				"type": "integer",
				"description": "0-based index of the shape to style"
			},
			"role": {
				"type": "string",
				"description": "title, subtitle, heading, body, or caption"
			}
		},
		"required": ["presentation_id", "profile_id", "slide_index", "shape_index", "role"]
	}`)
}

func (t *ApplyTypographyTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string `json:"presentation_id"`
		ProfileID      string `json:"profile_id"`
		SlideIndex     int    `json:"slide_index"`
		ShapeIndex     int    `json:"shape_index"`
		Role           string `json:"role"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}

	p, err := t.designs.Profile(req.ProfileID)
	if err != nil {
		return nil, err
	}
	font, err := p.RoleFont(req.Role)
	if err != nil {
		return nil, err
	}

	s, err := t.sessions.Get(req.PresentationID)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	if err := s.Deck.ApplyTypography(req.SlideIndex, req.ShapeIndex, font); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"slide_index": req.SlideIndex,
		"shape_index": req.ShapeIndex,
		"role":        req.Role,
		"styled":      true,
	}, nil
}
