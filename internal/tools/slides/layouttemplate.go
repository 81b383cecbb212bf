package slides

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// LayoutTemplateTool rebuilds a slide from a named placeholder arrangement.
type LayoutTemplateTool struct {
	sessions *session.Registry
}

func NewLayoutTemplateTool(sessions *session.Registry) *LayoutTemplateTool {
	return &LayoutTemplateTool{sessions: sessions}
}

func (t *LayoutTemplateTool) Name() string {
	return "set_slide_layout_template"
}

func (t *LayoutTemplateTool) Title() string {
	return "Set Slide Layout Template"
}

func (t *LayoutTemplateTool) Description() string {
	return `Replace a slide's content with a named placeholder arrangement.

PURPOSE: lay out a slide in one call instead of positioning text boxes by
hand. Templates: title_slide, title_content, section_header, two_content,
comparison, blank.

The slide's existing shapes are removed first. values fills placeholders by
key, e.g. {"title": "Q3 Review", "content": "..."}; keys the template does
not define are ignored, missing keys leave the placeholder empty.`
}

func (t *LayoutTemplateTool) Annotations() map[string]bool {
	return tools.DestructiveAnnotations()
}

func (t *LayoutTemplateTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"presentation_id": {
				"type": "string",
				"description": "Handle of the presentation to modify"
			},
			"slide_index": {
				"type": "integer",
				"description": "0-based index of the slide"
			},
			"template": {
				"type": "string",
				"description": "Template name: title_slide, title_content, section_header, two_content, comparison, blank"
			},
			"values": {
				"type": "object",
				"description": "Placeholder text keyed by placeholder key (title, content, subtitle, ...)",
				"additionalProperties": {"type": "string"}
			}
		},
		"required": ["presentation_id", "slide_index", "template"]
	}`)
}

func (t *LayoutTemplateTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string            `json:"presentation_id"`
		SlideIndex     int               `json:"slide_index"`
		Template       string            `json:"template"`
		Values         map[string]string `json:"values"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if req.Template == "" {
		return nil, tools.NewBadArgument("template is required")
	}

	s, err := t.sessions.Get(req.PresentationID)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	created, err := s.Deck.ApplyLayoutTemplate(req.SlideIndex, req.Template, req.Values)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"slide_index":  req.SlideIndex,
		"template":     req.Template,
		"placeholders": created,
	}, nil
}
