package slides

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// AddTool appends a slide to a deck.
type AddTool struct {
	sessions *session.Registry
}

func NewAddTool(sessions *session.Registry) *AddTool {
	return &AddTool{sessions: sessions}
}

func (t *AddTool) Name() string {
	return "add_slide"
}

func (t *AddTool) Title() string {
	return "Add Slide"
}

func (t *AddTool) Description() string {
	return `Append a slide to the end of a presentation and return its 0-based index.

layout selects one of the built-in slide layouts (0-10); it defaults to 6,
the blank layout. Layouts only set the starting placeholders, content tools
position shapes explicitly afterwards.`
}

func (t *AddTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *AddTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"presentation_id": {
				"type": "string",
				"description": "Handle of the presentation to extend"
			},
			"layout": {
				"type": "integer",
				"description": "Slide layout index, 0-10 (default 6, blank)"
			}
		},
		"required": ["presentation_id"]
	}`)
}

func (t *AddTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string `json:"presentation_id"`
		Layout         *int   `json:"layout"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}

	layout := deck.LayoutBlank
	if req.Layout != nil {
		layout = *req.Layout
	}

	s, err := t.sessions.Get(req.PresentationID)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	idx, err := s.Deck.AddSlide(layout)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"slide_index": idx,
		"layout":      deck.LayoutName(layout),
		"slide_count": s.Deck.SlideCount(),
	}, nil
}
