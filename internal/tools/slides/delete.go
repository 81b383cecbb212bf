package slides

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// DeleteTool removes a slide from a deck.
type DeleteTool struct {
	sessions *session.Registry
}

func NewDeleteTool(sessions *session.Registry) *DeleteTool {
	return &DeleteTool{sessions: sessions}
}

func (t *DeleteTool) Name() string {
	return "delete_slide"
}

func (t *DeleteTool) Title() string {
	return "Delete Slide"
}

func (t *DeleteTool) Description() string {
	return `Delete the slide at slide_index (0-based). Later slides shift down one
index, so delete from the end first when removing several.`
}

func (t *DeleteTool) Annotations() map[string]bool {
	return tools.DestructiveAnnotations()
}

func (t *DeleteTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"presentation_id": {
				"type": "string",
				"description": "Handle of the presentation to modify"
			},
			"slide_index": {
				"type": "integer",
				"description": "0-based index of the slide to remove"
			}
		},
		"required": ["presentation_id", "slide_index"]
	}`)
}

func (t *DeleteTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string `json:"presentation_id"`
		SlideIndex     int    `json:"slide_index"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}

	s, err := t.sessions.Get(req.PresentationID)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	if err := s.Deck.DeleteSlide(req.SlideIndex); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"deleted":     true,
		"slide_index": req.SlideIndex,
		"slide_count": s.Deck.SlideCount(),
	}, nil
}
