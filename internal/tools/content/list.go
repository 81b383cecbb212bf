package content

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// ListContentTool describes every shape on a slide.
type ListContentTool struct {
	sessions *session.Registry
}

func NewListContentTool(sessions *session.Registry) *ListContentTool {
	return &ListContentTool{sessions: sessions}
}

func (t *ListContentTool) Name() string {
	return "list_slide_content"
}

func (t *ListContentTool) Title() string {
	return "List Slide Content"
}

func (t *ListContentTool) Description() string {
	return `Describe every shape on a slide: index, type, name, position and size in
inches, plus type-specific details (text preview, table dimensions, chart
type, image source and alt text).

Shape indexes returned here are the ones accepted by format_existing_text
and the table tools, so call this first when working with a slide you did
not just build.`
}

func (t *ListContentTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *ListContentTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"presentation_id": {
				"type": "string",
				"description": "Handle of the presentation to read"
			},
			"slide_index": {
				"type": "integer",
				"description": "0-based index of the slide"
			}
		},
		"required": ["presentation_id", "slide_index"]
	}`)
}

func (t *ListContentTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
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

	slide, err := s.Deck.Slide(req.SlideIndex)
	if err != nil {
		return nil, err
	}
	shapes := slide.Describe()

	return map[string]interface{}{
		"slide_index": req.SlideIndex,
		"shape_count": len(shapes),
		"shapes":      shapes,
	}, nil
}
