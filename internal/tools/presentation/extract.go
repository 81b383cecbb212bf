package presentation

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// ExtractTextTool pulls all visible text out of a deck for review.
type ExtractTextTool struct {
	sessions *session.Registry
}

func NewExtractTextTool(sessions *session.Registry) *ExtractTextTool {
	return &ExtractTextTool{sessions: sessions}
}

func (t *ExtractTextTool) Name() string {
	return "extract_text"
}

func (t *ExtractTextTool) Title() string {
	return "Extract Text"
}

func (t *ExtractTextTool) Description() string {
	return `Extract all text from a presentation, slide by slide.

Returns one entry per slide with 1-based slide_number and a text_content list
covering text boxes, shapes with text, and table cells in document order.
Slides with no text still appear with an empty list. Useful for reviewing
deck content without rendering it.`
}

func (t *ExtractTextTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *ExtractTextTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"presentation_id": {
				"type": "string",
				"description": "Handle of the presentation to read"
			}
		},
		"required": ["presentation_id"]
	}`)
}

func (t *ExtractTextTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string `json:"presentation_id"`
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

	return s.Deck.ExtractText(), nil
}
