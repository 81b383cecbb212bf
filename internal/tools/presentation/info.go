package presentation

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// InfoTool summarizes an open deck without modifying it.
type InfoTool struct {
	sessions *session.Registry
}

func NewInfoTool(sessions *session.Registry) *InfoTool {
	return &InfoTool{sessions: sessions}
}

func (t *InfoTool) Name() string {
	return "get_presentation_info"
}

func (t *InfoTool) Title() string {
	return "Get Presentation Info"
}

func (t *InfoTool) Description() string {
	return `Report slide count, slide dimensions in inches, per-slide titles, and the
source file path (empty for decks created from scratch).`
}

func (t *InfoTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *InfoTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"presentation_id": {
				"type": "string",
				"description": "Handle of the presentation to inspect"
			}
		},
		"required": ["presentation_id"]
	}`)
}

func (t *InfoTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
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

	return s.Deck.Info(), nil
}
