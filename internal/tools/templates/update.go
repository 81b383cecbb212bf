package templates

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/templating"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// UpdateContentTool re-substitutes placeholder text in an open deck.
type UpdateContentTool struct {
	sessions *session.Registry
}

func NewUpdateContentTool(sessions *session.Registry) *UpdateContentTool {
	return &UpdateContentTool{sessions: sessions}
}

func (t *UpdateContentTool) Name() string {
	return "update_template_content"
}

func (t *UpdateContentTool) Title() string {
	return "Update Template Content"
}

func (t *UpdateContentTool) Description() string {
	return `Refresh the text of a generated presentation with new data.

updates maps slide indices (as strings) to data objects; every text-bearing
shape on those slides is re-substituted, so placeholders left literal by an
earlier apply_template now resolve. Returns a per-shape change list with
before/after text and a patch form of each edit.`
}

func (t *UpdateContentTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *UpdateContentTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"presentation_id": {
				"type": "string",
				"description": "Handle of the presentation to update"
			},
			"updates": {
				"type": "object",
				"description": "Data per slide index: {\"0\": {\"title\": \"New Title\"}}"
			}
		},
		"required": ["presentation_id", "updates"]
	}`)
}

func (t *UpdateContentTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string                            `json:"presentation_id"`
		Updates        map[string]map[string]interface{} `json:"updates"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if len(req.Updates) == 0 {
		return nil, tools.NewBadArgument("updates must name at least one slide")
	}

	s, err := t.sessions.Get(req.PresentationID)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	changes, err := templating.UpdateContent(s.Deck, req.Updates)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"shapes_updated": len(changes),
		"changes":        changes,
	}, nil
}
