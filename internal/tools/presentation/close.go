package presentation

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// CloseTool releases a session and its in-memory deck.
type CloseTool struct {
	sessions *session.Registry
}

func NewCloseTool(sessions *session.Registry) *CloseTool {
	return &CloseTool{sessions: sessions}
}

func (t *CloseTool) Name() string {
	return "close_presentation"
}

func (t *CloseTool) Title() string {
	return "Close Presentation"
}

func (t *CloseTool) Description() string {
	return `Discard an open presentation handle and free its memory.

Unsaved edits are lost. Closing an already-closed handle succeeds, so this is
safe to call in cleanup paths.`
}

func (t *CloseTool) Annotations() map[string]bool {
	return tools.DestructiveAnnotations()
}

func (t *CloseTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"presentation_id": {
				"type": "string",
				"description": "Handle to release"
			}
		},
		"required": ["presentation_id"]
	}`)
}

func (t *CloseTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string `json:"presentation_id"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if req.PresentationID == "" {
		return nil, tools.NewBadArgument("presentation_id is required")
	}

	t.sessions.Release(req.PresentationID)
	log.Info("closed presentation", "id", req.PresentationID)

	return map[string]interface{}{
		"closed":          true,
		"presentation_id": req.PresentationID,
	}, nil
}
