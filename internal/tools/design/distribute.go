package design

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// DistributeTool equalizes spacing between shapes on a slide.
type DistributeTool struct {
	sessions *session.Registry
}

func NewDistributeTool(sessions *session.Registry) *DistributeTool {
	return &DistributeTool{sessions: sessions}
}

func (t *DistributeTool) Name() string {
	return "distribute_shapes"
}

func (t *DistributeTool) Title() string {
	return "Distribute Shapes"
}

func (t *DistributeTool) Description() string {
	return `Even out the gaps between shapes along one axis.

direction is horizontal or vertical. shape_indices picks which shapes to
distribute (default: all shapes on the slide, minimum two). The outermost
shapes stay put; the ones between are respaced so every gap matches.`
}

func (t *DistributeTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *DistributeTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"presentation_id": {
				"type": "string",
				"description": "Handle of the presentation"
			},
			"slide_index": {
				"type": "integer",
				"description": "0-based index of the slide"
			},
			"direction": {
				"type": "string",
				"description": "horizontal or vertical"
			},
			"shape_indices": {
				"type": "array",
				"items": {"type": "integer"},
				"description": "Shapes to distribute (default: all)"
			}
		},
		"required": ["presentation_id", "slide_index", "direction"]
	}`)
}

func (t *DistributeTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string `json:"presentation_id"`
		SlideIndex     int    `json:"slide_index"`
		Direction      string `json:"direction"`
		ShapeIndices   []int  `json:"shape_indices"`
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

	if err := s.Deck.DistributeShapes(req.SlideIndex, req.Direction, req.ShapeIndices); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"slide_index": req.SlideIndex,
		"direction":   req.Direction,
		"distributed": true,
	}, nil
}
