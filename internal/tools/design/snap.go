package design

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// SnapTool repositions a shape onto the deck's layout grid.
type SnapTool struct {
	sessions *session.Registry
}

func NewSnapTool(sessions *session.Registry) *SnapTool {
	return &SnapTool{sessions: sessions}
}

func (t *SnapTool) Name() string {
	return "snap_to_grid"
}

func (t *SnapTool) Title() string {
	return "Snap To Grid"
}

func (t *SnapTool) Description() string {
	return `Move and resize a shape to cover a cell range of the layout grid.

column and row pick the top-left cell (0-based); column_span and row_span
extend the shape across neighbors (default 1). Fails if no grid was defined
with create_layout_grid. Returns the shape's new frame in inches.`
}

func (t *SnapTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *SnapTool) Schema() json.RawMessage {
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
			"shape_index": {
				"type": "integer",
				"description": "0-based index of the shape to move"
			},
			"column":      {"type": "integer", "description": "0-based grid column"},
			"row":         {"type": "integer", "description": "0-based grid row"},
			"column_span": {"type": "integer", "description": "Cells covered horizontally (default 1)"},
			"row_span":    {"type": "integer", "description": "Cells covered vertically (default 1)"}
		},
		"required": ["presentation_id", "slide_index", "shape_index", "column", "row"]
	}`)
}

func (t *SnapTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string `json:"presentation_id"`
		SlideIndex     int    `json:"slide_index"`
		ShapeIndex     int    `json:"shape_index"`
		Column         int    `json:"column"`
		Row            int    `json:"row"`
		ColumnSpan     int    `json:"column_span"`
		RowSpan        int    `json:"row_span"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if req.ColumnSpan == 0 {
		req.ColumnSpan = 1
	}
	if req.RowSpan == 0 {
		req.RowSpan = 1
	}

	s, err := t.sessions.Get(req.PresentationID)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	rect, err := s.Deck.SnapToGrid(req.SlideIndex, req.ShapeIndex, req.Column, req.Row, req.ColumnSpan, req.RowSpan)
	if err != nil {
		return nil, err
	}

	left, top, width, height := rect.Inches()
	return map[string]interface{}{
		"shape_index": req.ShapeIndex,
		"left":        left,
		"top":         top,
		"width":       width,
		"height":      height,
	}, nil
}
