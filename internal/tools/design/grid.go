package design

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// GridTool stores a design grid on a deck.
type GridTool struct {
	sessions *session.Registry
}

func NewGridTool(sessions *session.Registry) *GridTool {
	return &GridTool{sessions: sessions}
}

func (t *GridTool) Name() string {
	return "create_layout_grid"
}

func (t *GridTool) Title() string {
	return "Create Layout Grid"
}

func (t *GridTool) Description() string {
	return `Define a columns x rows design grid for a presentation.

margin_in is the outer margin and gutter_in the spacing between cells, both
in inches. The grid is metadata for snap_to_grid; it draws nothing. Creating
a new grid replaces the previous one.`
}

func (t *GridTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *GridTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"presentation_id": {
				"type": "string",
				"description": "Handle of the presentation"
			},
			"columns":   {"type": "integer", "description": "Grid columns, >= 1"},
			"rows":      {"type": "integer", "description": "Grid rows, >= 1"},
			"margin_in": {"type": "number", "description": "Outer margin in inches (default 0.5)"},
			"gutter_in": {"type": "number", "description": "Cell spacing in inches (default 0.1)"}
		},
		"required": ["presentation_id", "columns", "rows"]
	}`)
}

func (t *GridTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string   `json:"presentation_id"`
		Columns        int      `json:"columns"`
		Rows           int      `json:"rows"`
		MarginIn       *float64 `json:"margin_in"`
		GutterIn       *float64 `json:"gutter_in"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}

	margin, gutter := 0.5, 0.1
	if req.MarginIn != nil {
		margin = *req.MarginIn
	}
	if req.GutterIn != nil {
		gutter = *req.GutterIn
	}

	grid, err := deck.NewLayoutGrid(req.Columns, req.Rows, deck.FromInches(margin), deck.FromInches(gutter))
	if err != nil {
		return nil, err
	}

	s, err := t.sessions.Get(req.PresentationID)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	s.Deck.SetGrid(grid)

	return map[string]interface{}{
		"columns":   grid.Columns,
		"rows":      grid.Rows,
		"margin_in": margin,
		"gutter_in": gutter,
	}, nil
}
