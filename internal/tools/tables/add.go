package tables

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/args"
)

// AddTool creates an empty table on a slide.
type AddTool struct {
	sessions *session.Registry
}

func NewAddTool(sessions *session.Registry) *AddTool {
	return &AddTool{sessions: sessions}
}

func (t *AddTool) Name() string {
	return "add_table"
}

func (t *AddTool) Title() string {
	return "Add Table"
}

func (t *AddTool) Description() string {
	return `Add an empty rows x columns table to a slide.

With header_row=true the first row gets the standard header treatment (blue
fill, bold white text). Fill cells afterwards with set_table_cell, or use
create_table_with_data to build and fill a table in one call.`
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
				"description": "Handle of the presentation to modify"
			},
			"slide_index": {
				"type": "integer",
				"description": "0-based index of the slide"
			},
			"rows":    {"type": "integer", "description": "Row count, >= 1"},
			"columns": {"type": "integer", "description": "Column count, >= 1"},
			"left":    {"type": "number", "description": "Inches from the left edge"},
			"top":     {"type": "number", "description": "Inches from the top edge"},
			"width":   {"type": "number", "description": "Width in inches"},
			"height":  {"type": "number", "description": "Height in inches"},
			"header_row": {
				"type": "boolean",
				"description": "Style the first row as a header"
			}
		},
		"required": ["presentation_id", "slide_index", "rows", "columns", "left", "top", "width", "height"]
	}`)
}

func (t *AddTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string `json:"presentation_id"`
		SlideIndex     int    `json:"slide_index"`
		Rows           int    `json:"rows"`
		Columns        int    `json:"columns"`
		HeaderRow      bool   `json:"header_row"`
		args.Position
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if err := req.Position.Validate(); err != nil {
		return nil, err
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
	idx, err := slide.AddTable(req.Rows, req.Columns, req.Position.Frame(), req.HeaderRow)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"slide_index": req.SlideIndex,
		"shape_index": idx,
		"rows":        req.Rows,
		"columns":     req.Columns,
	}, nil
}
