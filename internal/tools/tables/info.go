package tables

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// InfoTool reports a table's dimensions and full cell contents.
type InfoTool struct {
	sessions *session.Registry
}

func NewInfoTool(sessions *session.Registry) *InfoTool {
	return &InfoTool{sessions: sessions}
}

func (t *InfoTool) Name() string {
	return "get_table_info"
}

func (t *InfoTool) Title() string {
	return "Get Table Info"
}

func (t *InfoTool) Description() string {
	return `Report a table's dimensions and contents: rows, columns, total_cells,
and a row-major cells matrix where each entry carries the cell text and a
formatting summary (font, color, fill, alignment).`
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
				"description": "Handle of the presentation to read"
			},
			"slide_index": {
				"type": "integer",
				"description": "0-based index of the slide"
			},
			"shape_index": {
				"type": "integer",
				"description": "0-based index of the table shape"
			}
		},
		"required": ["presentation_id", "slide_index", "shape_index"]
	}`)
}

func (t *InfoTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string `json:"presentation_id"`
		SlideIndex     int    `json:"slide_index"`
		ShapeIndex     int    `json:"shape_index"`
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
	table, err := slide.TableAt(req.ShapeIndex)
	if err != nil {
		return nil, err
	}

	rows := table.RowCount()
	cols := table.ColCount()
	return map[string]interface{}{
		"rows":        rows,
		"columns":     cols,
		"total_cells": rows * cols,
		"header_row":  table.HeaderRow,
		"cells":       table.Matrix(),
	}, nil
}
