package tables

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// SetCellTool writes text (and optional styling) into one table cell.
type SetCellTool struct {
	sessions *session.Registry
}

func NewSetCellTool(sessions *session.Registry) *SetCellTool {
	return &SetCellTool{sessions: sessions}
}

func (t *SetCellTool) Name() string {
	return "set_table_cell"
}

func (t *SetCellTool) Title() string {
	return "Set Table Cell"
}

func (t *SetCellTool) Description() string {
	return `Set the text of one table cell, optionally styling it in the same call.

row and column are 0-based. Omitted style fields keep the cell's current
formatting, so repeated writes do not reset styling.`
}

func (t *SetCellTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *SetCellTool) Schema() json.RawMessage {
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
			"shape_index": {
				"type": "integer",
				"description": "0-based index of the table shape"
			},
			"row":    {"type": "integer", "description": "0-based row"},
			"column": {"type": "integer", "description": "0-based column"},
			"text":   {"type": "string", "description": "New cell text"},
			"style": ` + cellStyleSchema + `
		},
		"required": ["presentation_id", "slide_index", "shape_index", "row", "column", "text"]
	}`)
}

func (t *SetCellTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string     `json:"presentation_id"`
		SlideIndex     int        `json:"slide_index"`
		ShapeIndex     int        `json:"shape_index"`
		Row            int        `json:"row"`
		Column         int        `json:"column"`
		Text           string     `json:"text"`
		Style          *cellStyle `json:"style"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	patch, alignment, fill, err := req.Style.parts()
	if err != nil {
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
	table, err := slide.TableAt(req.ShapeIndex)
	if err != nil {
		return nil, err
	}
	if err := table.SetCell(req.Row, req.Column, req.Text, patch, alignment, fill); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"slide_index": req.SlideIndex,
		"shape_index": req.ShapeIndex,
		"row":         req.Row,
		"column":      req.Column,
	}, nil
}
