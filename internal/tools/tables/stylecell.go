package tables

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// StyleCellTool restyles one table cell without changing its text.
type StyleCellTool struct {
	sessions *session.Registry
}

func NewStyleCellTool(sessions *session.Registry) *StyleCellTool {
	return &StyleCellTool{sessions: sessions}
}

func (t *StyleCellTool) Name() string {
	return "style_table_cell"
}

func (t *StyleCellTool) Title() string {
	return "Style Table Cell"
}

func (t *StyleCellTool) Description() string {
	return `Restyle one table cell, keeping its text.

Only the provided fields change: font name, size, bold, italic, underline,
text color, alignment, and cell fill.`
}

func (t *StyleCellTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *StyleCellTool) Schema() json.RawMessage {
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
			"row":       {"type": "integer", "description": "0-based row"},
			"column":    {"type": "integer", "description": "0-based column"},
			"font_name": {"type": "string"},
			"font_size": {"type": "number"},
			"bold":      {"type": "boolean"},
			"italic":    {"type": "boolean"},
			"underline": {"type": "boolean"},
			"color":     {"description": "Text color as \"#RRGGBB\" or [r, g, b]"},
			"alignment": {"type": "string", "description": "left, center, right, or justify"},
			"fill":      {"description": "Cell background as \"#RRGGBB\" or [r, g, b]"}
		},
		"required": ["presentation_id", "slide_index", "shape_index", "row", "column"]
	}`)
}

func (t *StyleCellTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string `json:"presentation_id"`
		SlideIndex     int    `json:"slide_index"`
		ShapeIndex     int    `json:"shape_index"`
		Row            int    `json:"row"`
		Column         int    `json:"column"`
		cellStyle
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if req.cellStyle.empty() {
		return nil, tools.NewBadArgument("no styling fields provided")
	}
	patch, alignment, fill, err := req.cellStyle.parts()
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
	if err := table.StyleCell(req.Row, req.Column, patch, alignment, fill); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"slide_index": req.SlideIndex,
		"shape_index": req.ShapeIndex,
		"row":         req.Row,
		"column":      req.Column,
		"styled":      true,
	}, nil
}
