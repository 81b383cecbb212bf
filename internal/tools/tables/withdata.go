package tables

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/args"
)

// WithDataTool builds a filled, styled table in a single call.
type WithDataTool struct {
	sessions *session.Registry
}

func NewWithDataTool(sessions *session.Registry) *WithDataTool {
	return &WithDataTool{sessions: sessions}
}

func (t *WithDataTool) Name() string {
	return "create_table_with_data"
}

func (t *WithDataTool) Title() string {
	return "Create Table With Data"
}

func (t *WithDataTool) Description() string {
	return `Create a table sized to the data and fill it in one call.

data is a list of rows; every row must have the same length. headers, when
given, become a styled first row and must match the row width. header_style
and data_style override formatting for their rows; alternating_rows=true
shades every second data row for readability. Returns the table's
shape_index for follow-up edits.`
}

func (t *WithDataTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *WithDataTool) Schema() json.RawMessage {
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
			"data": {
				"type": "array",
				"items": {"type": "array", "items": {"type": "string"}},
				"description": "Row-major cell text; all rows the same length"
			},
			"headers": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Optional header row, same width as data rows"
			},
			"left":   {"type": "number", "description": "Inches from the left edge"},
			"top":    {"type": "number", "description": "Inches from the top edge"},
			"width":  {"type": "number", "description": "Width in inches"},
			"height": {"type": "number", "description": "Height in inches"},
			"header_style": ` + cellStyleSchema + `,
			"data_style": ` + cellStyleSchema + `,
			"alternating_rows": {
				"type": "boolean",
				"description": "Shade every second data row"
			}
		},
		"required": ["presentation_id", "slide_index", "data", "left", "top", "width", "height"]
	}`)
}

func (t *WithDataTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID  string     `json:"presentation_id"`
		SlideIndex      int        `json:"slide_index"`
		Data            [][]string `json:"data"`
		Headers         []string   `json:"headers"`
		HeaderStyle     *cellStyle `json:"header_style"`
		DataStyle       *cellStyle `json:"data_style"`
		AlternatingRows bool       `json:"alternating_rows"`
		args.Position
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if err := req.Position.Validate(); err != nil {
		return nil, err
	}
	headerStyle, err := req.HeaderStyle.patch()
	if err != nil {
		return nil, err
	}
	dataStyle, err := req.DataStyle.patch()
	if err != nil {
		return nil, err
	}

	table, err := deck.NewTableWithData(req.Data, req.Headers, headerStyle, dataStyle, req.AlternatingRows)
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
	idx := slide.AddShape(&deck.Shape{
		Kind:  deck.KindTable,
		Name:  "Table",
		Frame: req.Position.Frame(),
		Table: table,
	})

	return map[string]interface{}{
		"slide_index": req.SlideIndex,
		"shape_index": idx,
		"rows":        table.RowCount(),
		"columns":     table.ColCount(),
	}, nil
}
