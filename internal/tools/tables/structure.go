package tables

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// StructureTool adds or removes table rows and columns.
type StructureTool struct {
	sessions *session.Registry
}

func NewStructureTool(sessions *session.Registry) *StructureTool {
	return &StructureTool{sessions: sessions}
}

func (t *StructureTool) Name() string {
	return "modify_table_structure"
}

func (t *StructureTool) Title() string {
	return "Modify Table Structure"
}

func (t *StructureTool) Description() string {
	return `Add or remove rows and columns of an existing table.

operation is add_row, remove_row, add_column, or remove_column. position is
the 0-based insertion or removal point; omitted, rows/columns are added
after or removed from the end. count repeats the operation (default 1).
Surviving cells keep their text and formatting.

IMPORTANT: the table is rebuilt, so it gets a new shape index. Use the
returned new_table_index for later calls; other shape indices on the slide
may shift too.`
}

func (t *StructureTool) Annotations() map[string]bool {
	return tools.DestructiveAnnotations()
}

func (t *StructureTool) Schema() json.RawMessage {
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
			"operation": {
				"type": "string",
				"description": "add_row, remove_row, add_column, or remove_column"
			},
			"position": {
				"type": "integer",
				"description": "0-based insert/remove point (default: end)"
			},
			"count": {
				"type": "integer",
				"description": "How many rows/columns (default 1)"
			}
		},
		"required": ["presentation_id", "slide_index", "shape_index", "operation"]
	}`)
}

func (t *StructureTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string `json:"presentation_id"`
		SlideIndex     int    `json:"slide_index"`
		ShapeIndex     int    `json:"shape_index"`
		Operation      string `json:"operation"`
		Position       *int   `json:"position"`
		Count          int    `json:"count"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if req.Count == 0 {
		req.Count = 1
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
	newIdx, err := slide.ModifyTableStructure(req.ShapeIndex, req.Operation, req.Position, req.Count)
	if err != nil {
		return nil, err
	}
	table, err := slide.TableAt(newIdx)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"new_table_index": newIdx,
		"rows":            table.RowCount(),
		"columns":         table.ColCount(),
	}, nil
}
