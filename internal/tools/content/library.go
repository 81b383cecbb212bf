package content

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// ShapeLibraryTool lists the shape catalog. Stateless.
type ShapeLibraryTool struct{}

func NewShapeLibraryTool() *ShapeLibraryTool {
	return &ShapeLibraryTool{}
}

func (t *ShapeLibraryTool) Name() string {
	return "list_shape_library"
}

func (t *ShapeLibraryTool) Title() string {
	return "List Shape Library"
}

func (t *ShapeLibraryTool) Description() string {
	return `List every shape available to add_professional_shape, grouped by
category. Pass category to list just one group.`
}

func (t *ShapeLibraryTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *ShapeLibraryTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"category": {
				"type": "string",
				"description": "Optional category filter"
			}
		}
	}`)
}

func (t *ShapeLibraryTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		Category string `json:"category"`
	}
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, tools.NewBadArgument("invalid request: %v", err)
		}
	}

	library := deck.ShapeLibrary()
	if req.Category != "" {
		for _, cat := range library {
			if cat.Name == req.Category {
				return map[string]interface{}{"categories": []deck.ShapeCategory{cat}}, nil
			}
		}
		return nil, tools.NewBadArgument("unknown shape category %q", req.Category)
	}

	return map[string]interface{}{"categories": library}, nil
}
