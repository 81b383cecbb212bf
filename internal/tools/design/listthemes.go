package design

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// ListThemesTool enumerates registered master themes.
type ListThemesTool struct {
	designs *Designs
}

func NewListThemesTool(designs *Designs) *ListThemesTool {
	return &ListThemesTool{designs: designs}
}

func (t *ListThemesTool) Name() string {
	return "list_master_themes"
}

func (t *ListThemesTool) Title() string {
	return "List Master Themes"
}

func (t *ListThemesTool) Description() string {
	return `List every registered master theme with its id, name, colors, and fonts,
in creation order.`
}

func (t *ListThemesTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *ListThemesTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {}
	}`)
}

func (t *ListThemesTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	themes := t.designs.Themes()
	return map[string]interface{}{
		"count":  len(themes),
		"themes": themes,
	}, nil
}
