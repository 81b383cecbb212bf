package templates

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/templating"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// ListTool enumerates registered templates.
type ListTool struct {
	store *templating.Store
}

func NewListTool(store *templating.Store) *ListTool {
	return &ListTool{store: store}
}

func (t *ListTool) Name() string {
	return "list_templates"
}

func (t *ListTool) Title() string {
	return "List Templates"
}

func (t *ListTool) Description() string {
	return `List every available template with id, name, description, slide count,
and how often it has been applied. Session templates come first, then
templates loaded from the template directory.`
}

func (t *ListTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *ListTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {}
	}`)
}

func (t *ListTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	list := t.store.List()
	return map[string]interface{}{
		"count":     len(list),
		"templates": list,
	}, nil
}
