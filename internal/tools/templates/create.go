package templates

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/templating"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// CreateTool registers a reusable presentation template.
type CreateTool struct {
	store *templating.Store
}

func NewCreateTool(store *templating.Store) *CreateTool {
	return &CreateTool{store: store}
}

func (t *CreateTool) Name() string {
	return "create_template"
}

func (t *CreateTool) Title() string {
	return "Create Template"
}

func (t *CreateTool) Description() string {
	return `Register a presentation template and return its template_id.

A template is a list of slides; each slide has a layout, optional condition,
and elements of type text, image, chart, or table. Text content (and chart
data references) may contain {{ placeholders }} with dotted paths into the
data passed to apply_template; integer path components index into lists.

A slide condition gates inclusion per dataset:
  {"field": "region.sales", "operator": "greater_than", "value": 100}
Operators: equals, not_equals, greater_than, less_than, contains, exists.

Templates live for the server run. Templates can also be provided as JSON
files in the configured template directory; those are loaded automatically
and hot-reloaded on change.`
}

func (t *CreateTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *CreateTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"name": {
				"type": "string",
				"description": "Template name"
			},
			"description": {
				"type": "string",
				"description": "What the template produces"
			},
			"slides": {
				"type": "array",
				"description": "Template slides: [{\"layout\": 6, \"condition\": {...}, \"elements\": [{\"type\": \"text\", \"text\": \"{{ title }}\", \"left\": 1, \"top\": 1, \"width\": 8, \"height\": 1}]}]",
				"items": {"type": "object"}
			}
		},
		"required": ["name", "slides"]
	}`)
}

func (t *CreateTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var tpl templating.Template
	if err := json.Unmarshal(input, &tpl); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}

	id, err := t.store.Create(&tpl)
	if err != nil {
		return nil, err
	}
	log.Info("created template", "id", id, "name", tpl.Name, "slides", len(tpl.Slides))

	return map[string]interface{}{
		"template_id": id,
		"name":        tpl.Name,
		"slide_count": len(tpl.Slides),
	}, nil
}
