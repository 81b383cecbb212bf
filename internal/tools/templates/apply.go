package templates

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/templating"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// ApplyTool instantiates a template with data into a new presentation.
type ApplyTool struct {
	sessions *session.Registry
	store    *templating.Store
}

func NewApplyTool(sessions *session.Registry, store *templating.Store) *ApplyTool {
	return &ApplyTool{sessions: sessions, store: store}
}

func (t *ApplyTool) Name() string {
	return "apply_template"
}

func (t *ApplyTool) Title() string {
	return "Apply Template"
}

func (t *ApplyTool) Description() string {
	return `Build a new presentation from a template and a data object.

{{ placeholders }} in the template resolve against data by dotted path;
slides whose condition evaluates false for this data are skipped. Returns a
fresh presentation_id; the template itself is never modified. Placeholders
whose path is missing from data stay literal, which makes gaps easy to spot
in the output.`
}

func (t *ApplyTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *ApplyTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"template_id": {
				"type": "string",
				"description": "Template handle from create_template or a loaded template file"
			},
			"data": {
				"type": "object",
				"description": "Values for the template's placeholders and conditions"
			}
		},
		"required": ["template_id"]
	}`)
}

func (t *ApplyTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		TemplateID string                 `json:"template_id"`
		Data       map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}

	tpl, err := t.store.Get(req.TemplateID)
	if err != nil {
		return nil, err
	}
	d, err := templating.BuildDeck(tpl, req.Data)
	if err != nil {
		return nil, err
	}
	t.store.RecordUse(req.TemplateID)

	s := t.sessions.Allocate(d, "")
	log.Info("applied template", "template", req.TemplateID, "presentation", s.ID, "slides", d.SlideCount())

	return map[string]interface{}{
		"presentation_id": s.ID,
		"template_id":     req.TemplateID,
		"slide_count":     d.SlideCount(),
	}, nil
}
