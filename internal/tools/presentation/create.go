package presentation

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/pptx"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// CreateTool opens a fresh in-memory deck and hands back its handle.
type CreateTool struct {
	sessions *session.Registry
}

func NewCreateTool(sessions *session.Registry) *CreateTool {
	return &CreateTool{sessions: sessions}
}

func (t *CreateTool) Name() string {
	return "create_presentation"
}

func (t *CreateTool) Title() string {
	return "Create Presentation"
}

func (t *CreateTool) Description() string {
	return `Create a new presentation and return its handle.

The deck starts blank (10 x 7.5 inch slides, zero slides) unless
template_file names an existing .pptx to use as the starting point. The
returned presentation_id is required by every other tool; nothing touches
disk until save_presentation is called.`
}

func (t *CreateTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *CreateTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"template_file": {
				"type": "string",
				"description": "Optional path to an existing .pptx used as the starting deck"
			}
		}
	}`)
}

func (t *CreateTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		TemplateFile string `json:"template_file"`
	}
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, tools.NewBadArgument("invalid request: %v", err)
		}
	}

	var d *deck.Deck
	if req.TemplateFile != "" {
		loaded, err := pptx.Read(req.TemplateFile)
		if err != nil {
			return nil, err
		}
		d = loaded
	} else {
		d = deck.New()
	}

	s := t.sessions.Allocate(d, req.TemplateFile)
	log.Info("created presentation", "id", s.ID, "from_template", req.TemplateFile != "")

	return map[string]interface{}{
		"presentation_id": s.ID,
		"slide_count":     d.SlideCount(),
	}, nil
}
