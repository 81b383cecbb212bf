package content

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/args"
)

// FormatTextTool restyles the text of an existing shape.
type FormatTextTool struct {
	sessions *session.Registry
}

func NewFormatTextTool(sessions *session.Registry) *FormatTextTool {
	return &FormatTextTool{sessions: sessions}
}

func (t *FormatTextTool) Name() string {
	return "format_existing_text"
}

func (t *FormatTextTool) Title() string {
	return "Format Existing Text"
}

func (t *FormatTextTool) Description() string {
	return `Change the formatting of text already on a slide, without replacing it.

Applies only the font fields provided (name, size, bold, italic, underline,
color, alignment) to every run in the target shape; everything else keeps
its current value. Works on text boxes, placeholders, and auto shapes with
text. Use list_slide_content to find the shape_index.`
}

func (t *FormatTextTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *FormatTextTool) Schema() json.RawMessage {
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
				"description": "0-based index of the shape on the slide"
			},
			"font_name": {"type": "string"},
			"font_size": {"type": "number", "description": "Size in points"},
			"bold":      {"type": "boolean"},
			"italic":    {"type": "boolean"},
			"underline": {"type": "boolean"},
			"color": {
				"description": "Text color as \"#RRGGBB\" or [r, g, b]"
			},
			"alignment": {
				"type": "string",
				"description": "Paragraph alignment: left, center, right, or justify"
			}
		},
		"required": ["presentation_id", "slide_index", "shape_index"]
	}`)
}

func (t *FormatTextTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string `json:"presentation_id"`
		SlideIndex     int    `json:"slide_index"`
		ShapeIndex     int    `json:"shape_index"`
		Alignment      string `json:"alignment"`
		args.Font
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	alignment, err := deck.ParseAlignment(req.Alignment)
	if err != nil {
		return nil, err
	}
	patch, err := req.Font.Patch()
	if err != nil {
		return nil, err
	}
	if patch == nil && alignment == "" {
		return nil, tools.NewBadArgument("no formatting fields provided")
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
	shape, err := slide.Shape(req.ShapeIndex)
	if err != nil {
		return nil, err
	}
	if shape.Text == nil {
		return nil, tools.NewShapeMismatch("shape %d on slide %d has no text to format", req.ShapeIndex, req.SlideIndex)
	}
	shape.Text.ApplyPatch(patch, alignment)

	return map[string]interface{}{
		"slide_index": req.SlideIndex,
		"shape_index": req.ShapeIndex,
		"formatted":   true,
	}, nil
}
