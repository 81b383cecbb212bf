package content

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/args"
)

// TextBoxTool adds a positioned text box to a slide.
type TextBoxTool struct {
	sessions *session.Registry
}

func NewTextBoxTool(sessions *session.Registry) *TextBoxTool {
	return &TextBoxTool{sessions: sessions}
}

func (t *TextBoxTool) Name() string {
	return "add_text_box"
}

func (t *TextBoxTool) Title() string {
	return "Add Text Box"
}

func (t *TextBoxTool) Description() string {
	return `Add a text box to a slide at an explicit position.

Position is left/top/width/height in inches from the slide's top-left
corner. Newlines in text start new paragraphs. Font settings are optional;
omitted ones fall back to the deck defaults. Returns the shape_index used by
formatting tools.`
}

func (t *TextBoxTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *TextBoxTool) Schema() json.RawMessage {
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
			"text": {
				"type": "string",
				"description": "Text content; newlines separate paragraphs"
			},
			"left":   {"type": "number", "description": "Inches from the left edge"},
			"top":    {"type": "number", "description": "Inches from the top edge"},
			"width":  {"type": "number", "description": "Width in inches"},
			"height": {"type": "number", "description": "Height in inches"},
			"font_name": {"type": "string", "description": "Font family, e.g. Arial"},
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
		"required": ["presentation_id", "slide_index", "text", "left", "top", "width", "height"]
	}`)
}

func (t *TextBoxTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string `json:"presentation_id"`
		SlideIndex     int    `json:"slide_index"`
		Text           string `json:"text"`
		Alignment      string `json:"alignment"`
		args.Position
		args.Font
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if err := req.Position.Validate(); err != nil {
		return nil, err
	}
	alignment, err := deck.ParseAlignment(req.Alignment)
	if err != nil {
		return nil, err
	}
	font, err := req.Font.Full()
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
	idx := slide.AddTextBox(req.Position.Frame(), req.Text, font, alignment)

	return map[string]interface{}{
		"slide_index": req.SlideIndex,
		"shape_index": idx,
	}, nil
}
