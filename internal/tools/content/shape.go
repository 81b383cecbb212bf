package content

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/args"
)

// ShapeTool adds a preset auto shape from the built-in library.
type ShapeTool struct {
	sessions *session.Registry
}

func NewShapeTool(sessions *session.Registry) *ShapeTool {
	return &ShapeTool{sessions: sessions}
}

func (t *ShapeTool) Name() string {
	return "add_professional_shape"
}

func (t *ShapeTool) Title() string {
	return "Add Professional Shape"
}

func (t *ShapeTool) Description() string {
	return `Add a shape from the built-in library (arrows, callouts, flowchart
symbols, stars, basic geometry) to a slide.

category and shape_id pick the shape; call list_shape_library for the
catalog. Fill and line colors are optional, as is centered text inside the
shape.`
}

func (t *ShapeTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *ShapeTool) Schema() json.RawMessage {
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
			"category": {
				"type": "string",
				"description": "Library category, e.g. arrows, callouts, flowchart, stars, basic"
			},
			"shape_id": {
				"type": "string",
				"description": "Shape id within the category, e.g. right_arrow"
			},
			"left":   {"type": "number", "description": "Inches from the left edge"},
			"top":    {"type": "number", "description": "Inches from the top edge"},
			"width":  {"type": "number", "description": "Width in inches"},
			"height": {"type": "number", "description": "Height in inches"},
			"fill_color": {
				"description": "Fill as \"#RRGGBB\" or [r, g, b]"
			},
			"line_color": {
				"description": "Outline as \"#RRGGBB\" or [r, g, b]"
			},
			"text": {
				"type": "string",
				"description": "Optional text centered inside the shape"
			},
			"font_name": {"type": "string"},
			"font_size": {"type": "number", "description": "Size in points"},
			"bold":      {"type": "boolean"},
			"color": {
				"description": "Text color as \"#RRGGBB\" or [r, g, b]"
			}
		},
		"required": ["presentation_id", "slide_index", "category", "shape_id", "left", "top", "width", "height"]
	}`)
}

func (t *ShapeTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string      `json:"presentation_id"`
		SlideIndex     int         `json:"slide_index"`
		Category       string      `json:"category"`
		ShapeID        string      `json:"shape_id"`
		FillColor      interface{} `json:"fill_color"`
		LineColor      interface{} `json:"line_color"`
		Text           string      `json:"text"`
		args.Position
		args.Font
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if err := req.Position.Validate(); err != nil {
		return nil, err
	}

	entry, err := deck.LookupShape(req.Category, req.ShapeID)
	if err != nil {
		return nil, err
	}

	var fill, line *deck.RGB
	if req.FillColor != nil {
		if fill, err = deck.ParseColor(req.FillColor); err != nil {
			return nil, err
		}
	}
	if req.LineColor != nil {
		if line, err = deck.ParseColor(req.LineColor); err != nil {
			return nil, err
		}
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
	idx := slide.AddAutoShape(req.Position.Frame(), entry.Preset, fill, line, req.Text, font)

	return map[string]interface{}{
		"slide_index": req.SlideIndex,
		"shape_index": idx,
		"shape":       entry.Display,
	}, nil
}
