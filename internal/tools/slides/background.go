package slides

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// BackgroundTool fills a slide background with a color or an image.
type BackgroundTool struct {
	sessions *session.Registry
}

func NewBackgroundTool(sessions *session.Registry) *BackgroundTool {
	return &BackgroundTool{sessions: sessions}
}

func (t *BackgroundTool) Name() string {
	return "set_slide_background"
}

func (t *BackgroundTool) Title() string {
	return "Set Slide Background"
}

func (t *BackgroundTool) Description() string {
	return `Set a slide's background to a solid color or a full-bleed image.

Provide exactly one of color ("#RRGGBB" or [r, g, b]) or image_path (a local
image file, embedded into the deck). Setting a background replaces any
previous one.`
}

func (t *BackgroundTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *BackgroundTool) Schema() json.RawMessage {
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
			"color": {
				"description": "Solid fill as \"#RRGGBB\" or [r, g, b]"
			},
			"image_path": {
				"type": "string",
				"description": "Local image file to stretch across the slide"
			}
		},
		"required": ["presentation_id", "slide_index"]
	}`)
}

func (t *BackgroundTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string      `json:"presentation_id"`
		SlideIndex     int         `json:"slide_index"`
		Color          interface{} `json:"color"`
		ImagePath      string      `json:"image_path"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if (req.Color == nil) == (req.ImagePath == "") {
		return nil, tools.NewBadArgument("provide exactly one of color or image_path")
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

	if req.Color != nil {
		c, err := deck.ParseColor(req.Color)
		if err != nil {
			return nil, err
		}
		slide.SetBackgroundColor(*c)
		return map[string]interface{}{
			"slide_index": req.SlideIndex,
			"background":  c.Hex(),
		}, nil
	}

	data, err := os.ReadFile(req.ImagePath)
	if err != nil {
		return nil, tools.NewIOError(err, "reading background image %s", req.ImagePath)
	}
	ext := strings.TrimPrefix(filepath.Ext(req.ImagePath), ".")
	if ext == "" {
		return nil, tools.NewBadArgument("image_path %s has no file extension", req.ImagePath)
	}
	key := s.Deck.AddMedia(data, ext)
	slide.SetBackgroundImage(key)

	return map[string]interface{}{
		"slide_index": req.SlideIndex,
		"background":  req.ImagePath,
	}, nil
}
