package content

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/args"
)

// ImageTool places an image from a local file or a URL onto a slide.
type ImageTool struct {
	sessions *session.Registry
	fetcher  *Fetcher
}

func NewImageTool(sessions *session.Registry, fetcher *Fetcher) *ImageTool {
	return &ImageTool{sessions: sessions, fetcher: fetcher}
}

func (t *ImageTool) Name() string {
	return "add_image"
}

func (t *ImageTool) Title() string {
	return "Add Image"
}

func (t *ImageTool) Description() string {
	return `Add an image to a slide from a local file path or an http(s) URL.

The image bytes are embedded into the presentation, so the source does not
need to exist when the file is opened later. Remote fetches are size-capped
and time-limited; a failed fetch leaves the deck unchanged. alt_text is
stored for screen readers and flagged by critique_presentation when missing.`
}

func (t *ImageTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *ImageTool) Schema() json.RawMessage {
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
			"source": {
				"type": "string",
				"description": "Local file path or http(s) URL of the image"
			},
			"left":   {"type": "number", "description": "Inches from the left edge"},
			"top":    {"type": "number", "description": "Inches from the top edge"},
			"width":  {"type": "number", "description": "Width in inches"},
			"height": {"type": "number", "description": "Height in inches"},
			"alt_text": {
				"type": "string",
				"description": "Accessibility description of the image"
			}
		},
		"required": ["presentation_id", "slide_index", "source", "left", "top", "width", "height"]
	}`)
}

func (t *ImageTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string `json:"presentation_id"`
		SlideIndex     int    `json:"slide_index"`
		Source         string `json:"source"`
		AltText        string `json:"alt_text"`
		args.Position
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if req.Source == "" {
		return nil, tools.NewBadArgument("source is required")
	}
	if err := req.Position.Validate(); err != nil {
		return nil, err
	}

	// Fetch or read before touching the deck so failures cannot leave a
	// half-applied slide.
	data, ext, err := t.loadImage(ctx, req.Source)
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
	key := s.Deck.AddMedia(data, ext)
	idx := slide.AddImage(req.Position.Frame(), key, req.Source, req.AltText)

	return map[string]interface{}{
		"slide_index": req.SlideIndex,
		"shape_index": idx,
		"bytes":       len(data),
	}, nil
}

func (t *ImageTool) loadImage(ctx context.Context, source string) ([]byte, string, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		if t.fetcher == nil {
			return nil, "", tools.NewBadArgument("remote image fetching is disabled")
		}
		data, ext, err := t.fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, "", err
		}
		log.Info("fetched remote image", "url", source, "bytes", len(data), "ext", ext)
		return data, ext, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, "", tools.NewIOError(err, "reading image %s", source)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(source)), ".")
	if ext == "" {
		return nil, "", tools.NewBadArgument("image path %s has no file extension", source)
	}
	return data, ext, nil
}
