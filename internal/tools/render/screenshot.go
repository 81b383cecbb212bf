package render

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/slidesmith/slidesmith-mcp/internal/pptx"
	bridge "github.com/slidesmith/slidesmith-mcp/internal/render"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// ScreenshotTool renders slides to image files.
type ScreenshotTool struct {
	sessions *session.Registry
	renderer *bridge.Renderer
	safeDir  string
}

func NewScreenshotTool(sessions *session.Registry, renderer *bridge.Renderer, safeDir string) *ScreenshotTool {
	return &ScreenshotTool{sessions: sessions, renderer: renderer, safeDir: safeDir}
}

func (t *ScreenshotTool) Name() string {
	return "screenshot_slides"
}

func (t *ScreenshotTool) Title() string {
	return "Screenshot Slides"
}

func (t *ScreenshotTool) Description() string {
	return `Render slides to PNG or JPEG images so their visual appearance can be
inspected.

Works on an open presentation_id or directly on a .pptx file_path.
slide_indices picks specific slides (0-based, default all); width scales the
output. Requires LibreOffice on the server; if it is missing or has been
failing, the tool reports renderer_unavailable without touching the deck.
Returns one entry per rendered slide with the image path and dimensions.`
}

func (t *ScreenshotTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *ScreenshotTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"presentation_id": {
				"type": "string",
				"description": "Handle of an open presentation"
			},
			"file_path": {
				"type": "string",
				"description": "A .pptx file to render instead of an open presentation"
			},
			"output_dir": {
				"type": "string",
				"description": "Directory for the image files"
			},
			"format": {
				"type": "string",
				"description": "png or jpeg (default png)"
			},
			"width": {
				"type": "integer",
				"description": "Image width in pixels (default from render DPI)"
			},
			"slide_indices": {
				"type": "array",
				"items": {"type": "integer"},
				"description": "0-based slides to render (default all)"
			}
		}
	}`)
}

func (t *ScreenshotTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string `json:"presentation_id"`
		FilePath       string `json:"file_path"`
		OutputDir      string `json:"output_dir"`
		Format         string `json:"format"`
		Width          int    `json:"width"`
		SlideIndices   []int  `json:"slide_indices"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if (req.PresentationID == "") == (req.FilePath == "") {
		return nil, tools.NewBadArgument("provide exactly one of presentation_id or file_path")
	}
	if err := t.renderer.Available(); err != nil {
		return nil, err
	}

	outDir := req.OutputDir
	if outDir == "" {
		outDir = filepath.Join(t.safeDir, "screenshots")
	}

	opts := bridge.Options{
		Indices: req.SlideIndices,
		Format:  req.Format,
		Width:   req.Width,
		OutDir:  outDir,
		Prefix:  "slide",
	}

	var pages []bridge.Page
	if req.FilePath != "" {
		d, err := pptx.Read(req.FilePath)
		if err != nil {
			return nil, err
		}
		pages, err = t.renderer.RenderDeck(ctx, d, opts)
		if err != nil {
			return nil, err
		}
	} else {
		s, err := t.sessions.Get(req.PresentationID)
		if err != nil {
			return nil, err
		}
		pages, err = t.renderSession(ctx, s, opts)
		if err != nil {
			return nil, err
		}
	}

	return map[string]interface{}{
		"count":      len(pages),
		"output_dir": outDir,
		"pages":      pages,
	}, nil
}

// renderSession holds the session lock only while the deck is serialized
// and rendered.
func (t *ScreenshotTool) renderSession(ctx context.Context, s *session.Session, opts bridge.Options) ([]bridge.Page, error) {
	s.Lock()
	defer s.Unlock()
	return t.renderer.RenderDeck(ctx, s.Deck, opts)
}
