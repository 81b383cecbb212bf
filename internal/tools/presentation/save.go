package presentation

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/pptx"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// SaveTool serializes a session's deck to disk.
type SaveTool struct {
	sessions *session.Registry
	safeDir  string
}

func NewSaveTool(sessions *session.Registry, safeDir string) *SaveTool {
	return &SaveTool{sessions: sessions, safeDir: safeDir}
}

func (t *SaveTool) Name() string {
	return "save_presentation"
}

func (t *SaveTool) Title() string {
	return "Save Presentation"
}

func (t *SaveTool) Description() string {
	return `Write a presentation to a .pptx file.

Paths outside the configured output directory are redirected into it; the
response always reports the path actually written, plus redirected=true when
it differs from the request. The session stays open for further edits.`
}

func (t *SaveTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *SaveTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"presentation_id": {
				"type": "string",
				"description": "Handle returned by create_presentation or load_presentation"
			},
			"file_path": {
				"type": "string",
				"description": "Destination path for the .pptx file"
			}
		},
		"required": ["presentation_id", "file_path"]
	}`)
}

func (t *SaveTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string `json:"presentation_id"`
		FilePath       string `json:"file_path"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if req.FilePath == "" {
		return nil, tools.NewBadArgument("file_path is required")
	}

	s, err := t.sessions.Get(req.PresentationID)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	final, redirected, err := pptx.ResolveOutputPath(req.FilePath, t.safeDir)
	if err != nil {
		return nil, err
	}
	if err := pptx.Write(s.Deck, final); err != nil {
		return nil, err
	}
	s.Path = final

	if redirected {
		log.Warn("save redirected to output directory", "id", s.ID, "requested", req.FilePath, "path", final)
	} else {
		log.Info("saved presentation", "id", s.ID, "path", final)
	}

	return map[string]interface{}{
		"saved":       true,
		"file_path":   final,
		"redirected":  redirected,
		"slide_count": s.Deck.SlideCount(),
	}, nil
}
