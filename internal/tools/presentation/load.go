package presentation

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/pptx"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// LoadTool reads an existing .pptx from disk into a new session.
type LoadTool struct {
	sessions *session.Registry
}

func NewLoadTool(sessions *session.Registry) *LoadTool {
	return &LoadTool{sessions: sessions}
}

func (t *LoadTool) Name() string {
	return "load_presentation"
}

func (t *LoadTool) Title() string {
	return "Load Presentation"
}

func (t *LoadTool) Description() string {
	return `Load an existing .pptx file and return a handle for editing it.

The file is parsed into memory; later edits do not touch the original until
save_presentation writes them out. Unrecognized parts of the file survive a
load/save round trip untouched.`
}

func (t *LoadTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *LoadTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Path to the .pptx file to load"
			}
		},
		"required": ["file_path"]
	}`)
}

func (t *LoadTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		FilePath string `json:"file_path"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if req.FilePath == "" {
		return nil, tools.NewBadArgument("file_path is required")
	}

	d, err := pptx.Read(req.FilePath)
	if err != nil {
		return nil, err
	}

	s := t.sessions.Allocate(d, req.FilePath)
	log.Info("loaded presentation", "id", s.ID, "path", req.FilePath, "slides", d.SlideCount())

	return map[string]interface{}{
		"presentation_id": s.ID,
		"slide_count":     d.SlideCount(),
		"file_path":       req.FilePath,
	}, nil
}
