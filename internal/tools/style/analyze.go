package style

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/analyzer"
	"github.com/slidesmith/slidesmith-mcp/internal/pptx"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// AnalyzeTool extracts the visual style statistics of a .pptx file.
type AnalyzeTool struct{}

func NewAnalyzeTool() *AnalyzeTool {
	return &AnalyzeTool{}
}

func (t *AnalyzeTool) Name() string {
	return "analyze_presentation_style"
}

func (t *AnalyzeTool) Title() string {
	return "Analyze Presentation Style"
}

func (t *AnalyzeTool) Description() string {
	return `Analyze the visual style of a .pptx file: font usage and sizes, text and
fill colors with frequencies, common shape positions and sizes, a text
hierarchy (title/subtitle/body roles), theme summary, and a 0-1 style
consistency score.

The returned analysis object can be passed straight to create_style_profile
to turn it into a reusable profile.`
}

func (t *AnalyzeTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *AnalyzeTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Path to the .pptx file to analyze"
			}
		},
		"required": ["file_path"]
	}`)
}

func (t *AnalyzeTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
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
	analysis := analyzer.Analyze(d)
	log.Info("analyzed presentation style", "path", req.FilePath, "slides", d.SlideCount())

	return analysis, nil
}
