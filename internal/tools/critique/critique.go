package critique

import (
	"context"
	"encoding/json"

	engine "github.com/slidesmith/slidesmith-mcp/internal/critique"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// CritiqueTool scores an open presentation against review rubrics.
type CritiqueTool struct {
	sessions *session.Registry
	engine   *engine.Engine
}

func NewCritiqueTool(sessions *session.Registry, eng *engine.Engine) *CritiqueTool {
	return &CritiqueTool{sessions: sessions, engine: eng}
}

func (t *CritiqueTool) Name() string {
	return "critique_presentation"
}

func (t *CritiqueTool) Title() string {
	return "Critique Presentation"
}

func (t *CritiqueTool) Description() string {
	return `Review a presentation and score it 0-100.

rubric picks the lens: design (font and color discipline, readable sizes),
content (text density, bullet counts, empty slides), accessibility (alt
text, color contrast), technical (file size, slide count, media weight), or
comprehensive for all four averaged (the default).

The report lists issues with severity and slide number, strengths, and
recommendations. include_screenshots=true additionally renders the slides
and attaches image paths; if rendering fails the report still arrives, with
a screenshot_error note instead.`
}

func (t *CritiqueTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *CritiqueTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"presentation_id": {
				"type": "string",
				"description": "Handle of the presentation to review"
			},
			"rubric": {
				"type": "string",
				"description": "design, content, accessibility, technical, or comprehensive (default)"
			},
			"include_screenshots": {
				"type": "boolean",
				"description": "Render slides and attach image paths"
			},
			"screenshot_dir": {
				"type": "string",
				"description": "Directory for attached screenshots"
			}
		},
		"required": ["presentation_id"]
	}`)
}

func (t *CritiqueTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID     string `json:"presentation_id"`
		Rubric             string `json:"rubric"`
		IncludeScreenshots bool   `json:"include_screenshots"`
		ScreenshotDir      string `json:"screenshot_dir"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}

	s, err := t.sessions.Get(req.PresentationID)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	report, err := t.engine.Critique(ctx, s.Deck, s.Path, engine.Options{
		Rubric:             req.Rubric,
		IncludeScreenshots: req.IncludeScreenshots,
		ScreenshotDir:      req.ScreenshotDir,
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
