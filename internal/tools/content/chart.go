package content

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/args"
)

// ChartTool embeds a native chart on a slide.
type ChartTool struct {
	sessions *session.Registry
}

func NewChartTool(sessions *session.Registry) *ChartTool {
	return &ChartTool{sessions: sessions}
}

func (t *ChartTool) Name() string {
	return "add_chart"
}

func (t *ChartTool) Title() string {
	return "Add Chart"
}

func (t *ChartTool) Description() string {
	return `Add a native chart to a slide from inline data.

chart_type is one of: column, bar, line, pie, area, scatter. categories
labels the x axis (or pie wedges); each series carries a name and one value
per category, and every series must match the category count. Pie charts
use only the first series. The chart is stored as chart data, so it stays
editable when the file is opened in a slide editor.`
}

func (t *ChartTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *ChartTool) Schema() json.RawMessage {
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
			"chart_type": {
				"type": "string",
				"description": "column, bar, line, pie, area, or scatter"
			},
			"title": {
				"type": "string",
				"description": "Optional chart title"
			},
			"categories": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Category labels, one per data point"
			},
			"series": {
				"type": "array",
				"description": "Data series: [{\"name\": \"2024\", \"values\": [1, 2, 3]}]",
				"items": {
					"type": "object",
					"properties": {
						"name":   {"type": "string"},
						"values": {"type": "array", "items": {"type": "number"}}
					},
					"required": ["name", "values"]
				}
			},
			"left":   {"type": "number", "description": "Inches from the left edge"},
			"top":    {"type": "number", "description": "Inches from the top edge"},
			"width":  {"type": "number", "description": "Width in inches"},
			"height": {"type": "number", "description": "Height in inches"}
		},
		"required": ["presentation_id", "slide_index", "chart_type", "categories", "series", "left", "top", "width", "height"]
	}`)
}

func (t *ChartTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		PresentationID string        `json:"presentation_id"`
		SlideIndex     int           `json:"slide_index"`
		ChartType      string        `json:"chart_type"`
		Title          string        `json:"title"`
		Categories     []string      `json:"categories"`
		Series         []deck.Series `json:"series"`
		args.Position
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if err := req.Position.Validate(); err != nil {
		return nil, err
	}

	kind, err := deck.ParseChartKind(req.ChartType)
	if err != nil {
		return nil, err
	}
	chart, err := deck.NewChart(kind, req.Title, req.Categories, req.Series)
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
	idx := slide.AddChart(req.Position.Frame(), chart)

	return map[string]interface{}{
		"slide_index": req.SlideIndex,
		"shape_index": idx,
		"chart_type":  req.ChartType,
		"series":      len(req.Series),
	}, nil
}
