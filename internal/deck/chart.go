package deck

import (
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// ChartKind is the chart variant.
type ChartKind string

const (
	ChartColumn  ChartKind = "column"
	ChartBar     ChartKind = "bar"
	ChartLine    ChartKind = "line"
	ChartPie     ChartKind = "pie"
	ChartArea    ChartKind = "area"
	ChartScatter ChartKind = "scatter"
)

// ParseChartKind validates a chart type string.
func ParseChartKind(s string) (ChartKind, error) {
	switch ChartKind(s) {
	case ChartColumn, ChartBar, ChartLine, ChartPie, ChartArea, ChartScatter:
		return ChartKind(s), nil
	default:
		return "", tools.NewBadArgument("invalid chart type %q: expected column, bar, line, pie, area, or scatter", s)
	}
}

// Series is one named data sequence. Values align index-for-index with the
// chart's categories.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Chart carries categories and ordered series.
type Chart struct {
	Kind       ChartKind `json:"kind"`
	Title      string    `json:"title,omitempty"`
	Categories []string  `json:"categories"`
	Series     []Series  `json:"series"`
}

// NewChart validates that every series matches the category count.
func NewChart(kind ChartKind, title string, categories []string, series []Series) (*Chart, error) {
	if len(categories) == 0 {
		return nil, tools.NewBadArgument("chart requires at least one category")
	}
	if len(series) == 0 {
		return nil, tools.NewBadArgument("chart requires at least one series")
	}
	for _, s := range series {
		if len(s.Values) != len(categories) {
			return nil, tools.NewShapeMismatch(
				"series %q has %d values but the chart has %d categories",
				s.Name, len(s.Values), len(categories))
		}
	}
	return &Chart{Kind: kind, Title: title, Categories: categories, Series: series}, nil
}
