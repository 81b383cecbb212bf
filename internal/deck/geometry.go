package deck

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// ShapeEntry maps a library id to its OOXML preset geometry name.
type ShapeEntry struct {
	ID      string `json:"id"`
	Preset  string `json:"-"`
	Display string `json:"name"`
}

// ShapeCategory groups library entries.
type ShapeCategory struct {
	Name   string       `json:"category"`
	Shapes []ShapeEntry `json:"shapes"`
}

var titleCaser = cases.Title(language.English)

func entry(id, preset string) ShapeEntry {
	display := titleCaser.String(strings.ReplaceAll(id, "_", " "))
	return ShapeEntry{ID: id, Preset: preset, Display: display}
}

// shapeLibrary is the fixed catalog behind add_professional_shape.
var shapeLibrary = []ShapeCategory{
	{
		Name: "arrows",
		Shapes: []ShapeEntry{
			entry("right_arrow", "rightArrow"),
			entry("left_arrow", "leftArrow"),
			entry("up_arrow", "upArrow"),
			entry("down_arrow", "downArrow"),
			entry("left_right_arrow", "leftRightArrow"),
			entry("up_down_arrow", "upDownArrow"),
			entry("quad_arrow", "quadArrow"),
			entry("bent_arrow", "bentArrow"),
			entry("u_turn_arrow", "uturnArrow"),
			entry("curved_right_arrow", "curvedRightArrow"),
			entry("chevron", "chevron"),
		},
	},
	{
		Name: "geometric",
		Shapes: []ShapeEntry{
			entry("rectangle", "rect"),
			entry("rounded_rectangle", "roundRect"),
			entry("oval", "ellipse"),
			entry("triangle", "triangle"),
			entry("right_triangle", "rtTriangle"),
			entry("diamond", "diamond"),
			entry("pentagon", "pentagon"),
			entry("hexagon", "hexagon"),
			entry("octagon", "octagon"),
			entry("star_4", "star4"),
			entry("star_5", "star5"),
			entry("star_6", "star6"),
		},
	},
	{
		Name: "callouts",
		Shapes: []ShapeEntry{
			entry("rectangular_callout", "wedgeRectCallout"),
			entry("rounded_callout", "wedgeRoundRectCallout"),
			entry("oval_callout", "wedgeEllipseCallout"),
			entry("cloud_callout", "cloudCallout"),
			entry("line_callout", "borderCallout1"),
		},
	},
	{
		Name: "banners",
		Shapes: []ShapeEntry{
			entry("ribbon", "ribbon"),
			entry("ribbon_2", "ribbon2"),
			entry("wave", "wave"),
			entry("double_wave", "doubleWave"),
			entry("horizontal_scroll", "horizontalScroll"),
			entry("vertical_scroll", "verticalScroll"),
			entry("plaque", "plaque"),
		},
	},
	{
		Name: "flowchart",
		Shapes: []ShapeEntry{
			entry("process", "flowChartProcess"),
			entry("decision", "flowChartDecision"),
			entry("terminator", "flowChartTerminator"),
			entry("data", "flowChartInputOutput"),
			entry("document", "flowChartDocument"),
			entry("predefined_process", "flowChartPredefinedProcess"),
			entry("connector", "flowChartConnector"),
			entry("preparation", "flowChartPreparation"),
			entry("manual_input", "flowChartManualInput"),
			entry("delay", "flowChartDelay"),
		},
	},
}

// ShapeLibrary returns the full catalog in category order.
func ShapeLibrary() []ShapeCategory {
	return shapeLibrary
}

// LookupShape resolves a (category, id) pair to its preset geometry name.
func LookupShape(category, id string) (ShapeEntry, error) {
	for _, cat := range shapeLibrary {
		if cat.Name != category {
			continue
		}
		for _, e := range cat.Shapes {
			if e.ID == id {
				return e, nil
			}
		}
		return ShapeEntry{}, tools.NewBadArgument("unknown shape %q in category %q", id, category)
	}
	return ShapeEntry{}, tools.NewBadArgument(
		"unknown shape category %q: expected arrows, geometric, callouts, banners, or flowchart", category)
}
