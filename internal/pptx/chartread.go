package pptx

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

type xmlChartPt struct {
	Idx int    `xml:"idx,attr"`
	V   string `xml:"v"`
}

type xmlChartRef struct {
	StrPts []xmlChartPt `xml:"strRef>strCache>pt"`
	NumPts []xmlChartPt `xml:"numRef>numCache>pt"`
}

type xmlChartSer struct {
	Tx   *xmlChartRef `xml:"tx"`
	Cat  *xmlChartRef `xml:"cat"`
	Val  *xmlChartRef `xml:"val"`
	XVal *xmlChartRef `xml:"xVal"`
	YVal *xmlChartRef `xml:"yVal"`
}

type xmlChartGroup struct {
	BarDir *struct {
		Val string `xml:"val,attr"`
	} `xml:"barDir"`
	Sers []xmlChartSer `xml:"ser"`
}

// parseChart rebuilds the chart model from a chart part's literal caches.
// Charts without cached data (live workbook references only) are skipped.
func parseChart(data []byte, chartPart string) (*deck.Chart, error) {
	var doc struct {
		Chart struct {
			Title *struct {
				Paragraphs []xmlParagraph `xml:"tx>rich>p"`
			} `xml:"title"`
			PlotArea struct {
				Bar      *xmlChartGroup `xml:"barChart"`
				Line     *xmlChartGroup `xml:"lineChart"`
				Pie      *xmlChartGroup `xml:"pieChart"`
				Area     *xmlChartGroup `xml:"areaChart"`
				Scatter  *xmlChartGroup `xml:"scatterChart"`
				Doughnut *xmlChartGroup `xml:"doughnutChart"`
			} `xml:"plotArea"`
		} `xml:"chart"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, tools.NewIOError(err, "parsing chart part %s", chartPart)
	}

	pa := doc.Chart.PlotArea
	var group *xmlChartGroup
	var kind deck.ChartKind
	switch {
	case pa.Bar != nil:
		group = pa.Bar
		kind = deck.ChartColumn
		if group.BarDir != nil && group.BarDir.Val == "bar" {
			kind = deck.ChartBar
		}
	case pa.Line != nil:
		group, kind = pa.Line, deck.ChartLine
	case pa.Pie != nil:
		group, kind = pa.Pie, deck.ChartPie
	case pa.Doughnut != nil:
		group, kind = pa.Doughnut, deck.ChartPie
	case pa.Area != nil:
		group, kind = pa.Area, deck.ChartArea
	case pa.Scatter != nil:
		group, kind = pa.Scatter, deck.ChartScatter
	default:
		return nil, nil
	}
	if len(group.Sers) == 0 {
		return nil, nil
	}

	var categories []string
	var series []deck.Series
	for i, ser := range group.Sers {
		name := refStrings(ser.Tx)
		serName := ""
		if len(name) > 0 {
			serName = name[0]
		}
		var values []float64
		valRef := ser.Val
		if valRef == nil {
			valRef = ser.YVal
		}
		for _, pt := range refPoints(valRef) {
			v, err := strconv.ParseFloat(strings.TrimSpace(pt.V), 64)
			if err != nil {
				v = 0
			}
			values = append(values, v)
		}
		if i == 0 {
			catRef := ser.Cat
			if catRef == nil {
				catRef = ser.XVal
			}
			for _, pt := range refPoints(catRef) {
				categories = append(categories, pt.V)
			}
		}
		series = append(series, deck.Series{Name: serName, Values: values})
	}
	if len(categories) == 0 && len(series) > 0 {
		for i := range series[0].Values {
			categories = append(categories, strconv.Itoa(i+1))
		}
	}
	// Pad or trim so every series spans the category list.
	for i := range series {
		for len(series[i].Values) < len(categories) {
			series[i].Values = append(series[i].Values, 0)
		}
		if len(series[i].Values) > len(categories) {
			series[i].Values = series[i].Values[:len(categories)]
		}
	}
	if len(categories) == 0 {
		return nil, nil
	}

	title := ""
	if doc.Chart.Title != nil {
		var lines []string
		for _, p := range doc.Chart.Title.Paragraphs {
			var sb strings.Builder
			for _, r := range p.Runs {
				sb.WriteString(r.T)
			}
			lines = append(lines, sb.String())
		}
		title = strings.Join(lines, "\n")
	}
	return &deck.Chart{Kind: kind, Title: title, Categories: categories, Series: series}, nil
}

func refStrings(ref *xmlChartRef) []string {
	var out []string
	for _, pt := range refPoints(ref) {
		out = append(out, pt.V)
	}
	return out
}

func refPoints(ref *xmlChartRef) []xmlChartPt {
	if ref == nil {
		return nil
	}
	if len(ref.StrPts) > 0 {
		return ref.StrPts
	}
	return ref.NumPts
}
