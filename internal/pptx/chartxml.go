package pptx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
)

// chartXML serializes a chart model to a c:chartSpace part. Category
// labels and series values are written as literal caches; no workbook
// part is embedded.
func chartXML(ch *deck.Chart) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<c:chartSpace xmlns:c="` + nsChartML + `" xmlns:a="` + nsDrawingML + `" xmlns:r="` + nsRelationships + `">`)
	sb.WriteString(`<c:chart>`)
	if ch.Title != "" {
		sb.WriteString(`<c:title><c:tx><c:rich><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US"/><a:t>` +
			escapeXML(ch.Title) + `</a:t></a:r></a:p></c:rich></c:tx><c:overlay val="0"/></c:title>` +
			`<c:autoTitleDeleted val="0"/>`)
	}
	sb.WriteString(`<c:plotArea><c:layout/>`)
	switch ch.Kind {
	case deck.ChartPie:
		appendPieChart(&sb, ch)
	case deck.ChartLine:
		appendAxisChart(&sb, ch, "c:lineChart", "")
	case deck.ChartArea:
		appendAxisChart(&sb, ch, "c:areaChart", "")
	case deck.ChartScatter:
		appendScatterChart(&sb, ch)
	case deck.ChartBar:
		appendAxisChart(&sb, ch, "c:barChart", "bar")
	default:
		appendAxisChart(&sb, ch, "c:barChart", "col")
	}
	if ch.Kind != deck.ChartPie {
		appendAxes(&sb, ch.Kind == deck.ChartScatter)
	}
	sb.WriteString(`</c:plotArea>`)
	sb.WriteString(`<c:legend><c:legendPos val="b"/><c:overlay val="0"/></c:legend>`)
	sb.WriteString(`<c:plotVisOnly val="1"/>`)
	sb.WriteString(`</c:chart></c:chartSpace>`)
	return sb.String()
}

func appendAxisChart(sb *strings.Builder, ch *deck.Chart, element, barDir string) {
	sb.WriteString(`<` + element + `>`)
	if barDir != "" {
		sb.WriteString(`<c:barDir val="` + barDir + `"/><c:grouping val="clustered"/>`)
	} else {
		sb.WriteString(`<c:grouping val="standard"/>`)
	}
	sb.WriteString(`<c:varyColors val="0"/>`)
	for i, s := range ch.Series {
		appendSeries(sb, ch, i, s, false)
	}
	if element == "c:lineChart" {
		sb.WriteString(`<c:marker val="1"/>`)
	}
	sb.WriteString(`<c:axId val="111111111"/><c:axId val="222222222"/>`)
	sb.WriteString(`</` + element + `>`)
}

func appendPieChart(sb *strings.Builder, ch *deck.Chart) {
	sb.WriteString(`<c:pieChart><c:varyColors val="1"/>`)
	for i, s := range ch.Series {
		appendSeries(sb, ch, i, s, false)
	}
	sb.WriteString(`<c:firstSliceAng val="0"/></c:pieChart>`)
}

func appendScatterChart(sb *strings.Builder, ch *deck.Chart) {
	sb.WriteString(`<c:scatterChart><c:scatterStyle val="lineMarker"/><c:varyColors val="0"/>`)
	for i, s := range ch.Series {
		appendSeries(sb, ch, i, s, true)
	}
	sb.WriteString(`<c:axId val="111111111"/><c:axId val="222222222"/>`)
	sb.WriteString(`</c:scatterChart>`)
}

// appendSeries writes one c:ser. Scatter series use numeric x values in
// category order; the other kinds cache the category strings.
func appendSeries(sb *strings.Builder, ch *deck.Chart, idx int, s deck.Series, scatter bool) {
	sb.WriteString(`<c:ser>`)
	fmt.Fprintf(sb, `<c:idx val="%d"/><c:order val="%d"/>`, idx, idx)
	sb.WriteString(`<c:tx><c:strRef><c:f/><c:strCache><c:ptCount val="1"/><c:pt idx="0"><c:v>` +
		escapeXML(s.Name) + `</c:v></c:pt></c:strCache></c:strRef></c:tx>`)
	if scatter {
		sb.WriteString(`<c:xVal><c:numRef><c:f/><c:numCache><c:formatCode>General</c:formatCode>`)
		fmt.Fprintf(sb, `<c:ptCount val="%d"/>`, len(ch.Categories))
		for i := range ch.Categories {
			fmt.Fprintf(sb, `<c:pt idx="%d"><c:v>%d</c:v></c:pt>`, i, i+1)
		}
		sb.WriteString(`</c:numCache></c:numRef></c:xVal>`)
		appendNumCache(sb, "c:yVal", s.Values)
	} else {
		sb.WriteString(`<c:cat><c:strRef><c:f/><c:strCache>`)
		fmt.Fprintf(sb, `<c:ptCount val="%d"/>`, len(ch.Categories))
		for i, cat := range ch.Categories {
			sb.WriteString(fmt.Sprintf(`<c:pt idx="%d"><c:v>`, i) + escapeXML(cat) + `</c:v></c:pt>`)
		}
		sb.WriteString(`</c:strCache></c:strRef></c:cat>`)
		appendNumCache(sb, "c:val", s.Values)
	}
	sb.WriteString(`</c:ser>`)
}

func appendNumCache(sb *strings.Builder, tag string, values []float64) {
	sb.WriteString(`<` + tag + `><c:numRef><c:f/><c:numCache><c:formatCode>General</c:formatCode>`)
	fmt.Fprintf(sb, `<c:ptCount val="%d"/>`, len(values))
	for i, v := range values {
		fmt.Fprintf(sb, `<c:pt idx="%d"><c:v>%s</c:v></c:pt>`, i, strconv.FormatFloat(v, 'g', -1, 64))
	}
	sb.WriteString(`</c:numCache></c:numRef></` + tag + `>`)
}

func appendAxes(sb *strings.Builder, scatter bool) {
	catElement := "c:catAx"
	if scatter {
		catElement = "c:valAx"
	}
	sb.WriteString(`<` + catElement + `><c:axId val="111111111"/><c:scaling><c:orientation val="minMax"/></c:scaling>` +
		`<c:delete val="0"/><c:axPos val="b"/><c:crossAx val="222222222"/></` + catElement + `>`)
	sb.WriteString(`<c:valAx><c:axId val="222222222"/><c:scaling><c:orientation val="minMax"/></c:scaling>` +
		`<c:delete val="0"/><c:axPos val="l"/><c:crossAx val="111111111"/></c:valAx>`)
}
