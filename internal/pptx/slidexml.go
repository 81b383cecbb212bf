package pptx

import (
	"fmt"
	"math"
	"strings"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
)

// relList accumulates the relationships of a single package part and
// hands out sequential rIds.
type relList struct {
	entries []relEntry
}

type relEntry struct {
	id     string
	relTyp string
	target string
}

func (r *relList) add(relTyp, target string) string {
	id := fmt.Sprintf("rId%d", len(r.entries)+1)
	r.entries = append(r.entries, relEntry{id: id, relTyp: relTyp, target: target})
	return id
}

func (r *relList) xml() string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, e := range r.entries {
		sb.WriteString(`<Relationship Id="` + e.id + `" Type="` + e.relTyp + `" Target="` + escapeXML(e.target) + `"/>`)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

var alignmentCodes = map[string]string{
	deck.AlignLeft:    "l",
	deck.AlignCenter:  "ctr",
	deck.AlignRight:   "r",
	deck.AlignJustify: "just",
}

// slideXML serializes one slide. rels receives the slide's relationships
// (layout first, then images and charts in shape order); chartTarget maps
// a shape index to the chart part target for that shape.
func slideXML(s *deck.Slide, rels *relList, chartTarget func(shapeIdx int) string) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<p:sld xmlns:a="` + nsDrawingML + `" xmlns:r="` + nsRelationships + `" xmlns:p="` + nsPresentationML + `">`)
	sb.WriteString(`<p:cSld>`)
	appendBackground(&sb, s.Background, rels)
	sb.WriteString(`<p:spTree>`)
	sb.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	sb.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)
	for i, shape := range s.Shapes {
		appendShape(&sb, shape, i, rels, chartTarget)
	}
	sb.WriteString(`</p:spTree></p:cSld>`)
	sb.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	sb.WriteString(`</p:sld>`)
	return sb.String()
}

func appendBackground(sb *strings.Builder, bg *deck.Fill, rels *relList) {
	if bg == nil {
		return
	}
	sb.WriteString(`<p:bg><p:bgPr>`)
	if bg.Image != "" {
		rID := rels.add(relTypeImage, "../"+bg.Image)
		sb.WriteString(`<a:blipFill><a:blip r:embed="` + rID + `"/><a:stretch><a:fillRect/></a:stretch></a:blipFill>`)
	} else if bg.Color != nil {
		sb.WriteString(`<a:solidFill><a:srgbClr val="` + bg.Color.HexBare() + `"/></a:solidFill>`)
	} else {
		sb.WriteString(`<a:noFill/>`)
	}
	sb.WriteString(`<a:effectLst/></p:bgPr></p:bg>`)
}

func appendShape(sb *strings.Builder, shape *deck.Shape, idx int, rels *relList, chartTarget func(int) string) {
	id := idx + 2
	switch shape.Kind {
	case deck.KindImage:
		appendPicture(sb, shape, id, rels)
	case deck.KindTable:
		appendTableFrame(sb, shape, id)
	case deck.KindChart:
		appendChartFrame(sb, shape, id, rels, chartTarget(idx))
	case deck.KindAutoShape:
		appendSp(sb, shape, id, false)
	default:
		appendSp(sb, shape, id, true)
	}
}

// appendSp writes a p:sp element; textBox selects the plain text box
// form, otherwise the shape's preset geometry and fill are written.
func appendSp(sb *strings.Builder, shape *deck.Shape, id int, textBox bool) {
	sb.WriteString(`<p:sp><p:nvSpPr>`)
	fmt.Fprintf(sb, `<p:cNvPr id="%d" name="%s"/>`, id, escapeXML(shape.Name))
	if textBox {
		sb.WriteString(`<p:cNvSpPr txBox="1"/>`)
	} else {
		sb.WriteString(`<p:cNvSpPr/>`)
	}
	sb.WriteString(`<p:nvPr/></p:nvSpPr>`)
	sb.WriteString(`<p:spPr>`)
	appendXfrm(sb, shape.Frame, "a:xfrm")
	preset := "rect"
	if !textBox && shape.Auto != nil && shape.Auto.Preset != "" {
		preset = shape.Auto.Preset
	}
	sb.WriteString(`<a:prstGeom prst="` + preset + `"><a:avLst/></a:prstGeom>`)
	if !textBox && shape.Auto != nil {
		if shape.Auto.Fill != nil {
			sb.WriteString(`<a:solidFill><a:srgbClr val="` + shape.Auto.Fill.HexBare() + `"/></a:solidFill>`)
		}
		if shape.Auto.LineColor != nil {
			w := int64(math.Round(shape.Auto.LineWidth * float64(deck.EMUPerPoint)))
			if w <= 0 {
				w = deck.EMUPerPoint
			}
			fmt.Fprintf(sb, `<a:ln w="%d"><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:ln>`, w, shape.Auto.LineColor.HexBare())
		}
	} else {
		sb.WriteString(`<a:noFill/>`)
	}
	sb.WriteString(`</p:spPr>`)
	if shape.Text != nil {
		appendTextBody(sb, shape.Text, "p:txBody")
	}
	sb.WriteString(`</p:sp>`)
}

func appendPicture(sb *strings.Builder, shape *deck.Shape, id int, rels *relList) {
	rID := rels.add(relTypeImage, "../"+shape.Image.Media)
	sb.WriteString(`<p:pic><p:nvPicPr>`)
	fmt.Fprintf(sb, `<p:cNvPr id="%d" name="%s" descr="%s"/>`, id, escapeXML(shape.Name), escapeXML(shape.Image.AltText))
	sb.WriteString(`<p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`)
	sb.WriteString(`<p:blipFill><a:blip r:embed="` + rID + `"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`)
	sb.WriteString(`<p:spPr>`)
	appendXfrm(sb, shape.Frame, "a:xfrm")
	sb.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`)
}

func appendChartFrame(sb *strings.Builder, shape *deck.Shape, id int, rels *relList, target string) {
	rID := rels.add(relTypeChart, target)
	sb.WriteString(`<p:graphicFrame><p:nvGraphicFramePr>`)
	fmt.Fprintf(sb, `<p:cNvPr id="%d" name="%s"/>`, id, escapeXML(shape.Name))
	sb.WriteString(`<p:cNvGraphicFramePr><a:graphicFrameLocks noGrp="1"/></p:cNvGraphicFramePr><p:nvPr/></p:nvGraphicFramePr>`)
	appendXfrm(sb, shape.Frame, "p:xfrm")
	sb.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/chart">`)
	sb.WriteString(`<c:chart xmlns:c="` + nsChartML + `" xmlns:r="` + nsRelationships + `" r:id="` + rID + `"/>`)
	sb.WriteString(`</a:graphicData></a:graphic></p:graphicFrame>`)
}

func appendTableFrame(sb *strings.Builder, shape *deck.Shape, id int) {
	t := shape.Table
	sb.WriteString(`<p:graphicFrame><p:nvGraphicFramePr>`)
	fmt.Fprintf(sb, `<p:cNvPr id="%d" name="%s"/>`, id, escapeXML(shape.Name))
	sb.WriteString(`<p:cNvGraphicFramePr><a:graphicFrameLocks noGrp="1"/></p:cNvGraphicFramePr><p:nvPr/></p:nvGraphicFramePr>`)
	appendXfrm(sb, shape.Frame, "p:xfrm")
	sb.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table">`)
	appendTable(sb, t, shape.Frame)
	sb.WriteString(`</a:graphicData></a:graphic></p:graphicFrame>`)
}

func appendTable(sb *strings.Builder, t *deck.Table, frame deck.Frame) {
	rows, cols := t.RowCount(), t.ColCount()
	sb.WriteString(`<a:tbl><a:tblPr`)
	if t.HeaderRow {
		sb.WriteString(` firstRow="1"`)
	}
	sb.WriteString(`/>`)
	sb.WriteString(`<a:tblGrid>`)
	colW := frame.Width / int64(cols)
	for c := 0; c < cols; c++ {
		w := colW
		if c == cols-1 {
			w = frame.Width - colW*int64(cols-1)
		}
		fmt.Fprintf(sb, `<a:gridCol w="%d"/>`, w)
	}
	sb.WriteString(`</a:tblGrid>`)
	rowH := frame.Height / int64(rows)
	for r := 0; r < rows; r++ {
		h := rowH
		if r == rows-1 {
			h = frame.Height - rowH*int64(rows-1)
		}
		fmt.Fprintf(sb, `<a:tr h="%d">`, h)
		for c := 0; c < cols; c++ {
			cell, _ := t.Cell(r, c)
			sb.WriteString(`<a:tc>`)
			appendTextBody(sb, cell.Frame, "a:txBody")
			fmt.Fprintf(sb, `<a:tcPr marL="%d" marR="%d" marT="%d" marB="%d"`,
				cell.Margins.Left, cell.Margins.Right, cell.Margins.Top, cell.Margins.Bottom)
			if cell.Fill != nil {
				sb.WriteString(`><a:solidFill><a:srgbClr val="` + cell.Fill.HexBare() + `"/></a:solidFill></a:tcPr>`)
			} else {
				sb.WriteString(`/>`)
			}
			sb.WriteString(`</a:tc>`)
		}
		sb.WriteString(`</a:tr>`)
	}
	sb.WriteString(`</a:tbl>`)
}

func appendXfrm(sb *strings.Builder, f deck.Frame, tag string) {
	fmt.Fprintf(sb, `<%s><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></%s>`,
		tag, f.Left, f.Top, f.Width, f.Height, tag)
}

// appendTextBody writes a text frame as a txBody element. tag is
// "p:txBody" for shapes and "a:txBody" for table cells.
func appendTextBody(sb *strings.Builder, tf *deck.TextFrame, tag string) {
	sb.WriteString(`<` + tag + `>`)
	if tf != nil && !tf.WordWrap {
		sb.WriteString(`<a:bodyPr wrap="none"/>`)
	} else {
		sb.WriteString(`<a:bodyPr wrap="square"/>`)
	}
	sb.WriteString(`<a:lstStyle/>`)
	if tf == nil || len(tf.Paragraphs) == 0 {
		sb.WriteString(`<a:p/>`)
	} else {
		for _, p := range tf.Paragraphs {
			appendParagraph(sb, p)
		}
	}
	sb.WriteString(`</` + tag + `>`)
}

func appendParagraph(sb *strings.Builder, p *deck.Paragraph) {
	sb.WriteString(`<a:p>`)
	algn := alignmentCodes[p.Alignment]
	if algn != "" || p.Bullet || p.Level > 0 {
		sb.WriteString(`<a:pPr`)
		if p.Level > 0 {
			fmt.Fprintf(sb, ` lvl="%d"`, p.Level)
		}
		if algn != "" {
			sb.WriteString(` algn="` + algn + `"`)
		}
		if p.Bullet {
			sb.WriteString(`><a:buChar char="&#8226;"/></a:pPr>`)
		} else {
			sb.WriteString(`/>`)
		}
	}
	for _, r := range p.Runs {
		appendRun(sb, r)
	}
	sb.WriteString(`</a:p>`)
}

func appendRun(sb *strings.Builder, r *deck.Run) {
	sb.WriteString(`<a:r><a:rPr lang="en-US"`)
	f := r.Font
	if f != nil {
		if f.Size > 0 {
			fmt.Fprintf(sb, ` sz="%d"`, deck.Centipoints(f.Size))
		}
		if f.Bold {
			sb.WriteString(` b="1"`)
		}
		if f.Italic {
			sb.WriteString(` i="1"`)
		}
		if f.Underline {
			sb.WriteString(` u="sng"`)
		}
	}
	sb.WriteString(` dirty="0"`)
	if f != nil && (f.Color != nil || f.Name != "") {
		sb.WriteString(`>`)
		if f.Color != nil {
			sb.WriteString(`<a:solidFill><a:srgbClr val="` + f.Color.HexBare() + `"/></a:solidFill>`)
		}
		if f.Name != "" {
			sb.WriteString(`<a:latin typeface="` + escapeXML(f.Name) + `"/>`)
		}
		sb.WriteString(`</a:rPr>`)
	} else {
		sb.WriteString(`/>`)
	}
	sb.WriteString(`<a:t>` + escapeXML(r.Text) + `</a:t></a:r>`)
}
