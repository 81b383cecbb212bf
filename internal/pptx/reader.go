package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path"
	"strings"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// preservedPrefixes lists the archive parts kept verbatim on the deck so
// that masters, layouts, and theming written by other tools survive a
// load/save cycle. Slides, charts, and media are re-serialized from the
// model instead.
var preservedPrefixes = []string{
	"ppt/slideMasters/",
	"ppt/slideLayouts/",
	"ppt/theme/",
}

var preservedParts = map[string]bool{
	"ppt/presProps.xml":   true,
	"ppt/viewProps.xml":   true,
	"ppt/tableStyles.xml": true,
}

// Read parses a presentation archive into a deck. Document parts outside
// the model are preserved as raw bytes for the next save.
func Read(inPath string) (*deck.Deck, error) {
	zr, err := zip.OpenReader(inPath)
	if err != nil {
		return nil, tools.NewIOError(err, "opening %s", inPath)
	}
	defer zr.Close()

	files := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, tools.NewIOError(err, "opening archive entry %s", f.Name)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, tools.NewIOError(err, "reading archive entry %s", f.Name)
		}
		files[strings.TrimPrefix(f.Name, "/")] = data
	}

	d := deck.New()
	d.SourcePath = inPath

	for name, data := range files {
		if preservedParts[name] {
			d.SetPart(name, data)
			continue
		}
		for _, prefix := range preservedPrefixes {
			if strings.HasPrefix(name, prefix) {
				d.SetPart(name, data)
				break
			}
		}
		if strings.HasPrefix(name, "ppt/media/") {
			d.SetMedia(strings.TrimPrefix(name, "ppt/"), data)
		}
	}

	presPart, err := presentationPart(files)
	if err != nil {
		return nil, err
	}
	presData := files[presPart]
	var pres struct {
		SldSz *struct {
			Cx int64 `xml:"cx,attr"`
			Cy int64 `xml:"cy,attr"`
		} `xml:"sldSz"`
		SlideIDs []struct {
			RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
		} `xml:"sldIdLst>sldId"`
	}
	if err := xml.Unmarshal(presData, &pres); err != nil {
		return nil, tools.NewIOError(err, "parsing %s", presPart)
	}
	if pres.SldSz != nil && pres.SldSz.Cx > 0 && pres.SldSz.Cy > 0 {
		d.SlideWidth = pres.SldSz.Cx
		d.SlideHeight = pres.SldSz.Cy
	}

	presRelsData := files[relsPartFor(presPart)]
	presRels, err := parseRelationships(presRelsData)
	if err != nil {
		return nil, tools.NewIOError(err, "parsing presentation relationships")
	}

	_, layouts := masterLayouts(d)
	for _, sid := range pres.SlideIDs {
		rel, ok := presRels[sid.RID]
		if !ok {
			continue
		}
		slidePart := resolveTarget(presPart, rel.Target)
		slideData, ok := files[slidePart]
		if !ok {
			return nil, tools.NewIOError(nil, "archive is missing slide part %s", slidePart)
		}
		slideRels, err := parseRelationships(files[relsPartFor(slidePart)])
		if err != nil {
			return nil, tools.NewIOError(err, "parsing relationships of %s", slidePart)
		}
		slide, err := parseSlide(slideData, slidePart, slideRels, files, layouts)
		if err != nil {
			return nil, err
		}
		d.Slides = append(d.Slides, slide)
	}
	return d, nil
}

// presentationPart resolves the office document target from the package
// root relationships, falling back to the conventional part name.
func presentationPart(files map[string][]byte) (string, error) {
	if data, ok := files["_rels/.rels"]; ok {
		rels, err := parseRelationships(data)
		if err == nil {
			for _, rel := range rels {
				if rel.Type == relTypeOfficeDocument {
					return strings.TrimPrefix(rel.Target, "/"), nil
				}
			}
		}
	}
	if _, ok := files["ppt/presentation.xml"]; ok {
		return "ppt/presentation.xml", nil
	}
	return "", tools.NewIOError(nil, "archive has no presentation part")
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

func parseRelationships(data []byte) (map[string]relationship, error) {
	out := make(map[string]relationship)
	if len(data) == 0 {
		return out, nil
	}
	var doc struct {
		Rels []relationship `xml:"Relationship"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	for _, rel := range doc.Rels {
		out[rel.ID] = rel
	}
	return out, nil
}

func relsPartFor(part string) string {
	return path.Dir(part) + "/_rels/" + path.Base(part) + ".rels"
}

// resolveTarget resolves a relationship target relative to the part that
// declared it.
func resolveTarget(fromPart, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(fromPart), target)
}

// parseSlide walks the slide part in document order so shape indices match
// what a viewer shows. Grouped shapes are flattened into the slide's list.
func parseSlide(data []byte, slidePart string, rels map[string]relationship, files map[string][]byte, layouts []string) (*deck.Slide, error) {
	slide := &deck.Slide{Layout: layoutIndexFor(slidePart, rels, layouts)}

	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, tools.NewIOError(err, "parsing %s", slidePart)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "bg":
			var bg xmlBg
			if err := dec.DecodeElement(&bg, &se); err != nil {
				return nil, tools.NewIOError(err, "parsing background of %s", slidePart)
			}
			slide.Background = bg.toFill(slidePart, rels)
		case "sp":
			var sp xmlSp
			if err := dec.DecodeElement(&sp, &se); err != nil {
				return nil, tools.NewIOError(err, "parsing shape in %s", slidePart)
			}
			slide.Shapes = append(slide.Shapes, sp.toShape())
		case "pic":
			var pic xmlPic
			if err := dec.DecodeElement(&pic, &se); err != nil {
				return nil, tools.NewIOError(err, "parsing picture in %s", slidePart)
			}
			if shape := pic.toShape(slidePart, rels); shape != nil {
				slide.Shapes = append(slide.Shapes, shape)
			}
		case "graphicFrame":
			var gf xmlGraphicFrame
			if err := dec.DecodeElement(&gf, &se); err != nil {
				return nil, tools.NewIOError(err, "parsing graphic frame in %s", slidePart)
			}
			shape, err := gf.toShape(slidePart, rels, files)
			if err != nil {
				return nil, err
			}
			if shape != nil {
				slide.Shapes = append(slide.Shapes, shape)
			}
		}
	}
	return slide, nil
}

func layoutIndexFor(slidePart string, rels map[string]relationship, layouts []string) int {
	for _, rel := range rels {
		if rel.Type != relTypeSlideLayout {
			continue
		}
		target := resolveTarget(slidePart, rel.Target)
		for i, layout := range layouts {
			if layout == target {
				return i
			}
		}
	}
	return 0
}

type xmlCNvPr struct {
	ID    int    `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr"`
}

type xmlSolidFill struct {
	SrgbClr *struct {
		Val string `xml:"val,attr"`
	} `xml:"srgbClr"`
}

func (sf *xmlSolidFill) toRGB() *deck.RGB {
	if sf == nil || sf.SrgbClr == nil {
		return nil
	}
	rgb, err := deck.ParseColor("#" + sf.SrgbClr.Val)
	if err != nil {
		return nil
	}
	return rgb
}

type xmlXfrm struct {
	Off struct {
		X int64 `xml:"x,attr"`
		Y int64 `xml:"y,attr"`
	} `xml:"off"`
	Ext struct {
		Cx int64 `xml:"cx,attr"`
		Cy int64 `xml:"cy,attr"`
	} `xml:"ext"`
}

func (x *xmlXfrm) toFrame() deck.Frame {
	if x == nil {
		return deck.Frame{}
	}
	return deck.Frame{Left: x.Off.X, Top: x.Off.Y, Width: x.Ext.Cx, Height: x.Ext.Cy}
}

type xmlBg struct {
	BgPr *struct {
		SolidFill *xmlSolidFill `xml:"solidFill"`
		BlipFill  *struct {
			Blip struct {
				Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
			} `xml:"blip"`
		} `xml:"blipFill"`
	} `xml:"bgPr"`
}

func (bg *xmlBg) toFill(slidePart string, rels map[string]relationship) *deck.Fill {
	if bg.BgPr == nil {
		return nil
	}
	if bg.BgPr.BlipFill != nil {
		if key := mediaKeyFor(slidePart, bg.BgPr.BlipFill.Blip.Embed, rels); key != "" {
			return &deck.Fill{Image: key}
		}
	}
	if rgb := bg.BgPr.SolidFill.toRGB(); rgb != nil {
		return &deck.Fill{Color: rgb}
	}
	return nil
}

func mediaKeyFor(fromPart, rID string, rels map[string]relationship) string {
	rel, ok := rels[rID]
	if !ok || strings.EqualFold(rel.TargetMode, "External") {
		return ""
	}
	resolved := resolveTarget(fromPart, rel.Target)
	if !strings.HasPrefix(resolved, "ppt/media/") {
		return ""
	}
	return strings.TrimPrefix(resolved, "ppt/")
}

type xmlSpPr struct {
	Xfrm     *xmlXfrm `xml:"xfrm"`
	PrstGeom *struct {
		Prst string `xml:"prst,attr"`
	} `xml:"prstGeom"`
	SolidFill *xmlSolidFill `xml:"solidFill"`
	Ln        *struct {
		W         int64         `xml:"w,attr"`
		SolidFill *xmlSolidFill `xml:"solidFill"`
	} `xml:"ln"`
}

type xmlSp struct {
	NvSpPr struct {
		CNvPr   xmlCNvPr `xml:"cNvPr"`
		CNvSpPr struct {
			TxBox string `xml:"txBox,attr"`
		} `xml:"cNvSpPr"`
		NvPr struct {
			Ph *struct {
				Type string `xml:"type,attr"`
			} `xml:"ph"`
		} `xml:"nvPr"`
	} `xml:"nvSpPr"`
	SpPr   xmlSpPr    `xml:"spPr"`
	TxBody *xmlTxBody `xml:"txBody"`
}

func (sp *xmlSp) toShape() *deck.Shape {
	shape := &deck.Shape{
		Name:  sp.NvSpPr.CNvPr.Name,
		Frame: sp.SpPr.Xfrm.toFrame(),
		Text:  sp.TxBody.toTextFrame(),
	}
	switch {
	case sp.NvSpPr.NvPr.Ph != nil:
		shape.Kind = deck.KindPlaceholder
	case xmlBool(sp.NvSpPr.CNvSpPr.TxBox):
		shape.Kind = deck.KindText
	default:
		shape.Kind = deck.KindAutoShape
		auto := &deck.AutoShape{Preset: "rect"}
		if sp.SpPr.PrstGeom != nil && sp.SpPr.PrstGeom.Prst != "" {
			auto.Preset = sp.SpPr.PrstGeom.Prst
		}
		auto.Fill = sp.SpPr.SolidFill.toRGB()
		if sp.SpPr.Ln != nil {
			auto.LineColor = sp.SpPr.Ln.SolidFill.toRGB()
			if sp.SpPr.Ln.W > 0 {
				auto.LineWidth = float64(sp.SpPr.Ln.W) / float64(deck.EMUPerPoint)
			}
		}
		shape.Auto = auto
	}
	return shape
}

type xmlPic struct {
	NvPicPr struct {
		CNvPr xmlCNvPr `xml:"cNvPr"`
	} `xml:"nvPicPr"`
	BlipFill struct {
		Blip struct {
			Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
		} `xml:"blip"`
	} `xml:"blipFill"`
	SpPr xmlSpPr `xml:"spPr"`
}

func (pic *xmlPic) toShape(slidePart string, rels map[string]relationship) *deck.Shape {
	key := mediaKeyFor(slidePart, pic.BlipFill.Blip.Embed, rels)
	if key == "" {
		return nil
	}
	return &deck.Shape{
		Kind:  deck.KindImage,
		Name:  pic.NvPicPr.CNvPr.Name,
		Frame: pic.SpPr.Xfrm.toFrame(),
		Image: &deck.ImageRef{Media: key, AltText: pic.NvPicPr.CNvPr.Descr},
	}
}

type xmlGraphicFrame struct {
	NvPr struct {
		CNvPr xmlCNvPr `xml:"cNvPr"`
	} `xml:"nvGraphicFramePr"`
	Xfrm    xmlXfrm `xml:"xfrm"`
	Graphic struct {
		GraphicData struct {
			URI   string  `xml:"uri,attr"`
			Tbl   *xmlTbl `xml:"tbl"`
			Chart *struct {
				RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
			} `xml:"chart"`
		} `xml:"graphicData"`
	} `xml:"graphic"`
}

func (gf *xmlGraphicFrame) toShape(slidePart string, rels map[string]relationship, files map[string][]byte) (*deck.Shape, error) {
	frame := gf.Xfrm.toFrame()
	name := gf.NvPr.CNvPr.Name
	if tbl := gf.Graphic.GraphicData.Tbl; tbl != nil {
		table := tbl.toTable()
		if table == nil {
			return nil, nil
		}
		return &deck.Shape{Kind: deck.KindTable, Name: name, Frame: frame, Table: table}, nil
	}
	if ref := gf.Graphic.GraphicData.Chart; ref != nil {
		rel, ok := rels[ref.RID]
		if !ok {
			return nil, nil
		}
		chartPart := resolveTarget(slidePart, rel.Target)
		chartData, ok := files[chartPart]
		if !ok {
			return nil, nil
		}
		chart, err := parseChart(chartData, chartPart)
		if err != nil {
			return nil, err
		}
		if chart == nil {
			return nil, nil
		}
		return &deck.Shape{Kind: deck.KindChart, Name: name, Frame: frame, Chart: chart}, nil
	}
	return nil, nil
}

type xmlTbl struct {
	TblPr *struct {
		FirstRow string `xml:"firstRow,attr"`
	} `xml:"tblPr"`
	Rows []struct {
		Cells []xmlTc `xml:"tc"`
	} `xml:"tr"`
}

type xmlTc struct {
	TxBody *xmlTxBody `xml:"txBody"`
	TcPr   *struct {
		MarL      *int64        `xml:"marL,attr"`
		MarR      *int64        `xml:"marR,attr"`
		MarT      *int64        `xml:"marT,attr"`
		MarB      *int64        `xml:"marB,attr"`
		SolidFill *xmlSolidFill `xml:"solidFill"`
	} `xml:"tcPr"`
}

func (tbl *xmlTbl) toTable() *deck.Table {
	if len(tbl.Rows) == 0 {
		return nil
	}
	cols := len(tbl.Rows[0].Cells)
	if cols == 0 {
		return nil
	}
	out := &deck.Table{HeaderRow: tbl.TblPr != nil && xmlBool(tbl.TblPr.FirstRow)}
	for _, row := range tbl.Rows {
		cells := make([]*deck.Cell, cols)
		for c := 0; c < cols; c++ {
			cell := &deck.Cell{Margins: deck.DefaultMargins()}
			if c < len(row.Cells) {
				tc := row.Cells[c]
				cell.Frame = tc.TxBody.toTextFrame()
				if tc.TcPr != nil {
					if tc.TcPr.MarL != nil {
						cell.Margins.Left = *tc.TcPr.MarL
					}
					if tc.TcPr.MarR != nil {
						cell.Margins.Right = *tc.TcPr.MarR
					}
					if tc.TcPr.MarT != nil {
						cell.Margins.Top = *tc.TcPr.MarT
					}
					if tc.TcPr.MarB != nil {
						cell.Margins.Bottom = *tc.TcPr.MarB
					}
					cell.Fill = tc.TcPr.SolidFill.toRGB()
				}
			}
			if cell.Frame == nil {
				cell.Frame = deck.NewTextFrame("", nil)
			}
			cells[c] = cell
		}
		out.Grid = append(out.Grid, cells)
	}
	return out
}

type xmlTxBody struct {
	BodyPr struct {
		Wrap string `xml:"wrap,attr"`
	} `xml:"bodyPr"`
	Paragraphs []xmlParagraph `xml:"p"`
}

type xmlParagraph struct {
	PPr *struct {
		Algn      string    `xml:"algn,attr"`
		Lvl       int       `xml:"lvl,attr"`
		BuChar    *struct{} `xml:"buChar"`
		BuAutoNum *struct{} `xml:"buAutoNum"`
	} `xml:"pPr"`
	Runs []xmlRun `xml:"r"`
}

type xmlRun struct {
	RPr *xmlRPr `xml:"rPr"`
	T   string  `xml:"t"`
}

type xmlRPr struct {
	Sz        int           `xml:"sz,attr"`
	B         string        `xml:"b,attr"`
	I         string        `xml:"i,attr"`
	U         string        `xml:"u,attr"`
	SolidFill *xmlSolidFill `xml:"solidFill"`
	Latin     *struct {
		Typeface string `xml:"typeface,attr"`
	} `xml:"latin"`
}

var alignmentNames = map[string]string{
	"l":    deck.AlignLeft,
	"ctr":  deck.AlignCenter,
	"r":    deck.AlignRight,
	"just": deck.AlignJustify,
}

func (tb *xmlTxBody) toTextFrame() *deck.TextFrame {
	if tb == nil {
		return nil
	}
	tf := &deck.TextFrame{WordWrap: tb.BodyPr.Wrap != "none"}
	for _, p := range tb.Paragraphs {
		para := &deck.Paragraph{}
		if p.PPr != nil {
			para.Alignment = alignmentNames[p.PPr.Algn]
			para.Level = p.PPr.Lvl
			para.Bullet = p.PPr.BuChar != nil || p.PPr.BuAutoNum != nil
		}
		for _, r := range p.Runs {
			para.Runs = append(para.Runs, &deck.Run{Text: r.T, Font: r.RPr.toFont()})
		}
		tf.Paragraphs = append(tf.Paragraphs, para)
	}
	if len(tf.Paragraphs) == 0 {
		tf.Paragraphs = []*deck.Paragraph{{}}
	}
	return tf
}

func (rp *xmlRPr) toFont() *deck.Font {
	if rp == nil {
		return nil
	}
	f := &deck.Font{
		Bold:      xmlBool(rp.B),
		Italic:    xmlBool(rp.I),
		Underline: rp.U != "" && rp.U != "none",
		Color:     rp.SolidFill.toRGB(),
	}
	if rp.Sz > 0 {
		f.Size = float64(rp.Sz) / 100
	}
	if rp.Latin != nil {
		f.Name = rp.Latin.Typeface
	}
	if f.Name == "" && f.Size == 0 && !f.Bold && !f.Italic && !f.Underline && f.Color == nil {
		return nil
	}
	return f
}

func xmlBool(s string) bool {
	return s == "1" || s == "true"
}
