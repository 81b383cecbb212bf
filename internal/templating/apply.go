package templating

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// BuildDeck constructs a new deck from the template and a data set. Slides
// whose condition evaluates false against data are skipped entirely; every
// element's strings go through variable substitution before shapes are
// added.
func BuildDeck(t *Template, data map[string]interface{}) (*deck.Deck, error) {
	d := deck.New()
	for si, ts := range t.Slides {
		if ts.Condition != nil {
			ok, err := ts.Condition.Evaluate(data)
			if err != nil {
				return nil, tools.NewBadArgument("template %s slide %d: %v", t.ID, si, err)
			}
			if !ok {
				continue
			}
		}
		idx, err := d.AddSlide(ts.Layout)
		if err != nil {
			return nil, err
		}
		slide, _ := d.Slide(idx)
		for ei := range ts.Elements {
			if err := addElement(d, slide, &ts.Elements[ei], data); err != nil {
				return nil, tools.NewBadArgument("template %s slide %d element %d: %v", t.ID, si, ei, err)
			}
		}
	}
	return d, nil
}

func addElement(d *deck.Deck, slide *deck.Slide, el *Element, data map[string]interface{}) error {
	frame := deck.FrameFromInches(el.Left, el.Top, el.Width, el.Height)
	switch el.Type {
	case "text":
		font, err := el.Font.toFont()
		if err != nil {
			return err
		}
		slide.AddTextBox(frame, Substitute(el.Text, data), font, el.Alignment)
		return nil

	case "image":
		path := Substitute(el.Path, data)
		bytes, err := os.ReadFile(path)
		if err != nil {
			return tools.NewIOError(err, "read template image %s", path)
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if ext == "" {
			ext = "png"
		}
		media := d.AddMedia(bytes, ext)
		slide.AddImage(frame, media, path, el.AltText)
		return nil

	case "chart":
		kind, err := deck.ParseChartKind(el.Chart.ChartType)
		if err != nil {
			return err
		}
		categories := make([]string, len(el.Chart.Categories))
		for i, c := range el.Chart.Categories {
			categories[i] = Substitute(c, data)
		}
		series := make([]deck.Series, len(el.Chart.Series))
		for i, s := range el.Chart.Series {
			series[i] = deck.Series{Name: Substitute(s.Name, data), Values: s.Values}
		}
		chart, err := deck.NewChart(kind, Substitute(el.Chart.Title, data), categories, series)
		if err != nil {
			return err
		}
		slide.AddChart(frame, chart)
		return nil

	case "table":
		spec := el.Table
		if len(spec.Data) == 0 && len(spec.Headers) == 0 {
			_, err := slide.AddTable(spec.Rows, spec.Cols, frame, spec.HeaderRow)
			return err
		}
		headers := make([]string, len(spec.Headers))
		for i, h := range spec.Headers {
			headers[i] = Substitute(h, data)
		}
		rows := make([][]string, len(spec.Data))
		for r, row := range spec.Data {
			rows[r] = make([]string, len(row))
			for c, cell := range row {
				rows[r][c] = Substitute(cell, data)
			}
		}
		table, err := deck.NewTableWithData(rows, headers, nil, nil, false)
		if err != nil {
			return err
		}
		slide.AddShape(&deck.Shape{
			Kind:  deck.KindTable,
			Name:  "Table",
			Frame: frame,
			Table: table,
		})
		return nil
	}
	return tools.NewBadArgument("unrecognized element type %q", el.Type)
}

func (f *FontSpec) toFont() (*deck.Font, error) {
	if f == nil {
		return nil, nil
	}
	font := &deck.Font{Name: f.Name, Size: f.Size, Bold: f.Bold, Italic: f.Italic}
	if f.Color != "" {
		color, err := deck.ParseColor(f.Color)
		if err != nil {
			return nil, err
		}
		font.Color = color
	}
	return font, nil
}

// TextChange records one shape rewritten by UpdateContent. Patch is the
// diff-match-patch text form of the edit.
type TextChange struct {
	Slide  int    `json:"slide"`
	Shape  int    `json:"shape"`
	Before string `json:"before"`
	After  string `json:"after"`
	Patch  string `json:"patch,omitempty"`
}

// UpdateContent re-substitutes the text of every text-bearing shape on the
// listed slides. Keys of updates are slide indices as strings; placeholders
// that resolve nowhere stay literal.
func UpdateContent(d *deck.Deck, updates map[string]map[string]interface{}) ([]TextChange, error) {
	indices := make([]int, 0, len(updates))
	byIndex := make(map[int]map[string]interface{}, len(updates))
	for key, data := range updates {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, tools.NewBadArgument("slide key %q is not an index", key)
		}
		if _, err := d.Slide(idx); err != nil {
			return nil, err
		}
		indices = append(indices, idx)
		byIndex[idx] = data
	}
	sort.Ints(indices)

	dmp := diffmatchpatch.New()
	var changes []TextChange
	for _, idx := range indices {
		slide, _ := d.Slide(idx)
		data := byIndex[idx]
		for si, shape := range slide.Shapes {
			if !shape.HasText() {
				continue
			}
			before := shape.Text.PlainText()
			shape.Text.EachRun(func(r *deck.Run) {
				r.Text = Substitute(r.Text, data)
			})
			after := shape.Text.PlainText()
			if before == after {
				continue
			}
			changes = append(changes, TextChange{
				Slide:  idx,
				Shape:  si,
				Before: before,
				After:  after,
				Patch:  dmp.PatchToText(dmp.PatchMake(before, after)),
			})
		}
	}
	return changes, nil
}
