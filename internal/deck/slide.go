package deck

import (
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// Slide is an ordered sequence of shapes at a layout kind. Shape indices
// are contiguous and zero-based; deletion shifts later shapes down.
type Slide struct {
	Layout     int      `json:"layout"`
	Shapes     []*Shape `json:"shapes"`
	Background *Fill    `json:"background,omitempty"`
}

// Shape returns the shape at idx, bounds-checked.
func (s *Slide) Shape(idx int) (*Shape, error) {
	if idx < 0 || idx >= len(s.Shapes) {
		return nil, tools.NewIndexOutOfRange("shape index %d out of range [0, %d)", idx, len(s.Shapes))
	}
	return s.Shapes[idx], nil
}

// AddShape appends the shape and returns its index.
func (s *Slide) AddShape(shape *Shape) int {
	s.Shapes = append(s.Shapes, shape)
	return len(s.Shapes) - 1
}

// DeleteShape removes the shape at idx; later shapes shift down by one.
func (s *Slide) DeleteShape(idx int) error {
	if _, err := s.Shape(idx); err != nil {
		return err
	}
	s.Shapes = append(s.Shapes[:idx], s.Shapes[idx+1:]...)
	return nil
}

// AddTextBox appends a text box and returns its index.
func (s *Slide) AddTextBox(frame Frame, text string, font *Font, alignment string) int {
	tf := NewTextFrame(text, font)
	if alignment != "" {
		for _, p := range tf.Paragraphs {
			p.Alignment = alignment
		}
	}
	return s.AddShape(&Shape{
		Kind:  KindText,
		Name:  "TextBox",
		Frame: frame,
		Text:  tf,
	})
}

// AddImage appends an image shape referencing a stored media part.
func (s *Slide) AddImage(frame Frame, media, source, altText string) int {
	return s.AddShape(&Shape{
		Kind:  KindImage,
		Name:  "Picture",
		Frame: frame,
		Image: &ImageRef{Media: media, Source: source, AltText: altText},
	})
}

// AddAutoShape appends a preset-geometry shape, optionally with text.
func (s *Slide) AddAutoShape(frame Frame, preset string, fill, lineColor *RGB, text string, font *Font) int {
	shape := &Shape{
		Kind:  KindAutoShape,
		Name:  preset,
		Frame: frame,
		Auto:  &AutoShape{Preset: preset, Fill: fill, LineColor: lineColor},
	}
	if text != "" {
		shape.Text = NewTextFrame(text, font)
		for _, p := range shape.Text.Paragraphs {
			p.Alignment = AlignCenter
		}
	}
	return s.AddShape(shape)
}

// AddChart appends a chart shape.
func (s *Slide) AddChart(frame Frame, chart *Chart) int {
	return s.AddShape(&Shape{
		Kind:  KindChart,
		Name:  "Chart",
		Frame: frame,
		Chart: chart,
	})
}

// AddTable appends a rows x cols table. With headerRow the first row gets
// the default header styling.
func (s *Slide) AddTable(rows, cols int, frame Frame, headerRow bool) (int, error) {
	table, err := NewTable(rows, cols)
	if err != nil {
		return 0, err
	}
	table.HeaderRow = headerRow
	if headerRow {
		styleHeaderRow(table)
	}
	return s.AddShape(&Shape{
		Kind:  KindTable,
		Name:  "Table",
		Frame: frame,
		Table: table,
	}), nil
}

// TableAt returns the table payload of the shape at idx, failing with a
// shape-mismatch error when the shape is not a table.
func (s *Slide) TableAt(idx int) (*Table, error) {
	shape, err := s.Shape(idx)
	if err != nil {
		return nil, err
	}
	if shape.Kind != KindTable || shape.Table == nil {
		return nil, tools.NewShapeMismatch("shape %d is a %s, not a table", idx, shape.Kind)
	}
	return shape.Table, nil
}

// ModifyTableStructure applies a structural operation to the table shape at
// idx. A replacement table is fully built before the old shape is removed;
// the new table shape is appended, so its index is the new shape count
// minus one. That index is returned; any previously held shape indices on
// this slide must be re-queried.
func (s *Slide) ModifyTableStructure(idx int, operation string, position *int, count int) (int, error) {
	shape, err := s.Shape(idx)
	if err != nil {
		return 0, err
	}
	if shape.Kind != KindTable || shape.Table == nil {
		return 0, tools.NewShapeMismatch("shape %d is a %s, not a table", idx, shape.Kind)
	}

	rebuilt, err := shape.Table.Resize(operation, position, count)
	if err != nil {
		return 0, err
	}

	replacement := &Shape{
		Kind:  KindTable,
		Name:  shape.Name,
		Frame: shape.Frame,
		Table: rebuilt,
	}

	s.Shapes = append(s.Shapes[:idx], s.Shapes[idx+1:]...)
	return s.AddShape(replacement), nil
}

// SetBackgroundColor fills the slide background with a solid color.
func (s *Slide) SetBackgroundColor(color RGB) {
	s.Background = &Fill{Color: &color}
}

// SetBackgroundImage fills the slide background with a stored media image.
func (s *Slide) SetBackgroundImage(media string) {
	s.Background = &Fill{Image: media}
}

// ShapeDescriptor summarizes a shape for content listings.
type ShapeDescriptor struct {
	Index     int     `json:"index"`
	Kind      string  `json:"shape_type"`
	Name      string  `json:"name,omitempty"`
	Left      float64 `json:"left"`
	Top       float64 `json:"top"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	HasText   bool    `json:"has_text"`
	Text      string  `json:"text,omitempty"`
	Rows      int     `json:"rows,omitempty"`
	Columns   int     `json:"columns,omitempty"`
	ChartType string  `json:"chart_type,omitempty"`
	Source    string  `json:"source,omitempty"`
	AltText   string  `json:"alt_text,omitempty"`
}

// Describe lists every shape on the slide with its geometry and payload
// summary.
func (s *Slide) Describe() []ShapeDescriptor {
	out := make([]ShapeDescriptor, len(s.Shapes))
	for i, shape := range s.Shapes {
		l, t, w, h := shape.Frame.Inches()
		d := ShapeDescriptor{
			Index:   i,
			Kind:    string(shape.Kind),
			Name:    shape.Name,
			Left:    l,
			Top:     t,
			Width:   w,
			Height:  h,
			HasText: shape.HasText(),
			Text:    shape.PlainText(),
		}
		switch shape.Kind {
		case KindTable:
			if shape.Table != nil {
				d.Rows = shape.Table.RowCount()
				d.Columns = shape.Table.ColCount()
			}
		case KindChart:
			if shape.Chart != nil {
				d.ChartType = string(shape.Chart.Kind)
			}
		case KindImage:
			if shape.Image != nil {
				d.Source = shape.Image.Source
				d.AltText = shape.Image.AltText
			}
		}
		out[i] = d
	}
	return out
}
