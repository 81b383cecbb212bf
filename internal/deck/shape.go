package deck

import "fmt"

// ShapeKind tags the shape variant. Operations pattern-match on the kind;
// exactly one payload pointer is set per shape.
type ShapeKind string

const (
	KindText        ShapeKind = "text"
	KindImage       ShapeKind = "image"
	KindAutoShape   ShapeKind = "auto_shape"
	KindChart       ShapeKind = "chart"
	KindTable       ShapeKind = "table"
	KindPlaceholder ShapeKind = "placeholder"
)

// Frame is the shape's bounding box in EMU.
type Frame struct {
	Left   int64 `json:"left"`
	Top    int64 `json:"top"`
	Width  int64 `json:"width"`
	Height int64 `json:"height"`
}

// FrameFromInches builds a frame from inch coordinates.
func FrameFromInches(left, top, width, height float64) Frame {
	return Frame{
		Left:   FromInches(left),
		Top:    FromInches(top),
		Width:  FromInches(width),
		Height: FromInches(height),
	}
}

// Inches returns the frame as (left, top, width, height) in inches.
func (f Frame) Inches() (float64, float64, float64, float64) {
	return ToInches(f.Left), ToInches(f.Top), ToInches(f.Width), ToInches(f.Height)
}

// ImageRef points at a media part stored on the deck.
type ImageRef struct {
	Media   string `json:"media"`
	Source  string `json:"source,omitempty"`
	AltText string `json:"alt_text,omitempty"`
}

// AutoShape is a preset-geometry shape with optional fill and outline.
type AutoShape struct {
	Preset    string  `json:"preset"`
	Fill      *RGB    `json:"fill,omitempty"`
	LineColor *RGB    `json:"line_color,omitempty"`
	LineWidth float64 `json:"line_width,omitempty"`
}

// Fill is a slide or cell background: a solid color or a media image.
type Fill struct {
	Color *RGB   `json:"color,omitempty"`
	Image string `json:"image,omitempty"`
}

// Shape is a positioned visual element on a slide.
type Shape struct {
	Kind  ShapeKind `json:"kind"`
	Name  string    `json:"name,omitempty"`
	Frame Frame     `json:"frame"`

	Text  *TextFrame `json:"text,omitempty"`
	Image *ImageRef  `json:"image,omitempty"`
	Auto  *AutoShape `json:"auto,omitempty"`
	Chart *Chart     `json:"chart,omitempty"`
	Table *Table     `json:"table,omitempty"`
}

// HasText reports whether the shape carries a text frame.
func (s *Shape) HasText() bool {
	return s.Text != nil
}

// PlainText returns the shape's visible text. Tables join cells row by row;
// charts contribute their title.
func (s *Shape) PlainText() string {
	switch s.Kind {
	case KindTable:
		if s.Table != nil {
			return s.Table.PlainText()
		}
	case KindChart:
		if s.Chart != nil {
			return s.Chart.Title
		}
	default:
		if s.Text != nil {
			return s.Text.PlainText()
		}
	}
	return ""
}

func (s *Shape) String() string {
	l, t, w, h := s.Frame.Inches()
	return fmt.Sprintf("%s %q at (%.2f, %.2f) size (%.2f x %.2f)", s.Kind, s.Name, l, t, w, h)
}
