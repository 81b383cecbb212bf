package deck

import (
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// placeholderSpec positions one placeholder of a layout template as
// fractions of the slide size.
type placeholderSpec struct {
	Name       string
	Key        string
	X, Y, W, H float64
	Size       float64
	Bold       bool
	Alignment  string
}

var layoutTemplates = map[string][]placeholderSpec{
	"title_slide": {
		{Name: "Title", Key: "title", X: 0.05, Y: 0.33, W: 0.90, H: 0.17, Size: 44, Bold: true, Alignment: AlignCenter},
		{Name: "Subtitle", Key: "subtitle", X: 0.05, Y: 0.53, W: 0.90, H: 0.13, Size: 24, Alignment: AlignCenter},
	},
	"title_content": {
		{Name: "Title", Key: "title", X: 0.05, Y: 0.05, W: 0.90, H: 0.13, Size: 36, Bold: true},
		{Name: "Content", Key: "content", X: 0.05, Y: 0.21, W: 0.90, H: 0.72, Size: 18},
	},
	"section_header": {
		{Name: "Title", Key: "title", X: 0.05, Y: 0.39, W: 0.90, H: 0.19, Size: 40, Bold: true, Alignment: AlignCenter},
	},
	"two_content": {
		{Name: "Title", Key: "title", X: 0.05, Y: 0.05, W: 0.90, H: 0.13, Size: 36, Bold: true},
		{Name: "Left Content", Key: "left_content", X: 0.05, Y: 0.21, W: 0.44, H: 0.72, Size: 16},
		{Name: "Right Content", Key: "right_content", X: 0.51, Y: 0.21, W: 0.44, H: 0.72, Size: 16},
	},
	"comparison": {
		{Name: "Title", Key: "title", X: 0.05, Y: 0.05, W: 0.90, H: 0.13, Size: 36, Bold: true},
		{Name: "Left Heading", Key: "left_title", X: 0.05, Y: 0.20, W: 0.44, H: 0.08, Size: 20, Bold: true, Alignment: AlignCenter},
		{Name: "Left Content", Key: "left_content", X: 0.05, Y: 0.29, W: 0.44, H: 0.64, Size: 16},
		{Name: "Right Heading", Key: "right_title", X: 0.51, Y: 0.20, W: 0.44, H: 0.08, Size: 20, Bold: true, Alignment: AlignCenter},
		{Name: "Right Content", Key: "right_content", X: 0.51, Y: 0.29, W: 0.44, H: 0.64, Size: 16},
	},
	"blank": {},
}

// LayoutTemplateNames lists the recognized template names.
func LayoutTemplateNames() []string {
	return []string{"title_slide", "title_content", "section_header", "two_content", "comparison", "blank"}
}

// ApplyLayoutTemplate clears the slide and adds the template's
// placeholders, filled from values by placeholder key. Returns the names
// of the placeholders created.
func (d *Deck) ApplyLayoutTemplate(slideIdx int, template string, values map[string]string) ([]string, error) {
	specs, ok := layoutTemplates[template]
	if !ok {
		return nil, tools.NewBadArgument("unknown layout template %q: expected one of %v", template, LayoutTemplateNames())
	}
	slide, err := d.Slide(slideIdx)
	if err != nil {
		return nil, err
	}

	slide.Shapes = nil

	created := make([]string, 0, len(specs))
	for _, spec := range specs {
		frame := Frame{
			Left:   int64(spec.X * float64(d.SlideWidth)),
			Top:    int64(spec.Y * float64(d.SlideHeight)),
			Width:  int64(spec.W * float64(d.SlideWidth)),
			Height: int64(spec.H * float64(d.SlideHeight)),
		}
		font := &Font{Size: spec.Size, Bold: spec.Bold}
		tf := NewTextFrame(values[spec.Key], font)
		if spec.Alignment != "" {
			for _, p := range tf.Paragraphs {
				p.Alignment = spec.Alignment
			}
		}
		slide.AddShape(&Shape{
			Kind:  KindPlaceholder,
			Name:  spec.Name,
			Frame: frame,
			Text:  tf,
		})
		created = append(created, spec.Name)
	}
	return created, nil
}
