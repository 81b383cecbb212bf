package deck

import (
	"strings"

	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// Font describes run-level formatting. Size is in points; a zero Size means
// "inherit" and is left untouched when serialized.
type Font struct {
	Name      string  `json:"name,omitempty"`
	Size      float64 `json:"size,omitempty"`
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	Underline bool    `json:"underline,omitempty"`
	Color     *RGB    `json:"color,omitempty"`
}

// Clone returns a deep copy of the font.
func (f *Font) Clone() *Font {
	if f == nil {
		return nil
	}
	out := *f
	if f.Color != nil {
		c := *f.Color
		out.Color = &c
	}
	return &out
}

// FontPatch is a partial font: only non-nil fields are applied. The tool
// surface decodes optional formatting arguments into patches so that
// formatting operations touch exactly the attributes the caller named.
type FontPatch struct {
	Name      *string  `json:"font_name,omitempty"`
	Size      *float64 `json:"font_size,omitempty"`
	Bold      *bool    `json:"bold,omitempty"`
	Italic    *bool    `json:"italic,omitempty"`
	Underline *bool    `json:"underline,omitempty"`
	Color     *RGB     `json:"-"`
}

// Empty reports whether the patch changes nothing.
func (p *FontPatch) Empty() bool {
	return p == nil || (p.Name == nil && p.Size == nil && p.Bold == nil &&
		p.Italic == nil && p.Underline == nil && p.Color == nil)
}

// Apply overlays the patch onto f.
func (p *FontPatch) Apply(f *Font) {
	if p == nil || f == nil {
		return
	}
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Size != nil {
		f.Size = *p.Size
	}
	if p.Bold != nil {
		f.Bold = *p.Bold
	}
	if p.Italic != nil {
		f.Italic = *p.Italic
	}
	if p.Underline != nil {
		f.Underline = *p.Underline
	}
	if p.Color != nil {
		c := *p.Color
		f.Color = &c
	}
}

// Paragraph alignment values recognized at the tool boundary.
const (
	AlignLeft    = "left"
	AlignCenter  = "center"
	AlignRight   = "right"
	AlignJustify = "justify"
)

// ParseAlignment validates an alignment string; empty means "unset".
func ParseAlignment(s string) (string, error) {
	switch s {
	case "", AlignLeft, AlignCenter, AlignRight, AlignJustify:
		return s, nil
	default:
		return "", tools.NewBadArgument("invalid alignment %q: expected left, center, right, or justify", s)
	}
}

// Run is a contiguous span of text with homogeneous formatting.
type Run struct {
	Text string `json:"text"`
	Font *Font  `json:"font,omitempty"`
}

func (r *Run) Clone() *Run {
	if r == nil {
		return nil
	}
	return &Run{Text: r.Text, Font: r.Font.Clone()}
}

// Paragraph is an ordered list of runs plus paragraph-level properties.
type Paragraph struct {
	Runs      []*Run `json:"runs"`
	Alignment string `json:"alignment,omitempty"`
	Bullet    bool   `json:"bullet,omitempty"`
	Level     int    `json:"level,omitempty"`
}

func (p *Paragraph) Clone() *Paragraph {
	if p == nil {
		return nil
	}
	out := &Paragraph{Alignment: p.Alignment, Bullet: p.Bullet, Level: p.Level}
	out.Runs = make([]*Run, len(p.Runs))
	for i, r := range p.Runs {
		out.Runs[i] = r.Clone()
	}
	return out
}

// Text joins the paragraph's runs.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// TextFrame owns the paragraphs of a text-bearing shape or table cell.
type TextFrame struct {
	Paragraphs []*Paragraph `json:"paragraphs"`
	WordWrap   bool         `json:"word_wrap,omitempty"`
}

// NewTextFrame builds a frame from plain text: lines become paragraphs,
// each with a single run carrying the given font.
func NewTextFrame(text string, font *Font) *TextFrame {
	tf := &TextFrame{WordWrap: true}
	for _, line := range strings.Split(text, "\n") {
		tf.Paragraphs = append(tf.Paragraphs, &Paragraph{
			Runs: []*Run{{Text: line, Font: font.Clone()}},
		})
	}
	return tf
}

func (tf *TextFrame) Clone() *TextFrame {
	if tf == nil {
		return nil
	}
	out := &TextFrame{WordWrap: tf.WordWrap}
	out.Paragraphs = make([]*Paragraph, len(tf.Paragraphs))
	for i, p := range tf.Paragraphs {
		out.Paragraphs[i] = p.Clone()
	}
	return out
}

// PlainText joins paragraphs with newlines.
func (tf *TextFrame) PlainText() string {
	if tf == nil {
		return ""
	}
	lines := make([]string, len(tf.Paragraphs))
	for i, p := range tf.Paragraphs {
		lines[i] = p.Text()
	}
	return strings.Join(lines, "\n")
}

// SetText replaces the frame content, keeping the formatting of the first
// existing run as the carried-over font.
func (tf *TextFrame) SetText(text string) {
	var font *Font
	if len(tf.Paragraphs) > 0 && len(tf.Paragraphs[0].Runs) > 0 {
		font = tf.Paragraphs[0].Runs[0].Font
	}
	replacement := NewTextFrame(text, font)
	tf.Paragraphs = replacement.Paragraphs
}

// ApplyPatch overlays a font patch on every run; alignment, when non-empty,
// is applied to every paragraph.
func (tf *TextFrame) ApplyPatch(patch *FontPatch, alignment string) {
	if tf == nil {
		return
	}
	for _, p := range tf.Paragraphs {
		if alignment != "" {
			p.Alignment = alignment
		}
		for _, r := range p.Runs {
			if r.Font == nil {
				r.Font = &Font{}
			}
			patch.Apply(r.Font)
		}
	}
}

// EachRun visits every run in the frame.
func (tf *TextFrame) EachRun(fn func(*Run)) {
	if tf == nil {
		return
	}
	for _, p := range tf.Paragraphs {
		for _, r := range p.Runs {
			fn(r)
		}
	}
}
