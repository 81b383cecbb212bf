// Package args holds the request fragments shared across tool families:
// positions in inches, optional font descriptor blocks, and color values.
package args

import (
	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// Position is the (left, top, width, height) block, in inches.
type Position struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Validate rejects degenerate sizes.
func (p Position) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return tools.NewBadArgument("width and height must be > 0, got %g x %g", p.Width, p.Height)
	}
	return nil
}

// Frame converts the position to deck geometry.
func (p Position) Frame() deck.Frame {
	return deck.FrameFromInches(p.Left, p.Top, p.Width, p.Height)
}

// Font is the optional font descriptor accepted by text-styling tools.
// Omitted fields are left untouched by patch-style operations. Color takes
// "#RRGGBB", "RRGGBB", or [r, g, b].
type Font struct {
	FontName  string      `json:"font_name,omitempty"`
	FontSize  float64     `json:"font_size,omitempty"`
	Bold      *bool       `json:"bold,omitempty"`
	Italic    *bool       `json:"italic,omitempty"`
	Underline *bool       `json:"underline,omitempty"`
	Color     interface{} `json:"color,omitempty"`
}

// Empty reports whether no field was provided.
func (f *Font) Empty() bool {
	return f == nil || (f.FontName == "" && f.FontSize == 0 && f.Bold == nil &&
		f.Italic == nil && f.Underline == nil && f.Color == nil)
}

// Patch converts the descriptor to a partial font.
func (f *Font) Patch() (*deck.FontPatch, error) {
	if f.Empty() {
		return nil, nil
	}
	p := &deck.FontPatch{Bold: f.Bold, Italic: f.Italic, Underline: f.Underline}
	if f.FontName != "" {
		name := f.FontName
		p.Name = &name
	}
	if f.FontSize != 0 {
		if f.FontSize < 0 {
			return nil, tools.NewBadArgument("font_size must be > 0, got %g", f.FontSize)
		}
		size := f.FontSize
		p.Size = &size
	}
	if f.Color != nil {
		c, err := deck.ParseColor(f.Color)
		if err != nil {
			return nil, err
		}
		p.Color = c
	}
	return p, nil
}

// Full converts the descriptor to a concrete font for newly created text.
func (f *Font) Full() (*deck.Font, error) {
	if f.Empty() {
		return nil, nil
	}
	out := &deck.Font{Name: f.FontName}
	if f.FontSize != 0 {
		if f.FontSize < 0 {
			return nil, tools.NewBadArgument("font_size must be > 0, got %g", f.FontSize)
		}
		out.Size = f.FontSize
	}
	if f.Bold != nil {
		out.Bold = *f.Bold
	}
	if f.Italic != nil {
		out.Italic = *f.Italic
	}
	if f.Underline != nil {
		out.Underline = *f.Underline
	}
	if f.Color != nil {
		c, err := deck.ParseColor(f.Color)
		if err != nil {
			return nil, err
		}
		out.Color = c
	}
	return out, nil
}
