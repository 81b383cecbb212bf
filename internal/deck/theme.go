package deck

import (
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// Palette roles, in application order.
var PaletteRoles = []string{"primary", "secondary", "accent", "background", "text"}

// Palette is a named set of role colors.
type Palette struct {
	ID     string         `json:"palette_id"`
	Name   string         `json:"name"`
	Colors map[string]RGB `json:"colors"`
}

// predefinedPalettes are the built-in schemes accepted by
// create_color_palette.
var predefinedPalettes = map[string]map[string]RGB{
	"corporate_blue": {
		"primary":    MustColor("#1F4E79"),
		"secondary":  MustColor("#2E75B6"),
		"accent":     MustColor("#5B9BD5"),
		"background": MustColor("#FFFFFF"),
		"text":       MustColor("#262626"),
	},
	"modern_dark": {
		"primary":    MustColor("#E7E6E6"),
		"secondary":  MustColor("#A6A6A6"),
		"accent":     MustColor("#FFC000"),
		"background": MustColor("#1B1B1B"),
		"text":       MustColor("#F2F2F2"),
	},
	"warm_earth": {
		"primary":    MustColor("#7F5F3F"),
		"secondary":  MustColor("#B08E62"),
		"accent":     MustColor("#C55A11"),
		"background": MustColor("#FBF3E4"),
		"text":       MustColor("#3B2F2F"),
	},
	"minimal_gray": {
		"primary":    MustColor("#404040"),
		"secondary":  MustColor("#7F7F7F"),
		"accent":     MustColor("#0070C0"),
		"background": MustColor("#FFFFFF"),
		"text":       MustColor("#333333"),
	},
	"vibrant": {
		"primary":    MustColor("#7030A0"),
		"secondary":  MustColor("#00B0F0"),
		"accent":     MustColor("#FF3399"),
		"background": MustColor("#FFFFFF"),
		"text":       MustColor("#1A1A1A"),
	},
}

// PredefinedPaletteNames lists the built-in scheme names.
func PredefinedPaletteNames() []string {
	return []string{"corporate_blue", "modern_dark", "warm_earth", "minimal_gray", "vibrant"}
}

// PredefinedPalette returns a copy of a built-in scheme's colors.
func PredefinedPalette(name string) (map[string]RGB, bool) {
	src, ok := predefinedPalettes[name]
	if !ok {
		return nil, false
	}
	out := make(map[string]RGB, len(src))
	for role, c := range src {
		out[role] = c
	}
	return out, true
}

// Palette application scopes.
const (
	ApplyAll         = "all"
	ApplyText        = "text"
	ApplyShapes      = "shapes"
	ApplyBackgrounds = "backgrounds"
)

// ApplyPalette recolors the deck from the palette: title-band text takes
// the primary color, other text the text color, auto-shape fills the
// accent, and slide backgrounds the background color. The scope restricts
// which of those groups are touched.
func (d *Deck) ApplyPalette(p *Palette, scope string) (int, error) {
	switch scope {
	case "", ApplyAll, ApplyText, ApplyShapes, ApplyBackgrounds:
	default:
		return 0, tools.NewBadArgument("invalid apply_to %q: expected all, text, shapes, or backgrounds", scope)
	}
	if scope == "" {
		scope = ApplyAll
	}

	primary, hasPrimary := p.Colors["primary"]
	textColor, hasText := p.Colors["text"]
	accent, hasAccent := p.Colors["accent"]
	background, hasBackground := p.Colors["background"]

	touched := 0
	titleBand := d.SlideHeight / 5
	for _, slide := range d.Slides {
		if (scope == ApplyAll || scope == ApplyBackgrounds) && hasBackground {
			bg := background
			slide.Background = &Fill{Color: &bg}
			touched++
		}
		for _, shape := range slide.Shapes {
			if (scope == ApplyAll || scope == ApplyShapes) && shape.Kind == KindAutoShape && shape.Auto != nil && hasAccent {
				a := accent
				shape.Auto.Fill = &a
				touched++
			}
			if (scope == ApplyAll || scope == ApplyText) && shape.HasText() {
				color := textColor
				has := hasText
				if shape.Frame.Top < titleBand {
					color = primary
					has = hasPrimary
				}
				if has {
					c := color
					shape.Text.EachRun(func(r *Run) {
						if r.Font == nil {
							r.Font = &Font{}
						}
						cc := c
						r.Font.Color = &cc
					})
					touched++
				}
			}
		}
	}
	return touched, nil
}

// MasterTheme is a reusable deck-wide design registered by
// create_master_slide_theme.
type MasterTheme struct {
	ID         string `json:"theme_id"`
	Name       string `json:"name"`
	Background *RGB   `json:"background,omitempty"`
	TitleFont  Font   `json:"title_font"`
	BodyFont   Font   `json:"body_font"`
	Accents    []RGB  `json:"accents,omitempty"`
}

// ApplyTheme sets every slide's background and retints title and body text
// from the theme fonts. Returns the number of slides touched.
func (d *Deck) ApplyTheme(theme *MasterTheme) int {
	titleBand := d.SlideHeight / 5
	for _, slide := range d.Slides {
		if theme.Background != nil {
			bg := *theme.Background
			slide.Background = &Fill{Color: &bg}
		}
		for _, shape := range slide.Shapes {
			if !shape.HasText() {
				continue
			}
			role := theme.BodyFont
			if shape.Frame.Top < titleBand {
				role = theme.TitleFont
			}
			shape.Text.EachRun(func(r *Run) {
				if r.Font == nil {
					r.Font = &Font{}
				}
				if role.Name != "" {
					r.Font.Name = role.Name
				}
				if role.Color != nil {
					c := *role.Color
					r.Font.Color = &c
				}
			})
		}
	}
	d.AppliedTheme = theme.ID
	return len(d.Slides)
}

// Typography roles recognized by typography profiles.
var TypographyRoles = []string{"title", "subtitle", "heading", "body", "caption"}

// TypographyProfile maps logical roles to font descriptors.
type TypographyProfile struct {
	ID    string          `json:"profile_id"`
	Name  string          `json:"name"`
	Roles map[string]Font `json:"roles"`
}

// RoleFont returns the descriptor for a role.
func (p *TypographyProfile) RoleFont(role string) (Font, error) {
	f, ok := p.Roles[role]
	if !ok {
		return Font{}, tools.NewBadArgument("typography profile %q has no role %q", p.Name, role)
	}
	return f, nil
}

// ApplyTypography applies a role's font descriptor to every run of the
// shape.
func (d *Deck) ApplyTypography(slideIdx, shapeIdx int, font Font) error {
	slide, err := d.Slide(slideIdx)
	if err != nil {
		return err
	}
	shape, err := slide.Shape(shapeIdx)
	if err != nil {
		return err
	}
	if !shape.HasText() {
		return tools.NewShapeMismatch("shape %d is a %s and has no text to style", shapeIdx, shape.Kind)
	}
	shape.Text.EachRun(func(r *Run) {
		font := font
		if r.Font == nil {
			r.Font = &Font{}
		}
		if font.Name != "" {
			r.Font.Name = font.Name
		}
		if font.Size > 0 {
			r.Font.Size = font.Size
		}
		r.Font.Bold = font.Bold
		r.Font.Italic = font.Italic
		if font.Color != nil {
			c := *font.Color
			r.Font.Color = &c
		}
	})
	return nil
}
