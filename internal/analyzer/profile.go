package analyzer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

const profileKind = "slidesmith/style-profile"

// FontDescriptor is the concrete font of one text role in a profile.
type FontDescriptor struct {
	Name string  `json:"name"`
	Size float64 `json:"size"`
	Bold bool    `json:"bold,omitempty"`
}

// PaletteColor tags a color with its intended use.
type PaletteColor struct {
	Color   string `json:"color"`
	Context string `json:"context"`
}

type LayoutPatterns struct {
	AvgLeftMargin float64   `json:"avg_left_margin"`
	AvgTopMargin  float64   `json:"avg_top_margin"`
	CommonWidths  []float64 `json:"common_widths,omitempty"`
	CommonHeights []float64 `json:"common_heights,omitempty"`
}

// StyleProfile is a reusable description of a deck's visual style. Profiles
// are built from an Analysis and can be persisted and applied to new decks.
type StyleProfile struct {
	Kind       string                    `json:"kind"`
	Version    int                       `json:"version"`
	Name       string                    `json:"name"`
	Hierarchy  map[string]FontDescriptor `json:"text_hierarchy"`
	Palette    []PaletteColor            `json:"color_palette"`
	Layout     LayoutPatterns            `json:"layout_patterns"`
	SourceFile string                    `json:"source_file,omitempty"`
	Confidence float64                   `json:"confidence"`
	CreatedAt  time.Time                 `json:"created_at"`
}

const (
	defaultBodySize   = 18.0
	defaultFontName   = "Calibri"
	minCaptionSize    = 8.0
	titleSizeStep     = 6.0
	subtitleSizeStep  = 2.0
	captionSizeStep   = 4.0
	confidenceShapeAt = 10.0
)

// BuildProfile derives a style profile from an analysis. Role sizes missing
// from the source deck fall back to offsets from the body size, with the
// title defaulting to body plus six points.
func BuildProfile(a *Analysis, name string) *StyleProfile {
	bodySize := roleSize(a, "body", defaultBodySize)
	titleSize := roleSize(a, "title", bodySize+titleSizeStep)
	subtitleSize := roleSize(a, "subtitle", bodySize+subtitleSizeStep)
	captionSize := bodySize - captionSizeStep
	if captionSize < minCaptionSize {
		captionSize = minCaptionSize
	}

	primary := a.Fonts.PrimaryFont
	if primary == "" {
		primary = defaultFontName
	}

	p := &StyleProfile{
		Kind:    profileKind,
		Version: 1,
		Name:    name,
		Hierarchy: map[string]FontDescriptor{
			"title":    {Name: roleFont(a, "title", primary), Size: titleSize, Bold: true},
			"subtitle": {Name: roleFont(a, "subtitle", primary), Size: subtitleSize},
			"body":     {Name: roleFont(a, "body", primary), Size: bodySize},
			"bullet":   {Name: roleFont(a, "body", primary), Size: bodySize},
			"caption":  {Name: roleFont(a, "body", primary), Size: captionSize},
		},
		Palette: paletteFromAnalysis(a),
		Layout: LayoutPatterns{
			AvgLeftMargin: a.Layout.MeanLeft,
			AvgTopMargin:  a.Layout.MeanTop,
		},
		SourceFile: a.SourcePath,
		Confidence: confidence(a),
		CreatedAt:  time.Now().UTC(),
	}
	for _, s := range a.Layout.CommonSizes {
		p.Layout.CommonWidths = append(p.Layout.CommonWidths, s.Width)
		p.Layout.CommonHeights = append(p.Layout.CommonHeights, s.Height)
	}
	return p
}

func roleSize(a *Analysis, role string, fallback float64) float64 {
	if rs, ok := a.Hierarchy[role]; ok && len(rs.Sizes) > 0 {
		return rs.Sizes[0]
	}
	return fallback
}

func roleFont(a *Analysis, role, fallback string) string {
	if rs, ok := a.Hierarchy[role]; ok && rs.Font != "" {
		return rs.Font
	}
	return fallback
}

// paletteFromAnalysis keeps text colors as-is and promotes fill colors to
// semantic tags: the dominant fill becomes the background, the rest accents.
func paletteFromAnalysis(a *Analysis) []PaletteColor {
	out := make([]PaletteColor, 0, len(a.Colors.Palette))
	sawFill := false
	for _, e := range a.Colors.Palette {
		ctx := e.Context
		if ctx == "fill" {
			if !sawFill {
				ctx = "background"
				sawFill = true
			} else {
				ctx = "accent"
			}
		}
		out = append(out, PaletteColor{Color: e.Color, Context: ctx})
	}
	return out
}

// confidence blends style consistency with how much text the analysis saw.
func confidence(a *Analysis) float64 {
	coverage := float64(a.TextShapeCount) / confidenceShapeAt
	if coverage > 1 {
		coverage = 1
	}
	return roundTo(clamp01(0.5*a.ConsistencyScore+0.5*coverage), 3)
}

// SaveProfile writes the profile as indented JSON. The directory must exist.
func SaveProfile(p *StyleProfile, path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return tools.NewInternal(err, "encode style profile")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return tools.NewIOError(err, "create profile directory %s", dir)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return tools.NewIOError(err, "write style profile %s", path)
	}
	return nil
}

// LoadProfile reads a profile saved by SaveProfile and validates its kind.
func LoadProfile(path string) (*StyleProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, tools.NewIOError(err, "read style profile %s", path)
	}
	var p StyleProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, tools.NewBadArgument("not a style profile: %s", path)
	}
	if p.Kind != profileKind {
		return nil, tools.NewBadArgument("not a style profile: %s", path)
	}
	if p.Hierarchy == nil {
		p.Hierarchy = make(map[string]FontDescriptor)
	}
	return &p, nil
}
