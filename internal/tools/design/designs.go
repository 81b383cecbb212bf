package design

import (
	"fmt"
	"sort"
	"sync"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// Designs registers the palettes, master themes, and typography profiles
// created during a server run. Handles are server-wide, so a palette built
// once can restyle any open presentation.
type Designs struct {
	mu       sync.Mutex
	palSeq   int
	thmSeq   int
	typSeq   int
	palettes map[string]*deck.Palette
	themes   map[string]*deck.MasterTheme
	profiles map[string]*deck.TypographyProfile
}

func NewDesigns() *Designs {
	return &Designs{
		palettes: make(map[string]*deck.Palette),
		themes:   make(map[string]*deck.MasterTheme),
		profiles: make(map[string]*deck.TypographyProfile),
	}
}

// AddPalette assigns the next pal_N id and registers the palette.
func (d *Designs) AddPalette(p *deck.Palette) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.palSeq++
	p.ID = fmt.Sprintf("pal_%d", d.palSeq)
	d.palettes[p.ID] = p
	return p.ID
}

func (d *Designs) Palette(id string) (*deck.Palette, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.palettes[id]
	if !ok {
		return nil, tools.NewHandleNotFound("palette %q not found: create one with create_color_palette", id)
	}
	return p, nil
}

// AddTheme assigns the next thm_N id and registers the theme.
func (d *Designs) AddTheme(t *deck.MasterTheme) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.thmSeq++
	t.ID = fmt.Sprintf("thm_%d", d.thmSeq)
	d.themes[t.ID] = t
	return t.ID
}

func (d *Designs) Theme(id string) (*deck.MasterTheme, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.themes[id]
	if !ok {
		return nil, tools.NewHandleNotFound("theme %q not found: create one with create_master_slide_theme", id)
	}
	return t, nil
}

// Themes lists registered themes in creation order.
func (d *Designs) Themes() []*deck.MasterTheme {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*deck.MasterTheme, 0, len(d.themes))
	for _, t := range d.themes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return themeSeq(out[i].ID) < themeSeq(out[j].ID) })
	return out
}

func themeSeq(id string) int {
	var n int
	fmt.Sscanf(id, "thm_%d", &n)
	return n
}

// AddProfile assigns the next typ_N id and registers the profile.
func (d *Designs) AddProfile(p *deck.TypographyProfile) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.typSeq++
	p.ID = fmt.Sprintf("typ_%d", d.typSeq)
	d.profiles[p.ID] = p
	return p.ID
}

func (d *Designs) Profile(id string) (*deck.TypographyProfile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.profiles[id]
	if !ok {
		return nil, tools.NewHandleNotFound("typography profile %q not found: create one with create_typography_profile", id)
	}
	return p, nil
}
