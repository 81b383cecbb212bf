package deck

import (
	"fmt"
	"path"

	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// Default slide size: 10 x 7.5 inches (4:3), matching the blank template
// of the underlying document format.
const (
	DefaultSlideWidth  int64 = 9144000
	DefaultSlideHeight int64 = 6858000
)

// Deck is one open presentation: an ordered slide list plus document-level
// state. Decks loaded from disk keep the raw bytes of every archive part so
// that features outside the model round-trip untouched.
type Deck struct {
	Slides      []*Slide
	SlideWidth  int64
	SlideHeight int64

	Grid         *LayoutGrid
	AppliedTheme string

	SourcePath string

	parts    map[string][]byte
	media    map[string][]byte
	mediaSeq int
}

// New returns an empty deck at the default slide size.
func New() *Deck {
	return &Deck{
		SlideWidth:  DefaultSlideWidth,
		SlideHeight: DefaultSlideHeight,
		parts:       make(map[string][]byte),
		media:       make(map[string][]byte),
	}
}

// SlideCount returns the number of slides.
func (d *Deck) SlideCount() int {
	return len(d.Slides)
}

// Slide returns the slide at idx, bounds-checked.
func (d *Deck) Slide(idx int) (*Slide, error) {
	if idx < 0 || idx >= len(d.Slides) {
		return nil, tools.NewIndexOutOfRange("slide index %d out of range [0, %d)", idx, len(d.Slides))
	}
	return d.Slides[idx], nil
}

// AddSlide appends a slide at the given layout kind and returns its index.
func (d *Deck) AddSlide(layout int) (int, error) {
	if err := ValidateLayout(layout); err != nil {
		return 0, err
	}
	d.Slides = append(d.Slides, &Slide{Layout: layout})
	return len(d.Slides) - 1, nil
}

// DeleteSlide removes the slide at idx; later slides shift down by one.
func (d *Deck) DeleteSlide(idx int) error {
	if _, err := d.Slide(idx); err != nil {
		return err
	}
	d.Slides = append(d.Slides[:idx], d.Slides[idx+1:]...)
	return nil
}

// AddMedia stores image bytes and returns the media key referenced by
// image shapes and backgrounds.
func (d *Deck) AddMedia(data []byte, ext string) string {
	if d.media == nil {
		d.media = make(map[string][]byte)
	}
	d.mediaSeq++
	key := fmt.Sprintf("media/image%d.%s", d.mediaSeq, ext)
	d.media[key] = data
	return key
}

// SetMedia stores media bytes under a key preserved from load, advancing
// the sequence past any image number the key carries so later AddMedia
// calls do not collide.
func (d *Deck) SetMedia(key string, data []byte) {
	if d.media == nil {
		d.media = make(map[string][]byte)
	}
	d.media[key] = data
	var n int
	if _, err := fmt.Sscanf(path.Base(key), "image%d", &n); err == nil && n > d.mediaSeq {
		d.mediaSeq = n
	}
}

// Media returns the stored bytes for a media key.
func (d *Deck) Media(key string) ([]byte, bool) {
	data, ok := d.media[key]
	return data, ok
}

// MediaKeys returns every stored media key.
func (d *Deck) MediaKeys() []string {
	keys := make([]string, 0, len(d.media))
	for k := range d.media {
		keys = append(keys, k)
	}
	return keys
}

// SetPart stores the raw bytes of an archive part preserved from load.
func (d *Deck) SetPart(name string, data []byte) {
	if d.parts == nil {
		d.parts = make(map[string][]byte)
	}
	d.parts[name] = data
}

// Part returns a preserved raw part.
func (d *Deck) Part(name string) ([]byte, bool) {
	data, ok := d.parts[name]
	return data, ok
}

// PartNames returns every preserved part name.
func (d *Deck) PartNames() []string {
	names := make([]string, 0, len(d.parts))
	for n := range d.parts {
		names = append(names, n)
	}
	return names
}

// Loaded reports whether the deck came from an existing file.
func (d *Deck) Loaded() bool {
	return len(d.parts) > 0
}

// Info summarizes the deck for get_presentation_info.
type Info struct {
	SlideCount   int      `json:"slide_count"`
	WidthInches  float64  `json:"slide_width"`
	HeightInches float64  `json:"slide_height"`
	Titles       []string `json:"slide_titles"`
	SourcePath   string   `json:"source_path,omitempty"`
}

// Info reports slide count, dimensions in inches, and per-slide titles.
// A slide's title is the text of its first text-bearing shape in the top
// fifth of the slide, else the first text shape, else empty.
func (d *Deck) Info() Info {
	info := Info{
		SlideCount:   len(d.Slides),
		WidthInches:  ToInches(d.SlideWidth),
		HeightInches: ToInches(d.SlideHeight),
		SourcePath:   d.SourcePath,
		Titles:       make([]string, len(d.Slides)),
	}
	titleBand := d.SlideHeight / 5
	for i, slide := range d.Slides {
		var fallback string
		for _, shape := range slide.Shapes {
			if !shape.HasText() {
				continue
			}
			text := shape.Text.PlainText()
			if text == "" {
				continue
			}
			if fallback == "" {
				fallback = text
			}
			if shape.Frame.Top < titleBand {
				info.Titles[i] = text
				break
			}
		}
		if info.Titles[i] == "" {
			info.Titles[i] = fallback
		}
	}
	return info
}

// ShapeText is one extracted text entry tagged with its shape type.
type ShapeText struct {
	ShapeType string `json:"shape_type"`
	Text      string `json:"text"`
}

// SlideText is the extracted text of one slide. Slide numbers are 1-based
// in extraction output.
type SlideText struct {
	SlideNumber int         `json:"slide_number"`
	TextContent []ShapeText `json:"text_content"`
}

// ExtractText walks every slide and returns visible text per shape.
// Shapes without text are skipped; tables contribute their tab-joined grid.
func (d *Deck) ExtractText() []SlideText {
	out := make([]SlideText, len(d.Slides))
	for i, slide := range d.Slides {
		entry := SlideText{SlideNumber: i + 1, TextContent: []ShapeText{}}
		for _, shape := range slide.Shapes {
			text := shape.PlainText()
			if text == "" {
				continue
			}
			kind := string(shape.Kind)
			if shape.Kind == KindPlaceholder {
				kind = string(KindText)
			}
			entry.TextContent = append(entry.TextContent, ShapeText{ShapeType: kind, Text: text})
		}
		out[i] = entry
	}
	return out
}
