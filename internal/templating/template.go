// Package templating implements declarative slide templates: registration,
// variable substitution against nested data, conditional slide inclusion,
// and deck construction from a template plus a data set.
package templating

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// Element types accepted in template slides.
var recognizedElementTypes = map[string]bool{
	"text":  true,
	"image": true,
	"chart": true,
	"table": true,
}

// Predicate operators accepted in slide conditions.
var recognizedOperators = map[string]bool{
	"equals":       true,
	"not_equals":   true,
	"greater_than": true,
	"less_than":    true,
	"contains":     true,
	"exists":       true,
}

// FontSpec is the declarative font of a text element.
type FontSpec struct {
	Name   string  `json:"name,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Bold   bool    `json:"bold,omitempty"`
	Italic bool    `json:"italic,omitempty"`
	Color  string  `json:"color,omitempty"`
}

// SeriesSpec is one chart series. The name may carry placeholders.
type SeriesSpec struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// ChartSpec is the declarative form of a chart element. Categories and
// series names may carry placeholders.
type ChartSpec struct {
	ChartType  string       `json:"chart_type"`
	Title      string       `json:"title,omitempty"`
	Categories []string     `json:"categories"`
	Series     []SeriesSpec `json:"series"`
}

// TableSpec is the declarative form of a table element. With Data or
// Headers present the table is filled cell by cell; otherwise an empty
// Rows x Cols grid is created.
type TableSpec struct {
	Rows      int        `json:"rows,omitempty"`
	Cols      int        `json:"cols,omitempty"`
	Headers   []string   `json:"headers,omitempty"`
	Data      [][]string `json:"data,omitempty"`
	HeaderRow bool       `json:"header_row,omitempty"`
}

// Element is one shape description inside a template slide. Position and
// size are in inches. Exactly the fields for its Type are consulted.
type Element struct {
	Type   string  `json:"type"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Text      string    `json:"text,omitempty"`
	Font      *FontSpec `json:"font,omitempty"`
	Alignment string    `json:"alignment,omitempty"`

	Path    string `json:"path,omitempty"`
	AltText string `json:"alt_text,omitempty"`

	Chart *ChartSpec `json:"chart,omitempty"`
	Table *TableSpec `json:"table,omitempty"`
}

// Predicate gates a template slide on a data field.
type Predicate struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value,omitempty"`
}

// TemplateSlide is one slide description: a layout kind, its elements, and
// an optional inclusion condition.
type TemplateSlide struct {
	Layout    int        `json:"layout"`
	Condition *Predicate `json:"condition,omitempty"`
	Elements  []Element  `json:"elements"`
}

// Template is a named, versioned, ordered list of template slides.
type Template struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Version     int             `json:"version,omitempty"`
	Slides      []TemplateSlide `json:"slides"`
	CreatedAt   time.Time       `json:"created_at,omitempty"`
}

// Validate checks the template description the way create_template requires:
// a name, at least one slide, elements on every slide, and recognized
// element types and condition operators throughout.
func (t *Template) Validate() error {
	if t.Name == "" {
		return tools.NewBadArgument("template requires a name")
	}
	if len(t.Slides) == 0 {
		return tools.NewBadArgument("template %q requires at least one slide", t.Name)
	}
	for si, slide := range t.Slides {
		if err := deck.ValidateLayout(slide.Layout); err != nil {
			return tools.NewBadArgument("template %q slide %d: %v", t.Name, si, err)
		}
		if len(slide.Elements) == 0 {
			return tools.NewBadArgument("template %q slide %d has no elements", t.Name, si)
		}
		if c := slide.Condition; c != nil {
			if c.Field == "" {
				return tools.NewBadArgument("template %q slide %d: condition requires a field", t.Name, si)
			}
			if !recognizedOperators[c.Operator] {
				return tools.NewBadArgument("template %q slide %d: unknown operator %q", t.Name, si, c.Operator)
			}
		}
		for ei, el := range slide.Elements {
			if err := validateElement(&el); err != nil {
				return tools.NewBadArgument("template %q slide %d element %d: %v", t.Name, si, ei, err)
			}
		}
	}
	return nil
}

func validateElement(el *Element) error {
	if !recognizedElementTypes[el.Type] {
		return fmt.Errorf("unrecognized element type %q", el.Type)
	}
	switch el.Type {
	case "image":
		if el.Path == "" {
			return fmt.Errorf("image element requires a path")
		}
	case "chart":
		if el.Chart == nil {
			return fmt.Errorf("chart element requires a chart description")
		}
		if _, err := deck.ParseChartKind(el.Chart.ChartType); err != nil {
			return err
		}
		if len(el.Chart.Series) == 0 {
			return fmt.Errorf("chart element requires at least one series")
		}
	case "table":
		if el.Table == nil {
			return fmt.Errorf("table element requires a table description")
		}
		if len(el.Table.Data) == 0 && len(el.Table.Headers) == 0 &&
			(el.Table.Rows < 1 || el.Table.Cols < 1) {
			return fmt.Errorf("table element requires data, headers, or rows and cols")
		}
	}
	if el.Alignment != "" {
		if _, err := deck.ParseAlignment(el.Alignment); err != nil {
			return err
		}
	}
	if el.Font != nil && el.Font.Color != "" {
		if _, err := deck.ParseColor(el.Font.Color); err != nil {
			return err
		}
	}
	return nil
}

// Summary is the list_templates view of one stored template.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SlideCount  int    `json:"slide_count"`
	UseCount    int    `json:"use_count"`
	Source      string `json:"source,omitempty"`
}

// Store holds registered templates keyed by id, with a per-template usage
// counter. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	seq       int
	templates map[string]*Template
	usage     map[string]int
	sources   map[string]string
}

func NewStore() *Store {
	return &Store{
		templates: make(map[string]*Template),
		usage:     make(map[string]int),
		sources:   make(map[string]string),
	}
}

// Create validates the template, assigns the next tpl_N id, and stores it.
func (s *Store) Create(t *Template) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t.ID = fmt.Sprintf("tpl_%d", s.seq)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	s.templates[t.ID] = t
	return t.ID, nil
}

// Get returns the template with the given id.
func (s *Store) Get(id string) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[id]
	if !ok {
		return nil, tools.NewHandleNotFound("template not found: %s", id)
	}
	return t, nil
}

// RecordUse bumps the usage counter for a template.
func (s *Store) RecordUse(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage[id]++
}

// Upsert validates and stores a template loaded from a file under a
// tpl_file_<stem> id, so reloads of the same path replace in place.
func (s *Store) Upsert(t *Template, source string) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.idForSource(source)
	if !ok {
		id = fileID(source)
		for n := 2; ; n++ {
			if _, taken := s.templates[id]; !taken {
				break
			}
			id = fmt.Sprintf("%s_%d", fileID(source), n)
		}
		s.sources[id] = source
	}
	t.ID = id
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	s.templates[id] = t
	return id, nil
}

func fileID(source string) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return "tpl_file_" + stem
}

// Remove drops the template loaded from the given source path.
func (s *Store) Remove(source string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.idForSource(source)
	if !ok {
		return false
	}
	delete(s.templates, id)
	delete(s.usage, id)
	delete(s.sources, id)
	return true
}

func (s *Store) idForSource(source string) (string, bool) {
	for id, src := range s.sources {
		if src == source {
			return id, true
		}
	}
	return "", false
}

// List returns summaries: session templates in creation order, then file
// templates by id.
func (s *Store) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.templates))
	for id, t := range s.templates {
		out = append(out, Summary{
			ID:          id,
			Name:        t.Name,
			Description: t.Description,
			SlideCount:  len(t.Slides),
			UseCount:    s.usage[id],
			Source:      s.sources[id],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		ai, an := idRank(out[i].ID)
		bi, bn := idRank(out[j].ID)
		if ai != bi {
			return ai < bi
		}
		if ai == 0 && an != bn {
			return an < bn
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// idRank splits ids into session (tpl_N) and file (tpl_file_*) classes.
func idRank(id string) (class, seq int) {
	if strings.HasPrefix(id, "tpl_file_") {
		return 1, 0
	}
	fmt.Sscanf(id, "tpl_%d", &seq)
	return 0, seq
}
