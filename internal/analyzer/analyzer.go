// Package analyzer extracts font, color, layout, and hierarchy statistics
// from a deck and assembles reusable style profiles from them.
package analyzer

import (
	"fmt"
	"math"
	"sort"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
)

// Result limits applied to frequency rankings.
const (
	maxCommonSizes   = 5
	maxPaletteColors = 10
	maxRoleSizes     = 3
)

type FontStats struct {
	PrimaryFont string         `json:"primary_font"`
	CommonSizes []float64      `json:"common_sizes"`
	UniqueFonts int            `json:"unique_fonts"`
	UniqueSizes int            `json:"unique_sizes"`
	Counts      map[string]int `json:"font_counts"`
	BoldRuns    int            `json:"bold_runs"`
	ItalicRuns  int            `json:"italic_runs"`
}

type ColorEntry struct {
	Color   string `json:"color"`
	Context string `json:"context"`
	Count   int    `json:"count"`
}

type ColorStats struct {
	Palette      []ColorEntry `json:"palette"`
	UniqueColors int          `json:"unique_colors"`
}

type Position struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

type SizeEntry struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Count  int     `json:"count"`
}

type LayoutStats struct {
	MeanLeft        float64     `json:"mean_left"`
	MeanTop         float64     `json:"mean_top"`
	CommonPositions []Position  `json:"common_positions"`
	CommonSizes     []SizeEntry `json:"common_sizes"`
}

// RoleStyle is the dominant font and most frequent sizes of one text role.
type RoleStyle struct {
	Font  string    `json:"font"`
	Sizes []float64 `json:"sizes"`
}

type ThemeStats struct {
	SlideWidth  float64 `json:"slide_width"`
	SlideHeight float64 `json:"slide_height"`
	AspectRatio float64 `json:"aspect_ratio"`
	SlideCount  int     `json:"slide_count"`
}

// Analysis is the full style-analysis record returned to callers.
type Analysis struct {
	SourcePath       string               `json:"source_path,omitempty"`
	Fonts            FontStats            `json:"font_analysis"`
	Colors           ColorStats           `json:"color_analysis"`
	Layout           LayoutStats          `json:"layout_analysis"`
	Hierarchy        map[string]RoleStyle `json:"hierarchy"`
	Theme            ThemeStats           `json:"theme"`
	ShapeCounts      map[string]int       `json:"shape_distribution"`
	TextShapeCount   int                  `json:"text_shape_count"`
	ConsistencyScore float64              `json:"consistency_score"`
}

// roleAccumulator gathers per-role run statistics during the walk.
type roleAccumulator struct {
	fonts map[string]int
	sizes map[float64]int
}

func newRoleAccumulator() *roleAccumulator {
	return &roleAccumulator{fonts: make(map[string]int), sizes: make(map[float64]int)}
}

// Analyze walks every run of every slide and produces the analysis record.
func Analyze(d *deck.Deck) *Analysis {
	a := &Analysis{
		SourcePath:  d.SourcePath,
		Hierarchy:   make(map[string]RoleStyle),
		ShapeCounts: make(map[string]int),
	}

	fontCounts := make(map[string]int)
	sizeCounts := make(map[float64]int)
	colorCounts := make(map[ColorEntry]int)
	positionCounts := make(map[Position]int)
	sizePairCounts := make(map[[2]float64]int)
	roles := map[string]*roleAccumulator{
		"title":    newRoleAccumulator(),
		"subtitle": newRoleAccumulator(),
		"body":     newRoleAccumulator(),
	}
	var positions []Position
	var sumLeft, sumTop float64

	countRun := func(r *deck.Run, acc *roleAccumulator) {
		f := r.Font
		if f == nil {
			return
		}
		if f.Name != "" {
			fontCounts[f.Name]++
			if acc != nil {
				acc.fonts[f.Name]++
			}
		}
		if f.Size > 0 {
			sizeCounts[f.Size]++
			if acc != nil {
				acc.sizes[f.Size]++
			}
		}
		if f.Bold {
			a.Fonts.BoldRuns++
		}
		if f.Italic {
			a.Fonts.ItalicRuns++
		}
		if f.Color != nil {
			colorCounts[ColorEntry{Color: f.Color.Hex(), Context: "text"}]++
		}
	}
	countFill := func(c *deck.RGB) {
		if c != nil {
			colorCounts[ColorEntry{Color: c.Hex(), Context: "fill"}]++
		}
	}

	for _, slide := range d.Slides {
		if slide.Background != nil {
			countFill(slide.Background.Color)
		}
		for _, shape := range slide.Shapes {
			a.ShapeCounts[string(shape.Kind)]++

			pos := Position{
				Left: roundTo(deck.ToInches(shape.Frame.Left), 2),
				Top:  roundTo(deck.ToInches(shape.Frame.Top), 2),
			}
			positions = append(positions, pos)
			positionCounts[pos]++
			sumLeft += pos.Left
			sumTop += pos.Top
			pair := [2]float64{
				roundTo(deck.ToInches(shape.Frame.Width), 2),
				roundTo(deck.ToInches(shape.Frame.Height), 2),
			}
			sizePairCounts[pair]++

			if shape.Auto != nil {
				countFill(shape.Auto.Fill)
			}
			if shape.Table != nil {
				for _, row := range shape.Table.Grid {
					for _, cell := range row {
						countFill(cell.Fill)
						cell.Frame.EachRun(func(r *deck.Run) { countRun(r, roles["body"]) })
					}
				}
				continue
			}
			if !shape.HasText() {
				continue
			}
			a.TextShapeCount++
			role := classifyRole(shape)
			shape.Text.EachRun(func(r *deck.Run) { countRun(r, roles[role]) })
		}
	}

	a.Fonts.Counts = fontCounts
	a.Fonts.UniqueFonts = len(fontCounts)
	a.Fonts.UniqueSizes = len(sizeCounts)
	a.Fonts.PrimaryFont = topKey(fontCounts)
	a.Fonts.CommonSizes = topSizes(sizeCounts, maxCommonSizes)

	a.Colors.UniqueColors = uniqueColorCount(colorCounts)
	a.Colors.Palette = rankColors(colorCounts, maxPaletteColors)

	if n := len(positions); n > 0 {
		a.Layout.MeanLeft = roundTo(sumLeft/float64(n), 2)
		a.Layout.MeanTop = roundTo(sumTop/float64(n), 2)
	}
	a.Layout.CommonPositions = commonPositions(positions, positionCounts)
	a.Layout.CommonSizes = rankSizePairs(sizePairCounts, maxCommonSizes)

	for role, acc := range roles {
		if len(acc.fonts) == 0 && len(acc.sizes) == 0 {
			continue
		}
		a.Hierarchy[role] = RoleStyle{
			Font:  topKey(acc.fonts),
			Sizes: topSizes(acc.sizes, maxRoleSizes),
		}
	}

	a.Theme = ThemeStats{
		SlideWidth:  deck.ToInches(d.SlideWidth),
		SlideHeight: deck.ToInches(d.SlideHeight),
		SlideCount:  d.SlideCount(),
	}
	if a.Theme.SlideHeight > 0 {
		a.Theme.AspectRatio = roundTo(a.Theme.SlideWidth/a.Theme.SlideHeight, 3)
	}

	a.ConsistencyScore = ConsistencyScore(a.Fonts.UniqueFonts, a.Colors.UniqueColors, a.Fonts.UniqueSizes)
	return a
}

// classifyRole buckets a text shape by position and text length. The
// thresholds mirror the common deck convention: short text near the top is
// a title, the band below it a subtitle, everything else body.
func classifyRole(shape *deck.Shape) string {
	top := deck.ToInches(shape.Frame.Top)
	length := len(shape.Text.PlainText())
	switch {
	case top < 2 && length < 100:
		return "title"
	case top < 3 && length < 200:
		return "subtitle"
	default:
		return "body"
	}
}

// ConsistencyScore is the mean of three clamped subscores penalizing font,
// color, and size sprawl. It is monotone non-increasing in each count.
func ConsistencyScore(uniqueFonts, uniqueColors, uniqueSizes int) float64 {
	fontScore := clamp01(1 - 0.1*float64(uniqueFonts-1))
	colorScore := clamp01(1 - 0.05*float64(uniqueColors-5))
	sizeScore := clamp01(1 - 0.1*float64(uniqueSizes-3))
	return (fontScore + colorScore + sizeScore) / 3
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// topKey returns the most frequent key, breaking ties lexically so results
// are stable.
func topKey(counts map[string]int) string {
	best, bestCount := "", -1
	for k, c := range counts {
		if c > bestCount || (c == bestCount && k < best) {
			best, bestCount = k, c
		}
	}
	return best
}

func topSizes(counts map[float64]int, limit int) []float64 {
	type entry struct {
		size  float64
		count int
	}
	entries := make([]entry, 0, len(counts))
	for s, c := range counts {
		entries = append(entries, entry{s, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].size > entries[j].size
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = e.size
	}
	return out
}

func uniqueColorCount(counts map[ColorEntry]int) int {
	seen := make(map[string]bool)
	for e := range counts {
		seen[e.Color] = true
	}
	return len(seen)
}

func rankColors(counts map[ColorEntry]int, limit int) []ColorEntry {
	entries := make([]ColorEntry, 0, len(counts))
	for e, c := range counts {
		e.Count = c
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		if entries[i].Color != entries[j].Color {
			return entries[i].Color < entries[j].Color
		}
		return entries[i].Context < entries[j].Context
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func rankSizePairs(counts map[[2]float64]int, limit int) []SizeEntry {
	entries := make([]SizeEntry, 0, len(counts))
	for pair, c := range counts {
		entries = append(entries, SizeEntry{Width: pair[0], Height: pair[1], Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		if entries[i].Width != entries[j].Width {
			return entries[i].Width < entries[j].Width
		}
		return entries[i].Height < entries[j].Height
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// String summarizes the analysis for logs.
func (a *Analysis) String() string {
	return fmt.Sprintf("analysis: %d slides, %d fonts, %d colors, consistency %.2f",
		a.Theme.SlideCount, a.Fonts.UniqueFonts, a.Colors.UniqueColors, a.ConsistencyScore)
}
