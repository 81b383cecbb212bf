package critique

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
)

// Design rubric limits before findings fire.
const (
	maxFonts      = 3
	maxFontSizes  = 3
	minRunSizePt  = 10.0
	maxRunSizePt  = 72.0
	maxPaletteLen = 8
)

// Content rubric limits.
const (
	maxSlideTextLen = 300
	maxBulletLines  = 7
	conciseTextMin  = 50
	conciseTextMax  = 200
	largeFileMB     = 50.0
	leanFileMB      = 10.0
)

func eachRun(d *deck.Deck, fn func(slideIdx int, r *deck.Run)) {
	for i, slide := range d.Slides {
		for _, shape := range slide.Shapes {
			if shape.Table != nil {
				for _, row := range shape.Table.Grid {
					for _, cell := range row {
						cell.Frame.EachRun(func(r *deck.Run) { fn(i, r) })
					}
				}
				continue
			}
			shape.Text.EachRun(func(r *deck.Run) { fn(i, r) })
		}
	}
}

func designRubric(d *deck.Deck) RubricResult {
	fonts := make(map[string]bool)
	sizes := make(map[float64]bool)
	colors := make(map[string]bool)
	extremeSlides := make(map[int]float64)
	minSize, maxSize := math.Inf(1), 0.0

	eachRun(d, func(slideIdx int, r *deck.Run) {
		if r.Font == nil {
			return
		}
		if r.Font.Name != "" {
			fonts[r.Font.Name] = true
		}
		if r.Font.Color != nil {
			colors[r.Font.Color.Hex()] = true
		}
		if r.Font.Size > 0 {
			sizes[r.Font.Size] = true
			if r.Font.Size < minSize {
				minSize = r.Font.Size
			}
			if r.Font.Size > maxSize {
				maxSize = r.Font.Size
			}
			if r.Font.Size < minRunSizePt || r.Font.Size > maxRunSizePt {
				extremeSlides[slideIdx] = r.Font.Size
			}
		}
	})

	result := RubricResult{Issues: []Issue{}, Strengths: []string{}}
	if len(fonts) > maxFonts {
		result.Issues = append(result.Issues, globalIssue(severityWarning,
			fmt.Sprintf("Uses %d different fonts; limit to %d for a cohesive look", len(fonts), maxFonts)))
	}
	if len(sizes) > maxFontSizes {
		result.Issues = append(result.Issues, globalIssue(severityWarning,
			fmt.Sprintf("Uses %d distinct font sizes; a tighter scale reads better", len(sizes))))
	}
	for idx := 0; idx < d.SlideCount(); idx++ {
		if size, ok := extremeSlides[idx]; ok {
			result.Issues = append(result.Issues, slideIssue(idx, severityCritical,
				fmt.Sprintf("Font size %.0f pt is outside the readable %g-%g pt range", size, minRunSizePt, maxRunSizePt)))
		}
	}
	if len(fonts) > 0 && len(fonts) <= 2 {
		result.Strengths = append(result.Strengths, "Consistent typography across the deck")
	}
	if len(colors) > maxPaletteLen {
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("Consolidate the %d text colors into a small palette", len(colors)))
	}

	result.Metrics = map[string]interface{}{
		"unique_fonts":      len(fonts),
		"unique_font_sizes": len(sizes),
		"unique_colors":     len(colors),
	}
	if maxSize > 0 {
		result.Metrics["min_font_size"] = minSize
		result.Metrics["max_font_size"] = maxSize
	}
	result.Score = scoreFor(result.Issues)
	return result
}

func contentRubric(d *deck.Deck) RubricResult {
	result := RubricResult{Issues: []Issue{}, Strengths: []string{}}
	totalLen, maxLen, emptySlides := 0, 0, 0

	for i, slide := range d.Slides {
		textLen := 0
		bulletLines := 0
		visible := 0
		for _, shape := range slide.Shapes {
			text := shape.PlainText()
			textLen += len(text)
			switch shape.Kind {
			case deck.KindImage, deck.KindChart, deck.KindTable, deck.KindAutoShape:
				visible++
			default:
				if strings.TrimSpace(text) != "" {
					visible++
				}
			}
			if shape.Text != nil {
				for _, p := range shape.Text.Paragraphs {
					line := strings.TrimSpace(p.Text())
					if p.Bullet || strings.HasPrefix(line, "-") ||
						strings.HasPrefix(line, "•") || strings.HasPrefix(line, "*") {
						bulletLines++
					}
				}
			}
		}

		totalLen += textLen
		if textLen > maxLen {
			maxLen = textLen
		}
		switch {
		case visible == 0:
			emptySlides++
			result.Issues = append(result.Issues, slideIssue(i, severityCritical, "Empty slide with no visible content"))
		case textLen > maxSlideTextLen:
			result.Issues = append(result.Issues, slideIssue(i, severityWarning,
				fmt.Sprintf("Too much text (%d characters); split or trim the slide", textLen)))
		case textLen >= conciseTextMin && textLen <= conciseTextMax:
			result.Strengths = append(result.Strengths, fmt.Sprintf("Slide %d keeps its text concise", i+1))
		}
		if bulletLines > maxBulletLines {
			result.Issues = append(result.Issues, slideIssue(i, severityWarning,
				fmt.Sprintf("%d bullet lines; keep lists to %d or fewer", bulletLines, maxBulletLines)))
		}
	}

	avgLen := 0.0
	if d.SlideCount() > 0 {
		avgLen = math.Round(float64(totalLen)/float64(d.SlideCount())*10) / 10
	}
	if maxLen > maxSlideTextLen {
		result.Recommendations = append(result.Recommendations,
			"Move dense prose into speaker notes or a handout")
	}
	result.Metrics = map[string]interface{}{
		"avg_text_length": avgLen,
		"max_text_length": maxLen,
		"empty_slides":    emptySlides,
	}
	result.Score = scoreFor(result.Issues)
	return result
}

func accessibilityRubric(d *deck.Deck, contrastThreshold float64) RubricResult {
	result := RubricResult{Issues: []Issue{}, Strengths: []string{}}
	imageCount, missingAlt := 0, 0
	lowContrastSlides := 0

	for i, slide := range d.Slides {
		var slideFill *deck.RGB
		if slide.Background != nil {
			slideFill = slide.Background.Color
		}
		contrastFlagged := false
		for _, shape := range slide.Shapes {
			if shape.Kind == deck.KindImage && shape.Image != nil {
				imageCount++
				if strings.TrimSpace(shape.Image.AltText) == "" {
					missingAlt++
					result.Issues = append(result.Issues, slideIssue(i, severityWarning,
						"Image without alternate text; screen readers will skip it"))
				}
			}

			fill := slideFill
			if shape.Auto != nil && shape.Auto.Fill != nil {
				fill = shape.Auto.Fill
			}
			if fill == nil || contrastFlagged {
				continue
			}
			shape.Text.EachRun(func(r *deck.Run) {
				if contrastFlagged || r.Font == nil || r.Font.Color == nil {
					return
				}
				if r.Font.Color.Distance(*fill) < contrastThreshold {
					contrastFlagged = true
				}
			})
		}
		if contrastFlagged {
			lowContrastSlides++
			result.Issues = append(result.Issues, slideIssue(i, severityWarning,
				"Text color is too close to its background; contrast may be insufficient"))
		}
	}

	if imageCount > 0 && missingAlt == 0 {
		result.Strengths = append(result.Strengths, "Every image carries alternate text")
	}
	if missingAlt > 0 {
		result.Recommendations = append(result.Recommendations,
			"Add descriptive alt text to images for screen reader users")
	}
	result.Metrics = map[string]interface{}{
		"image_count":         imageCount,
		"images_missing_alt":  missingAlt,
		"low_contrast_slides": lowContrastSlides,
	}
	result.Score = scoreFor(result.Issues)
	return result
}

func technicalRubric(d *deck.Deck, path string) RubricResult {
	result := RubricResult{Issues: []Issue{}, Strengths: []string{}}

	charts := 0
	for _, slide := range d.Slides {
		for _, shape := range slide.Shapes {
			if shape.Kind == deck.KindChart {
				charts++
			}
		}
	}
	mediaCount := len(d.MediaKeys())

	result.Metrics = map[string]interface{}{
		"slide_count":      d.SlideCount(),
		"media_count":      mediaCount,
		"chart_count":      charts,
		"embedded_objects": mediaCount + charts,
	}

	if path != "" {
		if info, err := os.Stat(path); err == nil {
			sizeMB := math.Round(float64(info.Size())/(1024*1024)*100) / 100
			result.Metrics["file_size_mb"] = sizeMB
			if sizeMB > largeFileMB {
				result.Issues = append(result.Issues, globalIssue(severityWarning,
					fmt.Sprintf("File is %.1f MB; compress media to stay under %.0f MB", sizeMB, largeFileMB)))
				result.Recommendations = append(result.Recommendations,
					"Recompress or downscale embedded images to shrink the file")
			} else if sizeMB < leanFileMB {
				result.Strengths = append(result.Strengths, "File size is lean")
			}
		}
	}

	result.Score = scoreFor(result.Issues)
	return result
}
