// Package critique scores presentations against review rubrics: design,
// content, accessibility, technical, or all four combined. Reports carry
// per-rubric scores and metrics plus flat issue and strength lists an agent
// can act on.
package critique

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/slidesmith/slidesmith-mcp/internal/config"
	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/render"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// Rubric names accepted by Critique.
const (
	RubricDesign        = "design"
	RubricContent       = "content"
	RubricAccessibility = "accessibility"
	RubricTechnical     = "technical"
	RubricComprehensive = "comprehensive"
)

// Issue weights. Scores are max(0, 100 - 10*warnings - 25*criticals), so a
// higher score always means no more issues of either severity.
const (
	warningWeight  = 10
	criticalWeight = 25
)

const (
	severityWarning  = "warning"
	severityCritical = "critical"
	globalScope      = "global"
)

// Issue is one finding. Slide is the decimal slide index or "global".
type Issue struct {
	Slide string `json:"slide"`
	Type  string `json:"type"`
	Text  string `json:"text"`
}

func slideIssue(idx int, severity, text string) Issue {
	return Issue{Slide: strconv.Itoa(idx), Type: severity, Text: text}
}

func globalIssue(severity, text string) Issue {
	return Issue{Slide: globalScope, Type: severity, Text: text}
}

// RubricResult is one rubric's independent verdict.
type RubricResult struct {
	Score           float64                `json:"score"`
	Issues          []Issue                `json:"issues"`
	Strengths       []string               `json:"strengths"`
	Recommendations []string               `json:"recommendations,omitempty"`
	Metrics         map[string]interface{} `json:"metrics"`
}

// Summary is the report header.
type Summary struct {
	OverallScore        float64 `json:"overall_score"`
	Assessment          string  `json:"assessment"`
	TotalSlides         int     `json:"total_slides"`
	CriticalCount       int     `json:"critical_count"`
	WarningCount        int     `json:"warning_count"`
	RecommendationCount int     `json:"recommendation_count"`
}

// Report is the full critique output.
type Report struct {
	ID              string                  `json:"report_id"`
	Rubric          string                  `json:"rubric"`
	Path            string                  `json:"path,omitempty"`
	Summary         Summary                 `json:"summary"`
	Breakdown       map[string]RubricResult `json:"breakdown"`
	Issues          []Issue                 `json:"issues"`
	Strengths       []string                `json:"strengths"`
	Recommendations []string                `json:"recommendations"`
	Screenshots     []string                `json:"screenshots,omitempty"`
	ScreenshotError string                  `json:"screenshot_error,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
}

// Bridge renders slides for screenshot attachment. Rendering is optional:
// a failing bridge downgrades to a report without screenshots.
type Bridge interface {
	RenderDeck(ctx context.Context, d *deck.Deck, opts render.Options) ([]render.Page, error)
}

// Engine evaluates rubrics. A nil bridge disables screenshots.
type Engine struct {
	cfg    config.CritiqueConfig
	bridge Bridge
}

func New(cfg config.CritiqueConfig, bridge Bridge) *Engine {
	if cfg.ContrastThreshold <= 0 {
		cfg.ContrastThreshold = 120
	}
	return &Engine{cfg: cfg, bridge: bridge}
}

// Options controls one critique run.
type Options struct {
	Rubric             string
	IncludeScreenshots bool
	ScreenshotDir      string
}

// Critique evaluates the deck under the requested rubric. The path is the
// deck's on-disk location, consulted for file-size metrics; it may be empty
// for unsaved decks.
func (e *Engine) Critique(ctx context.Context, d *deck.Deck, path string, opts Options) (*Report, error) {
	rubric := opts.Rubric
	if rubric == "" {
		rubric = RubricComprehensive
	}

	breakdown := make(map[string]RubricResult)
	switch rubric {
	case RubricDesign:
		breakdown[RubricDesign] = designRubric(d)
	case RubricContent:
		breakdown[RubricContent] = contentRubric(d)
	case RubricAccessibility:
		breakdown[RubricAccessibility] = accessibilityRubric(d, e.cfg.ContrastThreshold)
	case RubricTechnical:
		breakdown[RubricTechnical] = technicalRubric(d, path)
	case RubricComprehensive:
		breakdown[RubricDesign] = designRubric(d)
		breakdown[RubricContent] = contentRubric(d)
		breakdown[RubricAccessibility] = accessibilityRubric(d, e.cfg.ContrastThreshold)
		breakdown[RubricTechnical] = technicalRubric(d, path)
	default:
		return nil, tools.NewBadArgument(
			"invalid rubric %q: expected design, content, accessibility, technical, or comprehensive", rubric)
	}

	report := &Report{
		ID:        uuid.NewString(),
		Rubric:    rubric,
		Path:      path,
		Breakdown: breakdown,
		Issues:    []Issue{},
		Strengths: []string{},
		CreatedAt: time.Now().UTC(),
	}

	var total float64
	for _, name := range []string{RubricDesign, RubricContent, RubricAccessibility, RubricTechnical} {
		result, ok := breakdown[name]
		if !ok {
			continue
		}
		total += result.Score
		report.Issues = append(report.Issues, result.Issues...)
		report.Strengths = append(report.Strengths, result.Strengths...)
		report.Recommendations = append(report.Recommendations, result.Recommendations...)
	}
	report.Summary = summarize(d, report, total/float64(len(breakdown)))

	if opts.IncludeScreenshots {
		e.attachScreenshots(ctx, d, report, opts.ScreenshotDir)
	}
	return report, nil
}

func summarize(d *deck.Deck, report *Report, overall float64) Summary {
	s := Summary{
		OverallScore:        math.Round(overall*10) / 10,
		TotalSlides:         d.SlideCount(),
		RecommendationCount: len(report.Recommendations),
	}
	for _, issue := range report.Issues {
		switch issue.Type {
		case severityCritical:
			s.CriticalCount++
		case severityWarning:
			s.WarningCount++
		}
	}
	s.Assessment = assessmentLabel(s.OverallScore)
	return s
}

func assessmentLabel(score float64) string {
	switch {
	case score >= 90:
		return "excellent"
	case score >= 75:
		return "good"
	case score >= 60:
		return "fair"
	case score >= 40:
		return "needs improvement"
	default:
		return "poor"
	}
}

func scoreFor(issues []Issue) float64 {
	penalty := 0
	for _, issue := range issues {
		switch issue.Type {
		case severityCritical:
			penalty += criticalWeight
		case severityWarning:
			penalty += warningWeight
		}
	}
	score := 100 - penalty
	if score < 0 {
		score = 0
	}
	return float64(score)
}

func (e *Engine) attachScreenshots(ctx context.Context, d *deck.Deck, report *Report, dir string) {
	if e.bridge == nil {
		report.ScreenshotError = "no renderer configured"
		return
	}
	pages, err := e.bridge.RenderDeck(ctx, d, render.Options{
		Format: render.FormatPNG,
		OutDir: dir,
		Prefix: "critique",
	})
	if err != nil {
		report.ScreenshotError = err.Error()
		return
	}
	report.Screenshots = make([]string, 0, len(pages))
	for _, page := range pages {
		report.Screenshots = append(report.Screenshots, page.Path)
	}
}
