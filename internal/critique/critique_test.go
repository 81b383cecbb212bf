package critique

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/slidesmith/slidesmith-mcp/internal/config"
	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

func testEngine() *Engine {
	return New(config.CritiqueConfig{ContrastThreshold: 120}, nil)
}

func cleanDeck(t *testing.T) *deck.Deck {
	t.Helper()
	d := deck.New()
	idx, err := d.AddSlide(deck.LayoutBlank)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := d.Slide(idx)
	s.AddTextBox(deck.FrameFromInches(0.5, 0.5, 9, 1), "Quarterly results overview for the finance team",
		&deck.Font{Name: "Arial", Size: 32}, "")
	s.AddTextBox(deck.FrameFromInches(0.5, 2, 9, 3), "Revenue grew 12% year over year.",
		&deck.Font{Name: "Arial", Size: 18}, "")
	return d
}

func TestDesignRubricCleanDeck(t *testing.T) {
	result := designRubric(cleanDeck(t))
	if result.Score != 100 {
		t.Errorf("score = %g, want 100", result.Score)
	}
	if len(result.Issues) != 0 {
		t.Errorf("issues = %+v, want none", result.Issues)
	}
	want := map[string]interface{}{
		"unique_fonts":      1,
		"unique_font_sizes": 2,
		"unique_colors":     0,
		"min_font_size":     18.0,
		"max_font_size":     32.0,
	}
	if diff := cmp.Diff(want, result.Metrics); diff != "" {
		t.Errorf("metrics mismatch (-want +got):\n%s", diff)
	}
}

func TestDesignRubricFontSprawl(t *testing.T) {
	d := cleanDeck(t)
	s, _ := d.Slide(0)
	for _, name := range []string{"Georgia", "Courier New", "Impact"} {
		s.AddTextBox(deck.FrameFromInches(1, 4, 4, 0.5), "x", &deck.Font{Name: name, Size: 18}, "")
	}

	result := designRubric(d)
	if result.Score != 90 {
		t.Errorf("score = %g, want 90 after one warning", result.Score)
	}
	if len(result.Issues) != 1 || result.Issues[0].Type != severityWarning {
		t.Fatalf("issues = %+v, want one warning", result.Issues)
	}
	if result.Issues[0].Slide != globalScope {
		t.Errorf("font sprawl should be a global issue, got %q", result.Issues[0].Slide)
	}
}

func TestDesignRubricExtremeFontSize(t *testing.T) {
	d := cleanDeck(t)
	s, _ := d.Slide(0)
	s.AddTextBox(deck.FrameFromInches(1, 5, 4, 0.5), "fine print", &deck.Font{Name: "Arial", Size: 8}, "")

	result := designRubric(d)
	found := false
	for _, issue := range result.Issues {
		if issue.Type == severityCritical && issue.Slide == "0" {
			found = true
		}
	}
	if !found {
		t.Fatalf("issues = %+v, want a critical on slide 0", result.Issues)
	}
	if result.Score > 75 {
		t.Errorf("score = %g, want at most 75 with a critical", result.Score)
	}
}

func TestContentRubric(t *testing.T) {
	d := deck.New()
	d.AddSlide(deck.LayoutBlank)
	concise, _ := d.Slide(0)
	concise.AddTextBox(deck.FrameFromInches(1, 1, 8, 2),
		"Three takeaways from the quarter, kept short and readable.", nil, "")

	d.AddSlide(deck.LayoutBlank)
	dense, _ := d.Slide(1)
	dense.AddTextBox(deck.FrameFromInches(1, 1, 8, 5), strings.Repeat("dense prose ", 30), nil, "")

	d.AddSlide(deck.LayoutBlank)

	result := contentRubric(d)

	var warnings, criticals int
	for _, issue := range result.Issues {
		switch issue.Type {
		case severityWarning:
			warnings++
		case severityCritical:
			criticals++
		}
	}
	if warnings != 1 || criticals != 1 {
		t.Fatalf("issues = %+v, want 1 warning and 1 critical", result.Issues)
	}
	if len(result.Strengths) != 1 || !strings.Contains(result.Strengths[0], "Slide 1") {
		t.Errorf("strengths = %v, want the concise slide praised", result.Strengths)
	}
	if result.Metrics["empty_slides"] != 1 {
		t.Errorf("empty_slides = %v, want 1", result.Metrics["empty_slides"])
	}
}

func TestContentRubricBulletOverload(t *testing.T) {
	d := deck.New()
	d.AddSlide(deck.LayoutBlank)
	s, _ := d.Slide(0)
	lines := make([]string, 9)
	for i := range lines {
		lines[i] = "- point"
	}
	s.AddTextBox(deck.FrameFromInches(1, 1, 8, 5), strings.Join(lines, "\n"), nil, "")

	result := contentRubric(d)
	found := false
	for _, issue := range result.Issues {
		if strings.Contains(issue.Text, "bullet") {
			found = true
		}
	}
	if !found {
		t.Errorf("issues = %+v, want a bullet overload warning", result.Issues)
	}
}

func TestAccessibilityRubric(t *testing.T) {
	d := deck.New()
	d.AddSlide(deck.LayoutBlank)
	s, _ := d.Slide(0)
	media := d.AddMedia([]byte{0x89, 'P', 'N', 'G'}, "png")
	s.AddImage(deck.FrameFromInches(1, 1, 3, 2), media, "logo.png", "")
	media2 := d.AddMedia([]byte{0x89, 'P', 'N', 'G'}, "png")
	s.AddImage(deck.FrameFromInches(5, 1, 3, 2), media2, "chart.png", "revenue chart")

	result := accessibilityRubric(d, 120)
	if len(result.Issues) != 1 || result.Issues[0].Type != severityWarning {
		t.Fatalf("issues = %+v, want one missing-alt warning", result.Issues)
	}
	if result.Metrics["image_count"] != 2 || result.Metrics["images_missing_alt"] != 1 {
		t.Errorf("metrics = %v", result.Metrics)
	}
}

func TestAccessibilityLowContrast(t *testing.T) {
	d := deck.New()
	d.AddSlide(deck.LayoutBlank)
	s, _ := d.Slide(0)
	s.SetBackgroundColor(deck.MustColor("#FEFEFE"))
	white := deck.MustColor("#FFFFFF")
	s.AddTextBox(deck.FrameFromInches(1, 1, 8, 1), "ghost text",
		&deck.Font{Size: 18, Color: &white}, "")

	result := accessibilityRubric(d, 120)
	found := false
	for _, issue := range result.Issues {
		if strings.Contains(issue.Text, "contrast") {
			found = true
		}
	}
	if !found {
		t.Fatalf("issues = %+v, want a low-contrast warning", result.Issues)
	}
	if result.Metrics["low_contrast_slides"] != 1 {
		t.Errorf("low_contrast_slides = %v, want 1", result.Metrics["low_contrast_slides"])
	}
}

func TestAccessibilityContrastNeedsBothColors(t *testing.T) {
	d := deck.New()
	d.AddSlide(deck.LayoutBlank)
	s, _ := d.Slide(0)
	white := deck.MustColor("#FFFFFF")
	s.AddTextBox(deck.FrameFromInches(1, 1, 8, 1), "no background set",
		&deck.Font{Size: 18, Color: &white}, "")

	result := accessibilityRubric(d, 120)
	if len(result.Issues) != 0 {
		t.Errorf("issues = %+v, want none when no fill is set", result.Issues)
	}
}

func TestTechnicalRubricWithoutPath(t *testing.T) {
	result := technicalRubric(cleanDeck(t), "")
	if _, ok := result.Metrics["file_size_mb"]; ok {
		t.Error("file_size_mb should be absent without a saved file")
	}
	if result.Metrics["slide_count"] != 1 {
		t.Errorf("slide_count = %v", result.Metrics["slide_count"])
	}
}

func TestCritiqueComprehensive(t *testing.T) {
	report, err := testEngine().Critique(context.Background(), cleanDeck(t), "", Options{})
	if err != nil {
		t.Fatalf("Critique: %v", err)
	}
	if report.Rubric != RubricComprehensive {
		t.Errorf("rubric = %q", report.Rubric)
	}
	if len(report.Breakdown) != 4 {
		t.Fatalf("breakdown rubrics = %d, want 4", len(report.Breakdown))
	}
	if report.ID == "" {
		t.Error("report id missing")
	}
	if report.Summary.TotalSlides != 1 {
		t.Errorf("total slides = %d", report.Summary.TotalSlides)
	}

	sum := 0.0
	for _, result := range report.Breakdown {
		sum += result.Score
	}
	if want := sum / 4; report.Summary.OverallScore != want {
		t.Errorf("overall = %g, want mean %g", report.Summary.OverallScore, want)
	}
	if report.Summary.Assessment != "excellent" {
		t.Errorf("assessment = %q for score %g", report.Summary.Assessment, report.Summary.OverallScore)
	}
}

func TestCritiqueSingleRubric(t *testing.T) {
	report, err := testEngine().Critique(context.Background(), cleanDeck(t), "", Options{Rubric: RubricDesign})
	if err != nil {
		t.Fatalf("Critique: %v", err)
	}
	if len(report.Breakdown) != 1 {
		t.Fatalf("breakdown = %v, want design only", report.Breakdown)
	}
	if _, ok := report.Breakdown[RubricDesign]; !ok {
		t.Error("design rubric missing from breakdown")
	}
}

func TestCritiqueUnknownRubric(t *testing.T) {
	_, err := testEngine().Critique(context.Background(), cleanDeck(t), "", Options{Rubric: "vibes"})
	var te *tools.ToolError
	if !errors.As(err, &te) || te.Kind != tools.KindBadArgument {
		t.Fatalf("err = %v, want bad_argument", err)
	}
}

func TestCritiqueScreenshotsWithoutBridge(t *testing.T) {
	report, err := testEngine().Critique(context.Background(), cleanDeck(t), "", Options{
		Rubric:             RubricDesign,
		IncludeScreenshots: true,
	})
	if err != nil {
		t.Fatalf("Critique: %v", err)
	}
	if report.ScreenshotError == "" {
		t.Error("expected a screenshot error note when no bridge is configured")
	}
	if len(report.Screenshots) != 0 {
		t.Errorf("screenshots = %v, want none", report.Screenshots)
	}
}

func TestScoreMonotonicity(t *testing.T) {
	warnings := []Issue{globalIssue(severityWarning, "w")}
	criticals := []Issue{globalIssue(severityCritical, "c")}
	if scoreFor(nil) != 100 {
		t.Errorf("empty score = %g", scoreFor(nil))
	}
	if !(scoreFor(warnings) > scoreFor(criticals)) {
		t.Error("a critical must cost more than a warning")
	}
	many := make([]Issue, 20)
	for i := range many {
		many[i] = globalIssue(severityCritical, "c")
	}
	if scoreFor(many) != 0 {
		t.Errorf("score = %g, want clamped at 0", scoreFor(many))
	}
}
