package critique

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/slidesmith/slidesmith-mcp/internal/config"
	engine "github.com/slidesmith/slidesmith-mcp/internal/critique"
	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

func newEngine() *engine.Engine {
	return engine.New(config.CritiqueConfig{}, nil)
}

// cleanDeck builds a small deck that passes every rubric check.
func cleanDeck(t *testing.T) *deck.Deck {
	t.Helper()
	d := deck.New()
	dark := deck.MustColor("#262626")
	font := &deck.Font{Name: "Calibri", Size: 20, Color: &dark}
	for i := 0; i < 2; i++ {
		idx, err := d.AddSlide(deck.LayoutBlank)
		if err != nil {
			t.Fatal(err)
		}
		slide, _ := d.Slide(idx)
		slide.AddTextBox(deck.FrameFromInches(0.5, 0.3, 9, 1), fmt.Sprintf("Part %d", i+1), font, "")
		slide.AddTextBox(deck.FrameFromInches(0.5, 2, 9, 3), "Short body text.", font, "")
	}
	return d
}

func TestGetTools(t *testing.T) {
	list := GetTools(session.NewRegistry(), newEngine())

	if len(list) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(list))
	}
	if list[0].Name() != "critique_presentation" {
		t.Errorf("expected 'critique_presentation', got '%s'", list[0].Name())
	}
}

func TestCritiquePresentation(t *testing.T) {
	sessions := session.NewRegistry()
	s := sessions.Allocate(cleanDeck(t), "")

	tool := NewCritiqueTool(sessions, newEngine())
	input := json.RawMessage(fmt.Sprintf(`{"presentation_id": %q, "rubric": "design"}`, s.ID))
	resp, err := tool.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report := resp.(*engine.Report)
	if report.ID == "" {
		t.Error("expected a report id")
	}
	if report.Rubric != "design" {
		t.Errorf("expected rubric 'design', got '%s'", report.Rubric)
	}
	if report.Summary.TotalSlides != 2 {
		t.Errorf("expected 2 slides, got %d", report.Summary.TotalSlides)
	}
	if report.Summary.OverallScore != 100 {
		t.Errorf("clean deck should score 100, got %g", report.Summary.OverallScore)
	}
	if len(report.Screenshots) != 0 || report.ScreenshotError != "" {
		t.Errorf("screenshots were not requested: %+v", report)
	}
}

func TestCritiqueComprehensiveFlagsProblems(t *testing.T) {
	sessions := session.NewRegistry()
	d := deck.New()
	d.AddSlide(deck.LayoutBlank)
	s := sessions.Allocate(d, "")

	tool := NewCritiqueTool(sessions, newEngine())
	input := json.RawMessage(fmt.Sprintf(`{"presentation_id": %q}`, s.ID))
	resp, err := tool.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report := resp.(*engine.Report)
	if report.Rubric != "comprehensive" {
		t.Errorf("default rubric should be comprehensive, got '%s'", report.Rubric)
	}
	if len(report.Breakdown) != 4 {
		t.Errorf("comprehensive should break down into 4 rubrics, got %d", len(report.Breakdown))
	}
	if report.Summary.OverallScore >= 100 {
		t.Errorf("an empty slide should lose points, got %g", report.Summary.OverallScore)
	}
	if len(report.Issues) == 0 {
		t.Error("expected issues for an empty slide")
	}
}

func TestCritiqueUnknownRubric(t *testing.T) {
	sessions := session.NewRegistry()
	s := sessions.Allocate(cleanDeck(t), "")

	tool := NewCritiqueTool(sessions, newEngine())
	input := json.RawMessage(fmt.Sprintf(`{"presentation_id": %q, "rubric": "vibes"}`, s.ID))
	_, err := tool.Execute(context.Background(), input)
	var te *tools.ToolError
	if !errors.As(err, &te) || te.Kind != tools.KindBadArgument {
		t.Errorf("expected bad_argument for unknown rubric, got %v", err)
	}
}

func TestCritiqueUnknownHandle(t *testing.T) {
	tool := NewCritiqueTool(session.NewRegistry(), newEngine())
	_, err := tool.Execute(context.Background(), json.RawMessage(`{"presentation_id": "prs_404"}`))
	var te *tools.ToolError
	if !errors.As(err, &te) || te.Kind != tools.KindHandleNotFound {
		t.Errorf("expected handle_not_found, got %v", err)
	}
}
