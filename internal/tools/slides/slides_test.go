package slides

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

func newSession(t *testing.T, sessions *session.Registry, slides int) *session.Session {
	t.Helper()
	d := deck.New()
	for i := 0; i < slides; i++ {
		if _, err := d.AddSlide(deck.LayoutBlank); err != nil {
			t.Fatalf("add slide: %v", err)
		}
	}
	return sessions.Allocate(d, "")
}

func TestGetTools(t *testing.T) {
	list := GetTools(session.NewRegistry())

	if len(list) != 4 {
		t.Fatalf("expected 4 tools, got %d", len(list))
	}

	names := []string{"add_slide", "delete_slide", "set_slide_background", "set_slide_layout_template"}
	for i, expected := range names {
		if list[i].Name() != expected {
			t.Errorf("expected tool %d to be '%s', got '%s'", i, expected, list[i].Name())
		}
		if len(list[i].Schema()) == 0 {
			t.Errorf("tool '%s' has empty schema", list[i].Name())
		}
	}
}

func TestAddSlideDefaultsToBlank(t *testing.T) {
	sessions := session.NewRegistry()
	s := newSession(t, sessions, 0)

	tool := NewAddTool(sessions)
	input := json.RawMessage(fmt.Sprintf(`{"presentation_id": %q}`, s.ID))
	resp, err := tool.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := resp.(map[string]interface{})
	if result["slide_index"].(int) != 0 {
		t.Errorf("expected slide_index 0, got %v", result["slide_index"])
	}
	if result["layout"].(string) != "Blank" {
		t.Errorf("expected Blank layout, got '%v'", result["layout"])
	}
	if result["slide_count"].(int) != 1 {
		t.Errorf("expected slide_count 1, got %v", result["slide_count"])
	}
}

func TestAddSlideWithLayout(t *testing.T) {
	sessions := session.NewRegistry()
	s := newSession(t, sessions, 0)

	tool := NewAddTool(sessions)
	input := json.RawMessage(fmt.Sprintf(`{"presentation_id": %q, "layout": 0}`, s.ID))
	resp, err := tool.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := resp.(map[string]interface{})
	if result["layout"].(string) != "Title Slide" {
		t.Errorf("expected 'Title Slide', got '%v'", result["layout"])
	}

	input = json.RawMessage(fmt.Sprintf(`{"presentation_id": %q, "layout": 99}`, s.ID))
	_, err = tool.Execute(context.Background(), input)
	var te *tools.ToolError
	if !errors.As(err, &te) || te.Kind != tools.KindIndexOutOfRange {
		t.Errorf("expected index_out_of_range for layout 99, got %v", err)
	}
}

func TestDeleteSlide(t *testing.T) {
	sessions := session.NewRegistry()
	s := newSession(t, sessions, 3)

	tool := NewDeleteTool(sessions)
	input := json.RawMessage(fmt.Sprintf(`{"presentation_id": %q, "slide_index": 1}`, s.ID))
	resp, err := tool.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := resp.(map[string]interface{})
	if result["deleted"] != true {
		t.Error("expected deleted=true")
	}
	if result["slide_count"].(int) != 2 {
		t.Errorf("expected 2 slides left, got %v", result["slide_count"])
	}

	input = json.RawMessage(fmt.Sprintf(`{"presentation_id": %q, "slide_index": 5}`, s.ID))
	_, err = tool.Execute(context.Background(), input)
	var te *tools.ToolError
	if !errors.As(err, &te) || te.Kind != tools.KindIndexOutOfRange {
		t.Errorf("expected index_out_of_range, got %v", err)
	}
}

func TestSetBackgroundColor(t *testing.T) {
	sessions := session.NewRegistry()
	s := newSession(t, sessions, 1)

	tool := NewBackgroundTool(sessions)
	input := json.RawMessage(fmt.Sprintf(`{"presentation_id": %q, "slide_index": 0, "color": "#1F4E79"}`, s.ID))
	resp, err := tool.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := resp.(map[string]interface{})
	if result["background"].(string) != "#1F4E79" {
		t.Errorf("expected '#1F4E79', got '%v'", result["background"])
	}

	s.Lock()
	slide, _ := s.Deck.Slide(0)
	if slide.Background == nil || slide.Background.Color == nil {
		t.Error("background color not applied to the slide")
	}
	s.Unlock()
}

func TestSetBackgroundImage(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	path := filepath.Join(dir, "bg.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	sessions := session.NewRegistry()
	s := newSession(t, sessions, 1)

	tool := NewBackgroundTool(sessions)
	input := json.RawMessage(fmt.Sprintf(`{"presentation_id": %q, "slide_index": 0, "image_path": %q}`, s.ID, path))
	resp, err := tool.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := resp.(map[string]interface{})
	if result["background"].(string) != path {
		t.Errorf("expected image path back, got '%v'", result["background"])
	}

	s.Lock()
	slide, _ := s.Deck.Slide(0)
	if slide.Background == nil || slide.Background.Image == "" {
		t.Error("background image not applied to the slide")
	}
	s.Unlock()
}

func TestSetBackgroundRequiresExactlyOne(t *testing.T) {
	sessions := session.NewRegistry()
	s := newSession(t, sessions, 1)

	tool := NewBackgroundTool(sessions)
	for _, input := range []string{
		fmt.Sprintf(`{"presentation_id": %q, "slide_index": 0}`, s.ID),
		fmt.Sprintf(`{"presentation_id": %q, "slide_index": 0, "color": "#FFFFFF", "image_path": "x.png"}`, s.ID),
	} {
		_, err := tool.Execute(context.Background(), json.RawMessage(input))
		var te *tools.ToolError
		if !errors.As(err, &te) || te.Kind != tools.KindBadArgument {
			t.Errorf("expected bad_argument for %s, got %v", input, err)
		}
	}
}

func TestSetLayoutTemplate(t *testing.T) {
	sessions := session.NewRegistry()
	s := newSession(t, sessions, 1)

	tool := NewLayoutTemplateTool(sessions)
	input := json.RawMessage(fmt.Sprintf(
		`{"presentation_id": %q, "slide_index": 0, "template": "title_content", "values": {"title": "Plan", "content": "Step one"}}`, s.ID))
	resp, err := tool.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := resp.(map[string]interface{})
	placeholders := result["placeholders"].([]string)
	if len(placeholders) != 2 {
		t.Fatalf("expected 2 placeholders, got %v", placeholders)
	}

	s.Lock()
	text := s.Deck.ExtractText()
	s.Unlock()
	if len(text[0].TextContent) != 2 {
		t.Fatalf("expected 2 text shapes, got %+v", text[0].TextContent)
	}
	if text[0].TextContent[0].Text != "Plan" {
		t.Errorf("expected 'Plan' first, got '%s'", text[0].TextContent[0].Text)
	}

	input = json.RawMessage(fmt.Sprintf(`{"presentation_id": %q, "slide_index": 0, "template": "nope"}`, s.ID))
	_, err = tool.Execute(context.Background(), input)
	var te *tools.ToolError
	if !errors.As(err, &te) || te.Kind != tools.KindBadArgument {
		t.Errorf("expected bad_argument for unknown template, got %v", err)
	}
}
