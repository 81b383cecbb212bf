package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/slidesmith/slidesmith-mcp/internal/config"
	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	bridge "github.com/slidesmith/slidesmith-mcp/internal/render"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

func brokenRenderer() *bridge.Renderer {
	return bridge.New(config.RenderConfig{SofficePath: "/nonexistent/soffice"}, 0)
}

func TestGetTools(t *testing.T) {
	list := GetTools(session.NewRegistry(), brokenRenderer(), t.TempDir())

	if len(list) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(list))
	}
	if list[0].Name() != "screenshot_slides" {
		t.Errorf("expected 'screenshot_slides', got '%s'", list[0].Name())
	}
	if len(list[0].Schema()) == 0 {
		t.Error("schema should not be empty")
	}
}

func TestScreenshotRequiresExactlyOneSource(t *testing.T) {
	sessions := session.NewRegistry()
	s := sessions.Allocate(deck.New(), "")

	tool := NewScreenshotTool(sessions, brokenRenderer(), t.TempDir())
	for _, input := range []string{
		`{}`,
		fmt.Sprintf(`{"presentation_id": %q, "file_path": "deck.pptx"}`, s.ID),
	} {
		_, err := tool.Execute(context.Background(), json.RawMessage(input))
		var te *tools.ToolError
		if !errors.As(err, &te) || te.Kind != tools.KindBadArgument {
			t.Errorf("expected bad_argument for %s, got %v", input, err)
		}
	}
}

func TestScreenshotFailsFastWhenRendererMissing(t *testing.T) {
	sessions := session.NewRegistry()
	s := sessions.Allocate(deck.New(), "")

	tool := NewScreenshotTool(sessions, brokenRenderer(), t.TempDir())
	input := json.RawMessage(fmt.Sprintf(`{"presentation_id": %q}`, s.ID))
	_, err := tool.Execute(context.Background(), input)
	var te *tools.ToolError
	if !errors.As(err, &te) || te.Kind != tools.KindRendererUnavailable {
		t.Errorf("expected renderer_unavailable, got %v", err)
	}
}
