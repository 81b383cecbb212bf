// Package tests drives the documented authoring flows through the full
// JSON-RPC path: request envelope in, content-wrapped payload out, exactly
// as an MCP client sees the server.
package tests

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/slidesmith/slidesmith-mcp/internal/mcp"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/templating"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/content"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/design"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/presentation"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/slides"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/style"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/tables"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/templates"
)

// newServer wires every renderer-independent tool family the way the serve
// command does and returns the MCP server plus its output directory.
func newServer(t *testing.T) (*mcp.Server, string) {
	t.Helper()
	dir := t.TempDir()

	sessions := session.NewRegistry()
	store := templating.NewStore()
	profiles := style.NewProfiles()
	profileStore, err := style.NewProfileStore(filepath.Join(dir, "profiles.db"))
	if err != nil {
		t.Fatalf("opening profile store: %v", err)
	}
	t.Cleanup(func() {
		profileStore.Close()
		sessions.Close()
	})

	registry := tools.NewRegistry()
	families := [][]tools.Tool{
		presentation.GetTools(sessions, dir),
		slides.GetTools(sessions),
		content.GetTools(sessions, content.NewFetcher(5*time.Second, 4*1024*1024)),
		tables.GetTools(sessions),
		design.GetTools(sessions, design.NewDesigns()),
		templates.GetTools(sessions, store, dir),
		style.GetTools(profiles, profileStore),
	}
	for _, family := range families {
		if err := registry.RegisterAll(family); err != nil {
			t.Fatalf("registering tools: %v", err)
		}
	}
	probes := map[string]func() interface{}{
		"open_presentations": func() interface{} { return sessions.Count() },
	}
	if err := registry.Register(tools.NewHealthTool("test", probes)); err != nil {
		t.Fatalf("registering health tool: %v", err)
	}

	return mcp.NewServer(registry), dir
}

var nextID int

func callToolRaw(srv *mcp.Server, name string, args map[string]interface{}) *mcp.Response {
	nextID++
	return srv.HandleRequest(&mcp.Request{
		JSONRPC: "2.0",
		ID:      nextID,
		Method:  "tools/call",
		Params: map[string]interface{}{
			"name":      name,
			"arguments": args,
		},
	})
}

// callToolJSON executes one tools/call and unwraps the text content payload.
func callToolJSON(t *testing.T, srv *mcp.Server, name string, args map[string]interface{}) json.RawMessage {
	t.Helper()
	resp := callToolRaw(srv, name, args)
	if resp.Error != nil {
		t.Fatalf("%s failed: [%d] %s", name, resp.Error.Code, resp.Error.Message)
	}

	wrapped, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshaling %s result: %v", name, err)
	}
	var envelope struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(wrapped, &envelope); err != nil {
		t.Fatalf("decoding %s envelope: %v", name, err)
	}
	if len(envelope.Content) != 1 || envelope.Content[0].Type != "text" {
		t.Fatalf("unexpected %s content: %+v", name, envelope.Content)
	}
	return json.RawMessage(envelope.Content[0].Text)
}

// callTool is callToolJSON for the common case of an object payload.
func callTool(t *testing.T, srv *mcp.Server, name string, args map[string]interface{}) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	if err := json.Unmarshal(callToolJSON(t, srv, name, args), &payload); err != nil {
		t.Fatalf("decoding %s payload: %v", name, err)
	}
	return payload
}

type extractedSlide struct {
	SlideNumber int `json:"slide_number"`
	TextContent []struct {
		ShapeType string `json:"shape_type"`
		Text      string `json:"text"`
	} `json:"text_content"`
}

func extractText(t *testing.T, srv *mcp.Server, id string) []extractedSlide {
	t.Helper()
	raw := callToolJSON(t, srv, "extract_text", map[string]interface{}{"presentation_id": id})
	var out []extractedSlide
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decoding extract_text payload: %v", err)
	}
	return out
}

func asString(t *testing.T, payload map[string]interface{}, key string) string {
	t.Helper()
	s, ok := payload[key].(string)
	if !ok {
		t.Fatalf("expected string %q, got %T (%v)", key, payload[key], payload[key])
	}
	return s
}

func asInt(t *testing.T, payload map[string]interface{}, key string) int {
	t.Helper()
	n, ok := payload[key].(float64)
	if !ok {
		t.Fatalf("expected number %q, got %T (%v)", key, payload[key], payload[key])
	}
	return int(n)
}

func cellText(t *testing.T, info map[string]interface{}, row, col int) string {
	t.Helper()
	rows, ok := info["cells"].([]interface{})
	if !ok || row >= len(rows) {
		t.Fatalf("row %d missing from table info", row)
	}
	cols, ok := rows[row].([]interface{})
	if !ok || col >= len(cols) {
		t.Fatalf("cell [%d][%d] missing from table info", row, col)
	}
	cell, ok := cols[col].(map[string]interface{})
	if !ok {
		t.Fatalf("cell [%d][%d] is not an object", row, col)
	}
	text, _ := cell["text"].(string)
	return text
}

func TestDeckAuthoringRoundTrip(t *testing.T) {
	srv, dir := newServer(t)

	created := callTool(t, srv, "create_presentation", map[string]interface{}{})
	id := asString(t, created, "presentation_id")

	added := callTool(t, srv, "add_slide", map[string]interface{}{
		"presentation_id": id,
		"layout":          0,
	})
	if got := asInt(t, added, "slide_index"); got != 0 {
		t.Errorf("expected slide index 0, got %d", got)
	}

	callTool(t, srv, "add_text_box", map[string]interface{}{
		"presentation_id": id,
		"slide_index":     0,
		"text":            "Hello",
		"left":            1,
		"top":             2,
		"width":           8,
		"height":          1.5,
		"font_size":       32,
		"bold":            true,
	})

	info := callTool(t, srv, "get_presentation_info", map[string]interface{}{
		"presentation_id": id,
	})
	if got := asInt(t, info, "slide_count"); got != 1 {
		t.Errorf("expected 1 slide, got %d", got)
	}

	out := filepath.Join(dir, "out.pptx")
	saved := callTool(t, srv, "save_presentation", map[string]interface{}{
		"presentation_id": id,
		"file_path":       out,
	})
	if redirected, _ := saved["redirected"].(bool); redirected {
		t.Errorf("expected a save inside the output directory to keep its path, got %v", saved)
	}
	if got := asString(t, saved, "file_path"); got != out {
		t.Errorf("expected path '%s', got '%s'", out, got)
	}

	loaded := callTool(t, srv, "load_presentation", map[string]interface{}{
		"file_path": out,
	})
	reloadedID := asString(t, loaded, "presentation_id")
	if reloadedID == id {
		t.Fatalf("expected a fresh handle for the loaded file, got '%s' twice", id)
	}

	extracted := extractText(t, srv, reloadedID)
	if len(extracted) != 1 {
		t.Fatalf("expected 1 extracted slide, got %d", len(extracted))
	}
	if extracted[0].SlideNumber != 1 {
		t.Errorf("expected slide_number 1, got %d", extracted[0].SlideNumber)
	}
	if len(extracted[0].TextContent) != 1 {
		t.Fatalf("expected 1 text entry, got %d", len(extracted[0].TextContent))
	}
	entry := extracted[0].TextContent[0]
	if entry.ShapeType != "text" {
		t.Errorf("expected shape_type 'text', got '%s'", entry.ShapeType)
	}
	if entry.Text != "Hello" {
		t.Errorf("expected text 'Hello', got '%s'", entry.Text)
	}
}

func TestTableLifecycle(t *testing.T) {
	srv, _ := newServer(t)

	created := callTool(t, srv, "create_presentation", map[string]interface{}{})
	id := asString(t, created, "presentation_id")
	callTool(t, srv, "add_slide", map[string]interface{}{"presentation_id": id})

	table := callTool(t, srv, "create_table_with_data", map[string]interface{}{
		"presentation_id": id,
		"slide_index":     0,
		"headers":         []string{"A", "B", "C"},
		"data":            [][]string{{"1", "2", "3"}, {"4", "5", "6"}},
		"left":            1,
		"top":             1,
		"width":           8,
		"height":          3,
	})
	shapeIdx := asInt(t, table, "shape_index")

	info := callTool(t, srv, "get_table_info", map[string]interface{}{
		"presentation_id": id,
		"slide_index":     0,
		"shape_index":     shapeIdx,
	})
	rows, cols, cells := asInt(t, info, "rows"), asInt(t, info, "columns"), asInt(t, info, "total_cells")
	if rows != 3 || cols != 3 || cells != 9 {
		t.Errorf("expected a 3x3 table with 9 cells, got %dx%d with %d", rows, cols, cells)
	}
	if got := cellText(t, info, 2, 1); got != "5" {
		t.Errorf("expected cell [2][1] to be '5', got '%s'", got)
	}

	modified := callTool(t, srv, "modify_table_structure", map[string]interface{}{
		"presentation_id": id,
		"slide_index":     0,
		"shape_index":     shapeIdx,
		"operation":       "add_column",
		"position":        0,
	})
	newIdx := asInt(t, modified, "new_table_index")
	if rows, cols := asInt(t, modified, "rows"), asInt(t, modified, "columns"); rows != 3 || cols != 4 {
		t.Errorf("expected 3x4 after add_column, got %dx%d", rows, cols)
	}

	callTool(t, srv, "set_table_cell", map[string]interface{}{
		"presentation_id": id,
		"slide_index":     0,
		"shape_index":     newIdx,
		"row":             0,
		"column":          0,
		"text":            "ID",
	})

	info = callTool(t, srv, "get_table_info", map[string]interface{}{
		"presentation_id": id,
		"slide_index":     0,
		"shape_index":     newIdx,
	})
	if got := cellText(t, info, 0, 0); got != "ID" {
		t.Errorf("expected cell [0][0] to be 'ID', got '%s'", got)
	}
	for col, want := range []string{"1", "2", "3"} {
		if got := cellText(t, info, 1, col+1); got != want {
			t.Errorf("expected cell [1][%d] to be '%s', got '%s'", col+1, want, got)
		}
	}
}

func TestTemplateConditionalSlides(t *testing.T) {
	srv, _ := newServer(t)

	tpl := callTool(t, srv, "create_template", map[string]interface{}{
		"name": "quarterly",
		"slides": []map[string]interface{}{
			{
				"layout": 6,
				"elements": []map[string]interface{}{
					{"type": "text", "text": "{{company.name}} results", "left": 1, "top": 1, "width": 8, "height": 1},
				},
			},
			{
				"layout": 6,
				"condition": map[string]interface{}{
					"field":    "metrics.revenue",
					"operator": "greater_than",
					"value":    100,
				},
				"elements": []map[string]interface{}{
					{"type": "text", "text": "Revenue: {{metrics.revenue}}", "left": 1, "top": 1, "width": 8, "height": 1},
				},
			},
		},
	})
	tplID := asString(t, tpl, "template_id")

	strong := callTool(t, srv, "apply_template", map[string]interface{}{
		"template_id": tplID,
		"data": map[string]interface{}{
			"company": map[string]interface{}{"name": "Acme"},
			"metrics": map[string]interface{}{"revenue": 125},
		},
	})
	if got := asInt(t, strong, "slide_count"); got != 2 {
		t.Errorf("expected 2 slides when revenue exceeds the gate, got %d", got)
	}
	extracted := extractText(t, srv, asString(t, strong, "presentation_id"))
	if len(extracted) != 2 || len(extracted[0].TextContent) != 1 || len(extracted[1].TextContent) != 1 {
		t.Fatalf("unexpected extraction shape: %+v", extracted)
	}
	if got := extracted[0].TextContent[0].Text; got != "Acme results" {
		t.Errorf("expected 'Acme results', got '%s'", got)
	}
	if got := extracted[1].TextContent[0].Text; got != "Revenue: 125" {
		t.Errorf("expected 'Revenue: 125', got '%s'", got)
	}

	weak := callTool(t, srv, "apply_template", map[string]interface{}{
		"template_id": tplID,
		"data": map[string]interface{}{
			"company": map[string]interface{}{"name": "Acme"},
			"metrics": map[string]interface{}{"revenue": 75},
		},
	})
	if got := asInt(t, weak, "slide_count"); got != 1 {
		t.Errorf("expected the gated slide to be skipped at revenue 75, got %d slides", got)
	}
}

func TestTemplateSubstitution(t *testing.T) {
	srv, _ := newServer(t)

	tpl := callTool(t, srv, "create_template", map[string]interface{}{
		"name": "summary",
		"slides": []map[string]interface{}{
			{
				"layout": 6,
				"elements": []map[string]interface{}{
					{"type": "text", "text": "{{company.name}} - {{report.period}} {{report.year}}", "left": 1, "top": 1, "width": 8, "height": 1},
					{"type": "text", "text": "{{missing}}", "left": 1, "top": 3, "width": 8, "height": 1},
				},
			},
		},
	})

	applied := callTool(t, srv, "apply_template", map[string]interface{}{
		"template_id": asString(t, tpl, "template_id"),
		"data": map[string]interface{}{
			"company": map[string]interface{}{"name": "X"},
			"report":  map[string]interface{}{"period": "Q1", "year": 2024},
		},
	})

	extracted := extractText(t, srv, asString(t, applied, "presentation_id"))
	if len(extracted) != 1 || len(extracted[0].TextContent) != 2 {
		t.Fatalf("unexpected extraction shape: %+v", extracted)
	}
	if got := extracted[0].TextContent[0].Text; got != "X - Q1 2024" {
		t.Errorf("expected 'X - Q1 2024', got '%s'", got)
	}
	if got := extracted[0].TextContent[1].Text; got != "{{missing}}" {
		t.Errorf("expected the unresolved placeholder to stay literal, got '%s'", got)
	}
}

func TestConsistencyScoreOverSavedDecks(t *testing.T) {
	srv, dir := newServer(t)

	// Builds one slide of text boxes cycling two sizes and three colors, so
	// the font list is the only style axis that varies between decks.
	buildDeck := func(file string, fonts []string) string {
		t.Helper()
		created := callTool(t, srv, "create_presentation", map[string]interface{}{})
		id := asString(t, created, "presentation_id")
		callTool(t, srv, "add_slide", map[string]interface{}{"presentation_id": id})

		sizes := []float64{24, 32}
		colors := []string{"#FF0000", "#00FF00", "#0000FF"}
		for i, font := range fonts {
			callTool(t, srv, "add_text_box", map[string]interface{}{
				"presentation_id": id,
				"slide_index":     0,
				"text":            fmt.Sprintf("Point %d", i+1),
				"left":            1,
				"top":             float64(i),
				"width":           8,
				"height":          0.8,
				"font_name":       font,
				"font_size":       sizes[i%len(sizes)],
				"color":           colors[i%len(colors)],
			})
		}

		path := filepath.Join(dir, file)
		callTool(t, srv, "save_presentation", map[string]interface{}{
			"presentation_id": id,
			"file_path":       path,
		})
		return path
	}

	uniqueFonts := func(analysis map[string]interface{}) int {
		t.Helper()
		stats, ok := analysis["font_analysis"].(map[string]interface{})
		if !ok {
			t.Fatalf("missing font_analysis: %v", analysis)
		}
		return asInt(t, stats, "unique_fonts")
	}

	uniform := buildDeck("uniform.pptx", []string{"Arial", "Arial", "Arial"})
	analysis := callTool(t, srv, "analyze_presentation_style", map[string]interface{}{
		"file_path": uniform,
	})
	if got := uniqueFonts(analysis); got != 1 {
		t.Errorf("expected 1 unique font after the save/load round trip, got %d", got)
	}
	uniformScore, ok := analysis["consistency_score"].(float64)
	if !ok {
		t.Fatalf("missing consistency_score: %v", analysis)
	}
	if uniformScore != 1.0 {
		t.Errorf("expected consistency score 1.0 for one font, three colors, two sizes, got %v", uniformScore)
	}

	mixed := buildDeck("mixed.pptx", []string{"Arial", "Helvetica", "Georgia", "Verdana", "Garamond"})
	analysis = callTool(t, srv, "analyze_presentation_style", map[string]interface{}{
		"file_path": mixed,
	})
	if got := uniqueFonts(analysis); got != 5 {
		t.Errorf("expected 5 unique fonts, got %d", got)
	}
	mixedScore, ok := analysis["consistency_score"].(float64)
	if !ok {
		t.Fatalf("missing consistency_score: %v", analysis)
	}
	if mixedScore >= uniformScore {
		t.Errorf("expected five fonts to score below %.4f, got %.4f", uniformScore, mixedScore)
	}
}

func TestServerToolInventory(t *testing.T) {
	srv, _ := newServer(t)

	nextID++
	resp := srv.HandleRequest(&mcp.Request{
		JSONRPC: "2.0",
		ID:      nextID,
		Method:  "initialize",
		Params: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"clientInfo":      map[string]interface{}{"name": "e2e", "version": "0"},
		},
	})
	if resp.Error != nil {
		t.Fatalf("initialize failed: %v", resp.Error)
	}

	nextID++
	resp = srv.HandleRequest(&mcp.Request{JSONRPC: "2.0", ID: nextID, Method: "tools/list"})
	if resp.Error != nil {
		t.Fatalf("tools/list failed: %v", resp.Error)
	}
	data, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshaling tool list: %v", err)
	}
	var listing struct {
		Tools []struct {
			Name        string                 `json:"name"`
			Description string                 `json:"description"`
			InputSchema map[string]interface{} `json:"inputSchema"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(data, &listing); err != nil {
		t.Fatalf("decoding tool list: %v", err)
	}

	if len(listing.Tools) != 45 {
		t.Errorf("expected 45 tools, got %d", len(listing.Tools))
	}
	names := make(map[string]bool, len(listing.Tools))
	for _, tool := range listing.Tools {
		names[tool.Name] = true
		if tool.Description == "" {
			t.Errorf("tool %s has no description", tool.Name)
		}
		if tool.InputSchema["type"] != "object" {
			t.Errorf("tool %s schema is not an object schema", tool.Name)
		}
	}
	for _, want := range []string{
		"create_presentation",
		"add_slide",
		"add_text_box",
		"create_table_with_data",
		"apply_template",
		"analyze_presentation_style",
		"health_check",
	} {
		if !names[want] {
			t.Errorf("expected tool %s to be registered", want)
		}
	}
}

func TestUnknownHandleError(t *testing.T) {
	srv, _ := newServer(t)

	resp := callToolRaw(srv, "get_presentation_info", map[string]interface{}{
		"presentation_id": "prs_404",
	})
	if resp.Error == nil {
		t.Fatal("expected an error for an unknown handle")
	}
	if resp.Error.Code != -32001 {
		t.Errorf("expected code -32001, got %d", resp.Error.Code)
	}
	detail, ok := resp.Error.Data.(map[string]interface{})
	if !ok || detail["kind"] != "handle_not_found" {
		t.Errorf("expected handle_not_found kind, got %v", resp.Error.Data)
	}
}
