package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/slidesmith/slidesmith-mcp/internal/tools"
	"github.com/slidesmith/slidesmith-mcp/pkg/protocol"
)

type fakeTool struct {
	name string
	fail error
}

func (t *fakeTool) Name() string {
	return t.name
}

func (t *fakeTool) Title() string {
	return "Fake Tool"
}

func (t *fakeTool) Description() string {
	return "test fixture"
}

func (t *fakeTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *fakeTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func (t *fakeTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if t.fail != nil {
		return nil, t.fail
	}
	return map[string]interface{}{"echo": string(input)}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	registry := tools.NewRegistry()
	if err := registry.RegisterAll([]tools.Tool{
		&fakeTool{name: "echo"},
		&fakeTool{name: "broken", fail: tools.NewHandleNotFound("presentation not found: prs_9")},
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return NewServer(registry)
}

func runStream(t *testing.T, s *Server, lines []string) []protocol.JSONRPCResponse {
	t.Helper()
	input := strings.Join(lines, "\n") + "\n"
	var out bytes.Buffer
	if err := s.ProcessStream(strings.NewReader(input), &out); err != nil {
		t.Fatalf("stream failed: %v", err)
	}

	var responses []protocol.JSONRPCResponse
	decoder := json.NewDecoder(&out)
	for decoder.More() {
		var resp protocol.JSONRPCResponse
		if err := decoder.Decode(&resp); err != nil {
			t.Fatalf("bad response: %v", err)
		}
		responses = append(responses, resp)
	}
	return responses
}

func TestInitializeHandshake(t *testing.T) {
	s := newTestServer(t)

	responses := runStream(t, s, []string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","clientInfo":{"name":"test-client","version":"0.1"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	})

	if len(responses) != 2 {
		t.Fatalf("expected 2 responses (notification unanswered), got %d", len(responses))
	}

	result := responses[0].Result.(map[string]interface{})
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("expected negotiated version 2024-11-05, got %v", result["protocolVersion"])
	}
	serverInfo := result["serverInfo"].(map[string]interface{})
	if serverInfo["name"] != "slidesmith" {
		t.Errorf("expected server name slidesmith, got %v", serverInfo["name"])
	}

	if responses[1].Error != nil {
		t.Errorf("ping should succeed: %v", responses[1].Error)
	}
}

func TestListToolsIncludesAnnotations(t *testing.T) {
	s := newTestServer(t)

	responses := runStream(t, s, []string{
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`,
	})

	result := responses[0].Result.(map[string]interface{})
	list := result["tools"].([]interface{})
	if len(list) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(list))
	}

	first := list[0].(map[string]interface{})
	if first["name"] != "broken" {
		t.Errorf("tools should list alphabetically, got '%v' first", first["name"])
	}
	if first["title"] != "Fake Tool" {
		t.Errorf("expected title, got %v", first["title"])
	}
	annotations := first["annotations"].(map[string]interface{})
	if annotations["readOnlyHint"] != true {
		t.Errorf("expected readOnlyHint, got %v", annotations)
	}
	schema := first["inputSchema"].(map[string]interface{})
	if schema["type"] != "object" {
		t.Errorf("expected object schema, got %v", schema)
	}
}

func TestCallToolWrapsResultAsContent(t *testing.T) {
	s := newTestServer(t)

	responses := runStream(t, s, []string{
		`{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"echo","arguments":{"x":1}}}`,
	})

	resp := responses[0]
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]interface{})
	if len(content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(content))
	}
	block := content[0].(map[string]interface{})
	if block["type"] != "text" {
		t.Errorf("expected text block, got %v", block["type"])
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(block["text"].(string)), &payload); err != nil {
		t.Fatalf("content text is not JSON: %v", err)
	}
	if payload["echo"] != `{"x":1}` {
		t.Errorf("unexpected payload: %v", payload)
	}
}

func TestCallToolErrorsCarryTaxonomy(t *testing.T) {
	s := newTestServer(t)

	responses := runStream(t, s, []string{
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"broken","arguments":{}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"missing","arguments":{}}}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{}}`,
	})

	if len(responses) != 3 {
		t.Fatalf("expected 3 responses, got %d", len(responses))
	}
	if responses[0].Error == nil || responses[0].Error.Code != -32001 {
		t.Fatalf("expected handle_not_found code, got %+v", responses[0].Error)
	}
	data := responses[0].Error.Data.(map[string]interface{})
	if data["kind"] != "handle_not_found" {
		t.Errorf("expected kind in error data, got %v", data)
	}

	if responses[1].Error == nil || responses[1].Error.Code != -32601 {
		t.Errorf("expected unknown_tool code, got %+v", responses[1].Error)
	}
	if responses[2].Error == nil || responses[2].Error.Code != -32602 {
		t.Errorf("expected bad_argument for missing name, got %+v", responses[2].Error)
	}
}

func TestMalformedAndUnknownRequests(t *testing.T) {
	s := newTestServer(t)

	responses := runStream(t, s, []string{
		`{not json`,
		`{"jsonrpc":"2.0","id":1,"method":"resources/list"}`,
	})

	if responses[0].Error == nil || responses[0].Error.Code != -32700 {
		t.Errorf("expected parse error, got %+v", responses[0].Error)
	}
	if responses[1].Error == nil || responses[1].Error.Code != -32601 {
		t.Errorf("expected method not found, got %+v", responses[1].Error)
	}
}

func TestShutdownStopsStream(t *testing.T) {
	s := newTestServer(t)

	responses := runStream(t, s, []string{
		`{"jsonrpc":"2.0","id":1,"method":"shutdown"}`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	})

	if len(responses) != 1 {
		t.Fatalf("expected stream to stop after shutdown, got %d responses", len(responses))
	}
	if responses[0].Error != nil {
		t.Errorf("shutdown should succeed: %v", responses[0].Error)
	}
	if !s.Handler().ShutdownRequested() {
		t.Error("handler should report shutdown")
	}
}
