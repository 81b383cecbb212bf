package mcp

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/slidesmith/slidesmith-mcp/internal/logger"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
	"github.com/slidesmith/slidesmith-mcp/pkg/protocol"
	"github.com/slidesmith/slidesmith-mcp/pkg/version"
)

var log = logger.ForComponent("mcp")

// toolCallTimeout bounds a single tools/call. Rendering and bulk generation
// are the slow paths; everything else finishes in milliseconds.
const toolCallTimeout = 4 * time.Minute

// Handler dispatches MCP methods onto the tool registry. One Handler may be
// shared by several transports at once (the daemon runs one per process), so
// the handshake state is guarded.
type Handler struct {
	registry  *tools.Registry
	startTime time.Time

	mu          sync.Mutex
	initialized bool
	clientInfo  ClientInfo
	stopping    bool
}

func NewHandler(registry *tools.Registry) *Handler {
	return &Handler{
		registry:  registry,
		startTime: time.Now(),
	}
}

// ShutdownRequested reports whether a shutdown request has been handled.
// Transports check it after writing the response, so the reply reaches the
// client before teardown begins.
func (h *Handler) ShutdownRequested() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopping
}

// Handle processes a single request. Notifications return a nil response and
// must not be answered.
func (h *Handler) Handle(req *Request) *Response {
	resp := &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
	}

	switch req.Method {
	case "initialize":
		result, err := h.handleInitialize(req)
		if err != nil {
			resp.Error = &protocol.JSONRPCError{
				Code:    -32602,
				Message: err.Error(),
			}
		} else {
			resp.Result = result
		}
	case "ping":
		resp.Result = map[string]interface{}{}
	case "tools/list":
		resp.Result = h.handleListTools()
	case "tools/call":
		result, err := h.handleCallTool(req)
		if err != nil {
			resp.Error = callError(err)
		} else {
			resp.Result = result
		}
	case "shutdown":
		h.mu.Lock()
		h.stopping = true
		h.mu.Unlock()
		log.Info("shutdown requested")
		resp.Result = map[string]interface{}{}
	case "initialized", "notifications/initialized":
		h.mu.Lock()
		h.initialized = true
		h.mu.Unlock()
		return nil
	default:
		resp.Error = &protocol.JSONRPCError{
			Code:    -32601,
			Message: fmt.Sprintf("Method not found: %s", req.Method),
		}
	}

	return resp
}

func (h *Handler) handleInitialize(req *Request) (interface{}, error) {
	var init InitializeRequest

	paramsData, err := json.Marshal(req.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}
	if err := json.Unmarshal(paramsData, &init); err != nil {
		return nil, fmt.Errorf("failed to parse initialize request: %w", err)
	}

	h.mu.Lock()
	h.clientInfo.Name = init.ClientInfo.Name
	h.clientInfo.Version = init.ClientInfo.Version
	h.mu.Unlock()

	log.Info("client initialized",
		"client", init.ClientInfo.Name,
		"client_version", init.ClientInfo.Version)

	return map[string]interface{}{
		"protocolVersion": negotiateProtocolVersion(init.ProtocolVersion),
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    "slidesmith",
			"version": version.Version,
		},
	}, nil
}

func negotiateProtocolVersion(clientVersion string) string {
	for _, v := range version.SupportedProtocolVersions {
		if clientVersion == v {
			return v
		}
	}

	return version.ProtocolVersion
}

func (h *Handler) handleListTools() interface{} {
	list := h.registry.List()
	entries := make([]protocol.Tool, len(list))

	for i, t := range list {
		var schema map[string]interface{}
		if err := json.Unmarshal(t.Schema(), &schema); err != nil {
			log.Warn("tool schema is not a JSON object", "tool", t.Name(), "error", err)
			schema = map[string]interface{}{"type": "object"}
		}

		entry := protocol.Tool{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: schema,
		}
		if annotated, ok := t.(tools.AnnotatedTool); ok {
			entry.Title = annotated.Title()
			entry.Annotations = annotated.Annotations()
		}
		entries[i] = entry
	}

	return map[string]interface{}{
		"tools": entries,
	}
}

func (h *Handler) handleCallTool(req *Request) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = tools.NewInternal(fmt.Errorf("%v", r), "tool execution panicked")
			log.Error("tool panic recovered",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()

	var call CallToolRequest

	paramsData, err := json.Marshal(req.Params)
	if err != nil {
		return nil, tools.NewBadArgument("failed to marshal params: %v", err)
	}
	if err := json.Unmarshal(paramsData, &call); err != nil {
		return nil, tools.NewBadArgument("failed to parse tool call request: %v", err)
	}
	if call.Name == "" {
		return nil, tools.NewBadArgument("tool name is required")
	}

	started := time.Now()
	result, err = h.registry.ExecuteWithTimeout(call.Name, call.Arguments, toolCallTimeout)
	if err != nil {
		log.Warn("tool call failed",
			"tool", call.Name,
			"elapsed", time.Since(started),
			"error", err)
		return nil, err
	}
	log.Debug("tool call completed", "tool", call.Name, "elapsed", time.Since(started))

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, tools.NewInternal(err, "failed to marshal result")
	}

	return map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": string(resultJSON),
			},
		},
	}, nil
}

// callError maps a tool failure onto the JSON-RPC envelope, keeping the
// taxonomy code and exposing the kind so clients can branch without parsing
// messages.
func callError(err error) *protocol.JSONRPCError {
	te := tools.AsToolError(err)
	return &protocol.JSONRPCError{
		Code:    te.Code,
		Message: te.Error(),
		Data:    map[string]interface{}{"kind": te.Kind},
	}
}
