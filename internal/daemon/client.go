package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/slidesmith/slidesmith-mcp/pkg/protocol"
)

// Client talks to a running daemon over its unix socket.
type Client struct {
	conn *jsonrpc2.Conn
}

type noopHandler struct{}

func (noopHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {}

func Dial(ctx context.Context, socketPath string) (*Client, error) {
	dialer := net.Dialer{Timeout: 2 * time.Second}
	netConn, err := dialer.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("daemon not reachable at %s: %w", socketPath, err)
	}

	stream := jsonrpc2.NewBufferedStream(netConn, jsonrpc2.VSCodeObjectCodec{})
	return &Client{conn: jsonrpc2.NewConn(ctx, stream, noopHandler{})}, nil
}

func (c *Client) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	var result json.RawMessage
	if err := c.conn.Call(ctx, method, params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CallTool invokes a named tool through the daemon and returns the wrapped
// MCP result.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}) (json.RawMessage, error) {
	return c.Call(ctx, "tools/call", protocol.ToolCall{Name: name, Arguments: args})
}

// Forward relays one request read from a stdio client and converts the reply
// back into the envelope the stdio transport expects. Requests without an id
// are sent as notifications and produce no response.
func (c *Client) Forward(ctx context.Context, req *protocol.JSONRPCRequest) *protocol.JSONRPCResponse {
	if req.ID == nil {
		if err := c.conn.Notify(ctx, req.Method, req.Params); err != nil {
			log.Warn("notify failed", "method", req.Method, "error", err)
		}
		return nil
	}

	resp := &protocol.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
	}

	var result json.RawMessage
	if err := c.conn.Call(ctx, req.Method, req.Params, &result); err != nil {
		var rpcErr *jsonrpc2.Error
		if errors.As(err, &rpcErr) {
			resp.Error = &protocol.JSONRPCError{
				Code:    int(rpcErr.Code),
				Message: rpcErr.Message,
			}
			if rpcErr.Data != nil {
				resp.Error.Data = json.RawMessage(*rpcErr.Data)
			}
		} else {
			resp.Error = &protocol.JSONRPCError{
				Code:    -32603,
				Message: err.Error(),
			}
		}
		return resp
	}

	resp.Result = result
	return resp
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
