package mcp

import (
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/pkg/protocol"
)

type Request = protocol.JSONRPCRequest
type Response = protocol.JSONRPCResponse

// ClientInfo is the peer identity captured from the initialize handshake.
type ClientInfo struct {
	Name    string
	Version string
}

type InitializeRequest struct {
	ProtocolVersion string `json:"protocolVersion"`
	ClientInfo      struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"clientInfo"`
}

type CallToolRequest struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}
