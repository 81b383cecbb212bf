package mcp

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/slidesmith/slidesmith-mcp/internal/tools"
	"github.com/slidesmith/slidesmith-mcp/pkg/protocol"
)

// maxMessageSize caps a single request line. Template definitions and bulk
// datasets arrive inline, so the limit is generous.
const maxMessageSize = 16 * 1024 * 1024

type flusher interface {
	Flush() error
}

type Server struct {
	registry *tools.Registry
	handler  *Handler
}

func NewServer(registry *tools.Registry) *Server {
	return &Server{
		registry: registry,
		handler:  NewHandler(registry),
	}
}

func (s *Server) HandleRequest(req *Request) *Response {
	return s.handler.Handle(req)
}

// ProcessStream serves newline-delimited JSON-RPC until EOF or a shutdown
// request. Each response is flushed when the writer supports it, so messages
// reach the client as soon as they are encoded.
func (s *Server) ProcessStream(reader io.Reader, writer io.Writer) error {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
	encoder := json.NewEncoder(writer)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			resp := &Response{
				JSONRPC: "2.0",
				Error: &protocol.JSONRPCError{
					Code:    -32700,
					Message: "Parse error",
				},
			}
			if werr := writeResponse(encoder, writer, resp); werr != nil {
				return werr
			}
			continue
		}

		resp := s.HandleRequest(&req)
		if resp != nil {
			if err := writeResponse(encoder, writer, resp); err != nil {
				return err
			}
		}

		if s.handler.ShutdownRequested() {
			log.Info("stdio server stopping")
			return nil
		}
	}

	return scanner.Err()
}

func writeResponse(encoder *json.Encoder, writer io.Writer, resp *Response) error {
	if err := encoder.Encode(resp); err != nil {
		return err
	}
	if f, ok := writer.(flusher); ok {
		return f.Flush()
	}
	return nil
}

func (s *Server) Handler() *Handler {
	return s.handler
}

func (s *Server) Registry() *tools.Registry {
	return s.registry
}
