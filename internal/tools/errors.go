package tools

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to clients. Each kind maps to a stable JSON-RPC code
// so orchestrators can branch on failures without parsing messages.
const (
	KindBadArgument         = "bad_argument"
	KindHandleNotFound      = "handle_not_found"
	KindIndexOutOfRange     = "index_out_of_range"
	KindInvalidState        = "invalid_state"
	KindShapeMismatch       = "shape_mismatch"
	KindImageFetchError     = "image_fetch_error"
	KindRendererUnavailable = "renderer_unavailable"
	KindUnknownTool         = "unknown_tool"
	KindIOError             = "io_error"
	KindInternal            = "internal"
)

var kindCodes = map[string]int{
	KindBadArgument:         -32602,
	KindHandleNotFound:      -32001,
	KindIndexOutOfRange:     -32002,
	KindInvalidState:        -32003,
	KindShapeMismatch:       -32004,
	KindImageFetchError:     -32005,
	KindRendererUnavailable: -32006,
	KindIOError:             -32007,
	KindUnknownTool:         -32601,
	KindInternal:            -32603,
}

type ToolError struct {
	Code    int
	Kind    string
	Message string
	Err     error
}

func (e *ToolError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

func newError(kind, format string, args ...interface{}) *ToolError {
	return &ToolError{
		Code:    kindCodes[kind],
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func NewBadArgument(format string, args ...interface{}) *ToolError {
	return newError(KindBadArgument, format, args...)
}

func NewHandleNotFound(format string, args ...interface{}) *ToolError {
	return newError(KindHandleNotFound, format, args...)
}

func NewIndexOutOfRange(format string, args ...interface{}) *ToolError {
	return newError(KindIndexOutOfRange, format, args...)
}

func NewInvalidState(format string, args ...interface{}) *ToolError {
	return newError(KindInvalidState, format, args...)
}

func NewShapeMismatch(format string, args ...interface{}) *ToolError {
	return newError(KindShapeMismatch, format, args...)
}

func NewImageFetchError(err error, format string, args ...interface{}) *ToolError {
	e := newError(KindImageFetchError, format, args...)
	e.Err = err
	return e
}

func NewRendererUnavailable(format string, args ...interface{}) *ToolError {
	return newError(KindRendererUnavailable, format, args...)
}

func NewUnknownTool(name string) *ToolError {
	return newError(KindUnknownTool, "tool not found: %s", name)
}

func NewIOError(err error, format string, args ...interface{}) *ToolError {
	e := newError(KindIOError, format, args...)
	e.Err = err
	return e
}

func NewInternal(err error, format string, args ...interface{}) *ToolError {
	e := newError(KindInternal, format, args...)
	e.Err = err
	return e
}

// AsToolError classifies any error as a ToolError, wrapping unclassified
// errors as internal.
func AsToolError(err error) *ToolError {
	var te *ToolError
	if errors.As(err, &te) {
		return te
	}
	return NewInternal(err, "%v", err)
}
