package protocol

import (
	"bufio"
	"io"
	"sync"
)

// FlushWriter buffers writes and exposes an explicit Flush so that each
// JSON-RPC message reaches the peer as soon as it is fully encoded.
type FlushWriter struct {
	mu sync.Mutex
	w  *bufio.Writer
}

func NewFlushWriter(w io.Writer) *FlushWriter {
	return &FlushWriter{w: bufio.NewWriter(w)}
}

func (f *FlushWriter) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.w.Write(p)
}

func (f *FlushWriter) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.w.Flush()
}
