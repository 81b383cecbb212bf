package daemon

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/slidesmith/slidesmith-mcp/internal/logger"
	"github.com/slidesmith/slidesmith-mcp/internal/mcp"
)

var log = logger.ForComponent("daemon")

// Daemon serves the MCP handler on a unix socket so several clients can
// share one session registry. Presentation handles opened by one client stay
// valid for the next.
type Daemon struct {
	socketPath   string
	listener     *SocketListener
	server       *mcp.Server
	lifecycle    *LifecycleManager
	conns        map[*jsonrpc2.Conn]bool
	connMu       sync.Mutex
	shutdown     chan struct{}
	shutdownOnce sync.Once
	startTime    time.Time
}

func NewDaemon(baseDir, socketPath string, server *mcp.Server) *Daemon {
	return &Daemon{
		socketPath: socketPath,
		listener:   NewSocketListener(socketPath),
		server:     server,
		lifecycle:  NewLifecycleManager(baseDir, socketPath),
		conns:      make(map[*jsonrpc2.Conn]bool),
		shutdown:   make(chan struct{}),
		startTime:  time.Now(),
	}
}

// Run blocks until a signal arrives or a client requests shutdown. The
// instance lock guarantees at most one daemon per data directory.
func (d *Daemon) Run() error {
	if err := d.lifecycle.AcquireInstanceLock(); err != nil {
		return err
	}
	defer d.lifecycle.Cleanup()

	if err := d.lifecycle.RegisterRunningDaemon(); err != nil {
		return err
	}
	if err := d.listener.Start(); err != nil {
		return err
	}

	log.Info("daemon listening", "socket", d.socketPath, "pid", os.Getpid())

	go d.acceptConnections()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		log.Info("signal received", "signal", sig.String())
	case <-d.shutdown:
	}

	d.Shutdown()
	return nil
}

func (d *Daemon) acceptConnections() {
	for {
		conn, err := d.listener.Accept()
		if err != nil {
			select {
			case <-d.shutdown:
				return
			default:
				log.Warn("accept failed", "error", err)
				continue
			}
		}

		go d.handleConnection(conn)
	}
}

func (d *Daemon) handleConnection(netConn net.Conn) {
	stream := jsonrpc2.NewBufferedStream(netConn, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(context.Background(), stream, jsonrpc2.AsyncHandler(&connHandler{daemon: d}))

	d.connMu.Lock()
	d.conns[conn] = true
	total := len(d.conns)
	d.connMu.Unlock()

	log.Debug("client connected", "active", total)

	<-conn.DisconnectNotify()

	d.connMu.Lock()
	delete(d.conns, conn)
	d.connMu.Unlock()

	log.Debug("client disconnected")
}

// Shutdown closes the listener and every live connection. Safe to call more
// than once.
func (d *Daemon) Shutdown() {
	d.shutdownOnce.Do(func() {
		close(d.shutdown)

		d.listener.Close()

		d.connMu.Lock()
		for conn := range d.conns {
			conn.Close()
		}
		d.connMu.Unlock()

		log.Info("daemon stopped", "uptime", d.Uptime().Round(time.Second).String())
	})
}

func (d *Daemon) SocketPath() string {
	return d.socketPath
}

func (d *Daemon) Uptime() time.Duration {
	return time.Since(d.startTime)
}

// connHandler adapts jsonrpc2 requests onto the shared MCP handler.
type connHandler struct {
	daemon *Daemon
}

func (h *connHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	resp := h.daemon.server.HandleRequest(toRequest(req))
	if req.Notif || resp == nil {
		return
	}

	if resp.Error != nil {
		rpcErr := &jsonrpc2.Error{
			Code:    int64(resp.Error.Code),
			Message: resp.Error.Message,
		}
		if resp.Error.Data != nil {
			rpcErr.SetError(resp.Error.Data)
		}
		if err := conn.ReplyWithError(ctx, req.ID, rpcErr); err != nil {
			log.Warn("error reply failed", "method", req.Method, "error", err)
		}
	} else {
		if err := conn.Reply(ctx, req.ID, resp.Result); err != nil {
			log.Warn("reply failed", "method", req.Method, "error", err)
		}
	}

	// A shutdown reply must reach the client before teardown starts.
	if h.daemon.server.Handler().ShutdownRequested() {
		h.daemon.Shutdown()
	}
}

func toRequest(req *jsonrpc2.Request) *mcp.Request {
	out := &mcp.Request{
		JSONRPC: "2.0",
		Method:  req.Method,
	}
	if !req.Notif {
		if req.ID.IsString {
			out.ID = req.ID.Str
		} else {
			out.ID = req.ID.Num
		}
	}
	if req.Params != nil {
		var params map[string]interface{}
		if err := json.Unmarshal(*req.Params, &params); err == nil {
			out.Params = params
		}
	}
	return out
}
