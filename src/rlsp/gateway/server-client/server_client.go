// Package serverclient manages outbound JSON-RPC connections to language server processes.
package serverclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/drzbida/roslyn-lsp/src/rlsp/entity"
	"github.com/drzbida/roslyn-lsp/src/rlsp/mapper"
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"
)

const _errSendToServer = "sending call/notification to language server: %w"

// Handle is a single live connection to a language server process.
type Handle interface {
	// Request issues a request and decodes the response into result, which may be nil.
	Request(ctx context.Context, method string, params, result interface{}) error
	// Notify sends a notification. No response is expected.
	Notify(ctx context.Context, method string, params interface{}) error
	// Done is closed once the connection has terminated for any reason.
	Done() <-chan struct{}
	// Err returns the terminal connection error, if any. Valid after Done is closed.
	Err() error
	// Close terminates the connection.
	Close() error
}

// Transport establishes a connection to a running language server endpoint.
// Locating and launching server binaries is the launcher's concern, not the daemon's.
type Transport interface {
	Connect(ctx context.Context, cfg entity.ServerConfig, handler jsonrpc2.Handler) (Handle, error)
}

// Gateway routes outbound calls and notifications to the server connection that belongs
// to the session UUID carried in the context.
type Gateway interface {
	// RegisterHandle binds a server connection to a session. Replaces any prior binding.
	RegisterHandle(ctx context.Context, id uuid.UUID, h Handle) error
	// DeregisterHandle removes a session's server connection binding.
	DeregisterHandle(ctx context.Context, id uuid.UUID) error

	// Requester returns the raw outgoing request function for a session, suitable
	// for wrapping by interceptors. The response handler may be nil.
	Requester(id uuid.UUID) entity.Requester

	Request(ctx context.Context, method string, params, result interface{}) error
	Notify(ctx context.Context, method string, params interface{}) error

	// Typed wrappers for the server's workspace target and restore surface.
	OpenSolution(ctx context.Context, solution uri.URI) error
	OpenProjects(ctx context.Context, projects []uri.URI) error
	Restore(ctx context.Context, params *entity.ProjectNeedsRestoreParams) ([]entity.RestorePartialResult, error)

	// Document lifecycle forwarding.
	DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error
	DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error
	DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error
	DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error
	DidChangeWatchedFiles(ctx context.Context, params *protocol.DidChangeWatchedFilesParams) error
}

type gateway struct {
	handles   map[uuid.UUID]Handle
	handlesMu sync.Mutex
	logger    *zap.SugaredLogger
}

// New returns a Gateway for sending language server calls and notifications.
func New(logger *zap.SugaredLogger) Gateway {
	return &gateway{
		handles: make(map[uuid.UUID]Handle),
		logger:  logger,
	}
}

func (g *gateway) RegisterHandle(ctx context.Context, id uuid.UUID, h Handle) error {
	g.handlesMu.Lock()
	defer g.handlesMu.Unlock()

	g.handles[id] = h
	return nil
}

func (g *gateway) DeregisterHandle(ctx context.Context, id uuid.UUID) error {
	g.handlesMu.Lock()
	defer g.handlesMu.Unlock()

	delete(g.handles, id)
	return nil
}

// Requester returns the base outgoing request function for a session.
// The request runs on its own goroutine; the handler observes the raw result.
func (g *gateway) Requester(id uuid.UUID) entity.Requester {
	return func(ctx context.Context, method string, params interface{}, handler entity.ResponseHandler) error {
		g.handlesMu.Lock()
		h, ok := g.handles[id]
		g.handlesMu.Unlock()
		if !ok {
			return fmt.Errorf("no server connection for session %q", id)
		}

		go func() {
			var result json.RawMessage
			err := h.Request(ctx, method, params, &result)
			if handler != nil {
				handler(result, err)
			}
		}()
		return nil
	}
}

func (g *gateway) Request(ctx context.Context, method string, params, result interface{}) error {
	h, err := g.getHandle(ctx)
	if err != nil {
		return fmt.Errorf(_errSendToServer, err)
	}
	return h.Request(ctx, method, params, result)
}

func (g *gateway) Notify(ctx context.Context, method string, params interface{}) error {
	h, err := g.getHandle(ctx)
	if err != nil {
		return fmt.Errorf(_errSendToServer, err)
	}
	return h.Notify(ctx, method, params)
}

func (g *gateway) OpenSolution(ctx context.Context, solution uri.URI) error {
	return g.Notify(ctx, entity.MethodSolutionOpen, &entity.OpenSolutionParams{Solution: solution})
}

func (g *gateway) OpenProjects(ctx context.Context, projects []uri.URI) error {
	return g.Notify(ctx, entity.MethodProjectOpen, &entity.OpenProjectsParams{Projects: projects})
}

func (g *gateway) Restore(ctx context.Context, params *entity.ProjectNeedsRestoreParams) ([]entity.RestorePartialResult, error) {
	var result []entity.RestorePartialResult
	if err := g.Request(ctx, entity.MethodRestore, params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (g *gateway) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	return g.Notify(ctx, protocol.MethodTextDocumentDidOpen, params)
}

func (g *gateway) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	return g.Notify(ctx, protocol.MethodTextDocumentDidClose, params)
}

func (g *gateway) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	return g.Notify(ctx, protocol.MethodTextDocumentDidChange, params)
}

func (g *gateway) DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error {
	return g.Notify(ctx, protocol.MethodTextDocumentDidSave, params)
}

func (g *gateway) DidChangeWatchedFiles(ctx context.Context, params *protocol.DidChangeWatchedFilesParams) error {
	return g.Notify(ctx, protocol.MethodWorkspaceDidChangeWatchedFiles, params)
}

func (g *gateway) getHandle(ctx context.Context) (Handle, error) {
	g.handlesMu.Lock()
	defer g.handlesMu.Unlock()

	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return nil, err
	}

	h, ok := g.handles[id]
	if !ok {
		return nil, fmt.Errorf("server connection for session %q not found", id)
	}
	return h, nil
}

// tcpTransport dials a language server's JSON-RPC endpoint over TCP.
type tcpTransport struct {
	logger *zap.SugaredLogger
}

// NewTransport returns the default Transport, which dials the configured address.
func NewTransport(logger *zap.SugaredLogger) Transport {
	return &tcpTransport{logger: logger}
}

func (t *tcpTransport) Connect(ctx context.Context, cfg entity.ServerConfig, handler jsonrpc2.Handler) (Handle, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("server address is required")
	}

	var d net.Dialer
	netConn, err := d.DialContext(ctx, "tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("dialing language server at %q: %w", cfg.Address, err)
	}

	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(netConn))
	if handler == nil {
		handler = jsonrpc2.MethodNotFoundHandler
	}
	conn.Go(ctx, handler)
	t.logger.Infow("connected to language server", zap.String("address", cfg.Address))

	return &connHandle{conn: conn}, nil
}

type connHandle struct {
	conn jsonrpc2.Conn
}

func (h *connHandle) Request(ctx context.Context, method string, params, result interface{}) error {
	_, err := h.conn.Call(ctx, method, params, result)
	return err
}

func (h *connHandle) Notify(ctx context.Context, method string, params interface{}) error {
	return h.conn.Notify(ctx, method, params)
}

func (h *connHandle) Done() <-chan struct{} {
	return h.conn.Done()
}

func (h *connHandle) Err() error {
	return h.conn.Err()
}

func (h *connHandle) Close() error {
	return h.conn.Close()
}
