// Package rlspdaemon implements the rlsp-daemon business logic.
package rlspdaemon

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/drzbida/roslyn-lsp/src/rlsp/controller/diagnostics"
	"github.com/drzbida/roslyn-lsp/src/rlsp/controller/restore"
	"github.com/drzbida/roslyn-lsp/src/rlsp/entity"
	sessionhandlers "github.com/drzbida/roslyn-lsp/src/rlsp/entity/session-handlers"
	notifier "github.com/drzbida/roslyn-lsp/src/rlsp/gateway/editor-client"
	serverclient "github.com/drzbida/roslyn-lsp/src/rlsp/gateway/server-client"
	"github.com/drzbida/roslyn-lsp/src/rlsp/internal/filewatch"
	"github.com/drzbida/roslyn-lsp/src/rlsp/internal/roots"
	"github.com/drzbida/roslyn-lsp/src/rlsp/repository/session"
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// Error templates
	_errBadHookCall       = "calling session hook: %s"
	_errHookReturnedError = "session hook %q returned error: %s"

	// Configuration keys
	_idleTimeoutMinutesKey = "idleTimeoutMinutes"
	_serverKey             = "server"

	_builtinSourceKey = "rlsp-daemon"
)

// Controller orchestrates the business logic for each request.
type Controller interface {
	// LSP Methods defined per protocol.
	Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error)
	Initialized(ctx context.Context, params *protocol.InitializedParams) (err error)
	Shutdown(ctx context.Context) (err error)
	Exit(ctx context.Context) error

	// Document related methods.
	DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error
	DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error
	DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error
	DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error

	// Diagnostic issues a pull diagnostics request against the session's server
	// connection. The handler observes the raw response.
	Diagnostic(ctx context.Context, params *entity.DocumentDiagnosticParams, handler entity.ResponseHandler) error

	// SelectTarget replaces the session's workspace target. Any running server
	// connection for the session is stopped first.
	SelectTarget(ctx context.Context, root entity.WorkspaceRoot) error

	// Custom methods for use within this service.
	RequestFullShutdown(ctx context.Context) error
	InitSession(ctx context.Context, conn *jsonrpc2.Conn) (uuid.UUID, error)
	EndSession(ctx context.Context, uuid uuid.UUID) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Shutdowner fx.Shutdowner
	Sessions   session.Repository
	Editors    notifier.Gateway
	Servers    serverclient.Gateway
	Transport  serverclient.Transport
	Logger     *zap.SugaredLogger
	Config     config.Provider
	Watcher    filewatch.Watcher
	Selector   roots.Selector

	Diagnostics diagnostics.Controller
	Restores    restore.Coordinator

	// Hooks supplied by the embedding host. Optional.
	Hooks *sessionhandlers.Hooks `optional:"true"`
}

type controller struct {
	sessions           session.Repository
	shutdowner         fx.Shutdowner
	fullShutdown       bool
	idleTimer          *time.Timer
	idleTimerMu        sync.Mutex
	idleTimeoutMinutes time.Duration
	logger             *zap.SugaredLogger
	editors            notifier.Gateway
	servers            serverclient.Gateway
	transport          serverclient.Transport
	watcher            filewatch.Watcher
	selector           roots.Selector
	diags              diagnostics.Controller
	restores           restore.Coordinator
	hooks              *sessionhandlers.Hooks
	serverCfg          entity.ServerConfig

	// Per-session state guarded by stateMu.
	stateMu      sync.Mutex
	handles      map[uuid.UUID]serverclient.Handle
	handlers     map[uuid.UUID]*sessionhandlers.Methods
	pendingOpens map[uuid.UUID][]*protocol.DidOpenTextDocumentParams

	wg sync.WaitGroup
}

// New constructs a new top-level controller for the service.
func New(p Params) (Controller, error) {
	ctx := context.Background()

	var timeoutMinutesRaw int64
	if err := p.Config.Get(_idleTimeoutMinutesKey).Populate(&timeoutMinutesRaw); err != nil || timeoutMinutesRaw == 0 {
		return nil, fmt.Errorf("unable to get idle timeout from config: %w", err)
	}
	var serverCfg entity.ServerConfig
	if err := p.Config.Get(_serverKey).Populate(&serverCfg); err != nil {
		return nil, fmt.Errorf("unable to get server config: %w", err)
	}
	if serverCfg.FileWatching == "" {
		serverCfg.FileWatching = entity.FileWatchingAuto
	}

	c := &controller{
		sessions:   p.Sessions,
		shutdowner: p.Shutdowner,
		logger:     p.Logger,
		editors:    p.Editors,
		servers:    p.Servers,
		transport:  p.Transport,
		watcher:    p.Watcher,
		selector:   p.Selector,
		diags:      p.Diagnostics,
		restores:   p.Restores,
		hooks:      p.Hooks,
		serverCfg:  serverCfg,

		idleTimeoutMinutes: time.Duration(timeoutMinutesRaw) * time.Minute,
		handles:            map[uuid.UUID]serverclient.Handle{},
		handlers:           map[uuid.UUID]*sessionhandlers.Methods{},
		pendingOpens:       map[uuid.UUID][]*protocol.DidOpenTextDocumentParams{},
	}
	c.refreshIdleTimer(ctx)

	return c, nil
}

// refreshIdleTimer ensures that the service shuts down after a defined inactivity period with no connections.
func (c *controller) refreshIdleTimer(ctx context.Context) error {
	c.idleTimerMu.Lock()
	defer c.idleTimerMu.Unlock()

	// First call initializes new timer and leaves it running prior to first connection.
	if c.idleTimer == nil {
		c.idleTimer = time.NewTimer(c.idleTimeoutMinutes)
		go func() {
			<-c.idleTimer.C
			c.logger.Info("Shutdown signal received.")
			if err := c.shutdowner.Shutdown(); err != nil {
				os.Exit(1)
			}
		}()
		return nil
	}

	// Subsequent calls stop the timer and reset it only if no connections are active.
	currentSessions, err := c.sessions.SessionCount(ctx)
	if err != nil {
		return fmt.Errorf("error resetting timeout: %w", err)
	}

	c.idleTimer.Stop()
	if currentSessions == 0 {
		c.idleTimer.Reset(c.idleTimeoutMinutes)
	}
	return nil
}

// sessionContext produces a detached context that still carries the session UUID,
// for work that outlives the inbound request.
func sessionContext(id uuid.UUID) context.Context {
	return context.WithValue(context.Background(), entity.SessionContextKey, id)
}
