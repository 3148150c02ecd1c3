package rlspdaemon

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/drzbida/roslyn-lsp/src/rlsp/entity"
	sessionhandlers "github.com/drzbida/roslyn-lsp/src/rlsp/entity/session-handlers"
	serverclient "github.com/drzbida/roslyn-lsp/src/rlsp/gateway/server-client"
	"github.com/drzbida/roslyn-lsp/src/rlsp/mapper"
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

const (
	_messageServerReady  = "Language server is ready."
	_messageServerExited = "Language server connection closed."

	// MethodWorkspaceDiagnosticRefresh asks the client to re-pull diagnostics.
	_methodWorkspaceDiagnosticRefresh = "workspace/diagnostic/refresh"
)

// startServer establishes the server connection for a session whose root has been
// chosen, runs the initialize handshake, and opens the workspace target.
func (c *controller) startServer(ctx context.Context, s *entity.Session) error {
	merged, err := c.mergedMethods()
	if err != nil {
		return fmt.Errorf("merging session handlers: %w", err)
	}

	h, err := c.transport.Connect(ctx, c.serverCfg, c.serverHandler(s.UUID))
	if err != nil {
		return fmt.Errorf("connecting to language server: %w", err)
	}

	c.stateMu.Lock()
	c.handles[s.UUID] = h
	c.handlers[s.UUID] = merged
	c.stateMu.Unlock()
	c.servers.RegisterHandle(ctx, s.UUID, h)

	if err := c.initializeHandshake(ctx, s, h); err != nil {
		c.stopServer(ctx, s.UUID, 1, 0)
		return fmt.Errorf("initializing language server: %w", err)
	}

	go c.watchDone(s.UUID, h)

	return c.onReady(ctx, s)
}

// initializeHandshake issues initialize and initialized against a fresh connection.
func (c *controller) initializeHandshake(ctx context.Context, s *entity.Session, h serverclient.Handle) error {
	initParams := &protocol.InitializeParams{
		RootURI: uri.File(s.Root.Directory),
		WorkspaceFolders: []protocol.WorkspaceFolder{{
			URI:  string(uri.File(s.Root.Directory)),
			Name: s.Root.Directory,
		}},
	}
	if s.InitializeParams != nil {
		initParams.Capabilities = s.InitializeParams.Capabilities
		initParams.ProcessID = s.InitializeParams.ProcessID
	}

	var result protocol.InitializeResult
	if err := h.Request(ctx, protocol.MethodInitialize, initParams, &result); err != nil {
		return err
	}
	return h.Notify(ctx, protocol.MethodInitialized, &protocol.InitializedParams{})
}

// onReady opens the workspace target and runs the host's hooks, in order.
func (c *controller) onReady(ctx context.Context, s *entity.Session) error {
	if c.hooks != nil && c.hooks.OnInit != nil {
		if err := c.hooks.OnInit(ctx, s); err != nil {
			c.logger.Errorf(_errHookReturnedError, "OnInit", err)
		}
	}

	switch s.Root.Kind {
	case entity.RootKindSolution:
		if err := c.servers.OpenSolution(ctx, uri.File(s.Root.Solution)); err != nil {
			return fmt.Errorf("opening solution: %w", err)
		}
	case entity.RootKindProjectSet:
		projects := make([]uri.URI, 0, len(s.Root.Projects))
		for _, p := range s.Root.Projects {
			projects = append(projects, uri.File(p))
		}
		if err := c.servers.OpenProjects(ctx, projects); err != nil {
			return fmt.Errorf("opening projects: %w", err)
		}
	default:
		return fmt.Errorf("session has no workspace target")
	}

	if c.hooks != nil {
		for _, installer := range c.hooks.Installers {
			if installer == nil {
				continue
			}
			if err := installer(ctx, s); err != nil {
				c.logger.Errorf(_errHookReturnedError, "Installer", err)
			}
		}
	}

	s.State = entity.StateReady
	if err := c.sessions.Set(ctx, s); err != nil {
		return fmt.Errorf("setting updated session state: %w", err)
	}

	for _, opened := range c.takeQueuedDidOpens(s.UUID) {
		if err := c.servers.DidOpen(ctx, opened); err != nil {
			c.logger.Errorf("replaying didOpen for %q: %s", opened.TextDocument.URI, err)
		}
	}

	c.editors.Info(ctx, _messageServerReady)
	return c.diags.RefreshSession(ctx, s)
}

// stopServer tears down a session's server connection if one exists. Safe to call
// for sessions that never started.
func (c *controller) stopServer(ctx context.Context, id uuid.UUID, code int, signal int) error {
	c.stateMu.Lock()
	h, hadHandle := c.handles[id]
	delete(c.handles, id)
	delete(c.handlers, id)
	delete(c.pendingOpens, id)
	c.stateMu.Unlock()

	if !hadHandle {
		return nil
	}

	c.diags.Reset(id)
	c.watcher.EndSession(ctx, id)
	c.servers.DeregisterHandle(ctx, id)
	if err := h.Close(); err != nil {
		c.logger.Debugf("closing server connection: %s", err)
	}

	if s, err := c.sessions.Get(ctx, id); err == nil {
		c.sessions.ClearSelectedRoot(ctx, s.Root)
		s.State = entity.StateStopped
		if err := c.sessions.Set(ctx, s); err != nil {
			c.logger.Errorf("setting updated session state: %s", err)
		}
	}

	c.editors.Info(ctx, _messageServerExited)
	if c.hooks != nil && c.hooks.OnExit != nil {
		if err := c.hooks.OnExit(ctx, code, signal, id); err != nil {
			c.logger.Errorf(_errHookReturnedError, "OnExit", err)
		}
	}
	return nil
}

// watchDone stops the session once the server connection terminates on its own.
func (c *controller) watchDone(id uuid.UUID, h serverclient.Handle) {
	<-h.Done()

	c.stateMu.Lock()
	current, ok := c.handles[id]
	c.stateMu.Unlock()
	if !ok || current != h {
		// Already stopped through the session's own teardown.
		return
	}

	ctx := sessionContext(id)
	code := 0
	if err := h.Err(); err != nil {
		code = 1
		c.editors.Error(ctx, fmt.Sprintf("Language server connection lost: %s", err))
	}
	if err := c.stopServer(ctx, id, code, 0); err != nil {
		c.logger.Errorf("stopping server connection: %s", err)
	}
}

// mergedMethods combines the built-in interceptors with the host's handlers.
// Built-ins run first for any method both define.
func (c *controller) mergedMethods() (*sessionhandlers.Methods, error) {
	builtin := c.builtinMethods()
	if c.hooks == nil || c.hooks.Handlers == nil {
		return builtin, nil
	}
	return mapper.MergeSessionHandlers(builtin, c.hooks.Handlers)
}

// builtinMethods are the daemon's own handlers for server originated methods.
func (c *controller) builtinMethods() *sessionhandlers.Methods {
	return &sessionhandlers.Methods{
		SourceKey: _builtinSourceKey,

		RegisterCapability:   c.editors.RegisterCapability,
		UnregisterCapability: c.editors.UnregisterCapability,

		ShowMessage:        c.editors.ShowMessage,
		LogMessage:         c.editors.LogMessage,
		PublishDiagnostics: c.editors.PublishDiagnostics,

		ProjectInitializationComplete:    c.projectInitializationComplete,
		ProjectHasUnresolvedDependencies: c.restores.ProjectHasUnresolvedDependencies,
		ProjectNeedsRestore:              c.restores.ProjectNeedsRestore,
	}
}

func (c *controller) projectInitializationComplete(ctx context.Context) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session from context: %w", err)
	}
	c.editors.Info(ctx, "Project initialization complete.")
	return c.diags.RefreshSession(ctx, s)
}

// sessionMethods returns the merged handler set for a session, or nil once the
// session has stopped. No handler runs after stop.
func (c *controller) sessionMethods(id uuid.UUID) *sessionhandlers.Methods {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.handlers[id]
}

// serverHandler dispatches server originated messages for one session.
func (c *controller) serverHandler(id uuid.UUID) jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Errorf("panic handling %q from language server: %v", req.Method(), r)
				c.editors.Error(sessionContext(id), fmt.Sprintf("Internal error handling %q.", req.Method()))
				// The server is still waiting on this request; fail it rather than
				// leaving it pending.
				replyErr := reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.InternalError, fmt.Sprintf("handling %q: %v", req.Method(), r)))
				if replyErr != nil {
					c.logger.Errorf("replying after panic handling %q: %s", req.Method(), replyErr)
				}
			}
		}()

		ctx = context.WithValue(ctx, entity.SessionContextKey, id)
		m := c.sessionMethods(id)
		if m == nil {
			return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.InvalidRequest, "session is not running"))
		}

		switch req.Method() {
		case protocol.MethodClientRegisterCapability:
			params, err := mapper.RequestToRegistrationParams(req)
			if err != nil {
				return reply(ctx, nil, err)
			}
			params = c.applyFileWatching(ctx, id, params)
			return reply(ctx, nil, m.RegisterCapability(ctx, params))

		case protocol.MethodClientUnregisterCapability:
			var params protocol.UnregistrationParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return reply(ctx, nil, fmt.Errorf("%s: %w", jsonrpc2.ErrParse, err))
			}
			for _, unreg := range params.Unregisterations {
				c.watcher.Unregister(ctx, id, unreg.ID)
			}
			return reply(ctx, nil, m.UnregisterCapability(ctx, &params))

		case protocol.MethodWindowShowMessage:
			var params protocol.ShowMessageParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return reply(ctx, nil, fmt.Errorf("%s: %w", jsonrpc2.ErrParse, err))
			}
			return reply(ctx, nil, m.ShowMessage(ctx, &params))

		case protocol.MethodWindowLogMessage:
			var params protocol.LogMessageParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return reply(ctx, nil, fmt.Errorf("%s: %w", jsonrpc2.ErrParse, err))
			}
			return reply(ctx, nil, m.LogMessage(ctx, &params))

		case protocol.MethodTextDocumentPublishDiagnostics:
			var params protocol.PublishDiagnosticsParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return reply(ctx, nil, fmt.Errorf("%s: %w", jsonrpc2.ErrParse, err))
			}
			return reply(ctx, nil, m.PublishDiagnostics(ctx, &params))

		case entity.MethodProjectInitializationComplete:
			return reply(ctx, nil, m.ProjectInitializationComplete(ctx))

		case entity.MethodProjectHasUnresolvedDependencies:
			// The handler reports to the user; the server only needs an empty success.
			if err := m.ProjectHasUnresolvedDependencies(ctx, req.Params()); err != nil {
				c.logger.Errorf(_errHookReturnedError, req.Method(), err)
			}
			return reply(ctx, nil, nil)

		case entity.MethodProjectNeedsRestore:
			params, err := mapper.RequestToProjectNeedsRestoreParams(req)
			if err != nil {
				return reply(ctx, nil, err)
			}
			if err := m.ProjectNeedsRestore(ctx, params); err != nil {
				c.logger.Errorf(_errHookReturnedError, req.Method(), err)
			}
			return reply(ctx, nil, nil)

		case _methodWorkspaceDiagnosticRefresh:
			s, err := c.sessions.Get(ctx, id)
			if err != nil {
				return reply(ctx, nil, err)
			}
			return reply(ctx, nil, c.diags.RefreshSession(ctx, s))

		default:
			return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
		}
	}
}

// applyFileWatching transforms watcher registrations per the configured mode before
// any handler sees them. The returned params are a copy; the original is never mutated.
func (c *controller) applyFileWatching(ctx context.Context, id uuid.UUID, params *protocol.RegistrationParams) *protocol.RegistrationParams {
	if c.serverCfg.FileWatching == entity.FileWatchingAuto {
		return params
	}

	if c.serverCfg.FileWatching == entity.FileWatchingDaemon {
		s, err := c.sessions.Get(ctx, id)
		if err != nil {
			c.logger.Errorf("getting session for watcher registration: %s", err)
		} else {
			c.registerWatchers(ctx, s, params)
		}
	}

	return mapper.FilterWatchedFilesRegistrations(params)
}

// registerWatchers points the daemon's own file watcher at the registrations, with
// changes reported straight back to the server.
func (c *controller) registerWatchers(ctx context.Context, s *entity.Session, params *protocol.RegistrationParams) {
	sink := func(ctx context.Context, changes *protocol.DidChangeWatchedFilesParams) {
		if err := c.servers.DidChangeWatchedFiles(ctx, changes); err != nil {
			c.logger.Warnf("forwarding watched file changes: %s", err)
		}
	}

	for _, reg := range params.Registrations {
		if reg.Method != protocol.MethodWorkspaceDidChangeWatchedFiles {
			continue
		}
		opts, err := mapper.RegistrationToWatchedFilesOptions(reg)
		if err != nil {
			c.logger.Errorf("decoding watcher registration %q: %s", reg.ID, err)
			continue
		}
		if err := c.watcher.Register(ctx, s.UUID, reg.ID, s.Root.Directory, opts.Watchers, sink); err != nil {
			c.logger.Errorf("registering watchers for %q: %s", reg.ID, err)
		}
	}
}

// Queued didOpen notifications for documents bound while the connection starts.

func (c *controller) queueDidOpen(id uuid.UUID, params *protocol.DidOpenTextDocumentParams) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	for _, queued := range c.pendingOpens[id] {
		if queued.TextDocument.URI == params.TextDocument.URI {
			return
		}
	}
	c.pendingOpens[id] = append(c.pendingOpens[id], params)
}

func (c *controller) dropQueuedDidOpen(id uuid.UUID, doc uri.URI) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	queue := c.pendingOpens[id]
	for i, queued := range queue {
		if queued.TextDocument.URI == doc {
			c.pendingOpens[id] = append(queue[:i], queue[i+1:]...)
			return
		}
	}
}

func (c *controller) takeQueuedDidOpens(id uuid.UUID) []*protocol.DidOpenTextDocumentParams {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	queue := c.pendingOpens[id]
	delete(c.pendingOpens, id)
	return queue
}
