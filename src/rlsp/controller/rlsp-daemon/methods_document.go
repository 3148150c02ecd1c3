package rlspdaemon

import (
	"context"
	"fmt"

	"github.com/drzbida/roslyn-lsp/src/rlsp/entity"
	"github.com/drzbida/roslyn-lsp/src/rlsp/mapper"
	"github.com/gofrs/uuid"
	"go.lsp.dev/protocol"
)

// DidOpen binds the document to the session and ensures a server connection is
// running for the document's workspace target.
func (c *controller) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session from context: %w", err)
	}

	doc := params.TextDocument.URI
	if !s.HasDocument(doc) {
		s.Documents = append(s.Documents, doc)
		if err := c.sessions.Set(ctx, s); err != nil {
			return fmt.Errorf("setting updated session state: %w", err)
		}
	}

	switch s.State {
	case entity.StateReady:
		if c.hooks != nil && c.hooks.OnAttach != nil {
			if err := c.hooks.OnAttach(ctx, s, doc); err != nil {
				c.logger.Errorf(_errHookReturnedError, "OnAttach", err)
			}
		}
		return c.servers.DidOpen(ctx, params)
	case entity.StateStarting:
		c.queueDidOpen(s.UUID, params)
		return nil
	case entity.StateStopped:
		return nil
	}

	// First document for this session. Mark the session starting before this request
	// returns so a racing didOpen queues instead of spawning a second connection; the
	// resolution itself runs outside the request's lifetime.
	s.State = entity.StateStarting
	if err := c.sessions.Set(ctx, s); err != nil {
		return fmt.Errorf("setting updated session state: %w", err)
	}
	c.queueDidOpen(s.UUID, params)
	c.wg.Add(1)
	go func(sessionCtx context.Context) {
		defer c.wg.Done()
		if err := c.resolveAndStart(sessionCtx, doc); err != nil {
			c.logger.Errorf("starting server connection for %q: %s", doc, err)
			c.editors.Error(sessionCtx, fmt.Sprintf("Language server startup failed: %s", err))
			c.resetUnstarted(sessionCtx, s.UUID)
		}
	}(sessionContext(s.UUID))
	return nil
}

// resetUnstarted returns a session that never reached a server connection attempt to
// the unstarted state so a later didOpen resolves again. Sessions whose connection
// attempt failed are already stopped by then and stay stopped.
func (c *controller) resetUnstarted(ctx context.Context, id uuid.UUID) {
	s, err := c.sessions.Get(ctx, id)
	if err != nil {
		return
	}
	if s.State != entity.StateStarting {
		return
	}
	s.State = entity.StateUnstarted
	if err := c.sessions.Set(ctx, s); err != nil {
		c.logger.Errorf("resetting session %q after failed start: %s", id, err)
	}
}

// DidClose unbinds the document and forwards the notification when the connection is live.
func (c *controller) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session from context: %w", err)
	}

	doc := params.TextDocument.URI
	for i, d := range s.Documents {
		if d == doc {
			s.Documents = append(s.Documents[:i], s.Documents[i+1:]...)
			if err := c.sessions.Set(ctx, s); err != nil {
				return fmt.Errorf("setting updated session state: %w", err)
			}
			break
		}
	}
	c.dropQueuedDidOpen(s.UUID, doc)

	if s.State != entity.StateReady {
		return nil
	}
	return c.servers.DidClose(ctx, params)
}

func (c *controller) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	return c.forwardWhenReady(ctx, func(ctx context.Context) error {
		return c.servers.DidChange(ctx, params)
	})
}

func (c *controller) DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error {
	return c.forwardWhenReady(ctx, func(ctx context.Context) error {
		return c.servers.DidSave(ctx, params)
	})
}

// Diagnostic issues a pull diagnostics request for the session's server connection.
func (c *controller) Diagnostic(ctx context.Context, params *entity.DocumentDiagnosticParams, handler entity.ResponseHandler) error {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return fmt.Errorf("getting session from context: %w", err)
	}
	return c.diags.Document(ctx, id, params, handler)
}

func (c *controller) forwardWhenReady(ctx context.Context, send func(ctx context.Context) error) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session from context: %w", err)
	}
	if s.State != entity.StateReady {
		c.logger.Debugw("dropping notification for session that is not ready", "session", s.UUID, "state", s.State.String())
		return nil
	}
	return send(ctx)
}
