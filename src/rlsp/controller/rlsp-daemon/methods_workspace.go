package rlspdaemon

import (
	"context"
	"fmt"

	"github.com/drzbida/roslyn-lsp/src/rlsp/entity"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

const _chooseTargetPrompt = "Multiple solutions contain this document. Choose one:"

// resolveAndStart resolves the workspace target for the document and starts a server
// connection for it. Ambiguity between candidate solutions is settled by the user.
func (c *controller) resolveAndStart(ctx context.Context, doc uri.URI) error {
	resolution, err := c.selector.Resolve(doc)
	if err != nil {
		return fmt.Errorf("resolving workspace target: %w", err)
	}

	root := resolution.Root
	if resolution.Ambiguous() {
		if root, err = c.chooseRoot(ctx, resolution.Candidates); err != nil {
			return fmt.Errorf("choosing workspace target: %w", err)
		}
	}

	return c.startForRoot(ctx, root)
}

// chooseRoot asks the user to pick between candidate targets via the editor.
func (c *controller) chooseRoot(ctx context.Context, candidates []entity.WorkspaceRoot) (entity.WorkspaceRoot, error) {
	actions := make([]protocol.MessageActionItem, 0, len(candidates))
	for _, cand := range candidates {
		actions = append(actions, protocol.MessageActionItem{Title: cand.Key()})
	}

	choice, err := c.editors.ShowMessageRequest(ctx, &protocol.ShowMessageRequestParams{
		Type:    protocol.MessageTypeInfo,
		Message: _chooseTargetPrompt,
		Actions: actions,
	})
	if err != nil {
		return entity.WorkspaceRoot{}, err
	}
	if choice == nil {
		return entity.WorkspaceRoot{}, fmt.Errorf("no workspace target chosen")
	}
	for _, cand := range candidates {
		if cand.Key() == choice.Title {
			return cand, nil
		}
	}
	return entity.WorkspaceRoot{}, fmt.Errorf("chosen workspace target %q is not a candidate", choice.Title)
}

// startForRoot binds the root to the session, takes the selected root marker, and
// establishes the server connection.
func (c *controller) startForRoot(ctx context.Context, root entity.WorkspaceRoot) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session from context: %w", err)
	}

	s.Root = root
	s.State = entity.StateStarting
	if err := c.sessions.Set(ctx, s); err != nil {
		return fmt.Errorf("setting updated session state: %w", err)
	}
	if err := c.sessions.SelectRoot(ctx, s.UUID, root); err != nil {
		return fmt.Errorf("selecting root: %w", err)
	}

	if err := c.startServer(ctx, s); err != nil {
		s.State = entity.StateStopped
		c.sessions.Set(ctx, s)
		c.sessions.ClearSelectedRoot(ctx, root)
		return err
	}
	return nil
}

// SelectTarget replaces the session's workspace target. A running connection for a
// different target is stopped before the new one starts.
func (c *controller) SelectTarget(ctx context.Context, root entity.WorkspaceRoot) error {
	if root.IsZero() {
		return fmt.Errorf("a workspace target is required")
	}

	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session from context: %w", err)
	}

	// Selecting the target that is already starting or running is a no-op.
	if s.Root.Equal(root) && (s.State == entity.StateStarting || s.State == entity.StateReady) {
		return nil
	}

	if s.State == entity.StateStarting || s.State == entity.StateReady {
		if err := c.stopServer(ctx, s.UUID, 0, 0); err != nil {
			return fmt.Errorf("stopping previous server connection: %w", err)
		}
	}

	return c.startForRoot(ctx, root)
}
