package rlspdaemon

import (
	"context"
	"errors"
	"testing"

	"github.com/drzbida/roslyn-lsp/src/rlsp/controller/diagnostics/diagnosticsmock"
	"github.com/drzbida/roslyn-lsp/src/rlsp/entity"
	"github.com/drzbida/roslyn-lsp/src/rlsp/factory"
	notifiermock "github.com/drzbida/roslyn-lsp/src/rlsp/gateway/editor-client/notifiermock"
	serverclientmock "github.com/drzbida/roslyn-lsp/src/rlsp/gateway/server-client/serverclientmock"
	"github.com/drzbida/roslyn-lsp/src/rlsp/internal/roots"
	"github.com/drzbida/roslyn-lsp/src/rlsp/internal/roots/rootsmock"
	"github.com/drzbida/roslyn-lsp/src/rlsp/repository/session/repositorymock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/mock/gomock"
)

func didOpenParams(doc uri.URI) *protocol.DidOpenTextDocumentParams {
	return &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        doc,
			LanguageID: "csharp",
			Version:    1,
		},
	}
}

func TestDidOpen(t *testing.T) {
	doc := uri.URI("file:///work/sample-1/App/Program.cs")

	t.Run("ready session forwards immediately", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := &entity.Session{
			UUID:  factory.UUID(),
			Root:  factory.SolutionRoot(1),
			State: entity.StateReady,
		}
		ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil)
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)

		servers := serverclientmock.NewMockGateway(ctrl)
		params := didOpenParams(doc)
		servers.EXPECT().DidOpen(gomock.Any(), params).Return(nil)

		c := newBareController(sessionRepository, nil)
		c.servers = servers

		require.NoError(t, c.DidOpen(ctx, params))
		assert.Contains(t, s.Documents, doc)
	})

	t.Run("starting session queues the open", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := &entity.Session{
			UUID:  factory.UUID(),
			Root:  factory.SolutionRoot(1),
			State: entity.StateStarting,
		}
		ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil)
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)

		c := newBareController(sessionRepository, nil)

		params := didOpenParams(doc)
		require.NoError(t, c.DidOpen(ctx, params))
		assert.Len(t, c.pendingOpens[s.UUID], 1)

		// Reopening the same document does not queue a duplicate.
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil)
		require.NoError(t, c.DidOpen(ctx, params))
		assert.Len(t, c.pendingOpens[s.UUID], 1)
	})

	t.Run("stopped session drops the open", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := &entity.Session{
			UUID:  factory.UUID(),
			Root:  factory.SolutionRoot(1),
			State: entity.StateStopped,
		}
		ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil)
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)

		c := newBareController(sessionRepository, nil)
		require.NoError(t, c.DidOpen(ctx, didOpenParams(doc)))
		assert.Empty(t, c.pendingOpens[s.UUID])
	})

	t.Run("first open reports resolution failure to the user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := &entity.Session{
			UUID:  factory.UUID(),
			State: entity.StateUnstarted,
		}
		ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil)
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil).Times(3)
		sessionRepository.EXPECT().Get(gomock.Any(), s.UUID).Return(s, nil)

		selector := rootsmock.NewMockSelector(ctrl)
		selector.EXPECT().Resolve(doc).Return(roots.Resolution{}, errors.New("no workspace target resolved"))

		editors := notifiermock.NewMockGateway(ctrl)
		editors.EXPECT().Error(gomock.Any(), gomock.Any()).Return(nil)

		c := newBareController(sessionRepository, editors)
		c.selector = selector

		require.NoError(t, c.DidOpen(ctx, didOpenParams(doc)))
		c.wg.Wait()
		assert.Equal(t, entity.StateUnstarted, s.State)
	})

	t.Run("back-to-back opens resolve a single connection", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := &entity.Session{
			UUID:  factory.UUID(),
			State: entity.StateUnstarted,
		}
		ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil).Times(2)
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		sessionRepository.EXPECT().Get(gomock.Any(), s.UUID).Return(s, nil)

		// The resolution holds until both opens have been handled.
		release := make(chan struct{})
		selector := rootsmock.NewMockSelector(ctrl)
		selector.EXPECT().Resolve(doc).DoAndReturn(func(uri.URI) (roots.Resolution, error) {
			<-release
			return roots.Resolution{}, errors.New("no workspace target resolved")
		}).Times(1)

		editors := notifiermock.NewMockGateway(ctrl)
		editors.EXPECT().Error(gomock.Any(), gomock.Any()).Return(nil)

		c := newBareController(sessionRepository, editors)
		c.selector = selector

		require.NoError(t, c.DidOpen(ctx, didOpenParams(doc)))
		assert.Equal(t, entity.StateStarting, s.State)

		secondDoc := uri.URI("file:///work/sample-1/App/Util.cs")
		require.NoError(t, c.DidOpen(ctx, didOpenParams(secondDoc)))
		assert.Len(t, c.pendingOpens[s.UUID], 2)

		close(release)
		c.wg.Wait()
	})
}

func TestDidClose(t *testing.T) {
	doc := uri.URI("file:///work/sample-1/App/Program.cs")
	params := &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: doc},
	}

	t.Run("ready session unbinds and forwards", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := &entity.Session{
			UUID:      factory.UUID(),
			State:     entity.StateReady,
			Documents: []uri.URI{doc},
		}
		ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil)
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)

		servers := serverclientmock.NewMockGateway(ctrl)
		servers.EXPECT().DidClose(gomock.Any(), params).Return(nil)

		c := newBareController(sessionRepository, nil)
		c.servers = servers

		require.NoError(t, c.DidClose(ctx, params))
		assert.Empty(t, s.Documents)
	})

	t.Run("close while starting drops the queued open", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := &entity.Session{
			UUID:      factory.UUID(),
			State:     entity.StateStarting,
			Documents: []uri.URI{doc},
		}
		ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil).Times(2)
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		c := newBareController(sessionRepository, nil)
		require.NoError(t, c.DidOpen(ctx, didOpenParams(doc)))
		require.Len(t, c.pendingOpens[s.UUID], 1)

		require.NoError(t, c.DidClose(ctx, params))
		assert.Empty(t, c.pendingOpens[s.UUID])
	})
}

func TestForwardWhenReady(t *testing.T) {
	changeParams := &protocol.DidChangeTextDocumentParams{}
	saveParams := &protocol.DidSaveTextDocumentParams{}

	t.Run("ready session forwards", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := &entity.Session{
			UUID:  factory.UUID(),
			State: entity.StateReady,
		}
		ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil).Times(2)

		servers := serverclientmock.NewMockGateway(ctrl)
		servers.EXPECT().DidChange(gomock.Any(), changeParams).Return(nil)
		servers.EXPECT().DidSave(gomock.Any(), saveParams).Return(nil)

		c := newBareController(sessionRepository, nil)
		c.servers = servers

		assert.NoError(t, c.DidChange(ctx, changeParams))
		assert.NoError(t, c.DidSave(ctx, saveParams))
	})

	t.Run("not ready session drops the notification", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := &entity.Session{
			UUID:  factory.UUID(),
			State: entity.StateStarting,
		}
		ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil).Times(2)

		c := newBareController(sessionRepository, nil)

		assert.NoError(t, c.DidChange(ctx, changeParams))
		assert.NoError(t, c.DidSave(ctx, saveParams))
	})
}

func TestDiagnostic(t *testing.T) {
	ctrl := gomock.NewController(t)
	id := factory.UUID()
	ctx := context.WithValue(context.Background(), entity.SessionContextKey, id)

	params := &entity.DocumentDiagnosticParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///work/App/Program.cs"},
	}

	diags := diagnosticsmock.NewMockController(ctrl)
	diags.EXPECT().Document(gomock.Any(), id, params, gomock.Nil()).Return(nil)

	c := newBareController(nil, nil)
	c.diags = diags

	require.NoError(t, c.Diagnostic(ctx, params, nil))

	t.Run("fails without a session", func(t *testing.T) {
		assert.Error(t, c.Diagnostic(context.Background(), params, nil))
	})
}
