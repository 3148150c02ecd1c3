package mapper

import (
	"context"

	"github.com/drzbida/roslyn-lsp/src/rlsp/entity"
	"github.com/drzbida/roslyn-lsp/src/rlsp/internal/errors"
	"github.com/drzbida/roslyn-lsp/src/rlsp/model"
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/uri"
)

// SessionToModel maps a Session entity to its model equivalent.
func SessionToModel(f *entity.Session) *model.Session {
	return &model.Session{
		UUID:             f.UUID,
		InitializeParams: f.InitializeParams,
		Conn:             f.Conn,
		RootKind:         int(f.Root.Kind),
		Solution:         f.Root.Solution,
		Directory:        f.Root.Directory,
		Projects:         append([]string(nil), f.Root.Projects...),
		State:            int(f.State),
		Documents:        append([]uri.URI(nil), f.Documents...),
	}
}

// ModelToSession maps a model Session to its entity equivalent.
func ModelToSession(f *model.Session) (*entity.Session, error) {
	return &entity.Session{
		UUID:             f.UUID,
		InitializeParams: f.InitializeParams,
		Conn:             f.Conn,
		Root: entity.WorkspaceRoot{
			Kind:      entity.RootKind(f.RootKind),
			Solution:  f.Solution,
			Directory: f.Directory,
			Projects:  append([]string(nil), f.Projects...),
		},
		State:     entity.SessionState(f.State),
		Documents: append([]uri.URI(nil), f.Documents...),
	}, nil
}

// UUIDToSession initializes a new Session entity with the assigned uuid and connection.
func UUIDToSession(u uuid.UUID, c *jsonrpc2.Conn) *entity.Session {
	return &entity.Session{
		UUID:  u,
		Conn:  c,
		State: entity.StateUnstarted,
	}
}

// ContextToSessionUUID extracts the UUID from a context
func ContextToSessionUUID(c context.Context) (uuid.UUID, error) {
	s, ok := c.Value(entity.SessionContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, &errors.NoSessionFoundError{}
	}
	return s, nil
}
