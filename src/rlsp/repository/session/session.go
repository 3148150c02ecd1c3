package session

import (
	"context"
	"sync"

	"github.com/drzbida/roslyn-lsp/src/rlsp/entity"
	"github.com/drzbida/roslyn-lsp/src/rlsp/internal/errors"
	"github.com/drzbida/roslyn-lsp/src/rlsp/mapper"
	"github.com/drzbida/roslyn-lsp/src/rlsp/model"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally"
)

// Repository is an entity-scoped repository.
// It also owns the process-wide selected root marker: the marker is set only by a
// session's own start/selection flow, and cleared by any session.
type Repository interface {
	Get(context.Context, uuid.UUID) (*entity.Session, error)
	GetFromContext(ctx context.Context) (*entity.Session, error)
	GetAllFromRoot(ctx context.Context, root entity.WorkspaceRoot) ([]*entity.Session, error)
	Set(context.Context, *entity.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	SessionCount(ctx context.Context) (int, error)

	// SelectRoot marks the given root as the globally selected one, on behalf of the given session.
	SelectRoot(ctx context.Context, id uuid.UUID, root entity.WorkspaceRoot) error
	// SelectedRoot returns the currently selected root, or a zero root if none is selected.
	SelectedRoot(ctx context.Context) (entity.WorkspaceRoot, error)
	// ClearSelectedRoot clears the marker only if it currently equals the given root.
	ClearSelectedRoot(ctx context.Context, root entity.WorkspaceRoot) error
}

type repository struct {
	mu           sync.Mutex
	memstore     map[uuid.UUID]*model.Session
	selectedRoot entity.WorkspaceRoot
	stats        tally.Scope
}

// New returns a repository to a key-value Session data store.
func New(stats tally.Scope) Repository {
	return &repository{
		memstore: make(map[uuid.UUID]*model.Session),
		stats:    stats,
	}
}

// Get returns the Session associated with the given id.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.memstore[id]
	if !ok {
		return nil, &errors.UUIDNotFoundError{UUID: id}
	}
	return mapper.ModelToSession(f)
}

// GetFromContext returns the Session associated with the given context.
func (r *repository) GetFromContext(ctx context.Context) (*entity.Session, error) {
	uuid, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return nil, err
	}
	s, err := r.Get(ctx, uuid)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Set sets the Session to its associated uuid.
func (r *repository) Set(ctx context.Context, f *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f == nil {
		return errors.New("can't save nil session")
	}
	r.memstore[f.UUID] = mapper.SessionToModel(f)
	r.stats.Gauge("active_sessions").Update(float64(len(r.memstore)))
	return nil
}

// Delete removes the Session associated with the given id.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.memstore, id)
	r.stats.Gauge("active_sessions").Update(float64(len(r.memstore)))
	return nil
}

// SessionCount returns the total count of active sessions.
func (r *repository) SessionCount(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.memstore), nil
}

// GetAllFromRoot returns all sessions whose workspace target equals the given root.
func (r *repository) GetAllFromRoot(ctx context.Context, root entity.WorkspaceRoot) ([]*entity.Session, error) {
	found := make([]*entity.Session, 0)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.memstore {
		sess, err := mapper.ModelToSession(s)
		if err != nil {
			continue
		}
		if sess.Root.Equal(root) {
			found = append(found, sess)
		}
	}

	return found, nil
}

// SelectRoot marks the given root as selected on behalf of the given session.
// The session must exist and already own the root it is selecting.
func (r *repository) SelectRoot(ctx context.Context, id uuid.UUID, root entity.WorkspaceRoot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.memstore[id]
	if !ok {
		return &errors.UUIDNotFoundError{UUID: id}
	}
	sess, err := mapper.ModelToSession(s)
	if err != nil {
		return err
	}
	if !sess.Root.Equal(root) {
		return errors.New("only a session's own selection flow may select its root")
	}

	r.selectedRoot = root
	return nil
}

// SelectedRoot returns the currently selected root, or a zero root if none is selected.
func (r *repository) SelectedRoot(ctx context.Context) (entity.WorkspaceRoot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.selectedRoot, nil
}

// ClearSelectedRoot clears the marker only if it currently equals the given root.
// Clearing on behalf of an unrelated root leaves the marker untouched.
func (r *repository) ClearSelectedRoot(ctx context.Context, root entity.WorkspaceRoot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.selectedRoot.Equal(root) {
		r.selectedRoot = entity.WorkspaceRoot{}
	}
	return nil
}
