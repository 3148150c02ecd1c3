// Package restore relays the dependency restore negotiation between the language
// server and the user.
package restore

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/drzbida/roslyn-lsp/src/rlsp/entity"
	notifier "github.com/drzbida/roslyn-lsp/src/rlsp/gateway/editor-client"
	serverclient "github.com/drzbida/roslyn-lsp/src/rlsp/gateway/server-client"
	"github.com/drzbida/roslyn-lsp/src/rlsp/mapper"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey = "restore"

	_messageUnresolvedDependencies = "Project has unresolved dependencies. Restore the project to resolve them."
	_messageRestoreFailed          = "Dependency restore failed: "

	// Restores may download packages; allow generous time before giving up.
	_restoreTimeout = 10 * time.Minute
)

// State of the coordinator for a single session.
type State int

const (
	// StateIdle indicates no restore request is in flight.
	StateIdle State = iota
	// StateRestoring indicates at least one restore request is in flight.
	StateRestoring
)

// Coordinator reacts to server initiated restore traffic for the life of a session.
type Coordinator interface {
	// ProjectNeedsRestore issues exactly one restore request to the server carrying the
	// notification's payload, without blocking the caller. Completion is reported to the
	// user as events; there is no retry.
	ProjectNeedsRestore(ctx context.Context, params *entity.ProjectNeedsRestoreParams) error
	// ProjectHasUnresolvedDependencies emits a single user visible error event.
	// No restore request is sent.
	ProjectHasUnresolvedDependencies(ctx context.Context, params json.RawMessage) error
}

// Params are inbound parameters to initialize a new coordinator.
type Params struct {
	fx.In

	Servers serverclient.Gateway
	Editors notifier.Gateway
	Logger  *zap.SugaredLogger
	Stats   tally.Scope
}

type coordinator struct {
	servers  serverclient.Gateway
	editors  notifier.Gateway
	logger   *zap.SugaredLogger
	stats    tally.Scope
	inflight map[uuid.UUID]int
	statesMu sync.Mutex
	wg       sync.WaitGroup
}

// New creates a new restore coordinator.
func New(p Params) Coordinator {
	return &coordinator{
		servers:  p.Servers,
		editors:  p.Editors,
		logger:   p.Logger.With("controller", _nameKey),
		stats:    p.Stats.SubScope(_nameKey),
		inflight: make(map[uuid.UUID]int),
	}
}

func (c *coordinator) ProjectNeedsRestore(ctx context.Context, params *entity.ProjectNeedsRestoreParams) error {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return err
	}

	// One request per notification, overlapping or not. The server batches restore
	// notifications itself, so overlap is rare in practice.
	if c.beginRestore(id) {
		c.logger.Debugw("restore already in flight", "session", id)
		c.stats.Counter("overlapping").Inc(1)
	}
	c.stats.Counter("attempts").Inc(1)

	// The notification handler is not stalled waiting for completion: the request runs
	// on its own goroutine with its own deadline, and the coordinator returns to idle
	// once the attempt completes.
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.endRestore(id)

		reqCtx := context.WithValue(context.Background(), entity.SessionContextKey, id)
		reqCtx, cancel := context.WithTimeout(reqCtx, _restoreTimeout)
		defer cancel()

		results, err := c.servers.Restore(reqCtx, params)
		c.onRestoreComplete(reqCtx, results, err)
	}()

	return nil
}

func (c *coordinator) ProjectHasUnresolvedDependencies(ctx context.Context, params json.RawMessage) error {
	c.stats.Counter("unresolved_dependencies").Inc(1)
	return c.editors.Error(ctx, _messageUnresolvedDependencies)
}

// onRestoreComplete reports the outcome of a single restore attempt.
// Transport failures and error carrying responses are treated identically.
func (c *coordinator) onRestoreComplete(ctx context.Context, results []entity.RestorePartialResult, err error) {
	if err != nil {
		c.stats.Counter("failures").Inc(1)
		if notifyErr := c.editors.Error(ctx, _messageRestoreFailed+err.Error()); notifyErr != nil {
			c.logger.Warnf("reporting restore failure: %s", notifyErr)
		}
		return
	}

	for _, result := range results {
		if notifyErr := c.editors.Info(ctx, result.Message); notifyErr != nil {
			c.logger.Warnf("reporting restore progress: %s", notifyErr)
		}
	}
}

// beginRestore records a new in flight attempt and reports whether one was
// already running for the session.
func (c *coordinator) beginRestore(id uuid.UUID) bool {
	c.statesMu.Lock()
	defer c.statesMu.Unlock()
	c.inflight[id]++
	return c.inflight[id] > 1
}

func (c *coordinator) endRestore(id uuid.UUID) {
	c.statesMu.Lock()
	defer c.statesMu.Unlock()
	c.inflight[id]--
	if c.inflight[id] <= 0 {
		delete(c.inflight, id)
	}
}

func (c *coordinator) state(id uuid.UUID) State {
	c.statesMu.Lock()
	defer c.statesMu.Unlock()
	if c.inflight[id] > 0 {
		return StateRestoring
	}
	return StateIdle
}
