// Package diagnostics implements the incremental pull diagnostics protocol.
// It chains the "previous result" token across requests so call sites never manage
// result identifiers manually.
package diagnostics

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/drzbida/roslyn-lsp/src/rlsp/entity"
	serverclient "github.com/drzbida/roslyn-lsp/src/rlsp/gateway/server-client"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally"
	"go.lsp.dev/protocol"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _nameKey = "diagnostics"

// Controller tracks the last diagnostic result token per session and intercepts
// outgoing diagnostic requests to apply it.
type Controller interface {
	// WrapRequester wraps a session's outgoing request function. Diagnostic pull
	// requests get the session's current token attached and their responses recorded;
	// all other methods pass through unmodified.
	WrapRequester(id uuid.UUID, next entity.Requester) entity.Requester
	// Document issues a diagnostic pull for a single document through the session's cursor.
	Document(ctx context.Context, id uuid.UUID, params *entity.DocumentDiagnosticParams, handler entity.ResponseHandler) error
	// RefreshSession forces a diagnostic pull for every document bound to the session.
	RefreshSession(ctx context.Context, session *entity.Session) error
	// ResultID returns the session's current token, if any.
	ResultID(id uuid.UUID) (string, bool)
	// Reset clears the session's token. Must be called on session restart so a new
	// server never sees a token from a previous connection.
	Reset(id uuid.UUID)
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Servers serverclient.Gateway
	Logger  *zap.SugaredLogger
	Stats   tally.Scope
}

type controller struct {
	servers   serverclient.Gateway
	logger    *zap.SugaredLogger
	stats     tally.Scope
	cursors   map[uuid.UUID]string
	cursorsMu sync.Mutex
}

// New creates a new controller for pull diagnostics.
func New(p Params) Controller {
	return &controller{
		servers: p.Servers,
		logger:  p.Logger.With("controller", _nameKey),
		stats:   p.Stats.SubScope(_nameKey),
		cursors: make(map[uuid.UUID]string),
	}
}

func (c *controller) WrapRequester(id uuid.UUID, next entity.Requester) entity.Requester {
	return func(ctx context.Context, method string, params interface{}, handler entity.ResponseHandler) error {
		if method != entity.MethodTextDocumentDiagnostic {
			return next(ctx, method, params, handler)
		}

		if diagParams, ok := params.(*entity.DocumentDiagnosticParams); ok {
			// Attach the current token to a copy; the caller's params are not mutated.
			chained := *diagParams
			if prev, found := c.ResultID(id); found {
				chained.PreviousResultID = prev
			}
			params = &chained
		}

		c.stats.Counter("requests").Inc(1)
		wrapped := func(result json.RawMessage, err error) {
			// The cursor update happens before the caller's handler observes the
			// response. Overlapping requests follow last-response-wins semantics.
			if err == nil {
				c.recordResult(id, result)
			}
			if handler != nil {
				handler(result, err)
				return
			}
			if err != nil {
				c.logger.Warnf("diagnostic pull for session %s failed: %s", id, err)
			}
		}
		return next(ctx, method, params, wrapped)
	}
}

func (c *controller) Document(ctx context.Context, id uuid.UUID, params *entity.DocumentDiagnosticParams, handler entity.ResponseHandler) error {
	requester := c.WrapRequester(id, c.servers.Requester(id))
	return requester(ctx, entity.MethodTextDocumentDiagnostic, params, handler)
}

func (c *controller) RefreshSession(ctx context.Context, session *entity.Session) error {
	for _, doc := range session.Documents {
		params := &entity.DocumentDiagnosticParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: doc},
		}
		if err := c.Document(ctx, session.UUID, params, nil); err != nil {
			return err
		}
	}
	c.stats.Counter("refreshes").Inc(1)
	return nil
}

func (c *controller) ResultID(id uuid.UUID) (string, bool) {
	c.cursorsMu.Lock()
	defer c.cursorsMu.Unlock()

	token, ok := c.cursors[id]
	return token, ok
}

func (c *controller) Reset(id uuid.UUID) {
	c.cursorsMu.Lock()
	defer c.cursorsMu.Unlock()

	delete(c.cursors, id)
}

// recordResult stores the response's token as the session's new cursor value.
// Responses without a token (including unchanged reports) leave the cursor as is.
func (c *controller) recordResult(id uuid.UUID, result json.RawMessage) {
	report := entity.DocumentDiagnosticReport{}
	if err := json.Unmarshal(result, &report); err != nil {
		c.logger.Debugf("discarding unparseable diagnostic report for session %s: %s", id, err)
		return
	}
	if report.ResultID == "" {
		return
	}

	c.cursorsMu.Lock()
	defer c.cursorsMu.Unlock()
	c.cursors[id] = report.ResultID
}
