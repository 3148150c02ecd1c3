// Package sessionhandlers defines the typed handler surface for server originated
// messages, along with the optional hooks a host may supply for session lifecycle events.
package sessionhandlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/drzbida/roslyn-lsp/src/rlsp/entity"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

const _errorMissingField = "missing %q field for this handler set"

// Methods defines handlers for the server originated methods recognized by a session.
// Each field corresponds to exactly one protocol method; there is no dynamic lookup by
// method name. A nil field means the method falls through to the default behavior.
type Methods struct {
	// SourceKey identifies the party that provides these handlers.
	SourceKey string

	// RegisterCapability handles client/registerCapability requests from the server.
	RegisterCapability func(ctx context.Context, params *protocol.RegistrationParams) error
	// UnregisterCapability handles client/unregisterCapability requests from the server.
	UnregisterCapability func(ctx context.Context, params *protocol.UnregistrationParams) error

	// ShowMessage handles window/showMessage notifications from the server.
	ShowMessage func(ctx context.Context, params *protocol.ShowMessageParams) error
	// LogMessage handles window/logMessage notifications from the server.
	LogMessage func(ctx context.Context, params *protocol.LogMessageParams) error
	// PublishDiagnostics handles textDocument/publishDiagnostics notifications from the server.
	PublishDiagnostics func(ctx context.Context, params *protocol.PublishDiagnosticsParams) error

	// ProjectInitializationComplete handles the server's notification that background
	// project loading has finished.
	ProjectInitializationComplete func(ctx context.Context) error
	// ProjectHasUnresolvedDependencies handles the server's notification that package
	// references could not be resolved. The payload is opaque.
	ProjectHasUnresolvedDependencies func(ctx context.Context, params json.RawMessage) error
	// ProjectNeedsRestore handles the server's request to run a dependency restore.
	ProjectNeedsRestore func(ctx context.Context, params *entity.ProjectNeedsRestoreParams) error
}

// Validate provides runtime validation that a handler set is usable.
func (m *Methods) Validate() error {
	if m.SourceKey == "" {
		return fmt.Errorf(_errorMissingField, "SourceKey")
	}
	return nil
}

// Hooks are optional callbacks supplied by the host to observe or extend session lifecycle.
// All fields may be nil.
type Hooks struct {
	// OnInit runs once per session after server initialization completes, before the
	// workspace target is opened.
	OnInit func(ctx context.Context, session *entity.Session) error
	// OnAttach runs each time a document is bound to an existing session.
	OnAttach func(ctx context.Context, session *entity.Session, doc uri.URI) error
	// OnExit runs after a session stops, with the server's exit code and signal.
	OnExit func(ctx context.Context, code int, signal int, id uuid.UUID) error
	// Installers run after the workspace target has been opened, in order.
	Installers []func(ctx context.Context, session *entity.Session) error
	// Handlers are merged with the built-in interceptors; built-ins run first for
	// methods both define.
	Handlers *Methods
}
