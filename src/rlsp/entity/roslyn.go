package entity

import (
	"encoding/json"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// Custom methods spoken by the Roslyn language server, in addition to standard LSP.
const (
	// MethodSolutionOpen notifies the server to load a solution file.
	MethodSolutionOpen = "solution/open"
	// MethodProjectOpen notifies the server to load a set of project files.
	MethodProjectOpen = "project/open"
	// MethodProjectInitializationComplete is sent by the server once background project loading has finished.
	MethodProjectInitializationComplete = "workspace/projectInitializationComplete"
	// MethodProjectHasUnresolvedDependencies is sent by the server when package references cannot be resolved locally.
	MethodProjectHasUnresolvedDependencies = "workspace/_roslyn_projectHasUnresolvedDependencies"
	// MethodProjectNeedsRestore is sent by the server to ask the client to run a dependency restore.
	MethodProjectNeedsRestore = "workspace/_roslyn_projectNeedsRestore"
	// MethodRestore requests a dependency restore on the server, echoing the payload of a projectNeedsRestore request.
	MethodRestore = "workspace/_roslyn_restore"
	// MethodTextDocumentDiagnostic is the LSP 3.17 pull diagnostics request.
	MethodTextDocumentDiagnostic = "textDocument/diagnostic"
)

// OpenSolutionParams are the parameters for a solution/open notification.
type OpenSolutionParams struct {
	Solution uri.URI `json:"solution"`
}

// OpenProjectsParams are the parameters for a project/open notification.
type OpenProjectsParams struct {
	Projects []uri.URI `json:"projects"`
}

// ProjectNeedsRestoreParams carries the server-issued payload describing the projects
// that need a restore. The payload is echoed back verbatim on the restore request,
// so it is kept opaque.
type ProjectNeedsRestoreParams struct {
	Payload json.RawMessage
}

// MarshalJSON implements json.Marshaler.
func (p ProjectNeedsRestoreParams) MarshalJSON() ([]byte, error) {
	if len(p.Payload) == 0 {
		return []byte("null"), nil
	}
	return p.Payload, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *ProjectNeedsRestoreParams) UnmarshalJSON(data []byte) error {
	p.Payload = append(p.Payload[:0], data...)
	return nil
}

// RestorePartialResult is a single progress record in a restore response.
// Records are consumed in payload order.
type RestorePartialResult struct {
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message"`
}

// DocumentDiagnosticParams are the parameters for a textDocument/diagnostic request.
type DocumentDiagnosticParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	Identifier   string                          `json:"identifier,omitempty"`
	// PreviousResultID chains this request to the most recent completed response,
	// letting the server skip recomputation when nothing changed.
	PreviousResultID string `json:"previousResultId,omitempty"`
}

// Document diagnostic report kinds per the LSP specification.
const (
	DiagnosticReportKindFull      = "full"
	DiagnosticReportKindUnchanged = "unchanged"
)

// DocumentDiagnosticReport is the response to a textDocument/diagnostic request.
type DocumentDiagnosticReport struct {
	Kind     string                `json:"kind"`
	ResultID string                `json:"resultId,omitempty"`
	Items    []protocol.Diagnostic `json:"items,omitempty"`
}
