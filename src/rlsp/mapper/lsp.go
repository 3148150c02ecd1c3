package mapper

import (
	"encoding/json"
	"fmt"

	"github.com/drzbida/roslyn-lsp/src/rlsp/entity"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// RequestToInitializeParams maps the parameters from a jsonrpc2.Request into protocol.InitializeParams.
func RequestToInitializeParams(req jsonrpc2.Request) (*protocol.InitializeParams, error) {
	params := protocol.InitializeParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToInitializedParams maps the parameters from a jsonrpc2.Request into protocol.InitializedParams.
func RequestToInitializedParams(req jsonrpc2.Request) (*protocol.InitializedParams, error) {
	params := protocol.InitializedParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDidOpenTextDocumentParams maps the parameters from a jsonrpc2.Request into protocol.DidOpenTextDocumentParams.
func RequestToDidOpenTextDocumentParams(req jsonrpc2.Request) (*protocol.DidOpenTextDocumentParams, error) {
	params := protocol.DidOpenTextDocumentParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDidCloseTextDocumentParams maps the parameters from a jsonrpc2.Request into protocol.DidCloseTextDocumentParams.
func RequestToDidCloseTextDocumentParams(req jsonrpc2.Request) (*protocol.DidCloseTextDocumentParams, error) {
	params := protocol.DidCloseTextDocumentParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDidChangeTextDocumentParams maps the parameters from a jsonrpc2.Request into protocol.DidChangeTextDocumentParams.
func RequestToDidChangeTextDocumentParams(req jsonrpc2.Request) (*protocol.DidChangeTextDocumentParams, error) {
	params := protocol.DidChangeTextDocumentParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDidSaveTextDocumentParams maps the parameters from a jsonrpc2.Request into protocol.DidSaveTextDocumentParams.
func RequestToDidSaveTextDocumentParams(req jsonrpc2.Request) (*protocol.DidSaveTextDocumentParams, error) {
	params := protocol.DidSaveTextDocumentParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToRegistrationParams maps the parameters from a jsonrpc2.Request into protocol.RegistrationParams.
func RequestToRegistrationParams(req jsonrpc2.Request) (*protocol.RegistrationParams, error) {
	params := protocol.RegistrationParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToProjectNeedsRestoreParams maps the parameters from a jsonrpc2.Request into entity.ProjectNeedsRestoreParams.
func RequestToProjectNeedsRestoreParams(req jsonrpc2.Request) (*entity.ProjectNeedsRestoreParams, error) {
	params := entity.ProjectNeedsRestoreParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDocumentDiagnosticParams maps the parameters from a jsonrpc2.Request into entity.DocumentDiagnosticParams.
func RequestToDocumentDiagnosticParams(req jsonrpc2.Request) (*entity.DocumentDiagnosticParams, error) {
	params := entity.DocumentDiagnosticParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToWorkspaceRoot maps the parameters from a jsonrpc2.Request into entity.WorkspaceRoot.
func RequestToWorkspaceRoot(req jsonrpc2.Request) (entity.WorkspaceRoot, error) {
	root := entity.WorkspaceRoot{}
	if err := json.Unmarshal(req.Params(), &root); err != nil {
		return entity.WorkspaceRoot{}, wrapErrParse(err)
	}
	return root, nil
}

// RegistrationToWatchedFilesOptions decodes the RegisterOptions of a registration into
// protocol.DidChangeWatchedFilesRegistrationOptions. RegisterOptions arrive as untyped
// JSON, so they are round-tripped through encoding/json.
func RegistrationToWatchedFilesOptions(reg protocol.Registration) (*protocol.DidChangeWatchedFilesRegistrationOptions, error) {
	raw, err := json.Marshal(reg.RegisterOptions)
	if err != nil {
		return nil, fmt.Errorf("encoding register options: %w", err)
	}
	options := protocol.DidChangeWatchedFilesRegistrationOptions{}
	if err := json.Unmarshal(raw, &options); err != nil {
		return nil, fmt.Errorf("decoding watched files register options: %w", err)
	}
	return &options, nil
}

// FilterWatchedFilesRegistrations returns a copy of params in which every
// workspace/didChangeWatchedFiles registration carries an empty watcher list.
// The input is never mutated; registrations for other methods are carried over as is.
func FilterWatchedFilesRegistrations(params *protocol.RegistrationParams) *protocol.RegistrationParams {
	filtered := protocol.RegistrationParams{
		Registrations: make([]protocol.Registration, len(params.Registrations)),
	}
	copy(filtered.Registrations, params.Registrations)

	for i, reg := range filtered.Registrations {
		if reg.Method != protocol.MethodWorkspaceDidChangeWatchedFiles {
			continue
		}
		filtered.Registrations[i].RegisterOptions = protocol.DidChangeWatchedFilesRegistrationOptions{
			Watchers: []protocol.FileSystemWatcher{},
		}
	}
	return &filtered
}

func wrapErrParse(err error) error {
	return fmt.Errorf("%s: %w", jsonrpc2.ErrParse, err)
}
