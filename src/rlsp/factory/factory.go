// Package factory provides small constructors for values used across tests.
package factory

import (
	"context"
	"fmt"

	"github.com/drzbida/roslyn-lsp/src/rlsp/entity"
	sessionhandlers "github.com/drzbida/roslyn-lsp/src/rlsp/entity/session-handlers"
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// UUID is a user-defined factory for a random uuid.UUID.
func UUID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// JSONRPCRequest is a user-defined factory for a JSON-RPC request containing the specified method and parameters.
func JSONRPCRequest(method string, params interface{}) jsonrpc2.Request {
	req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), method, params)
	return req
}

// SolutionRoot is a factory for a solution workspace target.
func SolutionRoot(id int) entity.WorkspaceRoot {
	return entity.SolutionRoot(fmt.Sprintf("/work/sample-%v/Sample.sln", id))
}

// ProjectSetRoot is a factory for a project set workspace target.
func ProjectSetRoot(id int) entity.WorkspaceRoot {
	dir := fmt.Sprintf("/work/sample-%v", id)
	return entity.ProjectSetRoot(dir, []string{
		dir + "/App/App.csproj",
		dir + "/Lib/Lib.csproj",
	})
}

// SessionHandlersValid is a factory for a handler set that passes validation.
func SessionHandlersValid(id int) *sessionhandlers.Methods {
	return &sessionhandlers.Methods{
		SourceKey: fmt.Sprintf("test-handlers-%v", id),
		ShowMessage: func(ctx context.Context, params *protocol.ShowMessageParams) error {
			return nil
		},
	}
}

// SessionHandlersInvalid is a factory for a handler set that fails validation.
func SessionHandlersInvalid() *sessionhandlers.Methods {
	return &sessionhandlers.Methods{}
}
