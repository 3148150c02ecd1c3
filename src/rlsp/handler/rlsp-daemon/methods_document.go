package rlspdaemon

import (
	"context"
	"encoding/json"

	"github.com/drzbida/roslyn-lsp/src/rlsp/mapper"
	"go.lsp.dev/jsonrpc2"
)

// DidOpen notifies that a document was opened in the editor.
func (r *jsonRPCRouter) DidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDidOpenTextDocumentParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.rlspdaemon.DidOpen(ctx, params)
	return reply(ctx, nil, err)
}

// DidClose notifies that a document was closed in the editor.
func (r *jsonRPCRouter) DidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDidCloseTextDocumentParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.rlspdaemon.DidClose(ctx, params)
	return reply(ctx, nil, err)
}

// DidChange notifies of changes to a document's contents.
func (r *jsonRPCRouter) DidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDidChangeTextDocumentParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.rlspdaemon.DidChange(ctx, params)
	return reply(ctx, nil, err)
}

// DidSave notifies that a document was saved in the editor.
func (r *jsonRPCRouter) DidSave(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDidSaveTextDocumentParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.rlspdaemon.DidSave(ctx, params)
	return reply(ctx, nil, err)
}

// Diagnostic forwards a pull diagnostics request to the session's language server.
// The reply is sent once the server responds, without blocking the connection.
func (r *jsonRPCRouter) Diagnostic(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDocumentDiagnosticParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.rlspdaemon.Diagnostic(ctx, params, func(result json.RawMessage, err error) {
		if err != nil {
			reply(ctx, nil, err)
			return
		}
		reply(ctx, result, nil)
	})
	if err != nil {
		return reply(ctx, nil, err)
	}
	return nil
}
