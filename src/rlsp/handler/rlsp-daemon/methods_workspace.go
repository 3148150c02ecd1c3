package rlspdaemon

import (
	"context"

	"github.com/drzbida/roslyn-lsp/src/rlsp/mapper"
	"go.lsp.dev/jsonrpc2"
)

// SelectTarget replaces the session's workspace target with the one given in the request.
func (r *jsonRPCRouter) SelectTarget(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	root, err := mapper.RequestToWorkspaceRoot(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.rlspdaemon.SelectTarget(ctx, root)
	return reply(ctx, nil, err)
}
