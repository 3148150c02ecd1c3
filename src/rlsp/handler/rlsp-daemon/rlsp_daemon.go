// Package rlspdaemon implements the rlsp-daemon service's JSON-RPC handlers.
package rlspdaemon

import (
	"context"
	"fmt"

	"github.com/drzbida/roslyn-lsp/src/rlsp/entity"
	controller "github.com/drzbida/roslyn-lsp/src/rlsp/controller/rlsp-daemon"
	"github.com/drzbida/roslyn-lsp/src/rlsp/internal/jsonrpcfx"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally"
	"go.lsp.dev/jsonrpc2"
)

// Handler wires the daemon controller into the JSON-RPC serving layer.
type Handler interface {
	// Manager returns the connection manager registered with the JSON-RPC module.
	Manager() jsonrpcfx.ConnectionManager
}

type handler struct {
	rlspdaemon        controller.Controller
	connectionManager jsonrpcfx.ConnectionManager
	stats             tally.Scope
}

// New constructs a new rlsp-daemon Handler.
func New(ctrl controller.Controller, jsonrpcmod jsonrpcfx.JSONRPCModule, stats tally.Scope) Handler {
	c := jsonRPCConnectionManager{
		ctrl:  ctrl,
		stats: stats.SubScope("json_rpc"),
	}
	jsonrpcmod.RegisterConnectionManager(&c)

	return &handler{
		rlspdaemon:        ctrl,
		connectionManager: &c,
		stats:             stats,
	}
}

func (h *handler) Manager() jsonrpcfx.ConnectionManager {
	return h.connectionManager
}

type jsonRPCConnectionManager struct {
	ctrl  controller.Controller
	stats tally.Scope
}

// NewConnection will store a new connection and return a router that includes its UUID.
func (c *jsonRPCConnectionManager) NewConnection(ctx context.Context, conn *jsonrpc2.Conn) (router jsonrpcfx.Router, err error) {
	id, err := c.ctrl.InitSession(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("error while creating new connection: %w", err)
	}

	r := jsonRPCRouter{
		rlspdaemon: c.ctrl,
		uuid:       id,
		stats:      c.stats,
	}

	return &r, nil
}

// RemoveConnection cleans up a closed connection.
func (c *jsonRPCConnectionManager) RemoveConnection(ctx context.Context, id uuid.UUID) {
	// Ensure session is removed even if no Exit call has been received.
	ctx = context.WithValue(ctx, entity.SessionContextKey, id)
	c.ctrl.EndSession(ctx, id)
}
