// Package gateway provides the outbound gateways used by the rlsp-daemon.
package gateway

import (
	notifier "github.com/drzbida/roslyn-lsp/src/rlsp/gateway/editor-client"
	serverclient "github.com/drzbida/roslyn-lsp/src/rlsp/gateway/server-client"
	"go.uber.org/fx"
)

// Module provides the outbound gateways into an Fx application.
var Module = fx.Options(
	fx.Provide(notifier.New),
	fx.Provide(serverclient.New),
	fx.Provide(serverclient.NewTransport),
)
