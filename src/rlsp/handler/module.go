package handler

import (
	controller "github.com/drzbida/roslyn-lsp/src/rlsp/controller"
	rlspdaemon "github.com/drzbida/roslyn-lsp/src/rlsp/controller/rlsp-daemon"
	handler "github.com/drzbida/roslyn-lsp/src/rlsp/handler/rlsp-daemon"
	"github.com/drzbida/roslyn-lsp/src/rlsp/repository/session"
	"go.uber.org/fx"
)

// Module provides the rlsp-daemon server into an Fx application.
var Module = fx.Options(
	controller.Module,
	fx.Provide(session.New),
	fx.Provide(handler.New),
	fx.Invoke(outputServerConnectionInfo),
	fx.Invoke(func(m handler.Handler) {}),
	fx.Invoke(func(m rlspdaemon.Controller) {}),
)
