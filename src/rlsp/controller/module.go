package controller

import (
	"github.com/drzbida/roslyn-lsp/src/rlsp/controller/diagnostics"
	"github.com/drzbida/roslyn-lsp/src/rlsp/controller/restore"
	rlspdaemon "github.com/drzbida/roslyn-lsp/src/rlsp/controller/rlsp-daemon"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(rlspdaemon.New),
	fx.Provide(diagnostics.New),
	fx.Provide(restore.New),
)
