package app

import (
	"context"
	"time"

	"github.com/drzbida/roslyn-lsp/src/rlsp/gateway"
	"github.com/drzbida/roslyn-lsp/src/rlsp/handler"
	"github.com/drzbida/roslyn-lsp/src/rlsp/internal/core"
	"github.com/drzbida/roslyn-lsp/src/rlsp/internal/filewatch"
	"github.com/drzbida/roslyn-lsp/src/rlsp/internal/fs"
	"github.com/drzbida/roslyn-lsp/src/rlsp/internal/jsonrpcfx"
	"github.com/drzbida/roslyn-lsp/src/rlsp/internal/roots"
	"github.com/drzbida/roslyn-lsp/src/rlsp/internal/serverinfofile"
	tally "github.com/uber-go/tally"
	"go.uber.org/fx"
)

// Module defines the rlsp-daemon application module.
var Module = fx.Options(
	gateway.Module, // outbounds
	handler.Module, // inbounds
	jsonrpcfx.Module,
	fs.Module,
	filewatch.Module,
	roots.Module,
	serverinfofile.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "rlsp-daemon",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment:        "local",
			RuntimeEnvironment: "local",
		}
	}),
)
