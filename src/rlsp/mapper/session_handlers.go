package mapper

import (
	"context"
	"fmt"

	sessionhandlers "github.com/drzbida/roslyn-lsp/src/rlsp/entity/session-handlers"
)

// MergeSessionHandlers merges built-in interceptors with host supplied handlers into a
// single handler set. For any method both define, the built-in runs first and the host
// handler runs afterward with the same parameters, so host customization is never
// silently dropped. Filtering of message data that must happen before any handler runs
// (watcher suppression) is applied by the dispatch layer, not here.
func MergeSessionHandlers(builtin, host *sessionhandlers.Methods) (*sessionhandlers.Methods, error) {
	if builtin == nil {
		return nil, fmt.Errorf("built-in handler set is required")
	}
	if err := builtin.Validate(); err != nil {
		return nil, fmt.Errorf("validating built-in handlers: %w", err)
	}
	if host == nil {
		merged := *builtin
		return &merged, nil
	}
	if err := host.Validate(); err != nil {
		return nil, fmt.Errorf("validating host handlers: %w", err)
	}

	merged := sessionhandlers.Methods{
		SourceKey: builtin.SourceKey + "+" + host.SourceKey,

		RegisterCapability:   chain(builtin.RegisterCapability, host.RegisterCapability),
		UnregisterCapability: chain(builtin.UnregisterCapability, host.UnregisterCapability),

		ShowMessage:        chain(builtin.ShowMessage, host.ShowMessage),
		LogMessage:         chain(builtin.LogMessage, host.LogMessage),
		PublishDiagnostics: chain(builtin.PublishDiagnostics, host.PublishDiagnostics),

		ProjectInitializationComplete:    chainNoParams(builtin.ProjectInitializationComplete, host.ProjectInitializationComplete),
		ProjectHasUnresolvedDependencies: chain(builtin.ProjectHasUnresolvedDependencies, host.ProjectHasUnresolvedDependencies),
		ProjectNeedsRestore:              chain(builtin.ProjectNeedsRestore, host.ProjectNeedsRestore),
	}
	return &merged, nil
}

// chain sequences two handlers for the same method, skipping nil entries.
// An error from the first handler short circuits the second.
func chain[P any](first, second func(context.Context, P) error) func(context.Context, P) error {
	if first == nil {
		return second
	}
	if second == nil {
		return first
	}
	return func(ctx context.Context, params P) error {
		if err := first(ctx, params); err != nil {
			return err
		}
		return second(ctx, params)
	}
}

func chainNoParams(first, second func(context.Context) error) func(context.Context) error {
	if first == nil {
		return second
	}
	if second == nil {
		return first
	}
	return func(ctx context.Context) error {
		if err := first(ctx); err != nil {
			return err
		}
		return second(ctx)
	}
}
