package routeradapter

import (
	"context"

	"github.com/goliatone/go-router"

	"github.com/goliatone/go-countrygate/guard"
	"github.com/goliatone/go-countrygate/scope"
)

// Context extracts the standard context from a router context.
func Context(ctx router.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx.Context()
}

// ScopeSet derives the preference scope from a router context.
func ScopeSet(ctx router.Context) scope.Set {
	return scope.FromContext(Context(ctx))
}

// SessionID returns the session id carried by a router context.
func SessionID(ctx router.Context) string {
	return scope.SessionID(Context(ctx))
}

// Activate runs the guard for a route whose country segment the caller
// read from its route params.
func Activate(ctx router.Context, g *guard.Guard, orch guard.Orchestrator, segment string) (guard.Decision, error) {
	if g == nil {
		g = guard.New()
	}
	return g.Activate(Context(ctx), orch, segment)
}

// Root runs the guard for the root path.
func Root(ctx router.Context, g *guard.Guard, orch guard.Orchestrator) (guard.Decision, error) {
	if g == nil {
		g = guard.New()
	}
	return g.Root(Context(ctx), orch)
}
