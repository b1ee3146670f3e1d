// Package goauthadapter scopes country preferences to the go-auth actor.
package goauthadapter

import (
	"context"
	"strings"

	"github.com/goliatone/go-auth"

	"github.com/goliatone/go-countrygate/ferrors"
	"github.com/goliatone/go-countrygate/scope"
)

// ActorExtractor extracts an auth.ActorContext from context.
type ActorExtractor func(context.Context) (*auth.ActorContext, bool)

// Option customizes the scope resolver behavior.
type Option func(*ScopeResolver)

// ScopeResolver layers the signed-in actor over a base scope, usually the
// anonymous visitor carried in context.
type ScopeResolver struct {
	actor ActorExtractor
	base  scope.Resolver
}

// WithActorExtractor overrides the actor context extractor.
func WithActorExtractor(extractor ActorExtractor) Option {
	return func(r *ScopeResolver) {
		if r != nil && extractor != nil {
			r.actor = extractor
		}
	}
}

// WithBase sets the resolver that supplies the visitor scope.
func WithBase(base scope.Resolver) Option {
	return func(r *ScopeResolver) {
		if r != nil && base != nil {
			r.base = base
		}
	}
}

// NewScopeResolver reads the actor with auth.ActorFromContext and the
// visitor from scope context values unless overridden.
func NewScopeResolver(opts ...Option) *ScopeResolver {
	r := &ScopeResolver{actor: auth.ActorFromContext, base: scope.ContextResolver{}}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve implements scope.Resolver.
func (r *ScopeResolver) Resolve(ctx context.Context) (scope.Set, error) {
	if r == nil {
		return scope.FromContext(ctx), nil
	}
	set, err := r.base.Resolve(ctx)
	if err != nil {
		return scope.Set{}, ferrors.WrapExternal(err, ferrors.TextCodeScopeResolveFailed, "goauthadapter: base scope failed", map[string]any{
			ferrors.MetaAdapter: "goauth",
		})
	}
	if actor, ok := r.actor(ctx); ok {
		if userID := UserIDFromActor(actor); userID != "" {
			set.UserID = userID
		}
	}
	return set, nil
}

// UserIDFromActor returns the actor id, falling back to the subject.
func UserIDFromActor(actor *auth.ActorContext) string {
	if actor == nil {
		return ""
	}
	if id := strings.TrimSpace(actor.ActorID); id != "" {
		return id
	}
	return strings.TrimSpace(actor.Subject)
}

var _ scope.Resolver = (*ScopeResolver)(nil)
