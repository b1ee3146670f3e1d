package goauthadapter

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-auth"

	"github.com/goliatone/go-countrygate/scope"
)

func TestResolveUsesActorAndKeepsVisitor(t *testing.T) {
	resolver := NewScopeResolver(WithActorExtractor(func(context.Context) (*auth.ActorContext, bool) {
		return &auth.ActorContext{Subject: "sub-1"}, true
	}))
	ctx := scope.WithVisitorID(context.Background(), "v-1")

	set, err := resolver.Resolve(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.UserID != "sub-1" || set.VisitorID != "v-1" {
		t.Fatalf("unexpected scope: %+v", set)
	}
}

func TestResolveWithoutActor(t *testing.T) {
	resolver := NewScopeResolver(WithActorExtractor(func(context.Context) (*auth.ActorContext, bool) {
		return nil, false
	}))
	ctx := scope.WithVisitorID(context.Background(), "v-2")

	set, _ := resolver.Resolve(ctx)
	if set.UserID != "" || set.VisitorID != "v-2" {
		t.Fatalf("unexpected scope: %+v", set)
	}
}

func TestUserIDFromActorPrefersActorID(t *testing.T) {
	if got := UserIDFromActor(&auth.ActorContext{ActorID: "a-1", Subject: "s-1"}); got != "a-1" {
		t.Fatalf("UserIDFromActor = %q", got)
	}
	if got := UserIDFromActor(nil); got != "" {
		t.Fatalf("UserIDFromActor(nil) = %q", got)
	}
}

func TestResolveWrapsBaseError(t *testing.T) {
	boom := errors.New("no visitor")
	resolver := NewScopeResolver(WithBase(scope.ResolverFunc(func(context.Context) (scope.Set, error) {
		return scope.Set{}, boom
	})))

	_, err := resolver.Resolve(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected base error, got %v", err)
	}
}
