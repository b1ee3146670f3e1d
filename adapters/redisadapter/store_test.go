package redisadapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-countrygate/country"
	"github.com/goliatone/go-countrygate/ferrors"
	"github.com/goliatone/go-countrygate/logger"
	"github.com/goliatone/go-countrygate/orchestrator"
	"github.com/goliatone/go-countrygate/preference"
	"github.com/goliatone/go-countrygate/scope"
)

func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestKeyLayout(t *testing.T) {
	s := NewStore(nil, WithPrefix("app:"))

	if got := s.Key(preference.DefaultKey, scope.Ref{Kind: scope.KindVisitor, ID: "v-1"}); got != "app:preferred_country:visitor:v-1" {
		t.Fatalf("Key() = %q", got)
	}
	if got := s.Key(preference.DefaultKey, scope.Ref{Kind: scope.KindSystem}); got != "app:preferred_country:system" {
		t.Fatalf("Key(system) = %q", got)
	}
}

func TestStoreRequiresClient(t *testing.T) {
	s := NewStore(nil)
	if _, _, err := s.Get(context.Background(), preference.DefaultKey, scope.Set{}); !errors.Is(err, ErrClientRequired) {
		t.Fatalf("expected ErrClientRequired, got %v", err)
	}
}

func TestStoreWrapsConnectionErrors(t *testing.T) {
	s := NewStore(unreachableClient(t))

	err := s.Set(context.Background(), preference.DefaultKey, scope.Set{VisitorID: "v-1"}, "ec")
	rich, ok := ferrors.As(err)
	if !ok || rich.TextCode != ferrors.TextCodeStoreWriteFailed {
		t.Fatalf("expected wrapped write failure, got %v", err)
	}
}

func TestOrchestratorToleratesUnreachableRedis(t *testing.T) {
	ctx := context.Background()
	store := preference.Bind(NewStore(unreachableClient(t)), scope.Set{VisitorID: "v-1"})
	orch := orchestrator.New(
		orchestrator.WithPreferenceStore(store),
		orchestrator.WithDetector(country.DetectorFunc(nil)),
		orchestrator.WithLogger(logger.Nop()),
	)
	orch.Start(ctx)

	state, err := orch.SelectCountry(ctx, "co")
	if err != nil || state.SelectedCountry != "co" {
		t.Fatalf("SelectCountry() = %+v, %v", state, err)
	}
}
