package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-countrygate/activity"
	"github.com/goliatone/go-countrygate/country"
	"github.com/goliatone/go-countrygate/ferrors"
	"github.com/goliatone/go-countrygate/logger"
	"github.com/goliatone/go-countrygate/orchestrator"
	"github.com/goliatone/go-countrygate/preference"
	"github.com/goliatone/go-countrygate/scope"
)

type stubOrchestrator struct {
	selected   string
	registered []string
	opened     int
}

func (s *stubOrchestrator) SelectedCountry() string {
	return s.selected
}

func (s *stubOrchestrator) RegisterURLCountry(_ context.Context, code string) orchestrator.State {
	s.registered = append(s.registered, code)
	return orchestrator.State{URLCountry: code}
}

func (s *stubOrchestrator) OpenSelector(context.Context) orchestrator.State {
	s.opened++
	return orchestrator.State{ShowSelector: true}
}

func newGuard(opts ...Option) *Guard {
	return New(append([]Option{WithLogger(logger.Nop())}, opts...)...)
}

func TestRootRedirectsToPersistedCountry(t *testing.T) {
	ctx := context.Background()
	backend := preference.NewMemoryBackend()
	set := scope.Set{VisitorID: "v-1"}
	if err := backend.Set(ctx, preference.DefaultKey, set, "pe"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	orch := orchestrator.New(
		orchestrator.WithPreferenceStore(preference.Bind(backend, set)),
		orchestrator.WithDetector(country.DetectorFunc(func(context.Context) (string, bool) { return "", false })),
		orchestrator.WithLogger(logger.Nop()),
	)
	orch.Start(ctx)

	decision, err := newGuard().Root(ctx, orch)
	if err != nil {
		t.Fatalf("Root() error = %v", err)
	}
	if decision.Action != ActionRedirect || decision.Location != "/pe/home" {
		t.Fatalf("unexpected decision: %+v", decision)
	}
	if orch.Snapshot().ShowSelector {
		t.Fatalf("selector should stay closed")
	}
}

func TestRootOpensSelectorWithoutSelection(t *testing.T) {
	stub := &stubOrchestrator{}

	decision, err := newGuard().Root(context.Background(), stub)
	if err != nil {
		t.Fatalf("Root() error = %v", err)
	}
	if decision.Action != ActionShowSelector || decision.Location != "" {
		t.Fatalf("unexpected decision: %+v", decision)
	}
	if stub.opened != 1 {
		t.Fatalf("expected selector to open once, got %d", stub.opened)
	}
}

func TestInvalidSegmentRedirectsWithoutRegistering(t *testing.T) {
	recorder := &activity.Recorder{}
	stub := &stubOrchestrator{selected: "mx"}

	decision, err := newGuard(WithHook(recorder)).Activate(context.Background(), stub, "zz")
	if err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if decision.Action != ActionRedirect || decision.Location != "/mx/home" {
		t.Fatalf("unexpected decision: %+v", decision)
	}
	if len(stub.registered) != 0 {
		t.Fatalf("invalid code registered: %v", stub.registered)
	}
	if len(recorder.Events) != 1 || recorder.Events[0].Action != activity.ActionRedirected {
		t.Fatalf("expected redirected event, got %v", recorder.Actions())
	}
}

func TestInvalidSegmentFallsBackToDefaultCountry(t *testing.T) {
	stub := &stubOrchestrator{}

	decision, _ := newGuard().Activate(context.Background(), stub, "zz")
	if decision.Location != "/ec/home" {
		t.Fatalf("Location = %q, want /ec/home", decision.Location)
	}

	decision, _ = newGuard(WithDefaultCountry("CL")).Activate(context.Background(), stub, "zz")
	if decision.Location != "/cl/home" {
		t.Fatalf("Location = %q, want /cl/home", decision.Location)
	}
}

func TestValidSegmentRegistersLowercased(t *testing.T) {
	stub := &stubOrchestrator{}

	decision, err := newGuard().Activate(context.Background(), stub, "MX")
	if err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if decision.Action != ActionContinue || decision.Country != "mx" {
		t.Fatalf("unexpected decision: %+v", decision)
	}
	if len(stub.registered) != 1 || stub.registered[0] != "mx" {
		t.Fatalf("unexpected registrations: %v", stub.registered)
	}
}

func TestEmptySegmentBehavesAsRoot(t *testing.T) {
	stub := &stubOrchestrator{selected: "uy"}

	decision, _ := newGuard().Activate(context.Background(), stub, " ")
	if decision.Action != ActionRedirect || decision.Location != "/uy/home" {
		t.Fatalf("unexpected decision: %+v", decision)
	}
}

func TestRequireReturnsRedirectError(t *testing.T) {
	stub := &stubOrchestrator{selected: "br"}

	err := Require(context.Background(), newGuard(), stub, "zz")
	if !errors.Is(err, ErrRedirect) {
		t.Fatalf("expected ErrRedirect, got %v", err)
	}
	var redirect RedirectError
	if !errors.As(err, &redirect) || redirect.Location != "/br/home" {
		t.Fatalf("unexpected redirect error: %v", err)
	}

	if err := Require(context.Background(), newGuard(), stub, "br"); err != nil {
		t.Fatalf("expected nil for valid segment, got %v", err)
	}
	if err := Require(context.Background(), nil, stub, "zz"); err != nil {
		t.Fatalf("expected nil guard to allow, got %v", err)
	}
}

func TestActivateRequiresOrchestrator(t *testing.T) {
	_, err := newGuard().Activate(context.Background(), nil, "ec")
	if !errors.Is(err, ferrors.ErrOrchestratorRequired) {
		t.Fatalf("expected ErrOrchestratorRequired, got %v", err)
	}
}
