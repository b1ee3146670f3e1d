package activity

import (
	"context"
)

// Action names a country resolution transition.
type Action string

const (
	ActionPreferenceLoaded  Action = "preference_loaded"
	ActionDetected          Action = "detected"
	ActionURLRegistered     Action = "url_registered"
	ActionMismatchOpened    Action = "mismatch_opened"
	ActionMismatchResolved  Action = "mismatch_resolved"
	ActionMismatchDismissed Action = "mismatch_dismissed"
	ActionCountrySelected   Action = "country_selected"
	ActionSelectionRejected Action = "selection_rejected"
	ActionSelectorOpened    Action = "selector_opened"
	ActionRedirected        Action = "redirected"
	ActionPersistFailed     Action = "persist_failed"
)

// Event captures one transition.
type Event struct {
	Action           Action
	SessionID        string
	Country          string
	URLCountry       string
	ReferenceCountry string
	Location         string
	Error            error
}

// Hook receives transition events.
type Hook interface {
	OnTransition(ctx context.Context, event Event)
}

// HookFunc wraps a function as a Hook.
type HookFunc func(context.Context, Event)

// OnTransition implements Hook.
func (fn HookFunc) OnTransition(ctx context.Context, event Event) {
	if fn == nil {
		return
	}
	fn(ctx, event)
}

// NoopHook ignores events.
type NoopHook struct{}

// OnTransition implements Hook.
func (NoopHook) OnTransition(context.Context, Event) {}

// Hooks fans an event out to several hooks, skipping nil entries.
type Hooks []Hook

// OnTransition implements Hook.
func (h Hooks) OnTransition(ctx context.Context, event Event) {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		hook.OnTransition(ctx, event)
	}
}

// Recorder keeps events in memory, mainly for tests.
type Recorder struct {
	Events []Event
}

// OnTransition implements Hook.
func (r *Recorder) OnTransition(_ context.Context, event Event) {
	if r == nil {
		return
	}
	r.Events = append(r.Events, event)
}

// Actions lists recorded actions in order.
func (r *Recorder) Actions() []Action {
	if r == nil {
		return nil
	}
	out := make([]Action, 0, len(r.Events))
	for _, event := range r.Events {
		out = append(out, event.Action)
	}
	return out
}

var (
	_ Hook = NoopHook{}
	_ Hook = Hooks(nil)
	_ Hook = (*Recorder)(nil)
)
