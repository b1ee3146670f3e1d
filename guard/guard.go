// Package guard validates the country segment of incoming routes and decides
// whether navigation continues, redirects or hands over to the selector.
package guard

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-countrygate/activity"
	"github.com/goliatone/go-countrygate/catalog"
	"github.com/goliatone/go-countrygate/country"
	"github.com/goliatone/go-countrygate/ferrors"
	"github.com/goliatone/go-countrygate/logger"
	"github.com/goliatone/go-countrygate/orchestrator"
)

// ErrRedirect is returned by Require when navigation must move elsewhere.
var ErrRedirect = errors.New("country redirect")

// RedirectError carries the redirect target and unwraps to ErrRedirect.
type RedirectError struct {
	Location string
}

func (e RedirectError) Error() string {
	if e.Location == "" {
		return ErrRedirect.Error()
	}
	return fmt.Sprintf("%s: %s", ErrRedirect.Error(), e.Location)
}

func (e RedirectError) Unwrap() error {
	return ErrRedirect
}

// Action is the outcome of a route activation.
type Action string

const (
	ActionContinue     Action = "continue"
	ActionRedirect     Action = "redirect"
	ActionShowSelector Action = "show_selector"
)

// Decision describes what the caller should do with the navigation.
type Decision struct {
	Action   Action `json:"action"`
	Location string `json:"location,omitempty"`
	Country  string `json:"country,omitempty"`
}

// Orchestrator is the part of the resolution state the guard drives.
type Orchestrator interface {
	SelectedCountry() string
	RegisterURLCountry(ctx context.Context, code string) orchestrator.State
	OpenSelector(ctx context.Context) orchestrator.State
}

// Guard applies the route rules.
type Guard struct {
	catalog        country.Catalog
	defaultCountry string
	hooks          activity.Hooks
	logger         logger.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithCatalog sets the catalog used to validate segments.
func WithCatalog(cat country.Catalog) Option {
	return func(g *Guard) {
		if g == nil {
			return
		}
		g.catalog = cat
	}
}

// WithDefaultCountry sets the redirect target used when nothing is selected.
func WithDefaultCountry(code string) Option {
	return func(g *Guard) {
		if g == nil {
			return
		}
		g.defaultCountry = country.NormalizeCode(code)
	}
}

// WithHook registers a transition hook for redirects.
func WithHook(hook activity.Hook) Option {
	return func(g *Guard) {
		if g == nil || hook == nil {
			return
		}
		g.hooks = append(g.hooks, hook)
	}
}

// WithLogger sets the logger.
func WithLogger(lgr logger.Logger) Option {
	return func(g *Guard) {
		if g == nil {
			return
		}
		g.logger = lgr
	}
}

// New builds a Guard backed by the default catalog unless overridden.
func New(opts ...Option) *Guard {
	g := &Guard{defaultCountry: catalog.DefaultCountry}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	if g.catalog == nil {
		g.catalog = catalog.Default()
	}
	if g.logger == nil {
		g.logger = logger.Default()
	}
	if g.defaultCountry == "" {
		g.defaultCountry = catalog.DefaultCountry
	}
	return g
}

// DefaultCountry returns the fallback redirect country.
func (g *Guard) DefaultCountry() string {
	return g.defaultCountry
}

// Activate handles a route carrying a country segment. Unknown codes
// redirect to the selected or default home and are never registered. An
// empty segment is treated as the root path.
func (g *Guard) Activate(ctx context.Context, orch Orchestrator, segment string) (Decision, error) {
	if orch == nil {
		return Decision{}, orchestratorRequired("activate")
	}
	code := country.NormalizeCode(segment)
	if code == "" {
		return g.Root(ctx, orch)
	}
	if !country.IsValid(g.catalog, code) {
		target := orch.SelectedCountry()
		if target == "" {
			target = g.defaultCountry
		}
		decision := Decision{Action: ActionRedirect, Location: country.HomePath(target), Country: target}
		g.logger.WithContext(ctx).Debug("countrygate.guard.invalid_segment", "segment", segment, "location", decision.Location)
		g.redirected(ctx, decision, code)
		return decision, nil
	}
	orch.RegisterURLCountry(ctx, code)
	return Decision{Action: ActionContinue, Country: code}, nil
}

// Root handles the root path: redirect home when a country is selected,
// otherwise open the selector and render nothing.
func (g *Guard) Root(ctx context.Context, orch Orchestrator) (Decision, error) {
	if orch == nil {
		return Decision{}, orchestratorRequired("root")
	}
	if selected := orch.SelectedCountry(); selected != "" {
		decision := Decision{Action: ActionRedirect, Location: country.HomePath(selected), Country: selected}
		g.redirected(ctx, decision, "")
		return decision, nil
	}
	orch.OpenSelector(ctx)
	return Decision{Action: ActionShowSelector}, nil
}

// Require runs Activate and reports a redirect as a RedirectError. A nil
// guard lets everything through.
func Require(ctx context.Context, g *Guard, orch Orchestrator, segment string) error {
	if g == nil {
		return nil
	}
	decision, err := g.Activate(ctx, orch, segment)
	if err != nil {
		return err
	}
	if decision.Action == ActionRedirect {
		return RedirectError{Location: decision.Location}
	}
	return nil
}

func (g *Guard) redirected(ctx context.Context, decision Decision, urlCountry string) {
	if len(g.hooks) == 0 {
		return
	}
	g.hooks.OnTransition(ctx, activity.Event{
		Action:     activity.ActionRedirected,
		Country:    decision.Country,
		URLCountry: urlCountry,
		Location:   decision.Location,
	})
}

func orchestratorRequired(operation string) error {
	return ferrors.WrapSentinel(ferrors.ErrOrchestratorRequired, "guard: orchestrator is required", map[string]any{
		ferrors.MetaOperation: operation,
	})
}

var _ Orchestrator = (*orchestrator.Orchestrator)(nil)
