// Package httpadapter exposes the country resolution state over HTTP with a
// chi router. Each browser session owns one orchestrator; the visitor cookie
// scopes the persisted preference.
package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-countrygate/country"
	"github.com/goliatone/go-countrygate/ferrors"
	"github.com/goliatone/go-countrygate/guard"
	"github.com/goliatone/go-countrygate/logger"
	"github.com/goliatone/go-countrygate/orchestrator"
	"github.com/goliatone/go-countrygate/preference"
	"github.com/goliatone/go-countrygate/scope"
	"github.com/goliatone/go-countrygate/session"

	goerrors "github.com/goliatone/go-errors"
)

const (
	DefaultSessionCookie = "countrygate_session"
	DefaultVisitorCookie = "countrygate_visitor"

	visitorCookieMaxAge = 365 * 24 * time.Hour
)

type contextKey string

const orchestratorKey contextKey = "countrygate.orchestrator"

// Handler serves the country routes.
type Handler struct {
	sessions      *session.Manager
	guard         *guard.Guard
	catalog       country.Catalog
	logger        logger.Logger
	content       http.Handler
	sessionCookie string
	visitorCookie string
	secure        bool
	newVisitorID  func() string
}

// Option configures a Handler.
type Option func(*Handler)

// WithGuard sets the route guard.
func WithGuard(g *guard.Guard) Option {
	return func(h *Handler) {
		if h == nil {
			return
		}
		h.guard = g
	}
}

// WithCatalog sets the catalog served by the countries endpoint.
func WithCatalog(cat country.Catalog) Option {
	return func(h *Handler) {
		if h == nil {
			return
		}
		h.catalog = cat
	}
}

// WithLogger sets the logger.
func WithLogger(lgr logger.Logger) Option {
	return func(h *Handler) {
		if h == nil {
			return
		}
		h.logger = lgr
	}
}

// WithContent sets the handler rendered for a valid country route. The
// orchestrator is available through FromContext.
func WithContent(next http.Handler) Option {
	return func(h *Handler) {
		if h == nil {
			return
		}
		h.content = next
	}
}

// WithCookieNames overrides the session and visitor cookie names.
func WithCookieNames(sessionName, visitorName string) Option {
	return func(h *Handler) {
		if h == nil {
			return
		}
		if sessionName = strings.TrimSpace(sessionName); sessionName != "" {
			h.sessionCookie = sessionName
		}
		if visitorName = strings.TrimSpace(visitorName); visitorName != "" {
			h.visitorCookie = visitorName
		}
	}
}

// WithSecureCookies marks issued cookies as Secure.
func WithSecureCookies(secure bool) Option {
	return func(h *Handler) {
		if h == nil {
			return
		}
		h.secure = secure
	}
}

// WithVisitorIDGenerator overrides how visitor ids are minted.
func WithVisitorIDGenerator(fn func() string) Option {
	return func(h *Handler) {
		if h == nil || fn == nil {
			return
		}
		h.newVisitorID = fn
	}
}

// New builds a Handler over the session manager. A nil manager falls back to
// in-memory sessions with in-memory preferences.
func New(sessions *session.Manager, opts ...Option) *Handler {
	h := &Handler{
		sessions:      sessions,
		sessionCookie: DefaultSessionCookie,
		visitorCookie: DefaultVisitorCookie,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if h.guard == nil {
		h.guard = guard.New(guard.WithCatalog(h.catalog))
	}
	if h.logger == nil {
		h.logger = logger.Default()
	}
	if h.content == nil {
		h.content = http.HandlerFunc(h.handleContent)
	}
	if h.sessions == nil {
		h.logger.Warn("countrygate.http.default_sessions", "preferences", "memory")
		h.sessions = session.NewManager(session.NewFactory(preference.NewMemoryBackend(), nil,
			orchestrator.WithCatalog(h.catalog),
			orchestrator.WithLogger(h.logger),
		))
	}
	if h.newVisitorID == nil {
		h.newVisitorID = h.sessions.NewID
	}
	return h
}

// Routes returns a router with every country route registered.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

// Register registers the country routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.identify)
		r.Get("/", h.handleRoot)
		r.Get("/country/state", h.handleState)
		r.Get("/country/countries", h.handleCountries)
		r.Post("/country/select", h.handleSelect)
		r.Post("/country/selector", h.handleOpenSelector)
		r.Post("/country/mismatch/resolve", h.handleResolve)
		r.Post("/country/mismatch/dismiss", h.handleDismiss)
		r.Get("/{countryCode}", h.handleCountry)
		r.Get("/{countryCode}/*", h.handleCountry)
	})
	r.NotFound(redirectRoot)
	r.MethodNotAllowed(redirectRoot)
}

func redirectRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}

// FromContext returns the orchestrator bound to the request.
func FromContext(ctx context.Context) (*orchestrator.Orchestrator, bool) {
	if ctx == nil {
		return nil, false
	}
	orch, ok := ctx.Value(orchestratorKey).(*orchestrator.Orchestrator)
	return orch, ok && orch != nil
}

// identify issues missing cookies and loads the session orchestrator.
func (h *Handler) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		visitorID := h.cookieValue(r, h.visitorCookie)
		if visitorID == "" {
			visitorID = h.newVisitorID()
			h.setCookie(w, h.visitorCookie, visitorID, visitorCookieMaxAge)
		}
		sessionID := h.cookieValue(r, h.sessionCookie)
		if !h.sessions.Valid(sessionID) {
			sessionID = h.sessions.NewID()
			h.setCookie(w, h.sessionCookie, sessionID, 0)
		}

		ctx = scope.WithVisitorID(ctx, visitorID)
		ctx = scope.WithSessionID(ctx, sessionID)

		orch, created, err := h.sessions.Get(ctx, sessionID)
		if err != nil {
			h.logger.WithContext(ctx).Error("countrygate.http.session_failed", "session_id", sessionID, "error", err)
			writeError(w, err)
			return
		}
		if created {
			h.logger.WithContext(ctx).Debug("countrygate.http.session_created", "session_id", sessionID, "visitor_id", visitorID)
		}

		ctx = context.WithValue(ctx, orchestratorKey, orch)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orch, _ := FromContext(ctx)
	decision, err := h.guard.Root(ctx, orch)
	if err != nil {
		writeError(w, err)
		return
	}
	h.respondDecision(w, r, decision, orch)
}

func (h *Handler) handleCountry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orch, _ := FromContext(ctx)
	decision, err := h.guard.Activate(ctx, orch, chi.URLParam(r, "countryCode"))
	if err != nil {
		writeError(w, err)
		return
	}
	if decision.Action == guard.ActionContinue {
		h.content.ServeHTTP(w, r)
		return
	}
	h.respondDecision(w, r, decision, orch)
}

func (h *Handler) handleContent(w http.ResponseWriter, r *http.Request) {
	orch, _ := FromContext(r.Context())
	state := orch.Snapshot()
	body := map[string]any{
		"country": state.URLCountry,
		"state":   state,
	}
	if cat, ok := orch.Catalog().(interface {
		APIBaseURL(code string) (string, bool)
	}); ok {
		if base, ok := cat.APIBaseURL(state.URLCountry); ok {
			body["api_base_url"] = base
		}
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	orch, _ := FromContext(r.Context())
	writeJSON(w, http.StatusOK, stateResponse{State: orch.Snapshot()})
}

func (h *Handler) handleCountries(w http.ResponseWriter, r *http.Request) {
	orch, _ := FromContext(r.Context())
	cat := h.catalog
	if cat == nil {
		cat = orch.Catalog()
	}
	term := r.URL.Query().Get("q")
	var list []country.Country
	if searcher, ok := cat.(interface {
		Search(term string) []country.Country
	}); ok {
		list = searcher.Search(term)
	} else {
		list = cat.List()
	}
	if list == nil {
		list = []country.Country{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"countries": list})
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orch, _ := FromContext(ctx)
	code, err := readCode(r)
	if err != nil {
		h.logger.WithContext(ctx).Warn("countrygate.http.invalid_request", "error", err)
		writeError(w, err)
		return
	}
	state, err := orch.SelectCountry(ctx, code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{
		State:    state,
		Location: country.HomePath(state.SelectedCountry),
	})
}

func (h *Handler) handleOpenSelector(w http.ResponseWriter, r *http.Request) {
	orch, _ := FromContext(r.Context())
	writeJSON(w, http.StatusOK, stateResponse{State: orch.OpenSelector(r.Context())})
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	orch, _ := FromContext(r.Context())
	target, ok := orch.ResolveMismatch(r.Context())
	h.respondMismatch(w, orch, target, ok)
}

func (h *Handler) handleDismiss(w http.ResponseWriter, r *http.Request) {
	orch, _ := FromContext(r.Context())
	target, ok := orch.DismissMismatch(r.Context())
	h.respondMismatch(w, orch, target, ok)
}

func (h *Handler) respondMismatch(w http.ResponseWriter, orch *orchestrator.Orchestrator, target country.Country, ok bool) {
	if !ok {
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:    "no country mismatch is open",
			TextCode: "MISMATCH_NOT_OPEN",
		})
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{
		State:    orch.Snapshot(),
		Location: country.HomePath(target.Code),
	})
}

func (h *Handler) respondDecision(w http.ResponseWriter, r *http.Request, decision guard.Decision, orch *orchestrator.Orchestrator) {
	if decision.Action == guard.ActionRedirect {
		http.Redirect(w, r, decision.Location, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{State: orch.Snapshot(), Decision: &decision})
}

func (h *Handler) cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}

func (h *Handler) setCookie(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge > 0 {
		cookie.MaxAge = int(maxAge / time.Second)
	}
	http.SetCookie(w, cookie)
}

type stateResponse struct {
	State    orchestrator.State `json:"state"`
	Location string             `json:"location,omitempty"`
	Decision *guard.Decision    `json:"decision,omitempty"`
}

type errorResponse struct {
	Error    string `json:"error"`
	TextCode string `json:"text_code,omitempty"`
}

type selectRequest struct {
	Code string `json:"code"`
}

// readCode accepts a JSON body or a form value named code.
func readCode(r *http.Request) (string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req selectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", ferrors.Wrap(err, goerrors.CategoryBadInput, ferrors.TextCodeInvalidCountry, "invalid request body", nil)
		}
		return req.Code, nil
	}
	return r.FormValue("code"), nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: "internal error"}
	if rich, ok := ferrors.As(err); ok {
		resp.Error = rich.Message
		resp.TextCode = rich.TextCode
	}
	writeJSON(w, ferrors.HTTPStatus(err), resp)
}
