package gologgeradapter

import (
	"context"
	"strings"

	"github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-countrygate/activity"
)

// Hook logs country resolution transitions using go-logger.
type Hook struct {
	logger   glog.Logger
	levels   map[activity.Action]string
	prefix   string
	fallback string
}

// Option customizes the logger hook.
type Option func(*Hook)

// DefaultLevels maps transitions to log levels: bookkeeping at debug, user
// visible outcomes at info, degraded paths at warn.
func DefaultLevels() map[activity.Action]string {
	return map[activity.Action]string{
		activity.ActionPreferenceLoaded:  "debug",
		activity.ActionDetected:          "debug",
		activity.ActionURLRegistered:     "debug",
		activity.ActionRedirected:        "debug",
		activity.ActionSelectorOpened:    "debug",
		activity.ActionMismatchOpened:    "info",
		activity.ActionMismatchResolved:  "info",
		activity.ActionMismatchDismissed: "info",
		activity.ActionCountrySelected:   "info",
		activity.ActionSelectionRejected: "warn",
		activity.ActionPersistFailed:     "warn",
	}
}

// New builds a logging hook for transition events.
func New(logger glog.Logger, opts ...Option) *Hook {
	hook := &Hook{
		logger:   logger,
		levels:   DefaultLevels(),
		prefix:   "countrygate.",
		fallback: "info",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(hook)
		}
	}
	return hook
}

// WithLevel sets the log level for one action.
func WithLevel(action activity.Action, level string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.levels[action] = strings.ToLower(strings.TrimSpace(level))
	}
}

// WithMessagePrefix overrides the prefix prepended to the action name.
func WithMessagePrefix(prefix string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.prefix = prefix
	}
}

// OnTransition implements activity.Hook.
func (h *Hook) OnTransition(ctx context.Context, event activity.Event) {
	if h == nil || h.logger == nil {
		return
	}
	h.log(ctx, h.Level(event.Action), h.prefix+string(event.Action), Fields(event))
}

// Level returns the configured level for action.
func (h *Hook) Level(action activity.Action) string {
	if level, ok := h.levels[action]; ok && level != "" {
		return level
	}
	return h.fallback
}

// Fields flattens an event into log fields, omitting empty values.
func Fields(event activity.Event) map[string]any {
	fields := map[string]any{"country_action": string(event.Action)}
	add := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	add("session_id", event.SessionID)
	add("country_code", event.Country)
	add("url_country", event.URLCountry)
	add("reference_country", event.ReferenceCountry)
	add("location", event.Location)
	if event.Error != nil {
		fields["country_error"] = event.Error.Error()
	}
	return fields
}

func (h *Hook) log(ctx context.Context, level string, message string, fields map[string]any) {
	logger := h.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(glog.FieldsLogger); ok && len(fields) > 0 {
		logger = fieldsLogger.WithFields(fields)
	}
	switch level {
	case "trace":
		logger.Trace(message)
	case "debug":
		logger.Debug(message)
	case "warn":
		logger.Warn(message)
	case "error", "fatal":
		logger.Error(message)
	default:
		logger.Info(message)
	}
}

var _ activity.Hook = (*Hook)(nil)
