// Package detect guesses a visitor's country from local signals without any
// network access: the resolved timezone first, then the locale region.
package detect

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/goliatone/go-countrygate/country"
	"github.com/goliatone/go-countrygate/logger"
)

// Signal names a detection step.
type Signal string

const (
	SignalTimezone Signal = "timezone"
	SignalLocale   Signal = "locale"
)

// Result records which signal produced a code.
type Result struct {
	Code   string
	Signal Signal
	Raw    string
}

// Detector implements country.Detector over an Environment.
type Detector struct {
	catalog   country.Catalog
	env       Environment
	timezones map[string]string
	logger    logger.Logger
}

// Option customizes a Detector.
type Option func(*Detector)

// WithEnvironment overrides the platform signal source.
func WithEnvironment(env Environment) Option {
	return func(d *Detector) {
		if d == nil {
			return
		}
		d.env = env
	}
}

// WithTimezones replaces the timezone table.
func WithTimezones(table map[string]string) Option {
	return func(d *Detector) {
		if d == nil {
			return
		}
		d.timezones = table
	}
}

// WithLogger sets the logger used for step failures.
func WithLogger(lgr logger.Logger) Option {
	return func(d *Detector) {
		if d == nil {
			return
		}
		d.logger = lgr
	}
}

// New builds a Detector validating results against cat.
func New(cat country.Catalog, opts ...Option) *Detector {
	d := &Detector{
		catalog:   cat,
		env:       NewOSEnvironment(),
		timezones: DefaultTimezones,
		logger:    logger.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	if d.env == nil {
		d.env = NewOSEnvironment()
	}
	if d.timezones == nil {
		d.timezones = DefaultTimezones
	}
	if d.logger == nil {
		d.logger = logger.Default()
	}
	return d
}

// Detect implements country.Detector.
func (d *Detector) Detect(ctx context.Context) (string, bool) {
	result, ok := d.DetectWithSignal(ctx)
	return result.Code, ok
}

// DetectWithSignal runs the priority chain and reports the winning signal.
func (d *Detector) DetectWithSignal(ctx context.Context) (Result, bool) {
	if d == nil {
		return Result{}, false
	}
	if result, ok := d.step(ctx, SignalTimezone, d.env.Timezone, d.FromTimezone); ok {
		return result, true
	}
	if result, ok := d.step(ctx, SignalLocale, d.env.Locale, d.FromLocale); ok {
		return result, true
	}
	return Result{}, false
}

// FromTimezone maps a zone identifier to a catalog code.
func (d *Detector) FromTimezone(zone string) (string, bool) {
	code, ok := d.timezones[strings.TrimSpace(zone)]
	if !ok {
		return "", false
	}
	return d.validate(code)
}

// FromLocale extracts the region subtag of a locale ("es-EC", "pt_PT.UTF-8").
// Tags without an explicit region yield nothing.
func (d *Detector) FromLocale(raw string) (string, bool) {
	region, ok := regionOf(raw)
	if !ok {
		return "", false
	}
	return d.validate(region)
}

func (d *Detector) validate(code string) (string, bool) {
	code = country.NormalizeCode(code)
	if code == "" || !country.IsValid(d.catalog, code) {
		return "", false
	}
	return code, true
}

func (d *Detector) step(ctx context.Context, signal Signal, read func() (string, error), mapper func(string) (string, bool)) (result Result, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.WithContext(ctx).Debug("countrygate.detect.step_panic", "signal", signal, "panic", fmt.Sprint(r))
			result, ok = Result{}, false
		}
	}()
	raw, err := read()
	if err != nil {
		d.logger.WithContext(ctx).Debug("countrygate.detect.step_failed", "signal", signal, "error", err)
		return Result{}, false
	}
	code, ok := mapper(raw)
	if !ok {
		return Result{}, false
	}
	return Result{Code: code, Signal: signal, Raw: raw}, true
}

func regionOf(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if idx := strings.IndexAny(raw, ".@"); idx >= 0 {
		raw = raw[:idx]
	}
	raw = strings.ReplaceAll(raw, "_", "-")
	if !strings.Contains(raw, "-") {
		return "", false
	}
	if tag, err := language.Parse(raw); err == nil {
		region, confidence := tag.Region()
		if confidence == language.Exact {
			return strings.ToLower(region.String()), true
		}
		return "", false
	}
	parts := strings.Split(raw, "-")
	if len(parts) < 2 || parts[1] == "" {
		return "", false
	}
	return strings.ToLower(parts[1]), true
}

var _ country.Detector = (*Detector)(nil)
