package detect

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-countrygate/catalog"
	"github.com/goliatone/go-countrygate/logger"
)

func newTestDetector(env Environment) *Detector {
	return New(catalog.Default(), WithEnvironment(env), WithLogger(logger.Nop()))
}

func TestDetectTimezoneWinsOverLocale(t *testing.T) {
	d := newTestDetector(StaticEnvironment{
		Zone:      "America/Argentina/Buenos_Aires",
		LocaleTag: "es-MX",
	})
	result, ok := d.DetectWithSignal(context.Background())
	if !ok {
		t.Fatalf("expected detection to succeed")
	}
	if result.Code != "ar" || result.Signal != SignalTimezone {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestDetectFallsBackToLocaleRegion(t *testing.T) {
	d := newTestDetector(StaticEnvironment{
		Zone:      "Europe/Paris",
		LocaleTag: "pt-PT",
	})
	code, ok := d.Detect(context.Background())
	if !ok || code != "pt" {
		t.Fatalf("Detect() = %q, %v; want pt", code, ok)
	}
}

func TestDetectLocaleWithoutRegionIsAbsent(t *testing.T) {
	d := newTestDetector(StaticEnvironment{LocaleTag: "en"})
	if code, ok := d.Detect(context.Background()); ok {
		t.Fatalf("expected no detection, got %q", code)
	}
}

func TestDetectPlatformErrorsFallThrough(t *testing.T) {
	d := newTestDetector(StaticEnvironment{
		ZoneErr:   errors.New("no tz database"),
		LocaleTag: "es_EC.UTF-8",
	})
	code, ok := d.Detect(context.Background())
	if !ok || code != "ec" {
		t.Fatalf("Detect() = %q, %v; want ec", code, ok)
	}

	d = newTestDetector(StaticEnvironment{
		ZoneErr:   errors.New("no tz database"),
		LocaleErr: errors.New("no locale"),
	})
	if _, ok := d.Detect(context.Background()); ok {
		t.Fatalf("expected no detection when every signal fails")
	}
}

type panickingEnv struct{}

func (panickingEnv) Timezone() (string, error) { panic("tz exploded") }
func (panickingEnv) Locale() (string, error)   { return "es-CL", nil }

func TestDetectRecoversFromPanickingSignal(t *testing.T) {
	d := newTestDetector(panickingEnv{})
	code, ok := d.Detect(context.Background())
	if !ok || code != "cl" {
		t.Fatalf("Detect() = %q, %v; want cl", code, ok)
	}
}

func TestDetectRejectsRegionOutsideCatalog(t *testing.T) {
	d := newTestDetector(StaticEnvironment{LocaleTag: "fr-FR"})
	if code, ok := d.Detect(context.Background()); ok {
		t.Fatalf("expected fr to be rejected, got %q", code)
	}
}

func TestFromTimezoneValidatesAgainstCatalog(t *testing.T) {
	d := New(catalog.Default(), WithTimezones(map[string]string{
		"Europe/Paris": "fr",
		"America/Lima": "pe",
	}), WithLogger(logger.Nop()))
	if _, ok := d.FromTimezone("Europe/Paris"); ok {
		t.Fatalf("expected unmapped catalog code to be rejected")
	}
	if code, ok := d.FromTimezone("America/Lima"); !ok || code != "pe" {
		t.Fatalf("FromTimezone() = %q, %v", code, ok)
	}
}

func TestOSEnvironmentReadsEnvAndSymlink(t *testing.T) {
	env := OSEnvironment{
		Getenv: func(key string) string {
			if key == "LANG" {
				return "es_PE.UTF-8"
			}
			return ""
		},
		Readlink: func(string) (string, error) {
			return "/usr/share/zoneinfo/America/Lima", nil
		},
		LocaltimePath: "/etc/localtime",
	}
	locale, err := env.Locale()
	if err != nil || locale != "es_PE.UTF-8" {
		t.Fatalf("Locale() = %q, %v", locale, err)
	}

	env.Getenv = func(key string) string {
		if key == "TZ" {
			return ":America/Bogota"
		}
		return ""
	}
	zone, err := env.Timezone()
	if err != nil || zone != "America/Bogota" {
		t.Fatalf("Timezone() = %q, %v", zone, err)
	}
	if _, err := env.Locale(); !errors.Is(err, ErrSignalUnavailable) {
		t.Fatalf("expected unavailable locale, got %v", err)
	}
}

func TestZoneFromPath(t *testing.T) {
	zone, err := zoneFromPath("/var/db/timezone/zoneinfo/posix/Europe/Madrid")
	if err != nil || zone != "Europe/Madrid" {
		t.Fatalf("zoneFromPath() = %q, %v", zone, err)
	}
	if _, err := zoneFromPath("/etc/custom"); err == nil {
		t.Fatalf("expected error for non zoneinfo path")
	}
}
