package detect

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrSignalUnavailable reports that the platform exposes no usable value.
var ErrSignalUnavailable = errors.New("detect: signal unavailable")

// Environment exposes the platform signals used for detection.
type Environment interface {
	Timezone() (string, error)
	Locale() (string, error)
}

// StaticEnvironment returns fixed values, mainly for tests and examples.
type StaticEnvironment struct {
	Zone      string
	ZoneErr   error
	LocaleTag string
	LocaleErr error
}

// Timezone implements Environment.
func (e StaticEnvironment) Timezone() (string, error) {
	if e.ZoneErr != nil {
		return "", e.ZoneErr
	}
	if e.Zone == "" {
		return "", ErrSignalUnavailable
	}
	return e.Zone, nil
}

// Locale implements Environment.
func (e StaticEnvironment) Locale() (string, error) {
	if e.LocaleErr != nil {
		return "", e.LocaleErr
	}
	if e.LocaleTag == "" {
		return "", ErrSignalUnavailable
	}
	return e.LocaleTag, nil
}

// OSEnvironment reads the process timezone and locale.
type OSEnvironment struct {
	Getenv        func(string) string
	Readlink      func(string) (string, error)
	LocaltimePath string
}

// NewOSEnvironment builds an environment backed by the running process.
func NewOSEnvironment() OSEnvironment {
	return OSEnvironment{
		Getenv:        os.Getenv,
		Readlink:      os.Readlink,
		LocaltimePath: "/etc/localtime",
	}
}

// Timezone resolves the IANA zone from TZ, the Go runtime, or the
// /etc/localtime symlink, in that order.
func (e OSEnvironment) Timezone() (string, error) {
	getenv := e.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if tz := strings.TrimPrefix(strings.TrimSpace(getenv("TZ")), ":"); tz != "" {
		return tz, nil
	}
	if name := time.Local.String(); name != "" && name != "Local" && name != "UTC" {
		return name, nil
	}
	readlink := e.Readlink
	if readlink == nil {
		readlink = os.Readlink
	}
	path := e.LocaltimePath
	if path == "" {
		path = "/etc/localtime"
	}
	target, err := readlink(path)
	if err != nil {
		return "", err
	}
	return zoneFromPath(target)
}

// Locale returns the first non-empty of LC_ALL, LC_MESSAGES and LANG.
func (e OSEnvironment) Locale() (string, error) {
	getenv := e.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		value := strings.TrimSpace(getenv(key))
		if value == "" || value == "C" || value == "POSIX" {
			continue
		}
		return value, nil
	}
	return "", ErrSignalUnavailable
}

func zoneFromPath(target string) (string, error) {
	target = filepath.ToSlash(target)
	idx := strings.Index(target, "zoneinfo/")
	if idx < 0 {
		return "", ErrSignalUnavailable
	}
	zone := target[idx+len("zoneinfo/"):]
	zone = strings.TrimPrefix(zone, "posix/")
	if zone == "" {
		return "", ErrSignalUnavailable
	}
	return zone, nil
}
