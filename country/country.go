// Package country holds the shared country record and the contracts the
// resolution components depend on.
package country

import (
	"context"
	"strings"
)

// Country is an immutable catalog record keyed by its lowercase ISO 3166-1
// alpha-2 code.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag,omitempty"`
}

// IsZero reports whether the record is empty.
func (c Country) IsZero() bool {
	return c.Code == ""
}

// Catalog exposes the supported countries.
type Catalog interface {
	Lookup(code string) (Country, bool)
	List() []Country
}

// Detector derives a best-guess country code from local signals.
type Detector interface {
	Detect(ctx context.Context) (string, bool)
}

// DetectorFunc wraps a function as a Detector.
type DetectorFunc func(context.Context) (string, bool)

// Detect implements Detector.
func (fn DetectorFunc) Detect(ctx context.Context) (string, bool) {
	if fn == nil {
		return "", false
	}
	return fn(ctx)
}

// NormalizeCode trims whitespace and lowercases a country code.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// IsValid reports whether the catalog knows code.
func IsValid(cat Catalog, code string) bool {
	if cat == nil {
		return false
	}
	_, ok := cat.Lookup(code)
	return ok
}

// HomePath returns the landing route for a country.
func HomePath(code string) string {
	return "/" + NormalizeCode(code) + "/home"
}
