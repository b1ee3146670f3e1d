package configadapter

import (
	"sort"
	"strings"

	"github.com/goliatone/go-countrygate/catalog"
	"github.com/goliatone/go-countrygate/country"
	"github.com/goliatone/go-countrygate/urlbuilder"
)

type configOptions struct {
	order []string
	links []urlbuilder.Option
}

// Option configures configadapter parsing.
type Option func(*configOptions)

// WithOrder fixes the catalog order; codes not listed follow alphabetically.
func WithOrder(codes ...string) Option {
	return func(cfg *configOptions) {
		if cfg == nil {
			return
		}
		for _, code := range codes {
			if code = country.NormalizeCode(code); code != "" {
				cfg.order = append(cfg.order, code)
			}
		}
	}
}

// WithLinkOptions adds URL derivation options to the built catalog.
func WithLinkOptions(opts ...urlbuilder.Option) Option {
	return func(cfg *configOptions) {
		if cfg == nil {
			return
		}
		cfg.links = append(cfg.links, opts...)
	}
}

// NewCatalog builds a country catalog from config data. data maps a code to
// either a display name or a map with name, flag and api_base_url entries.
func NewCatalog(data map[string]any, opts ...Option) *catalog.StaticCatalog {
	cfg := configOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	entries := map[string]country.Country{}
	links := append([]urlbuilder.Option(nil), cfg.links...)
	for key, value := range data {
		code := country.NormalizeCode(key)
		if code == "" {
			continue
		}
		entry, apiBase, ok := countryFromValue(code, value)
		if !ok {
			continue
		}
		entries[code] = entry
		if apiBase != "" {
			links = append(links, urlbuilder.WithAPIBaseURL(code, apiBase))
		}
	}

	return catalog.NewStatic(ordered(entries, cfg.order), catalog.WithLinks(urlbuilder.NewLinks(links...)))
}

func countryFromValue(code string, value any) (country.Country, string, bool) {
	switch typed := value.(type) {
	case string:
		return country.Country{Code: code, Name: strings.TrimSpace(typed)}, "", true
	case map[string]any:
		return countryFromMap(code, typed)
	case map[string]string:
		raw := make(map[string]any, len(typed))
		for key, val := range typed {
			raw[key] = val
		}
		return countryFromMap(code, raw)
	default:
		return country.Country{}, "", false
	}
}

func countryFromMap(code string, data map[string]any) (country.Country, string, bool) {
	if enabled, ok := data["enabled"].(bool); ok && !enabled {
		return country.Country{}, "", false
	}
	entry := country.Country{Code: code}
	entry.Name = stringValue(data["name"])
	entry.Flag = stringValue(data["flag"])
	return entry, stringValue(data["api_base_url"]), true
}

func ordered(entries map[string]country.Country, order []string) []country.Country {
	out := make([]country.Country, 0, len(entries))
	seen := map[string]bool{}
	for _, code := range order {
		if entry, ok := entries[code]; ok && !seen[code] {
			out = append(out, entry)
			seen[code] = true
		}
	}
	rest := make([]string, 0, len(entries))
	for code := range entries {
		if !seen[code] {
			rest = append(rest, code)
		}
	}
	sort.Strings(rest)
	for _, code := range rest {
		out = append(out, entries[code])
	}
	return out
}

func stringValue(value any) string {
	s, _ := value.(string)
	return strings.TrimSpace(s)
}
