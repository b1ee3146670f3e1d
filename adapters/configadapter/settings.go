package configadapter

import (
	"github.com/goliatone/go-config/config"

	"github.com/goliatone/go-countrygate/catalog"
	"github.com/goliatone/go-countrygate/country"
	"github.com/goliatone/go-countrygate/urlbuilder"
)

// Settings is the countrygate section of an application config.
type Settings struct {
	DefaultCountry string
	Detect         bool
	APIBaseURL     string
	FlagTemplate   string
	Countries      map[string]any
	Order          []string
}

type optionalBool interface {
	IsSet() bool
	Value() bool
}

// NewSettings reads settings from a nested map as produced by go-config.
// Detection stays on unless detect is explicitly false.
func NewSettings(data map[string]any) Settings {
	s := Settings{
		DefaultCountry: catalog.DefaultCountry,
		Detect:         true,
	}
	if code := country.NormalizeCode(stringValue(data["default_country"])); code != "" {
		s.DefaultCountry = code
	}
	if value, ok := boolFromValue(data["detect"]); ok {
		s.Detect = value
	}
	s.APIBaseURL = stringValue(data["api_base_url"])
	s.FlagTemplate = stringValue(data["flag_url"])
	if countries, ok := data["countries"].(map[string]any); ok && len(countries) > 0 {
		s.Countries = countries
	}
	if order, ok := data["order"].([]any); ok {
		for _, item := range order {
			if code := country.NormalizeCode(stringValue(item)); code != "" {
				s.Order = append(s.Order, code)
			}
		}
	}
	return s
}

// LinkOptions returns the URL derivation options implied by s.
func (s Settings) LinkOptions() []urlbuilder.Option {
	var opts []urlbuilder.Option
	if s.APIBaseURL != "" {
		opts = append(opts, urlbuilder.WithAPIFallback(s.APIBaseURL))
	}
	if s.FlagTemplate != "" {
		opts = append(opts, urlbuilder.WithFlagTemplate(s.FlagTemplate))
	}
	return opts
}

// Catalog builds the configured catalog, or the default one when no
// countries are configured.
func (s Settings) Catalog() *catalog.StaticCatalog {
	if len(s.Countries) == 0 {
		return catalog.Default(catalog.WithLinks(urlbuilder.NewLinks(s.LinkOptions()...)))
	}
	return NewCatalog(s.Countries, WithOrder(s.Order...), WithLinkOptions(s.LinkOptions()...))
}

func boolFromValue(value any) (bool, bool) {
	switch typed := value.(type) {
	case optionalBool:
		return typed.Value(), typed.IsSet()
	case config.OptionalBool:
		return typed.Value(), typed.IsSet()
	case *config.OptionalBool:
		if typed == nil {
			return false, false
		}
		return typed.Value(), typed.IsSet()
	case bool:
		return typed, true
	case *bool:
		if typed == nil {
			return false, false
		}
		return *typed, true
	default:
		return false, false
	}
}
