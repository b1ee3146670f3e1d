package catalog

import (
	"strings"

	"github.com/goliatone/go-countrygate/country"
	"github.com/goliatone/go-countrygate/urlbuilder"
)

// DefaultCountry is used when neither a selection nor a valid URL country exists.
const DefaultCountry = "ec"

// Supported lists the countries served by default, in display order.
var Supported = []country.Country{
	{Code: "ar", Name: "Argentina", Flag: "🇦🇷"},
	{Code: "au", Name: "Australia", Flag: "🇦🇺"},
	{Code: "br", Name: "Brasil", Flag: "🇧🇷"},
	{Code: "cl", Name: "Chile", Flag: "🇨🇱"},
	{Code: "co", Name: "Colombia", Flag: "🇨🇴"},
	{Code: "cr", Name: "Costa Rica", Flag: "🇨🇷"},
	{Code: "de", Name: "Alemania", Flag: "🇩🇪"},
	{Code: "ec", Name: "Ecuador", Flag: "🇪🇨"},
	{Code: "es", Name: "España", Flag: "🇪🇸"},
	{Code: "in", Name: "India", Flag: "🇮🇳"},
	{Code: "it", Name: "Italia", Flag: "🇮🇹"},
	{Code: "mx", Name: "México", Flag: "🇲🇽"},
	{Code: "pe", Name: "Perú", Flag: "🇵🇪"},
	{Code: "ph", Name: "Filipinas", Flag: "🇵🇭"},
	{Code: "pt", Name: "Portugal", Flag: "🇵🇹"},
	{Code: "py", Name: "Paraguay", Flag: "🇵🇾"},
	{Code: "ch", Name: "Suiza", Flag: "🇨🇭"},
	{Code: "us", Name: "Estados Unidos", Flag: "🇺🇸"},
	{Code: "uy", Name: "Uruguay", Flag: "🇺🇾"},
	{Code: "za", Name: "Sudáfrica", Flag: "🇿🇦"},
}

// StaticCatalog provides an immutable in-memory catalog.
type StaticCatalog struct {
	byCode map[string]country.Country
	order  []string
	links  *urlbuilder.Links
}

// Option customizes a StaticCatalog.
type Option func(*StaticCatalog)

// WithLinks sets the URL derivations used by FlagURL and APIBaseURL.
func WithLinks(links *urlbuilder.Links) Option {
	return func(c *StaticCatalog) {
		if c == nil {
			return
		}
		c.links = links
	}
}

// NewStatic builds a catalog from the provided countries. Entries with an
// empty code are skipped; later duplicates replace earlier ones in place.
func NewStatic(countries []country.Country, opts ...Option) *StaticCatalog {
	c := &StaticCatalog{
		byCode: make(map[string]country.Country, len(countries)),
		order:  make([]string, 0, len(countries)),
	}
	for _, entry := range countries {
		code := country.NormalizeCode(entry.Code)
		if code == "" {
			continue
		}
		entry.Code = code
		entry.Name = strings.TrimSpace(entry.Name)
		if entry.Name == "" {
			entry.Name = strings.ToUpper(code)
		}
		if _, exists := c.byCode[code]; !exists {
			c.order = append(c.order, code)
		}
		c.byCode[code] = entry
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.links == nil {
		c.links = urlbuilder.NewLinks()
	}
	return c
}

// Default returns the catalog of supported countries.
func Default(opts ...Option) *StaticCatalog {
	return NewStatic(Supported, opts...)
}

// Lookup implements country.Catalog with a case-insensitive match.
func (c *StaticCatalog) Lookup(code string) (country.Country, bool) {
	if c == nil || len(c.byCode) == 0 {
		return country.Country{}, false
	}
	entry, ok := c.byCode[country.NormalizeCode(code)]
	return entry, ok
}

// IsValid reports whether Lookup succeeds for code.
func (c *StaticCatalog) IsValid(code string) bool {
	_, ok := c.Lookup(code)
	return ok
}

// List implements country.Catalog, preserving declaration order.
func (c *StaticCatalog) List() []country.Country {
	if c == nil || len(c.order) == 0 {
		return nil
	}
	out := make([]country.Country, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, c.byCode[code])
	}
	return out
}

// Search filters by a case-insensitive substring of the name or the code.
// An empty term returns the full list.
func (c *StaticCatalog) Search(term string) []country.Country {
	term = strings.ToLower(strings.TrimSpace(term))
	all := c.List()
	if term == "" {
		return all
	}
	out := make([]country.Country, 0, len(all))
	for _, entry := range all {
		if strings.Contains(strings.ToLower(entry.Name), term) || strings.Contains(entry.Code, term) {
			out = append(out, entry)
		}
	}
	return out
}

// FlagURL returns the flag image URL for a catalog country.
func (c *StaticCatalog) FlagURL(code string, width int) (string, bool) {
	entry, ok := c.Lookup(code)
	if !ok {
		return "", false
	}
	url, err := c.links.FlagURL(entry.Code, width)
	if err != nil || url == "" {
		return "", false
	}
	return url, true
}

// APIBaseURL returns the content API base URL for a catalog country.
func (c *StaticCatalog) APIBaseURL(code string) (string, bool) {
	entry, ok := c.Lookup(code)
	if !ok {
		return "", false
	}
	url := c.links.APIBaseURL(entry.Code)
	return url, url != ""
}

var _ country.Catalog = (*StaticCatalog)(nil)
