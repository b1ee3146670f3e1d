package catalog

import (
	"testing"

	"github.com/goliatone/go-countrygate/country"
	"github.com/goliatone/go-countrygate/urlbuilder"
)

func TestDefaultCatalogLooksUpEveryCode(t *testing.T) {
	cat := Default()
	for _, entry := range Supported {
		if !cat.IsValid(entry.Code) {
			t.Fatalf("expected %q to be valid", entry.Code)
		}
		found, ok := cat.Lookup(entry.Code)
		if !ok || found.Code != entry.Code {
			t.Fatalf("Lookup(%q) = %+v, %v", entry.Code, found, ok)
		}
	}
	if len(cat.List()) != len(Supported) {
		t.Fatalf("expected %d countries, got %d", len(Supported), len(cat.List()))
	}
	if !cat.IsValid(DefaultCountry) {
		t.Fatalf("expected default country to be in the catalog")
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	cat := Default()
	found, ok := cat.Lookup(" EC ")
	if !ok {
		t.Fatalf("expected EC to resolve")
	}
	if found.Code != "ec" || found.Name != "Ecuador" {
		t.Fatalf("unexpected country: %+v", found)
	}
	if cat.IsValid("zz") {
		t.Fatalf("expected zz to be invalid")
	}
}

func TestNewStaticSkipsEmptyAndKeepsOrder(t *testing.T) {
	cat := NewStatic([]country.Country{
		{Code: "PE", Name: "Perú"},
		{Code: " ", Name: "blank"},
		{Code: "ar", Name: "Argentina"},
		{Code: "pe", Name: "Peru"},
	})
	list := cat.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 countries, got %d", len(list))
	}
	if list[0].Code != "pe" || list[0].Name != "Peru" || list[1].Code != "ar" {
		t.Fatalf("unexpected order: %+v", list)
	}
}

func TestSearchMatchesNameOrCode(t *testing.T) {
	cat := Default()
	if got := cat.Search(""); len(got) != len(Supported) {
		t.Fatalf("expected empty term to return all, got %d", len(got))
	}
	got := cat.Search("ARG")
	if len(got) != 1 || got[0].Code != "ar" {
		t.Fatalf("unexpected name search: %+v", got)
	}
	got = cat.Search("uy")
	if len(got) != 1 || got[0].Code != "uy" {
		t.Fatalf("unexpected code search: %+v", got)
	}
	if got := cat.Search("atlantis"); len(got) != 0 {
		t.Fatalf("expected no results, got %+v", got)
	}
}

func TestFlagAndAPIURLs(t *testing.T) {
	cat := Default(WithLinks(urlbuilder.NewLinks(
		urlbuilder.WithAPIBaseURL("ec", "https://ec.example.com/api"),
		urlbuilder.WithAPIFallback("https://example.com/api"),
	)))

	url, ok := cat.FlagURL("EC", 160)
	if !ok || url != "https://flagcdn.com/w160/ec.png" {
		t.Fatalf("unexpected flag url: %q %v", url, ok)
	}
	if _, ok := cat.FlagURL("zz", 80); ok {
		t.Fatalf("expected unknown code to have no flag")
	}

	base, ok := cat.APIBaseURL("ec")
	if !ok || base != "https://ec.example.com/api" {
		t.Fatalf("unexpected ec base: %q", base)
	}
	base, ok = cat.APIBaseURL("mx")
	if !ok || base != "https://example.com/api" {
		t.Fatalf("unexpected fallback base: %q", base)
	}
	if _, ok := cat.APIBaseURL("zz"); ok {
		t.Fatalf("expected unknown code to have no base url")
	}
}
