package urlkitadapter

import (
	"github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-countrygate/ferrors"
	"github.com/goliatone/go-countrygate/urlbuilder"
)

// ErrResolverRequired indicates the urlkit resolver is missing.
var ErrResolverRequired = ferrors.ErrResolverRequired

// Adapter resolves flag URLs through a urlkit route group. The resolver is
// expected to define urlbuilder.FlagRoute under urlbuilder.FlagGroup with
// code and width params.
type Adapter struct {
	Resolver urlkit.Resolver
}

// New builds a new Adapter for the provided resolver.
func New(resolver urlkit.Resolver) Adapter {
	return Adapter{Resolver: resolver}
}

// NewLinks returns Links whose flag URLs come from resolver.
func NewLinks(resolver urlkit.Resolver, opts ...urlbuilder.Option) *urlbuilder.Links {
	return urlbuilder.NewLinks(append(opts, urlbuilder.WithBuilder(New(resolver)))...)
}

// Resolve implements urlbuilder.Builder.
func (a Adapter) Resolve(groupPath, route string, params map[string]any, query map[string]string) (string, error) {
	meta := map[string]any{
		ferrors.MetaAdapter:   "urlkit",
		ferrors.MetaOperation: "resolve",
		ferrors.MetaPath:      groupPath + "." + route,
	}
	if code, ok := params["code"]; ok {
		meta[ferrors.MetaCountryCode] = code
	}
	if a.Resolver == nil {
		return "", ferrors.WrapSentinel(ferrors.ErrResolverRequired, "urlkitadapter: resolver is required", meta)
	}
	url, err := a.Resolver.Resolve(groupPath, route, params, query)
	if err != nil {
		return "", ferrors.WrapExternal(err, ferrors.TextCodeAdapterFailed, "urlkitadapter: resolve failed", meta)
	}
	return url, nil
}

var _ urlbuilder.Builder = Adapter{}
