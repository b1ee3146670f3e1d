package optionsadapter

import (
	"context"
	"fmt"
	"strings"

	opts "github.com/goliatone/go-options"
	"github.com/goliatone/go-options/pkg/state"

	"github.com/goliatone/go-countrygate/country"
	"github.com/goliatone/go-countrygate/ferrors"
	"github.com/goliatone/go-countrygate/preference"
	"github.com/goliatone/go-countrygate/scope"
)

const (
	prioritySystem  = 10
	priorityVisitor = 30
	priorityUser    = 40
)

// DefaultDomain is the options domain holding country preferences.
const DefaultDomain = "countrygate"

// ErrStoreRequired indicates the underlying state store is missing.
var ErrStoreRequired = ferrors.ErrStoreRequired

// ScopeBuilder maps a scope.Set into go-options scopes ordered by precedence.
type ScopeBuilder func(scopeSet scope.Set) []opts.Scope

// MetaBuilder builds storage metadata for a write.
type MetaBuilder func(scopeSet scope.Set) state.Meta

// Option customizes the Store adapter.
type Option func(*Store)

// Store adapts a go-options state.Store into a preference.Backend.
type Store struct {
	stateStore state.Store[map[string]any]
	domain     string
	scopes     ScopeBuilder
	meta       MetaBuilder
}

// NewStore constructs an adapter backed by a go-options state.Store.
func NewStore(stateStore state.Store[map[string]any], opts ...Option) *Store {
	adapter := &Store{
		stateStore: stateStore,
		domain:     DefaultDomain,
		scopes:     defaultScopes,
		meta:       defaultMeta,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	if adapter.domain == "" {
		adapter.domain = DefaultDomain
	}
	if adapter.scopes == nil {
		adapter.scopes = defaultScopes
	}
	if adapter.meta == nil {
		adapter.meta = defaultMeta
	}
	return adapter
}

// WithDomain sets the options domain.
func WithDomain(domain string) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.domain = strings.TrimSpace(domain)
	}
}

// WithScopeBuilder overrides the default scope mapping.
func WithScopeBuilder(builder ScopeBuilder) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.scopes = builder
	}
}

// WithMetaBuilder overrides the metadata builder used on writes.
func WithMetaBuilder(builder MetaBuilder) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.meta = builder
	}
}

// Get implements preference.Backend.
func (s *Store) Get(ctx context.Context, key string, scopeSet scope.Set) (string, bool, error) {
	if s == nil || s.stateStore == nil {
		return "", false, storeRequiredError(key, scopeSet, "get", s.domainName())
	}
	path := strings.TrimSpace(key)
	if path == "" {
		return "", false, pathRequiredError(scopeSet, "get", s.domain)
	}

	for _, scopeDef := range s.scopes(scopeSet) {
		snapshot, _, ok, err := s.stateStore.Load(ctx, state.Ref{Domain: s.domain, Scope: scopeDef})
		if err != nil {
			meta := storeMeta(scopeDef, "load", s.domain)
			meta[ferrors.MetaPath] = path
			return "", false, ferrors.WrapExternal(err, ferrors.TextCodeStoreReadFailed, "optionsadapter: load failed", meta)
		}
		if !ok || len(snapshot) == 0 {
			continue
		}
		if value, found := lookupPath(snapshot, path); found {
			code, present, err := codeFromValue(path, value, scopeDef, s.domain)
			if err != nil || present {
				return code, present, err
			}
		}
	}
	return "", false, nil
}

// Set implements preference.Backend.
func (s *Store) Set(ctx context.Context, key string, scopeSet scope.Set, code string) error {
	return s.mutate(ctx, key, scopeSet, "set", func(snapshot map[string]any, path string) error {
		return setPath(snapshot, path, country.NormalizeCode(code))
	})
}

// Delete removes the preference at the write level of scopeSet.
func (s *Store) Delete(ctx context.Context, key string, scopeSet scope.Set) error {
	return s.mutate(ctx, key, scopeSet, "delete", func(snapshot map[string]any, path string) error {
		deletePath(snapshot, path)
		return nil
	})
}

func (s *Store) mutate(ctx context.Context, key string, scopeSet scope.Set, operation string, apply func(map[string]any, string) error) error {
	if s == nil || s.stateStore == nil {
		return storeRequiredError(key, scopeSet, operation, s.domainName())
	}
	path := strings.TrimSpace(key)
	if path == "" {
		return pathRequiredError(scopeSet, operation, s.domain)
	}

	ref := state.Ref{Domain: s.domain, Scope: writeScope(scopeSet)}
	resolver := state.Resolver[map[string]any]{Store: s.stateStore}
	_, _, err := resolver.Mutate(ctx, ref, s.meta(scopeSet), func(snapshot *map[string]any) error {
		if snapshot == nil {
			return ferrors.WrapSentinel(ferrors.ErrSnapshotRequired, "optionsadapter: snapshot is nil", storeMeta(ref.Scope, operation, s.domain))
		}
		if *snapshot == nil {
			*snapshot = map[string]any{}
		}
		return apply(*snapshot, path)
	})
	if err != nil {
		meta := storeMeta(ref.Scope, operation, s.domain)
		meta[ferrors.MetaPath] = path
		return ferrors.WrapExternal(err, ferrors.TextCodeStoreWriteFailed, "optionsadapter: "+operation+" failed", meta)
	}
	return nil
}

func (s *Store) domainName() string {
	if s == nil {
		return ""
	}
	return s.domain
}

func defaultScopes(scopeSet scope.Set) []opts.Scope {
	var scopes []opts.Scope
	if scopeSet.UserID != "" {
		scopes = append(scopes, scoped(scope.KindUser, "User", priorityUser, scope.MetadataUserID, scopeSet.UserID))
	}
	if scopeSet.VisitorID != "" {
		scopes = append(scopes, visitorScope(scopeSet.VisitorID))
	}
	return append(scopes, scoped(scope.KindSystem, "System", prioritySystem, "", ""))
}

func writeScope(scopeSet scope.Set) opts.Scope {
	ref := scopeSet.WriteRef()
	switch ref.Kind {
	case scope.KindUser:
		return scoped(scope.KindUser, "User", priorityUser, scope.MetadataUserID, ref.ID)
	case scope.KindVisitor:
		return visitorScope(ref.ID)
	default:
		return scoped(scope.KindSystem, "System", prioritySystem, "", "")
	}
}

// visitorScope stores anonymous visitors as go-options user scopes under a
// prefixed id, since go-options only addresses system, tenant, org, team and
// user scopes.
func visitorScope(visitorID string) opts.Scope {
	return scoped(scope.KindUser, "Visitor", priorityVisitor, scope.MetadataUserID, VisitorPrefix+visitorID)
}

func scoped(kind scope.Kind, label string, priority int, metadataKey, metadataValue string) opts.Scope {
	var metadata map[string]any
	if metadataKey != "" && metadataValue != "" {
		metadata = map[string]any{metadataKey: metadataValue}
	}
	return opts.NewScope(
		string(kind),
		priority,
		opts.WithScopeLabel(label),
		opts.WithScopeMetadata(metadata),
	)
}

func defaultMeta(scopeSet scope.Set) state.Meta {
	extra := map[string]string{}
	if scopeSet.UserID != "" {
		extra[scope.MetadataUserID] = scopeSet.UserID
	}
	if scopeSet.VisitorID != "" {
		extra[scope.MetadataVisitorID] = scopeSet.VisitorID
	}
	if len(extra) == 0 {
		return state.Meta{}
	}
	return state.Meta{Extra: extra}
}

// codeFromValue decodes a stored value; nil and empty strings count as unset.
func codeFromValue(path string, value any, scopeDef opts.Scope, domain string) (string, bool, error) {
	switch typed := value.(type) {
	case nil:
		return "", false, nil
	case string:
		code := country.NormalizeCode(typed)
		return code, code != "", nil
	case *string:
		if typed == nil {
			return "", false, nil
		}
		code := country.NormalizeCode(*typed)
		return code, code != "", nil
	default:
		meta := storeMeta(scopeDef, "decode", domain)
		meta[ferrors.MetaPath] = path
		return "", false, ferrors.NewExternal(ferrors.TextCodePreferenceTypeInvalid, fmt.Sprintf("optionsadapter: unsupported preference type %T", value), meta)
	}
}

var _ preference.Backend = (*Store)(nil)

func storeRequiredError(key string, scopeSet scope.Set, operation, domain string) error {
	return ferrors.WrapSentinel(ferrors.ErrStoreRequired, "optionsadapter: state store is required", map[string]any{
		ferrors.MetaAdapter:   "options",
		ferrors.MetaStore:     "state",
		ferrors.MetaDomain:    strings.TrimSpace(domain),
		ferrors.MetaScope:     scopeSet,
		ferrors.MetaOperation: operation,
		ferrors.MetaPath:      strings.TrimSpace(key),
	})
}

func pathRequiredError(scopeSet scope.Set, operation, domain string) error {
	return ferrors.WrapSentinel(ferrors.ErrPathRequired, "optionsadapter: preference key required", map[string]any{
		ferrors.MetaAdapter:   "options",
		ferrors.MetaStore:     "state",
		ferrors.MetaDomain:    strings.TrimSpace(domain),
		ferrors.MetaScope:     scopeSet,
		ferrors.MetaOperation: operation,
	})
}

func storeMeta(scopeDef opts.Scope, operation, domain string) map[string]any {
	meta := map[string]any{
		ferrors.MetaAdapter:   "options",
		ferrors.MetaStore:     "state",
		ferrors.MetaOperation: operation,
		ferrors.MetaScope:     scopeDef,
	}
	if strings.TrimSpace(domain) != "" {
		meta[ferrors.MetaDomain] = strings.TrimSpace(domain)
	}
	return meta
}
