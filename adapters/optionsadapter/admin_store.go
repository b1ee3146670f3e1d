package optionsadapter

import (
	"context"
	"sort"
	"strings"

	"github.com/goliatone/go-admin/admin"
	opts "github.com/goliatone/go-options"
	"github.com/goliatone/go-options/pkg/state"

	"github.com/goliatone/go-countrygate/ferrors"
	"github.com/goliatone/go-countrygate/scope"
)

// VisitorPrefix namespaces anonymous visitor ids inside go-admin user
// preferences so they never collide with real user ids.
const VisitorPrefix = "visitor:"

// AdminOption configures an AdminStore.
type AdminOption func(*AdminStore)

// AdminStore persists option snapshots as go-admin preferences. Each
// snapshot leaf becomes one preference key prefixed with the domain.
type AdminStore struct {
	prefs  admin.PreferencesStore
	prefix string
	keys   []string
}

// WithAdminKeyPrefix replaces the domain as the preference key prefix.
func WithAdminKeyPrefix(prefix string) AdminOption {
	return func(s *AdminStore) {
		if s == nil {
			return
		}
		s.prefix = strings.TrimSpace(prefix)
	}
}

// WithAdminKeys limits reads to the listed snapshot paths.
func WithAdminKeys(keys ...string) AdminOption {
	return func(s *AdminStore) {
		if s == nil {
			return
		}
		s.keys = s.keys[:0]
		for _, key := range keys {
			if key = strings.TrimSpace(key); key != "" {
				s.keys = append(s.keys, key)
			}
		}
	}
}

// NewAdminStore wraps a go-admin preferences store as a state.Store.
func NewAdminStore(prefs admin.PreferencesStore, options ...AdminOption) *AdminStore {
	s := &AdminStore{prefs: prefs}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// adminTarget is the go-admin address of one option scope.
type adminTarget struct {
	level  admin.PreferenceLevel
	scope  admin.PreferenceScope
	prefix string
}

// Load implements state.Store.
func (s *AdminStore) Load(ctx context.Context, ref state.Ref) (map[string]any, state.Meta, bool, error) {
	target, err := s.target(ref)
	if err != nil {
		return nil, state.Meta{}, false, err
	}
	flat, err := s.read(ctx, target, ref)
	if err != nil || len(flat) == 0 {
		return nil, state.Meta{}, false, err
	}
	snapshot := map[string]any{}
	for key, value := range flat {
		if err := setPath(snapshot, strings.TrimPrefix(key, target.prefix), value); err != nil {
			return nil, state.Meta{}, false, err
		}
	}
	return snapshot, state.Meta{}, true, nil
}

// Save implements state.Store. Leaves missing from snapshot are deleted.
func (s *AdminStore) Save(ctx context.Context, ref state.Ref, snapshot map[string]any, _ state.Meta) (state.Meta, error) {
	target, err := s.target(ref)
	if err != nil {
		return state.Meta{}, err
	}
	current, err := s.read(ctx, target, ref)
	if err != nil {
		return state.Meta{}, err
	}

	values := map[string]any{}
	leaves := map[string]any{}
	flattenMap("", snapshot, leaves)
	for key, value := range leaves {
		values[target.prefix+key] = value
	}

	stale := make([]string, 0, len(current))
	for key := range current {
		if _, ok := values[key]; !ok {
			stale = append(stale, key)
		}
	}
	sort.Strings(stale)

	if len(values) > 0 {
		_, err := s.prefs.Upsert(ctx, admin.PreferencesUpsertInput{Scope: target.scope, Level: target.level, Values: values})
		if err != nil {
			return state.Meta{}, adminError(err, ferrors.TextCodeStoreWriteFailed, "upsert", ref)
		}
	}
	if len(stale) > 0 {
		err := s.prefs.Delete(ctx, admin.PreferencesDeleteInput{Scope: target.scope, Level: target.level, Keys: stale})
		if err != nil {
			return state.Meta{}, adminError(err, ferrors.TextCodeStoreWriteFailed, "delete", ref)
		}
	}
	return state.Meta{}, nil
}

// read returns the stored leaves for target keyed by their prefixed name.
func (s *AdminStore) read(ctx context.Context, target adminTarget, ref state.Ref) (map[string]any, error) {
	var keys []string
	for _, key := range s.keys {
		keys = append(keys, target.prefix+key)
	}
	resolved, err := s.prefs.Resolve(ctx, admin.PreferencesResolveInput{
		Scope:  target.scope,
		Levels: []admin.PreferenceLevel{target.level},
		Keys:   keys,
	})
	if err != nil {
		return nil, adminError(err, ferrors.TextCodeStoreReadFailed, "resolve", ref)
	}
	out := map[string]any{}
	for key, value := range resolved.Effective {
		if target.prefix != "" && !strings.HasPrefix(key, target.prefix) {
			continue
		}
		out[key] = value
	}
	return out, nil
}

func (s *AdminStore) target(ref state.Ref) (adminTarget, error) {
	if s == nil || s.prefs == nil {
		return adminTarget{}, ferrors.WrapSentinel(ferrors.ErrPreferencesStoreRequired, "", map[string]any{
			ferrors.MetaAdapter: "options",
			ferrors.MetaDomain:  ref.Domain,
		})
	}
	prefix := s.prefix
	if prefix == "" {
		prefix = ref.Domain
	}
	target := adminTarget{prefix: dotted(prefix)}

	switch scope.Kind(ref.Scope.Name) {
	case scope.KindSystem:
		target.level = admin.PreferenceLevelSystem
		return target, nil
	case scope.KindVisitor:
		id, err := scopeID(ref.Scope, scope.MetadataVisitorID)
		if err != nil {
			return adminTarget{}, err
		}
		target.level = admin.PreferenceLevelUser
		target.scope = admin.PreferenceScope{UserID: VisitorPrefix + id}
		return target, nil
	case scope.KindUser:
		id, err := scopeID(ref.Scope, scope.MetadataUserID)
		if err != nil {
			return adminTarget{}, err
		}
		target.level = admin.PreferenceLevelUser
		target.scope = admin.PreferenceScope{UserID: id}
		return target, nil
	}
	return adminTarget{}, scopeError(ref.Scope, "", "optionsadapter: unsupported scope")
}

func scopeID(scopeDef opts.Scope, key string) (string, error) {
	raw, ok := scopeDef.Metadata[key]
	if !ok {
		return "", scopeError(scopeDef, key, "optionsadapter: missing scope metadata")
	}
	id, _ := raw.(string)
	if id = strings.TrimSpace(id); id == "" {
		return "", scopeError(scopeDef, key, "optionsadapter: invalid scope metadata")
	}
	return id, nil
}

func scopeError(scopeDef opts.Scope, key, message string) error {
	meta := map[string]any{
		ferrors.MetaAdapter: "options",
		ferrors.MetaStore:   "preferences",
		ferrors.MetaScope:   scopeDef.Name,
	}
	if key != "" {
		meta[ferrors.MetaPath] = key
	}
	return ferrors.WrapSentinel(ferrors.ErrScopeRequired, message, meta)
}

func adminError(err error, textCode, operation string, ref state.Ref) error {
	return ferrors.WrapExternal(err, textCode, "optionsadapter: preferences "+operation+" failed", map[string]any{
		ferrors.MetaAdapter:   "options",
		ferrors.MetaStore:     "preferences",
		ferrors.MetaOperation: operation,
		ferrors.MetaDomain:    ref.Domain,
		ferrors.MetaScope:     ref.Scope.Name,
	})
}

func dotted(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || strings.HasSuffix(prefix, ".") {
		return prefix
	}
	return prefix + "."
}

var _ state.Store[map[string]any] = (*AdminStore)(nil)
