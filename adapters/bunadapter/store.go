package bunadapter

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-countrygate/country"
	"github.com/goliatone/go-countrygate/ferrors"
	"github.com/goliatone/go-countrygate/preference"
	"github.com/goliatone/go-countrygate/scope"
)

// Table is the table holding persisted country preferences.
const Table = "country_preferences"

// systemScopeID fills scope_id for the system level so the key is never empty.
const systemScopeID = "system"

// ErrDBRequired indicates the underlying Bun DB is missing.
var ErrDBRequired = errors.New("bunadapter: db is required")

// ErrInvalidKey indicates a missing preference key.
var ErrInvalidKey = errors.New("bunadapter: preference key required")

// Store persists country preferences in a SQL table through Bun.
type Store struct {
	db  bun.IDB
	now func() time.Time
}

// Option customizes the Bun store adapter.
type Option func(*Store)

// NewStore constructs a Bun-backed preference backend.
func NewStore(db bun.IDB, opts ...Option) *Store {
	adapter := &Store{
		db:  db,
		now: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	if adapter.now == nil {
		adapter.now = time.Now
	}
	return adapter
}

// WithNowFunc overrides the timestamp function used for updates.
func WithNowFunc(now func() time.Time) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.now = now
	}
}

// PreferenceRecord maps to the country_preferences table.
type PreferenceRecord struct {
	bun.BaseModel `bun:"table:country_preferences"`
	Key           string    `bun:"pref_key,pk"`
	ScopeType     string    `bun:"scope_type,pk"`
	ScopeID       string    `bun:"scope_id,pk"`
	CountryCode   string    `bun:"country_code,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero"`
}

// CreateTable creates the preferences table when it does not exist.
func (s *Store) CreateTable(ctx context.Context) error {
	if s == nil || s.db == nil {
		return ErrDBRequired
	}
	_, err := s.db.NewCreateTable().Model((*PreferenceRecord)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return s.wrap(err, ferrors.TextCodeStoreWriteFailed, "create_table", "")
	}
	return nil
}

// Get implements preference.Backend, walking the scope chain user first.
func (s *Store) Get(ctx context.Context, key string, scopeSet scope.Set) (string, bool, error) {
	if s == nil || s.db == nil {
		return "", false, ErrDBRequired
	}
	normalized, err := normalizeKey(key)
	if err != nil {
		return "", false, err
	}
	for _, ref := range scopeSet.ReadChain() {
		record := PreferenceRecord{}
		err := s.db.NewSelect().Model(&record).
			Where("pref_key = ?", normalized).
			Where("scope_type = ?", string(ref.Kind)).
			Where("scope_id = ?", scopeID(ref)).
			Limit(1).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return "", false, s.wrap(err, ferrors.TextCodeStoreReadFailed, "get", normalized)
		}
		code := country.NormalizeCode(record.CountryCode)
		if code == "" {
			continue
		}
		return code, true, nil
	}
	return "", false, nil
}

// Set implements preference.Backend, writing at the most specific level.
func (s *Store) Set(ctx context.Context, key string, scopeSet scope.Set, code string) error {
	if s == nil || s.db == nil {
		return ErrDBRequired
	}
	normalized, err := normalizeKey(key)
	if err != nil {
		return err
	}
	ref := scopeSet.WriteRef()
	record := PreferenceRecord{
		Key:         normalized,
		ScopeType:   string(ref.Kind),
		ScopeID:     scopeID(ref),
		CountryCode: country.NormalizeCode(code),
		UpdatedAt:   s.now(),
	}
	_, err = s.db.NewInsert().Model(&record).
		On("CONFLICT (pref_key, scope_type, scope_id) DO UPDATE").
		Set("country_code = EXCLUDED.country_code").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return s.wrap(err, ferrors.TextCodeStoreWriteFailed, "set", normalized)
	}
	return nil
}

// Delete removes the row stored at the write level of scopeSet.
func (s *Store) Delete(ctx context.Context, key string, scopeSet scope.Set) error {
	if s == nil || s.db == nil {
		return ErrDBRequired
	}
	normalized, err := normalizeKey(key)
	if err != nil {
		return err
	}
	ref := scopeSet.WriteRef()
	_, err = s.db.NewDelete().Model((*PreferenceRecord)(nil)).
		Where("pref_key = ?", normalized).
		Where("scope_type = ?", string(ref.Kind)).
		Where("scope_id = ?", scopeID(ref)).
		Exec(ctx)
	if err != nil {
		return s.wrap(err, ferrors.TextCodeStoreWriteFailed, "delete", normalized)
	}
	return nil
}

func (s *Store) wrap(err error, textCode, operation, key string) error {
	return ferrors.WrapExternal(err, textCode, "bunadapter: "+operation+" failed", map[string]any{
		ferrors.MetaAdapter:   "bun",
		ferrors.MetaTable:     Table,
		ferrors.MetaOperation: operation,
		ferrors.MetaStore:     key,
	})
}

func normalizeKey(key string) (string, error) {
	normalized := strings.TrimSpace(key)
	if normalized == "" {
		return "", ErrInvalidKey
	}
	return normalized, nil
}

func scopeID(ref scope.Ref) string {
	if ref.Kind == scope.KindSystem || ref.ID == "" {
		return systemScopeID
	}
	return ref.ID
}

var _ preference.Backend = (*Store)(nil)
