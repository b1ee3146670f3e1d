package ferrors

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	MetaCountryCode = "country_code"
	MetaURLCountry  = "url_country"
	MetaScope       = "scope"
	MetaStore       = "store"
	MetaAdapter     = "adapter"
	MetaDomain      = "domain"
	MetaTable       = "table"
	MetaOperation   = "operation"
	MetaSessionID   = "session_id"
	MetaSignal      = "signal"
	MetaPath        = "path"
)

const (
	TextCodeInvalidCountry           = "COUNTRY_INVALID"
	TextCodeCatalogRequired          = "CATALOG_REQUIRED"
	TextCodeStoreRequired            = "STORE_REQUIRED"
	TextCodeResolverRequired         = "RESOLVER_REQUIRED"
	TextCodeOrchestratorRequired     = "ORCHESTRATOR_REQUIRED"
	TextCodeSessionRequired          = "SESSION_REQUIRED"
	TextCodeScopeRequired            = "SCOPE_REQUIRED"
	TextCodeSnapshotRequired         = "SNAPSHOT_REQUIRED"
	TextCodePathRequired             = "PATH_REQUIRED"
	TextCodePathInvalid              = "PATH_INVALID"
	TextCodePreferenceTypeInvalid    = "PREFERENCE_TYPE_INVALID"
	TextCodePreferencesStoreRequired = "PREFERENCES_STORE_REQUIRED"
	TextCodeAdapterFailed            = "ADAPTER_FAILED"
	TextCodeStoreReadFailed          = "STORE_READ_FAILED"
	TextCodeStoreWriteFailed         = "STORE_WRITE_FAILED"
	TextCodeDetectionFailed          = "DETECTION_FAILED"
	TextCodeScopeResolveFailed       = "SCOPE_RESOLVE_FAILED"
)

var (
	ErrInvalidCountry           = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeInvalidCountry, "country code is not in the catalog")
	ErrCatalogRequired          = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeCatalogRequired, "country catalog is required")
	ErrStoreRequired            = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeStoreRequired, "store is required")
	ErrResolverRequired         = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeResolverRequired, "resolver is required")
	ErrOrchestratorRequired     = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeOrchestratorRequired, "orchestrator is required")
	ErrSessionRequired          = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeSessionRequired, "session id is required")
	ErrScopeRequired            = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeScopeRequired, "scope is required")
	ErrSnapshotRequired         = newSentinel(goerrors.CategoryInternal, goerrors.CodeInternal, TextCodeSnapshotRequired, "snapshot is required")
	ErrPathRequired             = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodePathRequired, "path is required")
	ErrPathInvalid              = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodePathInvalid, "path segment is not a map")
	ErrPreferencesStoreRequired = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodePreferencesStoreRequired, "preferences store is required")
)

// sentinels tracks every package level sentinel so Wrap can tell them
// apart from ad-hoc rich errors.
var sentinels = map[*goerrors.Error]struct{}{}

func newSentinel(category goerrors.Category, code int, textCode, message string) *goerrors.Error {
	err := goerrors.New(message, category).WithTextCode(textCode)
	if code != 0 {
		err.WithCode(code)
	}
	sentinels[err] = struct{}{}
	return err
}

// IsSentinel reports whether err is one of the package sentinels itself,
// not a wrapped copy.
func IsSentinel(err error) bool {
	rich, ok := err.(*goerrors.Error)
	if !ok {
		return false
	}
	_, ok = sentinels[rich]
	return ok
}

// WrapSentinel returns a copy of sentinel carrying message and meta that
// still matches the sentinel with errors.Is.
func WrapSentinel(sentinel *goerrors.Error, message string, meta map[string]any) *goerrors.Error {
	if sentinel == nil {
		return nil
	}
	if message == "" {
		message = sentinel.Message
	}
	err := goerrors.New(message, sentinel.Category).
		WithTextCode(sentinel.TextCode).
		WithCode(sentinel.Code).
		WithSeverity(sentinel.Severity)
	err.Source = sentinel
	return withMeta(err, meta)
}

// Wrap classifies err. Sentinels are copied, rich errors keep their own
// category, and plain errors become the Source of a new rich error.
func Wrap(err error, category goerrors.Category, textCode, message string, meta map[string]any) *goerrors.Error {
	if err == nil {
		return nil
	}
	rich, ok := err.(*goerrors.Error)
	switch {
	case ok && IsSentinel(err):
		return WrapSentinel(rich, "", meta)
	case ok:
		clone := rich.Clone()
		if clone.TextCode == "" {
			clone.TextCode = textCode
		}
		if clone.Message == "" {
			clone.Message = message
		}
		return withMeta(clone, meta)
	}
	if message == "" {
		message = err.Error()
	}
	wrapped := goerrors.New(message, category).WithTextCode(textCode)
	wrapped.Source = err
	return withMeta(wrapped, meta)
}

func WrapExternal(err error, textCode, message string, meta map[string]any) *goerrors.Error {
	return Wrap(err, goerrors.CategoryExternal, textCode, message, meta)
}

func NewExternal(textCode, message string, meta map[string]any) *goerrors.Error {
	return withMeta(goerrors.New(message, goerrors.CategoryExternal).WithTextCode(textCode), meta)
}

func WrapInternal(err error, textCode, message string, meta map[string]any) *goerrors.Error {
	return Wrap(err, goerrors.CategoryInternal, textCode, message, meta)
}

func As(err error) (*goerrors.Error, bool) {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich, true
	}
	return nil, false
}

// HTTPStatus maps err to a response status: an explicit code wins, bad
// input is 400, anything else is 500.
func HTTPStatus(err error) int {
	rich, ok := As(err)
	if !ok {
		return goerrors.CodeInternal
	}
	if rich.Code >= 400 && rich.Code < 600 {
		return rich.Code
	}
	if rich.Category == goerrors.CategoryBadInput {
		return goerrors.CodeBadRequest
	}
	return goerrors.CodeInternal
}

func withMeta(err *goerrors.Error, meta map[string]any) *goerrors.Error {
	if meta != nil {
		err.WithMetadata(meta)
	}
	return err
}
