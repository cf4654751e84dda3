// Package storage keeps small JSON objects for a browsing session, scoped to
// a page, a module (the page's directory) or the whole system, the way the
// page scripts use session storage.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	// ErrNotObject reports a value that does not encode to a JSON object.
	ErrNotObject = errors.New("storage: value must be a JSON object")
	// ErrKeyRequired reports a blank key.
	ErrKeyRequired = errors.New("storage: key is required")
)

// Backend is the raw string store under Store.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Scope selects the key namespace.
type Scope int

const (
	ScopePage Scope = iota
	ScopeModule
	ScopeSystem
)

func (s Scope) String() string {
	switch s {
	case ScopePage:
		return "page"
	case ScopeModule:
		return "module"
	case ScopeSystem:
		return "system"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// Store reads and writes JSON objects through a Backend.
type Store struct {
	backend  Backend
	location Location
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for corrupt entries.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Store for the page at location, a URL path such as
// "/app/orders/edit.html".
func New(backend Backend, location string, opts ...Option) *Store {
	s := &Store{
		backend:  backend,
		location: ParseLocation(location),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Location returns the parsed page location.
func (s *Store) Location() Location {
	return s.location
}

// Key returns the backend key for key in scope.
func (s *Store) Key(scope Scope, key string) string {
	return s.prefix(scope) + key
}

func (s *Store) prefix(scope Scope) string {
	switch scope {
	case ScopePage:
		return s.location.PagePrefix()
	case ScopeModule:
		return s.location.ModulePrefix()
	default:
		return SystemPrefix
	}
}

// Get returns the object stored under key. Entries that fail to decode are
// logged, deleted and reported as absent.
func (s *Store) Get(ctx context.Context, scope Scope, key string) (map[string]any, bool, error) {
	if strings.TrimSpace(key) == "" {
		return nil, false, ErrKeyRequired
	}
	full := s.Key(scope, key)
	raw, ok, err := s.backend.Get(ctx, full)
	if err != nil || !ok {
		return nil, false, err
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil || obj == nil {
		s.logger.Warn("storage: discarding corrupt entry", "key", full, "error", err)
		if delErr := s.backend.Delete(ctx, full); delErr != nil {
			s.logger.Warn("storage: failed to remove corrupt entry", "key", full, "error", delErr)
		}
		return nil, false, nil
	}
	return obj, true, nil
}

// Set stores obj under key. obj must encode to a JSON object.
func (s *Store) Set(ctx context.Context, scope Scope, key string, obj any) error {
	if strings.TrimSpace(key) == "" {
		return ErrKeyRequired
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", key, err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return fmt.Errorf("%w: %q", ErrNotObject, key)
	}
	return s.backend.Set(ctx, s.Key(scope, key), string(data))
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, scope Scope, key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrKeyRequired
	}
	return s.backend.Delete(ctx, s.Key(scope, key))
}

// Clear removes every key of scope and reports how many were removed. Page
// and module scopes only clear the entries of the current location.
func (s *Store) Clear(ctx context.Context, scope Scope) (int, error) {
	keys, err := s.backend.Keys(ctx, s.prefix(scope))
	if err != nil {
		return 0, err
	}
	for i, key := range keys {
		if err := s.backend.Delete(ctx, key); err != nil {
			return i, err
		}
	}
	return len(keys), nil
}

// ClearPage removes the current page's entries.
func (s *Store) ClearPage(ctx context.Context) (int, error) { return s.Clear(ctx, ScopePage) }

// ClearModule removes the current module's entries.
func (s *Store) ClearModule(ctx context.Context) (int, error) { return s.Clear(ctx, ScopeModule) }

// ClearSystem removes the system entries.
func (s *Store) ClearSystem(ctx context.Context) (int, error) { return s.Clear(ctx, ScopeSystem) }

// ClearAll removes system, module and page entries of the current location.
func (s *Store) ClearAll(ctx context.Context) error {
	var errs []error
	for _, scope := range []Scope{ScopeSystem, ScopeModule, ScopePage} {
		if _, err := s.Clear(ctx, scope); err != nil {
			errs = append(errs, fmt.Errorf("storage: clear %s: %w", scope, err))
		}
	}
	return errors.Join(errs...)
}
