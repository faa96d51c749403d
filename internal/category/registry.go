// Package category holds the user-extensible list of transaction categories.
package category

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"dompet/internal/core"
	"dompet/internal/store"
)

// Defaults is the list used until the user registers a category of their own.
var Defaults = []string{"Makanan", "Belanja", "Transportasi", core.BusinessCategory, "Langganan", "Tagihan", "Hiburan", "Lainnya"}

// Registry is an insertion-ordered set of labels, unique under case folding.
// Entries are never removed.
type Registry struct {
	mu    sync.Mutex
	kv    store.KeyValue
	names []string
}

func NewRegistry(kv store.KeyValue) *Registry {
	return &Registry{kv: kv}
}

// Load reads the persisted list, falling back to Defaults when none was saved.
func (r *Registry) Load(ctx context.Context) ([]string, error) {
	raw, ok, err := r.kv.Load(ctx, store.KeyCategories)
	if err != nil {
		return nil, &core.PersistenceError{Op: "load", Key: store.KeyCategories, Err: err}
	}

	names := append([]string(nil), Defaults...)
	if ok {
		var stored []string
		if err := json.Unmarshal(raw, &stored); err != nil {
			return nil, &core.PersistenceError{Op: "decode", Key: store.KeyCategories, Err: err}
		}
		names = stored
	}

	r.mu.Lock()
	r.names = names
	r.mu.Unlock()

	slog.InfoContext(ctx, "Categories loaded", "count", len(names), "persisted", ok)
	return r.List(), nil
}

// Register adds name after trimming it. The full list is persisted before the
// in-memory set changes, so a failed save leaves the registry untouched.
func (r *Registry) Register(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &core.ValidationError{Field: "category", Reason: "must not be empty"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.lookup(name); ok {
		return nil, &core.DuplicateError{Name: name, Existing: existing}
	}

	next := make([]string, len(r.names), len(r.names)+1)
	copy(next, r.names)
	next = append(next, name)

	data, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("encode categories: %w", err)
	}
	if err := r.kv.Save(ctx, store.KeyCategories, data); err != nil {
		return nil, &core.PersistenceError{Op: "save", Key: store.KeyCategories, Err: err}
	}
	r.names = next

	slog.InfoContext(ctx, "Category registered", "category", name, "count", len(next))
	return append([]string(nil), next...), nil
}

// List returns the categories in insertion order.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

// Contains reports whether name is registered, ignoring case.
func (r *Registry) Contains(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.lookup(strings.TrimSpace(name))
	return ok
}

func (r *Registry) lookup(name string) (string, bool) {
	for _, existing := range r.names {
		if strings.EqualFold(existing, name) {
			return existing, true
		}
	}
	return "", false
}
