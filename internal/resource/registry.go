// Package resource provides the named-resource registry used by the
// EmbeddedNamedResource backend. Resources are looked up by a slash
// separated name without extension; every successful Lookup hands out a
// Handle that must be returned through Release once the text was read.
package resource

import (
	"errors"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Handle is a checked-out resource.
type Handle interface {
	Path() string
	Text() string
}

// Registry resolves resource names to text handles.
type Registry interface {
	Lookup(name string) (Handle, bool)
	Release(Handle)
}

// ErrDuplicateResource indicates a name is already registered.
var ErrDuplicateResource = errors.New("resource already registered")

type textHandle struct {
	path string
	text string
}

func (h *textHandle) Path() string { return h.path }
func (h *textHandle) Text() string { return h.text }

// MemoryRegistry keeps resources in memory. It is safe for concurrent use.
type MemoryRegistry struct {
	entries     sync.Map
	outstanding atomic.Int64
}

// NewMemoryRegistry returns an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{}
}

// Register stores text under the given name.
func (r *MemoryRegistry) Register(name, text string) error {
	key := normalizeName(name)
	if key == "" {
		return errors.New("resource name required")
	}
	if _, loaded := r.entries.LoadOrStore(key, text); loaded {
		return ErrDuplicateResource
	}
	return nil
}

// MustRegister panics on registration failure.
func (r *MemoryRegistry) MustRegister(name, text string) {
	if err := r.Register(name, text); err != nil {
		panic(err)
	}
}

// Lookup checks out the named resource.
func (r *MemoryRegistry) Lookup(name string) (Handle, bool) {
	key := normalizeName(name)
	if key == "" {
		return nil, false
	}
	value, ok := r.entries.Load(key)
	if !ok {
		return nil, false
	}
	text, ok := value.(string)
	if !ok {
		return nil, false
	}
	r.outstanding.Add(1)
	return &textHandle{path: key, text: text}, true
}

// Release returns a handle obtained from Lookup.
func (r *MemoryRegistry) Release(h Handle) {
	if h == nil {
		return
	}
	r.outstanding.Add(-1)
}

// Outstanding reports how many handles have not been released yet.
func (r *MemoryRegistry) Outstanding() int {
	return int(r.outstanding.Load())
}

// Names returns the registered names, sorted.
func (r *MemoryRegistry) Names() []string {
	var names []string
	r.entries.Range(func(key, _ any) bool {
		if name, ok := key.(string); ok {
			names = append(names, name)
		}
		return true
	})
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	name = strings.TrimSpace(filepath.ToSlash(name))
	if name == "" {
		return ""
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+name), "/")
	if cleaned == "." {
		return ""
	}
	return cleaned
}
