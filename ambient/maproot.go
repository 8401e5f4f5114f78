package ambient

import (
	"net/url"
	"strings"
	"sync"
)

// MapRoot is an in-memory root object. Hosts place injected clients on it
// under the well-known property paths before running discovery.
type MapRoot struct {
	mu       sync.RWMutex
	values   map[string]any
	location *url.URL
}

// NewMapRoot creates an empty root object.
func NewMapRoot() *MapRoot {
	return &MapRoot{values: make(map[string]any)}
}

// Set stores value under path, replacing any previous value.
func (r *MapRoot) Set(path string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[path] = value
}

// Delete removes the value stored under path.
func (r *MapRoot) Delete(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, path)
}

// SetLocation sets the location the host is served from.
func (r *MapRoot) SetLocation(u *url.URL) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.location = u
}

// Lookup returns the value stored under path. A path that is not stored
// verbatim is resolved segment by segment through nested map[string]any values,
// so "ipfsCompanion.ipfs" finds {"ipfsCompanion": {"ipfs": client}}.
func (r *MapRoot) Lookup(path string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if v, ok := r.values[path]; ok {
		return v, v != nil
	}

	segments := strings.Split(path, ".")
	var current any = r.values
	for _, segment := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, current != nil
}

// Location returns the host location, or nil.
func (r *MapRoot) Location() *url.URL {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.location
}
