package cmdline

import (
	"reflect"
	"sync"
)

// The descriptor cache is the only shared mutable state in the package.
// Descriptors are immutable once built, so a duplicate build during a race
// is benign; the lock only has to keep the map itself consistent and make
// sure callers never observe a partially constructed entry.
type cacheKey struct {
	typ           reflect.Type
	caseSensitive bool
}

var descriptors = struct {
	mu sync.RWMutex
	m  map[cacheKey]*TypeDescriptor
}{m: make(map[cacheKey]*TypeDescriptor)}

// descriptorFor returns the cached descriptor for a record type, building
// it on first use. No eviction; descriptors live for the process lifetime.
func descriptorFor(t reflect.Type, caseSensitive bool) *TypeDescriptor {
	key := cacheKey{typ: t, caseSensitive: caseSensitive}

	descriptors.mu.RLock()
	d := descriptors.m[key]
	descriptors.mu.RUnlock()
	if d != nil {
		return d
	}

	// Build outside the lock; construction may panic on bad metadata and
	// must not leave the map locked or half-written.
	built := buildDescriptor(t, caseSensitive)

	descriptors.mu.Lock()
	defer descriptors.mu.Unlock()
	if d := descriptors.m[key]; d != nil {
		return d
	}
	descriptors.m[key] = built
	return built
}

// Describe returns the binding metadata for a record type. Useful for
// callers that render their own help or inspect bindings programmatically.
func Describe[T any](settings Settings) *TypeDescriptor {
	var zero T
	return descriptorFor(reflect.TypeOf(zero), settings.CaseSensitive)
}
