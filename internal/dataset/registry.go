package dataset

import (
	"fmt"
	"strings"
	"sync"
)

var (
	registry   = make(map[string]*TableSpec)
	registryMu sync.RWMutex

	// order preserves registration order; it fixes the load order and the
	// composition of the dataset fingerprint.
	order []string
)

// Register adds a table spec to the registry.
// Panics if a table with the same key is already registered.
func Register(spec TableSpec) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[spec.Info.Key]; exists {
		panic(fmt.Sprintf("table already registered: %s", spec.Info.Key))
	}

	// Populate Columns from Fields if not set
	if len(spec.Info.Columns) == 0 && len(spec.Fields) > 0 {
		spec.Info.Columns = make([]string, len(spec.Fields))
		for i, f := range spec.Fields {
			spec.Info.Columns[i] = f.Name
		}
	}

	spec.fieldsByName = make(map[string]FieldSpec, len(spec.Fields))
	for _, f := range spec.Fields {
		spec.fieldsByName[strings.ToLower(f.Name)] = f
	}

	registry[spec.Info.Key] = &spec
	order = append(order, spec.Info.Key)
}

// Get returns a table spec by key.
// Returns false if not found.
func Get(key string) (*TableSpec, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	spec, ok := registry[key]
	return spec, ok
}

// All returns all registered table specs in registration order.
func All() []*TableSpec {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]*TableSpec, 0, len(order))
	for _, key := range order {
		result = append(result, registry[key])
	}
	return result
}

// Keys returns all registered table keys in registration order.
func Keys() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	return append([]string(nil), order...)
}

// TableCount returns the number of registered tables.
func TableCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered tables.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]*TableSpec)
	order = nil
}
