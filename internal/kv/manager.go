package kv

import (
	"fmt"
	"log"
)

// BackendPreference is the order backends are tried in when none is named
var BackendPreference = []string{"sqlite", "file", "memory"}

// Open opens the named backend from the global registry.
// If name is empty, it tries the backends in BackendPreference order and
// returns the first one that opens.
func Open(name string, opts Options) (Store, error) {
	return open(defaultRegistry, name, opts)
}

func open(r *Registry, name string, opts Options) (Store, error) {
	if name != "" {
		store, err := r.Create(name, opts)
		if err != nil {
			return nil, fmt.Errorf("opening backend %s: %w", name, err)
		}
		return store, nil
	}

	var lastErr error
	for _, candidate := range BackendPreference {
		store, err := r.Create(candidate, opts)
		if err != nil {
			lastErr = err
			continue
		}
		if candidate != BackendPreference[0] {
			log.Printf("Using %s storage backend: %v", candidate, lastErr)
		}
		return store, nil
	}

	return nil, fmt.Errorf("no storage backend available: %w", lastErr)
}
