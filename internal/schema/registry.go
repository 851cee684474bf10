package schema

// registry.go holds preset schemas loaded at startup. The authoring surface
// for schemas is external; presets let callers reference a schema by key
// instead of shipping the full definition with every request.

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

var (
	registry   = make(map[string]*Schema)
	registryMu sync.RWMutex
)

// Register adds a preset schema to the registry.
// Returns an error if the schema has no key or the key is already taken.
func Register(s *Schema) error {
	if s.Key == "" {
		return fmt.Errorf("schema has no key")
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[s.Key]; exists {
		return fmt.Errorf("schema already registered: %s", s.Key)
	}

	registry[s.Key] = s
	return nil
}

// Get returns a preset schema by key.
// Returns false if not found.
func Get(key string) (*Schema, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	s, ok := registry[key]
	return s, ok
}

// Keys returns all registered schema keys, sorted for consistent ordering.
func Keys() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}

	sort.Strings(keys)
	return keys
}

// All returns all registered schemas sorted by key.
func All() []*Schema {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]*Schema, 0, len(registry))
	for _, s := range registry {
		result = append(result, s)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// Count returns the number of registered schemas.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered schemas.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]*Schema)
}

// LoadDir parses every JSON and YAML schema file in dir and registers the
// results. Files without a recognized extension are skipped. A schema file
// missing a key is registered under its base file name.
func LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read schema directory: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))

		var parse func([]byte) (*Schema, error)
		switch ext {
		case ".json":
			parse = ParseJSON
		case ".yaml", ".yml":
			parse = ParseYAML
		default:
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return loaded, fmt.Errorf("read schema file %s: %w", name, err)
		}

		s, err := parse(data)
		if err != nil {
			return loaded, fmt.Errorf("schema file %s: %w", name, err)
		}

		if s.Key == "" {
			s.Key = strings.TrimSuffix(name, ext)
		}

		if err := Register(s); err != nil {
			return loaded, fmt.Errorf("schema file %s: %w", name, err)
		}
		loaded++
	}

	return loaded, nil
}
