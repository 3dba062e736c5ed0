package system

import (
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

//go:embed systems/*.yaml
var builtin embed.FS

const DefaultCacheSize = 16

// Registry resolves system names to compiled systems. Sources are validated
// when loaded; compiled systems are kept in a bounded cache and rebuilt from
// source on a miss.
type Registry struct {
	mu      sync.RWMutex
	sources map[string][]byte
	cache   *lru.Cache[string, *System]
}

// NewRegistry creates a registry preloaded with the embedded systems.
func NewRegistry(cacheSize int) (*Registry, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *System](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create system cache: %w", err)
	}
	r := &Registry{
		sources: make(map[string][]byte),
		cache:   cache,
	}
	entries, err := builtin.ReadDir("systems")
	if err != nil {
		return nil, fmt.Errorf("read embedded systems: %w", err)
	}
	for _, e := range entries {
		data, err := builtin.ReadFile(path.Join("systems", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read embedded system %s: %w", e.Name(), err)
		}
		if _, err := r.LoadFromYAML(data); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// LoadDir adds every *.yaml / *.yml file in dir, replacing systems with the
// same name.
func (r *Registry) LoadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read system dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		name, err := r.LoadFromFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

// LoadFromFile loads one system definition.
func (r *Registry) LoadFromFile(p string) (string, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("read system file: %w", err)
	}
	return r.LoadFromYAML(data)
}

// LoadFromYAML validates and registers a definition, returning its name.
func (r *Registry) LoadFromYAML(data []byte) (string, error) {
	sys, err := Parse(data)
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[sys.Name] = append([]byte(nil), data...)
	r.cache.Add(sys.Name, sys)
	return sys.Name, nil
}

// Get returns the named system. Unknown names are an error; there is no
// default substitution.
func (r *Registry) Get(name string) (*System, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if sys, ok := r.cache.Get(key); ok {
		return sys, nil
	}
	r.mu.RLock()
	data, ok := r.sources[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSystem, name)
	}
	sys, err := Parse(data)
	if err != nil {
		return nil, err
	}
	r.cache.Add(key, sys)
	return sys, nil
}

// Names lists registered systems alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.sources))
	for name := range r.sources {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
