package flight

import (
	"sync"

	"github.com/hugr-lab/orabridge/catalog"
)

// Registry holds attached catalogs by name and routes requests to them.
// The empty name addresses the default catalog, the first one attached.
//
// All methods are safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	catalogs    map[string]*catalog.Catalog
	defaultName string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{catalogs: make(map[string]*catalog.Catalog)}
}

// Attach registers a catalog under name. The first attached catalog
// becomes the default target for requests without a catalog name.
func (r *Registry) Attach(name string, cat *catalog.Catalog) error {
	if cat == nil {
		return ErrNilCatalog
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.catalogs[name]; exists {
		return ErrCatalogExists
	}
	r.catalogs[name] = cat
	if len(r.catalogs) == 1 {
		r.defaultName = name
	}
	return nil
}

// Detach removes a catalog and closes its connection pool. In-flight
// requests holding connections complete normally.
func (r *Registry) Detach(name string) error {
	r.mu.Lock()
	cat, exists := r.catalogs[name]
	if exists {
		delete(r.catalogs, name)
	}
	r.mu.Unlock()

	if !exists {
		return ErrCatalogNotFound
	}
	cat.Close()
	return nil
}

// Get resolves a catalog by name. The empty name selects the default
// catalog.
func (r *Registry) Get(name string) (*catalog.Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaultName
	}
	cat, exists := r.catalogs[name]
	if !exists {
		return nil, ErrCatalogNotFound
	}
	return cat, nil
}

// Names lists the registered catalog names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.catalogs))
	for name := range r.catalogs {
		names = append(names, name)
	}
	return names
}

// Len reports the number of attached catalogs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.catalogs)
}
