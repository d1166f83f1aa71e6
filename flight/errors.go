package flight

import "errors"

var (
	// ErrCatalogExists is returned when attaching a catalog under a name
	// that is already registered.
	ErrCatalogExists = errors.New("catalog already attached")
	// ErrCatalogNotFound is returned when a requested catalog is not
	// registered.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrNilCatalog is returned when attempting to register a nil catalog.
	ErrNilCatalog = errors.New("catalog cannot be nil")
)
