package domain

import "errors"

var (
	// ErrEmptyQuery signals a request without query text.
	ErrEmptyQuery = errors.New("empty query")
	// ErrCatalogUnavailable signals that the catalog source could not be read.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrUnknownBackend signals a config naming an implementation that does not exist.
	ErrUnknownBackend = errors.New("unknown backend")
)
