package data

import "errors"

// Shared sentinel errors for the cache repositories.
var (
	// ErrNoCacheRoot is returned when a store is built without a cache directory.
	ErrNoCacheRoot = errors.New("cache root directory is required")
	// ErrUnexpectedIndexHeader is returned when index.csv does not start with id,moniker,timestamp.
	ErrUnexpectedIndexHeader = errors.New("unexpected index header")
)
