package cache

import "errors"

// Sentinel errors for cache construction.
var (
	// ErrUnknownBackend indicates a backend name other than none, file or redis.
	ErrUnknownBackend = errors.New("unknown cache backend")

	// ErrUnavailable indicates the backend could not be reached at startup.
	ErrUnavailable = errors.New("cache unavailable")
)
