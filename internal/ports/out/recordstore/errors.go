package recordstore

import "errors"

var (
	// ErrUnavailable indicates the secondary store is not configured or cannot be reached.
	ErrUnavailable = errors.New("secondary store unavailable")
)
