package kvstore

import "errors"

var (
	// ErrQuotaExceeded indicates the store refused a write because it would exceed its capacity.
	ErrQuotaExceeded = errors.New("primary store quota exceeded")

	// ErrClosed indicates the store was used after Close.
	ErrClosed = errors.New("primary store closed")
)
