package repositories

import "errors"

// Sentinel errors returned by repositories. Implementations wrap these with
// fmt.Errorf("...: %w", ...) so callers can match with errors.Is while still
// getting a descriptive message.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey indicates an insert violated a uniqueness constraint,
	// e.g. two payment submissions racing on the same idempotency key.
	ErrDuplicateKey = errors.New("duplicate key")
)
