package booking

import "errors"

// Engine outcomes surfaced to callers. All of these are expected, recoverable
// results; only ErrUnavailable signals an infrastructure failure.
var (
	// ErrSlotUnavailable: the requested interval is no longer free at hold
	// time. The caller should re-query availability and retry.
	ErrSlotUnavailable = errors.New("slot unavailable")
	// ErrHoldExpired: confirm attempted after the hold's TTL lapsed.
	ErrHoldExpired = errors.New("hold expired")
	// ErrNotFound: the reservation, resource or service does not exist in the
	// caller's tenant. Wrong-tenant ids report identically.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState: the operation is not permitted from the reservation's
	// current state.
	ErrInvalidState = errors.New("invalid state")
	// ErrValidation: malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrUnavailable: storage failure; nothing was committed.
	ErrUnavailable = errors.New("storage unavailable")
)
