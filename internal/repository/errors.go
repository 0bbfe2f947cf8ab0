// Package repository defines error values that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as services and handlers to distinguish between failure
// scenarios without inspecting SQL errors: ErrNotFound maps to 404,
// ErrForbidden to 403, ErrConflict to 409, and ErrCapacity marks a
// sold-out slot at checkout time, which is distinct from a
// validation failure, since the input was valid when submitted.
package repository

import "errors"

// ErrNotFound is returned when the requested booking, cart line or
// activity does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as a vendor approving another
// vendor's booking.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an optimistic-concurrency write loses
// the race: the booking's version changed between read and write.
// Callers must re-read before retrying; the repository never retries
// on its own.
var ErrConflict = errors.New("conflict")

// ErrCapacity is returned when the conditional capacity decrement
// affects no row because the slot is sold out for that date.
var ErrCapacity = errors.New("capacity exhausted")

// ErrEmailExists is returned when registering a user with an email
// that is already taken.
var ErrEmailExists = errors.New("email already exists")
