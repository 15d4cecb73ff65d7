package service

import "errors"

// Error kinds surfaced to the HTTP layer. Handlers map these to
// transport status codes with errors.Is; everything else is treated as
// a server fault.
var (
	// ErrInvalidReference signals a referenced land/seed/fertilizer does
	// not exist, or the land is not owned by the acting farmer.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrIncompatibleProducts signals the selected fertilizer is not
	// approved for the selected seed.
	ErrIncompatibleProducts = errors.New("selected fertilizer is not compatible with the seed")

	// ErrNotFound signals the referenced order (or other primary
	// resource) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPersistence wraps storage failures. Handlers return a generic
	// message for it, the wrapped detail stays in logs.
	ErrPersistence = errors.New("persistence failure")

	// ErrNoProductSelected signals an order request naming neither a
	// seed nor a fertilizer.
	ErrNoProductSelected = errors.New("at least one of seed or fertilizer must be selected")

	// ErrInvalidStatus signals a status transition outside
	// {APPROVED, REJECTED}.
	ErrInvalidStatus = errors.New("status must be APPROVED or REJECTED")

	// ErrDuplicate signals a uniqueness conflict (phone number, catalog
	// name, land UPI).
	ErrDuplicate = errors.New("already exists")

	// ErrInvalidCredentials signals a failed login.
	ErrInvalidCredentials = errors.New("invalid account credentials")
)
