package services

import (
	"errors"
)

// Sentinel errors returned by the social services. Handlers match these with
// errors.Is and translate them to HTTP responses; the message shown to users
// comes from the handler, not from here.
var (
	// ErrValidation covers bad input caught before any I/O (empty or
	// over-length comment content, parent on a different recipe).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the addressed entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotFoundOrForbidden is returned when an ownership-scoped write
	// matched no row. Whether the row is missing or owned by someone else is
	// deliberately indistinguishable so the API never leaks the existence of
	// other users' comments.
	ErrNotFoundOrForbidden = errors.New("not found or not yours")
)
