package repositories

import "errors"

var (
	// ErrReadingNotFound is returned when an identifier matches no record.
	ErrReadingNotFound = errors.New("reading not found")

	// ErrInvalidID is returned when an identifier is malformed for the
	// active backend, e.g. a non-numeric id on the relational backend or a
	// string that is neither a document id nor a legacy integer id on the
	// document backend.
	ErrInvalidID = errors.New("invalid identifier")
)
