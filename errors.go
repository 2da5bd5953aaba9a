package dhash

import "errors"

var (
	// ErrEmptyKey is returned when inserting an empty key.
	ErrEmptyKey = errors.New("dhash: empty key")
	// ErrKeyTooLong is returned when a key exceeds Options.MaxKeyLen.
	ErrKeyTooLong = errors.New("dhash: key too long")
	// ErrValueTooLong is returned when a value exceeds Options.MaxValueLen.
	ErrValueTooLong = errors.New("dhash: value too long")
	// ErrCapacityExceeded is returned when a grow would need more slots than Options.MaxSlots.
	ErrCapacityExceeded = errors.New("dhash: capacity exceeded")
	// ErrClosed is returned by operations on a closed table.
	ErrClosed = errors.New("dhash: table closed")
	// ErrInvalidOptions is returned by constructors given unusable options.
	ErrInvalidOptions = errors.New("dhash: invalid options")
)
