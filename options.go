package dhash

import (
	"fmt"
	"log"
)

const (
	// DefaultMinBaseSize is the initial and minimum base size of a table.
	DefaultMinBaseSize = 53

	// DefaultMaxSlots bounds the slot store of a table.
	DefaultMaxSlots = 1 << 30

	maxSlotLimit = 1<<31 - 1

	growLoadPercent   = 70
	shrinkLoadPercent = 10
)

// Options configures a Table.
type Options struct {
	// MinBaseSize is the base size a new table starts with. The table never
	// shrinks below it.
	MinBaseSize int

	// MaxKeyLen and MaxValueLen bound the length in bytes of keys and values.
	// Zero means unbounded.
	MaxKeyLen   int
	MaxValueLen int

	// MaxSlots is the largest slot store the table may allocate.
	MaxSlots int

	// Logger receives resize events. Nil disables logging.
	Logger *log.Logger
}

// DefaultOptions returns the options used by New.
func DefaultOptions() Options {
	return Options{
		MinBaseSize: DefaultMinBaseSize,
		MaxSlots:    DefaultMaxSlots,
	}
}

func (o Options) validate() error {
	if o.MinBaseSize < 1 {
		return fmt.Errorf("%w: min base size %d", ErrInvalidOptions, o.MinBaseSize)
	}
	if o.MaxKeyLen < 0 || o.MaxValueLen < 0 {
		return fmt.Errorf("%w: negative length bound", ErrInvalidOptions)
	}
	if o.MaxSlots < nextPrime(o.MinBaseSize) {
		return fmt.Errorf("%w: max slots %d below initial capacity %d",
			ErrInvalidOptions, o.MaxSlots, nextPrime(o.MinBaseSize))
	}
	if o.MaxSlots > maxSlotLimit {
		return fmt.Errorf("%w: max slots %d above %d", ErrInvalidOptions, o.MaxSlots, maxSlotLimit)
	}
	return nil
}

func (o Options) checkEntry(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if o.MaxKeyLen > 0 && len(key) > o.MaxKeyLen {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrKeyTooLong, len(key), o.MaxKeyLen)
	}
	if o.MaxValueLen > 0 && len(value) > o.MaxValueLen {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrValueTooLong, len(value), o.MaxValueLen)
	}
	return nil
}
