package dhash

import (
	"fmt"
	"strings"
	"sync"
)

// Table is a thread-safe string table using open addressing with double
// hashing. Deleted entries leave tombstones that keep probe sequences intact
// until the next rehash.
type Table struct {
	mu   sync.Mutex
	opts Options

	baseSize   int
	count      int
	tombstones int
	slots      []slot
	closed     bool

	grows       uint64
	shrinks     uint64
	compactions uint64
}

// Stats is a point-in-time snapshot of a table.
type Stats struct {
	Count       int
	Capacity    int
	BaseSize    int
	Tombstones  int
	Grows       uint64
	Shrinks     uint64
	Compactions uint64
}

// LoadFactor returns Count/Capacity, or 0 for an empty store.
func (s Stats) LoadFactor() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.Count) / float64(s.Capacity)
}

// New creates a table with DefaultOptions.
func New() *Table {
	return newTable(DefaultOptions())
}

// NewWithOptions creates a table sized for opts.MinBaseSize.
func NewWithOptions(opts Options) (*Table, error) {
	if opts.MaxSlots == 0 {
		opts.MaxSlots = DefaultMaxSlots
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return newTable(opts), nil
}

func newTable(opts Options) *Table {
	return &Table{
		opts:     opts,
		baseSize: opts.MinBaseSize,
		slots:    make([]slot, nextPrime(opts.MinBaseSize)),
	}
}

// Insert adds key with value, or replaces the value if key is already present.
// The table grows before the write when it is more than 70% full, and again
// after the write if the new entry pushed it over.
func (t *Table) Insert(key, value string) error {
	if err := t.opts.checkEntry(key, value); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	if t.load() > growLoadPercent {
		if err := t.grow(); err != nil {
			// An update needs no new slot.
			if idx, ok := t.find(key); ok {
				t.slots[idx].value = strings.Clone(value)
				return nil
			}
			return fmt.Errorf("grow before insert: %w", err)
		}
	} else if t.crowded() {
		t.compact()
	}

	added, err := t.put(key, value)
	if err != nil {
		return err
	}

	if added && t.load() > growLoadPercent {
		// The entry is stored; a failed grow is retried by the next insert.
		if err := t.grow(); err != nil {
			t.logf("grow after insert failed: %v", err)
		}
	}
	return nil
}

// Search returns the value stored for key.
func (t *Table) Search(key string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return "", false
	}
	idx, ok := t.find(key)
	if !ok {
		return "", false
	}
	return t.slots[idx].value, true
}

// Delete removes key and reports whether it was present. The table shrinks
// when it is less than 10% full, but never below its minimum base size.
func (t *Table) Delete(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return false
	}

	if t.load() < shrinkLoadPercent {
		t.shrink()
	}

	idx, ok := t.find(key)
	if !ok {
		return false
	}
	t.slots[idx].bury()
	t.count--
	t.tombstones++

	if t.load() < shrinkLoadPercent {
		t.shrink()
	}
	return true
}

// Count returns the number of live entries.
func (t *Table) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Capacity returns the number of slots, always a prime while the table is open.
func (t *Table) Capacity() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.slots)
}

// BaseSize returns the requested capacity the slot store was sized from.
func (t *Table) BaseSize() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.baseSize
}

// LoadFactor returns the ratio of live entries to slots.
func (t *Table) LoadFactor() float64 {
	return t.Stats().LoadFactor()
}

// Stats returns a snapshot of the table counters.
func (t *Table) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Stats{
		Count:       t.count,
		Capacity:    len(t.slots),
		BaseSize:    t.baseSize,
		Tombstones:  t.tombstones,
		Grows:       t.grows,
		Shrinks:     t.shrinks,
		Compactions: t.compactions,
	}
}

// Close releases every entry and the slot store. The table cannot be used
// afterwards.
func (t *Table) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	t.closed = true
	t.slots = nil
	t.count = 0
	t.tombstones = 0
	return nil
}

// load returns the live load factor as an integer percentage.
func (t *Table) load() int {
	if len(t.slots) == 0 {
		return 0
	}
	return t.count * 100 / len(t.slots)
}

// crowded reports whether live entries and tombstones together fill the
// table past the grow threshold.
func (t *Table) crowded() bool {
	return (t.count+t.tombstones)*100/len(t.slots) > growLoadPercent
}

// find walks the probe sequence of key. Tombstones are skipped and an empty
// slot ends the walk.
func (t *Table) find(key string) (int, bool) {
	p := newProbe(key, len(t.slots))
	for i := 0; i < len(t.slots); i++ {
		idx := p.at(i)
		s := &t.slots[idx]
		switch s.state {
		case slotEmpty:
			return 0, false
		case slotOccupied:
			if s.key == key {
				return idx, true
			}
		}
	}
	return 0, false
}

// put stores key and value, reporting whether a new entry was added. The
// whole reachable probe path is checked for key before the entry lands in
// the first free slot seen.
func (t *Table) put(key, value string) (bool, error) {
	p := newProbe(key, len(t.slots))
	target := -1
	for i := 0; i < len(t.slots); i++ {
		idx := p.at(i)
		s := &t.slots[idx]
		if s.matches(key) {
			s.value = strings.Clone(value)
			return false, nil
		}
		if s.state == slotOccupied {
			continue
		}
		if target < 0 {
			target = idx
		}
		if s.state == slotEmpty {
			break
		}
	}
	if target < 0 {
		return false, fmt.Errorf("%w: no free slot among %d", ErrCapacityExceeded, len(t.slots))
	}
	if t.slots[target].state == slotTombstone {
		t.tombstones--
	}
	t.slots[target] = slot{
		state: slotOccupied,
		key:   strings.Clone(key),
		value: strings.Clone(value),
	}
	t.count++
	return true, nil
}

func (t *Table) logf(format string, args ...any) {
	if t.opts.Logger != nil {
		t.opts.Logger.Printf(format, args...)
	}
}
