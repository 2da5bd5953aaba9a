package dhash

import "fmt"

func (t *Table) grow() error {
	if err := t.resize(t.baseSize * 2); err != nil {
		return err
	}
	t.grows++
	return nil
}

func (t *Table) shrink() {
	base := t.baseSize / 2
	if base < t.opts.MinBaseSize {
		return
	}
	if err := t.resize(base); err != nil {
		t.logf("shrink failed: %v", err)
		return
	}
	t.shrinks++
}

// compact rehashes at the current base size to drop tombstones.
func (t *Table) compact() {
	if err := t.resize(t.baseSize); err != nil {
		t.logf("compaction failed: %v", err)
		return
	}
	t.compactions++
}

// resize rehashes every live entry into a new slot store sized from base and
// moves it into the table. Requests below the minimum base size are ignored.
// On error the table is left unchanged.
func (t *Table) resize(base int) error {
	if base < t.opts.MinBaseSize {
		return nil
	}
	if base > t.opts.MaxSlots {
		return fmt.Errorf("%w: base size %d, limit %d slots", ErrCapacityExceeded, base, t.opts.MaxSlots)
	}
	size := nextPrime(base)
	if size > t.opts.MaxSlots {
		return fmt.Errorf("%w: %d slots needed, limit %d", ErrCapacityExceeded, size, t.opts.MaxSlots)
	}

	slots := make([]slot, size)
	for i := range t.slots {
		s := &t.slots[i]
		if s.state != slotOccupied {
			continue
		}
		if err := place(slots, s.key, s.value); err != nil {
			return err
		}
	}

	t.logf("resize: %d -> %d slots (base %d, %d entries, %d tombstones dropped)",
		len(t.slots), size, base, t.count, t.tombstones)
	t.slots = slots
	t.baseSize = base
	t.tombstones = 0
	return nil
}

// place puts an entry into the first empty slot of its probe sequence. It is
// only used while rehashing, where keys are known to be unique and the store
// holds no tombstones.
func place(slots []slot, key, value string) error {
	p := newProbe(key, len(slots))
	for i := 0; i < len(slots); i++ {
		idx := p.at(i)
		if slots[idx].state == slotEmpty {
			slots[idx] = slot{state: slotOccupied, key: key, value: value}
			return nil
		}
	}
	return fmt.Errorf("failed to find slot for key %q during resize", key)
}
