package dhash

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sys/cpu"
)

// segment pads each table onto its own cache lines so that the locks of
// neighbouring segments do not share a line.
type segment struct {
	_ cpu.CacheLinePad
	*Table
	_ cpu.CacheLinePad
}

// Sharded splits keys across independently locked tables. Each segment grows
// and shrinks on its own; operations on different segments do not contend.
type Sharded struct {
	segments []segment
}

// NewSharded creates a table of n segments, each configured with opts.
func NewSharded(n int, opts Options) (*Sharded, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d shards", ErrInvalidOptions, n)
	}
	s := &Sharded{segments: make([]segment, n)}
	for i := range s.segments {
		t, err := NewWithOptions(opts)
		if err != nil {
			return nil, err
		}
		s.segments[i].Table = t
	}
	return s, nil
}

func (s *Sharded) segmentFor(key string) *Table {
	return s.segments[xxhash.Sum64String(key)%uint64(len(s.segments))].Table
}

// Shards returns the number of segments.
func (s *Sharded) Shards() int {
	return len(s.segments)
}

// Insert adds or replaces key in its segment.
func (s *Sharded) Insert(key, value string) error {
	return s.segmentFor(key).Insert(key, value)
}

// Search looks key up in its segment.
func (s *Sharded) Search(key string) (string, bool) {
	return s.segmentFor(key).Search(key)
}

// Delete removes key from its segment.
func (s *Sharded) Delete(key string) bool {
	return s.segmentFor(key).Delete(key)
}

// Count sums the segment counts. Segments are read one at a time, so the
// total is not a snapshot under concurrent writes.
func (s *Sharded) Count() int {
	n := 0
	for i := range s.segments {
		n += s.segments[i].Count()
	}
	return n
}

// Capacity sums the segment capacities.
func (s *Sharded) Capacity() int {
	n := 0
	for i := range s.segments {
		n += s.segments[i].Capacity()
	}
	return n
}

// Stats aggregates the segment stats.
func (s *Sharded) Stats() Stats {
	var total Stats
	for i := range s.segments {
		st := s.segments[i].Stats()
		total.Count += st.Count
		total.Capacity += st.Capacity
		total.BaseSize += st.BaseSize
		total.Tombstones += st.Tombstones
		total.Grows += st.Grows
		total.Shrinks += st.Shrinks
		total.Compactions += st.Compactions
	}
	return total
}

// Close closes every segment.
func (s *Sharded) Close() error {
	var errs []error
	for i := range s.segments {
		if err := s.segments[i].Close(); err != nil {
			errs = append(errs, fmt.Errorf("shard %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
