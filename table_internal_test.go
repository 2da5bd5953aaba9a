package dhash

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"
	"testing"
)

// collidingKeys returns n distinct keys whose probe sequences start at the
// same slot of a table with the given size.
func collidingKeys(t *testing.T, size, n int) []string {
	t.Helper()
	byStart := make(map[int][]string)
	for i := 0; i < 100000; i++ {
		key := fmt.Sprintf("c%d", i)
		start := newProbe(key, size).at(0)
		byStart[start] = append(byStart[start], key)
		if len(byStart[start]) == n {
			return byStart[start]
		}
	}
	t.Fatalf("no %d colliding keys found for size %d", n, size)
	return nil
}

// occupiedWithKey counts slots holding key.
func occupiedWithKey(tbl *Table, key string) int {
	n := 0
	for i := range tbl.slots {
		if tbl.slots[i].matches(key) {
			n++
		}
	}
	return n
}

// checkCounters recomputes count and tombstones from the slot store.
func checkCounters(t *testing.T, tbl *Table) {
	t.Helper()
	var live, dead int
	for i := range tbl.slots {
		switch tbl.slots[i].state {
		case slotOccupied:
			live++
		case slotTombstone:
			dead++
		}
	}
	if live != tbl.count || dead != tbl.tombstones {
		t.Fatalf("counters: count=%d tombstones=%d, slots hold %d live and %d tombstones",
			tbl.count, tbl.tombstones, live, dead)
	}
	if !isPrime(len(tbl.slots)) {
		t.Fatalf("slot store length %d is not prime", len(tbl.slots))
	}
}

func TestSearchProbesPastTombstone(t *testing.T) {
	tbl := New()
	keys := collidingKeys(t, tbl.Capacity(), 3)

	for _, k := range keys {
		if err := tbl.Insert(k, "v-"+k); err != nil {
			t.Fatalf("Insert(%q): %v", k, err)
		}
	}
	if !tbl.Delete(keys[0]) {
		t.Fatalf("Delete(%q) = false", keys[0])
	}
	checkCounters(t, tbl)

	if tbl.slots[newProbe(keys[0], len(tbl.slots)).at(0)].state != slotTombstone {
		t.Fatal("deleted slot is not a tombstone")
	}
	for _, k := range keys[1:] {
		if v, ok := tbl.Search(k); !ok || v != "v-"+k {
			t.Errorf("Search(%q) = %q, %v after deleting a colliding key", k, v, ok)
		}
	}
	if _, ok := tbl.Search(keys[0]); ok {
		t.Errorf("Search(%q) found a deleted key", keys[0])
	}
}

func TestInsertUpdatesPastTombstone(t *testing.T) {
	tbl := New()
	keys := collidingKeys(t, tbl.Capacity(), 2)

	for _, k := range keys {
		if err := tbl.Insert(k, "old"); err != nil {
			t.Fatal(err)
		}
	}
	tbl.Delete(keys[0])

	if err := tbl.Insert(keys[1], "new"); err != nil {
		t.Fatal(err)
	}
	if n := occupiedWithKey(tbl, keys[1]); n != 1 {
		t.Fatalf("key %q stored %d times, want 1", keys[1], n)
	}
	if tbl.Count() != 1 {
		t.Errorf("Count() = %d, want 1", tbl.Count())
	}
	if v, _ := tbl.Search(keys[1]); v != "new" {
		t.Errorf("Search(%q) = %q, want new", keys[1], v)
	}
	checkCounters(t, tbl)
}

func TestInsertReusesFirstTombstone(t *testing.T) {
	tbl := New()
	keys := collidingKeys(t, tbl.Capacity(), 3)

	if err := tbl.Insert(keys[0], "0"); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Insert(keys[1], "1"); err != nil {
		t.Fatal(err)
	}
	home := newProbe(keys[0], len(tbl.slots)).at(0)
	tbl.Delete(keys[0])

	if err := tbl.Insert(keys[2], "2"); err != nil {
		t.Fatal(err)
	}
	if !tbl.slots[home].matches(keys[2]) {
		t.Errorf("new key did not land in the tombstone at slot %d", home)
	}
	if tbl.tombstones != 0 {
		t.Errorf("tombstones = %d, want 0", tbl.tombstones)
	}
	checkCounters(t, tbl)
}

func TestTombstoneCompaction(t *testing.T) {
	tbl := New()
	const window = 20

	for i := 0; i < 600; i++ {
		if err := tbl.Insert(fmt.Sprintf("k%d", i), "v"); err != nil {
			t.Fatal(err)
		}
		if i >= window {
			if !tbl.Delete(fmt.Sprintf("k%d", i-window)) {
				t.Fatalf("Delete(k%d) = false", i-window)
			}
		}
		checkCounters(t, tbl)
	}

	st := tbl.Stats()
	if st.Compactions == 0 {
		t.Error("expected at least one tombstone compaction")
	}
	if st.Capacity != 53 || st.Grows != 0 {
		t.Errorf("Capacity = %d, Grows = %d; want 53, 0", st.Capacity, st.Grows)
	}
	for i := 600 - window; i < 600; i++ {
		if _, ok := tbl.Search(fmt.Sprintf("k%d", i)); !ok {
			t.Errorf("k%d lost during compaction", i)
		}
	}
}

func TestResizeBelowMinimumIsNoop(t *testing.T) {
	tbl := New()
	if err := tbl.resize(DefaultMinBaseSize - 1); err != nil {
		t.Fatal(err)
	}
	if tbl.baseSize != DefaultMinBaseSize || len(tbl.slots) != 53 {
		t.Errorf("base %d size %d after ignored resize", tbl.baseSize, len(tbl.slots))
	}
}

func TestResizeDropsTombstones(t *testing.T) {
	tbl := New()
	for i := 0; i < 30; i++ {
		tbl.Insert(fmt.Sprintf("k%d", i), fmt.Sprint(i))
	}
	for i := 0; i < 10; i++ {
		tbl.Delete(fmt.Sprintf("k%d", i))
	}
	if err := tbl.resize(200); err != nil {
		t.Fatal(err)
	}
	checkCounters(t, tbl)
	if tbl.tombstones != 0 || len(tbl.slots) != 211 || tbl.baseSize != 200 {
		t.Errorf("tombstones %d size %d base %d; want 0, 211, 200", tbl.tombstones, len(tbl.slots), tbl.baseSize)
	}
	for i := 10; i < 30; i++ {
		if v, ok := tbl.Search(fmt.Sprintf("k%d", i)); !ok || v != fmt.Sprint(i) {
			t.Errorf("Search(k%d) = %q, %v", i, v, ok)
		}
	}
}

func TestCapacityExceeded(t *testing.T) {
	var logBuf bytes.Buffer
	tbl, err := NewWithOptions(Options{
		MinBaseSize: 53,
		MaxSlots:    100,
		Logger:      log.New(&logBuf, "", 0),
	})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 38; i++ {
		if err := tbl.Insert(fmt.Sprintf("k%d", i), "v"); err != nil {
			t.Fatalf("Insert(k%d): %v", i, err)
		}
	}
	if !strings.Contains(logBuf.String(), "grow after insert failed") {
		t.Errorf("expected grow failure to be logged, got %q", logBuf.String())
	}

	err = tbl.Insert("one-too-many", "v")
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("Insert() error = %v, want ErrCapacityExceeded", err)
	}
	if err := tbl.Insert("k0", "updated"); err != nil {
		t.Fatalf("updating k0 at the slot limit: %v", err)
	}
	if v, ok := tbl.Search("k0"); !ok || v != "updated" {
		t.Errorf("Search(k0) = %q, %v; want updated, true", v, ok)
	}
	if tbl.Count() != 38 || tbl.Capacity() != 53 {
		t.Errorf("Count %d Capacity %d; want 38, 53", tbl.Count(), tbl.Capacity())
	}
	for i := 0; i < 38; i++ {
		if _, ok := tbl.Search(fmt.Sprintf("k%d", i)); !ok {
			t.Errorf("k%d lost after failed grow", i)
		}
	}
	checkCounters(t, tbl)
}

func TestResizeLogging(t *testing.T) {
	var logBuf bytes.Buffer
	tbl, err := NewWithOptions(Options{MinBaseSize: 53, Logger: log.New(&logBuf, "", 0)})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 38; i++ {
		tbl.Insert(fmt.Sprintf("k%d", i), "v")
	}
	if !strings.Contains(logBuf.String(), "resize: 53 -> 107 slots") {
		t.Errorf("missing resize log line, got %q", logBuf.String())
	}
}

func TestSlotStateString(t *testing.T) {
	for state, want := range map[slotState]string{
		slotEmpty:     "empty",
		slotTombstone: "tombstone",
		slotOccupied:  "occupied",
		slotState(9):  "unknown",
	} {
		if got := state.String(); got != want {
			t.Errorf("slotState(%d).String() = %q, want %q", state, got, want)
		}
	}
}
