/*
Package dhash provides a thread-safe string hash table using open addressing
with double hashing.

Table stores string keys and string values directly in a single slot array
whose length is always prime. Deleted entries are replaced by tombstones so
that probe sequences of other keys stay intact. All operations on a table are
serialized by one mutex.

Basic usage:

	import "github.com/theflywheel/dhash"

	t := dhash.New()
	defer t.Close()

	if err := t.Insert("a", "1"); err != nil {
		log.Fatal(err)
	}

	v, ok := t.Search("a")
	if ok {
		fmt.Println("Value:", v)
	}

	removed := t.Delete("a")

Features:

  - Double hashing: two polynomial string hashes with bases 151 and 163
  - Prime table sizes, so every probe sequence visits every slot
  - Grows (base size doubled) when more than 70% of slots hold entries
  - Shrinks (base size halved) when fewer than 10% do, never below the
    minimum base size (53 by default)
  - Tombstone compaction when tombstones crowd the table
  - Sharded variant with independently locked segments

Implementation Details:

For a key of length L the two hashes are sum(key[i] * p^(L-1-i)) for p = 151
and p = 163, reduced modulo the table size (the second one modulo size-1).
Attempt i of the probe sequence examines slot

	(hashA + i*(hashB+1)) mod size

Insert walks the sequence past tombstones to make sure the key is not already
stored further along, then writes into the first free slot it passed. Search
and Delete stop at the first never-used slot.

Resizing rehashes every live entry into a freshly allocated slot store inside
the call that triggered it, while the table lock is held.
*/
package dhash
