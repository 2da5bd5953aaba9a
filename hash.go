package dhash

const (
	hashPrimeA = 151
	hashPrimeB = 163
)

// polyHash accumulates the key bytes Horner-style, reducing modulo m at every step.
// The result equals sum(key[i] * base^(len-1-i)) mod m.
func polyHash(key string, base, m int) int {
	var h uint64
	b, mod := uint64(base), uint64(m)
	for i := 0; i < len(key); i++ {
		h = (h*b + uint64(key[i])) % mod
	}
	return int(h)
}

// probe is the double hashing sequence of one key over a table of a given size.
type probe struct {
	start int
	step  int
	size  int
}

// newProbe derives both hashes of key for a prime size of at least 2. The
// second hash is reduced modulo size-1 so the step lies in [1, size-1] and is
// coprime to size: the first size attempts visit every slot exactly once.
func newProbe(key string, size int) probe {
	return probe{
		start: polyHash(key, hashPrimeA, size),
		step:  polyHash(key, hashPrimeB, size-1) + 1,
		size:  size,
	}
}

// at returns the slot index for the given attempt.
func (p probe) at(attempt int) int {
	return int((uint64(p.start) + uint64(attempt)*uint64(p.step)) % uint64(p.size))
}
