package dhash

// isPrime reports whether n is prime using trial division by odd numbers.
func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n < 4 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for d := 3; d <= n/d; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// nextPrime returns the smallest prime that is at least n.
func nextPrime(n int) int {
	if n < 2 {
		return 2
	}
	for !isPrime(n) {
		n++
	}
	return n
}
