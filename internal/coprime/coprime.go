// Package coprime samples random pairs of unsigned integers and counts how
// many of them are coprime.
//
// The package is pure with respect to shared state. A Sampler belongs to
// exactly one goroutine, and RunBatch touches nothing but the Sampler it is
// handed. Merging batch counts into shared totals is the job of package accum.
package coprime

// GCD returns the greatest common divisor of a and b using Euclid's
// remainder reduction. GCD(0, 0) is 0.
func GCD(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// IsCoprime reports whether gcd(a, b) == 1.
//
// The pair (0, 0) has gcd 0 and is reported as not coprime.
func IsCoprime(a, b uint64) bool {
	return GCD(a, b) == 1
}
