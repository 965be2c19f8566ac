// Package estimate turns coprime hit counts into an approximation of pi.
//
// Two integers drawn at random are coprime with probability 6/pi^2, so with
// an empirical ratio p = hits/samples the estimate is sqrt(K/p) with K = 6.
//
// Edge cases:
//   - hits == 0: the ratio is zero and the estimate is +Inf. This is
//     surfaced as-is; it disappears once a realistic batch has been merged.
//   - samples == 0: undefined. Float returns NaN, Big returns nil and Text
//     returns "NaN".
package estimate

import (
	"math"
	"math/big"
)

// K is the constant of the identity P(coprime) = K / pi^2.
const K = 6

// DefaultPrec is the binary precision used by Big when prec is 0.
// 128 bits carry about 38 significant decimal digits.
const DefaultPrec = 128

// Float returns sqrt(K * samples / hits) as a float64.
func Float(samples, hits uint64) float64 {
	if samples == 0 {
		return math.NaN()
	}
	if hits == 0 {
		return math.Inf(1)
	}
	p := float64(hits) / float64(samples)
	return math.Sqrt(K / p)
}

// Big returns sqrt(K * samples / hits) computed at prec bits of mantissa.
//
// The quotient is formed from the exact integer totals rather than from a
// float64 ratio, so the digits beyond float64 precision are meaningful.
func Big(samples, hits uint64, prec uint) *big.Float {
	if samples == 0 {
		return nil
	}
	if prec == 0 {
		prec = DefaultPrec
	}
	if hits == 0 {
		return new(big.Float).SetPrec(prec).SetInf(false)
	}

	num := new(big.Float).SetPrec(prec).SetUint64(samples)
	num.Mul(num, new(big.Float).SetPrec(prec).SetInt64(K))
	num.Quo(num, new(big.Float).SetPrec(prec).SetUint64(hits))
	return new(big.Float).SetPrec(prec).Sqrt(num)
}

// Text formats the estimate with the given number of significant digits.
//
// The binary precision is chosen from digits so that the printed digits are
// all backed by the computation.
func Text(samples, hits uint64, digits int) string {
	if digits < 1 {
		digits = 1
	}
	v := Big(samples, hits, PrecFor(digits))
	if v == nil {
		return "NaN"
	}
	return v.Text('g', digits)
}

// PrecFor returns a binary precision large enough to carry digits
// significant decimal digits, plus guard bits.
func PrecFor(digits int) uint {
	// log2(10) ~ 3.3219
	bits := uint(math.Ceil(float64(digits)*3.3219280948873626)) + 16
	if bits < 64 {
		bits = 64
	}
	return bits
}
