package coprime

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	mrand "math/rand/v2"
)

// ErrEntropy is returned when a Sampler cannot be seeded.
var ErrEntropy = errors.New("coprime: entropy source failed")

// Outcomer produces one coprimality outcome per call.
type Outcomer interface {
	// NextOutcome draws one pair and reports whether it is coprime.
	NextOutcome() bool
}

// Sampler draws full-range uint64 pairs from a private PCG generator.
//
// NOT safe for concurrent use. Each worker owns its own Sampler so that no
// generator state is shared or locked.
type Sampler struct {
	src *mrand.PCG
}

// NewSampler seeds a Sampler with 128 bits read from entropy.
// A nil entropy reader means crypto/rand.Reader.
func NewSampler(entropy io.Reader) (*Sampler, error) {
	if entropy == nil {
		entropy = rand.Reader
	}

	var seed [16]byte
	if _, err := io.ReadFull(entropy, seed[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEntropy, err)
	}

	return &Sampler{
		src: mrand.NewPCG(
			binary.LittleEndian.Uint64(seed[:8]),
			binary.LittleEndian.Uint64(seed[8:]),
		),
	}, nil
}

// Draw returns a uniformly distributed uint64 over the full range.
func (s *Sampler) Draw() uint64 {
	return s.src.Uint64()
}

// NextOutcome draws one pair and reports whether it is coprime.
func (s *Sampler) NextOutcome() bool {
	return IsCoprime(s.Draw(), s.Draw())
}
