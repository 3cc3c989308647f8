package utils

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// Sampler draws deterministic randomness from a SHAKE-128 stream.
//
// The same seed always yields the same sequence, which makes trace
// generation reproducible across runs and platforms.
type Sampler struct {
	stream sha3.ShakeHash
}

// NewSampler creates a sampler seeded with the given bytes
func NewSampler(seed []byte) *Sampler {
	stream := sha3.NewShake128()
	stream.Write(seed)
	return &Sampler{stream: stream}
}

// NewSeededSampler creates a sampler from a single 64-bit seed
func NewSeededSampler(seed uint64) *Sampler {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	return NewSampler(buf[:])
}

// Uint64 reads the next 64 bits from the stream
func (s *Sampler) Uint64() uint64 {
	var buf [8]byte
	s.stream.Read(buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}

// FieldElement samples a uniform field element. Draws of 64-bit words
// are rejected until one lands below the modulus, so every canonical
// residue is equally likely.
func (s *Sampler) FieldElement() field.Element {
	for {
		v := s.Uint64()
		if v < field.P {
			return field.New(v)
		}
	}
}

// FieldElements samples n uniform field elements
func (s *Sampler) FieldElements(n int) []field.Element {
	elements := make([]field.Element, n)
	for i := range elements {
		elements[i] = s.FieldElement()
	}
	return elements
}

// UniformRange samples a uniform integer in [0, n). Draws below
// 2^64 mod n are rejected, which leaves every residue class with the
// same number of accepted preimages. n = 0 returns 0.
func (s *Sampler) UniformRange(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	threshold := -n % n
	for {
		v := s.Uint64()
		if v >= threshold {
			return v % n
		}
	}
}
