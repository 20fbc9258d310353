// Package xorshift implements the XORSHIFT128+ generator behind the same
// word contract as the cipher-backed generators, with a period of 2^128-1.
// It is fast and repeatable but not cryptographically secure; reach for it
// when throughput matters and prediction resistance does not.
package xorshift

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"randkit-go/pkg/seed"
)

// SeedSize is the required seed length: two little-endian uint64 state
// words.
const SeedSize = 16

// ErrInvalidSeed is returned when the seed is not 16 bytes or decodes to
// the all-zero state, which XORSHIFT128+ can never leave.
var ErrInvalidSeed = errors.New("xorshift: seed must be 16 bytes and not all zero")

// Generator is a deterministic bit stream keyed by its seed. It implements
// bitrand.Repeatable and is safe for concurrent use.
type Generator struct {
	seed []byte

	mu    sync.Mutex
	state [2]uint64
	word  uint32 // pending low half of the last 64-bit step
	have  bool
}

// New returns a generator keyed with SeedSize bytes from the default seed
// chain.
func New() (*Generator, error) {
	return NewFrom(seed.Default)
}

// NewFrom keys a generator with SeedSize bytes minted by g. Because an
// all-zero seed is invalid, callers drawing from an entropy source may in
// principle need a retry; NewFrom performs one.
func NewFrom(g seed.Generator) (*Generator, error) {
	for attempt := 0; attempt < 2; attempt++ {
		s, err := g.GenerateSeed(SeedSize)
		if err != nil {
			return nil, fmt.Errorf("xorshift: acquire seed: %w", err)
		}
		gen, err := NewSeeded(s)
		if err == nil {
			return gen, nil
		}
	}
	return nil, ErrInvalidSeed
}

// NewSeeded keys a generator with the given seed. The bytes are copied.
func NewSeeded(s []byte) (*Generator, error) {
	if len(s) != SeedSize {
		return nil, ErrInvalidSeed
	}
	s0 := binary.LittleEndian.Uint64(s[0:8])
	s1 := binary.LittleEndian.Uint64(s[8:16])
	if s0 == 0 && s1 == 0 {
		return nil, ErrInvalidSeed
	}
	sd := make([]byte, len(s))
	copy(sd, s)
	return &Generator{seed: sd, state: [2]uint64{s0, s1}}, nil
}

// Seed returns a copy of the seed this generator was keyed with.
func (g *Generator) Seed() []byte {
	out := make([]byte, len(g.seed))
	copy(out, g.seed)
	return out
}

// NextBits returns the requested number of random bits in the low
// positions of a uint32. Each XORSHIFT128+ step yields 64 bits; they are
// handed out high word first, so composing two calls reconstructs the raw
// 64-bit outputs. NextBits panics if bits > 32.
func (g *Generator) NextBits(bits uint) uint32 {
	if bits > 32 {
		panic("xorshift: bit count out of range for NextBits")
	}
	g.mu.Lock()
	var w uint32
	if g.have {
		w = g.word
		g.have = false
	} else {
		v := g.step()
		w = uint32(v >> 32)
		g.word = uint32(v)
		g.have = true
	}
	g.mu.Unlock()
	return w >> (32 - bits)
}

// step advances XORSHIFT128+ one iteration. The caller must hold mu.
func (g *Generator) step() uint64 {
	s1 := g.state[0]
	s0 := g.state[1]
	result := s0 + s1

	g.state[0] = s0
	s1 ^= s1 << 23
	g.state[1] = s1 ^ s0 ^ (s1 >> 17) ^ (s0 >> 26)
	return result
}
