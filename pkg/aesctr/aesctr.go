// Package aesctr implements a deterministic random bit generator built on
// AES in counter mode. A generator is keyed once with a 16, 24 or 32 byte
// seed; its output is the AES encryption of a 128-bit counter that starts
// at zero and is incremented before every block. Equal seeds replay equal
// streams, so any run can be reproduced by recording the seed.
//
// The generator is not an entropy pool: it never reseeds itself, and the
// strength of its output is exactly the strength of the seed it was keyed
// with.
package aesctr

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"randkit-go/pkg/seed"
)

// DefaultSeedSize is the seed length used when the caller does not ask for
// a specific one (AES-128).
const DefaultSeedSize = 16

const wordSize = 4 // bytes consumed from the keystream per NextBits call

// ErrInvalidSeed is returned by the constructors when the seed is not a
// valid AES key length (16, 24 or 32 bytes).
var ErrInvalidSeed = errors.New("aesctr: seed must be 16, 24 or 32 bytes")

// Generator is a deterministic bit stream keyed by its seed. It implements
// bitrand.Repeatable and is safe for concurrent use: each NextBits call
// observes and advances the stream atomically.
type Generator struct {
	seed []byte

	mu      sync.Mutex
	block   cipher.Block
	counter [aes.BlockSize]byte
	buf     []byte // current keystream block, nil until the first call
	pos     int    // consumed bytes within buf
}

// New returns a generator keyed with DefaultSeedSize bytes from the
// default seed chain.
func New() (*Generator, error) {
	return NewFrom(seed.Default, DefaultSeedSize)
}

// NewSize returns a generator keyed with seedSize bytes from the default
// seed chain. seedSize selects the AES variant: 16, 24 or 32.
func NewSize(seedSize int) (*Generator, error) {
	return NewFrom(seed.Default, seedSize)
}

// NewFrom keys a generator with seedSize bytes minted by g. Failures from
// g are wrapped; match them with errors.Is against the source's errors.
func NewFrom(g seed.Generator, seedSize int) (*Generator, error) {
	s, err := g.GenerateSeed(seedSize)
	if err != nil {
		return nil, fmt.Errorf("aesctr: acquire seed: %w", err)
	}
	return NewSeeded(s)
}

// NewSeeded keys a generator with the given seed. The bytes are copied, so
// mutating the caller's slice afterwards does not disturb the stream.
func NewSeeded(s []byte) (*Generator, error) {
	switch len(s) {
	case 16, 24, 32:
	default:
		return nil, ErrInvalidSeed
	}
	key := make([]byte, len(s))
	copy(key, s)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aesctr: init cipher: %w", err)
	}
	return &Generator{seed: key, block: block}, nil
}

// Seed returns a copy of the seed this generator was keyed with. Passing
// it to NewSeeded reproduces the full output stream from the start.
func (g *Generator) Seed() []byte {
	out := make([]byte, len(g.seed))
	copy(out, g.seed)
	return out
}

// NextBits returns the requested number of random bits in the low
// positions of a uint32. The bits are the top bits of the next big-endian
// 32-bit word of the keystream, so NextBits(32) enumerates the raw
// keystream words and narrower widths are prefixes of them. NextBits
// panics if bits > 32. It cannot otherwise fail: once the cipher is keyed,
// block encryption has no error path.
func (g *Generator) NextBits(bits uint) uint32 {
	if bits > 32 {
		panic("aesctr: bit count out of range for NextBits")
	}
	g.mu.Lock()
	if g.buf == nil || len(g.buf)-g.pos < wordSize {
		g.nextBlock()
	}
	w := binary.BigEndian.Uint32(g.buf[g.pos:])
	g.pos += wordSize
	g.mu.Unlock()
	return w >> (32 - bits)
}

// nextBlock advances the counter and encrypts it into the buffer. The
// caller must hold mu.
func (g *Generator) nextBlock() {
	g.incrementCounter()
	if g.buf == nil {
		g.buf = make([]byte, aes.BlockSize)
	}
	g.block.Encrypt(g.buf, g.counter[:])
	g.pos = 0
}

// incrementCounter adds one to the 128-bit little-endian counter, rippling
// the carry across bytes. After 2^128 blocks it silently wraps to zero.
func (g *Generator) incrementCounter() {
	for i := range g.counter {
		g.counter[i]++
		if g.counter[i] != 0 {
			break
		}
	}
}
