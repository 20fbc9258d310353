// Package cc20 implements a deterministic random bit generator over the
// ChaCha20 keystream. It follows the same word contract as the AES counter
// generator: a 32 byte seed keys the cipher, the nonce is fixed at zero,
// and output is consumed as big-endian 32-bit words. One seed, one stream.
package cc20

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/chacha20"

	"randkit-go/pkg/seed"
)

// SeedSize is the required seed length, the ChaCha20 key size.
const SeedSize = chacha20.KeySize

const wordSize = 4

// ErrInvalidSeed is returned when the seed is not exactly SeedSize bytes.
var ErrInvalidSeed = errors.New("cc20: seed must be 32 bytes")

// Generator is a deterministic bit stream keyed by its seed. It implements
// bitrand.Repeatable and is safe for concurrent use.
type Generator struct {
	seed []byte

	mu     sync.Mutex
	cipher *chacha20.Cipher
	buf    [64]byte // one ChaCha20 block of keystream
	pos    int
}

// New returns a generator keyed with SeedSize bytes from the default seed
// chain.
func New() (*Generator, error) {
	return NewFrom(seed.Default)
}

// NewFrom keys a generator with SeedSize bytes minted by g.
func NewFrom(g seed.Generator) (*Generator, error) {
	s, err := g.GenerateSeed(SeedSize)
	if err != nil {
		return nil, fmt.Errorf("cc20: acquire seed: %w", err)
	}
	return NewSeeded(s)
}

// NewSeeded keys a generator with the given seed. The bytes are copied.
func NewSeeded(s []byte) (*Generator, error) {
	if len(s) != SeedSize {
		return nil, ErrInvalidSeed
	}
	key := make([]byte, len(s))
	copy(key, s)
	c, err := chacha20.NewUnauthenticatedCipher(key, make([]byte, chacha20.NonceSize))
	if err != nil {
		return nil, fmt.Errorf("cc20: init cipher: %w", err)
	}
	g := &Generator{seed: key, cipher: c}
	g.pos = len(g.buf) // force a keystream fill on first use
	return g, nil
}

// Seed returns a copy of the seed this generator was keyed with.
func (g *Generator) Seed() []byte {
	out := make([]byte, len(g.seed))
	copy(out, g.seed)
	return out
}

// NextBits returns the requested number of random bits in the low
// positions of a uint32, the top bits of the next big-endian keystream
// word. It panics if bits > 32.
func (g *Generator) NextBits(bits uint) uint32 {
	if bits > 32 {
		panic("cc20: bit count out of range for NextBits")
	}
	g.mu.Lock()
	if len(g.buf)-g.pos < wordSize {
		g.refill()
	}
	w := binary.BigEndian.Uint32(g.buf[g.pos:])
	g.pos += wordSize
	g.mu.Unlock()
	return w >> (32 - bits)
}

// refill replaces the buffer with the next keystream block. The buffer is
// zeroed first so XORKeyStream leaves pure keystream behind. The caller
// must hold mu.
func (g *Generator) refill() {
	clear(g.buf[:])
	g.cipher.XORKeyStream(g.buf[:], g.buf[:])
	g.pos = 0
}
