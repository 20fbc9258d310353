package cc20

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sync"
	"testing"

	"golang.org/x/crypto/chacha20"
)

func testSeed() []byte {
	s := make([]byte, SeedSize)
	for i := range s {
		s[i] = byte(i*7 + 3)
	}
	return s
}

func TestStreamMatchesChaCha20Keystream(t *testing.T) {
	s := testSeed()
	g, err := NewSeeded(s)
	if err != nil {
		t.Fatalf("NewSeeded: %v", err)
	}

	// Reference keystream straight from x/crypto with the same key and a
	// zero nonce.
	ref, err := chacha20.NewUnauthenticatedCipher(s, make([]byte, chacha20.NonceSize))
	if err != nil {
		t.Fatalf("NewUnauthenticatedCipher: %v", err)
	}
	stream := make([]byte, 256)
	ref.XORKeyStream(stream, stream)

	for i := 0; i+4 <= len(stream); i += 4 {
		want := binary.BigEndian.Uint32(stream[i:])
		if got := g.NextBits(32); got != want {
			t.Fatalf("word %d = %#x, want %#x", i/4, got, want)
		}
	}
}

func TestDeterministicStream(t *testing.T) {
	a, err := NewSeeded(testSeed())
	if err != nil {
		t.Fatalf("NewSeeded: %v", err)
	}
	b, err := NewSeeded(testSeed())
	if err != nil {
		t.Fatalf("NewSeeded: %v", err)
	}
	for i := 0; i < 500; i++ {
		if va, vb := a.NextBits(32), b.NextBits(32); va != vb {
			t.Fatalf("streams diverged at word %d", i)
		}
	}
}

func TestBitWidths(t *testing.T) {
	narrow, _ := NewSeeded(testSeed())
	full, _ := NewSeeded(testSeed())
	for w := uint(1); w <= 32; w++ {
		word := full.NextBits(32)
		if got, want := narrow.NextBits(w), word>>(32-w); got != want {
			t.Fatalf("NextBits(%d) = %#x, want %#x", w, got, want)
		}
	}
}

func TestNextBitsPanicsAboveWordWidth(t *testing.T) {
	g, _ := NewSeeded(testSeed())
	defer func() {
		if recover() == nil {
			t.Fatal("NextBits(40) did not panic")
		}
	}()
	g.NextBits(40)
}

func TestSeedCopies(t *testing.T) {
	s := testSeed()
	g, _ := NewSeeded(s)
	ref, _ := NewSeeded(testSeed())

	s[0] ^= 0xFF
	out := g.Seed()
	out[1] ^= 0xFF

	if !bytes.Equal(g.Seed(), testSeed()) {
		t.Fatal("generator seed was mutated through a shared slice")
	}
	for i := 0; i < 32; i++ {
		if g.NextBits(32) != ref.NextBits(32) {
			t.Fatalf("stream changed after external mutation at word %d", i)
		}
	}
}

func TestInvalidSeed(t *testing.T) {
	for _, n := range []int{0, 16, 24, 31, 33} {
		_, err := NewSeeded(make([]byte, n))
		if !errors.Is(err, ErrInvalidSeed) {
			t.Fatalf("NewSeeded with %d bytes: got %v, want ErrInvalidSeed", n, err)
		}
	}
}

func TestNewMintsSeed(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(g.Seed()) != SeedSize {
		t.Fatalf("seed is %d bytes, want %d", len(g.Seed()), SeedSize)
	}
}

func TestConcurrentDrawsStaySerial(t *testing.T) {
	const workers, perWorker = 4, 200
	g, err := NewSeeded(testSeed())
	if err != nil {
		t.Fatalf("NewSeeded: %v", err)
	}

	var mu sync.Mutex
	seen := make(map[uint32]int, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				w := g.NextBits(32)
				mu.Lock()
				seen[w]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	ref, _ := NewSeeded(testSeed())
	for i := 0; i < workers*perWorker; i++ {
		w := ref.NextBits(32)
		if seen[w] == 0 {
			t.Fatalf("word %d (%#x) of the serial stream was never drawn", i, w)
		}
		seen[w]--
	}
}
