// Package sample derives typed random values from a bitrand.Source. Every
// helper consumes whole 32-bit words through NextBits, so a repeatable
// source replays identical draws no matter which mix of helpers runs on
// top of it.
package sample

import (
	"encoding/binary"
	"math/bits"

	"randkit-go/pkg/bitrand"
)

// Uint32 returns the next full stream word.
func Uint32(s bitrand.Source) uint32 {
	return s.NextBits(32)
}

// Int31 returns a non-negative int32.
func Int31(s bitrand.Source) int32 {
	return int32(s.NextBits(31))
}

// Uint32N returns a uniform value in [0,n) using multiply-shift reduction
// with bias compensation, so no modulo and no skew. For n of 0 or 1 it
// returns 0 without consuming the stream.
// See https://lemire.me/blog/2016/06/30/fast-random-shuffling for the
// threshold trick.
func Uint32N(s bitrand.Source, n uint32) uint32 {
	if n < 2 {
		return 0
	}
	v := s.NextBits(32)
	prod := uint64(v) * uint64(n)
	low := uint32(prod)
	if low < n {
		thresh := -n % n
		for low < thresh {
			v = s.NextBits(32)
			prod = uint64(v) * uint64(n)
			low = uint32(prod)
		}
	}
	return uint32(prod >> 32)
}

// Uint64N returns a uniform value in [0,n), the 64-bit analog of Uint32N.
func Uint64N(s bitrand.Source, n uint64) uint64 {
	if n < 2 {
		return 0
	}
	v := bitrand.Uint64(s)
	hi, lo := bits.Mul64(v, n)
	if lo < n {
		thresh := -n % n
		for lo < thresh {
			v = bitrand.Uint64(s)
			hi, lo = bits.Mul64(v, n)
		}
	}
	return hi
}

// Intn returns a uniform int in [0,n). It panics if n <= 0.
func Intn(s bitrand.Source, n int) int {
	if n <= 0 {
		panic("sample: Intn called with n <= 0")
	}
	return int(Uint64N(s, uint64(n)))
}

// IntRange returns a uniform int in [min,max], inclusive on both ends. It
// panics if min > max.
func IntRange(s bitrand.Source, min, max int) int {
	if min > max {
		panic("sample: IntRange called with min > max")
	}
	return min + Intn(s, max-min+1)
}

// Float64 returns a uniform float64 in [0,1), built from the top 53 bits
// of a stream doubleword.
func Float64(s bitrand.Source) float64 {
	return float64(bitrand.Uint64(s)>>11) / (1 << 53)
}

// Bytes returns the next n stream bytes, materialized word by word in big
// endian order. For the cipher-backed generators this is exactly the raw
// keystream, so the byte view and the word view of one seed agree.
func Bytes(s bitrand.Source, n int) []byte {
	if n < 0 {
		panic("sample: Bytes called with negative length")
	}
	out := make([]byte, 0, (n+3)&^3)
	var w [4]byte
	for len(out) < n {
		binary.BigEndian.PutUint32(w[:], s.NextBits(32))
		out = append(out, w[:]...)
	}
	return out[:n]
}

// Fill overwrites p with stream bytes in place, same ordering as Bytes.
func Fill(s bitrand.Source, p []byte) {
	i := 0
	for ; i+4 <= len(p); i += 4 {
		binary.BigEndian.PutUint32(p[i:], s.NextBits(32))
	}
	if i < len(p) {
		var w [4]byte
		binary.BigEndian.PutUint32(w[:], s.NextBits(32))
		copy(p[i:], w[:])
	}
}

// Perm returns a uniform permutation of [0,n).
func Perm(s bitrand.Source, n int) []int {
	m := make([]int, n)
	for i := 0; i < n; i++ {
		j := Intn(s, i+1)
		m[i] = m[j]
		m[j] = i
	}
	return m
}
