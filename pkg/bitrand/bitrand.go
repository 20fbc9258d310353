// Package bitrand defines the word contract shared by every seeded
// generator in this module. Generators hand out random bits 32 at a time
// through NextBits; anything wider or fancier is composed on top, so two
// generators with equal seeds stay interchangeable no matter which helpers
// consume them.
package bitrand

// Source produces random bits. NextBits returns the requested number of
// bits in the low positions of a uint32, taken from the top of the next
// 32-bit word of the underlying stream. Implementations panic if bits > 32.
type Source interface {
	NextBits(bits uint) uint32
}

// Repeatable is a Source whose entire output stream can be reproduced by
// re-seeding a fresh instance with the bytes Seed returns.
type Repeatable interface {
	Source
	Seed() []byte
}

// Uint64 builds a 64-bit value from two consecutive stream words, high
// word first.
func Uint64(s Source) uint64 {
	hi := uint64(s.NextBits(32))
	lo := uint64(s.NextBits(32))
	return hi<<32 | lo
}
