package bitrand

import (
	mathrand "math/rand"
)

// mathSource adapts a Source to math/rand.Source64 so the stdlib
// distribution helpers (Shuffle, NormFloat64, ...) can run on any generator
// from this module.
type mathSource struct {
	src Source
}

// NewMathRand returns a math/rand.Rand drawing from s. The returned Rand
// adds no locking of its own; it is as safe for concurrent use as s is.
func NewMathRand(s Source) *mathrand.Rand {
	return mathrand.New(&mathSource{src: s})
}

func (m *mathSource) Uint64() uint64 {
	return Uint64(m.src)
}

func (m *mathSource) Int63() int64 {
	return int64(m.Uint64() & (1<<63 - 1))
}

// Seed panics. Sources are keyed once at construction; build a new one
// instead of re-seeding.
func (m *mathSource) Seed(int64) {
	panic("bitrand: adapted sources cannot be re-seeded")
}
