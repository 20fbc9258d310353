package sample

import (
	"errors"
	"sort"

	"randkit-go/pkg/bitrand"
)

// Weighted draws items with probability proportional to their weights. The
// table is immutable after construction; draws only consume the source.
type Weighted[T any] struct {
	items []T
	cum   []uint64 // running totals, cum[i] covers (cum[i-1], cum[i]]
	total uint64
}

// NewWeighted builds a draw table from parallel items and weights. Every
// weight must be positive and the total must fit in a uint64.
func NewWeighted[T any](items []T, weights []uint64) (*Weighted[T], error) {
	if len(items) == 0 {
		return nil, errors.New("sample: no weighted items")
	}
	if len(items) != len(weights) {
		return nil, errors.New("sample: items and weights length mismatch")
	}
	cum := make([]uint64, len(weights))
	var total uint64
	for i, w := range weights {
		if w == 0 {
			return nil, errors.New("sample: weight must be > 0")
		}
		if total+w < total {
			return nil, errors.New("sample: total weight overflows uint64")
		}
		total += w
		cum[i] = total
	}
	cp := make([]T, len(items))
	copy(cp, items)
	return &Weighted[T]{items: cp, cum: cum, total: total}, nil
}

// Pick draws one item: a uniform ticket in [0,total) selects the first
// entry whose cumulative weight exceeds it.
func (w *Weighted[T]) Pick(s bitrand.Source) T {
	r := Uint64N(s, w.total)
	i := sort.Search(len(w.cum), func(i int) bool { return w.cum[i] > r })
	return w.items[i]
}

// Len returns the number of items in the table.
func (w *Weighted[T]) Len() int { return len(w.items) }

// Total returns the sum of all weights.
func (w *Weighted[T]) Total() uint64 { return w.total }
