// Package shuffle provides Fisher-Yates randomization for game item lists.
package shuffle

import "math/rand/v2"

// IntN returns a uniform integer in [0, n).
type IntN func(n int) int

// Slice returns a shuffled copy of items. The input is never modified.
func Slice[T any](items []T) []T {
	return SliceWith(items, rand.IntN)
}

// SliceWith shuffles a copy of items using intn as the random source.
func SliceWith[T any](items []T, intn IntN) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
