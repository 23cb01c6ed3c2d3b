// Package rng provides the random sources used by the simulation.
package rng

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// Source yields floats in [0, 1).
type Source interface {
	Float64() float64
}

type entropy struct{}

func (entropy) Float64() float64 { return rand.Float64() }

// Default returns a Source backed by the runtime's auto-seeded generator.
func Default() Source {
	return entropy{}
}

// NewSeeded returns a reproducible Source for the given seed.
func NewSeeded(seed int64) Source {
	// Non-cryptographic PRNG is intentional for deterministic simulation behavior.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// Intn returns an int in [0, n). n <= 0 returns 0.
func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Between returns a float in [lo, hi).
func Between(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Pick returns a uniformly chosen element, or the zero value and false for an empty list.
func Pick[T any](src Source, list []T) (T, bool) {
	var zero T
	if len(list) == 0 {
		return zero, false
	}
	return list[Intn(src, len(list))], true
}

// PickMany returns up to count distinct elements in random order.
func PickMany[T any](src Source, list []T, count int) []T {
	if count <= 0 || len(list) == 0 {
		return nil
	}
	pool := make([]T, len(list))
	copy(pool, list)
	for i := len(pool) - 1; i > 0; i-- {
		j := Intn(src, i+1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	if count > len(pool) {
		count = len(pool)
	}
	return pool[:count]
}
