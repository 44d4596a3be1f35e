// Package rng provides the random source used by pattern selection and the
// wave generator.
package rng

import (
	"math/rand/v2"

	"github.com/spaolacci/murmur3"
)

// Source is the randomness the generator consumes.
type Source interface {
	// Int returns a uniform integer in [min, max]. It returns min when
	// max <= min.
	Int(min, max int) int
	// Shuffle permutes n elements in place through swap.
	Shuffle(n int, swap func(i, j int))
}

// Rand is a Source backed by a PCG generator.
type Rand struct {
	r *rand.Rand
}

// New returns a Rand for seed. Seed 0 draws a random seed.
func New(seed uint64) *Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Rand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// ForMap derives an independent stream per map, so the schedule of one map
// does not depend on which other maps were generated before it.
// Seed 0 keeps every stream random.
func ForMap(seed uint64, mapName string) *Rand {
	if seed == 0 {
		return New(0)
	}
	h := murmur3.Sum64WithSeed([]byte(mapName), uint32(seed^(seed>>32)))
	return New(seed ^ h | 1)
}

func (s *Rand) Int(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.r.IntN(max-min+1)
}

func (s *Rand) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}
