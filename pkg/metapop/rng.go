package metapop

import (
	"math/rand"
	"sync"
)

// RNG is the engine's pseudo-random source. It is carried explicitly at
// construction (never a package-global) so runs are reproducible and
// parallel callers can be handed independent substreams instead of
// sharing a single global pseudo-state.
type RNG struct {
	mu  sync.Mutex
	src *rand.Rand
}

// NewRNG seeds a new RNG.
func NewRNG(seed int64) *RNG {
	return &RNG{src: rand.New(rand.NewSource(seed))}
}

// Float64 returns a pseudo-random float64 in [0,1).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}

// Intn returns a pseudo-random int in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(n)
}

// Sub returns an independent substream RNG, seeded deterministically from
// this RNG's current state. Use one substream per parallel worker so
// concurrent draws never contend on the same source.
func (r *RNG) Sub() *RNG {
	r.mu.Lock()
	seed := r.src.Int63()
	r.mu.Unlock()
	return NewRNG(seed)
}
