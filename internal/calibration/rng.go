// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package calibration

// rng is a 64-bit linear congruential generator. Synthetic cases must be
// bit-reproducible across runs and platforms, so the generator is explicit
// and seeded rather than the runtime's.
type rng struct {
	state uint64
}

// Knuth MMIX multiplier and increment.
const (
	lcgMul = 6364136223846793005
	lcgInc = 1442695040888963407
)

func newRNG(seed uint64) *rng {
	return &rng{state: seed}
}

func (r *rng) next() uint64 {
	r.state = r.state*lcgMul + lcgInc
	return r.state
}

// Float64 returns a value in [0,1) using the high 53 bits.
func (r *rng) Float64() float64 {
	return float64(r.next()>>11) / (1 << 53)
}

// Intn returns a value in [0,n).
func (r *rng) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.next() % uint64(n))
}

// Range returns a value in [lo,hi).
func (r *rng) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// IntRange returns a value in [lo,hi).
func (r *rng) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo)
}

// Pick returns one element of choices.
func pick[T any](r *rng, choices []T) T {
	return choices[r.Intn(len(choices))]
}
