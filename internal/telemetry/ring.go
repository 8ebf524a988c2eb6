// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package telemetry

// DefaultSequenceCap bounds every event sequence unless the collector is
// configured otherwise. With 1000 entries per sequence a pathological
// session costs a few hundred kilobytes at most.
const DefaultSequenceCap = 1000

// ring is a fixed-capacity circular buffer. Appending beyond capacity
// evicts the oldest element, so len ≤ cap always holds and appends are O(1).
type ring[T any] struct {
	buf   []T
	head  int // index of the oldest element
	count int
}

func newRing[T any](capacity int) *ring[T] {
	if capacity <= 0 {
		capacity = DefaultSequenceCap
	}
	return &ring[T]{buf: make([]T, capacity)}
}

// Append adds v, evicting the oldest element when full.
func (r *ring[T]) Append(v T) {
	if r.count < len(r.buf) {
		r.buf[(r.head+r.count)%len(r.buf)] = v
		r.count++
		return
	}
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
}

// Len returns the number of retained elements.
func (r *ring[T]) Len() int { return r.count }

// Items returns the retained elements oldest-first as a fresh slice.
func (r *ring[T]) Items() []T {
	out := make([]T, 0, r.count)
	for i := 0; i < r.count; i++ {
		out = append(out, r.buf[(r.head+i)%len(r.buf)])
	}
	return out
}

// PatchNewest walks elements newest-first, calling match with a mutable
// pointer until match returns true. Reports whether any element matched.
func (r *ring[T]) PatchNewest(match func(*T) bool) bool {
	for i := r.count - 1; i >= 0; i-- {
		if match(&r.buf[(r.head+i)%len(r.buf)]) {
			return true
		}
	}
	return false
}

// Last returns the most recently appended element and whether one exists.
func (r *ring[T]) Last() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}
	return r.buf[(r.head+r.count-1)%len(r.buf)], true
}
