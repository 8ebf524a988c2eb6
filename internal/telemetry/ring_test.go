// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package telemetry

import "testing"

func TestRingBoundedRetention(t *testing.T) {
	const cap = 8
	r := newRing[int](cap)

	for i := 0; i < 3*cap; i++ {
		r.Append(i)
		if r.Len() > cap {
			t.Fatalf("ring grew beyond cap: len=%d cap=%d", r.Len(), cap)
		}
	}

	items := r.Items()
	if len(items) != cap {
		t.Fatalf("expected %d retained items, got %d", cap, len(items))
	}
	// Oldest-first ordering: the survivors are the most recent cap values.
	want := 3*cap - cap
	for i, v := range items {
		if v != want+i {
			t.Fatalf("items[%d] = %d, want %d", i, v, want+i)
		}
	}
}

func TestRingItemsBeforeFull(t *testing.T) {
	r := newRing[string](4)
	r.Append("a")
	r.Append("b")

	items := r.Items()
	if len(items) != 2 || items[0] != "a" || items[1] != "b" {
		t.Fatalf("unexpected items: %v", items)
	}
}

func TestRingLast(t *testing.T) {
	r := newRing[int](2)
	if _, ok := r.Last(); ok {
		t.Fatal("Last on empty ring should report false")
	}
	r.Append(1)
	r.Append(2)
	r.Append(3)
	v, ok := r.Last()
	if !ok || v != 3 {
		t.Fatalf("Last = %d, %v; want 3, true", v, ok)
	}
}

func TestRingPatchNewest(t *testing.T) {
	type rec struct {
		id   int
		done bool
	}
	r := newRing[rec](4)
	r.Append(rec{id: 1})
	r.Append(rec{id: 2})
	r.Append(rec{id: 1})

	// Patches the newest matching element, not the oldest.
	ok := r.PatchNewest(func(x *rec) bool {
		if x.id == 1 && !x.done {
			x.done = true
			return true
		}
		return false
	})
	if !ok {
		t.Fatal("PatchNewest reported no match")
	}

	items := r.Items()
	if items[0].done {
		t.Fatal("oldest matching element was patched; want newest")
	}
	if !items[2].done {
		t.Fatal("newest matching element was not patched")
	}
}
