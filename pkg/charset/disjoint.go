// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

package charset

import (
	"sort"

	"github.com/plexgen/plexgen/pkg/prioq"
)

// Part is one element of a disjoint decomposition: a single-range
// character set, plus the indices (into the Decompose input) of the
// sets that are supersets of it.
type Part struct {
	Set     *Set
	Members []int
}

// decompItem is a work-queue entry: a range and the indices of the
// input sets it came from.
type decompItem struct {
	rng     Range
	members []int
}

func decompLess(a, b interface{}) bool {
	ra, rb := a.(decompItem).rng, b.(decompItem).rng
	if ra.Lo != rb.Lo {
		return ra.Lo < rb.Lo
	}
	return ra.Hi-ra.Lo < rb.Hi-rb.Lo
}

// Decompose computes the disjoint decomposition of two or more
// character sets.  Given possibly overlapping sets, it produces a
// sequence of non-overlapping (but possibly adjoining) single-range
// sets, each annotated with the input sets that cover it.  Input sets
// may be of any complexity.
//
// The algorithm runs a work queue sorted so that range start points
// ascend, with ties broken by ascending length; for any entry, later
// entries with the same start point are either duplicates or
// supersets.  After popping an item, duplicates are collapsed
// (merging their membership), supersets are set aside, and if an
// overlapping non-superset follows, the working range is clamped to
// end just before it.  The produced range is then cut out of the
// saved supersets (and the remainder of the working range, if any),
// and the pieces go back on the queue.
func Decompose(sets ...*Set) []Part {
	q := prioq.New(decompLess)
	for i, set := range sets {
		for _, rng := range set.ranges {
			q.Push(decompItem{rng: rng, members: []int{i}})
		}
	}

	var parts []Part
	for q.Len() > 0 {
		item := q.Pop().(decompItem)
		members := append([]int(nil), item.members...)

		// Collapse duplicate ranges.
		for q.Len() > 0 && q.Peek().(decompItem).rng == item.rng {
			members = append(members, q.Pop().(decompItem).members...)
		}

		lo := item.rng.Lo
		hi := item.rng.Hi

		// Find all supersets; the sort order guarantees that
		// everything sharing our start point is identical or a
		// superset, and identical entries are gone.
		fullMembers := append([]int(nil), members...)
		var supersets []decompItem
		for q.Len() > 0 {
			top := q.Peek().(decompItem)
			if top.rng.Lo <= lo {
				fullMembers = append(fullMembers, top.members...)
				supersets = append(supersets, q.Pop().(decompItem))
				continue
			}

			// Not a superset; clamp the produced range if it
			// overlaps.
			if top.rng.Lo <= hi {
				hi = top.rng.Lo - 1
			}
			break
		}

		parts = append(parts, Part{
			Set:     fromRanges([]Range{{lo, hi}}),
			Members: dedupInts(fullMembers),
		})

		// Split the supersets past the produced range and requeue
		// them.
		lo = hi + 1
		for _, superset := range supersets {
			q.Push(decompItem{
				rng:     Range{lo, superset.rng.Hi},
				members: superset.members,
			})
		}

		// Requeue the unconsumed portion of the working range, if
		// any.
		if lo <= item.rng.Hi {
			q.Push(decompItem{rng: Range{lo, item.rng.Hi}, members: members})
		}
	}

	return parts
}

func dedupInts(in []int) []int {
	sort.Ints(in)
	out := in[:0]
	for i, n := range in {
		if i == 0 || n != in[i-1] {
			out = append(out, n)
		}
	}
	return out
}
