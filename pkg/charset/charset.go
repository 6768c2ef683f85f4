// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

// Package charset implements sets of characters.  Unlike a general
// set type, a Set stores compact, sorted ranges of characters, so
// large sets ("every character but newline") stay cheap.  The
// Decompose function splits several potentially overlapping sets into
// disjoint (but possibly adjoining) sets, which is what subset
// construction needs when turning an NFA into a DFA.
package charset

import (
	"fmt"
)

// Set is a mutable set of characters, stored as sorted, coalesced
// ranges.  The zero value (and New()) is an empty set.
type Set struct {
	ranges []Range

	// Cached cardinality; negative means not computed.
	lenCache int64
}

// New returns an empty character set.
func New() *Set {
	return &Set{lenCache: -1}
}

// NewRange returns a set containing the inclusive character range
// [lo, hi].
func NewRange(lo, hi rune) (*Set, error) {
	if err := checkChars(lo, hi); err != nil {
		return nil, err
	}
	if lo > hi {
		return nil, fmt.Errorf("charset: invalid range %q-%q", lo, hi)
	}
	return &Set{ranges: []Range{{lo, hi}}, lenCache: -1}, nil
}

// NewChar returns a set containing the single character c.
func NewChar(c rune) (*Set, error) {
	return NewRange(c, c)
}

// NewString returns a set containing every character of s.
func NewString(s string) *Set {
	set := New()
	for _, c := range s {
		set.ranges = addRange(set.ranges, c, c)
	}
	return set
}

func fromRanges(ranges []Range) *Set {
	return &Set{ranges: ranges, lenCache: -1}
}

// Copy returns an independent copy of the set.
func (s *Set) Copy() *Set {
	return &Set{
		ranges:   append([]Range(nil), s.ranges...),
		lenCache: s.lenCache,
	}
}

// Ranges returns a copy of the set's ranges, sorted ascending.
func (s *Set) Ranges() []Range {
	return append([]Range(nil), s.ranges...)
}

// Contains reports whether the set contains the character c.
func (s *Set) Contains(c rune) bool {
	_, contained := searchRanges(s.ranges, c, 0)
	return contained
}

// Len returns the number of characters in the set.
func (s *Set) Len() int64 {
	if s.lenCache < 0 {
		var total int64
		for _, rng := range s.ranges {
			total += int64(rng.Hi-rng.Lo) + 1
		}
		s.lenCache = total
	}
	return s.lenCache
}

// Each calls fn for every character in the set, in ascending order,
// until fn returns false.
func (s *Set) Each(fn func(c rune) bool) {
	for _, rng := range s.ranges {
		for c := rng.Lo; c <= rng.Hi; c++ {
			if !fn(c) {
				return
			}
		}
	}
}

// Add adds the character c to the set.
func (s *Set) Add(c rune) error {
	if err := checkChars(c); err != nil {
		return err
	}

	if _, contained := searchRanges(s.ranges, c, 0); contained {
		return nil
	}

	s.lenCache = -1
	s.ranges = addRange(s.ranges, c, c)
	return nil
}

// Discard removes the character c from the set; removing a character
// that is not present is not an error.
func (s *Set) Discard(c rune) error {
	if err := checkChars(c); err != nil {
		return err
	}

	if _, contained := searchRanges(s.ranges, c, 0); !contained {
		return nil
	}

	s.lenCache = -1
	s.ranges = discardRange(s.ranges, c, c)
	return nil
}

// Remove removes the character c from the set; unlike Discard, it is
// an error if the character is not present.
func (s *Set) Remove(c rune) error {
	if err := checkChars(c); err != nil {
		return err
	}

	if _, contained := searchRanges(s.ranges, c, 0); !contained {
		return fmt.Errorf("charset: character %q not in set", c)
	}

	s.lenCache = -1
	s.ranges = discardRange(s.ranges, c, c)
	return nil
}

// Pop removes and returns the lowest character in the set.
func (s *Set) Pop() (rune, error) {
	if len(s.ranges) == 0 {
		return 0, fmt.Errorf("charset: pop from an empty set")
	}

	c := s.ranges[0].Lo
	s.lenCache = -1
	s.ranges = discardRange(s.ranges, c, c)
	return c, nil
}

// Clear empties the set.
func (s *Set) Clear() {
	s.ranges = nil
	s.lenCache = -1
}

// Equal reports whether two sets contain exactly the same characters.
func (s *Set) Equal(other *Set) bool {
	if len(s.ranges) != len(other.ranges) {
		return false
	}
	for i, rng := range s.ranges {
		if rng != other.ranges[i] {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every character of s is in other.
func (s *Set) SubsetOf(other *Set) bool {
	idx := 0
	for _, rng := range s.ranges {
		var contained bool
		idx, contained = searchRanges(other.ranges, rng.Lo, idx)
		if !contained || rng.Hi > other.ranges[idx].Hi {
			return false
		}
	}
	return true
}

// ProperSubsetOf reports whether s is a subset of other and the two
// sets are not equal.
func (s *Set) ProperSubsetOf(other *Set) bool {
	return !s.Equal(other) && s.SubsetOf(other)
}

// DisjointWith reports whether s and other have no characters in
// common.
func (s *Set) DisjointWith(other *Set) bool {
	return disjointRanges(s.ranges, other.ranges)
}

// Invert returns a new set containing exactly the characters s
// excludes.
func (s *Set) Invert() *Set {
	return fromRanges(invertRanges(s.ranges))
}

// Union returns a new set containing the characters of either s or
// other.
func (s *Set) Union(other *Set) *Set {
	if s.Equal(other) {
		return s.Copy()
	}
	return fromRanges(unionRanges(s.ranges, other.ranges))
}

// Intersect returns a new set containing the characters present in
// both s and other.
func (s *Set) Intersect(other *Set) *Set {
	if s.Equal(other) {
		return s.Copy()
	}
	return fromRanges(intersectRanges(s.ranges, other.ranges))
}

// Difference returns a new set containing the characters of s that
// are not in other.
func (s *Set) Difference(other *Set) *Set {
	if s.Equal(other) {
		return New()
	}
	return fromRanges(differenceRanges(s.ranges, other.ranges))
}

// SymmetricDifference returns a new set containing the characters in
// exactly one of s and other.
func (s *Set) SymmetricDifference(other *Set) *Set {
	if s.Equal(other) {
		return New()
	}
	return fromRanges(symDifferenceRanges(s.ranges, other.ranges))
}

// UnionWith updates s in place to the union of s and other.
func (s *Set) UnionWith(other *Set) {
	if !s.Equal(other) {
		s.ranges = unionRanges(s.ranges, other.ranges)
		s.lenCache = -1
	}
}

// IntersectWith updates s in place to the intersection of s and
// other.
func (s *Set) IntersectWith(other *Set) {
	if !s.Equal(other) {
		s.ranges = intersectRanges(s.ranges, other.ranges)
		s.lenCache = -1
	}
}

// DifferenceWith updates s in place to the difference of s and other.
func (s *Set) DifferenceWith(other *Set) {
	if s.Equal(other) {
		s.ranges = nil
	} else {
		s.ranges = differenceRanges(s.ranges, other.ranges)
	}
	s.lenCache = -1
}

// SymmetricDifferenceWith updates s in place to the symmetric
// difference of s and other.
func (s *Set) SymmetricDifferenceWith(other *Set) {
	if s.Equal(other) {
		s.ranges = nil
	} else {
		s.ranges = symDifferenceRanges(s.ranges, other.ranges)
	}
	s.lenCache = -1
}
