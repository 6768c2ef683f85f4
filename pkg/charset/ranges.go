// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

package charset

import (
	"fmt"
)

// Character range bounds.
const (
	MinChar rune = 0
	MaxChar rune = 0x10FFFF
)

// FullLength is the number of characters in the full character range.
const FullLength = int64(MaxChar-MinChar) + 1

// Range is a contiguous, inclusive range of characters.
type Range struct {
	Lo rune
	Hi rune
}

func checkChars(chars ...rune) error {
	for _, c := range chars {
		if c < MinChar || c > MaxChar {
			return fmt.Errorf("charset: invalid character code %d", c)
		}
	}
	return nil
}

// searchRanges searches a sorted range list for the given character,
// starting the search at index lo.  It returns the index of a range
// containing the character, or the index where such a range could be
// inserted, along with whether the character was found.
//
// Adapted from the usual binary search, with adjustments for the fact
// that the list stores ranges of items rather than the items
// themselves.
func searchRanges(ranges []Range, item rune, lo int) (int, bool) {
	hi := len(ranges)
	for lo < hi {
		mid := (lo + hi) / 2

		switch {
		case ranges[mid].Lo <= item && item <= ranges[mid].Hi:
			return mid, true
		case item < ranges[mid].Lo:
			hi = mid
		default:
			lo = mid + 1
		}
	}

	// Never hit a range containing the item; return the insertion
	// point.
	return lo, false
}

func splice(ranges []Range, lo, hi int, repl ...Range) []Range {
	out := make([]Range, 0, len(ranges)-(hi-lo)+len(repl))
	out = append(out, ranges[:lo]...)
	out = append(out, repl...)
	out = append(out, ranges[hi:]...)
	return out
}

// addRange adds the inclusive range [lo, hi] to a sorted range list,
// merging with adjacent or overlapping ranges as needed.
func addRange(ranges []Range, lo, hi rune) []Range {
	startIdx, startContained := searchRanges(ranges, lo, 0)
	endIdx, endContained := searchRanges(ranges, hi, startIdx)

	// Whole range already contained?
	if startIdx == endIdx && startContained && endContained {
		return ranges
	}

	// Figure out the extent of the replacement range.
	if startContained {
		lo = ranges[startIdx].Lo
	}
	if endContained {
		hi = ranges[endIdx].Hi
		endIdx++
	}

	// Check for merges with neighboring ranges.
	if startIdx > 0 && ranges[startIdx-1].Hi+1 == lo {
		startIdx--
		lo = ranges[startIdx].Lo
	}
	if endIdx < len(ranges) && ranges[endIdx].Lo == hi+1 {
		hi = ranges[endIdx].Hi
		endIdx++
	}

	return splice(ranges, startIdx, endIdx, Range{lo, hi})
}

// discardRange removes the inclusive range [lo, hi] from a sorted
// range list, splitting ranges as needed.
func discardRange(ranges []Range, lo, hi rune) []Range {
	startIdx, startContained := searchRanges(ranges, lo, 0)
	endIdx, endContained := searchRanges(ranges, hi, startIdx)

	// Whole range already excluded?
	if startIdx == endIdx && !startContained && !endContained {
		return ranges
	}

	var repl []Range
	if startContained && ranges[startIdx].Lo != lo {
		repl = append(repl, Range{ranges[startIdx].Lo, lo - 1})
	}
	if endContained {
		if ranges[endIdx].Hi != hi {
			repl = append(repl, Range{hi + 1, ranges[endIdx].Hi})
		}
		endIdx++
	}

	return splice(ranges, startIdx, endIdx, repl...)
}

// invertRanges returns the ranges excluded by a sorted range list.
func invertRanges(ranges []Range) []Range {
	var out []Range
	lo := MinChar
	for _, rng := range ranges {
		if hi := rng.Lo - 1; lo <= hi {
			out = append(out, Range{lo, hi})
		}
		lo = rng.Hi + 1
	}
	if lo <= MaxChar {
		out = append(out, Range{lo, MaxChar})
	}
	return out
}

func unionRanges(ranges1, ranges2 []Range) []Range {
	out := append([]Range(nil), ranges1...)
	for _, rng := range ranges2 {
		out = addRange(out, rng.Lo, rng.Hi)
	}
	return out
}

func differenceRanges(ranges1, ranges2 []Range) []Range {
	out := append([]Range(nil), ranges1...)
	for _, rng := range ranges2 {
		out = discardRange(out, rng.Lo, rng.Hi)
	}
	return out
}

func intersectRanges(ranges1, ranges2 []Range) []Range {
	// A & B == A - ~B
	return differenceRanges(ranges1, invertRanges(ranges2))
}

func symDifferenceRanges(ranges1, ranges2 []Range) []Range {
	// (A - B) | (B - A); computed directly to avoid a double
	// inversion.
	return unionRanges(
		differenceRanges(ranges1, ranges2),
		differenceRanges(ranges2, ranges1),
	)
}

func disjointRanges(ranges1, ranges2 []Range) bool {
	// Arrange for ranges1 to be the longer list.
	if len(ranges1) < len(ranges2) {
		ranges1, ranges2 = ranges2, ranges1
	}

	for _, rng := range ranges2 {
		startIdx, startContained := searchRanges(ranges1, rng.Lo, 0)
		endIdx, endContained := searchRanges(ranges1, rng.Hi, startIdx)

		// Not wholly excluded means not disjoint.
		if startIdx != endIdx || startContained || endContained {
			return false
		}
	}
	return true
}
