// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

package automaton

import (
	"github.com/plexgen/plexgen/pkg/charset"
)

// matchCharPart is a group of character transitions restricted to one
// disjoint character set.
type matchCharPart struct {
	set   *charset.Set
	trans []*MatchChar
}

// decomposeMatchChars splits a list of character transitions into
// groups of transitions over disjoint character sets that transition
// between the same states.
func decomposeMatchChars(trans []*MatchChar) []matchCharPart {
	csets := make([]*charset.Set, len(trans))
	for i, t := range trans {
		csets[i] = t.Set
	}

	parts := charset.Decompose(csets...)
	out := make([]matchCharPart, 0, len(parts))
	for _, part := range parts {
		group := make([]*MatchChar, 0, len(part.Members))
		for _, idx := range part.Members {
			group = append(group, trans[idx])
		}
		out = append(out, matchCharPart{set: part.Set, trans: group})
	}
	return out
}
