// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

package automaton

import (
	"fmt"

	"github.com/plexgen/plexgen/pkg/charset"
)

// Unbounded is the Repeat upper bound for open-ended repetition.
const Unbounded = -1

// Matcher is a Machine with string-matching construction behavior:
// the primitives for implementing Thompson's construction.
type Matcher struct {
	*Machine
}

// NewMatcher constructs a Matcher that matches nothing.
func NewMatcher() *Matcher {
	return &Matcher{NewMachine()}
}

// MatchSet constructs a Matcher that matches any single character of
// the given character set.
func MatchSet(cset *charset.Set) *Matcher {
	m := NewMatcher()
	final := m.newState(true, "")
	m.start.AddMatchChar(final, cset)
	return m
}

// MatchRange constructs a Matcher that matches any single character
// of the inclusive range [lo, hi].
func MatchRange(lo, hi rune) (*Matcher, error) {
	cset, err := charset.NewRange(lo, hi)
	if err != nil {
		return nil, err
	}
	return MatchSet(cset), nil
}

// MatchString constructs a Matcher that matches the given string.
// The empty string yields a matcher accepting only the empty input.
func MatchString(str string) *Matcher {
	m := NewMatcher()

	runes := []rune(str)
	if len(runes) == 0 {
		m.start.Accepting = true
		m.accepting[m.start] = struct{}{}
		return m
	}

	last := m.start
	for i, c := range runes {
		st := m.newState(i == len(runes)-1, "")
		cset, _ := charset.NewChar(c)
		last.AddMatchChar(st, cset)
		last = st
	}
	return m
}

// Copy constructs an independent duplicate of the matcher.
func (m *Matcher) Copy() *Matcher {
	return &Matcher{m.Machine.Copy()}
}

// Concat concatenates another matcher onto m.  The other matcher is
// absorbed and should be discarded after this operation.  Returns m
// for chaining.
func (m *Matcher) Concat(other *Matcher) *Matcher {
	// Merge the state sets.
	for st := range other.states {
		st.id += m.nextID
		m.states[st] = struct{}{}
	}
	m.nextID += other.nextID

	// Epsilon from our final state to the other machine's start.
	final := m.Final()
	final.AddEpsilon(other.start)

	// The other machine's accepting states take over.
	final.Accepting = false
	m.accepting = other.accepting
	m.finalCache = nil

	return m
}

// Alternate turns m into a machine matching either what m matched or
// what the other matcher matches.  The other matcher is absorbed and
// should be discarded after this operation.  Returns m for chaining.
func (m *Matcher) Alternate(other *Matcher) *Matcher {
	// Arrange for our start state to have only epsilon transitions
	// out, and our final state only epsilon transitions in.
	if !m.start.EpsOut() {
		m.addStart()
	}
	if !m.Final().EpsIn() {
		m.unifyAccepting()
	}

	// Resolve the other machine's final state before absorbing it, so
	// any unification state it creates gets merged in too.
	otherFinal := other.Final()

	// Merge the state sets.
	for st := range other.states {
		st.id += m.nextID
		m.states[st] = struct{}{}
	}
	m.nextID += other.nextID

	// Epsilon from our start to the other machine's start, and from
	// the other machine's final to ours.
	m.start.AddEpsilon(other.start)
	otherFinal.AddEpsilon(m.Final())
	otherFinal.Accepting = false

	return m
}

// Repeat turns m into a machine matching what m matched, repeated
// between min and max times.  Pass Unbounded for max to allow
// unlimited repetition: (0, Unbounded) is `*`, (1, Unbounded) is `+`,
// and (0, 1) is `?`.  Returns m for chaining.
func (m *Matcher) Repeat(min, max int) (*Matcher, error) {
	if min < 0 {
		return nil, fmt.Errorf("automaton: invalid lower bound %d", min)
	}
	if max != Unbounded && max < min {
		return nil, fmt.Errorf("automaton: invalid upper bound %d", max)
	}

	// Figure out how many copies of the machine we need.
	total := max
	if max == Unbounded {
		total = min
	}
	if total < 1 {
		total = 1
	}

	// Make sure there's a single final state, so that ends up in the
	// copies and doesn't have to be created each time.
	if len(m.accepting) > 1 {
		m.unifyAccepting()
	}

	machs := make([]*Matcher, 0, total)
	machs = append(machs, m)
	for i := 1; i < total; i++ {
		machs = append(machs, m.Copy())
	}

	for i, mach := range machs {
		// The last machine of an open interval repeats.
		if i == len(machs)-1 && max == Unbounded {
			mach.Final().AddEpsilon(mach.start)
		}

		// Machines past the minimum count are optional.
		if i >= min {
			// Add epsilon-only nodes at the beginning and end, if
			// needed, then the epsilon transition that skips the
			// machine.
			start := mach.start
			if !start.EpsOut() {
				start = mach.addStart()
			}
			final := mach.Final()
			if !final.EpsIn() {
				final = mach.unifyAccepting()
			}
			start.AddEpsilon(final)
		}

		if mach != m {
			m.Concat(mach)
		}
	}

	return m, nil
}
