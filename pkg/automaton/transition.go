// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

package automaton

import (
	"fmt"
	"sort"

	"github.com/plexgen/plexgen/pkg/charset"
)

// EOF is the character passed to Transition.Match at the end of the
// input.
const EOF rune = -1

// Transition priorities.  Some transitions should be checked before
// others; for instance, character transitions should be considered
// before action transitions.  Transitions are checked in priority
// order, from lowest numerical value to highest.  Priority 0 is
// reserved for epsilon transitions.
const (
	PriorityEpsilon   = 0
	PriorityMatchChar = 1
	PriorityAction    = 2
)

// Transition moves from one state of an automaton to another.
type Transition interface {
	// StateOut is the origin state of the transition.
	StateOut() *State

	// StateIn is the destination state of the transition.
	StateIn() *State

	// Priority is the transition's check priority.
	Priority() int

	// Match reports whether the character is matched by this
	// transition, when simulating the automaton.  The character is
	// EOF at the end of the input.  It is the transition's
	// responsibility to call sim.consume if the character is to be
	// consumed.
	Match(c rune, sim *Simulator) (bool, error)

	// Reverse swaps the direction of the transition.  This is used as
	// part of machine reversal; the states must be reversed as well.
	Reverse()

	// merge merges this transition with a set of other transitions
	// between the same two states and of the same priority,
	// producing the smallest possible replacement set.  A nil result
	// means no merge is possible and the transition is simply added.
	merge(others []Transition) []Transition

	// dup copies the transition between new states, for Machine.Copy.
	dup(out, in *State) Transition
}

type baseTrans struct {
	out *State
	in  *State
}

func (t *baseTrans) StateOut() *State { return t.out }
func (t *baseTrans) StateIn() *State  { return t.in }

func (t *baseTrans) Reverse() {
	t.out, t.in = t.in, t.out
}

// Epsilon is the spontaneous transition of a non-deterministic finite
// automaton.
type Epsilon struct {
	baseTrans
}

func (t *Epsilon) Priority() int { return PriorityEpsilon }

func (t *Epsilon) Match(_ rune, _ *Simulator) (bool, error) {
	return false, fmt.Errorf("automaton: cannot simulate a non-deterministic finite automaton")
}

// All epsilon transitions between two states are equivalent; collapse
// to a single one.
func (t *Epsilon) merge(_ []Transition) []Transition {
	return []Transition{t}
}

func (t *Epsilon) dup(out, in *State) Transition {
	return &Epsilon{baseTrans{out: out, in: in}}
}

// MatchChar consumes a character from the input, making the
// transition only if the character is in its character set.
type MatchChar struct {
	baseTrans

	Set *charset.Set
}

func (t *MatchChar) Priority() int { return PriorityMatchChar }

func (t *MatchChar) Match(c rune, sim *Simulator) (bool, error) {
	if c == EOF {
		return false, nil
	}
	if t.Set.Contains(c) {
		sim.consume()
		return true, nil
	}
	return false, nil
}

// Merging character transitions unions their character sets into a
// single transition.
func (t *MatchChar) merge(others []Transition) []Transition {
	for _, other := range others {
		t.Set.UnionWith(other.(*MatchChar).Set)
	}
	return []Transition{t}
}

func (t *MatchChar) dup(out, in *State) Transition {
	return &MatchChar{baseTrans: baseTrans{out: out, in: in}, Set: t.Set.Copy()}
}

// Action fires a lexer action: it matches any character (including
// EOF) without consuming it, emits the pending lexeme, and starts the
// next one.  The precedence decides which action wins when two
// machines match the same text: numerically smaller wins, so keywords
// entered before an identifier rule take priority.  The precedence
// frequently comes from the rule's position in the input lexer
// specification.
type Action struct {
	baseTrans

	Text       string
	Precedence int
	Name       string
}

func (t *Action) Priority() int { return PriorityAction }

func (t *Action) Match(_ rune, sim *Simulator) (bool, error) {
	lexeme := sim.Lexeme()
	sim.startLexeme()

	// Note: the character is *not* consumed.
	return true, sim.action(t.Name, t.Text, lexeme)
}

// Merging action transitions keeps only the one with the smallest
// numerical precedence.
func (t *Action) merge(others []Transition) []Transition {
	all := append([]Transition{t}, others...)
	sort.Slice(all, func(i, j int) bool {
		return all[i].(*Action).Precedence < all[j].(*Action).Precedence
	})
	return all[:1]
}

func (t *Action) dup(out, in *State) Transition {
	return &Action{
		baseTrans:  baseTrans{out: out, in: in},
		Text:       t.Text,
		Precedence: t.Precedence,
		Name:       t.Name,
	}
}
