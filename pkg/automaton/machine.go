// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

// Package automaton implements generic finite state automata: states,
// prioritized transitions, Thompson-construction matchers, lexer
// machines with start codes, subset-construction DFA generation, and
// a DFA simulator.
package automaton

import (
	"fmt"
	"sort"
)

// Machine is a generic finite state automaton.  It provides the basic
// state bookkeeping shared by Matcher and Lexer, along with Copy,
// Reverse, and subset-construction DFA generation.
type Machine struct {
	start     *State
	accepting map[*State]struct{}
	states    map[*State]struct{}

	// startCodes indexes start states by start code; nil for
	// machines without start codes (anything but a Lexer).
	startCodes map[string]*State

	// There can be multiple accepting states, but there are places
	// that want a single final state; Final creates one if necessary
	// and caches it here.
	finalCache *State

	nextID int
}

// NewMachine constructs an empty machine with a single,
// non-accepting start state.
func NewMachine() *Machine {
	return newMachine(false, "")
}

func newMachine(accepting bool, code string) *Machine {
	m := &Machine{
		accepting: make(map[*State]struct{}),
		states:    make(map[*State]struct{}),
	}
	m.start = m.newState(accepting, code)
	return m
}

// Start returns the machine's start state.
func (m *Machine) Start() *State {
	return m.start
}

// NumStates returns the number of states in the machine.
func (m *Machine) NumStates() int {
	return len(m.states)
}

// newState constructs a new state belonging to the machine.
func (m *Machine) newState(accepting bool, code string) *State {
	st := newState(accepting, code, m.nextID)
	m.nextID++
	m.states[st] = struct{}{}
	if st.Accepting {
		m.accepting[st] = struct{}{}
		m.finalCache = nil
	}
	return st
}

// Starts returns the machine's start states, ordered by start code.
// Machines without start codes have a single start state.
func (m *Machine) Starts() []*State {
	return m.starts()
}

// starts returns the machine's start states, properly ordered.
func (m *Machine) starts() []*State {
	if m.startCodes == nil {
		return []*State{m.start}
	}

	codes := m.sortedCodes()
	out := make([]*State, 0, len(codes))
	for _, code := range codes {
		out = append(out, m.startCodes[code])
	}
	return out
}

// sortedCodes returns the machine's start codes in sorted order.
func (m *Machine) sortedCodes() []string {
	codes := make([]string, 0, len(m.startCodes))
	for code := range m.startCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// States returns all the states of the machine.  The start states are
// always first, and all accepting states that are not start states
// are last.
func (m *Machine) States() []*State {
	starts := m.starts()
	isStart := make(map[*State]struct{}, len(starts))
	for _, st := range starts {
		isStart[st] = struct{}{}
	}

	var middles, lasts []*State
	for st := range m.states {
		if _, ok := isStart[st]; ok {
			continue
		}
		if _, ok := m.accepting[st]; ok {
			lasts = append(lasts, st)
		} else {
			middles = append(middles, st)
		}
	}
	byID := func(states []*State) {
		sort.Slice(states, func(i, j int) bool { return states[i].id < states[j].id })
	}
	byID(middles)
	byID(lasts)

	out := make([]*State, 0, len(m.states))
	out = append(out, starts...)
	out = append(out, middles...)
	return append(out, lasts...)
}

// NameStates assigns sequential names to the machine's states, in
// States order, for use in generated output.
func (m *Machine) NameStates() {
	for i, st := range m.States() {
		st.Name = i
	}
}

// addStart adds a new start state to the machine, displacing the
// original.  The new start state gets an epsilon transition to the
// original one.
func (m *Machine) addStart() *State {
	st := m.newState(m.start.Accepting, m.start.Code)
	st.AddEpsilon(m.start)

	// Canonicalize the old state.
	m.start.Accepting = false
	m.start.Code = ""
	delete(m.accepting, m.start)

	m.start = st
	return st
}

// unifyAccepting adds a new accepting state with epsilon transitions
// from the current accepting states, which stop being accepting.
func (m *Machine) unifyAccepting() *State {
	// Don't mark it accepting yet; that would add a spurious epsilon
	// transition from the state to itself.
	st := m.newState(false, "")

	for old := range m.accepting {
		old.AddEpsilon(st)
		old.Accepting = false
	}

	st.Accepting = true
	m.accepting = map[*State]struct{}{st: {}}
	m.finalCache = st
	return st
}

// Final returns the machine's single final state, adding one (and
// epsilon transitions to it) if there are currently several accepting
// states.  It returns nil if the machine has no accepting states.
func (m *Machine) Final() *State {
	if m.finalCache == nil {
		switch len(m.accepting) {
		case 0:
			return nil
		case 1:
			for st := range m.accepting {
				m.finalCache = st
			}
		default:
			m.finalCache = m.unifyAccepting()
		}
	}
	return m.finalCache
}

// Copy constructs an independent duplicate of the machine.
func (m *Machine) Copy() *Machine {
	out := NewMachine()

	// Copy over the start state's accepting status and start code.
	out.start.Code = m.start.Code
	if m.start.Accepting {
		out.start.Accepting = true
		out.accepting[out.start] = struct{}{}
	}

	// Map between our states and the new machine's states, creating
	// destination states on demand.
	stateMap := map[*State]*State{m.start: out.start}
	mapped := func(st *State) *State {
		if to, ok := stateMap[st]; ok {
			return to
		}
		to := out.newState(st.Accepting, st.Code)
		stateMap[st] = to
		return to
	}

	// Duplicate all the transitions.  Iterate in creation order so
	// the duplicate's state numbering is deterministic.
	for _, st := range stateSet(m.states).sorted() {
		for _, trans := range st.TransitionsOut(-1) {
			from := mapped(st)
			from.attach(trans.dup(from, mapped(trans.StateIn())))
		}
	}

	if m.startCodes != nil {
		// Iterate in code order; mapped may mint a state for a start
		// state with no transitions.
		out.startCodes = make(map[string]*State, len(m.startCodes))
		for _, code := range m.sortedCodes() {
			out.startCodes[code] = mapped(m.startCodes[code])
		}
	}

	return out
}

// Reverse alters the machine in place to run the match backwards.
// This is used as part of DFA minimization.
func (m *Machine) Reverse() error {
	start := m.start
	final := m.Final() // may unify accepting states
	if final == nil {
		return fmt.Errorf("automaton: cannot reverse a machine with no accepting states")
	}

	// Reverse each state and its transitions.  Each transition lives
	// in exactly one state's outgoing table, so this touches each
	// transition exactly once.
	for st := range m.states {
		for _, trans := range st.TransitionsOut(-1) {
			trans.Reverse()
		}
		st.Reverse()
	}

	// Swap the meaning of the start and final states.  The start
	// state can be the final state as well; then there is nothing to
	// swap.
	if start != final {
		m.start = final
		final.Accepting = false
		start.Accepting = true
		m.accepting = map[*State]struct{}{start: {}}
		m.finalCache = start

		final.Code = start.Code
		start.Code = ""
	}

	return nil
}

// DFA constructs a deterministic finite automaton from the machine: a
// new machine without epsilon transitions or ambiguous match
// transitions.  Start codes, if present, are preserved.
func (m *Machine) DFA() (*Machine, error) {
	out := NewMachine()

	stateMap := make(map[string]*State)
	var workq []stateSet

	// Seed the work queue with the closure of each start state.
	seed := func(oldStart, newStart *State) {
		closure := epsClosure(oldStart)
		if closure.intersects(m.accepting) && !newStart.Accepting {
			newStart.Accepting = true
			out.accepting[newStart] = struct{}{}
		}
		stateMap[closure.key()] = newStart
		workq = append(workq, closure)
	}

	if m.startCodes == nil {
		seed(m.start, out.start)
	} else {
		// Seed in code order so the output's state numbering does not
		// depend on map iteration order.
		out.startCodes = make(map[string]*State, len(m.startCodes))
		for _, code := range m.sortedCodes() {
			oldStart := m.startCodes[code]
			var newStart *State
			if code == m.start.Code {
				newStart = out.start
				newStart.Code = code
			} else {
				newStart = out.newState(false, code)
			}
			out.startCodes[code] = newStart
			seed(oldStart, newStart)
		}
	}

	for len(workq) > 0 {
		closure := workq[len(workq)-1]
		workq = workq[:len(workq)-1]
		from := stateMap[closure.key()]

		// Bucket the outgoing non-epsilon transitions by kind.
		var matchChars []*MatchChar
		var actions []*Action
		for _, substate := range closure.sorted() {
			for _, trans := range substate.TransitionsOut(-1) {
				switch trans := trans.(type) {
				case *Epsilon:
					// Already handled by the closure.
				case *MatchChar:
					matchChars = append(matchChars, trans)
				case *Action:
					actions = append(actions, trans)
				default:
					return nil, fmt.Errorf("automaton: cannot determinize transition %T", trans)
				}
			}
		}

		target := func(group []Transition) *State {
			states := make([]*State, len(group))
			for i, trans := range group {
				states[i] = trans.StateIn()
			}
			targetClosure := epsClosure(states...)

			key := targetClosure.key()
			to, ok := stateMap[key]
			if !ok {
				to = out.newState(targetClosure.intersects(m.accepting), "")
				stateMap[key] = to
				workq = append(workq, targetClosure)
			}
			return to
		}

		// Character transitions: split overlapping character sets
		// into disjoint ones, so each input character selects exactly
		// one transition.
		if len(matchChars) > 0 {
			for _, part := range decomposeMatchChars(matchChars) {
				group := make([]Transition, len(part.trans))
				for i, trans := range part.trans {
					group[i] = trans
				}
				from.AddMatchChar(target(group), part.set)
			}
		}

		// Action transitions are never equivalent; each stands alone.
		for _, trans := range actions {
			from.AddAction(target([]Transition{trans}), trans.Text, trans.Precedence, trans.Name)
		}
	}

	return out, nil
}
