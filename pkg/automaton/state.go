// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

package automaton

import (
	"sort"
	"strconv"
	"strings"

	"github.com/plexgen/plexgen/pkg/charset"
)

// State is an automaton state.  States remember the transitions in
// and out of the state, bucketed by transition priority.
type State struct {
	// Accepting marks an accepting state.
	Accepting bool

	// Code is the start code associated with a lexer start state;
	// empty for ordinary states.
	Code string

	// Name is the state's assigned number in generated output; it is
	// meaningful only after Machine.NameStates.
	Name int

	// id is the creation sequence number, used for stable ordering.
	id int

	transIn  map[int]map[Transition]struct{}
	transOut map[int]map[Transition]struct{}

	// Caches for EpsIn/EpsOut; nil means not computed.
	epsIn  *bool
	epsOut *bool
}

func newState(accepting bool, code string, id int) *State {
	return &State{
		Accepting: accepting,
		Code:      code,
		id:        id,
		transIn:   make(map[int]map[Transition]struct{}),
		transOut:  make(map[int]map[Transition]struct{}),
	}
}

// Reverse swaps the state's transition tables.  This is used as part
// of machine reversal; note that calling this method alone is
// insufficient, as the transitions themselves must also be reversed.
func (st *State) Reverse() {
	st.transIn, st.transOut = st.transOut, st.transIn
	st.epsIn, st.epsOut = st.epsOut, st.epsIn
}

// attach adds a transition out of st, running the transition's merge
// logic against existing same-priority transitions to the same
// destination.  The merge may replace existing transitions rather
// than adding a new one.
func (st *State) attach(trans Transition) {
	next := trans.StateIn()
	prio := trans.Priority()

	if st.transOut[prio] == nil {
		st.transOut[prio] = make(map[Transition]struct{})
	}
	if next.transIn[prio] == nil {
		next.transIn[prio] = make(map[Transition]struct{})
	}

	// Find all similar transitions between st and next.
	var others []Transition
	for t := range st.transOut[prio] {
		if t.StateIn() == next {
			others = append(others, t)
		}
	}

	repl := trans.merge(others)
	if repl == nil {
		st.transOut[prio][trans] = struct{}{}
		next.transIn[prio][trans] = struct{}{}
	} else {
		for _, t := range others {
			delete(st.transOut[prio], t)
			delete(next.transIn[prio], t)
		}
		for _, t := range repl {
			st.transOut[prio][t] = struct{}{}
			next.transIn[prio][t] = struct{}{}
		}
	}

	// Adding transitions invalidates the epsilon caches.
	st.epsOut = nil
	next.epsIn = nil
}

// AddEpsilon adds an epsilon transition from st to next.
func (st *State) AddEpsilon(next *State) {
	st.attach(&Epsilon{baseTrans{out: st, in: next}})
}

// AddMatchChar adds a character-matching transition from st to next.
func (st *State) AddMatchChar(next *State, cset *charset.Set) {
	st.attach(&MatchChar{baseTrans: baseTrans{out: st, in: next}, Set: cset})
}

// AddAction adds an action transition from st to next.
func (st *State) AddAction(next *State, text string, precedence int, name string) {
	st.attach(&Action{
		baseTrans:  baseTrans{out: st, in: next},
		Text:       text,
		Precedence: precedence,
		Name:       name,
	})
}

func listTrans(tab map[int]map[Transition]struct{}, prio int) []Transition {
	prios := []int{prio}
	if prio < 0 {
		prios = prios[:0]
		for p := range tab {
			prios = append(prios, p)
		}
		sort.Ints(prios)
	}

	var out []Transition
	for _, p := range prios {
		bucket := make([]Transition, 0, len(tab[p]))
		for t := range tab[p] {
			bucket = append(bucket, t)
		}
		// The order of same-priority transitions is not semantically
		// meaningful, but keep it deterministic.
		sort.Slice(bucket, func(i, j int) bool {
			return bucket[i].StateIn().id < bucket[j].StateIn().id
		})
		out = append(out, bucket...)
	}
	return out
}

// TransitionsIn returns the transitions into st with the given
// priority, or all transitions ordered by priority if prio is
// negative.
func (st *State) TransitionsIn(prio int) []Transition {
	return listTrans(st.transIn, prio)
}

// TransitionsOut returns the transitions out of st with the given
// priority, or all transitions ordered by priority if prio is
// negative.
func (st *State) TransitionsOut(prio int) []Transition {
	return listTrans(st.transOut, prio)
}

func allEps(tab map[int]map[Transition]struct{}) bool {
	for prio, bucket := range tab {
		// Priority 0 transitions are epsilons, by definition.
		if prio == 0 {
			continue
		}
		if len(bucket) > 0 {
			return false
		}
	}
	return true
}

// EpsIn reports whether all transitions into st are epsilon
// transitions.
func (st *State) EpsIn() bool {
	if st.epsIn == nil {
		val := allEps(st.transIn)
		st.epsIn = &val
	}
	return *st.epsIn
}

// EpsOut reports whether all transitions out of st are epsilon
// transitions.
func (st *State) EpsOut() bool {
	if st.epsOut == nil {
		val := allEps(st.transOut)
		st.epsOut = &val
	}
	return *st.epsOut
}

// stateSet is a set of states, used for epsilon closures during
// subset construction.
type stateSet map[*State]struct{}

// epsClosure computes the set of states reachable from the given
// states through epsilon transitions alone.
func epsClosure(states ...*State) stateSet {
	closure := make(stateSet, len(states))
	work := append([]*State(nil), states...)
	for len(work) > 0 {
		st := work[len(work)-1]
		work = work[:len(work)-1]
		if _, seen := closure[st]; seen {
			continue
		}
		closure[st] = struct{}{}
		for _, trans := range st.TransitionsOut(0) {
			work = append(work, trans.StateIn())
		}
	}
	return closure
}

// key returns a canonical map key for the state set.
func (ss stateSet) key() string {
	ids := make([]int, 0, len(ss))
	for st := range ss {
		ids = append(ids, st.id)
	}
	sort.Ints(ids)

	var ret strings.Builder
	for i, id := range ids {
		if i > 0 {
			ret.WriteByte(',')
		}
		ret.WriteString(strconv.Itoa(id))
	}
	return ret.String()
}

// sorted returns the set's states ordered by creation sequence, for
// deterministic iteration.
func (ss stateSet) sorted() []*State {
	out := make([]*State, 0, len(ss))
	for st := range ss {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (ss stateSet) intersects(other map[*State]struct{}) bool {
	for st := range ss {
		if _, ok := other[st]; ok {
			return true
		}
	}
	return false
}
