// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

package automaton_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexgen/plexgen/pkg/automaton"
)

func TestStatesOrder(t *testing.T) {
	t.Parallel()
	m := automaton.MatchString("ab")

	states := m.States()
	require.Len(t, states, 3)
	assert.Same(t, m.Start(), states[0])
	assert.False(t, states[1].Accepting)
	assert.True(t, states[2].Accepting)
}

func TestNameStates(t *testing.T) {
	t.Parallel()
	m := automaton.MatchString("ab")
	m.NameStates()

	for i, st := range m.States() {
		assert.Equal(t, i, st.Name)
	}
}

func TestFinalNone(t *testing.T) {
	t.Parallel()
	m := automaton.NewMachine()
	assert.Nil(t, m.Final())
}

func TestFinalSingle(t *testing.T) {
	t.Parallel()
	m := automaton.MatchString("ab")
	final := m.Final()
	require.NotNil(t, final)
	assert.True(t, final.Accepting)
	assert.Same(t, final, m.Final())
}

func TestReverse(t *testing.T) {
	t.Parallel()
	m := automaton.MatchString("abc")
	require.NoError(t, m.Reverse())

	dfa, err := m.DFA()
	require.NoError(t, err)
	assert.NoError(t, dfa.Simulate("cba", nil))
	assert.Error(t, dfa.Simulate("abc", nil))
}

func TestReverseNoAccepting(t *testing.T) {
	t.Parallel()
	m := automaton.NewMachine()
	assert.Error(t, m.Reverse())
}

func TestReverseTwice(t *testing.T) {
	t.Parallel()
	m := automaton.MatchString("abc")
	require.NoError(t, m.Reverse())
	require.NoError(t, m.Reverse())

	dfa, err := m.DFA()
	require.NoError(t, err)
	assert.NoError(t, dfa.Simulate("abc", nil))
	assert.Error(t, dfa.Simulate("cba", nil))
}

func TestDFARemovesEpsilons(t *testing.T) {
	t.Parallel()
	m := automaton.MatchString("foo").Alternate(automaton.MatchString("for"))

	// The NFA has epsilon transitions and cannot be simulated.
	err := m.Simulate("foo", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-deterministic")

	dfa, err := m.DFA()
	require.NoError(t, err)
	assert.NoError(t, dfa.Simulate("foo", nil))
	assert.NoError(t, dfa.Simulate("for", nil))
}

func TestDFADeterministicConstruction(t *testing.T) {
	t.Parallel()
	build := func() *automaton.Machine {
		m := automaton.MatchString("ab").
			Alternate(automaton.MatchString("ac")).
			Alternate(automaton.MatchString("ad"))
		dfa, err := m.DFA()
		require.NoError(t, err)
		return dfa
	}

	// Subset construction is insertion-ordered, so repeated runs
	// produce the same state count.
	first := build()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first.NumStates(), build().NumStates())
	}
}

func TestSimulateErrors(t *testing.T) {
	t.Parallel()
	dfa, err := automaton.MatchString("ab").DFA()
	require.NoError(t, err)

	err = dfa.Simulate("ax", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no transition")

	err = dfa.Simulate("a", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected end of input")
}
