// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

package automaton

import (
	"fmt"
)

// ActionFunc receives a fired lexer action: the action's name (may be
// empty), its action text from the lexer specification, and the lexeme
// that was matched.  Returning an error aborts the simulation.
type ActionFunc func(name, action, lexeme string) error

// Simulator runs input through a deterministic automaton.  Transitions
// drive it: character transitions consume input, action transitions
// emit the pending lexeme.
type Simulator struct {
	input       []rune
	pos         int
	lexemeStart int
	emit        ActionFunc
}

// consume advances the input position past the current character.
func (sim *Simulator) consume() {
	sim.pos++
}

// Lexeme returns the input consumed since the last action fired.
func (sim *Simulator) Lexeme() string {
	return string(sim.input[sim.lexemeStart:sim.pos])
}

// startLexeme begins a new lexeme at the current input position.
func (sim *Simulator) startLexeme() {
	sim.lexemeStart = sim.pos
}

// action reports a fired action to the caller.
func (sim *Simulator) action(name, text, lexeme string) error {
	if sim.emit == nil {
		return nil
	}
	return sim.emit(name, text, lexeme)
}

// Simulate runs the input string through the machine, calling emit for
// each action transition that fires.  The machine must be
// deterministic; simulating a machine with epsilon transitions is an
// error.  Simulation starts at the machine's start state (the empty
// start code, for a lexer) and succeeds once the whole input has been
// consumed and emitted and the machine is in an accepting state.
func (m *Machine) Simulate(input string, emit ActionFunc) error {
	sim := &Simulator{
		input: []rune(input),
		emit:  emit,
	}

	state := m.start
	for {
		atEOF := sim.pos >= len(sim.input)
		if atEOF && state.Accepting {
			// Accept once the pending lexeme is empty or there is no
			// action transition left to flush it.
			if sim.lexemeStart == sim.pos || len(state.TransitionsOut(PriorityAction)) == 0 {
				return nil
			}
		}

		c := EOF
		if !atEOF {
			c = sim.input[sim.pos]
		}

		matched := false
		for _, trans := range state.TransitionsOut(-1) {
			ok, err := trans.Match(c, sim)
			if err != nil {
				return err
			}
			if ok {
				state = trans.StateIn()
				matched = true
				break
			}
		}
		if !matched {
			if atEOF {
				return fmt.Errorf("automaton: unexpected end of input after %q", sim.Lexeme())
			}
			return fmt.Errorf("automaton: no transition for character %q at offset %d", c, sim.pos)
		}
	}
}
