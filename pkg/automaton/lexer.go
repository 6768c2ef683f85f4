// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

package automaton

// Lexer is a Machine with lexer-like behavior: every start state is
// an accepting state (the lexer idles between lexemes), start states
// are indexed by start code, and matchers are wired in with Action
// transitions back to a start state.
type Lexer struct {
	*Machine
}

// NewLexer constructs an empty lexer with an accepting start state
// for the default (empty) start code.
func NewLexer() *Lexer {
	l := &Lexer{newMachine(true, "")}
	l.startCodes = map[string]*State{"": l.start}
	return l
}

// startByCode returns the start state for the given start code,
// creating it if necessary.
func (l *Lexer) startByCode(code string) *State {
	st, ok := l.startCodes[code]
	if !ok {
		st = l.newState(true, code)
		l.startCodes[code] = st
	}
	return st
}

// StartCodes returns the lexer's start codes, sorted.
func (l *Lexer) StartCodes() []string {
	codes := make([]string, 0, len(l.startCodes))
	for _, st := range l.starts() {
		codes = append(codes, st.Code)
	}
	return codes
}

// ActionOptions are the optional arguments to Action.
type ActionOptions struct {
	// Code is the start code the rule belongs to; the default is the
	// empty start code.
	Code string

	// ExitCode, if non-nil, is the start code to switch to after the
	// action fires; the default is to stay in Code.
	ExitCode *string

	// Name is an optional short name for the action, for diagnostics
	// and generated output.
	Name string
}

// Action wires a matcher into the lexer: when the matcher accepts,
// the given action fires and the lexer returns to a start state.  The
// matcher is absorbed and should be discarded after this operation.
// Smaller precedence values win when two rules match the same text.
// Returns the lexer for chaining.
func (l *Lexer) Action(mach *Matcher, action string, precedence int, opts ActionOptions) *Lexer {
	// Resolve the matcher's final state before absorbing it, so any
	// unification state it creates gets merged in too.
	machFinal := mach.Final()

	// Absorb the matcher's states.
	for st := range mach.states {
		st.id += l.nextID
		l.states[st] = struct{}{}
	}
	l.nextID += mach.nextID

	// Pick the start states to enter from and exit to.
	start := l.startByCode(opts.Code)
	exit := start
	if opts.ExitCode != nil {
		exit = l.startByCode(*opts.ExitCode)
	}

	// Epsilon in from the start state, action transition out of the
	// matcher's final state back to the exit state.
	start.AddEpsilon(mach.start)
	machFinal.AddAction(exit, action, precedence, opts.Name)
	machFinal.Accepting = false

	return l
}

// DFA constructs a deterministic lexer from the (generally
// non-deterministic) lexer.
func (l *Lexer) DFA() (*Lexer, error) {
	mach, err := l.Machine.DFA()
	if err != nil {
		return nil, err
	}
	return &Lexer{mach}, nil
}
