// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

package lexspec

import (
	"fmt"
	"io"
	"strings"

	"github.com/plexgen/plexgen/pkg/automaton"
)

func transLabel(trans automaton.Transition) string {
	switch trans := trans.(type) {
	case *automaton.Epsilon:
		return "eps"
	case *automaton.MatchChar:
		return trans.Set.String()
	case *automaton.Action:
		label := "action"
		if trans.Name != "" {
			label += " " + trans.Name
		}
		if trans.Text != "" {
			label += " {" + trans.Text + "}"
		}
		return fmt.Sprintf("%s prec %d", label, trans.Precedence)
	default:
		return fmt.Sprintf("%T", trans)
	}
}

func stateNotes(st *automaton.State, starts map[*automaton.State]string) string {
	var notes []string
	if code, ok := starts[st]; ok {
		notes = append(notes, fmt.Sprintf("start %q", code))
	}
	if st.Accepting {
		notes = append(notes, "accepting")
	}
	if len(notes) == 0 {
		return ""
	}
	return " (" + strings.Join(notes, "; ") + ")"
}

func startCodes(mach *automaton.Machine) map[*automaton.State]string {
	starts := make(map[*automaton.State]string)
	for _, st := range mach.Starts() {
		starts[st] = st.Code
	}
	return starts
}

// WriteListing writes a human-readable listing of the machine: one
// block per state, one line per transition.
func WriteListing(w io.Writer, name string, mach *automaton.Machine) error {
	mach.NameStates()
	starts := startCodes(mach)

	if name == "" {
		name = "lexer"
	}
	if _, err := fmt.Fprintf(w, "%s: %d states\n", name, mach.NumStates()); err != nil {
		return err
	}

	for _, st := range mach.States() {
		if _, err := fmt.Fprintf(w, "state %d%s:\n", st.Name, stateNotes(st, starts)); err != nil {
			return err
		}
		for _, trans := range st.TransitionsOut(-1) {
			_, err := fmt.Fprintf(w, "\t%s -> state %d\n", transLabel(trans), trans.StateIn().Name)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func dotQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}

// WriteDOT writes the machine as a Graphviz digraph.
func WriteDOT(w io.Writer, name string, mach *automaton.Machine) error {
	mach.NameStates()
	starts := startCodes(mach)

	if name == "" {
		name = "lexer"
	}
	if _, err := fmt.Fprintf(w, "digraph %s {\n\trankdir=LR;\n", dotQuote(name)); err != nil {
		return err
	}

	for _, st := range mach.States() {
		shape := "circle"
		if st.Accepting {
			shape = "doublecircle"
		}
		label := fmt.Sprintf("%d", st.Name)
		if code, ok := starts[st]; ok && code != "" {
			label += "\n" + code
		}
		_, err := fmt.Fprintf(w, "\ts%d [shape=%s, label=%s];\n", st.Name, shape, dotQuote(label))
		if err != nil {
			return err
		}
	}

	for _, st := range mach.States() {
		for _, trans := range st.TransitionsOut(-1) {
			_, err := fmt.Fprintf(w, "\ts%d -> s%d [label=%s];\n",
				st.Name, trans.StateIn().Name, dotQuote(transLabel(trans)))
			if err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}
