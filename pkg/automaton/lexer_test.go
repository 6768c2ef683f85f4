// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

package automaton_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexgen/plexgen/pkg/automaton"
)

func mustRange(t *testing.T, lo, hi rune) *automaton.Matcher {
	t.Helper()
	m, err := automaton.MatchRange(lo, hi)
	require.NoError(t, err)
	return m
}

func mustRepeat(t *testing.T, m *automaton.Matcher, min, max int) *automaton.Matcher {
	t.Helper()
	out, err := m.Repeat(min, max)
	require.NoError(t, err)
	return out
}

// lex determinizes the lexer and runs the input through it, returning
// the fired actions as "NAME:lexeme" strings.
func lex(t *testing.T, l *automaton.Lexer, input string) ([]string, error) {
	t.Helper()
	dfa, err := l.DFA()
	require.NoError(t, err)

	var tokens []string
	err = dfa.Simulate(input, func(name, action, lexeme string) error {
		tokens = append(tokens, name+":"+lexeme)
		return nil
	})
	return tokens, err
}

func newTestLexer(t *testing.T) *automaton.Lexer {
	t.Helper()
	l := automaton.NewLexer()
	l.Action(automaton.MatchString("if"), "emit(IF)", 0,
		automaton.ActionOptions{Name: "IF"})
	l.Action(mustRepeat(t, mustRange(t, 'a', 'z'), 1, automaton.Unbounded),
		"emit(ID)", 1, automaton.ActionOptions{Name: "ID"})
	l.Action(mustRepeat(t, automaton.MatchString(" "), 1, automaton.Unbounded),
		"skip()", 2, automaton.ActionOptions{Name: "WS"})
	return l
}

func TestLexerTokens(t *testing.T) {
	t.Parallel()
	tokens, err := lex(t, newTestLexer(t), "if iffy fi")
	require.NoError(t, err)
	assert.Equal(t, []string{"IF:if", "WS: ", "ID:iffy", "WS: ", "ID:fi"}, tokens)
}

func TestLexerEmptyInput(t *testing.T) {
	t.Parallel()
	tokens, err := lex(t, newTestLexer(t), "")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestLexerKeywordPrecedence(t *testing.T) {
	t.Parallel()

	// The keyword rule has the numerically smaller precedence, so it
	// wins over the identifier rule for the exact keyword text.
	tokens, err := lex(t, newTestLexer(t), "if")
	require.NoError(t, err)
	assert.Equal(t, []string{"IF:if"}, tokens)

	// A longer identifier sharing the keyword prefix still lexes as
	// one identifier token.
	tokens, err = lex(t, newTestLexer(t), "ifs")
	require.NoError(t, err)
	assert.Equal(t, []string{"ID:ifs"}, tokens)
}

func TestLexerUnknownChar(t *testing.T) {
	t.Parallel()
	_, err := lex(t, newTestLexer(t), "if ?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no transition")
}

func TestLexerActionError(t *testing.T) {
	t.Parallel()
	dfa, err := newTestLexer(t).DFA()
	require.NoError(t, err)

	boom := fmt.Errorf("boom")
	err = dfa.Simulate("if", func(name, action, lexeme string) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestLexerNFASimulateFails(t *testing.T) {
	t.Parallel()
	err := newTestLexer(t).Simulate("if", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-deterministic")
}

func TestLexerStartCodes(t *testing.T) {
	t.Parallel()
	strCode := "STRING"
	initial := ""

	l := automaton.NewLexer()
	l.Action(automaton.MatchString(`"`), "begin()", 0,
		automaton.ActionOptions{Name: "QUOTE", ExitCode: &strCode})
	l.Action(mustRepeat(t, mustRange(t, 'a', 'z'), 1, automaton.Unbounded),
		"ident()", 1, automaton.ActionOptions{Name: "ID"})
	l.Action(mustRepeat(t, mustRange(t, 'a', 'z'), 1, automaton.Unbounded),
		"chars()", 2, automaton.ActionOptions{Code: strCode, Name: "CHARS"})
	l.Action(automaton.MatchString(`"`), "end()", 3,
		automaton.ActionOptions{Code: strCode, Name: "ENDQUOTE", ExitCode: &initial})

	assert.Equal(t, []string{"", strCode}, l.StartCodes())

	tokens, err := lex(t, l, `ab"cd"ef`)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"ID:ab",
		`QUOTE:"`,
		"CHARS:cd",
		`ENDQUOTE:"`,
		"ID:ef",
	}, tokens)
}

func TestLexerStartCodesSurviveDFA(t *testing.T) {
	t.Parallel()
	other := "OTHER"
	l := automaton.NewLexer()
	l.Action(automaton.MatchString("x"), "x()", 0,
		automaton.ActionOptions{Name: "X", ExitCode: &other})
	l.Action(automaton.MatchString("y"), "y()", 1,
		automaton.ActionOptions{Code: other, Name: "Y"})

	dfa, err := l.DFA()
	require.NoError(t, err)
	assert.Equal(t, []string{"", other}, dfa.StartCodes())
}
