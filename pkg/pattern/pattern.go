// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

// Package pattern compiles regular-expression style patterns into
// matcher automata.  The supported syntax is the core needed for lexer
// rules: literals, escapes, character classes, `.`, grouping,
// alternation, and the `*`, `+`, `?`, and `{m,n}` repetitions.
package pattern

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/plexgen/plexgen/pkg/automaton"
	"github.com/plexgen/plexgen/pkg/charset"
)

// Parse compiles a pattern into a matcher automaton.
func Parse(expr string) (*automaton.Matcher, error) {
	p := &parser{input: []rune(expr)}

	m, err := p.alternation()
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", expr, err)
	}
	if p.pos < len(p.input) {
		return nil, fmt.Errorf("pattern %q: unexpected %q at offset %d",
			expr, p.input[p.pos], p.pos)
	}
	return m, nil
}

type parser struct {
	input []rune
	pos   int
}

func (p *parser) errf(format string, args ...interface{}) error {
	return fmt.Errorf(format+" at offset %d", append(args, p.pos)...)
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() rune {
	return p.input[p.pos]
}

func (p *parser) next() rune {
	c := p.input[p.pos]
	p.pos++
	return c
}

// alternation := concat ('|' concat)*
func (p *parser) alternation() (*automaton.Matcher, error) {
	m, err := p.concat()
	if err != nil {
		return nil, err
	}
	for !p.eof() && p.peek() == '|' {
		p.next()
		alt, err := p.concat()
		if err != nil {
			return nil, err
		}
		m.Alternate(alt)
	}
	return m, nil
}

// concat := repeated*  (an empty concatenation matches the empty
// string, as in "a|")
func (p *parser) concat() (*automaton.Matcher, error) {
	var m *automaton.Matcher
	for !p.eof() && p.peek() != '|' && p.peek() != ')' {
		next, err := p.repeated()
		if err != nil {
			return nil, err
		}
		if m == nil {
			m = next
		} else {
			m.Concat(next)
		}
	}
	if m == nil {
		m = automaton.MatchString("")
	}
	return m, nil
}

// repeated := atom ('*' | '+' | '?' | bound)*
func (p *parser) repeated() (*automaton.Matcher, error) {
	m, err := p.atom()
	if err != nil {
		return nil, err
	}

	for !p.eof() {
		var min, max int
		switch p.peek() {
		case '*':
			p.next()
			min, max = 0, automaton.Unbounded
		case '+':
			p.next()
			min, max = 1, automaton.Unbounded
		case '?':
			p.next()
			min, max = 0, 1
		case '{':
			min, max, err = p.bound()
			if err != nil {
				return nil, err
			}
		default:
			return m, nil
		}
		if m, err = m.Repeat(min, max); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// bound := '{' num (',' num?)? '}'
func (p *parser) bound() (int, int, error) {
	start := p.pos
	p.next() // consume '{'

	var body strings.Builder
	for !p.eof() && p.peek() != '}' {
		body.WriteRune(p.next())
	}
	if p.eof() {
		p.pos = start
		return 0, 0, p.errf("unterminated repetition bound")
	}
	p.next() // consume '}'

	parseNum := func(str string) (int, error) {
		n, err := strconv.Atoi(str)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid repetition bound %q at offset %d", str, start)
		}
		return n, nil
	}

	parts := strings.SplitN(body.String(), ",", 2)
	min, err := parseNum(parts[0])
	if err != nil {
		return 0, 0, err
	}
	if len(parts) == 1 {
		return min, min, nil
	}

	if parts[1] == "" {
		return min, automaton.Unbounded, nil
	}
	max, err := parseNum(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if max < min {
		return 0, 0, fmt.Errorf("invalid repetition bound {%d,%d} at offset %d", min, max, start)
	}
	return min, max, nil
}

// atom := '(' alternation ')' | class | '.' | escape | literal
func (p *parser) atom() (*automaton.Matcher, error) {
	if p.eof() {
		return nil, p.errf("unexpected end of pattern")
	}

	switch c := p.next(); c {
	case '(':
		m, err := p.alternation()
		if err != nil {
			return nil, err
		}
		if p.eof() || p.peek() != ')' {
			return nil, p.errf("missing closing parenthesis")
		}
		p.next()
		return m, nil

	case '[':
		cset, err := p.class()
		if err != nil {
			return nil, err
		}
		return automaton.MatchSet(cset), nil

	case '.':
		// Any character but a newline.
		cset, err := charset.NewRange(charset.MinChar, charset.MaxChar)
		if err != nil {
			return nil, err
		}
		if err := cset.Discard('\n'); err != nil {
			return nil, err
		}
		return automaton.MatchSet(cset), nil

	case '\\':
		esc, err := p.escape()
		if err != nil {
			return nil, err
		}
		return automaton.MatchString(string(esc)), nil

	case '*', '+', '?', ')', '{', '}':
		p.pos--
		return nil, p.errf("unexpected %q", c)

	default:
		return automaton.MatchString(string(c)), nil
	}
}

// class := '^'? (range | char)+ ']', with the leading '[' already
// consumed.
func (p *parser) class() (*charset.Set, error) {
	cset := charset.New()

	negate := false
	if !p.eof() && p.peek() == '^' {
		p.next()
		negate = true
	}

	first := true
	for {
		if p.eof() {
			return nil, p.errf("unterminated character class")
		}
		if p.peek() == ']' && !first {
			p.next()
			break
		}
		first = false

		lo, err := p.classChar()
		if err != nil {
			return nil, err
		}

		// A '-' followed by anything but ']' makes a range.
		hi := lo
		if !p.eof() && p.peek() == '-' && p.pos+1 < len(p.input) && p.input[p.pos+1] != ']' {
			p.next()
			if hi, err = p.classChar(); err != nil {
				return nil, err
			}
		}

		rng, err := charset.NewRange(lo, hi)
		if err != nil {
			return nil, err
		}
		cset.UnionWith(rng)
	}

	if negate {
		cset = cset.Invert()
	}
	return cset, nil
}

func (p *parser) classChar() (rune, error) {
	if p.eof() {
		return 0, p.errf("unterminated character class")
	}
	c := p.next()
	if c == '\\' {
		return p.escape()
	}
	return c, nil
}

// Substitution escapes, mirroring the escapes the character set
// stringifier produces.
var escapeChars = map[rune]rune{
	'0': 0,
	'a': '\a',
	'b': '\b',
	't': '\t',
	'n': '\n',
	'v': '\v',
	'f': '\f',
	'r': '\r',
	'e': 0x1b,
}

// escape parses the escape sequence after a consumed backslash.
func (p *parser) escape() (rune, error) {
	if p.eof() {
		return 0, p.errf("trailing backslash")
	}

	c := p.next()
	if sub, ok := escapeChars[c]; ok {
		return sub, nil
	}

	var digits int
	switch c {
	case 'x':
		digits = 2
	case 'u':
		digits = 4
	case 'U':
		digits = 8
	default:
		// Escaped metacharacters and ordinary characters stand for
		// themselves.
		return c, nil
	}

	if p.pos+digits > len(p.input) {
		return 0, p.errf("truncated \\%c escape", c)
	}
	val, err := strconv.ParseUint(string(p.input[p.pos:p.pos+digits]), 16, 32)
	if err != nil {
		return 0, p.errf("invalid \\%c escape", c)
	}
	p.pos += digits

	if val > uint64(charset.MaxChar) {
		return 0, p.errf("character \\%c%0*x out of range", c, digits, val)
	}
	return rune(val), nil
}
