// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

package charset

import (
	"fmt"
	"strings"
)

// ASCII graphical character bounds for display quoting.
const (
	minGraph = rune(' ')
	maxGraph = rune('~')
)

// Characters that need escaping inside a displayed set.
const escaped = `[]\-^`

// Single-character escape substitutions.
var substitute = map[rune]string{
	0:  `\0`,
	7:  `\a`,
	8:  `\b`,
	9:  `\t`,
	10: `\n`,
	11: `\v`,
	12: `\f`,
	13: `\r`,
	27: `\e`,
}

// quoteChar quotes a single character for display.
func quoteChar(c rune) string {
	switch {
	case minGraph <= c && c <= maxGraph:
		if strings.ContainsRune(escaped, c) {
			return `\` + string(c)
		}
		return string(c)
	case substitute[c] != "":
		return substitute[c]
	case c <= 0xff:
		return fmt.Sprintf(`\x%02x`, c)
	case c <= 0xffff:
		return fmt.Sprintf(`\u%04x`, c)
	default:
		return fmt.Sprintf(`\U%08x`, c)
	}
}

// String returns the display form of a range: a single character, two
// adjacent characters, or a lo-hi pair.
func (r Range) String() string {
	switch {
	case r.Lo == r.Hi:
		return quoteChar(r.Lo)
	case r.Lo == r.Hi-1:
		return quoteChar(r.Lo) + quoteChar(r.Hi)
	default:
		return quoteChar(r.Lo) + "-" + quoteChar(r.Hi)
	}
}

// String returns a regular-expression-style representation of the
// character set.
func (s *Set) String() string {
	length := s.Len()

	// The simple cases first.
	switch {
	case length == 0:
		return "[]"
	case length == FullLength:
		return "[^]"
	case length == FullLength-1 && !s.Contains('\n'):
		return "."
	}

	// Choose between inclusion and exclusion syntax based on which
	// is shorter.
	pfx := ""
	ranges := s.ranges
	if length > FullLength/2 {
		pfx = "^"
		ranges = invertRanges(s.ranges)
	}

	var ret strings.Builder
	ret.WriteString("[")
	ret.WriteString(pfx)
	for _, rng := range ranges {
		ret.WriteString(rng.String())
	}
	ret.WriteString("]")
	return ret.String()
}
