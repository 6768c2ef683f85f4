// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

package testenv

import (
	"fmt"
	"strings"
	"unicode"
)

// expand substitutes `{name}` references in a string.  Unknown names
// are an error; `{{` and `}}` escape literal braces.
func expand(str string, vars map[string]string) (string, error) {
	var out strings.Builder
	for i := 0; i < len(str); i++ {
		switch c := str[i]; c {
		case '{':
			if i+1 < len(str) && str[i+1] == '{' {
				out.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(str[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("unterminated substitution in %q", str)
			}
			name := str[i+1 : i+end]
			val, ok := vars[name]
			if !ok {
				return "", fmt.Errorf("unknown substitution {%s} in %q", name, str)
			}
			out.WriteString(val)
			i += end
		case '}':
			if i+1 < len(str) && str[i+1] == '}' {
				out.WriteByte('}')
				i++
				continue
			}
			out.WriteByte('}')
		default:
			out.WriteByte(c)
		}
	}
	return out.String(), nil
}

// splitCommand splits a command line into words, honoring single and
// double quotes and backslash escapes.
func splitCommand(line string) ([]string, error) {
	var words []string
	var word strings.Builder
	inWord := false

	flush := func() {
		if inWord {
			words = append(words, word.String())
			word.Reset()
			inWord = false
		}
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; {
		case c == '\\':
			if i+1 >= len(runes) {
				return nil, fmt.Errorf("trailing backslash in command %q", line)
			}
			i++
			word.WriteRune(runes[i])
			inWord = true
		case c == '\'' || c == '"':
			quote := c
			i++
			for {
				if i >= len(runes) {
					return nil, fmt.Errorf("unterminated %q quote in command %q", quote, line)
				}
				if runes[i] == quote {
					break
				}
				if quote == '"' && runes[i] == '\\' && i+1 < len(runes) {
					i++
				}
				word.WriteRune(runes[i])
				i++
			}
			inWord = true
		case unicode.IsSpace(c):
			flush()
		default:
			word.WriteRune(c)
			inWord = true
		}
	}
	flush()
	return words, nil
}
