// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

package testenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	t.Parallel()
	vars := map[string]string{
		"toxinidir": "/src/proj",
		"envdir":    "/src/proj/.plexenv/py36",
		"empty":     "",
	}

	for name, tc := range map[string]struct {
		in  string
		out string
	}{
		"plain":      {"no substitutions", "no substitutions"},
		"single":     {"-r{toxinidir}/requirements.txt", "-r/src/proj/requirements.txt"},
		"multiple":   {"{toxinidir}:{envdir}", "/src/proj:/src/proj/.plexenv/py36"},
		"empty-var":  {"a{empty}b", "ab"},
		"escaped":    {"{{not-a-var}}", "{not-a-var}"},
		"lone-close": {"a}b", "a}b"},
	} {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			out, err := expand(tc.in, vars)
			require.NoError(t, err)
			assert.Equal(t, tc.out, out)
		})
	}
}

func TestExpandErrors(t *testing.T) {
	t.Parallel()
	vars := map[string]string{"known": "val"}

	_, err := expand("{unknown}", vars)
	assert.Error(t, err)

	_, err = expand("{known", vars)
	assert.Error(t, err)
}

func TestSplitCommand(t *testing.T) {
	t.Parallel()
	for name, tc := range map[string]struct {
		in  string
		out []string
	}{
		"simple":       {"pytest -v tests", []string{"pytest", "-v", "tests"}},
		"empty":        {"", nil},
		"spaces":       {"  a   b  ", []string{"a", "b"}},
		"single-quote": {"sh -c 'echo hi there'", []string{"sh", "-c", "echo hi there"}},
		"double-quote": {`echo "a b" c`, []string{"echo", "a b", "c"}},
		"dquote-esc":   {`echo "a\"b"`, []string{"echo", `a"b`}},
		"backslash":    {`echo a\ b`, []string{"echo", "a b"}},
		"empty-word":   {`echo ''`, []string{"echo", ""}},
		"mixed":        {`a'b c'd`, []string{"ab cd"}},
	} {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			out, err := splitCommand(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.out, out)
		})
	}
}

func TestSplitCommandErrors(t *testing.T) {
	t.Parallel()
	for name, in := range map[string]string{
		"unterminated-single": "echo 'oops",
		"unterminated-double": `echo "oops`,
		"trailing-backslash":  `echo oops\`,
	} {
		in := in
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := splitCommand(in)
			assert.Error(t, err)
		})
	}
}

func TestDefaultBasepython(t *testing.T) {
	t.Parallel()
	for envname, interp := range map[string]string{
		"py27":  "python2.7",
		"py36":  "python3.6",
		"py310": "python3.10",
		"pep8":  "python3",
		"cover": "python3",
		"shell": "python3",
	} {
		assert.Equal(t, interp, defaultBasepython(envname), "env %q", envname)
	}
}

func TestExpandCommandPosargs(t *testing.T) {
	t.Parallel()
	r := &Runner{Posargs: []string{"-k", "two words"}}
	vars := map[string]string{"posargs": "-k two words"}

	argv, err := r.expandCommand("pytest {posargs} tests", vars)
	require.NoError(t, err)
	assert.Equal(t, []string{"pytest", "-k", "two words", "tests"}, argv)

	// A bare {posargs} command with no caller argv expands to nothing.
	empty := &Runner{}
	argv, err = empty.expandCommand("{posargs}", map[string]string{"posargs": ""})
	require.NoError(t, err)
	assert.Empty(t, argv)
}
