// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

package charset_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexgen/plexgen/pkg/charset"
)

func mustRange(t *testing.T, lo, hi rune) *charset.Set {
	t.Helper()
	set, err := charset.NewRange(lo, hi)
	require.NoError(t, err)
	return set
}

func TestNewRange(t *testing.T) {
	t.Parallel()
	type testcase struct {
		lo, hi   rune
		expected []charset.Range
		err      bool
	}
	testcases := map[string]testcase{
		"single":        {'a', 'a', []charset.Range{{'a', 'a'}}, false},
		"range":         {'a', 'z', []charset.Range{{'a', 'z'}}, false},
		"inverted":      {'z', 'a', nil, true},
		"negative":      {-1, 'a', nil, true},
		"past-max":      {'a', charset.MaxChar + 1, nil, true},
		"full":          {charset.MinChar, charset.MaxChar, []charset.Range{{charset.MinChar, charset.MaxChar}}, false},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			set, err := charset.NewRange(tcData.lo, tcData.hi)
			if tcData.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tcData.expected, set.Ranges())
		})
	}
}

func TestAddMergesRanges(t *testing.T) {
	t.Parallel()
	set := charset.New()
	for _, c := range []rune{'c', 'a', 'e', 'b', 'd'} {
		require.NoError(t, set.Add(c))
	}

	assert.Equal(t, []charset.Range{{'a', 'e'}}, set.Ranges())
	assert.Equal(t, int64(5), set.Len())
}

func TestAddContainedIsNoop(t *testing.T) {
	t.Parallel()
	set := mustRange(t, 'a', 'z')
	require.NoError(t, set.Add('m'))

	assert.Equal(t, []charset.Range{{'a', 'z'}}, set.Ranges())
}

func TestAddBounds(t *testing.T) {
	t.Parallel()
	set := charset.New()
	require.NoError(t, set.Add(charset.MinChar))
	require.NoError(t, set.Add(charset.MaxChar))
	assert.Error(t, set.Add(charset.MaxChar+1))
	assert.Error(t, set.Add(-1))

	assert.Equal(t, []charset.Range{
		{charset.MinChar, charset.MinChar},
		{charset.MaxChar, charset.MaxChar},
	}, set.Ranges())
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	type testcase struct {
		discard  rune
		expected []charset.Range
	}
	testcases := map[string]testcase{
		"left":      {'a', []charset.Range{{'b', 'e'}}},
		"right":     {'e', []charset.Range{{'a', 'd'}}},
		"middle":    {'c', []charset.Range{{'a', 'b'}, {'d', 'e'}}},
		"uncontained": {'z', []charset.Range{{'a', 'e'}}},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			set := mustRange(t, 'a', 'e')
			require.NoError(t, set.Discard(tcData.discard))
			assert.Equal(t, tcData.expected, set.Ranges())
		})
	}
}

func TestDiscardWholeRange(t *testing.T) {
	t.Parallel()
	set := mustRange(t, 'a', 'a')
	require.NoError(t, set.Discard('a'))

	assert.Empty(t, set.Ranges())
	assert.Equal(t, int64(0), set.Len())
}

func TestRemoveMissing(t *testing.T) {
	t.Parallel()
	set := mustRange(t, 'a', 'e')

	assert.Error(t, set.Remove('z'))
	assert.NoError(t, set.Remove('c'))
}

func TestPop(t *testing.T) {
	t.Parallel()
	set := mustRange(t, 'a', 'c')

	for _, expected := range []rune{'a', 'b', 'c'} {
		c, err := set.Pop()
		require.NoError(t, err)
		assert.Equal(t, expected, c)
	}
	_, err := set.Pop()
	assert.Error(t, err)
}

func TestContains(t *testing.T) {
	t.Parallel()
	set := charset.NewString("acegikmoqsuwy")

	assert.True(t, set.Contains('a'))
	assert.True(t, set.Contains('m'))
	assert.True(t, set.Contains('y'))
	assert.False(t, set.Contains('b'))
	assert.False(t, set.Contains('z'))
	assert.False(t, set.Contains(0))
}

func TestEach(t *testing.T) {
	t.Parallel()
	set := charset.NewString("abcxyz")

	var got []rune
	set.Each(func(c rune) bool {
		got = append(got, c)
		return true
	})
	assert.Equal(t, []rune("abcxyz"), got)

	got = nil
	set.Each(func(c rune) bool {
		got = append(got, c)
		return len(got) < 2
	})
	assert.Equal(t, []rune("ab"), got)
}

func TestAlgebra(t *testing.T) {
	t.Parallel()
	a := charset.NewString("abcdef")
	b := charset.NewString("defghi")

	assert.Equal(t, "[a-i]", a.Union(b).String())
	assert.Equal(t, "[d-f]", a.Intersect(b).String())
	assert.Equal(t, "[a-c]", a.Difference(b).String())
	assert.Equal(t, "[a-cg-i]", a.SymmetricDifference(b).String())

	// The operands must be unaltered.
	assert.Equal(t, "[a-f]", a.String())
	assert.Equal(t, "[d-i]", b.String())
}

func TestAlgebraInPlace(t *testing.T) {
	t.Parallel()
	type testcase struct {
		op       func(a, b *charset.Set)
		expected string
	}
	testcases := map[string]testcase{
		"union":     {(*charset.Set).UnionWith, "[a-i]"},
		"intersect": {(*charset.Set).IntersectWith, "[d-f]"},
		"difference": {(*charset.Set).DifferenceWith, "[a-c]"},
		"symdiff":   {(*charset.Set).SymmetricDifferenceWith, "[a-cg-i]"},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			a := charset.NewString("abcdef")
			b := charset.NewString("defghi")
			tcData.op(a, b)
			assert.Equal(t, tcData.expected, a.String())
		})
	}
}

func TestAlgebraSelf(t *testing.T) {
	t.Parallel()
	a := charset.NewString("abc")
	same := charset.NewString("abc")

	assert.Equal(t, "[a-c]", a.Union(same).String())
	assert.Equal(t, "[a-c]", a.Intersect(same).String())
	assert.Equal(t, "[]", a.Difference(same).String())
	assert.Equal(t, "[]", a.SymmetricDifference(same).String())
}

func TestInvert(t *testing.T) {
	t.Parallel()
	set := mustRange(t, 'a', 'z')
	inv := set.Invert()

	assert.False(t, inv.Contains('m'))
	assert.True(t, inv.Contains('A'))
	assert.Equal(t, charset.FullLength-26, inv.Len())
	assert.True(t, inv.Invert().Equal(set))
}

func TestSubsets(t *testing.T) {
	t.Parallel()
	inner := charset.NewString("bcd")
	outer := mustRange(t, 'a', 'z')
	split := charset.NewString("bd")

	assert.True(t, inner.SubsetOf(outer))
	assert.True(t, inner.ProperSubsetOf(outer))
	assert.True(t, inner.SubsetOf(inner))
	assert.False(t, inner.ProperSubsetOf(inner))
	assert.False(t, outer.SubsetOf(inner))
	assert.True(t, split.SubsetOf(inner))
	assert.False(t, inner.SubsetOf(split))
}

func TestDisjointWith(t *testing.T) {
	t.Parallel()
	a := charset.NewString("abc")
	b := charset.NewString("xyz")
	c := charset.NewString("cde")

	assert.True(t, a.DisjointWith(b))
	assert.False(t, a.DisjointWith(c))
}

func TestString(t *testing.T) {
	t.Parallel()
	full, err := charset.NewRange(charset.MinChar, charset.MaxChar)
	require.NoError(t, err)
	dot := full.Copy()
	require.NoError(t, dot.Discard('\n'))
	big := full.Copy()
	require.NoError(t, big.Discard('a'))
	require.NoError(t, big.Discard('\n'))

	testcases := map[string]struct {
		set      *charset.Set
		expected string
	}{
		"empty":    {charset.New(), "[]"},
		"full":     {full, "[^]"},
		"dot":      {dot, "."},
		"excluded": {big, "[^\\na]"},
		"single":   {charset.NewString("a"), "[a]"},
		"pair":     {charset.NewString("ab"), "[ab]"},
		"range":    {charset.NewString("abcd"), "[a-d]"},
		"escapes":  {charset.NewString("-^[]\\"), "[\\-\\[-\\^]"},
		"controls": {charset.NewString("\x00\a\b\t\n\v\f\r\x1b"), "[\\0\\a-\\r\\e]"},
		"hex":      {charset.NewString("\x7f"), "[\\x7f]"},
		"unicode":  {charset.NewString("ሴ\U00012345"), "[\\u1234\\U00012345]"},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tcData.expected, tcData.set.String())
		})
	}
}

func TestDecompose(t *testing.T) {
	t.Parallel()
	sets := []*charset.Set{
		mustRange(t, 0, 5),
		mustRange(t, 0, 5),
		mustRange(t, 0, 3),
		mustRange(t, 2, 4),
		mustRange(t, 7, 9),
	}

	parts := charset.Decompose(sets...)

	require.Len(t, parts, 5)
	expected := []struct {
		ranges  []charset.Range
		members []int
	}{
		{[]charset.Range{{0, 1}}, []int{0, 1, 2}},
		{[]charset.Range{{2, 3}}, []int{0, 1, 2, 3}},
		{[]charset.Range{{4, 4}}, []int{0, 1, 3}},
		{[]charset.Range{{5, 5}}, []int{0, 1}},
		{[]charset.Range{{7, 9}}, []int{4}},
	}
	for i, part := range parts {
		assert.Equal(t, expected[i].ranges, part.Set.Ranges(), "part %d", i)
		assert.Equal(t, expected[i].members, part.Members, "part %d", i)
	}
}

func TestDecomposeMultiRange(t *testing.T) {
	t.Parallel()
	a := charset.NewString("ace")
	b := mustRange(t, 'a', 'e')

	parts := charset.Decompose(a, b)

	// Every part must be covered by b; parts covering a must be
	// exactly a's characters.
	var fromA *charset.Set = charset.New()
	var total int64
	for _, part := range parts {
		assert.True(t, part.Set.SubsetOf(b))
		total += part.Set.Len()
		for _, m := range part.Members {
			if m == 0 {
				fromA.UnionWith(part.Set)
			}
		}
	}
	assert.Equal(t, b.Len(), total)
	assert.True(t, fromA.Equal(a))

	// Parts must be pairwise disjoint.
	for i := range parts {
		for j := i + 1; j < len(parts); j++ {
			assert.True(t, parts[i].Set.DisjointWith(parts[j].Set))
		}
	}
}

func TestDecomposeRandomized(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 50; trial++ {
		var sets []*charset.Set
		for i := 0; i < 4; i++ {
			lo := rune(rng.Intn(30))
			hi := lo + rune(rng.Intn(10))
			set, err := charset.NewRange(lo, hi)
			require.NoError(t, err)
			sets = append(sets, set)
		}

		union := charset.New()
		for _, set := range sets {
			union.UnionWith(set)
		}

		parts := charset.Decompose(sets...)

		recombined := charset.New()
		for _, part := range parts {
			require.NotEmpty(t, part.Members)
			for _, m := range part.Members {
				assert.True(t, part.Set.SubsetOf(sets[m]))
			}
			assert.True(t, recombined.DisjointWith(part.Set))
			recombined.UnionWith(part.Set)
		}
		assert.True(t, recombined.Equal(union))
	}
}
