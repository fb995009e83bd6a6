package fa

import (
	"errors"
	"testing"

	"github.com/liran-funaro/charfa/cursor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// accepts reports whether f matches the whole of s, which must not be empty.
func accepts[S comparable](f *FA[S], s string) bool {
	m := f.Match(cursor.FromString(s))
	return m != nil && m.Position == 0 && m.Value == s
}

func acceptsDfa[S comparable](f *FA[S], s string) bool {
	m := f.MatchDfa(cursor.FromString(s))
	return m != nil && m.Position == 0 && m.Value == s
}

func acceptsTable(t DfaTable, s string) bool {
	m := t.Match(cursor.FromString(s))
	return m != nil && m.Position == 0 && m.Value == s
}

func TestLiteral(t *testing.T) {
	f := Literal("abc", "x")
	assert.Equal(t, 4, f.StateCount())
	assert.True(t, f.IsDfa())
	assert.True(t, accepts(f, "abc"))
	assert.False(t, accepts(f, "ab"))
	assert.False(t, accepts(f, "abd"))
	assert.Equal(t, []string{"x"}, f.Symbols())
}

func TestSet(t *testing.T) {
	f := Set([]CharRange{{'a', 'c'}, {'b', 'f'}, Char('x')}, 1)
	for _, s := range []string{"a", "d", "f", "x"} {
		assert.True(t, accepts(f, s), s)
	}
	for _, s := range []string{"g", "w", "ab"} {
		assert.False(t, accepts(f, s), s)
	}
	assert.Len(t, f.State(f.Start()).Inputs, 2)

	g := SetOf("0123456789", 1)
	assert.Equal(t, []Transition{{Range: CharRange{'0', '9'}, To: 1}}, g.State(g.Start()).Inputs)
}

func TestConcatOr(t *testing.T) {
	ab := Literal("ab", "p")
	cd := Literal("cd", "p")

	cat, err := Concat([]*FA[string]{ab, cd, ab}, "cat")
	require.NoError(t, err)
	assert.True(t, accepts(cat, "abcdab"))
	assert.False(t, accepts(cat, "abcd"))
	assert.Equal(t, []string{"cat"}, cat.Symbols())

	alt, err := Or([]*FA[string]{ab, cd}, "or")
	require.NoError(t, err)
	assert.True(t, accepts(alt, "ab"))
	assert.True(t, accepts(alt, "cd"))
	assert.False(t, accepts(alt, "abcd"))
	assert.Len(t, alt.AcceptStates(), 1)
	assert.Equal(t, []string{"or"}, alt.Symbols())

	// Inputs are copied, never linked into.
	assert.Equal(t, 3, ab.StateCount())
	assert.Equal(t, []string{"p"}, ab.Symbols())
	assert.True(t, accepts(ab, "ab"))
}

func TestOptional(t *testing.T) {
	f, err := Concat([]*FA[int]{
		Literal("x", 0),
		Optional(Literal("yz", 0), 0),
		Literal("w", 0),
	}, 1)
	require.NoError(t, err)
	assert.True(t, accepts(f, "xw"))
	assert.True(t, accepts(f, "xyzw"))
	assert.False(t, accepts(f, "xyw"))
}

func TestRepeat(t *testing.T) {
	ab := Literal("ab", "")
	tests := []struct {
		min, max int
		yes, no  []string
	}{
		{0, -1, []string{"ab", "abab", "ababab"}, []string{"a", "aba"}},
		{1, -1, []string{"ab", "ababab"}, []string{"b", "abb"}},
		{2, -1, []string{"abab", "abababab"}, []string{"ab"}},
		{2, 3, []string{"abab", "ababab"}, []string{"ab", "abababab"}},
		{0, 2, []string{"ab", "abab"}, []string{"ababab"}},
		{3, 3, []string{"ababab"}, []string{"abab", "abababab"}},
	}
	for _, tt := range tests {
		f, err := Repeat(ab, tt.min, tt.max, "rep")
		require.NoError(t, err)
		for _, s := range tt.yes {
			assert.True(t, accepts(f, s), "{%d,%d} %q", tt.min, tt.max, s)
			assert.True(t, acceptsDfa(f.ToDfa(), s), "{%d,%d} %q", tt.min, tt.max, s)
		}
		for _, s := range tt.no {
			assert.False(t, accepts(f, s), "{%d,%d} %q", tt.min, tt.max, s)
			assert.False(t, acceptsDfa(f.ToDfa(), s), "{%d,%d} %q", tt.min, tt.max, s)
		}
	}

	f, err := Repeat(ab, 0, 0, "rep")
	require.NoError(t, err)
	assert.Equal(t, 1, f.StateCount())
	assert.True(t, f.State(f.Start()).Accepting)
}

func TestRepeatInvalid(t *testing.T) {
	ab := Literal("ab", "")
	for _, bounds := range [][2]int{{-1, 2}, {3, 2}, {-1, -1}, {1, -2}} {
		f, err := Repeat(ab, bounds[0], bounds[1], "rep")
		assert.Nil(t, f)
		require.ErrorIs(t, err, ErrInvalidRepeat, "%v", bounds)

		var argErr *ArgumentError
		require.True(t, errors.As(err, &argErr))
		assert.Equal(t, "Repeat", argErr.Op)
	}

	_, err := Repeat[string](nil, 1, 2, "rep")
	assert.ErrorIs(t, err, ErrEmptyParts)
}

func TestEmptyParts(t *testing.T) {
	_, err := Concat[string](nil, "x")
	assert.ErrorIs(t, err, ErrEmptyParts)
	_, err = Or([]*FA[string]{}, "x")
	assert.ErrorIs(t, err, ErrEmptyParts)
	_, err = Or([]*FA[string]{Literal("a", "a"), New[string]()}, "x")
	assert.ErrorIs(t, err, ErrEmptyParts)
	_, err = ToLexer[string]()
	assert.ErrorIs(t, err, ErrEmptyParts)

	assert.Panics(t, func() { Must(Concat[string](nil, "x")) })
}

func TestCaseInsensitive(t *testing.T) {
	f := CaseInsensitive(Literal("AB", "x"), "ci")
	for _, s := range []string{"ab", "Ab", "aB", "AB"} {
		assert.True(t, accepts(f, s), s)
	}
	assert.False(t, accepts(f, "ac"))
	assert.Nil(t, f.Match(cursor.FromString("ac")))
	assert.Equal(t, []string{"ci"}, f.Symbols())

	// Digits are left alone.
	g := CaseInsensitive(Set([]CharRange{{'0', '9'}, {'a', 'c'}}, 0), 0)
	assert.Equal(t, []CharRange{{'0', '9'}, {'A', 'C'}, {'a', 'c'}}, rangesOf(g, g.Start()))
}

func rangesOf[S comparable](f *FA[S], h Handle) []CharRange {
	var res []CharRange
	for _, t := range f.State(h).Inputs {
		res = append(res, t.Range)
	}
	return res
}

func TestToLexer(t *testing.T) {
	f, err := ToLexer(Literal("a", "A"), Literal("b", "B"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, f.Symbols())
	assert.Len(t, f.State(f.Start()).Epsilons, 2)
}
