package search

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/liran-funaro/charfa/cursor"
	"github.com/liran-funaro/charfa/fa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func literalsDfa(lits ...string) *fa.FA[string] {
	parts := make([]*fa.FA[string], len(lits))
	for i, l := range lits {
		parts[i] = fa.Literal(l, l)
	}
	return fa.Must(fa.ToLexer(parts...)).ToDfa()
}

// matchAll is the reference: the table engine scanning every position.
func matchAll(t *testing.T, dfa *fa.FA[string], text string) []fa.Match {
	table, err := dfa.ToDfaTable(nil)
	require.NoError(t, err)
	var res []fa.Match
	c := cursor.FromString(text)
	for m := table.Match(c); m != nil; m = table.Match(c) {
		res = append(res, *m)
	}
	return res
}

func TestFindAllLiterals(t *testing.T) {
	s, err := New(literalsDfa("foo", "foobar", "bar"))
	require.NoError(t, err)
	require.True(t, s.Prefiltered())
	assert.ElementsMatch(t, []string{"foo", "foobar", "bar"}, s.Literals())

	assert.Equal(t, []fa.Match{
		{Line: 1, Column: 3, Position: 2, Value: "foobar"},
		{Line: 1, Column: 10, Position: 9, Value: "bar"},
		{Line: 2, Column: 1, Position: 13, Value: "foo"},
	}, s.FindAll("xxfoobar bar\nfoo"))
	assert.Equal(t, 3, s.Count("xxfoobar bar\nfoo"))
	assert.Nil(t, s.FindAll("nothing here"))
}

func TestFindLeftmost(t *testing.T) {
	s, err := New(literalsDfa("abcd", "bc"))
	require.NoError(t, err)
	m := s.Find("xabcd")
	require.NotNil(t, m)
	assert.Equal(t, fa.Match{Line: 1, Column: 2, Position: 1, Value: "abcd"}, *m)

	m = s.Find("xabce")
	require.NotNil(t, m)
	assert.Equal(t, "bc", m.Value)
	assert.Equal(t, int64(2), m.Position)

	assert.Nil(t, s.Find("xyz"))
}

func TestFindUnicode(t *testing.T) {
	s, err := New(literalsDfa("€uro", "ß"))
	require.NoError(t, err)
	require.True(t, s.Prefiltered())
	assert.Equal(t, []fa.Match{
		{Line: 1, Column: 3, Position: 2, Value: "€uro"},
		{Line: 1, Column: 8, Position: 7, Value: "ß"},
	}, s.FindAll("é €uro ß"))
}

func TestFallback(t *testing.T) {
	digits := fa.Must(fa.Repeat(fa.SetOf("0123456789", 0), 1, -1, 0)).ToDfa()
	s, err := New(digits)
	require.NoError(t, err)
	assert.False(t, s.Prefiltered())
	assert.Equal(t, []fa.Match{
		{Line: 1, Column: 2, Position: 1, Value: "12"},
		{Line: 1, Column: 5, Position: 4, Value: "3"},
	}, s.FindAll("a12b3"))

	s, err = New(literalsDfa("ab"), WithLiteralLimit(0))
	require.NoError(t, err)
	assert.False(t, s.Prefiltered())
	assert.Len(t, s.FindAll("abab"), 2)
}

func TestNewRequiresDfa(t *testing.T) {
	nfa := fa.Must(fa.Or([]*fa.FA[int]{fa.Literal("a", 0), fa.Literal("b", 0)}, 1))
	_, err := New(nfa)
	assert.ErrorIs(t, err, fa.ErrNotDeterministic)
}

func TestPrefilterAgreesWithScan(t *testing.T) {
	dfa := literalsDfa("ab", "abab", "ba", "bb", "a b")
	s, err := New(dfa)
	require.NoError(t, err)
	require.True(t, s.Prefiltered())

	rnd := rand.New(rand.NewSource(7))
	const alphabet = "ab \n"
	for range 300 {
		var sb strings.Builder
		for range rnd.Intn(20) {
			sb.WriteByte(alphabet[rnd.Intn(len(alphabet))])
		}
		text := sb.String()
		assert.Equal(t, matchAll(t, dfa, text), s.FindAll(text), "%q", text)
	}

	for _, text := range []string{"\xffab\xffab", "\xff\xfe\xfdabab", "a\xffb ba\x80bb"} {
		assert.Equal(t, matchAll(t, dfa, text), s.FindAll(text), "%q", text)
	}
}

func TestFindInvalidUTF8(t *testing.T) {
	text := "\xffab\xffab"
	s, err := New(literalsDfa("ab"))
	require.NoError(t, err)
	require.True(t, s.Prefiltered())
	assert.Equal(t, []fa.Match{
		{Line: 1, Column: 2, Position: 1, Value: "ab"},
		{Line: 1, Column: 5, Position: 4, Value: "ab"},
	}, s.FindAll(text))

	scan, err := New(literalsDfa("ab"), WithLiteralLimit(0))
	require.NoError(t, err)
	assert.Equal(t, scan.Count(text), s.Count(text))
}
