package parser

import (
	"errors"
	"fmt"
	"regexp/syntax"
	"unicode"

	"github.com/liran-funaro/charfa/fa"
)

// ErrUnsupported is returned for regular expression features that have no
// automaton counterpart here: anchors, word boundaries and empty classes.
var ErrUnsupported = errors.New("unsupported regular expression")

var (
	anyChar      = []fa.CharRange{{First: 0, Last: unicode.MaxRune}}
	anyCharNotNL = []fa.CharRange{{First: 0, Last: '\n' - 1}, {First: '\n' + 1, Last: unicode.MaxRune}}
)

// Compile parses pattern with Perl flags and builds an NFA accepting it,
// with symbol on its accept states.
//
// Matching is always leftmost-longest, so non-greedy operators behave like
// their greedy forms. Capture groups only group.
func Compile[S comparable](pattern string, symbol S) (*fa.FA[S], error) {
	r, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", pattern, err)
	}
	nfa, err := build(r, symbol)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", pattern, err)
	}
	return nfa, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile[S comparable](pattern string, symbol S) *fa.FA[S] {
	return fa.Must(Compile(pattern, symbol))
}

func build[S comparable](r *syntax.Regexp, symbol S) (*fa.FA[S], error) {
	switch r.Op {
	case syntax.OpEmptyMatch: // matches empty string
		return fa.Empty(symbol), nil
	case syntax.OpLiteral: // matches Runes sequence
		lit := fa.Literal(string(r.Rune), symbol)
		if r.Flags&syntax.FoldCase != 0 {
			lit = fa.CaseInsensitive(lit, symbol)
		}
		return lit, nil
	case syntax.OpCharClass: // matches Runes interpreted as range pair list
		if len(r.Rune) == 0 {
			return nil, fmt.Errorf("%w: empty character class", ErrUnsupported)
		}
		ranges, err := fa.FromPacked(r.Rune)
		if err != nil {
			return nil, err
		}
		return fa.Set(ranges, symbol), nil
	case syntax.OpAnyCharNotNL: // matches any character except newline
		return fa.Set(anyCharNotNL, symbol), nil
	case syntax.OpAnyChar: // matches any character
		return fa.Set(anyChar, symbol), nil
	case syntax.OpCapture: // capturing subexpression with index Cap, optional name Name
		return build(r.Sub[0], symbol)
	case syntax.OpStar: // matches Sub[0] zero or more times
		return repeat(r.Sub[0], 0, -1, symbol)
	case syntax.OpPlus: // matches Sub[0] one or more times
		return repeat(r.Sub[0], 1, -1, symbol)
	case syntax.OpQuest: // matches Sub[0] zero or one times
		sub, err := build(r.Sub[0], symbol)
		if err != nil {
			return nil, err
		}
		return fa.Optional(sub, symbol), nil
	case syntax.OpRepeat: // matches Sub[0] at least Min times, at most Max (Max == -1 is no limit)
		return repeat(r.Sub[0], r.Min, r.Max, symbol)
	case syntax.OpConcat: // matches concatenation of Subs
		parts, err := buildAll(r.Sub, symbol)
		if err != nil {
			return nil, err
		}
		return fa.Concat(parts, symbol)
	case syntax.OpAlternate: // matches alternation of Subs
		parts, err := buildAll(r.Sub, symbol)
		if err != nil {
			return nil, err
		}
		return fa.Or(parts, symbol)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupported, r.Op)
}

func repeat[S comparable](sub *syntax.Regexp, min, max int, symbol S) (*fa.FA[S], error) {
	part, err := build(sub, symbol)
	if err != nil {
		return nil, err
	}
	return fa.Repeat(part, min, max, symbol)
}

func buildAll[S comparable](subs []*syntax.Regexp, symbol S) ([]*fa.FA[S], error) {
	parts := make([]*fa.FA[S], len(subs))
	for i, s := range subs {
		p, err := build(s, symbol)
		if err != nil {
			return nil, err
		}
		parts[i] = p
	}
	return parts, nil
}
