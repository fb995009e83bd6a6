package fa

import (
	"github.com/liran-funaro/charfa/cursor"
	"github.com/liran-funaro/charfa/internal/sparse"
)

// Match is a matched span of input.
type Match struct {
	Line     int    // 1-based line of the first character.
	Column   int    // 1-based column of the first character.
	Position int64  // 0-based character offset of the first character.
	Value    string // The matched text.
}

// Token is one lexeme produced by the LexAll family.
type Token[S comparable] struct {
	Symbol   S
	Value    string
	Line     int
	Column   int
	Position int64
}

// longestFunc tries to match at the cursor. On success the cursor is left
// right after the longest match, whose characters were captured. On failure
// the cursor is back where it started.
type longestFunc[S comparable] func(c cursor.Cursor) (S, bool)

// scan finds the next non-empty match at or after the cursor, skipping one
// character after every failed attempt. It returns nil at end of input.
func scan[S comparable](c cursor.Cursor, longest longestFunc[S]) *Match {
	for c.Current() != cursor.EOF {
		c.ClearCapture()
		line, col, pos := c.Line(), c.Column(), c.Position()
		if _, ok := longest(c); ok {
			return &Match{Line: line, Column: col, Position: pos, Value: c.Capture()}
		}
		c.Advance()
	}
	return nil
}

// lex returns the symbol of the longest match at the cursor, or errSym
// after capturing and skipping a single character.
func lex[S comparable](c cursor.Cursor, errSym S, longest longestFunc[S]) S {
	if sym, ok := longest(c); ok {
		return sym
	}
	c.CaptureCurrent()
	c.Advance()
	return errSym
}

func lexAll[S comparable](c cursor.Cursor, errSym S, longest longestFunc[S]) []Token[S] {
	var tokens []Token[S]
	for c.Current() != cursor.EOF {
		c.ClearCapture()
		line, col, pos := c.Line(), c.Column(), c.Position()
		sym := lex(c, errSym, longest)
		tokens = append(tokens, Token[S]{Symbol: sym, Value: c.Capture(), Line: line, Column: col, Position: pos})
	}
	return tokens
}

// Match returns the next match of f at or after the cursor by simulating
// the NFA, or nil when the input is exhausted. The match is the longest one
// starting at the first position where any non-empty match starts.
func (f *FA[S]) Match(c cursor.Cursor) *Match {
	return scan(c, f.nfaLongest())
}

// MatchDfa is Match for a DFA. It follows a single state per character and
// gives wrong results if f is not a DFA.
func (f *FA[S]) MatchDfa(c cursor.Cursor) *Match {
	return scan(c, f.dfaLongest)
}

// Lex reads one token at the cursor using NFA simulation and returns its
// symbol. If no pattern matches, a single character is consumed and errSym
// is returned. The token text accumulates in the cursor's capture buffer,
// which the caller clears between tokens.
func (f *FA[S]) Lex(c cursor.Cursor, errSym S) S {
	return lex(c, errSym, f.nfaLongest())
}

// LexFunc returns Lex with the NFA preprocessing done once, for callers
// that lex token by token. The result must not outlive changes to f.
func (f *FA[S]) LexFunc(errSym S) func(c cursor.Cursor) S {
	longest := f.nfaLongest()
	return func(c cursor.Cursor) S {
		return lex(c, errSym, longest)
	}
}

// LexDfa is Lex for a DFA.
func (f *FA[S]) LexDfa(c cursor.Cursor, errSym S) S {
	return lex(c, errSym, f.dfaLongest)
}

// LexAll lexes the cursor to the end with NFA simulation.
func (f *FA[S]) LexAll(c cursor.Cursor, errSym S) []Token[S] {
	return lexAll(c, errSym, f.nfaLongest())
}

// LexAllDfa lexes the cursor to the end with DFA simulation.
func (f *FA[S]) LexAllDfa(c cursor.Cursor, errSym S) []Token[S] {
	return lexAll(c, errSym, f.dfaLongest)
}

// nfaLongest returns the NFA simulation for f. Accept priority follows the
// closure order, like ToDfa.
func (f *FA[S]) nfaLongest() longestFunc[S] {
	rank := make([]int, len(f.states))
	for i, h := range f.FillClosure() {
		rank[h] = i
	}
	return func(c cursor.Cursor) (S, bool) {
		var best S
		if f.start == NoState {
			return best, false
		}
		begin := c.Mark()
		bestMark, found := begin, false

		active := sparse.New(len(f.states))
		next := sparse.New(len(f.states))
		f.epsilonClosure(active, []Handle{f.start})
		var moved []Handle
		for active.Len() > 0 {
			r := c.Current()
			if r == cursor.EOF {
				break
			}
			moved = moved[:0]
			for _, h := range active.Values() {
				for _, t := range f.states[h].Inputs {
					if t.Range.Contains(r) {
						moved = append(moved, t.To)
					}
				}
			}
			if len(moved) == 0 {
				break
			}
			next.Clear()
			f.epsilonClosure(next, moved)
			active, next = next, active
			c.CaptureCurrent()
			c.Advance()

			bestRank := -1
			for _, h := range active.Values() {
				if s := &f.states[h]; s.Accepting && (bestRank < 0 || rank[h] < bestRank) {
					best, bestRank = s.Symbol, rank[h]
				}
			}
			if bestRank >= 0 {
				bestMark, found = c.Mark(), true
			}
		}
		if !found {
			c.Rewind(begin)
			var zero S
			return zero, false
		}
		c.Rewind(bestMark)
		return best, true
	}
}

func (f *FA[S]) dfaLongest(c cursor.Cursor) (S, bool) {
	var best S
	if f.start == NoState {
		return best, false
	}
	begin := c.Mark()
	bestMark, found := begin, false
	cur := f.start
	for {
		r := c.Current()
		if r == cursor.EOF {
			break
		}
		next := NoState
		for _, t := range f.states[cur].Inputs {
			if t.Range.Contains(r) {
				next = t.To
				break
			}
		}
		if next == NoState {
			break
		}
		c.CaptureCurrent()
		c.Advance()
		cur = next
		if s := &f.states[cur]; s.Accepting {
			best, bestMark, found = s.Symbol, c.Mark(), true
		}
	}
	if !found {
		c.Rewind(begin)
		var zero S
		return zero, false
	}
	c.Rewind(bestMark)
	return best, true
}
