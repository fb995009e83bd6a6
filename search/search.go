// Package search finds every match of a DFA in an in-memory text.
//
// When the DFA accepts a small finite set of literals, an Aho-Corasick
// automaton over those literals locates candidate positions and the DFA only
// runs where a match can start. Otherwise every position is tried.
package search

import (
	"fmt"

	"github.com/coregx/ahocorasick"

	"github.com/liran-funaro/charfa/cursor"
	"github.com/liran-funaro/charfa/fa"
)

// DefaultLiteralLimit is the largest literal set handed to the prefilter.
const DefaultLiteralLimit = 256

// Option configures a Searcher.
type Option func(*config)

type config struct {
	literalLimit int
}

// WithLiteralLimit changes the largest literal set used for prefiltering.
// Zero disables the prefilter.
func WithLiteralLimit(n int) Option {
	return func(c *config) {
		c.literalLimit = n
	}
}

// Searcher reports the leftmost-longest non-overlapping matches of a DFA.
// It is safe for concurrent use.
type Searcher struct {
	table    fa.DfaTable
	literals []string
	ac       *ahocorasick.Automaton
	maxLen   int // longest literal, in bytes
}

// New prepares a searcher for dfa, which must be deterministic.
func New[S comparable](dfa *fa.FA[S], opts ...Option) (*Searcher, error) {
	cfg := config{literalLimit: DefaultLiteralLimit}
	for _, opt := range opts {
		opt(&cfg)
	}
	table, err := dfa.ToDfaTable(nil)
	if err != nil {
		return nil, fmt.Errorf("encode table: %w", err)
	}
	s := &Searcher{table: table}

	lits, ok := dfa.Literals(cfg.literalLimit)
	if !ok {
		return s, nil
	}
	builder := ahocorasick.NewBuilder()
	for _, lit := range lits {
		builder.AddPattern([]byte(lit))
		s.maxLen = max(s.maxLen, len(lit))
	}
	auto, err := builder.Build()
	if err != nil {
		// The table alone still finds every match.
		return s, nil
	}
	s.ac, s.literals = auto, lits
	return s, nil
}

// Prefiltered reports whether the Aho-Corasick prefilter is in use.
func (s *Searcher) Prefiltered() bool {
	return s.ac != nil
}

// Literals returns the literal set of the prefilter, if any.
func (s *Searcher) Literals() []string {
	return s.literals
}

// Find returns the first match in text, or nil.
func (s *Searcher) Find(text string) *fa.Match {
	var res *fa.Match
	s.scan(text, func(m fa.Match) bool {
		res = &m
		return false
	})
	return res
}

// FindAll returns all successive non-overlapping matches in text.
func (s *Searcher) FindAll(text string) []fa.Match {
	var res []fa.Match
	s.scan(text, func(m fa.Match) bool {
		res = append(res, m)
		return true
	})
	return res
}

// Count returns the number of matches in text.
func (s *Searcher) Count(text string) int {
	n := 0
	s.scan(text, func(fa.Match) bool {
		n++
		return true
	})
	return n
}

func (s *Searcher) scan(text string, yield func(fa.Match) bool) {
	c := cursor.FromString(text)
	data := []byte(text)
	for c.Current() != cursor.EOF {
		if s.ac != nil {
			m := s.ac.Find(data, int(c.ByteOffset()))
			if m == nil {
				return
			}
			// A literal starting before m.Start would end after m.End, no
			// more than maxLen bytes after its own start.
			from := int64(m.End - s.maxLen)
			for c.ByteOffset() < from && c.Current() != cursor.EOF {
				c.Advance()
			}
		}
		c.ClearCapture()
		line, col, pos := c.Line(), c.Column(), c.Position()
		if s.table.Lex(c, -1) < 0 {
			continue
		}
		if !yield(fa.Match{Line: line, Column: col, Position: pos, Value: c.Capture()}) {
			return
		}
	}
}
