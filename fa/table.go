package fa

import (
	"fmt"
	"slices"

	"github.com/liran-funaro/charfa/cursor"
)

// DfaTransitionEntry is a serialized DFA transition.
type DfaTransitionEntry struct {
	PackedRanges []rune `json:"packed_ranges" yaml:"packed_ranges,flow"`
	Destination  int    `json:"destination" yaml:"destination"`
}

// DfaEntry is a serialized DFA state. AcceptSymbolID is -1 for
// non-accepting states.
type DfaEntry struct {
	AcceptSymbolID int                  `json:"accept_symbol_id" yaml:"accept_symbol_id"`
	Transitions    []DfaTransitionEntry `json:"transitions" yaml:"transitions"`
}

// DfaTable is a flat DFA. Entry 0 is the start state.
type DfaTable []DfaEntry

// ToDfaTable serializes the DFA f. Rows follow f.FillClosure(), so the same
// DFA and symbol table always produce the same table.
//
// With a nil symbols table, ids are assigned to accept symbols in order of
// first appearance. Otherwise a symbol's id is its index in symbols, and an
// accept symbol missing from symbols is an error.
func (f *FA[S]) ToDfaTable(symbols []S) (DfaTable, error) {
	if !f.IsDfa() {
		return nil, ErrNotDeterministic
	}
	if symbols == nil {
		symbols = f.Symbols()
	}
	closure := f.FillClosure()
	row := make(map[Handle]int, len(closure))
	for i, h := range closure {
		row[h] = i
	}

	table := make(DfaTable, len(closure))
	for i, h := range closure {
		s := &f.states[h]
		id := -1
		if s.Accepting {
			if id = slices.Index(symbols, s.Symbol); id < 0 {
				return nil, fmt.Errorf("%w: state %d: %v", ErrUnknownSymbol, h, s.Symbol)
			}
		}
		var dests []Handle
		byDest := make(map[Handle][]CharRange)
		for _, t := range s.Inputs {
			if _, ok := byDest[t.To]; !ok {
				dests = append(dests, t.To)
			}
			byDest[t.To] = append(byDest[t.To], t.Range)
		}
		trns := make([]DfaTransitionEntry, len(dests))
		for j, d := range dests {
			trns[j] = DfaTransitionEntry{
				PackedRanges: ToPacked(Normalize(byDest[d])),
				Destination:  row[d],
			}
		}
		table[i] = DfaEntry{AcceptSymbolID: id, Transitions: trns}
	}
	return table, nil
}

// Validate checks that t is a well formed DFA table.
func (t DfaTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no states", ErrInvalidTable)
	}
	for i, e := range t {
		var ranges []CharRange
		for j, trn := range e.Transitions {
			if trn.Destination < 0 || trn.Destination >= len(t) {
				return fmt.Errorf("%w: state %d transition %d: destination %d out of range", ErrInvalidTable, i, j, trn.Destination)
			}
			rs, err := FromPacked(trn.PackedRanges)
			if err != nil {
				return fmt.Errorf("%w: state %d transition %d: %w", ErrInvalidTable, i, j, err)
			}
			for _, r := range rs {
				if r.First > r.Last {
					return fmt.Errorf("%w: state %d transition %d: inverted range %d-%d", ErrInvalidTable, i, j, r.First, r.Last)
				}
			}
			ranges = append(ranges, rs...)
		}
		slices.SortFunc(ranges, compareRanges)
		for k := 1; k < len(ranges); k++ {
			if ranges[k-1].Intersects(ranges[k]) {
				return fmt.Errorf("%w: state %d: overlapping ranges %v and %v", ErrInvalidTable, i, ranges[k-1], ranges[k])
			}
		}
	}
	return nil
}

// Symbol maps an accept symbol id back to its label. ok is false for -1 or
// ids outside symbols.
func Symbol[S any](symbols []S, id int) (sym S, ok bool) {
	if id < 0 || id >= len(symbols) {
		return sym, false
	}
	return symbols[id], true
}

// Match is the table driven version of (*FA).MatchDfa.
func (t DfaTable) Match(c cursor.Cursor) *Match {
	return scan(c, t.longest)
}

// Lex is the table driven version of (*FA).LexDfa. It returns accept symbol
// ids and errID for unmatched characters.
func (t DfaTable) Lex(c cursor.Cursor, errID int) int {
	return lex(c, errID, t.longest)
}

// LexAll lexes the cursor to the end.
func (t DfaTable) LexAll(c cursor.Cursor, errID int) []Token[int] {
	return lexAll(c, errID, t.longest)
}

func (t DfaTable) longest(c cursor.Cursor) (int, bool) {
	if len(t) == 0 {
		return -1, false
	}
	begin := c.Mark()
	bestMark, best := begin, -1
	cur := 0
	for {
		r := c.Current()
		if r == cursor.EOF {
			break
		}
		next := -1
		for _, trn := range t[cur].Transitions {
			if packedContains(trn.PackedRanges, r) {
				next = trn.Destination
				break
			}
		}
		if next < 0 {
			break
		}
		c.CaptureCurrent()
		c.Advance()
		cur = next
		if id := t[cur].AcceptSymbolID; id >= 0 {
			best, bestMark = id, c.Mark()
		}
	}
	if best < 0 {
		c.Rewind(begin)
		return -1, false
	}
	c.Rewind(bestMark)
	return best, true
}
