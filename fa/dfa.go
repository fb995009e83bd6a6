package fa

import (
	"slices"
	"strconv"
	"strings"
)

// ToDfa converts f to an equivalent DFA by subset construction.
//
// Every DFA state stands for the epsilon closure of a set of NFA states.
// The outgoing ranges of all members are partitioned into disjoint
// sub-ranges; each sub-range leads to the closure of the members' targets on
// it. A DFA state accepts when any member accepts, and takes the symbol of
// the accepting member that comes first in f.FillClosure(), so when two
// patterns of a lexer match the same text the one declared first wins.
//
// The DFA states are tagged with the sorted NFA handles they stand for.
// f is not modified.
func (f *FA[S]) ToDfa() *FA[S] {
	if f.start == NoState {
		return New[S]()
	}
	b := dfaBuilder[S]{
		nfa:   f,
		dfa:   New[S](),
		rank:  make([]int, len(f.states)),
		index: make(map[string]Handle),
	}
	for i, h := range f.FillClosure() {
		b.rank[h] = i
	}

	b.get(f.EpsilonClosure([]Handle{f.start}))
	for pos := 0; pos < len(b.sets); pos++ {
		set := b.sets[pos]
		var ranges []CharRange
		for _, h := range set {
			for _, t := range f.states[h].Inputs {
				ranges = append(ranges, t.Range)
			}
		}
		for _, sub := range Partition(ranges) {
			var moved []Handle
			for _, h := range set {
				for _, t := range f.states[h].Inputs {
					if t.Range.Covers(sub) {
						moved = append(moved, t.To)
					}
				}
			}
			to := b.get(f.EpsilonClosure(moved))
			b.addTransition(Handle(pos), sub, to)
		}
	}
	return b.dfa
}

type dfaBuilder[S comparable] struct {
	nfa   *FA[S]
	dfa   *FA[S]
	rank  []int
	index map[string]Handle
	sets  [][]Handle // NFA set of every DFA state, by DFA handle.
}

// get returns the DFA state for the NFA set, creating and queueing it on
// first sight.
func (b *dfaBuilder[S]) get(set []Handle) Handle {
	set = slices.Clone(set)
	slices.SortFunc(set, func(x, y Handle) int { return b.rank[x] - b.rank[y] })
	key := setKey(set)
	if h, ok := b.index[key]; ok {
		return h
	}

	h := b.dfa.AddState()
	s := b.dfa.State(h)
	s.Tag = set
	for _, m := range set {
		// Sorted by rank, so the first accepting member has priority.
		if ns := &b.nfa.states[m]; ns.Accepting {
			s.Accepting = true
			s.Symbol = ns.Symbol
			break
		}
	}
	b.index[key] = h
	b.sets = append(b.sets, set)
	return h
}

// addTransition appends r -> to, merging it into the previous transition
// when that one ends right before r and goes to the same state.
func (b *dfaBuilder[S]) addTransition(from Handle, r CharRange, to Handle) {
	s := b.dfa.State(from)
	if n := len(s.Inputs); n > 0 {
		last := &s.Inputs[n-1]
		if last.To == to && int64(last.Range.Last)+1 == int64(r.First) {
			last.Range.Last = r.Last
			return
		}
	}
	s.Inputs = append(s.Inputs, Transition{Range: r, To: to})
}

func setKey(set []Handle) string {
	var sb strings.Builder
	buf := make([]byte, 0, 8)
	for _, h := range set {
		buf = strconv.AppendInt(buf[:0], int64(h), 36)
		sb.Write(buf)
		sb.WriteByte(',')
	}
	return sb.String()
}
