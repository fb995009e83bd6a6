package fa

import (
	"slices"
	"strconv"
	"strings"
)

// IsNeutral reports whether h is a pass-through state: not accepting, no
// input transitions and exactly one epsilon transition.
func (f *FA[S]) IsNeutral(h Handle) bool {
	s := &f.states[h]
	return !s.Accepting && len(s.Inputs) == 0 && len(s.Epsilons) == 1
}

// FillNeutralStates returns the reachable neutral states in closure order.
func (f *FA[S]) FillNeutralStates() []Handle {
	var res []Handle
	for _, h := range f.FillClosure() {
		if f.IsNeutral(h) {
			res = append(res, h)
		}
	}
	return res
}

// Reduce returns a copy of f with its neutral states spliced out: every
// edge into a neutral state is redirected to the state it forwards to. The
// recognized language is unchanged. Mostly useful to get readable graphs.
func (f *FA[S]) Reduce() *FA[S] {
	c := f.Clone()
	if c.start == NoState {
		return c
	}
	resolve := func(h Handle) Handle {
		cur := h
		var seen []Handle
		for c.IsNeutral(cur) {
			if slices.Contains(seen, cur) {
				// A cycle of neutral states cannot reach anything.
				return h
			}
			seen = append(seen, cur)
			cur = c.states[cur].Epsilons[0]
		}
		return cur
	}

	for i := range c.states {
		s := &c.states[i]
		for j := range s.Inputs {
			s.Inputs[j].To = resolve(s.Inputs[j].To)
		}
		eps := s.Epsilons[:0]
		for _, e := range s.Epsilons {
			e = resolve(e)
			if e == Handle(i) || slices.Contains(eps, e) {
				continue
			}
			eps = append(eps, e)
		}
		s.Epsilons = eps
	}
	c.start = resolve(c.start)
	c.compact()
	return c
}

// TrimDuplicates merges states that have the same acceptance and the same
// transitions, redirecting edges to one representative, until no more
// merges apply. It works in place, compacts the arena and returns the number
// of states removed. The result is not guaranteed to be minimal: states that
// only differ by pointing at each other are kept apart.
func (f *FA[S]) TrimDuplicates() int {
	before := f.StateCount()
	for {
		closure := f.FillClosure()
		replace := make(map[Handle]Handle)
		buckets := make(map[string][]Handle)
		for _, h := range closure {
			key := f.signature(h)
			dup := false
			for _, rep := range buckets[key] {
				if f.states[rep].Symbol == f.states[h].Symbol || !f.states[h].Accepting {
					replace[h] = rep
					dup = true
					break
				}
			}
			if !dup {
				buckets[key] = append(buckets[key], h)
			}
		}
		if len(replace) == 0 {
			break
		}
		for _, h := range closure {
			if _, gone := replace[h]; !gone {
				f.redirect(h, replace)
			}
		}
	}
	f.compact()
	return before - f.StateCount()
}

// redirect points the transitions of h at the representatives in replace
// and regroups the input ranges per destination.
func (f *FA[S]) redirect(h Handle, replace map[Handle]Handle) {
	s := &f.states[h]
	changed := false
	for i, t := range s.Inputs {
		if rep, ok := replace[t.To]; ok {
			s.Inputs[i].To = rep
			changed = true
		}
	}
	eps := s.Epsilons[:0]
	for _, e := range s.Epsilons {
		if rep, ok := replace[e]; ok {
			e = rep
		}
		if !slices.Contains(eps, e) {
			eps = append(eps, e)
		}
	}
	s.Epsilons = eps
	if changed {
		s.Inputs = groupInputs(s.Inputs)
	}
}

// groupInputs merges the ranges of transitions sharing a destination.
// Destinations keep their first-appearance order.
func groupInputs(inputs []Transition) []Transition {
	var dests []Handle
	byDest := make(map[Handle][]CharRange)
	for _, t := range inputs {
		if _, ok := byDest[t.To]; !ok {
			dests = append(dests, t.To)
		}
		byDest[t.To] = append(byDest[t.To], t.Range)
	}
	res := make([]Transition, 0, len(inputs))
	for _, d := range dests {
		for _, r := range Normalize(byDest[d]) {
			res = append(res, Transition{Range: r, To: d})
		}
	}
	return res
}

// signature encodes the acceptance flag and the transition function of h.
// Symbols are compared separately since S need not be printable.
func (f *FA[S]) signature(h Handle) string {
	s := &f.states[h]
	var sb strings.Builder
	if s.Accepting {
		sb.WriteString("A|")
	} else {
		sb.WriteString("-|")
	}
	grouped := groupInputs(s.Inputs)
	slices.SortFunc(grouped, func(a, b Transition) int {
		if a.To != b.To {
			return int(a.To - b.To)
		}
		return compareRanges(a.Range, b.Range)
	})
	for _, t := range grouped {
		sb.WriteString(strconv.Itoa(int(t.To)))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(int(t.Range.First)))
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(int(t.Range.Last)))
		sb.WriteByte(';')
	}
	sb.WriteByte('|')
	eps := slices.Clone(s.Epsilons)
	slices.Sort(eps)
	for _, e := range eps {
		sb.WriteString(strconv.Itoa(int(e)))
		sb.WriteByte(',')
	}
	return sb.String()
}
