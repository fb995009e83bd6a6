package fa

// Literals enumerates the language of the DFA f when it is a finite set of
// at most limit non-empty strings. ok is false when f is not a DFA, has a
// cycle, accepts the empty string or accepts more than limit strings.
//
// The strings come in depth-first order over the transitions, which is not
// sorted.
func (f *FA[S]) Literals(limit int) (lits []string, ok bool) {
	if f.start == NoState || limit <= 0 || !f.IsDfa() {
		return nil, false
	}
	if f.states[f.start].Accepting {
		return nil, false
	}
	onPath := make([]bool, len(f.states))
	var prefix []rune
	var walk func(h Handle) bool
	walk = func(h Handle) bool {
		if onPath[h] {
			return false
		}
		s := &f.states[h]
		if s.Accepting && len(prefix) > 0 {
			if len(lits) == limit {
				return false
			}
			lits = append(lits, string(prefix))
		}
		onPath[h] = true
		defer func() { onPath[h] = false }()
		for _, t := range s.Inputs {
			if int64(t.Range.Last)-int64(t.Range.First) >= int64(limit) {
				return false
			}
			for r := t.Range.First; r <= t.Range.Last; r++ {
				prefix = append(prefix, r)
				more := walk(t.To)
				prefix = prefix[:len(prefix)-1]
				if !more {
					return false
				}
			}
		}
		return true
	}
	if !walk(f.start) {
		return nil, false
	}
	return lits, len(lits) > 0
}
