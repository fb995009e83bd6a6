package fa

import (
	"fmt"
)

// Must returns fa and panics if err is not nil. It simplifies the
// initialization of package level automata, like regexp.MustCompile.
func Must[S comparable](fa *FA[S], err error) *FA[S] {
	if err != nil {
		panic(err)
	}
	return fa
}

// Empty returns an automaton matching only the empty string.
func Empty[S comparable](symbol S) *FA[S] {
	f := New[S]()
	f.AddAccept(symbol)
	return f
}

// Literal returns an automaton matching exactly text.
func Literal[S comparable](text string, symbol S) *FA[S] {
	f := New[S]()
	cur := f.AddState()
	for _, r := range text {
		n := f.AddState()
		f.AddInput(cur, Char(r), n)
		cur = n
	}
	f.states[cur].Accepting = true
	f.states[cur].Symbol = symbol
	return f
}

// Set returns an automaton matching any single code point in ranges.
func Set[S comparable](ranges []CharRange, symbol S) *FA[S] {
	f := New[S]()
	start := f.AddState()
	accept := f.AddAccept(symbol)
	for _, r := range Normalize(ranges) {
		f.AddInput(start, r, accept)
	}
	return f
}

// SetOf returns an automaton matching any single rune of chars.
func SetOf[S comparable](chars string, symbol S) *FA[S] {
	return Set(RangesOf(chars), symbol)
}

// Concat returns an automaton matching the parts in sequence. Only the
// accept states of the last part remain accepting, with symbol.
func Concat[S comparable](parts []*FA[S], symbol S) (*FA[S], error) {
	if err := checkParts("Concat", parts); err != nil {
		return nil, err
	}
	f := New[S]()
	var ends []Handle
	for i, p := range parts {
		start, accepts := f.embed(p)
		if i > 0 {
			f.linkTo(ends, start)
		}
		ends = accepts
	}
	for _, h := range ends {
		f.states[h].Accepting = true
		f.states[h].Symbol = symbol
	}
	return f, nil
}

// Or returns an automaton matching any of the parts. A new start state
// epsilon-links to every part, and every part's accept states epsilon-link
// to a single new accept state for symbol.
func Or[S comparable](parts []*FA[S], symbol S) (*FA[S], error) {
	if err := checkParts("Or", parts); err != nil {
		return nil, err
	}
	return or(parts, symbol), nil
}

func or[S comparable](parts []*FA[S], symbol S) *FA[S] {
	f := New[S]()
	start := f.AddState()
	var ends []Handle
	for _, p := range parts {
		s, accepts := f.embed(p)
		f.AddEpsilon(start, s)
		ends = append(ends, accepts...)
	}
	f.linkTo(ends, f.AddAccept(symbol))
	return f
}

// Optional returns an automaton matching part or the empty string.
func Optional[S comparable](part *FA[S], symbol S) *FA[S] {
	return or([]*FA[S]{part, Empty(symbol)}, symbol)
}

// Repeat returns an automaton matching between min and max consecutive
// occurrences of part. A max of -1 means no upper bound, so Repeat(p, 0, -1)
// is p* and Repeat(p, 1, -1) is p+.
func Repeat[S comparable](part *FA[S], min, max int, symbol S) (*FA[S], error) {
	if min < 0 || (max != -1 && max < min) {
		return nil, &ArgumentError{
			Op:      "Repeat",
			Message: fmt.Sprintf("min=%d max=%d", min, max),
			Err:     ErrInvalidRepeat,
		}
	}
	if err := checkParts("Repeat", []*FA[S]{part}); err != nil {
		return nil, err
	}
	if max == 0 {
		return Empty(symbol), nil
	}

	f := New[S]()
	ends := []Handle{f.AddState()}
	lastStart := NoState
	for range min {
		start, accepts := f.embed(part)
		f.linkTo(ends, start)
		ends, lastStart = accepts, start
	}

	finals := ends
	switch {
	case max == -1 && min > 0:
		// Loop the last mandatory copy back onto itself.
		f.linkTo(ends, lastStart)
	case max == -1:
		start, accepts := f.embed(part)
		f.linkTo(ends, start)
		f.linkTo(accepts, start)
		finals = append(finals, accepts...)
	default:
		for range max - min {
			start, accepts := f.embed(part)
			f.linkTo(ends, start)
			ends = accepts
			finals = append(finals, accepts...)
		}
	}
	f.linkTo(finals, f.AddAccept(symbol))
	return f, nil
}

// CaseInsensitive returns a copy of part in which every input range also
// covers the other ASCII case of its letters. Every accept state of the
// copy is tagged with symbol.
func CaseInsensitive[S comparable](part *FA[S], symbol S) *FA[S] {
	f := part.Clone()
	for i := range f.states {
		s := &f.states[i]
		if s.Accepting {
			s.Symbol = symbol
		}
		if len(s.Inputs) == 0 {
			continue
		}
		var dests []Handle
		byDest := make(map[Handle][]CharRange)
		for _, t := range s.Inputs {
			if _, ok := byDest[t.To]; !ok {
				dests = append(dests, t.To)
			}
			byDest[t.To] = append(byDest[t.To], foldRange(t.Range)...)
		}
		s.Inputs = s.Inputs[:0]
		for _, d := range dests {
			for _, r := range Normalize(byDest[d]) {
				s.Inputs = append(s.Inputs, Transition{Range: r, To: d})
			}
		}
	}
	return f
}

var (
	lowerASCII = CharRange{First: 'a', Last: 'z'}
	upperASCII = CharRange{First: 'A', Last: 'Z'}
)

func foldRange(r CharRange) []CharRange {
	res := []CharRange{r}
	if l, ok := r.Intersect(lowerASCII); ok {
		res = append(res, CharRange{First: l.First - 'a' + 'A', Last: l.Last - 'a' + 'A'})
	}
	if u, ok := r.Intersect(upperASCII); ok {
		res = append(res, CharRange{First: u.First - 'A' + 'a', Last: u.Last - 'A' + 'a'})
	}
	return res
}

// ToLexer combines the parts under a new start state. Unlike Or, every part
// keeps its own accept states and symbols. When an input is matched by more
// than one part, the part listed first wins.
func ToLexer[S comparable](parts ...*FA[S]) (*FA[S], error) {
	if err := checkParts("ToLexer", parts); err != nil {
		return nil, err
	}
	f := New[S]()
	start := f.AddState()
	for _, p := range parts {
		s, _ := f.copyFrom(p)
		f.AddEpsilon(start, s)
	}
	return f, nil
}

func checkParts[S comparable](op string, parts []*FA[S]) error {
	if len(parts) == 0 {
		return &ArgumentError{Op: op, Err: ErrEmptyParts}
	}
	for i, p := range parts {
		if p == nil || p.start == NoState {
			return &ArgumentError{Op: op, Message: fmt.Sprintf("part %d is empty", i), Err: ErrEmptyParts}
		}
	}
	return nil
}

// embed copies part into f and returns the copy's start state and its
// accept states, which are demoted to plain states.
func (f *FA[S]) embed(part *FA[S]) (Handle, []Handle) {
	start, remap := f.copyFrom(part)
	var accepts []Handle
	for _, h := range part.AcceptStates() {
		accepts = append(accepts, remap[h])
	}
	for _, h := range accepts {
		var zero S
		f.states[h].Accepting = false
		f.states[h].Symbol = zero
	}
	return start, accepts
}

func (f *FA[S]) linkTo(from []Handle, to Handle) {
	for _, h := range from {
		f.AddEpsilon(h, to)
	}
}
