package fa

import (
	"fmt"
	"slices"

	"github.com/liran-funaro/charfa/internal/sparse"
)

// Handle addresses a state inside the arena of one FA.
type Handle int

// NoState is returned where a state handle is absent.
const NoState Handle = -1

// Transition is an input transition consuming one code point in Range.
type Transition struct {
	Range CharRange
	To    Handle
}

// State is a node of an automaton.
type State[S comparable] struct {
	Accepting bool
	Symbol    S   // Only meaningful when Accepting.
	Tag       any // Opaque. DFA states built by ToDfa carry their NFA set ([]Handle).
	Inputs    []Transition
	Epsilons  []Handle
}

// FA is a character finite automaton. It owns an arena of states; the
// automaton proper is the set of states reachable from Start.
//
// An FA may be read by any number of goroutines at once, but mutating
// calls (AddXxx, SetStart, TrimDuplicates and writes through State) need
// exclusive access.
type FA[S comparable] struct {
	states []State[S]
	start  Handle
}

// New returns an empty automaton. Its first added state becomes the start.
func New[S comparable]() *FA[S] {
	return &FA[S]{start: NoState}
}

// AddState appends a non-accepting state and returns its handle.
func (f *FA[S]) AddState() Handle {
	h := Handle(len(f.states))
	f.states = append(f.states, State[S]{})
	if f.start == NoState {
		f.start = h
	}
	return h
}

// AddAccept appends an accepting state for symbol.
func (f *FA[S]) AddAccept(symbol S) Handle {
	h := f.AddState()
	f.states[h].Accepting = true
	f.states[h].Symbol = symbol
	return h
}

// AddInput links from to to on every code point of r.
func (f *FA[S]) AddInput(from Handle, r CharRange, to Handle) {
	f.states[from].Inputs = append(f.states[from].Inputs, Transition{Range: r, To: to})
}

// AddEpsilon links from to to without consuming input. Duplicate links are
// ignored.
func (f *FA[S]) AddEpsilon(from, to Handle) {
	s := &f.states[from]
	if slices.Contains(s.Epsilons, to) {
		return
	}
	s.Epsilons = append(s.Epsilons, to)
}

// SetStart changes the start state.
func (f *FA[S]) SetStart(h Handle) {
	f.start = h
}

// Start returns the start state handle, or NoState for an empty FA.
func (f *FA[S]) Start() Handle {
	return f.start
}

// State returns the state for h. The pointer is invalidated by any call
// that adds states.
func (f *FA[S]) State(h Handle) *State[S] {
	return &f.states[h]
}

// Len returns the size of the arena, including unreachable states.
func (f *FA[S]) Len() int {
	return len(f.states)
}

// StateCount returns the number of states reachable from the start.
func (f *FA[S]) StateCount() int {
	return len(f.FillClosure())
}

// FillClosure returns every state reachable from the start over input and
// epsilon transitions, each exactly once, in depth-first preorder: a
// state's input targets are explored before its epsilon targets, in
// declaration order. The order is stable across calls and is the order
// used for DFA table rows and for accept priority.
func (f *FA[S]) FillClosure() []Handle {
	if f.start == NoState {
		return nil
	}
	return f.closureFrom(f.start)
}

func (f *FA[S]) closureFrom(root Handle) []Handle {
	visited := sparse.New(len(f.states))
	stack := []Handle{root}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visited.Insert(int(h)) {
			continue
		}
		// Push in reverse so the first declared edge is explored first.
		s := &f.states[h]
		for i := len(s.Epsilons) - 1; i >= 0; i-- {
			if !visited.Contains(int(s.Epsilons[i])) {
				stack = append(stack, s.Epsilons[i])
			}
		}
		for i := len(s.Inputs) - 1; i >= 0; i-- {
			if !visited.Contains(int(s.Inputs[i].To)) {
				stack = append(stack, s.Inputs[i].To)
			}
		}
	}
	res := make([]Handle, visited.Len())
	for i, v := range visited.Values() {
		res[i] = Handle(v)
	}
	return res
}

// EpsilonClosure returns the states reachable from set without consuming
// input, set included, in discovery order.
func (f *FA[S]) EpsilonClosure(set []Handle) []Handle {
	seen := sparse.New(len(f.states))
	f.epsilonClosure(seen, set)
	res := make([]Handle, seen.Len())
	for i, v := range seen.Values() {
		res[i] = Handle(v)
	}
	return res
}

// epsilonClosure adds the epsilon closure of set to seen.
func (f *FA[S]) epsilonClosure(seen *sparse.Set, set []Handle) {
	queue := make([]Handle, 0, len(set))
	for _, h := range set {
		if seen.Insert(int(h)) {
			queue = append(queue, h)
		}
	}
	for pos := 0; pos < len(queue); pos++ {
		for _, e := range f.states[queue[pos]].Epsilons {
			if seen.Insert(int(e)) {
				queue = append(queue, e)
			}
		}
	}
}

// AcceptStates returns the reachable accepting states in closure order.
func (f *FA[S]) AcceptStates() []Handle {
	var res []Handle
	for _, h := range f.FillClosure() {
		if f.states[h].Accepting {
			res = append(res, h)
		}
	}
	return res
}

// Symbols returns the distinct accept symbols in closure order.
func (f *FA[S]) Symbols() []S {
	var res []S
	for _, h := range f.AcceptStates() {
		if sym := f.states[h].Symbol; !slices.Contains(res, sym) {
			res = append(res, sym)
		}
	}
	return res
}

// IsDfa reports whether no reachable state has epsilon transitions and
// every state's input ranges are pairwise disjoint.
func (f *FA[S]) IsDfa() bool {
	for _, h := range f.FillClosure() {
		s := &f.states[h]
		if len(s.Epsilons) > 0 {
			return false
		}
		ranges := make([]CharRange, len(s.Inputs))
		for i, t := range s.Inputs {
			ranges[i] = t.Range
		}
		slices.SortFunc(ranges, compareRanges)
		for i := 1; i < len(ranges); i++ {
			if ranges[i-1].Intersects(ranges[i]) {
				return false
			}
		}
	}
	return true
}

// Clone returns a compact deep copy of the reachable part of f. Handles are
// renumbered in closure order, so the start state of the copy is 0. Tags are
// copied shallowly.
func (f *FA[S]) Clone() *FA[S] {
	res := New[S]()
	if f.start != NoState {
		res.copyFrom(f)
	}
	return res
}

// copyFrom appends the reachable states of src to f's arena and returns the
// handle of src's start in f together with the mapping from src handles to
// f handles (NoState for unreachable ones).
func (f *FA[S]) copyFrom(src *FA[S]) (Handle, []Handle) {
	closure := src.FillClosure()
	remap := make([]Handle, len(src.states))
	for i := range remap {
		remap[i] = NoState
	}
	base := Handle(len(f.states))
	for i, h := range closure {
		remap[h] = base + Handle(i)
	}
	for _, h := range closure {
		s := &src.states[h]
		n := State[S]{
			Accepting: s.Accepting,
			Symbol:    s.Symbol,
			Tag:       s.Tag,
		}
		if len(s.Inputs) > 0 {
			n.Inputs = make([]Transition, len(s.Inputs))
			for i, t := range s.Inputs {
				n.Inputs[i] = Transition{Range: t.Range, To: remap[t.To]}
			}
		}
		if len(s.Epsilons) > 0 {
			n.Epsilons = make([]Handle, len(s.Epsilons))
			for i, e := range s.Epsilons {
				n.Epsilons[i] = remap[e]
			}
		}
		f.states = append(f.states, n)
	}
	if f.start == NoState {
		f.start = base
	}
	return remap[src.start], remap
}

// compact drops unreachable states and renumbers the rest in closure order.
func (f *FA[S]) compact() {
	if f.start == NoState {
		return
	}
	c := f.Clone()
	f.states, f.start = c.states, c.start
}

func (f *FA[S]) String() string {
	return fmt.Sprintf("FA{states: %d, reachable: %d, start: %d}", len(f.states), f.StateCount(), f.start)
}
