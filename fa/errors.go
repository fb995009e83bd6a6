// Package fa implements character finite automata: NFA construction from
// regex combinators, NFA to DFA subset construction, state reduction, DFA
// table encoding and the NFA, DFA and table driven matching engines.
//
// Automata are arenas of states addressed by Handle. Combinators never link
// into the automata they are given; they copy them into a fresh arena, so an
// FA can be reused as a part of any number of constructions.
package fa

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRepeat indicates Repeat bounds with min < 0 or max < min.
	ErrInvalidRepeat = errors.New("invalid repeat bounds")

	// ErrEmptyParts indicates a Concat, Or or ToLexer call without parts.
	ErrEmptyParts = errors.New("no parts given")

	// ErrNotDeterministic indicates an operation that requires a DFA was
	// handed an NFA. Convert with ToDfa first.
	ErrNotDeterministic = errors.New("automaton is not deterministic")

	// ErrUnknownSymbol indicates an accept symbol missing from the symbol table.
	ErrUnknownSymbol = errors.New("accept symbol not in symbol table")

	// ErrInvalidTable indicates a malformed DFA table.
	ErrInvalidTable = errors.New("invalid DFA table")

	// ErrOddPackedRanges indicates a packed range list with a dangling bound.
	ErrOddPackedRanges = errors.New("packed ranges have odd length")
)

// ArgumentError reports a combinator called with invalid arguments.
type ArgumentError struct {
	Op      string
	Message string
	Err     error
}

func (e *ArgumentError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, e.Message)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}
