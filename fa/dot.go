package fa

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DotOptions tunes WriteDot.
type DotOptions struct {
	// ShowSymbols labels accepting states with their symbol.
	ShowSymbols bool
	// ShowTags labels DFA states with the NFA states they stand for.
	ShowTags bool
	// Highlight is filled in yellow, e.g. the states a match went through.
	Highlight []Handle
}

// WriteDot prints f in Graphviz DOT format. States are numbered by their
// closure position, so the start state is 0.
//
//	$ dot -Tpng nfa.dot -o nfa.png
func (f *FA[S]) WriteDot(out io.Writer, name string, opts DotOptions) error {
	w := bufio.NewWriter(out)
	_, _ = fmt.Fprintf(w, "digraph %v {\n  rankdir=LR;\n", name)
	closure := f.FillClosure()
	id := make(map[Handle]int, len(closure))
	for i, h := range closure {
		id[h] = i
	}
	highlight := make(map[Handle]bool, len(opts.Highlight))
	for _, h := range opts.Highlight {
		highlight[h] = true
	}

	for i, h := range closure {
		s := &f.states[h]
		var attrs []string
		label := "q" + strconv.Itoa(i)
		if opts.ShowTags {
			if set, ok := s.Tag.([]Handle); ok {
				label += "\\n" + handlesLabel(set)
			}
		}
		if s.Accepting {
			attrs = append(attrs, "shape=doublecircle")
			if opts.ShowSymbols {
				label += "\\n" + dotEscape(fmt.Sprint(s.Symbol))
			}
		} else {
			attrs = append(attrs, "shape=circle")
		}
		if i == 0 {
			attrs = append(attrs, "penwidth=2")
		}
		if highlight[h] {
			attrs = append(attrs, "style=filled", "fillcolor=yellow")
		} else if s.Accepting {
			attrs = append(attrs, "style=filled", "color=green")
		}
		attrs = append(attrs, fmt.Sprintf("label=\"%s\"", label))
		_, _ = fmt.Fprintf(w, "  %d[%s];\n", i, strings.Join(attrs, ","))
	}

	for i, h := range closure {
		s := &f.states[h]
		var dests []Handle
		byDest := make(map[Handle][]CharRange)
		for _, t := range s.Inputs {
			if _, ok := byDest[t.To]; !ok {
				dests = append(dests, t.To)
			}
			byDest[t.To] = append(byDest[t.To], t.Range)
		}
		for _, d := range dests {
			_, _ = fmt.Fprintf(w, "  %d -> %d[label=\"%s\"];\n", i, id[d], rangesLabel(Normalize(byDest[d])))
		}
		for _, e := range s.Epsilons {
			_, _ = fmt.Fprintf(w, "  %d -> %d[style=dashed,color=gray];\n", i, id[e])
		}
	}
	_, _ = fmt.Fprintln(w, "}")
	return w.Flush()
}

// WriteDot prints the table in Graphviz DOT format. symbols labels the
// accepting rows and may be nil.
func (t DfaTable) WriteDot(out io.Writer, name string, symbols []string) error {
	w := bufio.NewWriter(out)
	_, _ = fmt.Fprintf(w, "digraph %v {\n  rankdir=LR;\n", name)
	for i, e := range t {
		label := "q" + strconv.Itoa(i)
		if e.AcceptSymbolID >= 0 {
			if sym, ok := Symbol(symbols, e.AcceptSymbolID); ok {
				label += "\\n" + dotEscape(sym)
			} else {
				label += "\\n#" + strconv.Itoa(e.AcceptSymbolID)
			}
			_, _ = fmt.Fprintf(w, "  %d[shape=doublecircle,style=filled,color=green,label=\"%s\"];\n", i, label)
		} else {
			_, _ = fmt.Fprintf(w, "  %d[shape=circle,label=\"%s\"];\n", i, label)
		}
	}
	for i, e := range t {
		for _, trn := range e.Transitions {
			ranges, err := FromPacked(trn.PackedRanges)
			if err != nil {
				return fmt.Errorf("state %d: %w", i, err)
			}
			_, _ = fmt.Fprintf(w, "  %d -> %d[label=\"%s\"];\n", i, trn.Destination, rangesLabel(ranges))
		}
	}
	_, _ = fmt.Fprintln(w, "}")
	return w.Flush()
}

func runeToDot(r rune) string {
	if strconv.IsPrint(r) && r != ' ' {
		return dotEscape(string(r))
	}
	return fmt.Sprintf("U+%X", int(r))
}

func rangesLabel(ranges []CharRange) string {
	if len(ranges) == 1 && ranges[0].First == ranges[0].Last {
		return runeToDot(ranges[0].First)
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for _, r := range ranges {
		sb.WriteString(runeToDot(r.First))
		if r.First != r.Last {
			sb.WriteByte('-')
			sb.WriteString(runeToDot(r.Last))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// handlesLabel prints the handles of another automaton, as found in tags.
func handlesLabel(set []Handle) string {
	parts := make([]string, len(set))
	for i, h := range set {
		parts[i] = strconv.Itoa(int(h))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func dotEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
