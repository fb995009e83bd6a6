package parser

import (
	"fmt"
	"io"

	"github.com/liran-funaro/charfa/cursor"
	"github.com/liran-funaro/charfa/fa"
)

// Program is a compiled lexer definition.
type Program struct {
	Name        string
	Package     string
	ErrorSymbol string
	// Symbols lists the rule names in priority order. A table accept id
	// indexes into it.
	Symbols []string
	Rules   []Rule

	NFA   *fa.FA[string]
	DFA   *fa.FA[string]
	Table fa.DfaTable
}

// Build compiles every rule of d and combines them into a single lexer.
func Build(d *Definition) (*Program, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	p := &Program{
		Name:        d.Name,
		Package:     d.Package,
		ErrorSymbol: d.ErrorSymbol,
		Rules:       d.Rules,
		Symbols:     make([]string, len(d.Rules)),
	}
	parts := make([]*fa.FA[string], len(d.Rules))
	for i, r := range d.Rules {
		part, err := compileRule(r)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		parts[i] = part
		p.Symbols[i] = r.Name
	}

	nfa, err := fa.ToLexer(parts...)
	if err != nil {
		return nil, err
	}
	p.NFA = nfa
	p.DFA = nfa.ToDfa()
	p.DFA.TrimDuplicates()
	if p.Table, err = p.DFA.ToDfaTable(p.Symbols); err != nil {
		return nil, fmt.Errorf("encode table: %w", err)
	}
	return p, nil
}

func compileRule(r Rule) (*fa.FA[string], error) {
	var part *fa.FA[string]
	if r.Literal != "" {
		part = fa.Literal(r.Literal, r.Name)
	} else {
		var err error
		if part, err = Compile(r.Pattern, r.Name); err != nil {
			return nil, err
		}
	}
	if r.CaseInsensitive {
		part = fa.CaseInsensitive(part, r.Name)
	}
	return part, nil
}

// Symbol returns the name of a table accept id, or the error symbol for ids
// outside the table.
func (p *Program) Symbol(id int) string {
	if s, ok := fa.Symbol(p.Symbols, id); ok {
		return s
	}
	return p.ErrorSymbol
}

// Lex tokenizes the whole cursor with the DFA.
func (p *Program) Lex(c cursor.Cursor) []fa.Token[string] {
	return p.DFA.LexAllDfa(c, p.ErrorSymbol)
}

// LexTable tokenizes the whole cursor with the table and names the tokens.
func (p *Program) LexTable(c cursor.Cursor) []fa.Token[string] {
	toks := p.Table.LexAll(c, -1)
	res := make([]fa.Token[string], len(toks))
	for i, t := range toks {
		res[i] = fa.Token[string]{
			Symbol:   p.Symbol(t.Symbol),
			Value:    t.Value,
			Line:     t.Line,
			Column:   t.Column,
			Position: t.Position,
		}
	}
	return res
}

func (p *Program) WriteNFADotGraph(writer io.Writer) error {
	return p.NFA.Reduce().WriteDot(writer, fmt.Sprintf("NFA_%s", dotID(p.Name)), fa.DotOptions{ShowSymbols: true})
}

func (p *Program) WriteDFADotGraph(writer io.Writer) error {
	return p.DFA.WriteDot(writer, fmt.Sprintf("DFA_%s", dotID(p.Name)), fa.DotOptions{ShowSymbols: true})
}

func (p *Program) WriteTableDotGraph(writer io.Writer) error {
	return p.Table.WriteDot(writer, fmt.Sprintf("TABLE_%s", dotID(p.Name)), p.Symbols)
}

// dotID keeps letters, digits and underscores so the name is a valid DOT ID.
func dotID(name string) string {
	b := []byte(name)
	for i, c := range b {
		if !(c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			b[i] = '_'
		}
	}
	return string(b)
}
