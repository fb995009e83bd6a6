// Package writer generates standalone Go lexers from compiled programs.
//
// The generated file has no dependency on this module: it holds one
// constant per rule, the rule names, a Lex function returning the longest
// token at the start of its input and a Tokenize helper.
package writer

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"

	"github.com/liran-funaro/charfa/fa"
	"github.com/liran-funaro/charfa/parser"
)

// ErrBadIdentifier is returned when rule names do not map to distinct Go
// identifiers.
var ErrBadIdentifier = errors.New("cannot derive Go identifier")

const utf8Path = "unicode/utf8"

// LexerBuilder holds the code generation settings.
type LexerBuilder struct {
	// Package overrides the package name of the program.
	Package string
	// Prefix is prepended to the generated symbol constants.
	Prefix string
	// Table emits the DFA as data and a table driven Lex instead of a
	// goto state machine.
	Table bool
}

// DumpFormattedLexer returns the formatted Go source of a lexer for p.
func (b *LexerBuilder) DumpFormattedLexer(p *parser.Program) ([]byte, error) {
	pkg := b.Package
	if pkg == "" {
		pkg = p.Package
	}
	if pkg == "" {
		pkg = "lexer"
	}
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("%w: package %q", ErrBadIdentifier, pkg)
	}
	consts, err := b.symbolConsts(p)
	if err != nil {
		return nil, err
	}

	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by charfa. DO NOT EDIT.")
	b.genSymbols(f, p, consts)
	if b.Table {
		genTable(f, p.Table)
		genTableLex(f)
	} else {
		genGotoLex(f, p.Table)
	}
	genTokenize(f)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return formatCode(buf.Bytes())
}

func formatCode(src []byte) ([]byte, error) {
	return imports.Process("lexer.go", src, &imports.Options{
		TabWidth:  8,
		TabIndent: true,
		Comments:  true,
		Fragment:  true,
	})
}

// symbolConsts derives one exported constant name per symbol, plus the
// error constant last.
func (b *LexerBuilder) symbolConsts(p *parser.Program) ([]string, error) {
	prefix := b.Prefix
	if prefix == "" {
		prefix = "Token"
	}
	names := append(append([]string(nil), p.Symbols...), "Error")
	res := make([]string, len(names))
	seen := make(map[string]string, len(names))
	for i, n := range names {
		id := prefix + goName(n)
		if !token.IsIdentifier(id) || !token.IsExported(id) {
			return nil, fmt.Errorf("%w: %q", ErrBadIdentifier, n)
		}
		if other, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: %q and %q both map to %s", ErrBadIdentifier, other, n, id)
		}
		seen[id] = n
		res[i] = id
	}
	return res, nil
}

// goName turns a rule name into an identifier fragment: letters and digits
// are kept, anything else starts a new capitalized word.
func goName(name string) string {
	var sb strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (b *LexerBuilder) genSymbols(f *jen.File, p *parser.Program, consts []string) {
	defs := make([]jen.Code, 0, len(consts))
	for i, c := range consts[:len(consts)-1] {
		defs = append(defs, jen.Id(c).Op("=").Lit(i))
	}
	defs = append(defs, jen.Id(consts[len(consts)-1]).Op("=").Lit(-1))
	f.Comment("Symbols returned by Lex, in priority order.")
	f.Const().Defs(defs...)

	names := make([]jen.Code, len(p.Symbols))
	for i, s := range p.Symbols {
		names[i] = jen.Lit(s)
	}
	f.Comment("SymbolNames maps a symbol to its rule name.")
	f.Var().Id("SymbolNames").Op("=").Index().String().Values(names...)

	f.Comment("SymbolName returns the rule name of sym.")
	f.Func().Id("SymbolName").Params(jen.Id("sym").Int()).String().Block(
		jen.If(jen.Id("sym").Op(">=").Lit(0).Op("&&").Id("sym").Op("<").Len(jen.Id("SymbolNames"))).Block(
			jen.Return(jen.Id("SymbolNames").Index(jen.Id("sym"))),
		),
		jen.Return(jen.Lit(p.ErrorSymbol)),
	)
}

// rangeCond renders the test of r against ranges.
func rangeCond(ranges []fa.CharRange) jen.Code {
	var cond *jen.Statement
	for _, rg := range ranges {
		var c *jen.Statement
		if rg.First == rg.Last {
			c = jen.Id("r").Op("==").Add(runeLit(rg.First))
		} else {
			c = jen.Id("r").Op(">=").Add(runeLit(rg.First)).Op("&&").Id("r").Op("<=").Add(runeLit(rg.Last))
		}
		if cond == nil {
			cond = c
		} else {
			cond = cond.Op("||").Add(c)
		}
	}
	return cond
}

// runeLit quotes printable runes and writes the rest as hex.
func runeLit(r rune) jen.Code {
	if utf8.ValidRune(r) && unicode.IsGraphic(r) {
		return jen.LitRune(r)
	}
	return jen.Op(fmt.Sprintf("0x%X", r))
}

func label(i int) string {
	return fmt.Sprintf("q%d", i)
}

// genGotoLex emits one labelled block per DFA state.
func genGotoLex(f *jen.File, table fa.DfaTable) {
	f.Comment("Lex returns the symbol and byte length of the longest token at the")
	f.Comment("start of input. Without a match it returns -1 and length 0.")
	lex := f.Func().Id("Lex").Params(jen.Id("input").String()).Params(jen.Id("symbol").Int(), jen.Id("length").Int())
	if len(table[0].Transitions) == 0 {
		lex.Block(jen.Return(jen.Lit(-1), jen.Lit(0)))
		return
	}
	body := []jen.Code{
		jen.Id("symbol").Op(",").Id("length").Op("=").Id("-1").Op(",").Lit(0),
		jen.Id("pos").Op(":=").Lit(0),
		jen.Var().Id("r").Rune(),
		jen.Var().Id("size").Int(),
		jen.Goto().Id(label(0)),
	}
	for i, e := range table {
		body = append(body, jen.Id(label(i)).Op(":"))
		if e.AcceptSymbolID >= 0 {
			body = append(body, jen.Id("symbol").Op(",").Id("length").Op("=").Lit(e.AcceptSymbolID).Op(",").Id("pos"))
		}
		if len(e.Transitions) == 0 {
			body = append(body, jen.Goto().Id("done"))
			continue
		}
		body = append(body,
			jen.If(jen.Id("pos").Op(">=").Len(jen.Id("input"))).Block(jen.Goto().Id("done")),
			jen.List(jen.Id("r"), jen.Id("size")).Op("=").Qual(utf8Path, "DecodeRuneInString").Call(jen.Id("input").Index(jen.Id("pos").Op(":"))),
			jen.Id("pos").Op("+=").Id("size"),
		)
		cases := make([]jen.Code, 0, len(e.Transitions))
		for _, trn := range e.Transitions {
			ranges, _ := fa.FromPacked(trn.PackedRanges)
			cases = append(cases, jen.Case(rangeCond(ranges)).Block(jen.Goto().Id(label(trn.Destination))))
		}
		body = append(body, jen.Switch().Block(cases...), jen.Goto().Id("done"))
	}
	body = append(body, jen.Id("done").Op(":"), jen.Return())
	lex.Block(body...)
}

// genTable emits the DFA table as data.
func genTable(f *jen.File, table fa.DfaTable) {
	f.Type().Id("lexTransition").Struct(
		jen.Id("ranges").Index().Rune(),
		jen.Id("to").Int(),
	)
	f.Type().Id("lexState").Struct(
		jen.Id("accept").Int(),
		jen.Id("transitions").Index().Id("lexTransition"),
	)
	states := make([]jen.Code, len(table))
	for i, e := range table {
		trns := make([]jen.Code, len(e.Transitions))
		for j, trn := range e.Transitions {
			rs := make([]jen.Code, len(trn.PackedRanges))
			for k, r := range trn.PackedRanges {
				rs[k] = runeLit(r)
			}
			trns[j] = jen.Values(jen.Index().Rune().Values(rs...), jen.Lit(trn.Destination))
		}
		states[i] = jen.Values(jen.Lit(e.AcceptSymbolID), jen.Index().Id("lexTransition").Values(trns...))
	}
	f.Var().Id("lexTable").Op("=").Index().Id("lexState").Values(states...)
}

func genTableLex(f *jen.File) {
	f.Comment("Lex returns the symbol and byte length of the longest token at the")
	f.Comment("start of input. Without a match it returns -1 and length 0.")
	f.Func().Id("Lex").Params(jen.Id("input").String()).Params(jen.Id("symbol").Int(), jen.Id("length").Int()).Block(
		jen.Id("symbol").Op(",").Id("length").Op("=").Id("-1").Op(",").Lit(0),
		jen.Id("state").Op(":=").Lit(0),
		jen.For(jen.Id("pos").Op(":=").Lit(0).Op(";").Id("pos").Op("<").Len(jen.Id("input")).Op(";")).Block(
			jen.List(jen.Id("r"), jen.Id("size")).Op(":=").Qual(utf8Path, "DecodeRuneInString").Call(jen.Id("input").Index(jen.Id("pos").Op(":"))),
			jen.Id("next").Op(":=").Lit(-1),
			jen.Id("search").Op(":"),
			jen.For(jen.List(jen.Id("_"), jen.Id("t")).Op(":=").Range().Id("lexTable").Index(jen.Id("state")).Dot("transitions")).Block(
				jen.For(jen.Id("i").Op(":=").Lit(0).Op(";").Id("i").Op("+").Lit(1).Op("<").Len(jen.Id("t").Dot("ranges")).Op(";").Id("i").Op("+=").Lit(2)).Block(
					jen.If(jen.Id("t").Dot("ranges").Index(jen.Id("i")).Op("<=").Id("r").Op("&&").Id("r").Op("<=").Id("t").Dot("ranges").Index(jen.Id("i").Op("+").Lit(1))).Block(
						jen.Id("next").Op("=").Id("t").Dot("to"),
						jen.Break().Id("search"),
					),
				),
			),
			jen.If(jen.Id("next").Op("<").Lit(0)).Block(jen.Return()),
			jen.Id("state").Op(",").Id("pos").Op("=").Id("next").Op(",").Id("pos").Op("+").Id("size"),
			jen.If(jen.Id("a").Op(":=").Id("lexTable").Index(jen.Id("state")).Dot("accept").Op(";").Id("a").Op(">=").Lit(0)).Block(
				jen.Id("symbol").Op(",").Id("length").Op("=").Id("a").Op(",").Id("pos"),
			),
		),
		jen.Return(),
	)
}

func genTokenize(f *jen.File) {
	f.Comment("Token is a lexeme of Tokenize.")
	f.Type().Id("Token").Struct(
		jen.Id("Symbol").Int(),
		jen.Id("Text").String(),
		jen.Id("Offset").Int(),
	)
	f.Comment("Tokenize splits input into tokens. Unmatched characters become")
	f.Comment("one-character error tokens.")
	f.Func().Id("Tokenize").Params(jen.Id("input").String()).Index().Id("Token").Block(
		jen.Var().Id("toks").Index().Id("Token"),
		jen.For(jen.Id("pos").Op(":=").Lit(0).Op(";").Id("pos").Op("<").Len(jen.Id("input")).Op(";")).Block(
			jen.List(jen.Id("sym"), jen.Id("n")).Op(":=").Id("Lex").Call(jen.Id("input").Index(jen.Id("pos").Op(":"))),
			jen.If(jen.Id("n").Op("==").Lit(0)).Block(
				jen.List(jen.Id("_"), jen.Id("n")).Op("=").Qual(utf8Path, "DecodeRuneInString").Call(jen.Id("input").Index(jen.Id("pos").Op(":"))),
				jen.Id("sym").Op("=").Id("-1"),
			),
			jen.Id("toks").Op("=").Append(jen.Id("toks"), jen.Id("Token").Values(jen.Id("sym"), jen.Id("input").Index(jen.Id("pos").Op(":").Id("pos").Op("+").Id("n")), jen.Id("pos"))),
			jen.Id("pos").Op("+=").Id("n"),
		),
		jen.Return(jen.Id("toks")),
	)
}
