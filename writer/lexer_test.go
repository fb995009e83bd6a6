package writer

import (
	"go/ast"
	goparser "go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liran-funaro/charfa/parser"
)

func buildProgram(t *testing.T, rules ...parser.Rule) *parser.Program {
	p, err := parser.Build(&parser.Definition{Name: "calc", Package: "calc", Rules: rules})
	require.NoError(t, err)
	return p
}

func calcProgram(t *testing.T) *parser.Program {
	return buildProgram(t,
		parser.Rule{Name: "if", Literal: "if"},
		parser.Rule{Name: "ident", Pattern: "[a-z]+"},
		parser.Rule{Name: "number", Pattern: "[0-9]+"},
		parser.Rule{Name: "op-eq", Literal: "=="},
		parser.Rule{Name: "euro", Literal: "€"},
	)
}

func parseSource(t *testing.T, src []byte) *ast.File {
	file, err := goparser.ParseFile(token.NewFileSet(), "lexer.go", src, goparser.AllErrors)
	require.NoError(t, err, string(src))
	return file
}

func topLevel(file *ast.File) map[string]bool {
	res := map[string]bool{}
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			res[d.Name.Name] = true
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.ValueSpec:
					for _, n := range s.Names {
						res[n.Name] = true
					}
				case *ast.TypeSpec:
					res[s.Name.Name] = true
				}
			}
		}
	}
	return res
}

func TestGotoLexer(t *testing.T) {
	p := calcProgram(t)
	src, err := (&LexerBuilder{}).DumpFormattedLexer(p)
	require.NoError(t, err)
	file := parseSource(t, src)
	assert.Equal(t, "calc", file.Name.Name)

	decls := topLevel(file)
	for _, name := range []string{"TokenIf", "TokenIdent", "TokenNumber", "TokenOpEq", "TokenEuro", "TokenError", "SymbolNames", "SymbolName", "Lex", "Token", "Tokenize"} {
		assert.True(t, decls[name], name)
	}
	assert.False(t, decls["lexTable"])

	code := string(src)
	assert.True(t, strings.HasPrefix(code, "// Code generated by charfa. DO NOT EDIT."))
	assert.Contains(t, code, "TokenError  = -1")
	assert.Contains(t, code, `"unicode/utf8"`)
	assert.Contains(t, code, "goto q0")
	assert.Contains(t, code, "'€'")
	for i := range p.Table {
		assert.Contains(t, code, label(i)+":")
	}
}

func TestTableLexer(t *testing.T) {
	p := calcProgram(t)
	src, err := (&LexerBuilder{Package: "lex", Prefix: "Sym", Table: true}).DumpFormattedLexer(p)
	require.NoError(t, err)
	file := parseSource(t, src)
	assert.Equal(t, "lex", file.Name.Name)

	decls := topLevel(file)
	for _, name := range []string{"SymIf", "SymError", "lexTable", "lexState", "lexTransition", "Lex", "Tokenize"} {
		assert.True(t, decls[name], name)
	}
	assert.NotContains(t, string(src), "goto")
}

func TestRuneLiterals(t *testing.T) {
	p := buildProgram(t, parser.Rule{Name: "ctl", Pattern: `[\x00-\x08]`}, parser.Rule{Name: "any", Pattern: `(?s:.)`})
	src, err := (&LexerBuilder{}).DumpFormattedLexer(p)
	require.NoError(t, err)
	parseSource(t, src)
	assert.Contains(t, string(src), "0x8")
	assert.Contains(t, string(src), "0x10FFFF")
}

func TestBadIdentifiers(t *testing.T) {
	tests := []struct {
		name    string
		builder LexerBuilder
		rules   []parser.Rule
	}{
		{"collision", LexerBuilder{}, []parser.Rule{{Name: "a-b", Literal: "x"}, {Name: "a_b", Literal: "y"}}},
		{"error clash", LexerBuilder{}, []parser.Rule{{Name: "error", Literal: "x"}}},
		{"lower prefix", LexerBuilder{Prefix: "tok"}, []parser.Rule{{Name: "a", Literal: "x"}}},
		{"package", LexerBuilder{Package: "my-lexer"}, []parser.Rule{{Name: "a", Literal: "x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.DumpFormattedLexer(buildProgram(t, tt.rules...))
			assert.ErrorIs(t, err, ErrBadIdentifier)
		})
	}
}

func TestGoName(t *testing.T) {
	assert.Equal(t, "OpEq", goName("op-eq"))
	assert.Equal(t, "IntLiteral", goName("int_literal"))
	assert.Equal(t, "X2", goName("x2"))
	assert.Equal(t, "", goName("#"))
}
