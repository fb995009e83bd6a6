// Package exec drives the lexer pipeline: it loads a definition, compiles it
// and writes the requested artifacts, or runs the compiled lexer over input.
package exec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/liran-funaro/charfa/cursor"
	"github.com/liran-funaro/charfa/fa"
	"github.com/liran-funaro/charfa/parser"
	"github.com/liran-funaro/charfa/search"
	"github.com/liran-funaro/charfa/writer"
)

// StdoutName selects Params.Stdout as an output file.
const StdoutName = "-"

var (
	ErrUnknownEngine = errors.New("unknown engine")
	ErrUnknownFormat = errors.New("unknown table format")
)

// Engine selects the automaton that runs a lexer.
type Engine string

const (
	EngineNFA   Engine = "nfa"
	EngineDFA   Engine = "dfa"
	EngineTable Engine = "table"
)

type Params struct {
	DefinitionFile string

	// Generated lexer.
	OutputFilename string
	Package        string
	Prefix         string
	TableCode      bool

	NfaDotOutputFilename   string
	DfaDotOutputFilename   string
	TableDotOutputFilename string
	// TableOutputFilename receives the DFA table as JSON or YAML.
	TableOutputFilename string
	TableFormat         string

	Stdout io.Writer
	Logger *zap.Logger
}

func (p *Params) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// LoadProgram reads and compiles the definition at path.
func LoadProgram(ctx context.Context, logger *zap.Logger, path string) (*parser.Program, error) {
	def, err := parser.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load definition: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	program, err := parser.Build(def)
	if err != nil {
		return nil, fmt.Errorf("build program: %w", err)
	}
	logger.Debug("Compiled definition",
		zap.String("file", path),
		zap.String("name", program.Name),
		zap.Int("rules", len(program.Rules)),
		zap.Int("nfa_states", program.NFA.StateCount()),
		zap.Int("dfa_states", len(program.Table)),
	)
	return program, nil
}

// ExecuteWithParams compiles the definition and writes every artifact that
// has an output file set.
func ExecuteWithParams(ctx context.Context, p *Params) (*parser.Program, error) {
	logger := p.logger()
	program, err := LoadProgram(ctx, logger, p.DefinitionFile)
	if err != nil {
		return nil, err
	}

	outputs := []struct {
		name  string
		file  string
		write func(io.Writer) error
	}{
		{"nfa dot", p.NfaDotOutputFilename, program.WriteNFADotGraph},
		{"dfa dot", p.DfaDotOutputFilename, program.WriteDFADotGraph},
		{"table dot", p.TableDotOutputFilename, program.WriteTableDotGraph},
		{"table", p.TableOutputFilename, func(w io.Writer) error {
			return WriteTable(w, program.Table, tableFormat(p.TableFormat, p.TableOutputFilename))
		}},
		{"lexer", p.OutputFilename, func(w io.Writer) error {
			return writeLexer(w, program, p)
		}},
	}
	for _, out := range outputs {
		if out.file == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.writeWithWriter(out.file, out.write); err != nil {
			return nil, fmt.Errorf("write %s: %w", out.name, err)
		}
		logger.Info("Wrote output", zap.String("kind", out.name), zap.String("file", out.file))
	}
	return program, nil
}

func writeLexer(w io.Writer, program *parser.Program, p *Params) error {
	b := &writer.LexerBuilder{
		Package: p.Package,
		Prefix:  p.Prefix,
		Table:   p.TableCode,
	}
	code, err := b.DumpFormattedLexer(program)
	if err != nil {
		return fmt.Errorf("dump lexer: %w", err)
	}
	_, err = w.Write(code)
	return err
}

// tableFormat picks the explicit format, or derives it from the file name.
func tableFormat(format, filename string) string {
	if format != "" {
		return format
	}
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return "json"
	}
	return "yaml"
}

// WriteTable encodes table as "json" or "yaml".
func WriteTable(w io.Writer, table fa.DfaTable, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(table); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Lex runs the program over in and calls emit for every token. The context
// is checked between tokens.
func Lex(ctx context.Context, program *parser.Program, engine Engine, in io.Reader, emit func(fa.Token[string]) error) error {
	var lex func(c cursor.Cursor) string
	switch engine {
	case EngineNFA:
		lex = program.NFA.LexFunc(program.ErrorSymbol)
	case EngineDFA, "":
		lex = func(c cursor.Cursor) string { return program.DFA.LexDfa(c, program.ErrorSymbol) }
	case EngineTable:
		lex = func(c cursor.Cursor) string { return program.Symbol(program.Table.Lex(c, -1)) }
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}

	c := cursor.New(in)
	for c.Current() != cursor.EOF {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.ClearCapture()
		tok := fa.Token[string]{Line: c.Line(), Column: c.Column(), Position: c.Position()}
		tok.Symbol = lex(c)
		tok.Value = c.Capture()
		if err := emit(tok); err != nil {
			return err
		}
	}
	if err := c.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// Find returns every match of the program in text. The symbol of each match
// is not reported; any rule counts.
func Find(ctx context.Context, logger *zap.Logger, program *parser.Program, text string) ([]fa.Match, error) {
	s, err := search.New(program.DFA)
	if err != nil {
		return nil, fmt.Errorf("prepare search: %w", err)
	}
	logger.Debug("Prepared searcher", zap.Bool("prefiltered", s.Prefiltered()), zap.Int("literals", len(s.Literals())))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.FindAll(text), nil
}

func closeFile(f *os.File) {
	_ = f.Close()
}

func (p *Params) writeWithWriter(filepath string, writer func(io.Writer) error) error {
	if filepath == StdoutName {
		out := p.Stdout
		if out == nil {
			out = os.Stdout
		}
		return writer(out)
	}
	f, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer closeFile(f)
	return writer(f)
}
