package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultErrorSymbol names the token emitted for unmatched input when a
// definition does not choose one.
const DefaultErrorSymbol = "#ERROR"

var (
	// ErrNoRules is returned for a definition without rules.
	ErrNoRules = errors.New("definition has no rules")
	// ErrInvalidRule is returned for a rule without a name, with a duplicate
	// name, or without exactly one of pattern and literal.
	ErrInvalidRule = errors.New("invalid rule")
)

// Rule is one token of a lexer definition. Exactly one of Pattern and
// Literal is set.
type Rule struct {
	Name            string `yaml:"name"`
	Pattern         string `yaml:"pattern,omitempty"`
	Literal         string `yaml:"literal,omitempty"`
	CaseInsensitive bool   `yaml:"case_insensitive,omitempty"`
}

// Definition is a lexer definition file. Rules listed first win when two of
// them match the same text.
type Definition struct {
	Name        string `yaml:"name"`
	Package     string `yaml:"package,omitempty"`
	ErrorSymbol string `yaml:"error_symbol,omitempty"`
	Rules       []Rule `yaml:"rules"`
}

// Load decodes a YAML definition from r and validates it.
func Load(r io.Reader) (*Definition, error) {
	var d Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRules
		}
		return nil, fmt.Errorf("decode definition: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadFile reads a definition from path.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Marshal encodes the definition as YAML.
func (d *Definition) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// Validate checks the rules and fills in defaults.
func (d *Definition) Validate() error {
	if len(d.Rules) == 0 {
		return ErrNoRules
	}
	if d.ErrorSymbol == "" {
		d.ErrorSymbol = DefaultErrorSymbol
	}
	seen := make(map[string]bool, len(d.Rules))
	for i, r := range d.Rules {
		switch {
		case r.Name == "":
			return fmt.Errorf("%w: rule %d has no name", ErrInvalidRule, i)
		case r.Name == d.ErrorSymbol:
			return fmt.Errorf("%w: rule %q uses the error symbol", ErrInvalidRule, r.Name)
		case seen[r.Name]:
			return fmt.Errorf("%w: rule %q is defined twice", ErrInvalidRule, r.Name)
		case (r.Pattern == "") == (r.Literal == ""):
			return fmt.Errorf("%w: rule %q needs exactly one of pattern and literal", ErrInvalidRule, r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}

// SampleDefinition returns the starter definition written by the init command.
func SampleDefinition() *Definition {
	return &Definition{
		Name:        "sample",
		Package:     "lexer",
		ErrorSymbol: DefaultErrorSymbol,
		Rules: []Rule{
			{Name: "If", Literal: "if", CaseInsensitive: true},
			{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
			{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?`},
			{Name: "String", Pattern: `"([^"\\\n]|\\.)*"`},
			{Name: "Op", Pattern: `[-+*/=<>!]=?`},
			{Name: "Space", Pattern: `\s+`},
		},
	}
}
