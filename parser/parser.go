package parser

import (
	"io"

	"github.com/alecthomas/participle/v2"

	"github.com/mythonlang/mython/ast"
)

// defaultParser is built once at package init: a grammar is expensive enough
// to construct that it is worth building exactly once per process rather
// than per call.
var (
	defaultParser    *participle.Parser[Program]
	defaultParserErr error
)

func init() {
	defaultParser, defaultParserErr = participle.Build[Program](
		participle.Lexer(definition{}),
	)
}

// ParseString parses Mython source held entirely in memory into a single
// top-level Statement (an ast.Compound over every statement in the file).
func ParseString(src string) (ast.Statement, error) {
	if defaultParserErr != nil {
		return nil, defaultParserErr
	}
	program, err := defaultParser.ParseString("", src)
	if err != nil {
		return nil, err
	}
	return buildProgram(program)
}

// Parse reads and parses Mython source from r.
func Parse(r io.Reader) (ast.Statement, error) {
	if defaultParserErr != nil {
		return nil, defaultParserErr
	}
	program, err := defaultParser.Parse("", r)
	if err != nil {
		return nil, err
	}
	return buildProgram(program)
}
