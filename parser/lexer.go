// Package parser adapts the token stream from package lexer into statement
// trees from package ast, using a participle grammar. It is supplementary
// scaffolding for running whole programs end to end; its own parsing
// robustness is not part of the language's core guarantees the way the
// lexer's tokenization and the evaluator's execution semantics are.
package parser

import (
	"fmt"
	"io"

	plex "github.com/alecthomas/participle/v2/lexer"

	mlex "github.com/mythonlang/mython/lexer"
)

// symbolTable lists every mlex.TokenType the grammar references by name
// (@Ident, Newline, Indent, ...), in a fixed, arbitrary order used only to
// assign each a distinct participle TokenType.
var symbolTable = []struct {
	name string
	kind mlex.TokenType
}{
	{"Ident", mlex.IDENT},
	{"Number", mlex.NUMBER},
	{"String", mlex.STRING},
	{"Char", mlex.CHAR},
	{"Newline", mlex.NEWLINE},
	{"Indent", mlex.INDENT},
	{"Dedent", mlex.DEDENT},
	// Keyword is the fallback participle type for every reserved word and
	// multi-character operator (class, def, if, ==, and, ...) — tokens the
	// grammar only ever references through quoted literals ('class', '=='),
	// never by symbol name, so they all share this one type. Literal
	// matching in participle compares Token.Value, not Token.Type, so
	// sharing a type here does not make them ambiguous to the grammar.
	// mlex.ILLEGAL is never actually produced by package lexer (malformed
	// input degrades to Char tokens instead), so its slot doubles as this
	// catch-all's backing TokenType.
	{"Keyword", mlex.ILLEGAL},
}

var keywordTextTable = invertKeywords()

func invertKeywords() map[mlex.TokenType]string {
	m := make(map[mlex.TokenType]string, len(mlex.Keywords()))
	for word, kind := range mlex.Keywords() {
		m[kind] = word
	}
	return m
}

// definition is a participle lexer.Definition wrapping package lexer's
// indentation-aware scanner. It never tokenizes source itself; it only
// relabels mlex.Token values into participle's Token shape.
type definition struct{}

func (definition) Symbols() map[string]plex.TokenType {
	syms := map[string]plex.TokenType{"EOF": plex.EOF}
	for i, s := range symbolTable {
		syms[s.name] = plex.TokenType(-(i + 2))
	}
	return syms
}

func (d definition) Lex(filename string, r io.Reader) (plex.Lexer, error) {
	ml, err := mlex.New(r)
	if err != nil {
		return nil, err
	}
	syms := d.Symbols()
	kindType := make(map[mlex.TokenType]plex.TokenType, len(symbolTable))
	for _, s := range symbolTable {
		kindType[s.kind] = syms[s.name]
	}
	return &tokenLexer{inner: ml, filename: filename, kindType: kindType}, nil
}

// tokenLexer satisfies participle's lexer.Lexer by pulling tokens one at a
// time from the wrapped mlex.Lexer. Source positions are not tracked by
// package lexer, so only Offset advances; Line/Column stay fixed. This is
// acceptable here since this parser's own diagnostics are not part of what
// the language promises callers.
//
// package lexer deliberately never synthesizes trailing Dedents at Eof (see
// its own note on that choice). This parser's grammar closes every block
// with an explicit Dedent, so depth tracks how many Indents are still open;
// reaching Eof with depth>0 synthesizes the missing closing Dedents before
// ever handing participle an Eof token.
type tokenLexer struct {
	inner    *mlex.Lexer
	filename string
	offset   int
	kindType map[mlex.TokenType]plex.TokenType
	depth    int
}

func (t *tokenLexer) Next() (plex.Token, error) {
	tok := t.inner.Current()
	pos := plex.Position{Filename: t.filename, Offset: t.offset, Line: 1, Column: 1}
	t.offset++

	if tok.Type == mlex.EOF {
		if t.depth > 0 {
			t.depth--
			return plex.Token{Type: t.kindType[mlex.DEDENT], Value: "", Pos: pos}, nil
		}
		return plex.Token{Type: plex.EOF, Pos: pos}, nil
	}

	switch tok.Type {
	case mlex.INDENT:
		t.depth++
	case mlex.DEDENT:
		t.depth--
	}

	ptype, ok := t.kindType[tok.Type]
	if !ok {
		ptype = t.kindType[mlex.ILLEGAL]
	}
	value := tokenValue(tok)
	t.inner.Next()
	return plex.Token{Type: ptype, Value: value, Pos: pos}, nil
}

func tokenValue(tok mlex.Token) string {
	switch tok.Type {
	case mlex.NUMBER:
		return fmt.Sprintf("%d", tok.Num)
	case mlex.IDENT, mlex.STRING:
		return tok.Str
	case mlex.CHAR:
		return string(rune(tok.Ch))
	default:
		return keywordTextTable[tok.Type]
	}
}
