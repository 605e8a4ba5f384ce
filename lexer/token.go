// Package lexer tokenizes Mython source into a token stream with explicit
// indent/dedent/newline events.
package lexer

import "fmt"

// TokenType identifies the kind of a Token.
type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL

	// Literals carrying a payload.
	NUMBER // 123
	IDENT  // identifier
	STRING // "..." or '...'
	CHAR   // any single-byte operator not otherwise recognized

	// Structural tokens synthesized by the indentation model.
	NEWLINE
	INDENT
	DEDENT

	// Keywords.
	CLASS
	RETURN
	IF
	ELSE
	DEF
	PRINT
	AND
	OR
	NOT
	NONE
	TRUE
	FALSE

	// Two-character operators.
	EQ           // ==
	NOT_EQ       // !=
	LESS_OR_EQ   // <=
	GREATER_OR_EQ // >=
)

var tokenNames = map[TokenType]string{
	EOF:           "Eof",
	ILLEGAL:       "Illegal",
	NUMBER:        "Number",
	IDENT:         "Id",
	STRING:        "String",
	CHAR:          "Char",
	NEWLINE:       "Newline",
	INDENT:        "Indent",
	DEDENT:        "Dedent",
	CLASS:         "Class",
	RETURN:        "Return",
	IF:            "If",
	ELSE:          "Else",
	DEF:           "Def",
	PRINT:         "Print",
	AND:           "And",
	OR:            "Or",
	NOT:           "Not",
	NONE:          "None",
	TRUE:          "True",
	FALSE:         "False",
	EQ:            "Eq",
	NOT_EQ:        "NotEq",
	LESS_OR_EQ:    "LessOrEq",
	GREATER_OR_EQ: "GreaterOrEq",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// keywords maps reserved words and two-character operators to their token
// kind. Kept as the single source of truth, mirroring the original source's
// key_words_ table.
var keywords = map[string]TokenType{
	"class":  CLASS,
	"return": RETURN,
	"if":     IF,
	"else":   ELSE,
	"def":    DEF,
	"print":  PRINT,
	"and":    AND,
	"or":     OR,
	"not":    NOT,
	"None":   NONE,
	"True":   TRUE,
	"False":  FALSE,
	"==":     EQ,
	"!=":     NOT_EQ,
	"<=":     LESS_OR_EQ,
	">=":     GREATER_OR_EQ,
}

// Token is a tagged variant: Type selects which payload field, if any, is
// meaningful. Equality is structural (see Token.Equal).
type Token struct {
	Type TokenType
	Num  int
	Str  string // used by IDENT and STRING
	Ch   byte   // used by CHAR
}

// Equal reports structural equality between two tokens, matching the payload
// comparison rules of the original variant-based Token type: only
// payload-bearing kinds compare their payload, everything else compares
// equal once the Type matches.
func (t Token) Equal(o Token) bool {
	if t.Type != o.Type {
		return false
	}
	switch t.Type {
	case NUMBER:
		return t.Num == o.Num
	case IDENT, STRING:
		return t.Str == o.Str
	case CHAR:
		return t.Ch == o.Ch
	default:
		return true
	}
}

// String renders the display form "Kind{value}" for payload-bearing kinds and
// bare "Kind" otherwise.
func (t Token) String() string {
	switch t.Type {
	case NUMBER:
		return fmt.Sprintf("%s{%d}", t.Type, t.Num)
	case IDENT, STRING:
		return fmt.Sprintf("%s{%s}", t.Type, t.Str)
	case CHAR:
		return fmt.Sprintf("%s{%c}", t.Type, t.Ch)
	default:
		return t.Type.String()
	}
}

// Keywords exposes the reserved-word/operator-to-token-type table so other
// packages (the supplementary parser, in particular) can recover a keyword
// token's canonical source spelling without duplicating this table.
func Keywords() map[string]TokenType {
	return keywords
}

func Number(n int) Token   { return Token{Type: NUMBER, Num: n} }
func Id(s string) Token    { return Token{Type: IDENT, Str: s} }
func Str(s string) Token   { return Token{Type: STRING, Str: s} }
func Ch(c byte) Token      { return Token{Type: CHAR, Ch: c} }
func Simple(t TokenType) Token { return Token{Type: t} }
