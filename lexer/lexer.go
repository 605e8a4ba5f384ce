package lexer

import (
	"fmt"
	"io"
)

// LexerError is raised only by the typed expectation helpers (Expect /
// ExpectValue / ExpectNext), meant for a parser driving this lexer. The
// lexer's own token-recognition loop never raises it: malformed input
// degrades to CHAR tokens instead of failing.
type LexerError struct {
	msg string
}

func (e *LexerError) Error() string { return e.msg }

func newLexerError(format string, args ...any) *LexerError {
	return &LexerError{msg: fmt.Sprintf(format, args...)}
}

// Lexer tokenizes a byte stream into Mython tokens, synthesizing Newline,
// Indent, and Dedent tokens from a two-space indentation model. A Lexer is
// stateful and must be driven from a single goroutine.
type Lexer struct {
	input string
	pos   int // index of the next unread byte

	indentStack []int // indentation levels currently open, in 2-space units

	atLineStart      bool
	pendingLineSpace *int // leading-space count for the line being resolved, nil until computed

	current Token
}

// New reads all of r and constructs a Lexer positioned at its first token.
func New(r io.Reader) (*Lexer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewFromString(string(data)), nil
}

// NewFromString constructs a Lexer directly over in-memory source text.
func NewFromString(src string) *Lexer {
	l := &Lexer{
		input:       src,
		indentStack: []int{0},
		atLineStart: true,
	}
	l.current = l.scan()
	return l
}

// Current returns the most recently produced token without consuming it.
func (l *Lexer) Current() Token {
	return l.current
}

// Next advances the lexer and returns the newly current token.
func (l *Lexer) Next() Token {
	l.current = l.scan()
	return l.current
}

// Expect asserts the current token has the given kind.
func (l *Lexer) Expect(t TokenType) error {
	if l.current.Type != t {
		return newLexerError("another type was expected: want %s, got %s", t, l.current.Type)
	}
	return nil
}

// ExpectValue asserts the current token is an IDENT/STRING with the given
// string value.
func (l *Lexer) ExpectValue(t TokenType, value string) error {
	if err := l.Expect(t); err != nil {
		return err
	}
	if l.current.Str != value {
		return newLexerError("another value was expected: want %q, got %q", value, l.current.Str)
	}
	return nil
}

// ExpectNext advances then asserts the new current token's kind.
func (l *Lexer) ExpectNext(t TokenType) (Token, error) {
	l.Next()
	return l.current, l.Expect(t)
}

func (l *Lexer) byteAt0() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) advanceByte() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	b := l.input[l.pos]
	l.pos++
	return b
}

// scan produces the next token, resolving any outstanding indentation change
// first, then lexing one ordinary token.
func (l *Lexer) scan() Token {
	if l.atLineStart {
		if tok, produced := l.resolveIndentation(); produced {
			return tok
		}
	}

	l.skipSpaces()

	switch b := l.byteAt0(); {
	case b == 0:
		if !l.atLineStart {
			l.atLineStart = true
			return Simple(NEWLINE)
		}
		return Simple(EOF)
	case b == '\n' || b == '\r':
		l.consumeNewline()
		l.atLineStart = true
		l.pendingLineSpace = nil
		return Simple(NEWLINE)
	case b == '#':
		l.skipComment()
		return l.scan()
	case isDigit(b):
		return l.scanNumber()
	case isIdentStart(b):
		return l.scanIdentOrKeyword()
	case b == '"' || b == '\'':
		return l.scanString(b)
	default:
		return l.scanOperatorOrChar()
	}
}

func (l *Lexer) consumeNewline() {
	b := l.advanceByte()
	if b == '\r' && l.byteAt0() == '\n' {
		l.advanceByte()
	}
}

func (l *Lexer) skipSpaces() {
	for l.byteAt0() == ' ' {
		l.advanceByte()
	}
}

func (l *Lexer) skipComment() {
	for l.byteAt0() != '\n' && l.byteAt0() != '\r' && l.byteAt0() != 0 {
		l.advanceByte()
	}
}

// resolveIndentation implements §4.1's indentation model. It measures the
// column of the next non-blank, non-comment line exactly once per logical
// line (caching it in pendingLineSpace), then emits at most one Indent or
// Dedent per call, re-checking on the caller's next call until the line's
// level matches the open indent stack. Returns produced=false once the level
// matches (or at EOF), signalling the caller to continue with ordinary token
// scanning.
func (l *Lexer) resolveIndentation() (Token, bool) {
	if l.pendingLineSpace == nil {
		spaces := 0
		for {
			for l.byteAt0() == ' ' {
				spaces++
				l.advanceByte()
			}
			switch l.byteAt0() {
			case '\n', '\r':
				l.consumeNewline()
				spaces = 0
				continue
			case '#':
				l.skipComment()
				continue
			case 0:
				return Token{}, false
			}
			break
		}
		l.pendingLineSpace = &spaces
	}

	target := *l.pendingLineSpace / 2
	current := l.indentStack[len(l.indentStack)-1]

	switch {
	case target > current:
		l.indentStack = append(l.indentStack, current+1)
		return Simple(INDENT), true
	case target < current:
		l.indentStack = l.indentStack[:len(l.indentStack)-1]
		return Simple(DEDENT), true
	default:
		l.atLineStart = false
		l.pendingLineSpace = nil
		return Token{}, false
	}
}

func (l *Lexer) scanNumber() Token {
	start := l.pos
	for isDigit(l.byteAt0()) {
		l.advanceByte()
	}
	n := 0
	for _, c := range []byte(l.input[start:l.pos]) {
		n = n*10 + int(c-'0')
	}
	return Number(n)
}

func (l *Lexer) scanIdentOrKeyword() Token {
	start := l.pos
	for isIdentChar(l.byteAt0()) {
		l.advanceByte()
	}
	word := l.input[start:l.pos]
	if tt, ok := keywords[word]; ok {
		return Simple(tt)
	}
	return Id(word)
}

var escapeSequences = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'\'': '\'',
	'"':  '"',
}

func (l *Lexer) scanString(quote byte) Token {
	l.advanceByte() // opening quote
	var out []byte
	for {
		b := l.byteAt0()
		if b == 0 || b == quote {
			break
		}
		if b == '\\' {
			l.advanceByte()
			esc := l.byteAt0()
			if esc == 0 {
				break
			}
			if repl, ok := escapeSequences[esc]; ok {
				out = append(out, repl)
			}
			// Unknown escapes drop both the backslash and the escaped
			// character: nothing is appended for them.
			l.advanceByte()
			continue
		}
		out = append(out, b)
		l.advanceByte()
	}
	if l.byteAt0() == quote {
		l.advanceByte()
	}
	return Str(string(out))
}

func (l *Lexer) scanOperatorOrChar() Token {
	a := l.advanceByte()
	b := l.byteAt0()
	if tt, ok := keywords[string([]byte{a, b})]; ok {
		l.advanceByte()
		return Simple(tt)
	}
	return Ch(a)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isIdentChar(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

// Tokenize drains l until Eof, returning every token produced including Eof.
func Tokenize(src string) []Token {
	l := NewFromString(src)
	var toks []Token
	for {
		toks = append(toks, l.Current())
		if l.Current().Type == EOF {
			break
		}
		l.Next()
	}
	return toks
}
