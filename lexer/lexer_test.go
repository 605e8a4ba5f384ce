package lexer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mythonlang/mython/lexer"
)

func types(toks []lexer.Token) []lexer.TokenType {
	out := make([]lexer.TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestTokenEqualityIsStructural(t *testing.T) {
	a := lexer.Number(7)
	b := lexer.Number(7)
	assert.True(t, a.Equal(b))
	assert.True(t, a.Equal(a))

	c := lexer.Number(8)
	assert.False(t, a.Equal(c))

	assert.True(t, lexer.Simple(lexer.CLASS).Equal(lexer.Simple(lexer.CLASS)))
	assert.False(t, lexer.Simple(lexer.CLASS).Equal(lexer.Simple(lexer.DEF)))
}

func TestTokenDisplayForm(t *testing.T) {
	assert.Equal(t, "Number{7}", lexer.Number(7).String())
	assert.Equal(t, "Id{x}", lexer.Id("x").String())
	assert.Equal(t, "String{hi}", lexer.Str("hi").String())
	assert.Equal(t, "Char{=}", lexer.Ch('=').String())
	assert.Equal(t, "Class", lexer.Simple(lexer.CLASS).String())
	assert.Equal(t, "Eof", lexer.Simple(lexer.EOF).String())
}

func TestSimpleAssignment(t *testing.T) {
	got := types(lexer.Tokenize("x = 1\n"))
	want := []lexer.TokenType{
		lexer.IDENT, lexer.CHAR, lexer.NUMBER, lexer.NEWLINE, lexer.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestTwoCharOperators(t *testing.T) {
	cases := map[string]lexer.TokenType{
		"==": lexer.EQ,
		"!=": lexer.NOT_EQ,
		"<=": lexer.LESS_OR_EQ,
		">=": lexer.GREATER_OR_EQ,
	}
	for src, want := range cases {
		toks := lexer.Tokenize(src + "\n")
		require.GreaterOrEqual(t, len(toks), 1)
		assert.Equal(t, want, toks[0].Type, "source %q", src)
	}
}

func TestKeywordTable(t *testing.T) {
	src := "class return if else def print and or not None True False\n"
	got := types(lexer.Tokenize(src))
	want := []lexer.TokenType{
		lexer.CLASS, lexer.RETURN, lexer.IF, lexer.ELSE, lexer.DEF, lexer.PRINT,
		lexer.AND, lexer.OR, lexer.NOT, lexer.NONE, lexer.TRUE, lexer.FALSE,
		lexer.NEWLINE, lexer.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("keyword token types mismatch (-want +got):\n%s", diff)
	}
}

func TestStringEscapes(t *testing.T) {
	toks := lexer.Tokenize(`"a\nb\tc\'d\"e\qf"` + "\n")
	require.Equal(t, lexer.STRING, toks[0].Type)
	assert.Equal(t, "a\nb\tc'd\"ef", toks[0].Str, "unknown escape \\q drops both characters")
}

func TestCommentsAndBlankLinesAreTransparent(t *testing.T) {
	src := "# a leading comment\n\nx = 1  # trailing comment\n\n\ny = 2\n"
	got := types(lexer.Tokenize(src))
	want := []lexer.TokenType{
		lexer.IDENT, lexer.CHAR, lexer.NUMBER, lexer.NEWLINE,
		lexer.IDENT, lexer.CHAR, lexer.NUMBER, lexer.NEWLINE,
		lexer.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

// TestIndentDedent uses a column-0 baseline fixture, since indentation is
// tracked purely by column deltas from whatever level is already open rather
// than against an assumed absolute top-level column.
func TestIndentDedent(t *testing.T) {
	src := "a = 1\n  b = 2\na = 3\n"
	got := types(lexer.Tokenize(src))
	want := []lexer.TokenType{
		lexer.IDENT, lexer.CHAR, lexer.NUMBER, lexer.NEWLINE,
		lexer.INDENT,
		lexer.IDENT, lexer.CHAR, lexer.NUMBER, lexer.NEWLINE,
		lexer.DEDENT,
		lexer.IDENT, lexer.CHAR, lexer.NUMBER, lexer.NEWLINE,
		lexer.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMultiLevelDedent(t *testing.T) {
	src := "a = 1\n  b = 2\n    c = 3\nd = 4\n"
	got := types(lexer.Tokenize(src))
	want := []lexer.TokenType{
		lexer.IDENT, lexer.CHAR, lexer.NUMBER, lexer.NEWLINE,
		lexer.INDENT,
		lexer.IDENT, lexer.CHAR, lexer.NUMBER, lexer.NEWLINE,
		lexer.INDENT,
		lexer.IDENT, lexer.CHAR, lexer.NUMBER, lexer.NEWLINE,
		lexer.DEDENT, lexer.DEDENT,
		lexer.IDENT, lexer.CHAR, lexer.NUMBER, lexer.NEWLINE,
		lexer.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

// TestIndentBalance checks that the number of Indent tokens preceding any
// prefix of the stream is >= the number of Dedents.
func TestIndentBalance(t *testing.T) {
	src := "a = 1\n  b = 2\n    c = 3\n  d = 4\ne = 5\n"
	toks := lexer.Tokenize(src)
	indents, dedents := 0, 0
	for _, tok := range toks {
		switch tok.Type {
		case lexer.INDENT:
			indents++
		case lexer.DEDENT:
			dedents++
		}
		assert.GreaterOrEqual(t, indents, dedents)
	}
}

func TestMissingTrailingNewlineIsSynthesized(t *testing.T) {
	got := types(lexer.Tokenize("x = 1"))
	want := []lexer.TokenType{lexer.IDENT, lexer.CHAR, lexer.NUMBER, lexer.NEWLINE, lexer.EOF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyInputIsJustEof(t *testing.T) {
	got := types(lexer.Tokenize(""))
	assert.Equal(t, []lexer.TokenType{lexer.EOF}, got)
}

func TestExpectHelpers(t *testing.T) {
	l := lexer.NewFromString("x = 1\n")
	require.NoError(t, l.Expect(lexer.IDENT))
	require.NoError(t, l.ExpectValue(lexer.IDENT, "x"))
	_, err := l.ExpectNext(lexer.NUMBER)
	assert.Error(t, err, "current token after 'x' is the '=' Char, not Number")
}

func TestDoesNotFlushTrailingDedentsAtEof(t *testing.T) {
	// No trailing Dedents are synthesized for indent levels still open when
	// Eof is reached.
	got := types(lexer.Tokenize("a = 1\n  b = 2\n"))
	want := []lexer.TokenType{
		lexer.IDENT, lexer.CHAR, lexer.NUMBER, lexer.NEWLINE,
		lexer.INDENT,
		lexer.IDENT, lexer.CHAR, lexer.NUMBER, lexer.NEWLINE,
		lexer.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
