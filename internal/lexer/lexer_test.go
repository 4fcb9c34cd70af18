package lexer

import (
	"testing"
)

func collect(input string) []Token {
	l := New(input, "test.lang")
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func TestNextTokenBasics(t *testing.T) {
	input := `inc = \x -> x + 1`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{IDENT, "inc"},
		{ASSIGN, "="},
		{LAMBDA, "\\"},
		{IDENT, "x"},
		{ARROW, "->"},
		{IDENT, "x"},
		{PLUS, "+"},
		{NUM, "1"},
		{EOF, ""},
	}

	l := New(input, "test.lang")
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - wrong type. expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - wrong literal. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `a ++ b &> c ^ d * e`
	expected := []TokenType{IDENT, APPEND, IDENT, BIND, IDENT, CARET, IDENT, STAR, IDENT, EOF}
	for i, tok := range collect(input) {
		if tok.Type != expected[i] {
			t.Fatalf("token %d: expected %q, got %q", i, expected[i], tok.Type)
		}
	}
}

func TestConsVersusIdent(t *testing.T) {
	toks := collect(`Ok err When when`)
	expected := []struct {
		typ     TokenType
		literal string
	}{
		{CONS, "Ok"},
		{IDENT, "err"},
		{CONS, "When"},
		{WHEN, "when"},
	}
	for i, e := range expected {
		if toks[i].Type != e.typ || toks[i].Literal != e.literal {
			t.Fatalf("token %d: expected %q %q, got %q %q", i, e.typ, e.literal, toks[i].Type, toks[i].Literal)
		}
	}
}

func TestKeywords(t *testing.T) {
	toks := collect(`when v is Ok else import`)
	expected := []TokenType{WHEN, IDENT, IS, CONS, ELSE, IMPORT, EOF}
	for i, e := range expected {
		if toks[i].Type != e {
			t.Fatalf("token %d: expected %q, got %q", i, e, toks[i].Type)
		}
	}
}

func TestNumbers(t *testing.T) {
	toks := collect(`42 3.14`)
	if toks[0].Type != NUM || toks[0].Literal != "42" {
		t.Fatalf("expected NUM 42, got %s", toks[0])
	}
	if toks[1].Type != NUM || toks[1].Literal != "3.14" {
		t.Fatalf("expected NUM 3.14, got %s", toks[1])
	}
}

func TestStringEscapes(t *testing.T) {
	toks := collect(`"a\nb\"c"`)
	if toks[0].Type != STRING {
		t.Fatalf("expected STRING, got %q", toks[0].Type)
	}
	if toks[0].Literal != "a\nb\"c" {
		t.Fatalf("wrong literal: %q", toks[0].Literal)
	}
}

func TestUnterminatedString(t *testing.T) {
	toks := collect(`"abc`)
	if toks[0].Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %q", toks[0].Type)
	}
}

func TestComments(t *testing.T) {
	toks := collect("x # the rest is ignored\ny")
	expected := []TokenType{IDENT, NEWLINE, IDENT, EOF}
	for i, e := range expected {
		if toks[i].Type != e {
			t.Fatalf("token %d: expected %q, got %q", i, e, toks[i].Type)
		}
	}
}

func TestNewlineSeparatesDeclarations(t *testing.T) {
	toks := collect("x = 1\ny = 2")
	expected := []TokenType{IDENT, ASSIGN, NUM, NEWLINE, IDENT, ASSIGN, NUM, EOF}
	for i, e := range expected {
		if toks[i].Type != e {
			t.Fatalf("token %d: expected %q, got %q", i, e, toks[i].Type)
		}
	}
}

func TestNewlineSuppressedInsideBrackets(t *testing.T) {
	toks := collect("[1,\n2,\n3]")
	for _, tok := range toks {
		if tok.Type == NEWLINE {
			t.Fatalf("unexpected NEWLINE inside brackets")
		}
	}
}

func TestNewlineSuppressedAfterOperator(t *testing.T) {
	toks := collect("x = 1 +\n2")
	expected := []TokenType{IDENT, ASSIGN, NUM, PLUS, NUM, EOF}
	for i, e := range expected {
		if toks[i].Type != e {
			t.Fatalf("token %d: expected %q, got %q", i, e, toks[i].Type)
		}
	}
}

func TestConsecutiveNewlinesCollapse(t *testing.T) {
	toks := collect("x\n\n\ny")
	expected := []TokenType{IDENT, NEWLINE, IDENT, EOF}
	for i, e := range expected {
		if toks[i].Type != e {
			t.Fatalf("token %d: expected %q, got %q", i, e, toks[i].Type)
		}
	}
}

func TestPositions(t *testing.T) {
	l := New("ab cd", "pos.lang")
	first := l.NextToken()
	second := l.NextToken()
	if first.Line != 1 || first.Column != 1 {
		t.Fatalf("first token at %d:%d", first.Line, first.Column)
	}
	if second.Column != 4 {
		t.Fatalf("second token at column %d", second.Column)
	}
	if first.Position() != "pos.lang:1:1" {
		t.Fatalf("position string: %s", first.Position())
	}
}

func TestNormalizeStripsBOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("x")...)
	got := Normalize(src)
	if string(got) != "x" {
		t.Fatalf("BOM not stripped: %q", got)
	}
}

func TestNormalizeNFC(t *testing.T) {
	// "é" as 'e' + combining acute must normalize to the precomposed form
	decomposed := "é"
	got := Normalize([]byte(decomposed))
	if string(got) != "é" {
		t.Fatalf("expected NFC form, got %q", got)
	}
}
