package compiler

import (
	"testing"
)

func TestLexerBasicTokens(t *testing.T) {
	input := `( ) , : ; = == != >= <= > < + * / % ^`
	expected := []struct {
		typ TokenType
		lit string
	}{
		{TokenLParen, "("},
		{TokenRParen, ")"},
		{TokenComma, ","},
		{TokenColon, ":"},
		{TokenSemicolon, ";"},
		{TokenAssign, "="},
		{TokenOperator, "=="},
		{TokenOperator, "!="},
		{TokenOperator, ">="},
		{TokenOperator, "<="},
		{TokenOperator, ">"},
		{TokenOperator, "<"},
		{TokenOperator, "+"},
		{TokenOperator, "*"},
		{TokenOperator, "/"},
		{TokenOperator, "%"},
		{TokenOperator, "^"},
		{TokenEOF, ""},
	}

	l := NewLexer(input)
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.typ {
			t.Errorf("token[%d] type = %v, want %v", i, tok.Type, exp.typ)
		}
		if tok.Literal != exp.lit {
			t.Errorf("token[%d] literal = %q, want %q", i, tok.Literal, exp.lit)
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"0", "0"},
		{"-123", "-123"},
		{"+7", "+7"},
		{"2.5", "2.5"},
		{"-0.25", "-0.25"},
	}

	for _, tc := range tests {
		l := NewLexer(tc.input)
		tok := l.NextToken()
		if tok.Type != TokenNumber {
			t.Errorf("Lexer(%q): type = %v, want NUMBER", tc.input, tok.Type)
		}
		if tok.Literal != tc.want {
			t.Errorf("Lexer(%q): literal = %q, want %q", tc.input, tok.Literal, tc.want)
		}
	}
}

func TestLexerSignAfterValue(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a -1", []string{"a", "-", "1"}},
		{"x = -1", []string{"x", "=", "-1"}},
		{"f(-2)", []string{"f", "(", "-2", ")"}},
		{"3 - 2", []string{"3", "-", "2"}},
		{"(a)-1", []string{"(", "a", ")", "-", "1"}},
	}

	for _, tc := range tests {
		toks := Tokenize(tc.input)
		var got []string
		for _, tok := range toks[:len(toks)-1] {
			got = append(got, tok.Literal)
		}
		if len(got) != len(tc.want) {
			t.Errorf("Tokenize(%q) = %q, want %q", tc.input, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("Tokenize(%q)[%d] = %q, want %q", tc.input, i, got[i], tc.want[i])
			}
		}
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello"`, `"hello"`},
		{`"a, b"`, `"a, b"`},
		{`"line\n"`, `"line\n"`},
		{`"say \"hi\""`, `"say \"hi\""`},
		{`""`, `""`},
	}

	for _, tc := range tests {
		tok := NewLexer(tc.input).NextToken()
		if tok.Type != TokenString {
			t.Errorf("Lexer(%q): type = %v, want STRING", tc.input, tok.Type)
		}
		if tok.Literal != tc.want {
			t.Errorf("Lexer(%q): literal = %q, want %q", tc.input, tok.Literal, tc.want)
		}
	}
}

func TestLexerIdentifiers(t *testing.T) {
	toks := Tokenize("int total_2 = __ret")
	want := []string{"int", "total_2"}
	for i, w := range want {
		if toks[i].Type != TokenIdentifier || toks[i].Literal != w {
			t.Errorf("token[%d] = %v, want IDENTIFIER(%q)", i, toks[i], w)
		}
	}
	if toks[3].Type != TokenIdentifier || toks[3].Literal != "__ret" {
		t.Errorf("token[3] = %v, want IDENTIFIER(\"__ret\")", toks[3])
	}
}

func TestLexerColumns(t *testing.T) {
	toks := Tokenize("if(x > 1):")
	cols := []int{1, 3, 4, 6, 8, 9, 10}
	for i, c := range cols {
		if toks[i].Col != c {
			t.Errorf("token[%d] %v col = %d, want %d", i, toks[i], toks[i].Col, c)
		}
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []string{
		`"unterminated`,
		`"trailing\`,
		`!`,
		`@`,
	}

	for _, input := range tests {
		tok := NewLexer(input).NextToken()
		if tok.Type != TokenError {
			t.Errorf("Lexer(%q): type = %v, want ERROR", input, tok.Type)
		}
	}
}

func TestLexerEOF(t *testing.T) {
	l := NewLexer("   ")
	for i := 0; i < 3; i++ {
		if tok := l.NextToken(); tok.Type != TokenEOF {
			t.Errorf("NextToken #%d = %v, want EOF", i, tok)
		}
	}
}
