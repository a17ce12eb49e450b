package compiler

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Lexer: tokenizer for a single Flux statement
// ---------------------------------------------------------------------------

// Lexer tokenizes one source statement. Statements never span lines, so
// only the column is tracked.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      rune // current character
	col     int  // current column (1-based)
	prev    TokenType
}

// NewLexer creates a new lexer for the given statement.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, prev: TokenEOF}
	l.readChar()
	return l
}

// readChar reads the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = l.readPos
	} else {
		r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
		l.ch = r
		l.pos = l.readPos
		l.readPos += size
	}
	l.col++
}

// peekChar returns the next character without consuming it.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

// Tokenize returns every token of the statement, ending with TokenEOF.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks
		}
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	tok := l.next()
	l.prev = tok.Type
	return tok
}

func (l *Lexer) next() Token {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.readChar()
	}

	col := l.col

	switch {
	case l.ch == 0:
		return Token{Type: TokenEOF, Col: col}

	case l.ch == '(':
		l.readChar()
		return Token{Type: TokenLParen, Literal: "(", Col: col}

	case l.ch == ')':
		l.readChar()
		return Token{Type: TokenRParen, Literal: ")", Col: col}

	case l.ch == ',':
		l.readChar()
		return Token{Type: TokenComma, Literal: ",", Col: col}

	case l.ch == ':':
		l.readChar()
		return Token{Type: TokenColon, Literal: ":", Col: col}

	case l.ch == ';':
		l.readChar()
		return Token{Type: TokenSemicolon, Literal: ";", Col: col}

	case l.ch == '"':
		return l.readString(col)

	case isDigit(l.ch):
		return l.readNumber(col)

	// A sign binds to the number only where an operand is expected,
	// so "a -1" stays three tokens and "= -1" is one number.
	case (l.ch == '-' || l.ch == '+') && isDigit(l.peekChar()) && !l.afterValue():
		return l.readNumber(col)

	case isLetter(l.ch) || l.ch == '_':
		return l.readIdentifier(col)

	case l.ch == '=':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return Token{Type: TokenOperator, Literal: "==", Col: col}
		}
		return Token{Type: TokenAssign, Literal: "=", Col: col}

	case l.ch == '!' || l.ch == '<' || l.ch == '>':
		first := l.ch
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return Token{Type: TokenOperator, Literal: string(first) + "=", Col: col}
		}
		if first == '!' {
			return Token{Type: TokenError, Literal: "unexpected character: !", Col: col}
		}
		return Token{Type: TokenOperator, Literal: string(first), Col: col}

	case l.ch == '+' || l.ch == '-' || l.ch == '*' || l.ch == '/' || l.ch == '%' || l.ch == '^':
		ch := l.ch
		l.readChar()
		return Token{Type: TokenOperator, Literal: string(ch), Col: col}

	default:
		ch := l.ch
		l.readChar()
		return Token{Type: TokenError, Literal: fmt.Sprintf("unexpected character: %c", ch), Col: col}
	}
}

func (l *Lexer) afterValue() bool {
	switch l.prev {
	case TokenIdentifier, TokenNumber, TokenString, TokenRParen:
		return true
	}
	return false
}

// readString reads a double-quoted string. The literal keeps its quotes and
// escape sequences; unescaping happens at run time.
func (l *Lexer) readString(col int) Token {
	start := l.pos
	l.readChar() // opening quote
	for l.ch != '"' {
		if l.ch == 0 {
			return Token{Type: TokenError, Literal: "unterminated string", Col: col}
		}
		if l.ch == '\\' {
			l.readChar()
			if l.ch == 0 {
				return Token{Type: TokenError, Literal: "unterminated string", Col: col}
			}
		}
		l.readChar()
	}
	l.readChar() // closing quote
	return Token{Type: TokenString, Literal: l.input[start:l.pos], Col: col}
}

// readNumber reads an optional sign, digits and at most one '.'.
func (l *Lexer) readNumber(col int) Token {
	start := l.pos
	if l.ch == '-' || l.ch == '+' {
		l.readChar()
	}
	seenDot := false
	for isDigit(l.ch) || (l.ch == '.' && !seenDot && isDigit(l.peekChar())) {
		if l.ch == '.' {
			seenDot = true
		}
		l.readChar()
	}
	return Token{Type: TokenNumber, Literal: l.input[start:l.pos], Col: col}
}

// readIdentifier reads letters, digits and underscores.
func (l *Lexer) readIdentifier(col int) Token {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return Token{Type: TokenIdentifier, Literal: l.input[start:l.pos], Col: col}
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
