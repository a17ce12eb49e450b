package compiler

import "fmt"

// ---------------------------------------------------------------------------
// Token types for Flux statements
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Values
	TokenIdentifier // foo, int, main
	TokenNumber     // 42, -3, 2.5
	TokenString     // "hello", kept with its quotes

	// Operators
	TokenOperator // + - * / % ^ > < == != >= <=
	TokenAssign   // =

	// Delimiters
	TokenLParen    // (
	TokenRParen    // )
	TokenComma     // ,
	TokenColon     // :
	TokenSemicolon // ;
)

var tokenNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenError:      "ERROR",
	TokenIdentifier: "IDENTIFIER",
	TokenNumber:     "NUMBER",
	TokenString:     "STRING",
	TokenOperator:   "OPERATOR",
	TokenAssign:     "=",
	TokenLParen:     "(",
	TokenRParen:     ")",
	TokenComma:      ",",
	TokenColon:      ":",
	TokenSemicolon:  ";",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", t)
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string // the raw text
	Col     int    // 1-based column in the statement
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	if t.Type == TokenError {
		return fmt.Sprintf("ERROR(%s)", t.Literal)
	}
	if len(t.Literal) > 20 {
		return fmt.Sprintf("%s(%q...)", t.Type, t.Literal[:20])
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}

// IsValue returns true for tokens that can stand alone as an operand.
func (t Token) IsValue() bool {
	return t.Type == TokenIdentifier || t.Type == TokenNumber || t.Type == TokenString
}

// Is reports whether t is the identifier word.
func (t Token) Is(word string) bool {
	return t.Type == TokenIdentifier && t.Literal == word
}

// Statement keywords. Other identifiers are names or type names.
const (
	kwIf       = "if"
	kwWhile    = "while"
	kwFor      = "for"
	kwElse     = "else"
	kwEndIf    = "endif"
	kwEndWhile = "endwhile"
	kwEndFor   = "endfor"
	kwEnd      = "end"
	kwPrint    = "print"
	kwError    = "error"
	kwInput    = "input"
	kwReturn   = "return"
)

// Keywords lists every statement keyword, for editor completion.
var Keywords = []string{
	kwIf, kwWhile, kwFor, kwElse, kwEndIf, kwEndWhile, kwEndFor,
	kwEnd, kwPrint, kwError, kwInput, kwReturn,
}
