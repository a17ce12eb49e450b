package compiler

import (
	"fmt"
	"strings"

	"github.com/chazu/flux/pkg/bytecode"
)

// ---------------------------------------------------------------------------
// Parser: fixed-shape recognizer for one Flux statement
// ---------------------------------------------------------------------------

// Parser recognizes a single statement. Each shape is tried in precedence
// order; the first one that consumes every token wins.
type Parser struct {
	toks []Token
	pos  int
}

// NewParser tokenizes a statement. A trailing ';' is ignored.
func NewParser(input string) *Parser {
	toks := Tokenize(input)
	if n := len(toks); n >= 2 && toks[n-2].Type == TokenSemicolon {
		toks = append(toks[:n-2], toks[n-1])
	}
	return &Parser{toks: toks}
}

// Parse recognizes one trimmed source statement.
func Parse(input string) Stmt {
	return NewParser(input).ParseStatement()
}

func (p *Parser) cur() Token {
	return p.at(p.pos)
}

func (p *Parser) at(i int) Token {
	if i >= len(p.toks) {
		return Token{Type: TokenEOF}
	}
	return p.toks[i]
}

func (p *Parser) curTokenIs(t TokenType) bool {
	return p.cur().Type == t
}

func (p *Parser) nextToken() Token {
	tok := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

// expect advances if the current token matches.
func (p *Parser) expect(t TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	return false
}

func (p *Parser) atEnd() bool {
	return p.curTokenIs(TokenEOF)
}

// ParseStatement classifies the statement.
func (p *Parser) ParseStatement() Stmt {
	for _, tok := range p.toks {
		if tok.Type == TokenError {
			return &Passthrough{Reason: fmt.Sprintf("column %d: %s", tok.Col, tok.Literal)}
		}
	}

	first, second := p.at(0), p.at(1)
	var s Stmt
	switch {
	case first.Type != TokenIdentifier:
		return &Passthrough{Reason: fmt.Sprintf("statement starts with %s", first.Type)}

	case (first.Is(kwIf) || first.Is(kwWhile) || first.Is(kwFor)) && second.Type == TokenLParen:
		s = p.parseOpenBlock()

	case first.Is(kwElse):
		s = p.parseKeywordOnly(&Else{}, true)

	case first.Is(kwEndIf):
		s = p.parseKeywordOnly(&CloseBlock{Kind: BlockIf}, false)

	case first.Is(kwEndWhile):
		s = p.parseKeywordOnly(&CloseBlock{Kind: BlockWhile}, false)

	case first.Is(kwEndFor):
		s = p.parseKeywordOnly(&CloseBlock{Kind: BlockFor}, false)

	case first.Is(kwEnd):
		s = p.parseKeywordOnly(&End{}, false)

	case first.Is(kwReturn):
		s = p.parseReturn()

	case first.Is(kwPrint) && second.Type == TokenLParen:
		s = p.parsePrint()

	case first.Is(kwError) && second.Type == TokenLParen:
		s = p.parseError()

	case first.Is(kwInput) && second.Type == TokenLParen:
		s = p.parseInput()

	case second.Type == TokenIdentifier && p.at(2).Type == TokenLParen:
		s = p.parseFuncDecl()

	case second.Type == TokenIdentifier && p.at(2).Type == TokenAssign:
		s = p.parseAssign(true)

	case second.Type == TokenAssign:
		s = p.parseAssign(false)

	case second.Type == TokenLParen:
		s = p.parseCall()
	}

	if s == nil || !p.atEnd() {
		return &Passthrough{Reason: "unrecognized statement"}
	}
	return s
}

// parseKeywordOnly accepts the bare keyword, optionally followed by ':'.
func (p *Parser) parseKeywordOnly(s Stmt, colon bool) Stmt {
	p.nextToken()
	if colon {
		p.expect(TokenColon)
	}
	return s
}

// parseOpenBlock parses `kw ( cond ) :`.
func (p *Parser) parseOpenBlock() Stmt {
	var kind BlockKind
	switch kw := p.nextToken(); kw.Literal {
	case kwIf:
		kind = BlockIf
	case kwWhile:
		kind = BlockWhile
	default:
		kind = BlockFor
	}
	inner, ok := p.parseParenGroup()
	if !ok || !p.expect(TokenColon) {
		return nil
	}
	cond, ok := exprFromTokens(inner)
	if !ok {
		return nil
	}
	return &OpenBlock{Kind: kind, Cond: cond}
}

// parseFuncDecl parses `type name ( type a , type b ) :`.
func (p *Parser) parseFuncDecl() Stmt {
	retType := p.nextToken().Literal
	name := p.nextToken().Literal
	inner, ok := p.parseParenGroup()
	if !ok || !p.expect(TokenColon) {
		return nil
	}
	var params []bytecode.Param
	for _, group := range splitTopLevel(inner) {
		if len(group) != 2 || group[0].Type != TokenIdentifier || group[1].Type != TokenIdentifier {
			return nil
		}
		params = append(params, bytecode.Param{Type: group[0].Literal, Name: group[1].Literal})
	}
	return &FuncDecl{ReturnType: retType, Name: name, Params: params}
}

// parseReturn parses `return` or `return expr`.
func (p *Parser) parseReturn() Stmt {
	p.nextToken()
	rest := p.rest()
	if len(rest) == 0 {
		return &Return{}
	}
	e, ok := exprFromTokens(rest)
	if !ok {
		return nil
	}
	return &Return{Value: &e}
}

// parseAssign parses `[type] var = expr`.
func (p *Parser) parseAssign(typed bool) Stmt {
	a := &Assign{}
	if typed {
		a.Type = p.nextToken().Literal
	}
	a.Var = p.nextToken().Literal
	p.nextToken() // =
	e, ok := exprFromTokens(p.rest())
	if !ok {
		return nil
	}
	a.Value = e
	return a
}

// parsePrint parses `print(args)`.
func (p *Parser) parsePrint() Stmt {
	p.nextToken()
	inner, ok := p.parseParenGroup()
	if !ok {
		return nil
	}
	args, ok := argTexts(inner)
	if !ok {
		return nil
	}
	if len(args) >= 2 && isTemplate(inner, args) {
		return &Print{Template: args[0], Args: args[1:]}
	}
	return &Print{Args: args}
}

// isTemplate detects `print("...$name...", name, ...)`: a string with a '$'
// followed only by plain identifiers.
func isTemplate(inner []Token, args []string) bool {
	groups := splitTopLevel(inner)
	if len(groups[0]) != 1 || groups[0][0].Type != TokenString || !strings.Contains(args[0], "$") {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 1 || g[0].Type != TokenIdentifier {
			return false
		}
	}
	return true
}

// parseError parses `error(text)`.
func (p *Parser) parseError() Stmt {
	p.nextToken()
	inner, ok := p.parseParenGroup()
	if !ok {
		return nil
	}
	args, ok := argTexts(inner)
	if !ok || len(args) != 1 {
		return nil
	}
	return &ErrorOut{Text: args[0]}
}

// parseInput parses `input(var)` or `input(prompt, var)`.
func (p *Parser) parseInput() Stmt {
	p.nextToken()
	inner, ok := p.parseParenGroup()
	if !ok {
		return nil
	}
	groups := splitTopLevel(inner)
	if len(groups) == 0 {
		return nil
	}
	last := groups[len(groups)-1]
	if len(last) != 1 || last[0].Type != TokenIdentifier {
		return nil
	}
	switch len(groups) {
	case 1:
		return &Input{Var: last[0].Literal}
	case 2:
		if len(groups[0]) != 1 || !groups[0][0].IsValue() {
			return nil
		}
		return &Input{Prompt: groups[0][0].Literal, Var: last[0].Literal}
	}
	return nil
}

// parseCall parses a bare `name(args)`.
func (p *Parser) parseCall() Stmt {
	name := p.nextToken().Literal
	inner, ok := p.parseParenGroup()
	if !ok {
		return nil
	}
	args, ok := argTexts(inner)
	if !ok {
		return nil
	}
	return &Call{Name: name, Args: args}
}

// parseParenGroup consumes a balanced `( ... )` and returns the tokens
// between the outer parentheses.
func (p *Parser) parseParenGroup() ([]Token, bool) {
	if !p.expect(TokenLParen) {
		return nil, false
	}
	start := p.pos
	depth := 1
	for !p.atEnd() {
		switch p.cur().Type {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
			if depth == 0 {
				inner := p.toks[start:p.pos]
				p.nextToken()
				return inner, true
			}
		}
		p.nextToken()
	}
	return nil, false
}

// rest consumes every remaining token.
func (p *Parser) rest() []Token {
	var out []Token
	for !p.atEnd() {
		out = append(out, p.nextToken())
	}
	return out
}

// splitTopLevel splits tokens on commas outside nested parentheses. An
// empty input yields no groups.
func splitTopLevel(toks []Token) [][]Token {
	if len(toks) == 0 {
		return nil
	}
	var groups [][]Token
	depth, start := 0, 0
	for i, t := range toks {
		switch t.Type {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
		case TokenComma:
			if depth == 0 {
				groups = append(groups, toks[start:i])
				start = i + 1
			}
		}
	}
	return append(groups, toks[start:])
}

// argTexts returns the operand text of each top-level argument. Every
// argument must be a single value; `f(a,)` or `f(a + b)` fails the match.
func argTexts(toks []Token) ([]string, bool) {
	groups := splitTopLevel(toks)
	if len(groups) == 0 {
		return nil, true
	}
	out := make([]string, len(groups))
	for i, g := range groups {
		if len(g) != 1 || !g[0].IsValue() {
			return nil, false
		}
		out[i] = g[0].Literal
	}
	return out, true
}

// exprFromTokens matches a single value or the three-token `A op B`
// pattern against the operator table. Any other token run is rejected so
// the statement falls through untranslated.
func exprFromTokens(toks []Token) (Expr, bool) {
	switch {
	case len(toks) == 1 && toks[0].IsValue():
		return Expr{Left: toks[0].Literal}, true
	case len(toks) == 3 && toks[0].IsValue() && toks[2].IsValue() && toks[1].Type == TokenOperator:
		if _, ok := bytecode.BinaryOpcode(toks[1].Literal); ok {
			return Expr{Left: toks[0].Literal, Op: toks[1].Literal, Right: toks[2].Literal}, true
		}
	}
	return Expr{}, false
}
