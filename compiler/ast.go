package compiler

import (
	"github.com/chazu/flux/pkg/bytecode"
)

// ---------------------------------------------------------------------------
// Statement nodes for Flux source lines
// ---------------------------------------------------------------------------

// Stmt is one recognized source statement. The set of statement shapes is
// closed; anything else parses to a *Passthrough.
type Stmt interface {
	stmt() // marker method
}

// Expr is a statement operand: either a single value (Op == "") or the
// three-token form `Left Op Right` with a known operator.
type Expr struct {
	Left  string
	Op    string
	Right string
}

// IsBinary reports whether the expression matched the `A op B` pattern.
func (e Expr) IsBinary() bool {
	return e.Op != ""
}

// Opcode returns the instruction for a binary expression.
func (e Expr) Opcode() bytecode.Opcode {
	op, _ := bytecode.BinaryOpcode(e.Op)
	return op
}

// OpenBlock is `if(cond):`, `while(cond):` or `for(cond):`.
type OpenBlock struct {
	Kind BlockKind
	Cond Expr
}

// Else is `else:`.
type Else struct{}

// CloseBlock is `endif`, `endwhile` or `endfor`.
type CloseBlock struct {
	Kind BlockKind
}

// FuncDecl is `type name(type a, type b):`.
type FuncDecl struct {
	ReturnType string
	Name       string
	Params     []bytecode.Param
}

// End is a bare `end`.
type End struct{}

// Print is `print(a, b, ...)`. When Template is set the statement had the
// `print("... $name ...", name)` shape and Args holds the variable names.
type Print struct {
	Template string
	Args     []string
}

// ErrorOut is `error(text)`.
type ErrorOut struct {
	Text string
}

// Input is `input(var)` or `input(prompt, var)`.
type Input struct {
	Prompt string
	Var    string
}

// Return is `return` or `return expr`.
type Return struct {
	Value *Expr
}

// Assign is `type var = expr`, or `var = expr` with an empty Type.
type Assign struct {
	Type  string
	Var   string
	Value Expr
}

// Call is a bare `name(args)` statement.
type Call struct {
	Name string
	Args []string
}

// Passthrough is a statement with no recognized shape.
type Passthrough struct {
	Reason string
}

func (*OpenBlock) stmt()   {}
func (*Else) stmt()        {}
func (*CloseBlock) stmt()  {}
func (*FuncDecl) stmt()    {}
func (*End) stmt()         {}
func (*Print) stmt()       {}
func (*ErrorOut) stmt()    {}
func (*Input) stmt()       {}
func (*Return) stmt()      {}
func (*Assign) stmt()      {}
func (*Call) stmt()        {}
func (*Passthrough) stmt() {}
