package compiler

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/flux/pkg/bytecode"
)

var log = commonlog.GetLogger("flux.compiler")

// ---------------------------------------------------------------------------
// Codegen: lower statements to symbolic bytecode
// ---------------------------------------------------------------------------

const (
	// ReturnSlot is the variable a return value is written to.
	ReturnSlot = "__ret"
	// CondSlot holds a block condition of the form `A op B`.
	CondSlot = "__cond"
	// UntypedAssign is the declared type of `var = expr`.
	UntypedAssign = "auto"
)

// Options controls what the compiler writes besides instructions.
type Options struct {
	// EmitComments keeps unrecognized statements as '#' lines.
	EmitComments bool
	// SourceComments prefixes every lowered statement with its source text.
	SourceComments bool
}

// DefaultOptions returns the options the CLI uses without a flux.toml.
func DefaultOptions() Options {
	return Options{EmitComments: true}
}

// Compiler lowers statements one at a time into a listing.
type Compiler struct {
	opts   Options
	blocks *BlockTracker
	out    bytecode.Listing

	// Current function, for `end` and the return slot's declared type
	funcName string
	funcType string

	passthrough int
}

// NewCompiler creates a compiler with an empty listing.
func NewCompiler(opts Options) *Compiler {
	return &Compiler{
		opts:   opts,
		blocks: NewBlockTracker(),
	}
}

// Passthrough returns how many statements were kept untranslated.
func (c *Compiler) Passthrough() int {
	return c.passthrough
}

func (c *Compiler) emit(op bytecode.Opcode, dest, a, b string) {
	c.out = append(c.out, bytecode.InstrLine(bytecode.NewInstruction(op, dest, a, b)))
}

func (c *Compiler) label(name string) {
	c.emit(bytecode.OpLabel, "", name, "")
}

// CompileLine lowers one trimmed, non-empty, non-comment statement.
// line is the 1-based source line used in diagnostics.
func (c *Compiler) CompileLine(text string, line int) error {
	stmt := Parse(text)
	if c.opts.SourceComments {
		if _, skip := stmt.(*Passthrough); !skip {
			c.out = append(c.out, bytecode.CommentLine(text))
		}
	}
	return c.lower(stmt, text, line)
}

func (c *Compiler) lower(stmt Stmt, text string, line int) error {
	switch s := stmt.(type) {
	case *OpenBlock:
		c.lowerOpenBlock(s, line)

	case *Else:
		b, err := c.blocks.MarkElse(line, text)
		if err != nil {
			return err
		}
		c.emit(bytecode.OpJump, "", BlockIf.Label("end", b.ID), "")
		c.label(BlockIf.Label("else", b.ID))

	case *CloseBlock:
		b, err := c.blocks.Pop(s.Kind, line, text)
		if err != nil {
			return err
		}
		if s.Kind == BlockIf {
			// The else label must exist even when no else: was written.
			if !b.HasElse {
				c.label(BlockIf.Label("else", b.ID))
			}
			c.label(BlockIf.Label("end", b.ID))
			break
		}
		c.emit(bytecode.OpJump, "", s.Kind.Label("start", b.ID), "")
		c.label(s.Kind.Label("end", b.ID))

	case *FuncDecl:
		parts := make([]string, len(s.Params))
		for i, p := range s.Params {
			parts[i] = p.Type + " " + p.Name
		}
		c.emit(bytecode.OpEntry, "", s.ReturnType, fmt.Sprintf("%s(%s)", s.Name, strings.Join(parts, ", ")))
		c.funcName, c.funcType = s.Name, s.ReturnType

	case *End:
		if c.funcName == "" {
			c.emit(bytecode.OpHalt, "", "", "")
			break
		}
		c.emit(bytecode.OpEnd, "", c.funcName, "")
		c.funcName, c.funcType = "", ""

	case *Print:
		c.lowerPrint(s)

	case *ErrorOut:
		c.emit(bytecode.OpErrPrint, "", s.Text, "")

	case *Input:
		c.emit(bytecode.OpRead, s.Var, s.Prompt, "")

	case *Return:
		if s.Value == nil {
			c.emit(bytecode.OpReturn, "", "", "")
			break
		}
		c.assign(ReturnSlot, c.returnType(), *s.Value)
		c.emit(bytecode.OpReturn, "", ReturnSlot, "")

	case *Assign:
		typ := s.Type
		if typ == "" {
			typ = UntypedAssign
		}
		c.assign(s.Var, typ, s.Value)

	case *Call:
		c.emit(bytecode.OpCall, "", s.Name, strings.Join(s.Args, ", "))

	case *Passthrough:
		c.passthrough++
		log.Debugf("line %d: %s, kept as comment: %s", line, s.Reason, text)
		if c.opts.EmitComments {
			c.out = append(c.out, bytecode.CommentLine(text))
		}
	}
	return nil
}

// lowerOpenBlock emits the head of an if/while/for. Loops start with a label
// so the closer can jump back and re-evaluate the condition.
func (c *Compiler) lowerOpenBlock(s *OpenBlock, line int) {
	id := c.blocks.Push(s.Kind, line)
	target := s.Kind.Label("end", id)
	if s.Kind == BlockIf {
		target = BlockIf.Label("else", id)
	} else {
		c.label(s.Kind.Label("start", id))
	}
	cond := s.Cond.Left
	if s.Cond.IsBinary() {
		c.emit(s.Cond.Opcode(), CondSlot, s.Cond.Left, s.Cond.Right)
		cond = CondSlot
	}
	c.emit(bytecode.OpJumpFalse, "", cond, target)
}

func (c *Compiler) lowerPrint(s *Print) {
	if s.Template != "" {
		c.emit(bytecode.OpPrintf, "", s.Template, strings.Join(s.Args, ","))
		return
	}
	if len(s.Args) == 0 {
		c.emit(bytecode.OpPrint, "", `""`, "")
		return
	}
	for _, arg := range s.Args {
		c.emit(bytecode.OpPrint, "", arg, "")
	}
}

// assign writes expr into dest: a binary instruction when the expression
// matched `A op B`, a typed store otherwise.
func (c *Compiler) assign(dest, typ string, e Expr) {
	if e.IsBinary() {
		c.emit(e.Opcode(), dest, e.Left, e.Right)
		return
	}
	c.emit(bytecode.OpStore, dest, typ, e.Left)
}

func (c *Compiler) returnType() string {
	if c.funcType == "" {
		return UntypedAssign
	}
	return c.funcType
}

// Finish checks for blocks left open and returns the listing.
func (c *Compiler) Finish() (bytecode.Listing, error) {
	if err := c.blocks.Check(); err != nil {
		return nil, err
	}
	return c.out, nil
}

// Compile lowers a whole source stream. Blank lines and lines starting with
// '#' are skipped. The first unbalanced closer aborts compilation; open
// blocks are reported once the input is exhausted.
func Compile(r io.Reader, opts Options) (bytecode.Listing, error) {
	c := NewCompiler(opts)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := c.CompileLine(text, line); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return c.Finish()
}

// CompileString is Compile over an in-memory source.
func CompileString(src string, opts Options) (bytecode.Listing, error) {
	return Compile(strings.NewReader(src), opts)
}
