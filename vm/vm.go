package vm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/flux/pkg/bytecode"
)

var log = commonlog.GetLogger("flux.vm")

// ReturnSlot is the variable `ret` copies its operand into. Callers read it
// after the call returns.
const ReturnSlot = "__ret"

// Scoping selects how call parameters interact with the symbol table.
type Scoping int

const (
	// ScopeGlobal binds parameters straight into the shared table; whatever
	// they overwrite is lost.
	ScopeGlobal Scoping = iota
	// ScopeFrame restores the bindings a call shadowed when it returns.
	ScopeFrame
)

func (s Scoping) String() string {
	if s == ScopeFrame {
		return "frame"
	}
	return "global"
}

// ParseScoping maps a config value to a Scoping. Empty means global.
func ParseScoping(s string) (Scoping, error) {
	switch strings.ToLower(s) {
	case "", "global":
		return ScopeGlobal, nil
	case "frame":
		return ScopeFrame, nil
	}
	return ScopeGlobal, fmt.Errorf("unknown scoping %q (want global or frame)", s)
}

// Config controls a VM.
type Config struct {
	MaxCallDepth int
	Scoping      Scoping
	EchoPrompt   bool // print input() prompts before reading

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns the configuration used without a flux.toml.
func DefaultConfig() Config {
	return Config{
		MaxCallDepth: DefaultMaxCallDepth,
		EchoPrompt:   true,
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
	}
}

// ---------------------------------------------------------------------------
// VM: program-counter interpreter over a loaded program
// ---------------------------------------------------------------------------

// VM executes one loaded program. It owns the symbol table and the call
// stack; the program tables are only read.
type VM struct {
	prog  *bytecode.Program
	cfg   Config
	env   *Env
	calls *CallStack

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	pc       int
	halted   bool
	steps    int
	warnings []string
}

// New creates a VM for prog. Nil streams fall back to the process streams.
func New(prog *bytecode.Program, cfg Config) *VM {
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	return &VM{
		prog:   prog,
		cfg:    cfg,
		env:    NewEnv(),
		calls:  NewCallStack(cfg.MaxCallDepth),
		in:     bufio.NewReader(cfg.Stdin),
		out:    cfg.Stdout,
		errOut: cfg.Stderr,
	}
}

// Env exposes the symbol table, mainly for tests and tooling.
func (v *VM) Env() *Env {
	return v.env
}

// Warnings returns the non-fatal problems met so far.
func (v *VM) Warnings() []string {
	return v.warnings
}

// Steps returns how many instructions were executed.
func (v *VM) Steps() int {
	return v.steps
}

// Run executes from the instruction after main's entry until the program
// halts, returns from the top level, runs off the end, or fails.
func (v *VM) Run() error {
	code := v.prog.Instructions
	v.pc = v.prog.Start()
	v.halted = false
	for !v.halted && v.pc >= 0 && v.pc < len(code) {
		in := &code[v.pc]
		v.steps++
		if err := v.exec(in); err != nil {
			return v.at(err)
		}
	}
	return v.flush()
}

// at stamps the failing instruction onto a runtime error.
func (v *VM) at(err error) error {
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		if rerr.PC < 0 {
			rerr.PC = v.pc
		}
		return rerr
	}
	return fmt.Errorf("instruction %d: %w", v.pc, err)
}

func (v *VM) exec(in *bytecode.Instruction) error {
	switch in.Op {
	case bytecode.OpLabel, bytecode.OpEntry:
		v.pc++

	case bytecode.OpHalt:
		v.halted = true

	case bytecode.OpEnd:
		v.ret()

	case bytecode.OpReturn:
		val := VoidValue
		if in.A != "" {
			r, err := v.operand(in.A)
			if err != nil {
				return err
			}
			val = r
		}
		v.env.Set(ReturnSlot, val)
		v.ret()

	case bytecode.OpStore:
		v.env.Set(in.Dest, v.storeValue(in.B))
		v.pc++

	case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod,
		bytecode.OpPow, bytecode.OpGt, bytecode.OpLt, bytecode.OpEq, bytecode.OpNe:
		a, err := v.operand(in.A)
		if err != nil {
			return err
		}
		b, err := v.operand(in.B)
		if err != nil {
			return err
		}
		r, err := Arith(in.Op, a, b)
		if err != nil {
			return err
		}
		v.env.Set(in.Dest, r)
		v.pc++

	case bytecode.OpJump:
		return v.jump(in.Target, in.A)

	case bytecode.OpJumpFalse:
		cond, err := v.operand(in.A)
		if err != nil {
			return err
		}
		if cond.Truthy() {
			v.pc++
			return nil
		}
		return v.jump(in.Target, in.B)

	case bytecode.OpCall:
		return v.call(in.A, bytecode.SplitArgs(in.B))

	case bytecode.OpPrint:
		text, err := v.text(in.A)
		if err != nil {
			return err
		}
		v.pc++
		return v.writeLine(v.out, text)

	case bytecode.OpPrintf:
		text := Substitute(Unquote(in.A), bytecode.SplitArgs(in.B), v.env.Get)
		v.pc++
		return v.writeLine(v.out, text)

	case bytecode.OpErrPrint:
		text, err := v.text(in.A)
		if err != nil {
			return err
		}
		// Keep ordering with stdout when both go to a terminal.
		if err := v.flush(); err != nil {
			return err
		}
		v.pc++
		return v.writeLine(v.errOut, text)

	case bytecode.OpRead:
		if err := v.read(in.Dest, in.A); err != nil {
			return err
		}
		v.pc++

	default:
		msg := fmt.Sprintf("instruction %d: unknown opcode %q skipped", v.pc, in.Name())
		log.Warning(msg)
		v.warnings = append(v.warnings, msg)
		v.pc++
	}
	return nil
}

// ret pops the call stack. Popping an empty stack ends the program.
func (v *VM) ret() {
	f, ok := v.calls.Pop()
	if !ok {
		v.halted = true
		return
	}
	for i := len(f.saved) - 1; i >= 0; i-- {
		v.env.restore(f.saved[i])
	}
	v.pc = f.Return
}

func (v *VM) jump(target int, label string) error {
	if target == bytecode.NoTarget {
		return newError(UnresolvedLabel, label)
	}
	v.pc = target
	return nil
}

// call binds every argument before jumping, so an argument that names
// another parameter sees the caller's value.
func (v *VM) call(name string, args []string) error {
	fn, ok := v.prog.Function(name)
	if !ok {
		return newError(UnknownFunction, name)
	}
	if len(args) != fn.Arity() {
		e := newError(ArityMismatch, name)
		e.Detail = fmt.Sprintf("want %d arguments, got %d", fn.Arity(), len(args))
		return e
	}
	vals := make([]Value, len(args))
	for i, arg := range args {
		val, err := v.operand(arg)
		if err != nil {
			return err
		}
		vals[i] = val
	}

	frame := Frame{Return: v.pc + 1, Function: name}
	if v.cfg.Scoping == ScopeFrame {
		for _, p := range fn.Params {
			frame.saved = append(frame.saved, v.env.save(p.Name))
		}
	}
	if !v.calls.Push(frame) {
		e := newError(CallStackOverflow, name)
		e.Detail = fmt.Sprintf("depth %d", v.calls.Max())
		return e
	}
	log.Debugf("call %s depth %d", fn.Signature(), v.calls.Depth())
	for i, p := range fn.Params {
		v.env.Set(p.Name, vals[i])
	}
	v.pc = fn.Entry + 1
	return nil
}

// storeValue resolves a store source: a quoted string, then a bound
// variable, then a literal. An unbound word is stored as text.
func (v *VM) storeValue(src string) Value {
	if IsQuoted(src) {
		return StringValue(Unquote(src))
	}
	if val, ok := v.env.Get(src); ok {
		return val
	}
	return ParseLiteral(src)
}

// operand resolves a value used by arithmetic, branches, calls and output.
// Unlike store, an unbound word is an error.
func (v *VM) operand(src string) (Value, error) {
	if IsQuoted(src) {
		return StringValue(Unquote(src)), nil
	}
	if val, ok := v.env.Get(src); ok {
		return val, nil
	}
	if val, ok := parseScalar(src); ok {
		return val, nil
	}
	return Value{}, newError(UndefinedVariable, src)
}

func (v *VM) text(src string) (string, error) {
	val, err := v.operand(src)
	if err != nil {
		return "", err
	}
	return val.Format(), nil
}

// read stores one line of input, classified like a literal. End of input
// with nothing read stores an empty String.
func (v *VM) read(dest, prompt string) error {
	if v.cfg.EchoPrompt && prompt != "" {
		if _, err := io.WriteString(v.out, Unquote(prompt)); err != nil {
			return err
		}
		if err := v.flush(); err != nil {
			return err
		}
	}
	line, err := v.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		e := newError(InputError, dest)
		e.Err = err
		return e
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		v.env.Set(dest, StringValue(""))
		return nil
	}
	v.env.Set(dest, ParseLiteral(line))
	return nil
}

func (v *VM) writeLine(w io.Writer, text string) error {
	_, err := io.WriteString(w, text+"\n")
	return err
}

type flusher interface {
	Flush() error
}

func (v *VM) flush() error {
	if f, ok := v.out.(flusher); ok {
		return f.Flush()
	}
	return nil
}
