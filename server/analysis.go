package server

import (
	"bufio"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/chazu/flux/compiler"
)

// Symbol is a function or variable declared in a document.
type Symbol struct {
	Name   string
	Detail string // signature for functions, declared type for variables
	Line   int    // 0-based
	Col    int    // 0-based start of the name
}

// Problem is a diagnostic found while compiling a document.
type Problem struct {
	Line    int // 0-based
	Message string
	Fatal   bool
}

// Analysis is what the server knows about one document.
type Analysis struct {
	Functions map[string]Symbol
	Variables map[string]Symbol
	Problems  []Problem
}

// Analyze compiles text statement by statement. Unlike compiler.Compile it
// keeps going after an unbalanced closer so every problem is reported.
func Analyze(text string) *Analysis {
	a := &Analysis{
		Functions: make(map[string]Symbol),
		Variables: make(map[string]Symbol),
	}
	c := compiler.NewCompiler(compiler.Options{})

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		raw := sc.Text()
		line++
		stmt := strings.TrimSpace(raw)
		if stmt == "" || strings.HasPrefix(stmt, "#") {
			continue
		}
		indent := strings.Index(raw, stmt)

		parsed := compiler.Parse(stmt)
		a.record(parsed, stmt, line-1, indent)

		before := c.Passthrough()
		if err := c.CompileLine(stmt, line); err != nil {
			a.addError(err)
			continue
		}
		if c.Passthrough() > before {
			a.Problems = append(a.Problems, Problem{
				Line:    line - 1,
				Message: fmt.Sprintf("unrecognized statement, kept as comment: %s", stmt),
			})
		}
	}
	if _, err := c.Finish(); err != nil {
		a.addError(err)
	}
	return a
}

// addError flattens joined errors into one problem each. Lines in compile
// errors are 1-based.
func (a *Analysis) addError(err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			a.addError(e)
		}
		return
	}
	p := Problem{Message: err.Error(), Fatal: true}
	var cerr *compiler.Error
	if errors.As(err, &cerr) && cerr.Line > 0 {
		p.Line = cerr.Line - 1
	}
	a.Problems = append(a.Problems, p)
}

func (a *Analysis) record(stmt compiler.Stmt, text string, line, indent int) {
	switch s := stmt.(type) {
	case *compiler.FuncDecl:
		parts := make([]string, len(s.Params))
		for i, p := range s.Params {
			parts[i] = p.Type + " " + p.Name
			a.declare(p.Name, p.Type, text, line, indent)
		}
		if _, dup := a.Functions[s.Name]; dup {
			a.Problems = append(a.Problems, Problem{
				Line:    line,
				Message: fmt.Sprintf("function %q declared twice; loading the bytecode will fail", s.Name),
				Fatal:   true,
			})
			return
		}
		a.Functions[s.Name] = Symbol{
			Name:   s.Name,
			Detail: fmt.Sprintf("%s %s(%s)", s.ReturnType, s.Name, strings.Join(parts, ", ")),
			Line:   line,
			Col:    indent + wordIndex(text, s.Name),
		}
	case *compiler.Assign:
		typ := s.Type
		if typ == "" {
			typ = compiler.UntypedAssign
		}
		a.declare(s.Var, typ, text, line, indent)
	case *compiler.Input:
		a.declare(s.Var, "input", text, line, indent)
	}
}

// declare keeps the first declaration of a variable.
func (a *Analysis) declare(name, typ, text string, line, indent int) {
	if _, ok := a.Variables[name]; ok {
		return
	}
	a.Variables[name] = Symbol{
		Name:   name,
		Detail: typ,
		Line:   line,
		Col:    indent + wordIndex(text, name),
	}
}

// wordIndex finds name as a whole identifier in text, or 0.
func wordIndex(text, name string) int {
	for i := strings.Index(text, name); i >= 0; {
		end := i + len(name)
		if (i == 0 || !isIdentByte(text[i-1])) && (end == len(text) || !isIdentByte(text[end])) {
			return i
		}
		next := strings.Index(text[i+1:], name)
		if next < 0 {
			break
		}
		i += next + 1
	}
	return 0
}

// HasMain reports whether the document declares the entry point.
func (a *Analysis) HasMain() bool {
	_, ok := a.Functions["main"]
	return ok
}

// FunctionNames returns declared functions in sorted order.
func (a *Analysis) FunctionNames() []string {
	return sortedKeys(a.Functions)
}

// VariableNames returns declared variables in sorted order.
func (a *Analysis) VariableNames() []string {
	return sortedKeys(a.Variables)
}

func sortedKeys(m map[string]Symbol) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
