package bytecode

import (
	"fmt"
	"strings"
)

// MainFunction is the name of the program entry point.
const MainFunction = "main"

// Param is one declared function parameter.
type Param struct {
	Type string `cbor:"type"`
	Name string `cbor:"name"`
}

// Function is a function table entry built from an entry instruction.
type Function struct {
	Name       string  `cbor:"name"`
	ReturnType string  `cbor:"ret"`
	Entry      int     `cbor:"entry"` // index of the entry instruction
	Params     []Param `cbor:"params"`
}

// Arity returns the declared parameter count.
func (f *Function) Arity() int {
	return len(f.Params)
}

// Signature renders the function header, e.g. "int add(int a, int b)".
func (f *Function) Signature() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = strings.TrimSpace(p.Type + " " + p.Name)
	}
	return fmt.Sprintf("%s %s(%s)", f.ReturnType, f.Name, strings.Join(parts, ", "))
}

// Program holds the tables produced by the loader. It is not modified after
// Load returns.
type Program struct {
	Instructions []Instruction       `cbor:"code"`
	Labels       map[string]int      `cbor:"labels"`
	Functions    map[string]Function `cbor:"funcs"`
	Main         int                 `cbor:"main"` // index of main's entry instruction
}

// Function looks up a function by name.
func (p *Program) Function(name string) (Function, bool) {
	f, ok := p.Functions[name]
	return f, ok
}

// Start returns the index of the first instruction executed.
func (p *Program) Start() int {
	return p.Main + 1
}

// ParseSignature splits "name(type a, type b)" into the function name and
// its parameter list. Parameters written as a single word get an empty type.
func ParseSignature(sig string) (string, []Param, error) {
	open := strings.IndexByte(sig, '(')
	if open <= 0 || !strings.HasSuffix(sig, ")") {
		return "", nil, fmt.Errorf("bad function signature %q", sig)
	}
	name := strings.TrimSpace(sig[:open])
	var params []Param
	for _, decl := range SplitArgs(sig[open+1 : len(sig)-1]) {
		fields := strings.Fields(decl)
		switch len(fields) {
		case 1:
			params = append(params, Param{Name: fields[0]})
		case 2:
			params = append(params, Param{Type: fields[0], Name: fields[1]})
		default:
			return "", nil, fmt.Errorf("bad parameter %q in %q", decl, sig)
		}
	}
	return name, params, nil
}
