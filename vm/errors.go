package vm

import "fmt"

// ErrorKind classifies fatal runtime errors.
type ErrorKind int

const (
	UndefinedVariable ErrorKind = iota
	UnresolvedLabel
	DivisionByZero
	CallStackOverflow
	UnknownFunction
	ArityMismatch
	TypeMismatch
	InputError
)

var errorKindNames = map[ErrorKind]string{
	UndefinedVariable: "UndefinedVariable",
	UnresolvedLabel:   "UnresolvedLabel",
	DivisionByZero:    "DivisionByZero",
	CallStackOverflow: "CallStackOverflow",
	UnknownFunction:   "UnknownFunction",
	ArityMismatch:     "ArityMismatch",
	TypeMismatch:      "TypeMismatch",
	InputError:        "InputError",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// RuntimeError is a fatal error raised while executing an instruction.
type RuntimeError struct {
	Kind   ErrorKind
	PC     int    // index of the failing instruction, -1 if not yet known
	Name   string // offending variable, label or function, if any
	Detail string
	Err    error
}

func newError(kind ErrorKind, name string) *RuntimeError {
	return &RuntimeError{Kind: kind, PC: -1, Name: name}
}

func (e *RuntimeError) Error() string {
	msg := e.Kind.String()
	if e.Name != "" {
		msg += fmt.Sprintf(" %q", e.Name)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.PC >= 0 {
		msg += fmt.Sprintf(" at instruction %d", e.PC)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
