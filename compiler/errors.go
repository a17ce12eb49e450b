package compiler

import "fmt"

// ErrorKind classifies fatal compile errors.
type ErrorKind int

const (
	// UnbalancedBlock is a closer (or else) with no open block of its kind.
	UnbalancedBlock ErrorKind = iota
	// UnclosedBlock is a block still open at end of input.
	UnclosedBlock
)

func (k ErrorKind) String() string {
	switch k {
	case UnbalancedBlock:
		return "UnbalancedBlock"
	case UnclosedBlock:
		return "UnclosedBlock"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a fatal compile error tied to a source line.
type Error struct {
	Kind  ErrorKind
	Block BlockKind
	Line  int    // 1-based source line; the opener's line for UnclosedBlock
	Text  string // offending statement
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnclosedBlock:
		return fmt.Sprintf("%s: %s opened at line %d is never closed", e.Kind, e.Block, e.Line)
	default:
		return fmt.Sprintf("%s: %q at line %d has no open %s", e.Kind, e.Text, e.Line, e.Block)
	}
}
