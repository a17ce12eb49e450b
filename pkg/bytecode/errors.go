package bytecode

import "fmt"

// LoadErrorKind classifies fatal load-time errors.
type LoadErrorKind int

const (
	NoEntryPoint LoadErrorKind = iota
	DuplicateLabel
	DuplicateFunction
)

func (k LoadErrorKind) String() string {
	switch k {
	case NoEntryPoint:
		return "NoEntryPoint"
	case DuplicateLabel:
		return "DuplicateLabel"
	case DuplicateFunction:
		return "DuplicateFunction"
	default:
		return fmt.Sprintf("LoadErrorKind(%d)", int(k))
	}
}

// LoadError is a fatal error found while building the program tables.
type LoadError struct {
	Kind LoadErrorKind
	Name string // offending label or function name
	Line int    // bytecode line, 0 when not tied to a line
}

func (e *LoadError) Error() string {
	switch {
	case e.Kind == NoEntryPoint:
		return fmt.Sprintf("%s: no %q function", e.Kind, MainFunction)
	case e.Line > 0:
		return fmt.Sprintf("%s: %q (line %d)", e.Kind, e.Name, e.Line)
	default:
		return fmt.Sprintf("%s: %q", e.Kind, e.Name)
	}
}
