package bytecode

import (
	"fmt"
	"sort"
	"strings"
)

// Disassemble returns a human-readable listing of the loaded program, with
// resolved jump targets and the function and label tables.
func (p *Program) Disassemble() string {
	return p.DisassembleWithName("")
}

// DisassembleWithName returns the listing with a name header.
func (p *Program) DisassembleWithName(name string) string {
	var sb strings.Builder

	// Header
	if name != "" {
		sb.WriteString(fmt.Sprintf("; === %s ===\n", name))
	}
	sb.WriteString(fmt.Sprintf("; Flux bytecode, %d instructions\n", len(p.Instructions)))
	sb.WriteString(fmt.Sprintf("; Entry: %s @ %d\n\n", MainFunction, p.Main))

	// Functions
	if len(p.Functions) > 0 {
		sb.WriteString("; Functions:\n")
		names := make([]string, 0, len(p.Functions))
		for n := range p.Functions {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			f := p.Functions[n]
			sb.WriteString(fmt.Sprintf(";   [%4d] %s\n", f.Entry, f.Signature()))
		}
		sb.WriteString("\n")
	}

	// Labels
	if len(p.Labels) > 0 {
		sb.WriteString("; Labels:\n")
		type entry struct {
			name  string
			index int
		}
		labels := make([]entry, 0, len(p.Labels))
		for n, i := range p.Labels {
			labels = append(labels, entry{n, i})
		}
		sort.Slice(labels, func(a, b int) bool { return labels[a].index < labels[b].index })
		for _, e := range labels {
			sb.WriteString(fmt.Sprintf(";   [%4d] %s\n", e.index, e.name))
		}
		sb.WriteString("\n")
	}

	// Code
	sb.WriteString("; Code:\n")
	for i, in := range p.Instructions {
		line := in.String()
		switch {
		case in.Op.IsJump() && in.Target == NoTarget:
			sb.WriteString(fmt.Sprintf("%04d  %-40s ; -> ??? (unresolved)\n", i, line))
		case in.Op.IsJump():
			sb.WriteString(fmt.Sprintf("%04d  %-40s ; -> %04d\n", i, line, in.Target))
		case in.Op == OpUnknown:
			sb.WriteString(fmt.Sprintf("%04d  %-40s ; unknown opcode\n", i, line))
		default:
			sb.WriteString(fmt.Sprintf("%04d  %s\n", i, line))
		}
	}

	return sb.String()
}
