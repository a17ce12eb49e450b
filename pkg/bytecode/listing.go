package bytecode

import (
	"bufio"
	"io"
	"strings"
)

// Line is one line of a compiled listing: either an instruction or a
// passthrough comment.
type Line struct {
	Instr   Instruction
	Comment string
	IsNote  bool
}

// InstrLine wraps an instruction as a listing line.
func InstrLine(in Instruction) Line {
	return Line{Instr: in}
}

// CommentLine wraps text as a '#' comment line.
func CommentLine(text string) Line {
	return Line{Comment: text, IsNote: true}
}

func (l Line) String() string {
	if l.IsNote {
		return "# " + strings.ReplaceAll(l.Comment, "\n", " ")
	}
	return l.Instr.String()
}

// Listing is the symbolic bytecode produced by the compiler.
type Listing []Line

// Instructions returns only the instruction lines.
func (ls Listing) Instructions() []Instruction {
	out := make([]Instruction, 0, len(ls))
	for _, l := range ls {
		if !l.IsNote {
			out = append(out, l.Instr)
		}
	}
	return out
}

// String renders the listing in the bytecode text format.
func (ls Listing) String() string {
	var sb strings.Builder
	for _, l := range ls {
		sb.WriteString(l.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteTo writes the listing to w.
func (ls Listing) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, l := range ls {
		k, err := bw.WriteString(l.String() + "\n")
		n += int64(k)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}
