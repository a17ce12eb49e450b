package bytecode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned by DecodeLine for lines that cannot be turned into
// an instruction. The loader skips such lines.
var ErrMalformed = errors.New("malformed instruction")

// NoTarget marks a jump whose label could not be resolved at load time.
const NoTarget = -1

// Instruction is one decoded bytecode line. Operand meaning depends on Op:
//
//	store  Dest=dest A=type B=src
//	binary Dest=dest A=left B=right
//	jmp    A=label
//	jz     A=cond   B=label
//	call   A=name   B=args (raw, comma separated)
//	entry  A=type   B=name(params)
//	read   Dest=var A=prompt
//
// Operand text is kept verbatim; nothing is evaluated at load time.
type Instruction struct {
	Op       Opcode `cbor:"op"`
	Mnemonic string `cbor:"mn,omitempty"` // only set for OpUnknown
	Dest     string `cbor:"d,omitempty"`
	A        string `cbor:"a,omitempty"`
	B        string `cbor:"b,omitempty"`
	Target   int    `cbor:"t"`
	Line     int    `cbor:"l,omitempty"`
}

// NewInstruction builds an instruction with an unresolved target.
func NewInstruction(op Opcode, dest, a, b string) Instruction {
	return Instruction{Op: op, Dest: dest, A: a, B: b, Target: NoTarget}
}

func (in *Instruction) slot(s Slot) *string {
	switch s {
	case SlotDest:
		return &in.Dest
	case SlotA:
		return &in.A
	default:
		return &in.B
	}
}

// Name returns the mnemonic, including the raw mnemonic of unknown opcodes.
func (in Instruction) Name() string {
	if in.Op == OpUnknown {
		return in.Mnemonic
	}
	return in.Op.String()
}

// String encodes the instruction in the bytecode text format.
func (in Instruction) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[0x%02X] %s", byte(in.Op), in.Name())

	if in.Op == OpUnknown {
		if in.A != "" {
			sb.WriteByte(' ')
			sb.WriteString(in.A)
		}
		return sb.String()
	}

	info := GetOpcodeInfo(in.Op)
	operands := make([]string, 0, len(info.Slots))
	for _, s := range info.Slots {
		v := *in.slot(s)
		if in.Op == OpCall && s == SlotB {
			v = "(" + v + ")"
		}
		operands = append(operands, v)
	}
	// Trailing optional operands are omitted when empty.
	for len(operands) > info.Required && operands[len(operands)-1] == "" {
		operands = operands[:len(operands)-1]
	}
	for _, v := range operands {
		sb.WriteByte(' ')
		sb.WriteString(v)
	}
	return sb.String()
}

// DecodeLine parses one non-blank, non-comment bytecode line. The "[0xHH]"
// prefix is optional; when present it must agree with the mnemonic.
// Unrecognized mnemonics decode to an OpUnknown instruction.
func DecodeLine(line string, lineNo int) (Instruction, error) {
	text := strings.TrimSpace(line)
	hex := -1
	if strings.HasPrefix(text, "[") {
		end := strings.IndexByte(text, ']')
		if end < 0 {
			return Instruction{}, fmt.Errorf("line %d: unterminated opcode column: %w", lineNo, ErrMalformed)
		}
		v, err := strconv.ParseUint(strings.TrimSpace(text[1:end]), 0, 8)
		if err != nil {
			return Instruction{}, fmt.Errorf("line %d: bad opcode %q: %w", lineNo, text[1:end], ErrMalformed)
		}
		hex = int(v)
		text = strings.TrimSpace(text[end+1:])
	}

	fields := SplitOperands(text)
	if len(fields) == 0 {
		return Instruction{}, fmt.Errorf("line %d: missing mnemonic: %w", lineNo, ErrMalformed)
	}

	mnemonic := fields[0]
	op, ok := LookupMnemonic(mnemonic)
	if !ok {
		in := NewInstruction(OpUnknown, "", strings.Join(fields[1:], " "), "")
		in.Mnemonic = mnemonic
		in.Line = lineNo
		return in, nil
	}
	if hex >= 0 && Opcode(hex) != op {
		return Instruction{}, fmt.Errorf("line %d: opcode 0x%02X does not match %q: %w", lineNo, hex, mnemonic, ErrMalformed)
	}

	info := GetOpcodeInfo(op)
	operands := fields[1:]
	if len(operands) < info.Required || len(operands) > len(info.Slots) {
		return Instruction{}, fmt.Errorf("line %d: %s takes %d-%d operands, got %d: %w",
			lineNo, mnemonic, info.Required, len(info.Slots), len(operands), ErrMalformed)
	}

	in := NewInstruction(op, "", "", "")
	in.Line = lineNo
	for i, v := range operands {
		s := info.Slots[i]
		if op == OpCall && s == SlotB {
			v = strings.TrimSuffix(strings.TrimPrefix(v, "("), ")")
		}
		*in.slot(s) = v
	}
	return in, nil
}

// SplitOperands splits on whitespace that is outside double quotes and
// parentheses, so `"a b"` and `f(int a, int b)` each stay one operand.
func SplitOperands(s string) []string {
	var out []string
	start := -1
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if start < 0 {
			if c == ' ' || c == '\t' {
				continue
			}
			start = i
		}
		switch {
		case inQuote && c == '\\':
			i++
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case (c == ' ' || c == '\t') && depth == 0:
			out = append(out, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

// SplitArgs splits a raw argument or parameter list on commas that are
// outside double quotes and parentheses. Parts are trimmed; a blank list
// yields no parts.
func SplitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	start := 0
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote && c == '\\':
			i++
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			out = append(out, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	return append(out, strings.TrimSpace(s[start:]))
}
