package bytecode

import "fmt"

// Opcode identifies a bytecode instruction. The numeric value is what the
// text format prints in the leading "[0xHH]" column.
type Opcode byte

const (
	// ========================================================================
	// Markers (0x00-0x0F)
	// ========================================================================

	OpUnknown Opcode = 0x00 // Mnemonic not recognized at load time
	OpLabel   Opcode = 0x01 // Jump target: label <name>
	OpEntry   Opcode = 0x02 // Function entry: entry <type> <name(params)>
	OpEnd     Opcode = 0x03 // End of function: end [func]
	OpHalt    Opcode = 0x04 // End of top-level program

	// ========================================================================
	// Storage (0x10-0x1F)
	// ========================================================================

	OpStore Opcode = 0x10 // store <dest> <type> <src>

	// ========================================================================
	// Arithmetic and comparison (0x20-0x2F): <op> <dest> <a> <b>
	// ========================================================================

	OpAdd Opcode = 0x20
	OpSub Opcode = 0x21
	OpMul Opcode = 0x22
	OpDiv Opcode = 0x23
	OpMod Opcode = 0x24
	OpPow Opcode = 0x25
	OpGt  Opcode = 0x26
	OpLt  Opcode = 0x27
	OpEq  Opcode = 0x28
	OpNe  Opcode = 0x29

	// ========================================================================
	// Control flow (0x30-0x3F)
	// ========================================================================

	OpJump      Opcode = 0x30 // jmp <label>
	OpJumpFalse Opcode = 0x31 // jz <cond> <label>

	// ========================================================================
	// Calls (0x40-0x4F)
	// ========================================================================

	OpCall   Opcode = 0x40 // call <name> (<args>)
	OpReturn Opcode = 0x41 // ret [var]

	// ========================================================================
	// I/O (0x50-0x5F)
	// ========================================================================

	OpPrint    Opcode = 0x50 // print <operand>
	OpPrintf   Opcode = 0x51 // printf "<template>" <var,var...>
	OpErrPrint Opcode = 0x52 // eprint <operand>
	OpRead     Opcode = 0x53 // read <var> ["prompt"]
)

// Slot names one of the operand fields of an Instruction.
type Slot uint8

const (
	SlotDest Slot = iota
	SlotA
	SlotB
)

// OpcodeInfo describes the text form of an opcode.
type OpcodeInfo struct {
	Name     string // Mnemonic
	Slots    []Slot // Operand order in the text form
	Required int    // Operands that must be present; the rest are optional
}

var opcodeInfoTable = map[Opcode]OpcodeInfo{
	// Markers
	OpLabel: {"label", []Slot{SlotA}, 1},
	OpEntry: {"entry", []Slot{SlotA, SlotB}, 2},
	OpEnd:   {"end", []Slot{SlotA}, 0},
	OpHalt:  {"halt", nil, 0},

	// Storage
	OpStore: {"store", []Slot{SlotDest, SlotA, SlotB}, 3},

	// Arithmetic and comparison
	OpAdd: {"add", []Slot{SlotDest, SlotA, SlotB}, 3},
	OpSub: {"sub", []Slot{SlotDest, SlotA, SlotB}, 3},
	OpMul: {"mul", []Slot{SlotDest, SlotA, SlotB}, 3},
	OpDiv: {"div", []Slot{SlotDest, SlotA, SlotB}, 3},
	OpMod: {"mod", []Slot{SlotDest, SlotA, SlotB}, 3},
	OpPow: {"pow", []Slot{SlotDest, SlotA, SlotB}, 3},
	OpGt:  {"gt", []Slot{SlotDest, SlotA, SlotB}, 3},
	OpLt:  {"lt", []Slot{SlotDest, SlotA, SlotB}, 3},
	OpEq:  {"eq", []Slot{SlotDest, SlotA, SlotB}, 3},
	OpNe:  {"ne", []Slot{SlotDest, SlotA, SlotB}, 3},

	// Control flow
	OpJump:      {"jmp", []Slot{SlotA}, 1},
	OpJumpFalse: {"jz", []Slot{SlotA, SlotB}, 2},

	// Calls
	OpCall:   {"call", []Slot{SlotA, SlotB}, 1},
	OpReturn: {"ret", []Slot{SlotA}, 0},

	// I/O
	OpPrint:    {"print", []Slot{SlotA}, 1},
	OpPrintf:   {"printf", []Slot{SlotA, SlotB}, 2},
	OpErrPrint: {"eprint", []Slot{SlotA}, 1},
	OpRead:     {"read", []Slot{SlotDest, SlotA}, 1},
}

var opcodesByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeInfoTable))
	for op, info := range opcodeInfoTable {
		m[info.Name] = op
	}
	return m
}()

// GetOpcodeInfo returns metadata for an opcode.
// Returns an OpcodeInfo named "UNKNOWN(0xHH)" if the opcode is not recognized.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeInfoTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(0x%02X)", byte(op))}
}

// LookupMnemonic returns the opcode for a mnemonic.
func LookupMnemonic(name string) (Opcode, bool) {
	op, ok := opcodesByName[name]
	return op, ok
}

// BinaryOpcode maps a source-level operator to its instruction.
func BinaryOpcode(operator string) (Opcode, bool) {
	switch operator {
	case "+":
		return OpAdd, true
	case "-":
		return OpSub, true
	case "*":
		return OpMul, true
	case "/":
		return OpDiv, true
	case "%":
		return OpMod, true
	case "^":
		return OpPow, true
	case ">":
		return OpGt, true
	case "<":
		return OpLt, true
	case "==":
		return OpEq, true
	case "!=":
		return OpNe, true
	}
	return OpUnknown, false
}

// String returns the mnemonic of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// IsBinary returns true for the arithmetic and comparison instructions.
func (op Opcode) IsBinary() bool {
	return op >= OpAdd && op <= OpNe
}

// IsComparison returns true if the instruction always produces a Bool.
func (op Opcode) IsComparison() bool {
	return op >= OpGt && op <= OpNe
}

// IsJump returns true if this opcode carries a label target.
func (op Opcode) IsJump() bool {
	return op == OpJump || op == OpJumpFalse
}

// AllOpcodes returns a slice of all defined opcodes.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := range opcodeInfoTable {
		opcodes = append(opcodes, op)
	}
	return opcodes
}
