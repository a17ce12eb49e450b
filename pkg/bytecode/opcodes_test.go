package bytecode

import (
	"strings"
	"testing"
)

func TestAllOpcodesHaveMetadata(t *testing.T) {
	for _, op := range AllOpcodes() {
		info := GetOpcodeInfo(op)
		if info.Name == "" || strings.HasPrefix(info.Name, "UNKNOWN") {
			t.Errorf("Opcode 0x%02X has no metadata", op)
		}
		if info.Required > len(info.Slots) {
			t.Errorf("%s requires %d operands but has %d slots", info.Name, info.Required, len(info.Slots))
		}
	}
}

func TestMnemonicsRoundTrip(t *testing.T) {
	for _, op := range AllOpcodes() {
		got, ok := LookupMnemonic(op.String())
		if !ok || got != op {
			t.Errorf("LookupMnemonic(%q) = 0x%02X, %v; want 0x%02X", op.String(), got, ok, op)
		}
	}
}

func TestUnknownOpcodeString(t *testing.T) {
	op := Opcode(0xEE)
	got := op.String()
	if !strings.HasPrefix(got, "UNKNOWN") {
		t.Errorf("Unknown opcode should return UNKNOWN, got %q", got)
	}
}

func TestBinaryOpcode(t *testing.T) {
	tests := []struct {
		operator string
		want     Opcode
	}{
		{"+", OpAdd},
		{"-", OpSub},
		{"*", OpMul},
		{"/", OpDiv},
		{"%", OpMod},
		{"^", OpPow},
		{">", OpGt},
		{"<", OpLt},
		{"==", OpEq},
		{"!=", OpNe},
	}
	for _, tt := range tests {
		got, ok := BinaryOpcode(tt.operator)
		if !ok || got != tt.want {
			t.Errorf("BinaryOpcode(%q) = %v, %v; want %v", tt.operator, got, ok, tt.want)
		}
		if !got.IsBinary() {
			t.Errorf("%v.IsBinary() = false", got)
		}
	}

	if _, ok := BinaryOpcode("&&"); ok {
		t.Error("BinaryOpcode(&&) should not match")
	}
}

func TestOpcodePredicates(t *testing.T) {
	if !OpGt.IsComparison() || !OpNe.IsComparison() {
		t.Error("gt/ne should be comparisons")
	}
	if OpAdd.IsComparison() || OpPow.IsComparison() {
		t.Error("add/pow are not comparisons")
	}
	if !OpJump.IsJump() || !OpJumpFalse.IsJump() || OpCall.IsJump() {
		t.Error("IsJump mismatch")
	}
}
