package vm

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/flux/pkg/bytecode"
)

func TestArithIntegers(t *testing.T) {
	tests := []struct {
		op   bytecode.Opcode
		a, b int64
		want Value
	}{
		{bytecode.OpAdd, 2, 3, IntValue(5)},
		{bytecode.OpSub, 2, 3, IntValue(-1)},
		{bytecode.OpMul, 4, 3, IntValue(12)},
		{bytecode.OpMod, 7, 3, IntValue(1)},
		{bytecode.OpMod, -7, 3, IntValue(-1)},
		{bytecode.OpPow, 2, 10, IntValue(1024)},
		{bytecode.OpPow, 3, 0, IntValue(1)},
		{bytecode.OpPow, 2, -1, FloatValue(0.5)},
		{bytecode.OpPow, 2, 62, IntValue(1 << 62)},
		{bytecode.OpPow, -2, 63, IntValue(math.MinInt64)},
		{bytecode.OpPow, 3, 39, IntValue(4052555153018976267)},
		{bytecode.OpPow, 2, 63, FloatValue(math.Pow(2, 63))},
		{bytecode.OpPow, 2, 70, FloatValue(math.Pow(2, 70))},
		{bytecode.OpPow, 3, 41, FloatValue(math.Pow(3, 41))},
		{bytecode.OpPow, -3, 41, FloatValue(math.Pow(-3, 41))},
		{bytecode.OpDiv, 5, 2, FloatValue(2.5)},
		{bytecode.OpDiv, 6, 3, FloatValue(2)},
		{bytecode.OpGt, 3, 2, BoolValue(true)},
		{bytecode.OpLt, 3, 2, BoolValue(false)},
		{bytecode.OpEq, 3, 3, BoolValue(true)},
		{bytecode.OpNe, 3, 3, BoolValue(false)},
	}

	for _, tc := range tests {
		got, err := Arith(tc.op, IntValue(tc.a), IntValue(tc.b))
		if err != nil {
			t.Errorf("%s %d %d: %v", tc.op, tc.a, tc.b, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("%s %d %d = %v (%s), want %v (%s)", tc.op, tc.a, tc.b, got, got.Kind(), tc.want, tc.want.Kind())
		}
	}
}

func TestArithPromotion(t *testing.T) {
	tests := []struct {
		op   bytecode.Opcode
		a, b Value
		want Value
	}{
		{bytecode.OpAdd, IntValue(1), FloatValue(0.5), FloatValue(1.5)},
		{bytecode.OpMul, FloatValue(1.5), IntValue(2), FloatValue(3)},
		{bytecode.OpMod, FloatValue(7.5), IntValue(2), FloatValue(1.5)},
		{bytecode.OpPow, FloatValue(4), FloatValue(0.5), FloatValue(2)},
		{bytecode.OpLt, IntValue(1), FloatValue(1.5), BoolValue(true)},
		{bytecode.OpEq, IntValue(2), FloatValue(2), BoolValue(true)},
		{bytecode.OpAdd, BoolValue(true), IntValue(1), IntValue(2)},
	}

	for _, tc := range tests {
		got, err := Arith(tc.op, tc.a, tc.b)
		if err != nil {
			t.Errorf("%s %v %v: %v", tc.op, tc.a, tc.b, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("%s %v %v = %v (%s), want %v (%s)", tc.op, tc.a, tc.b, got, got.Kind(), tc.want, tc.want.Kind())
		}
	}
}

func TestArithDivisionByZero(t *testing.T) {
	tests := []struct {
		op   bytecode.Opcode
		a, b Value
	}{
		{bytecode.OpDiv, IntValue(5), IntValue(0)},
		{bytecode.OpDiv, FloatValue(5), FloatValue(0)},
		{bytecode.OpMod, IntValue(5), IntValue(0)},
		{bytecode.OpMod, FloatValue(5), IntValue(0)},
	}

	for _, tc := range tests {
		_, err := Arith(tc.op, tc.a, tc.b)
		var rerr *RuntimeError
		if !errors.As(err, &rerr) || rerr.Kind != DivisionByZero {
			t.Errorf("%s %v %v error = %v, want DivisionByZero", tc.op, tc.a, tc.b, err)
		}
	}
}

func TestArithStrings(t *testing.T) {
	tests := []struct {
		op   bytecode.Opcode
		a, b Value
		want Value
	}{
		{bytecode.OpAdd, StringValue("foo"), StringValue("bar"), StringValue("foobar")},
		{bytecode.OpAdd, StringValue("n="), IntValue(3), StringValue("n=3")},
		{bytecode.OpEq, StringValue("a"), StringValue("a"), BoolValue(true)},
		{bytecode.OpNe, StringValue("a"), StringValue("b"), BoolValue(true)},
		{bytecode.OpGt, StringValue("b"), StringValue("a"), BoolValue(true)},
		{bytecode.OpLt, StringValue("b"), StringValue("a"), BoolValue(false)},
	}

	for _, tc := range tests {
		got, err := Arith(tc.op, tc.a, tc.b)
		if err != nil {
			t.Errorf("%s %v %v: %v", tc.op, tc.a, tc.b, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("%s %v %v = %v, want %v", tc.op, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestArithTypeMismatch(t *testing.T) {
	tests := []struct {
		op   bytecode.Opcode
		a, b Value
	}{
		{bytecode.OpSub, StringValue("a"), IntValue(1)},
		{bytecode.OpGt, StringValue("a"), IntValue(1)},
		{bytecode.OpMul, StringValue("a"), StringValue("b")},
		{bytecode.OpAdd, VoidValue, IntValue(1)},
	}

	for _, tc := range tests {
		_, err := Arith(tc.op, tc.a, tc.b)
		var rerr *RuntimeError
		if !errors.As(err, &rerr) || rerr.Kind != TypeMismatch {
			t.Errorf("%s %v %v error = %v, want TypeMismatch", tc.op, tc.a, tc.b, err)
		}
	}
}

func TestArithRejectsNonBinary(t *testing.T) {
	if _, err := Arith(bytecode.OpJump, IntValue(1), IntValue(2)); err == nil {
		t.Error("Arith(jmp) should fail")
	}
}
