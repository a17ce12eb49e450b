package vm

import (
	"fmt"
	"math"

	"github.com/chazu/flux/pkg/bytecode"
)

// ---------------------------------------------------------------------------
// Arithmetic and comparison
// ---------------------------------------------------------------------------

// Arith applies a binary opcode. Numbers compute in the integer domain
// unless either side is a Float or the op is div, which always produces a
// Float. Comparisons produce a Bool. Strings support concatenation with
// add, equality, and lexical gt/lt between two Strings.
func Arith(op bytecode.Opcode, a, b Value) (Value, error) {
	if !op.IsBinary() {
		return Value{}, fmt.Errorf("%s is not a binary opcode", op)
	}
	if a.kind == String || b.kind == String {
		return stringOp(op, a, b)
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return Value{}, mismatch(op, a, b)
	}
	if a.kind == Float || b.kind == Float || op == bytecode.OpDiv {
		return floatOp(op, a.AsFloat(), b.AsFloat())
	}
	return intOp(op, a.i, b.i)
}

func intOp(op bytecode.Opcode, a, b int64) (Value, error) {
	switch op {
	case bytecode.OpAdd:
		return IntValue(a + b), nil
	case bytecode.OpSub:
		return IntValue(a - b), nil
	case bytecode.OpMul:
		return IntValue(a * b), nil
	case bytecode.OpMod:
		if b == 0 {
			return Value{}, newError(DivisionByZero, "")
		}
		return IntValue(a % b), nil
	case bytecode.OpPow:
		if b >= 0 {
			if p, ok := intPow(a, b); ok {
				return IntValue(p), nil
			}
		}
		// Negative exponents and results outside int64 become floats.
		return FloatValue(math.Pow(float64(a), float64(b))), nil
	case bytecode.OpGt:
		return BoolValue(a > b), nil
	case bytecode.OpLt:
		return BoolValue(a < b), nil
	case bytecode.OpEq:
		return BoolValue(a == b), nil
	case bytecode.OpNe:
		return BoolValue(a != b), nil
	}
	return Value{}, fmt.Errorf("no integer form for %s", op)
}

// intPow computes a^b exactly by squaring. It reports false when the
// result does not fit in an int64.
func intPow(a, b int64) (int64, bool) {
	result := int64(1)
	for b > 0 {
		if b&1 == 1 {
			r, ok := mulChecked(result, a)
			if !ok {
				return 0, false
			}
			result = r
		}
		b >>= 1
		if b > 0 {
			sq, ok := mulChecked(a, a)
			if !ok {
				return 0, false
			}
			a = sq
		}
	}
	return result, true
}

func mulChecked(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return p, true
}

func floatOp(op bytecode.Opcode, a, b float64) (Value, error) {
	switch op {
	case bytecode.OpAdd:
		return FloatValue(a + b), nil
	case bytecode.OpSub:
		return FloatValue(a - b), nil
	case bytecode.OpMul:
		return FloatValue(a * b), nil
	case bytecode.OpDiv:
		if b == 0 {
			return Value{}, newError(DivisionByZero, "")
		}
		return FloatValue(a / b), nil
	case bytecode.OpMod:
		if b == 0 {
			return Value{}, newError(DivisionByZero, "")
		}
		return FloatValue(math.Mod(a, b)), nil
	case bytecode.OpPow:
		return FloatValue(math.Pow(a, b)), nil
	case bytecode.OpGt:
		return BoolValue(a > b), nil
	case bytecode.OpLt:
		return BoolValue(a < b), nil
	case bytecode.OpEq:
		return BoolValue(a == b), nil
	case bytecode.OpNe:
		return BoolValue(a != b), nil
	}
	return Value{}, fmt.Errorf("no float form for %s", op)
}

func stringOp(op bytecode.Opcode, a, b Value) (Value, error) {
	switch op {
	case bytecode.OpAdd:
		return StringValue(a.Format() + b.Format()), nil
	case bytecode.OpEq:
		return BoolValue(a.Format() == b.Format()), nil
	case bytecode.OpNe:
		return BoolValue(a.Format() != b.Format()), nil
	case bytecode.OpGt, bytecode.OpLt:
		if a.kind != String || b.kind != String {
			break
		}
		if op == bytecode.OpGt {
			return BoolValue(a.s > b.s), nil
		}
		return BoolValue(a.s < b.s), nil
	}
	return Value{}, mismatch(op, a, b)
}

func mismatch(op bytecode.Opcode, a, b Value) *RuntimeError {
	e := newError(TypeMismatch, "")
	e.Detail = fmt.Sprintf("%s %s %s", op, a.kind, b.kind)
	return e
}
