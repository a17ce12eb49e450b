package vm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the type tag of a Value.
type Kind uint8

const (
	Void Kind = iota
	Int
	Float
	Bool
	String
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is a tagged union over the Flux runtime types. Only the field that
// matches the tag is meaningful. The zero Value is Void.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// VoidValue is the value of a bare `ret`.
var VoidValue = Value{}

// IntValue creates an Int.
func IntValue(i int64) Value {
	return Value{kind: Int, i: i}
}

// FloatValue creates a Float.
func FloatValue(f float64) Value {
	return Value{kind: Float, f: f}
}

// BoolValue creates a Bool.
func BoolValue(b bool) Value {
	if b {
		return Value{kind: Bool, i: 1}
	}
	return Value{kind: Bool}
}

// StringValue creates a String.
func StringValue(s string) Value {
	return Value{kind: String, s: s}
}

// Kind returns the type tag.
func (v Value) Kind() Kind {
	return v.kind
}

// Int returns the integer payload of an Int or Bool.
func (v Value) Int() int64 {
	return v.i
}

// Float returns the payload of a Float.
func (v Value) Float() float64 {
	return v.f
}

// Bool returns the payload of a Bool.
func (v Value) Bool() bool {
	return v.i != 0
}

// Str returns the payload of a String.
func (v Value) Str() string {
	return v.s
}

// IsNumeric reports whether v takes part in arithmetic. Bool counts as 1/0.
func (v Value) IsNumeric() bool {
	return v.kind == Int || v.kind == Float || v.kind == Bool
}

// AsFloat widens a numeric value.
func (v Value) AsFloat() float64 {
	if v.kind == Float {
		return v.f
	}
	return float64(v.i)
}

// Truthy is the branch condition test: numbers are true when non-zero,
// strings when non-empty, void never.
func (v Value) Truthy() bool {
	switch v.kind {
	case Int, Bool:
		return v.i != 0
	case Float:
		return v.f != 0
	case String:
		return v.s != ""
	default:
		return false
	}
}

// Equal compares tag and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Float:
		return v.f == o.f
	case String:
		return v.s == o.s
	default:
		return v.i == o.i
	}
}

// Format renders the value for output: ints in decimal, floats in the
// shortest form that round-trips, bools as true/false.
func (v Value) Format() string {
	switch v.kind {
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return formatFloat(v.f)
	case Bool:
		if v.i != 0 {
			return "true"
		}
		return "false"
	case String:
		return v.s
	default:
		return ""
	}
}

func (v Value) String() string {
	if v.kind == String {
		return strconv.Quote(v.s)
	}
	if v.kind == Void {
		return "void"
	}
	return v.Format()
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) || math.Abs(f) >= 1e21 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseLiteral classifies unquoted text. An optional sign followed by digits
// with at most one '.' is numeric (Float when the dot is present), true and
// false in any case are Bool, and anything else is the text as a String.
func ParseLiteral(text string) Value {
	if v, ok := parseScalar(text); ok {
		return v
	}
	return StringValue(text)
}

// parseScalar recognizes the numeric and boolean literal forms only.
func parseScalar(text string) (Value, bool) {
	if strings.EqualFold(text, "true") {
		return BoolValue(true), true
	}
	if strings.EqualFold(text, "false") {
		return BoolValue(false), true
	}
	if !isNumeric(text) {
		return Value{}, false
	}
	if strings.Contains(text, ".") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, false
		}
		return FloatValue(f), true
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// Out of int64 range: keep the magnitude as a float.
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil {
			return Value{}, false
		}
		return FloatValue(f), true
	}
	return IntValue(i), true
}

func isNumeric(text string) bool {
	body := text
	if body != "" && (body[0] == '+' || body[0] == '-') {
		body = body[1:]
	}
	digits, dots := 0, 0
	for i := 0; i < len(body); i++ {
		switch c := body[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}
