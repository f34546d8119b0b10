// ABOUTME: Typed attribute values for graph nodes, with constructors and equality.
// ABOUTME: Values carry a ValueType tag so the access layer can reject mismatched writes.
package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueType identifies the declared type of a node attribute.
type ValueType int

const (
	FloatValue ValueType = iota
	IntValue
	BoolValue
	StringValue
	ColorValue
)

// String returns the lowercase name of the value type, used in documents and messages.
func (t ValueType) String() string {
	switch t {
	case FloatValue:
		return "float"
	case IntValue:
		return "int"
	case BoolValue:
		return "bool"
	case StringValue:
		return "string"
	case ColorValue:
		return "color"
	default:
		return fmt.Sprintf("valuetype(%d)", int(t))
	}
}

// ParseValueType maps a type name back to its ValueType.
func ParseValueType(name string) (ValueType, bool) {
	switch name {
	case "float":
		return FloatValue, true
	case "int":
		return IntValue, true
	case "bool":
		return BoolValue, true
	case "string":
		return StringValue, true
	case "color":
		return ColorValue, true
	default:
		return 0, false
	}
}

// Color is an RGBA quadruple in normalized [0,1] channels.
type Color struct {
	R, G, B, A float64
}

// Value is a typed attribute value. The zero Value is a float 0.
type Value struct {
	Type ValueType
	f    float64
	i    int
	b    bool
	s    string
	c    Color
}

// Float returns a float-typed value.
func Float(v float64) Value { return Value{Type: FloatValue, f: v} }

// Int returns an int-typed value.
func Int(v int) Value { return Value{Type: IntValue, i: v} }

// Bool returns a bool-typed value.
func Bool(v bool) Value { return Value{Type: BoolValue, b: v} }

// Str returns a string-typed value.
func Str(v string) Value { return Value{Type: StringValue, s: v} }

// RGBA returns a color-typed value.
func RGBA(r, g, b, a float64) Value {
	return Value{Type: ColorValue, c: Color{R: r, G: g, B: b, A: a}}
}

// AsFloat returns the float payload; zero if the value is not a float.
func (v Value) AsFloat() float64 { return v.f }

// AsInt returns the int payload; zero if the value is not an int.
func (v Value) AsInt() int { return v.i }

// AsBool returns the bool payload; false if the value is not a bool.
func (v Value) AsBool() bool { return v.b }

// AsString returns the string payload; empty if the value is not a string.
func (v Value) AsString() string { return v.s }

// AsColor returns the color payload; zero color if the value is not a color.
func (v Value) AsColor() Color { return v.c }

// Equal reports whether two values have the same type and payload.
func (v Value) Equal(o Value) bool { return v == o }

// Zero returns the zero value for a given type.
func Zero(t ValueType) Value {
	switch t {
	case IntValue:
		return Int(0)
	case BoolValue:
		return Bool(false)
	case StringValue:
		return Str("")
	case ColorValue:
		return RGBA(0, 0, 0, 1)
	default:
		return Float(0)
	}
}

// String renders the payload for messages and document output.
func (v Value) String() string {
	switch v.Type {
	case FloatValue:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case IntValue:
		return strconv.Itoa(v.i)
	case BoolValue:
		return strconv.FormatBool(v.b)
	case StringValue:
		return v.s
	case ColorValue:
		parts := []string{
			strconv.FormatFloat(v.c.R, 'g', -1, 64),
			strconv.FormatFloat(v.c.G, 'g', -1, 64),
			strconv.FormatFloat(v.c.B, 'g', -1, 64),
			strconv.FormatFloat(v.c.A, 'g', -1, 64),
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}
