// Package attr is the narrow introspection contract the radar core uses to read
// untyped attributes from host objects. Host bindings implement Source; the core
// only ever sees Values.
package attr

import (
	"math"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindObject
	KindArray
	KindList
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindList:
		return "list"
	case KindOpaque:
		return "opaque"
	default:
		return "nil"
	}
}

// Numeric reports whether the kind is an integer or real number.
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindFloat
}

// Sequence reports whether the kind holds ordered elements.
func (k Kind) Sequence() bool {
	return k == KindArray || k == KindList
}

// Value is a typed attribute value read from a host object.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     string
	obj   Source
	elems []Value
}

// Nil is the absent value.
var Nil = Value{}

func Bool(v bool) Value        { return Value{kind: KindBool, b: v} }
func Int(v int64) Value        { return Value{kind: KindInt, i: v} }
func Float(v float64) Value    { return Value{kind: KindFloat, f: v} }
func String(v string) Value    { return Value{kind: KindString, s: v} }
func Opaque(repr string) Value { return Value{kind: KindOpaque, s: repr} }

// Object wraps a nested source. A nil source yields Nil.
func Object(src Source) Value {
	if src == nil {
		return Nil
	}
	return Value{kind: KindObject, obj: src}
}

// Array builds a fixed-size sequence value.
func Array(elems ...Value) Value { return Value{kind: KindArray, elems: elems} }

// List builds a growable ordered collection value.
func List(elems ...Value) Value { return Value{kind: KindList, elems: elems} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether the value is absent.
func (v Value) IsNil() bool { return v.kind == KindNil }

// Float converts numeric and boolean values to float64.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Int converts numeric values to int64, rounding reals half to even.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return 0, false
		}
		return int64(math.RoundToEven(v.f)), true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// String renders the value the way a host ToString would. Nil renders empty.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString, KindOpaque:
		return v.s
	case KindObject:
		return v.obj.TypeName()
	case KindArray, KindList:
		return v.kind.String() + "[" + strconv.Itoa(len(v.elems)) + "]"
	default:
		return ""
	}
}

// Object returns the nested source of an object value.
func (v Value) Object() (Source, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// Elems returns the elements of an array or list value.
func (v Value) Elems() []Value {
	if !v.kind.Sequence() {
		return nil
	}
	return v.elems
}
