// Package types implements the compiler's type lattice, binary-operator
// promotion rules, comparison lowering, and assignment coercion (spec
// §4.1). Coercions are represented as explicit Cast nodes in this typed
// layer sitting between the untyped AST and the machine IR, per the
// design note in spec §9 ("Coercion insertion") — this makes the
// coercion contract auditable instead of rewriting the AST in place.
package types

import "fmt"

// Kind is the primitive/derived type-constructor tag, modeled on
// ssa.Type's small enum of machine-level types, widened to the richer
// source-level lattice spec §4.1 requires.
type Kind byte

const (
	KindVoid Kind = iota
	KindInt
	KindFloat
	// KindGeneric is the width-4 sentinel used for untyped integer
	// literals before context forces a concrete width (spec §4.1).
	KindGeneric

	KindPointer
	KindArray
	KindFunction
	KindReference
	KindConst
	KindVolatile
	KindObject
	KindTuple
	KindBitfield
)

// Type is an immutable value describing one type in the lattice. Types
// are compared by structural equality (Equal), not by pointer identity —
// unlike operand.Operand, nothing downstream needs Type instances to be
// interned.
type Type struct {
	kind    Kind
	width   int  // byte width, meaningful for KindInt/KindFloat/KindPointer.
	signed  bool // meaningful for KindInt.
	elem    *Type
	count   int    // array element count; 0 means unbounded/unknown.
	params  []Type // KindFunction parameters.
	results []Type // KindFunction / KindTuple members.
	object  string // KindObject: the module name.
}

func (t Type) Kind() Kind    { return t.kind }
func (t Type) Width() int    { return t.width }
func (t Type) Signed() bool  { return t.signed }
func (t Type) Elem() *Type   { return t.elem }
func (t Type) Count() int    { return t.count }
func (t Type) Params() []Type  { return t.params }
func (t Type) Results() []Type { return t.results }
func (t Type) ObjectName() string { return t.object }

// Constructors.

func Void() Type { return Type{kind: KindVoid} }

// Int builds a signed or unsigned integer of the given byte width, one of
// {1, 2, 4, 8} per spec §4.1.
func Int(width int, signed bool) Type {
	if width != 1 && width != 2 && width != 4 && width != 8 {
		panic(fmt.Sprintf("BUG: invalid integer width %d", width))
	}
	return Type{kind: KindInt, width: width, signed: signed}
}

// Generic is the untyped-integer-literal sentinel; it behaves as a
// signed 4-byte integer for promotion purposes until a context forces a
// narrower or wider concrete type.
func Generic() Type { return Type{kind: KindGeneric, width: 4, signed: true} }

// Float builds a 4- or 8-byte float.
func Float(width int) Type {
	if width != 4 && width != 8 {
		panic(fmt.Sprintf("BUG: invalid float width %d", width))
	}
	return Type{kind: KindFloat, width: width}
}

func Pointer(to Type) Type { return Type{kind: KindPointer, width: 4, elem: &to} }

func Array(of Type, count int) Type { return Type{kind: KindArray, elem: &of, count: count} }

func Function(params, results []Type) Type {
	return Type{kind: KindFunction, width: 4, params: params, results: results}
}

func Reference(to Type) Type { return Type{kind: KindReference, elem: &to} }

func Const(of Type) Type    { return Type{kind: KindConst, elem: &of} }
func Volatile(of Type) Type { return Type{kind: KindVolatile, elem: &of} }

func Object(moduleName string) Type { return Type{kind: KindObject, object: moduleName} }

func Tuple(members []Type) Type { return Type{kind: KindTuple, results: members} }

func Bitfield(width int) Type { return Type{kind: KindBitfield, width: width} }

// IsNumeric reports whether a binary-operator promotion rule applies.
func (t Type) IsNumeric() bool {
	return t.kind == KindInt || t.kind == KindFloat || t.kind == KindGeneric
}

func (t Type) IsFloat() bool { return t.kind == KindFloat }
func (t Type) IsInt() bool   { return t.kind == KindInt || t.kind == KindGeneric }

// Unwrap strips Const/Volatile/Reference qualifier layers, returning the
// underlying type.
func (t Type) Unwrap() Type {
	for t.kind == KindConst || t.kind == KindVolatile || t.kind == KindReference {
		t = *t.elem
	}
	return t
}

func (t Type) IsConst() bool { return t.kind == KindConst }

// Equal is structural equality after unwrapping qualifiers is NOT
// performed automatically — callers compare qualifier-sensitive or
// qualifier-insensitive as their rule requires.
func (t Type) Equal(o Type) bool {
	if t.kind != o.kind || t.width != o.width || t.signed != o.signed || t.count != o.count || t.object != o.object {
		return false
	}
	if (t.elem == nil) != (o.elem == nil) {
		return false
	}
	if t.elem != nil && !t.elem.Equal(*o.elem) {
		return false
	}
	return typeSliceEqual(t.params, o.params) && typeSliceEqual(t.results, o.results)
}

func typeSliceEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// AggregateBySize reports whether this type's size classifies it as a
// by-reference aggregate per spec §4.1 "Aggregates on the stack": any
// structured type with size > 12 bytes, or an array not of 4-byte
// elements.
func (t Type) AggregateBySize(sizeOf func(Type) int) bool {
	switch t.kind {
	case KindObject, KindTuple:
		return sizeOf(t) > 12
	case KindArray:
		return t.elem.width != 4 || t.elem.kind != KindInt && t.elem.kind != KindFloat && t.elem.kind != KindGeneric
	default:
		return false
	}
}

func (t Type) String() string {
	switch t.kind {
	case KindVoid:
		return "void"
	case KindGeneric:
		return "generic"
	case KindInt:
		sign := "u"
		if t.signed {
			sign = "s"
		}
		return fmt.Sprintf("%sint%d", sign, t.width*8)
	case KindFloat:
		return fmt.Sprintf("float%d", t.width*8)
	case KindPointer:
		return fmt.Sprintf("*%s", t.elem)
	case KindArray:
		return fmt.Sprintf("[%d]%s", t.count, t.elem)
	case KindFunction:
		return "func"
	case KindReference:
		return fmt.Sprintf("&%s", t.elem)
	case KindConst:
		return fmt.Sprintf("const %s", t.elem)
	case KindVolatile:
		return fmt.Sprintf("volatile %s", t.elem)
	case KindObject:
		return fmt.Sprintf("object %s", t.object)
	case KindTuple:
		return "tuple"
	case KindBitfield:
		return fmt.Sprintf("bitfield%d", t.width)
	default:
		panic(fmt.Sprintf("BUG: unknown types.Kind %d", t.kind))
	}
}
