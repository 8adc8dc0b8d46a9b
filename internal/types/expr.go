package types

// Expr is the minimal typed-expression node the type engine operates on.
// Front-end lowering (internal/lower) is responsible for translating a
// real source AST into a tree of these before handing it to the promotion
// and coercion routines in this package; the engine itself never touches
// AST node types directly, keeping it independent of any one source
// language's grammar (spec §1 names three front-ends sharing one engine).
type Expr interface {
	Type() Type
}

// Leaf wraps an already-typed value (a variable reference, a literal, the
// result of a prior lowering step) with no further structure the engine
// needs to see.
type Leaf struct {
	Typ Type
	// Tag is opaque front-end bookkeeping (e.g. a symbol-table handle);
	// the engine never interprets it.
	Tag any
}

func (l Leaf) Type() Type { return l.Typ }

// Cast is the explicit coercion node spec §9's design note calls for:
// "represent coercions as explicit Cast(targetType, inner) nodes in a
// typed-IR layer". Every narrowing/widening/helper-mediated conversion
// the engine inserts is one of these, auditable by walking the Expr tree.
type Cast struct {
	Target Type
	Inner  Expr
	// Via, when non-empty, names the runtime helper this cast lowers to
	// (e.g. "float_fromint"); empty means no helper call: either a free
	// reinterpretation (e.g. const-dropping) or an inline conversion such
	// as an integer widened to at most 4 bytes.
	Via Helper
}

func (c Cast) Type() Type { return c.Target }

// Call represents a lowered runtime-helper invocation (spec §4.1 points
// 1-2): the type engine never emits IR directly, it only decides that a
// Call node belongs here; internal/lower turns a Call into the actual
// OpCall IR instruction.
type Call struct {
	Helper Helper
	Args   []Expr
	Result Type
}

func (c Call) Type() Type { return c.Result }

// AddressOf wraps inner with an address-of node, inserted by assignment
// coercion when a reference-typed destination receives a value argument
// (spec §4.1 "Assignment coercion").
type AddressOf struct {
	Inner Expr
}

func (a AddressOf) Type() Type {
	t := a.Inner.Type()
	return Reference(t)
}

// ManagedCopy represents the gc_alloc_managed → struct_copy sequence
// inserted when a CopyRefType parameter receives a value argument (spec
// §4.1 "Assignment coercion").
type ManagedCopy struct {
	Src  Expr
	Size int
}

func (m ManagedCopy) Type() Type { return m.Src.Type() }
