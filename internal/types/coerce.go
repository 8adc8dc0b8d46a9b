package types

import "github.com/openspin/spinc/internal/diag"

// SizeOf computes a type's size in bytes; supplied by the caller since
// object/tuple layout depends on module-level field lists this package
// does not own.
type SizeOf func(Type) int

// AssignCoerce implements spec §4.1 "Assignment coercion": given a
// destination type and a source expression, insert whatever coercion is
// required, or report a diagnostic if none is legal.
func (e *Engine) AssignCoerce(pos diag.Pos, dst Type, src Expr, sizeOf SizeOf) Expr {
	srcType := src.Type()

	if dst.kind == KindConst {
		// Writing through a const destination is a warning, not an
		// error (spec §4.1 "Errors"); the coercion proceeds against the
		// unwrapped type.
		e.diag.Warning(diag.KindType, pos, "assignment to const-qualified destination")
		dst = *dst.elem
	}

	if dst.kind == KindReference {
		inner := *dst.elem
		if srcType.kind == KindReference {
			return e.coerceValue(pos, inner, AddressOfInner(src), sizeOf)
		}
		// Destination wants a reference, argument is a value: insert an
		// address-of node.
		if !e.assignable(inner, srcType) {
			e.diag.Error(diag.KindType, pos, "cannot bind %s to reference of %s", srcType, inner)
			return src
		}
		return AddressOf{Inner: src}
	}

	return e.coerceValue(pos, dst, src, sizeOf)
}

// AddressOfInner unwraps one layer of AddressOf/reference passthrough;
// used when a reference is rebound to another reference parameter.
func AddressOfInner(x Expr) Expr {
	if a, ok := x.(AddressOf); ok {
		return a.Inner
	}
	return x
}

func (e *Engine) coerceValue(pos diag.Pos, dst Type, src Expr, sizeOf SizeOf) Expr {
	srcType := src.Type()

	if dst.AggregateBySize(sizeOf) && (srcType.kind == KindObject || srcType.kind == KindTuple) {
		// CopyRefType: pass-by-value of a large aggregate becomes a
		// managed-allocation-and-copy sequence.
		return ManagedCopy{Src: src, Size: sizeOf(dst)}
	}

	if dst.Equal(srcType) {
		return src
	}

	if dst.IsNumeric() && srcType.IsNumeric() {
		return e.coerceNumeric(pos, dst, src)
	}

	if dst.kind == KindPointer && srcType.kind == KindPointer {
		if dst.elem.IsConst() && !srcType.elem.IsConst() {
			// fine: adding const is always legal.
		} else if !dst.elem.IsConst() && srcType.elem.IsConst() {
			e.diag.Warning(diag.KindType, pos, "cast discards const qualifier")
		}
		return Cast{Target: dst, Inner: src}
	}

	e.diag.Error(diag.KindType, pos, "type mismatch: cannot convert %s to %s", srcType, dst)
	return src
}

// coerceNumeric handles int<->int and int<->float narrowing/widening for
// assignment (distinct from binary-operator promotion: assignment can
// narrow, promotion never does).
func (e *Engine) coerceNumeric(pos diag.Pos, dst Type, src Expr) Expr {
	srcType := src.Type()

	if dst.IsFloat() || srcType.IsFloat() {
		return e.toFloat(src, dst)
	}

	// Both integer.
	if dst.Width() == srcType.Width() {
		if dst.signed != srcType.signed {
			return Cast{Target: dst, Inner: src}
		}
		return src
	}

	if dst.Width() > srcType.Width() {
		if dst.Width() == 8 {
			helper := HelperInt64ZeroX
			if srcType.signed {
				helper = HelperInt64SignX
			}
			return Cast{Target: dst, Inner: src, Via: helper}
		}
		// Widening to <=4 bytes needs no helper.
		return Cast{Target: dst, Inner: src}
	}

	// Narrowing.
	if srcType.Width() == 8 && dst.Width() <= 4 {
		if e.cfg.NarrowVia64() {
			// Open Question (b): widen-to-4-then-mask path (the
			// original compiler's behavior, kept as the default).
			widened := Cast{Target: Int(4, srcType.signed), Inner: src, Via: pick(srcType.signed, HelperInt64SignX, HelperInt64ZeroX)}
			return Cast{Target: dst, Inner: widened}
		}
		// Direct narrowing path, tested for equivalence per Open
		// Question (b).
		return Cast{Target: dst, Inner: src}
	}

	return Cast{Target: dst, Inner: src}
}

// assignable is a permissive compatibility check used only for the
// reference-binding path above (spec does not define a separate rule set
// here; same-type or numeric-convertible is sufficient).
func (e *Engine) assignable(dst, src Type) bool {
	if dst.Equal(src) {
		return true
	}
	return dst.IsNumeric() && src.IsNumeric()
}

// CheckOperator implements the InvalidOperator diagnostic: operators are
// only legal on numeric, pointer (add/sub with int), and matching-object
// operand pairs.
func (e *Engine) CheckOperator(pos diag.Pos, op BinOp, lhs, rhs Expr) bool {
	lt, rt := lhs.Type(), rhs.Type()

	if lt.IsNumeric() && rt.IsNumeric() {
		return true
	}
	if op.isCompare() {
		if isStringLike(lt) && isStringLike(rt) {
			return true
		}
		if lt.kind == KindFunction && rt.kind == KindFunction {
			return true
		}
		if lt.kind == KindPointer && rt.kind == KindPointer {
			return true
		}
	}
	if (op == OpAdd || op == OpSub) && lt.kind == KindPointer && rt.IsNumeric() {
		return true
	}
	e.diag.Error(diag.KindType, pos, "invalid operator: %s is not defined on %s and %s", opName(op), lt, rt)
	return false
}

func opName(op BinOp) string {
	names := [...]string{"+", "-", "*", "/", "%", "<<", ">>", "&", "|", "^", "==", "!=", "<", "<=", ">", ">="}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}
