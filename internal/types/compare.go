package types

import "github.com/openspin/spinc/internal/diag"

// Predicate names the comparison outcome an IR conditional branch or
// compare instruction tests for; it is deliberately distinct from
// ir.Predicate so this package has no dependency on internal/ir.
type Predicate byte

const (
	PredEQ Predicate = iota
	PredNE
	PredLT
	PredLE
	PredGT
	PredGE
)

func predicateFromOp(op BinOp) Predicate {
	switch op {
	case OpCmpEQ:
		return PredEQ
	case OpCmpNE:
		return PredNE
	case OpCmpLT:
		return PredLT
	case OpCmpLE:
		return PredLE
	case OpCmpGT:
		return PredGT
	case OpCmpGE:
		return PredGE
	default:
		panic("BUG: predicateFromOp called with non-comparison BinOp")
	}
}

// CompareResult is a lowered comparison: either a direct hardware compare
// of Lhs against Rhs under Pred (Lowered == nil), or a tri-valued helper
// call whose result must then be compared against the literal zero under
// Pred (spec §4.1 "Comparisons").
type CompareResult struct {
	Pred     Predicate
	Lhs, Rhs Expr
	// Lowered, when non-nil, is a call to a tri-valued comparison helper
	// (float_cmp/double_cmp/string_cmp/funcptr_cmp); the caller must then
	// compare Lowered against an integer zero under Pred.
	Lowered Expr
}

// Compare implements spec §4.1 "Comparisons".
func (e *Engine) Compare(pos diag.Pos, op BinOp, lhs, rhs Expr) CompareResult {
	if !op.isCompare() {
		panic("BUG: Compare called with non-comparison BinOp")
	}
	pred := predicateFromOp(op)
	lt, rt := lhs.Type(), rhs.Type()

	switch {
	case lt.IsFloat() || rt.IsFloat():
		pr := e.promoteFloat(lhs, rhs)
		helper := HelperFloatCmp
		if pr.Type.Width() == 8 {
			helper = HelperDoubleCmp
		}
		call := Call{Helper: helper, Args: []Expr{pr.Lhs, pr.Rhs}, Result: Int(4, true)}
		return CompareResult{Pred: pred, Lowered: call}

	case lt.kind == KindFunction && rt.kind == KindFunction:
		call := Call{Helper: HelperFuncPtrCmp, Args: []Expr{lhs, rhs}, Result: Int(4, true)}
		return CompareResult{Pred: pred, Lowered: call}

	case isStringLike(lt) && isStringLike(rt):
		call := Call{Helper: HelperStringCmp, Args: []Expr{lhs, rhs}, Result: Int(4, true)}
		return CompareResult{Pred: pred, Lowered: call}

	default:
		return e.compareInt(pos, pred, lhs, rhs)
	}
}

func isStringLike(t Type) bool {
	return t.kind == KindArray && t.elem != nil && t.elem.kind == KindInt && t.elem.width == 1
}

// compareInt implements: "Mixed-sign integer comparisons: when both sides
// fit in <= 4 bytes and at least one side is a constant, the signed
// variant is replaced with an unsigned variant; otherwise a diagnostic is
// emitted and signed comparison used." isConstant recognizes only operands
// wrapped in ConstExpr (below); a Leaf's Tag is never consulted, so front
// ends wrap constants in ConstExpr explicitly.
func (e *Engine) compareInt(pos diag.Pos, pred Predicate, lhs, rhs Expr) CompareResult {
	lt, rt := lhs.Type(), rhs.Type()
	mixedSign := (lt.kind == KindInt && rt.kind == KindInt) && (lt.signed != rt.signed)

	width := 4
	if lt.Width() > width {
		width = lt.Width()
	}
	if rt.Width() > width {
		width = rt.Width()
	}

	if mixedSign {
		if width <= 4 && (isConstant(lhs) || isConstant(rhs)) {
			// Replace the signed variant with unsigned.
			return CompareResult{Pred: pred, Lhs: asUnsigned(lhs), Rhs: asUnsigned(rhs)}
		}
		e.diag.Warning(diag.KindType, pos, "comparison between signed and unsigned integers of ambiguous value; using signed comparison")
	}
	return CompareResult{Pred: pred, Lhs: lhs, Rhs: rhs}
}

// ConstExpr marks an Expr as a compile-time constant for the mixed-sign
// comparison rule and for float constant folding; front ends wrap literal
// values in this so the engine need not guess from a Leaf's Tag.
type ConstExpr struct {
	Expr
}

func isConstant(x Expr) bool {
	_, ok := x.(ConstExpr)
	return ok
}

func asUnsigned(x Expr) Expr {
	t := x.Type()
	if t.kind == KindInt && !t.signed {
		return x
	}
	return Cast{Target: Int(t.Width(), false), Inner: x}
}
