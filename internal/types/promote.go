package types

import (
	"github.com/openspin/spinc/internal/config"
	"github.com/openspin/spinc/internal/diag"
)

// BinOp names a binary operator the promotion engine must handle.
type BinOp byte

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpShl
	OpShr // arithmetic or logical, decided by signedness (spec §4.1 rule 3)
	OpAnd
	OpOr
	OpXor
	OpCmpEQ
	OpCmpNE
	OpCmpLT
	OpCmpLE
	OpCmpGT
	OpCmpGE
)

func (o BinOp) isDivOrMod() bool { return o == OpDiv || o == OpMod }

func (o BinOp) isCompare() bool {
	switch o {
	case OpCmpEQ, OpCmpNE, OpCmpLT, OpCmpLE, OpCmpGT, OpCmpGE:
		return true
	default:
		return false
	}
}

// Result is what Promote produces: either a pair of same-typed operands a
// caller emits one machine instruction for (Lowered == nil), or a single
// helper Call that already embeds both coerced operands (Lowered != nil,
// in which case Lhs/Rhs are not separately meaningful).
type Result struct {
	Type    Type
	Lhs, Rhs Expr
	Lowered Expr
}

// Engine applies the promotion rules of spec §4.1 to operands of a binary
// operator, inserting Cast/Call nodes as needed.
type Engine struct {
	cfg  config.Config
	diag *diag.Collector
}

func NewEngine(cfg config.Config, d *diag.Collector) *Engine {
	return &Engine{cfg: cfg, diag: d}
}

// Promote implements spec §4.1's numeric promotion rules for a binary
// operator, returning the result type and the (possibly wrapped) operand
// expressions. Promote panics if asked to promote a non-numeric pair —
// callers must dispatch on operand kind first (strings, function
// pointers and objects use the comparison helpers in compare.go instead).
func (e *Engine) Promote(op BinOp, lhs, rhs Expr) Result {
	lt, rt := lhs.Type(), rhs.Type()
	if !lt.IsNumeric() || !rt.IsNumeric() {
		panic("BUG: Promote called on non-numeric operand")
	}

	// Rule 1: either side float => the other is converted to float.
	if lt.IsFloat() || rt.IsFloat() {
		return e.promoteFloat(lhs, rhs)
	}

	// Rule 2: both integer. Common width = max(leftwidth, rightwidth, 4).
	width := 4
	if lt.Width() > width {
		width = lt.Width()
	}
	if rt.Width() > width {
		width = rt.Width()
	}

	// Rule 3: signedness of the result.
	unsigned := (lt.kind == KindInt && !lt.signed) || (rt.kind == KindInt && !rt.signed)
	resultSigned := !unsigned
	if op == OpShr && unsigned {
		// Arithmetic right shift becomes logical right shift when the
		// shifted operand (lhs) is unsigned.
		resultSigned = lt.signed
	}

	resultType := Int(width, resultSigned)
	lhsC := e.widenInt(lhs, width, resultSigned)
	rhsC := e.widenInt(rhs, width, resultSigned)

	if width == 8 {
		call := e.lowerInt64Op(op, resultType, lhsC, rhsC, resultSigned)
		return Result{Type: resultType, Lowered: call}
	}

	// width <= 4: a single machine instruction suffices, no helper call
	// (spec §8 invariant: "exactly one instruction ... when the width is
	// <= 4 bytes", excluding divide/mod/shift which this target still
	// executes as one hardware instruction at this width).
	return Result{Type: resultType, Lhs: lhsC, Rhs: rhsC}
}

// promoteFloat implements rule 1: integer operands convert via
// fromint/fromuns, narrower floats widen via a helper call, same-width
// float operands pass through unchanged for the emitter to fold or
// compile as a single float instruction.
func (e *Engine) promoteFloat(lhs, rhs Expr) Result {
	lt, rt := lhs.Type(), rhs.Type()
	width := 4
	if lt.IsFloat() && lt.Width() > width {
		width = lt.Width()
	}
	if rt.IsFloat() && rt.Width() > width {
		width = rt.Width()
	}
	target := Float(width)

	lhsC := e.toFloat(lhs, target)
	rhsC := e.toFloat(rhs, target)
	return Result{Type: target, Lhs: lhsC, Rhs: rhsC}
}

func (e *Engine) toFloat(x Expr, target Type) Expr {
	t := x.Type()
	if t.IsFloat() {
		if t.Width() == target.Width() {
			return x
		}
		// Narrower float widened to wider float via a helper call (spec
		// §4.1 rule 1).
		return Cast{Target: target, Inner: x, Via: HelperFloatToDouble}
	}
	// integer -> float.
	unsigned := t.kind == KindInt && !t.signed
	var helper Helper
	switch {
	case target.Width() == 8 && unsigned:
		helper = HelperDoubleFromUns
	case target.Width() == 8:
		helper = HelperDoubleFromInt
	case unsigned:
		helper = HelperFloatFromUns
	default:
		helper = HelperFloatFromInt
	}
	return Cast{Target: target, Inner: x, Via: helper}
}

// widenInt applies the "narrower operands are first widened by a zerox
// or signx helper" rule (spec §4.1 rule 2) when crossing into 8-byte
// width; widening to <=4 bytes needs no helper (single mov/and suffices).
func (e *Engine) widenInt(x Expr, width int, signed bool) Expr {
	t := x.Type()
	if t.Width() >= width {
		return x
	}
	target := Int(width, signed)
	if width <= 4 {
		return Cast{Target: target, Inner: x}
	}
	helper := HelperInt64ZeroX
	if t.signed {
		helper = HelperInt64SignX
	}
	return Cast{Target: target, Inner: x, Via: helper}
}

// lowerInt64Op implements "operations lower to runtime helper calls" for
// the 8-byte common-width case (spec §4.1 rule 2).
func (e *Engine) lowerInt64Op(op BinOp, result Type, lhs, rhs Expr, signed bool) Expr {
	var h Helper
	switch op {
	case OpAdd:
		h = HelperInt64Add
	case OpSub:
		h = HelperInt64Sub
	case OpMul:
		h = pick(signed, HelperInt64MulS, HelperInt64MulU)
	case OpDiv:
		h = pick(signed, HelperInt64DivS, HelperInt64DivU)
	case OpMod:
		h = pick(signed, HelperInt64ModS, HelperInt64ModU)
	case OpShl:
		h = HelperInt64Shl
	case OpShr:
		h = pick(signed, HelperInt64Sar, HelperInt64Shr)
	case OpAnd:
		h = HelperInt64And
	case OpOr:
		h = HelperInt64Or
	case OpXor:
		h = HelperInt64Xor
	default:
		panic("BUG: lowerInt64Op called with non-arithmetic BinOp")
	}
	return Call{Helper: h, Args: []Expr{lhs, rhs}, Result: result}
}

func pick(cond bool, a, b Helper) Helper {
	if cond {
		return a
	}
	return b
}
