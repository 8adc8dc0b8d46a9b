package lower

import (
	"strconv"

	"github.com/openspin/spinc/internal/ir"
	"github.com/openspin/spinc/internal/operand"
	"github.com/openspin/spinc/internal/types"
)

// HelperResolver names the runtime helper library function (spec §6
// "Runtime helper library") a Helper constant refers to, as a call
// target operand. Supplied by the caller since the symbol table binding
// these names lives in the module under compilation, not in this
// package.
type HelperResolver interface {
	Resolve(h types.Helper) *operand.Operand
}

// ValueLowerer turns an internal/types Expr tree into machine IR appended
// to a function body — the bridge between the type engine's
// Cast/Call/AddressOf/ManagedCopy coercion nodes (spec §9 "Coercion
// insertion") and the assembler's Instruction list.
//
// Grounded on wazero's frontend/lower.go: one recursive case per Expr
// shape, building values bottom-up and returning the operand each
// subexpression now lives in, rather than threading a destination down
// and mutating it in place.
type ValueLowerer struct {
	pool    *operand.Pool
	helpers HelperResolver
	tmp     int
}

func NewValueLowerer(pool *operand.Pool, helpers HelperResolver) *ValueLowerer {
	return &ValueLowerer{pool: pool, helpers: helpers}
}

// Lower emits whatever instructions expr requires and returns the
// operand its value now resides in. A Leaf never emits anything — it
// already names a resident value.
func (v *ValueLowerer) Lower(list *ir.List, expr types.Expr) *operand.Operand {
	switch e := expr.(type) {
	case types.Leaf:
		op, ok := e.Tag.(*operand.Operand)
		if !ok {
			panic("BUG: types.Leaf.Tag does not hold an *operand.Operand")
		}
		return op

	case types.Cast:
		inner := v.Lower(list, e.Inner)
		if e.Via == "" {
			// A free reinterpretation (e.g. dropping const, same-width
			// sign change with no encoding difference) needs no
			// instruction.
			return inner
		}
		return v.lowerCall(list, e.Via, []*operand.Operand{inner})

	case types.AddressOf:
		return v.pool.HubPointer(v.Lower(list, e.Inner))

	case types.Call:
		args := make([]*operand.Operand, len(e.Args))
		for i, a := range e.Args {
			args[i] = v.Lower(list, a)
		}
		return v.lowerCall(list, e.Helper, args)

	case types.ManagedCopy:
		src := v.Lower(list, e.Src)
		dst := v.lowerCall(list, types.HelperGCAllocManaged, []*operand.Operand{v.pool.Immediate(int64(e.Size))})
		v.lowerCall(list, types.HelperStructCopy, []*operand.Operand{dst, src})
		return dst

	default:
		panic("BUG: unhandled types.Expr shape in lowering")
	}
}

// lowerCall implements the calling convention spec §4.3 names (argument
// values move into a dedicated "arg0.." register window, the result
// comes back in "result0.."): each argument is moved into its numbered
// argument register, the call is emitted with Dst bound to result0, and
// that register is returned as the call's value.
func (v *ValueLowerer) lowerCall(list *ir.List, helper types.Helper, args []*operand.Operand) *operand.Operand {
	for i, a := range args {
		argReg := v.pool.HardwareRegister(numberedArgName("arg", int64(i)), operand.EffectNone)
		mov := ir.New(ir.OpMove)
		mov.Dst = argReg
		mov.Src = a
		list.Append(mov)
	}

	result := v.pool.HardwareRegister(numberedArgName("result", 0), operand.EffectNone)
	call := ir.New(ir.OpCall)
	call.Dst = result
	call.Src = v.helpers.Resolve(helper)
	list.Append(call)

	dst := v.newTemp()
	mov := ir.New(ir.OpMove)
	mov.Dst = dst
	mov.Src = result
	list.Append(mov)
	return dst
}

// LowerAssign implements the end-to-end assignment shape spec §8 scenario
// 1 describes: lower src, then move its value into dst unless it already
// landed there (e.g. a plain Leaf referencing dst itself, "y := y").
func (v *ValueLowerer) LowerAssign(list *ir.List, dst *operand.Operand, src types.Expr) {
	value := v.Lower(list, src)
	if value == dst {
		return
	}
	mov := ir.New(ir.OpMove)
	mov.Dst = dst
	mov.Src = value
	list.Append(mov)
}

// LowerBinary lowers a binary operator using the type engine's promotion
// result: a Promote call either yields two coerced leaf operands for a
// single machine ALU instruction, or a Lowered helper Call for wide/float
// operations (spec §4.1 "Numeric promotion").
func (v *ValueLowerer) LowerBinary(list *ir.List, result types.Result, mnemonic *ir.OperandShape) *operand.Operand {
	if result.Lowered != nil {
		return v.Lower(list, result.Lowered)
	}
	lhs := v.Lower(list, result.Lhs)
	rhs := v.Lower(list, result.Rhs)
	dst := v.newTemp()

	mov := ir.New(ir.OpMove)
	mov.Dst = dst
	mov.Src = lhs
	list.Append(mov)

	alu := ir.New(ir.OpALU)
	alu.Descr = mnemonic
	alu.Dst = dst
	alu.Src = rhs
	list.Append(alu)
	return dst
}

func (v *ValueLowerer) newTemp() *operand.Operand {
	v.tmp++
	return v.pool.TempRegister(tempName(v.tmp))
}

func tempName(n int) string {
	return "t" + strconv.Itoa(n)
}
