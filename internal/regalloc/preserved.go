package regalloc

import (
	"github.com/openspin/spinc/internal/ir"
	"github.com/openspin/spinc/internal/operand"
)

// RegisterFile maps the hardware-register operands a target ISA exposes
// onto RealReg slots and names which slots are callee-saved under a
// given calling convention. internal/lower supplies one instance per
// ISA; this package only consumes the interface so it stays ISA-neutral,
// the same separation wazero draws between backend/regalloc (neutral)
// and isa/{amd64,arm64} (register-file specifics).
type RegisterFile interface {
	// Slot reports the RealReg a hardware-register operand occupies, or
	// false if hw is not a register this file tracks (e.g. it belongs to
	// the other ISA, or isn't HwReg at all).
	Slot(hw *operand.Operand) (RealReg, bool)
	// CalleeSaved returns the registers a function must leave intact for
	// its caller under the given calling convention.
	CalleeSaved(conv ir.CallConvention) RegSet
}

// WriteSet walks a function's header, body, and tail and collects every
// hardware register written as a Dst operand.
func WriteSet(fn *ir.Function, rf RegisterFile) RegSet {
	var set RegSet
	fn.Each(func(inst *ir.Instruction) {
		if inst.Dummy() {
			return
		}
		if dst := inst.Dst; dst != nil && dst.Kind() == operand.HwReg {
			if r, ok := rf.Slot(dst); ok {
				set = set.Add(r)
			}
		}
	})
	return set
}

// Preserved implements spec §4.3: "for every function, the set of
// registers it writes that its caller expects intact is computed by
// intersecting its write set with the callee-saved set of its calling
// convention."
func Preserved(fn *ir.Function, rf RegisterFile) RegSet {
	return WriteSet(fn, rf).Intersect(rf.CalleeSaved(fn.CallConv))
}

// PreservedOperands resolves a Preserved RegSet back to the concrete
// operand.Operand values the emitter pushes/pops, in ascending RealReg
// order so emitted push/pop pairs are deterministic across builds.
func PreservedOperands(fn *ir.Function, rf RegisterFile, lookup func(RealReg) *operand.Operand) []*operand.Operand {
	var out []*operand.Operand
	Preserved(fn, rf).Each(func(r RealReg) {
		if op := lookup(r); op != nil {
			out = append(out, op)
		}
	})
	return out
}
