package asmemit

import (
	"fmt"

	"github.com/openspin/spinc/internal/diag"
	"github.com/openspin/spinc/internal/ir"
	"github.com/openspin/spinc/internal/operand"
)

// maxRelJumpOffset bounds how far a JUMP may be expressed as a relative
// pc add/sub before falling back to the rdlong dispatcher form (spec
// §4.6 "Branch shortening"), grounded on assemble_ir.c's
// MAX_REL_JUMP_OFFSET.
const maxRelJumpOffset = 100

// placementOf tags a label operand's region, used to pick a column of the
// LMM transformation table (spec §4.6).
func placementOf(op *operand.Operand) ir.CodePlacement {
	if op != nil && op.Kind() == operand.ImmSharedLabel {
		return ir.SharedRegion
	}
	return ir.FastRegion
}

// branchTarget returns the operand naming a branch's destination label:
// DJNZ carries it in Src (Dst is the counter register it decrements),
// every other branch opcode carries it in Dst.
func branchTarget(inst *ir.Instruction) *operand.Operand {
	if inst.Opcode == ir.OpDjnz {
		return inst.Src
	}
	return inst.Dst
}

// branchTargetText renders a branch's destination, rewriting it to an
// fcache-window-relative expression when the resolved target instruction
// lives inside a cached block (spec §4.6 "Fcache loads": "subsequent
// jumps within the cached window are rewritten to target
// LMM_FCACHE_START + (label - window_base)").
func (e *Emitter) branchTargetText(inst *ir.Instruction) string {
	if inst.Aux != nil && inst.Aux.Fcache != nil {
		return fmt.Sprintf("LMM_FCACHE_START+(%s-%s)", e.operandText(branchTarget(inst)), e.operandText(inst.Aux.Fcache))
	}
	return e.operandText(branchTarget(inst))
}

// emitBranch renders a CALL/JUMP/DJNZ/RET instruction. When the current
// function does not dispatch through the LMM runtime, every branch is
// direct; otherwise the transformation depends on whether this particular
// instruction is itself executing from an fcache window (source = Fast)
// or from the LMM dispatcher proper (source = Shared), and on the
// destination label's region (spec §4.6's table header).
func (e *Emitter) emitBranch(inst *ir.Instruction) {
	if !e.lmmActive {
		e.emitDirectBranch(inst)
		return
	}
	src := ir.SharedRegion
	if inst.Fcache != nil {
		src = ir.FastRegion
	}
	dst := placementOf(branchTarget(inst))

	switch inst.Opcode {
	case ir.OpCall:
		e.emitLmmCall(inst, src, dst)
	case ir.OpJump:
		e.emitLmmJump(inst, src, dst)
	case ir.OpDjnz:
		e.emitLmmDjnz(inst, src, dst)
	case ir.OpRet:
		e.emitLmmRet(inst, src)
	default:
		panic(fmt.Sprintf("BUG: asmemit: %s is not a branch opcode", inst.Opcode))
	}
}

func (e *Emitter) emitLmmCall(inst *ir.Instruction, src, dst ir.CodePlacement) {
	switch {
	case src == ir.FastRegion && dst == ir.FastRegion:
		e.emitDirectBranch(inst)
	case src == ir.FastRegion && dst == ir.SharedRegion:
		e.writeLine("\tmov\tpc,$+2")
		e.writeLine("\tcall\t#LMM_CALL_FROM_COG")
		e.writeLine("\tlong\t%s", e.branchTargetText(inst))
	case src == ir.SharedRegion && dst == ir.FastRegion:
		e.diag.Error(diag.KindPlacement, diag.SyntheticPos("asmemit"),
			"cannot call fast-region target %s directly from LMM-dispatched code", e.branchTargetText(inst))
	default: // Shared -> Shared
		e.writeLine("\tjmp\t#LMM_CALL")
		e.writeLine("\tlong\t%s", e.branchTargetText(inst))
	}
}

func (e *Emitter) emitLmmJump(inst *ir.Instruction, src, dst ir.CodePlacement) {
	switch {
	case src == ir.FastRegion && dst == ir.FastRegion:
		e.emitDirectBranch(inst)
	case src != dst:
		e.diag.Error(diag.KindPlacement, diag.SyntheticPos("asmemit"),
			"jump between fast and shared regions requires fcache wrapping, not a direct branch (target %s)", e.branchTargetText(inst))
	default: // Shared -> Shared
		e.emitShortenedJump(inst)
	}
}

func (e *Emitter) emitLmmDjnz(inst *ir.Instruction, src, dst ir.CodePlacement) {
	switch {
	case dst == ir.FastRegion:
		// Fast→Fast is a direct branch; Shared→Fast ("—" in the table)
		// is rendered as a direct branch too. Unlike JUMP, whose
		// Shared→Fast cell reports a placement error, DJNZ does not
		// check this case.
		e.emitDirectBranch(inst)
	case src == ir.FastRegion:
		e.writeLine("\tdjnz\t%s,#LMM_JUMP", e.operandText(inst.Dst))
		e.writeLine("\tlong\t%s", e.branchTargetText(inst))
	default: // Shared -> Shared: "as above" in the table, i.e. JUMP's scheme.
		e.emitShortenedJump(inst)
	}
}

func (e *Emitter) emitLmmRet(inst *ir.Instruction, src ir.CodePlacement) {
	if src == ir.FastRegion {
		e.emitDirectBranch(inst)
		return
	}
	e.writeLine("\tjmp\t#LMM_RET")
}

// emitShortenedJump implements spec §4.6 "Branch shortening": a resolved
// jump target within (0,100) or (-100,0) instructions of here becomes a
// relative pc add/sub; anything farther, or a tie at exactly the
// threshold, falls back to the rdlong dispatcher form.
func (e *Emitter) emitShortenedJump(inst *ir.Instruction) {
	if inst.Aux != nil {
		offset := inst.Aux.Addr - (inst.Addr + 1)
		switch {
		case offset > 0 && offset < maxRelJumpOffset:
			e.writeLine("\tadd\tpc,#%d", 4*offset)
			return
		case offset < 0 && -offset < maxRelJumpOffset:
			e.writeLine("\tsub\tpc,#%d", 4*(-offset))
			return
		}
	}
	e.writeLine("\trdlong\tpc,pc")
	e.writeLine("\tlong\t%s", e.branchTargetText(inst))
}

// emitDirectBranch renders a CALL/JUMP/DJNZ/RET with no LMM transform.
func (e *Emitter) emitDirectBranch(inst *ir.Instruction) {
	mnemonic := map[ir.Opcode]string{
		ir.OpCall: "call", ir.OpJump: "jmp", ir.OpDjnz: "djnz", ir.OpRet: "ret",
	}[inst.Opcode]

	line := "\t" + predicatePrefix(inst.Predicate) + mnemonic
	switch inst.Opcode {
	case ir.OpRet:
		// no operands
	case ir.OpDjnz:
		line += fmt.Sprintf("\t%s,#%s", e.operandText(inst.Dst), e.branchTargetText(inst))
	default:
		line += fmt.Sprintf("\t#%s", e.branchTargetText(inst))
	}
	line += e.flagsText(inst.Flags)
	e.writeLine("%s", line)
}

// emitFcacheLoad renders the OPC_FCACHE pseudo-op: a call to the runtime
// loader followed by the cached block's byte length, computed as label
// arithmetic the downstream assembler resolves (spec §4.6 "Fcache
// loads"). inst.Src names the first cached instruction, inst.Src2 the
// synthetic label just past the last one.
func (e *Emitter) emitFcacheLoad(inst *ir.Instruction) {
	e.writeLine("\tcall\t#LMM_FCACHE_LOAD")
	e.writeLine("\tlong\t%s-%s", e.operandText(inst.Src2), e.operandText(inst.Src))
}
