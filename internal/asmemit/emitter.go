// Package asmemit walks an assembled IR module and renders it as P1/P2
// assembler text (or, via the supplemental image/shim paths, a binary
// boot image and a mailbox wrapper). It is the single pass downstream of
// internal/lower and internal/regalloc that is allowed to see operand
// kinds which "reach the emitter" (operand.Kind.ReachesEmitter) and
// nothing else — MemRef and PcRelative must already be gone by the time
// an Instruction arrives here.
package asmemit

import (
	"fmt"
	"strings"

	"github.com/openspin/spinc/internal/config"
	"github.com/openspin/spinc/internal/diag"
	"github.com/openspin/spinc/internal/ir"
	"github.com/openspin/spinc/internal/operand"
)

// Emitter renders one compilation unit's assembler text, tracking the
// section-mode state spec §4.6 names: inConstants, inData, didOrg, and
// lmmActive (whether the function currently being walked dispatches
// through the LMM runtime).
type Emitter struct {
	cfg  config.Config
	diag *diag.Collector

	out strings.Builder

	inConstants bool
	inData      bool
	didOrg      bool
	lmmActive   bool

	fixups *fixupChain
}

// NewEmitter constructs an Emitter bound to one compile unit's config and
// diagnostics collector.
func NewEmitter(cfg config.Config, d *diag.Collector) *Emitter {
	return &Emitter{cfg: cfg, diag: d, fixups: newFixupChain()}
}

// Emit renders every function of mod, in declaration order, and — for a
// degraded-assembler target — the trailing fixup-chain terminator (spec
// §5 "emission must preserve parse order", §4.6 "Degraded output mode").
func Emit(cfg config.Config, d *diag.Collector, mod *ir.Module) string {
	e := NewEmitter(cfg, d)
	for _, fn := range mod.Functions {
		e.EmitFunction(fn)
	}
	if cfg.DegradedAssembler() {
		e.fixups.finalize(e)
	}
	if d.OverThreshold() {
		return ""
	}
	return e.String()
}

// String returns everything rendered so far.
func (e *Emitter) String() string { return e.out.String() }

// EmitFunction renders one function's Header/Body/Tail sublists in that
// order (spec §5 "header → body (in parse order) → epilogue"), entering
// LMM mode for the duration when the older ISA places this function in
// the shared region (spec §4.6 "When the target is the older ISA and the
// current function is in the shared region"). The preserved-register set
// internal/regalloc computed (spec §4.3) is pushed right after the
// header and popped right before the tail, bracketing the body the same
// way a callee-saved prologue/epilogue brackets a function everywhere
// else this convention is used.
func (e *Emitter) EmitFunction(fn *ir.Function) {
	e.lmmActive = e.cfg.IsOlderISA() && fn.EffectivePlacement(e.cfg.FastRegionBudget()) == ir.SharedRegion
	fn.Header.Each(e.emitOne)
	e.emitPreservedPush(fn)
	fn.Body.Each(e.emitOne)
	e.emitPreservedPop(fn)
	fn.Tail.Each(e.emitOne)
}

// emitPreservedPush renders one `push` line per preserved register, in
// the order internal/regalloc.PreservedOperands assigned them.
func (e *Emitter) emitPreservedPush(fn *ir.Function) {
	for _, op := range fn.Preserved {
		e.writeLine("\tpush\t%s", e.operandText(op))
	}
}

// emitPreservedPop renders the matching pops in reverse order, so the
// last register pushed is the first restored.
func (e *Emitter) emitPreservedPop(fn *ir.Function) {
	for i := len(fn.Preserved) - 1; i >= 0; i-- {
		e.writeLine("\tpop\t%s", e.operandText(fn.Preserved[i]))
	}
}

// EmitList renders a standalone IR list not attached to any function —
// a module's DAT block, for instance — with LMM dispatch left off, since
// a bare list carries no placement of its own. This is what
// internal/compiler's IRAssemble entry point (spec §6) calls.
func EmitList(cfg config.Config, d *diag.Collector, list *ir.List) string {
	e := NewEmitter(cfg, d)
	list.Each(e.emitOne)
	if d.OverThreshold() {
		return ""
	}
	return e.String()
}

func (e *Emitter) ensureDataSection() {
	if !e.inData {
		e.inData = true
		e.inConstants = false
		if !e.didOrg {
			e.writeLine("\torg\t0")
			e.didOrg = true
		}
	}
}

func (e *Emitter) enterConstants() {
	if !e.inConstants {
		e.inConstants = true
		e.inData = false
		e.out.WriteString("CON\n")
	}
}

func (e *Emitter) writeLine(format string, args ...any) {
	fmt.Fprintf(&e.out, format, args...)
	e.out.WriteString("\n")
}

func (e *Emitter) emitOne(inst *ir.Instruction) {
	if inst.Dummy() || inst.Opcode == ir.OpDead {
		return
	}
	switch inst.Opcode {
	case ir.OpComment:
		e.writeLine("' %s", inst.Comment)
	case ir.OpLiteral:
		e.writeLine("%s", inst.Comment)
	case ir.OpLabel:
		if !inst.Flags.Has(ir.FlagLabelNoJump) {
			e.writeLine("%s", e.operandText(inst.Dst))
		}
	case ir.OpConst:
		e.enterConstants()
		e.writeLine("\t%s = %s", e.operandText(inst.Dst), e.operandText(inst.Src))
	case ir.OpByte, ir.OpWord, ir.OpWord1, ir.OpLong, ir.OpString,
		ir.OpReserve, ir.OpReserveH, ir.OpLabeledBlob:
		e.ensureDataSection()
		e.emitData(inst)
	case ir.OpFit:
		e.writeLine("\tfit\t%d", inst.Dst.Value())
	case ir.OpOrg:
		e.writeLine("\torg\t%d", inst.Dst.Value())
		e.didOrg = true
	case ir.OpHubMode:
		e.writeLine("\torgh")
	case ir.OpJump, ir.OpCall, ir.OpDjnz, ir.OpRet:
		e.ensureDataSection()
		e.emitBranch(inst)
	case ir.OpFcache:
		e.ensureDataSection()
		e.emitFcacheLoad(inst)
	case ir.OpRepeat:
		e.ensureDataSection()
		e.writeLine("\trep\t%s,%s", e.operandText(inst.Dst), e.operandText(inst.Src))
	case ir.OpRepeatEnd:
		// Purely a bookkeeping marker for the pass that inserted the
		// matching OpRepeat; the REP instruction itself already encodes
		// its own extent, so nothing is emitted here.
	case ir.OpMove, ir.OpALU:
		e.ensureDataSection()
		e.emitGeneric(inst)
	default:
		panic(fmt.Sprintf("BUG: asmemit: unhandled opcode %s", inst.Opcode))
	}
}

func (e *Emitter) emitGeneric(inst *ir.Instruction) {
	mnemonic := "mov"
	if inst.Descr != nil && inst.Descr.Mnemonic != "" {
		mnemonic = inst.Descr.Mnemonic
	}
	var operands []string
	if inst.Dst != nil {
		operands = append(operands, e.operandText(inst.Dst))
	}
	if inst.Src != nil {
		operands = append(operands, e.operandText(inst.Src))
	}
	if inst.Src2 != nil {
		operands = append(operands, e.operandText(inst.Src2))
	}
	line := fmt.Sprintf("\t%s%s\t%s%s", predicatePrefix(inst.Predicate), mnemonic, strings.Join(operands, ","), e.flagsText(inst.Flags))
	if inst.Comment != "" {
		line += "\t' " + inst.Comment
	}
	e.writeLine("%s", line)
}

// predicatePrefix renders the nine-way predicate table (spec §4.6
// "Predicate formatting"): eight conditional mnemonics plus the empty
// prefix for unconditional.
func predicatePrefix(p ir.Predicate) string {
	m := p.Mnemonic()
	if m == "" {
		return ""
	}
	return m + " "
}

// flagsText renders the flag-modifier suffix (spec §4.6 "Flag
// modifiers"): WC and WZ together collapse to `wcz` on the newer ISA,
// otherwise every set bit is listed separately.
func (e *Emitter) flagsText(f ir.FlagBits) string {
	if f.Has(ir.FlagWC) && f.Has(ir.FlagWZ) && e.cfg.ISA() == config.ISAP2 {
		f &^= ir.FlagWC | ir.FlagWZ
		rest := e.flagList(f)
		return " " + strings.Join(append([]string{"wcz"}, rest...), ",")
	}
	parts := e.flagList(f)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, ",")
}

func (e *Emitter) flagList(f ir.FlagBits) []string {
	var parts []string
	if f.Has(ir.FlagWC) {
		parts = append(parts, "wc")
	}
	if f.Has(ir.FlagWZ) {
		parts = append(parts, "wz")
	}
	if f.Has(ir.FlagWCZ) {
		parts = append(parts, "wcz")
	}
	if f.Has(ir.FlagNR) {
		parts = append(parts, "nr")
	}
	if f.Has(ir.FlagWR) {
		parts = append(parts, "wr")
	}
	return parts
}

// operandText renders any operand kind permitted to reach the emitter
// (operand.Kind.ReachesEmitter); anything else is a prior-pass bug.
func (e *Emitter) operandText(op *operand.Operand) string {
	if op == nil {
		return ""
	}
	if !op.Kind().ReachesEmitter() {
		panic(fmt.Sprintf("BUG: asmemit: operand kind %s must not reach the emitter", op.Kind()))
	}
	switch op.Kind() {
	case operand.ImmInt:
		return e.immediateText(op)
	case operand.ImmFastLabel, operand.ImmSharedLabel:
		return op.Name()
	case operand.ImmString:
		return op.String()
	case operand.ImmBinary:
		return op.Name()
	case operand.HwReg, operand.LocalReg, operand.TempReg:
		return e.registerText(op)
	case operand.HubPtr:
		return "@" + e.operandText(op.Indirect())
	case operand.CogPtr:
		return "@@" + e.operandText(op.Indirect())
	default:
		panic(fmt.Sprintf("BUG: asmemit: unhandled operand kind %s", op.Kind()))
	}
}

func (e *Emitter) immediateText(op *operand.Operand) string {
	if op.Hint() == operand.HintNoImm {
		return fmt.Sprintf("%d", op.Value())
	}
	if op.IsSmallImmediate() {
		return fmt.Sprintf("#%d", op.Value())
	}
	return fmt.Sprintf("##%d", op.Value())
}

func (e *Emitter) registerText(op *operand.Operand) string {
	name := op.Name()
	switch op.Effect() {
	case operand.EffectPreInc:
		return "++" + name
	case operand.EffectPreDec:
		return "--" + name
	case operand.EffectPostInc:
		return name + "++"
	case operand.EffectPostDec:
		return name + "--"
	default:
		return name
	}
}

func (e *Emitter) emitData(inst *ir.Instruction) {
	switch inst.Opcode {
	case ir.OpByte:
		e.writeLine("\tbyte\t%s", e.operandText(inst.Dst))
	case ir.OpWord:
		e.writeLine("\tword\t%s", e.operandText(inst.Dst))
	case ir.OpWord1:
		e.writeLine("\tword1\t%s", e.operandText(inst.Dst))
	case ir.OpLong:
		e.writeLine("\tlong\t%s", e.operandText(inst.Dst))
	case ir.OpString:
		e.writeLine("\tbyte\t%s,0", e.operandText(inst.Dst))
	case ir.OpReserve:
		e.writeLine("\tres\t%d", inst.Dst.Value())
	case ir.OpReserveH:
		e.writeLine("\tresh\t%d", inst.Dst.Value())
	case ir.OpLabeledBlob:
		e.writeLine("%s", e.operandText(inst.Dst))
		e.emitBlob(inst.Dst.Name(), inst.Src)
	default:
		panic(fmt.Sprintf("BUG: asmemit: %s is not a data opcode", inst.Opcode))
	}
}
