package bytecode

import (
	"fmt"

	"github.com/openspin/spinc/internal/config"
	"github.com/openspin/spinc/internal/diag"
	"github.com/openspin/spinc/internal/ir"
	"github.com/openspin/spinc/internal/operand"
)

// emitter walks a module's IR once to produce a flat instruction stream
// (labels recorded as they're seen) and once more to resolve every
// forward-referencing label (spec §4.7 "Labels are address operands
// resolved in a second pass").
type emitter struct {
	cfg       config.Config
	diag      *diag.Collector
	usage     *Usage
	prog      []*Instr
	labelAddr map[*operand.Operand]int
}

// Emit serializes mod's functions as a stack-machine bytecode program.
func Emit(cfg config.Config, d *diag.Collector, mod *ir.Module) *Program {
	e := &emitter{
		cfg:       cfg,
		diag:      d,
		usage:     newUsage(),
		labelAddr: make(map[*operand.Operand]int),
	}
	for _, fn := range mod.Functions {
		e.emitFunction(fn)
	}
	e.resolveLabels()
	if d.OverThreshold() {
		return &Program{Usage: e.usage}
	}
	return &Program{Instrs: e.prog, Usage: e.usage}
}

func (e *emitter) emit(op Opcode) *Instr {
	in := &Instr{Op: op, Addr: len(e.prog), Target: -1}
	e.prog = append(e.prog, in)
	e.usage.record(op)
	return in
}

func (e *emitter) emitFunction(fn *ir.Function) {
	e.emitLabelFor(fn.AsmName)
	fn.Each(e.emitOne)
}

// emitLabelFor plants an OpLabel instruction and records its address,
// mirroring NuEmitLabel. A nil operand (an unnamed function entry) emits
// nothing.
func (e *emitter) emitLabelFor(label *operand.Operand) {
	if label == nil {
		return
	}
	in := e.emit(OpLabel)
	in.Label = label
	e.labelAddr[label] = in.Addr
}

// emitConst sizes and emits a constant push, ported from NuEmitConst.
func (e *emitter) emitConst(val int64) {
	in := e.emit(constOpcode(val))
	in.Value = val
}

// emitAddress pushes a label's address, mirroring NuEmitAddress.
func (e *emitter) emitAddress(label *operand.Operand) {
	in := e.emit(OpPushA)
	in.Label = label
}

// emitOperand pushes one operand's value: a sized constant for ImmInt, an
// address push for a label, or a named-slot load for anything else
// (registers and locals have no home in a stack machine; LoadLocal names
// the slot by the operand's interned name).
func (e *emitter) emitOperand(op *operand.Operand) {
	if op == nil {
		return
	}
	switch op.Kind() {
	case operand.ImmInt:
		e.emitConst(op.Value())
	case operand.ImmFastLabel, operand.ImmSharedLabel:
		e.emitAddress(op)
	default:
		in := e.emit(OpLoadLocal)
		in.Label = op
	}
}

func (e *emitter) emitStore(op *operand.Operand) {
	if op == nil {
		return
	}
	in := e.emit(OpStoreLocal)
	in.Label = op
}

func (e *emitter) emitOne(inst *ir.Instruction) {
	switch inst.Opcode {
	case ir.OpLabel:
		e.emitLabelFor(inst.Dst)
	case ir.OpJump:
		e.emitBranch(OpJump, inst.Dst)
	case ir.OpCall:
		e.emitBranch(OpCall, inst.Dst)
	case ir.OpRet:
		e.emit(OpReturn)
	case ir.OpDjnz:
		e.emitOperand(inst.Dst)
		e.emitBranch(OpDjnz, inst.Src)
	case ir.OpMove:
		e.emitOperand(inst.Src)
		e.emitStore(inst.Dst)
	case ir.OpALU:
		e.emitOperand(inst.Src)
		e.emitOperand(inst.Src2)
		e.emitALU(inst)
		e.emitStore(inst.Dst)
	case ir.OpComment, ir.OpLiteral, ir.OpConst, ir.OpFit, ir.OpOrg, ir.OpHubMode,
		ir.OpRepeat, ir.OpRepeatEnd, ir.OpFcache, ir.OpDummy, ir.OpDead:
		// Assembler section directives and placement hints have no
		// stack-machine counterpart.
	case ir.OpByte, ir.OpWord, ir.OpWord1, ir.OpLong, ir.OpString, ir.OpReserve, ir.OpReserveH, ir.OpLabeledBlob:
		// Data-segment emission is internal/asmemit's concern; the
		// bytecode back-end only serializes executable code.
	default:
		panic(fmt.Sprintf("BUG: bytecode: unhandled ir.Opcode %s", inst.Opcode))
	}
}

func (e *emitter) emitBranch(op Opcode, target *operand.Operand) {
	in := e.emit(op)
	in.Label = target
}

func (e *emitter) emitALU(inst *ir.Instruction) {
	if inst.Descr == nil {
		e.diag.Error(diag.KindOperandLegality, diag.SyntheticPos("bytecode"), "ALU instruction has no operand descriptor")
		e.emit(OpDummy)
		return
	}
	op, ok := mnemonicOpcode(inst.Descr.Mnemonic)
	if !ok {
		e.diag.Error(diag.KindOperandLegality, diag.SyntheticPos("bytecode"), "unknown opcode %s", inst.Descr.Mnemonic)
		e.emit(OpDummy)
		return
	}
	e.emit(op)
}

// resolveLabels fills in Target for every instruction naming a label,
// spec §4.7's second pass. An unresolved label (no matching OpLabel was
// ever emitted) is a placement error, not an internal invariant — it
// reflects a dangling reference in front-end-supplied IR.
func (e *emitter) resolveLabels() {
	for _, in := range e.prog {
		if in.Label == nil || in.Op == OpLoadLocal || in.Op == OpStoreLocal || in.Op == OpLabel {
			continue
		}
		addr, ok := e.labelAddr[in.Label]
		if !ok {
			e.diag.Error(diag.KindPlacement, diag.SyntheticPos("bytecode"), "unresolved label %s", in.Label.Name())
			continue
		}
		in.Target = addr
	}
}
