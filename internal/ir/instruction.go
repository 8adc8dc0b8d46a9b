package ir

import "github.com/openspin/spinc/internal/operand"

// OperandShape describes the legal operand arity/addressing for one ISA
// mnemonic, the pointer target of Instruction.Descr. It plays the role
// ssa.Instruction's per-opcode argument-count metadata plays for the SSA
// IR, but generalized to carry the assembler encoding bits this backend
// needs instead of SSA dataflow bits.
type OperandShape struct {
	Mnemonic string
	// MaxOperands is 0, 1, 2, or 3 (dst, src, src2).
	MaxOperands int
	// AllowsEffect reports whether dst/src may legally carry a non-None
	// operand.Effect (only true on instructions targeting the newer ISA's
	// auto-inc/dec addressing).
	AllowsEffect bool
	// DefaultFlags are the flag bits this mnemonic always implies
	// (e.g. DJNZ always writes Z internally on some encodings).
	DefaultFlags FlagBits
}

// SideEffect tags the pre/post inc/dec or forced-addressing behavior
// attached to one operand slot of an instruction, independent of whatever
// Effect the operand.Operand itself carries — this lets the same
// interned HwReg be used plainly in one instruction and with a forced
// addressing mode in another without re-interning.
type SideEffect struct {
	Effect operand.Effect
	Hint   operand.AddressingHint
}

// Instruction is one IR instruction, a node in a function's doubly-linked
// list (spec §3 "IR instruction").
type Instruction struct {
	Opcode    Opcode
	Predicate Predicate
	Descr     *OperandShape

	Dst, Src, Src2 *operand.Operand
	DstEffect      SideEffect
	SrcEffect      SideEffect

	Flags FlagBits

	// Fcache is non-nil if this instruction was emitted inside a cached
	// region; it names the fcache window's base label (spec §3, §4.5
	// point 4).
	Fcache *operand.Operand

	// Aux points at the resolved target instruction for a jump/call/djnz,
	// used by branch-shortening (spec §3, §4.6). Nil until resolved.
	Aux *Instruction

	// Addr is the running address assigned by the lowering pass; branch
	// shortening and PC-relative resolution compare two instructions'
	// Addr fields (spec §3).
	Addr int

	// Comment, when non-empty, is emitted as a trailing line comment —
	// used for OpComment nodes and for annotating generated code.
	Comment string

	prev, next *Instruction
	list       *List
}

// Dummy reports whether this instruction has been tombstoned by a later
// pass (spec §3 Lifecycle: "unused instructions are marked Dummy"). A
// Dummy instruction still occupies its position in the list so that
// Addr-based back-references (Aux, Fcache) remain valid.
func (ir *Instruction) Dummy() bool { return ir.Opcode == OpDummy }

// MarkDummy tombstones an instruction in place.
func (ir *Instruction) MarkDummy() {
	ir.Opcode = OpDummy
	ir.Dst, ir.Src, ir.Src2 = nil, nil, nil
}

// Next and Prev walk the enclosing List; both return nil at the ends.
func (ir *Instruction) Next() *Instruction { return ir.next }
func (ir *Instruction) Prev() *Instruction { return ir.prev }

// New allocates an IR instruction. It is not yet linked into any list.
func New(op Opcode) *Instruction {
	return &Instruction{Opcode: op}
}
