package bytecode

import "github.com/openspin/spinc/internal/operand"

// Instr is one stack-machine instruction. Not every field is meaningful
// for every Op: Value only for the sized PushI* family, Label only for
// PushA/Label/Call/Jump/Djnz/LoadLocal/StoreLocal.
type Instr struct {
	Op Opcode

	// Value carries the constant payload for OpPushI8/16/32.
	Value int64

	// Label names the operand this instruction references — the target
	// of a PushA/Call/Jump/Djnz, the identity of a Label, or the named
	// storage slot of a LoadLocal/StoreLocal.
	Label *operand.Operand

	// Addr is this instruction's position in the final, flattened
	// program — the address space labels resolve into.
	Addr int

	// Target is Label's resolved Addr, filled in by the label-resolution
	// pass. -1 until resolved (and stays -1 for opcodes with no label).
	Target int
}

// Program is the flat, address-resolved instruction stream for an entire
// module, plus the opcode-usage histogram collected while emitting it.
type Program struct {
	Instrs []*Instr
	Usage  *Usage
}
