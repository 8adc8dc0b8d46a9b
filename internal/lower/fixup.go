package lower

import (
	"fmt"

	"github.com/openspin/spinc/internal/ir"
	"github.com/openspin/spinc/internal/operand"
)

// ResolvePcRelative implements point 5: after emission, every
// PcRelative(k) operand in the block is resolved to a synthesized label
// bound to the instruction sitting at ir.addr + k, with a real OpLabel
// instruction inserted immediately before that target so the emitter has
// somewhere to place the label definition. Addresses must already be
// assigned (list.AssignAddresses) before calling this. Returns an error
// for any offset that lands on no instruction in the block, per the
// invariant in spec §8 ("resolves to a label inside the same block").
func (e *Embedder) ResolvePcRelative(block *ir.List) error {
	byAddr := map[int]*ir.Instruction{}
	block.Each(func(inst *ir.Instruction) {
		if !inst.Dummy() {
			byAddr[inst.Addr] = inst
		}
	})

	type pending struct {
		slot   **operand.Operand
		target *ir.Instruction
	}
	var work []pending
	var firstErr error

	block.Each(func(inst *ir.Instruction) {
		for _, slot := range [3]**operand.Operand{&inst.Dst, &inst.Src, &inst.Src2} {
			op := *slot
			if op == nil || op.Kind() != operand.PcRelative {
				continue
			}
			target, ok := byAddr[inst.Addr+int(op.Value())]
			if !ok {
				if firstErr == nil {
					firstErr = fmt.Errorf("$%+d at address %d resolves to no instruction in this block", op.Value(), inst.Addr)
				}
				continue
			}
			work = append(work, pending{slot: slot, target: target})
		}
	})
	if firstErr != nil {
		return firstErr
	}

	labels := map[*ir.Instruction]*operand.Operand{}
	for _, w := range work {
		label, ok := labels[w.target]
		if !ok {
			label = e.pool.NewFastLabel("pcrel")
			labels[w.target] = label
		}
		*w.slot = label
	}
	// Insert one OpLabel instruction ahead of each distinct target,
	// preserving relative order among multiple targets.
	block.Each(func(inst *ir.Instruction) {
		if label, ok := labels[inst]; ok {
			labelInst := ir.New(ir.OpLabel)
			labelInst.Dst = label
			block.InsertAfter(inst.Prev(), labelInst)
		}
	})
	return nil
}
