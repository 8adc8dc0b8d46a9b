package lower

import (
	"fmt"

	"github.com/openspin/spinc/internal/ir"
	"github.com/openspin/spinc/internal/operand"
)

// FcacheWrap is the result of wrapping an inline-asm block for runtime
// caching (spec §4.5 point 4): the emitter reads Entry/Window/List when
// assembling the enclosing function.
type FcacheWrap struct {
	Entry  *operand.Operand // fast-region label marking the cached call site
	Window *operand.Operand // fcache window base label, bound to offset 0 inside the block
	List   *ir.List         // ORG'd-to-0 block with a leading OpFcache pseudo-instruction
}

// WrapFcache implements point 4: the block is prefixed with a pair of
// fast-region labels and an OpFcache pseudo-instruction naming it, then
// ORG'd to offset 0 inside the cached window and followed by an end
// label. The OpFcache instruction's Src and Src2 name the window and end
// labels, from which the emitter renders the block's byte length. Returns an error if the
// block's length exceeds the configured fcache size.
func (e *Embedder) WrapFcache(block *ir.List, fcacheSize int) (*FcacheWrap, error) {
	if n := block.Len(); n*4 > fcacheSize {
		return nil, fmt.Errorf("inline-asm block of %d bytes exceeds fcache size %d", n*4, fcacheSize)
	}

	entry := e.pool.NewFastLabel("fcache_entry")
	window := e.pool.NewFastLabel("fcache_window")
	end := e.pool.NewFastLabel("fcache_end")

	wrapped := ir.NewList()

	entryLabel := ir.New(ir.OpLabel)
	entryLabel.Dst = entry
	wrapped.Append(entryLabel)

	load := ir.New(ir.OpFcache)
	load.Dst = window
	load.Src = window
	load.Src2 = end
	wrapped.Append(load)

	org := ir.New(ir.OpOrg)
	org.Dst = e.pool.Immediate(0)
	wrapped.Append(org)

	windowLabel := ir.New(ir.OpLabel)
	windowLabel.Dst = window
	wrapped.Append(windowLabel)

	if !block.Empty() {
		block.Each(func(inst *ir.Instruction) { inst.Fcache = window })
		wrapped.Splice(wrapped.Tail(), block.Head(), block.Tail())
	}

	endLabel := ir.New(ir.OpLabel)
	endLabel.Dst = end
	wrapped.Append(endLabel)

	return &FcacheWrap{Entry: entry, Window: window, List: wrapped}, nil
}
