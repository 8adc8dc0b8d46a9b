package asmemit

import (
	"fmt"

	"github.com/openspin/spinc/internal/operand"
)

// fixupChain tracks the degraded-assembler linked list of fixup records
// (spec §4.6 "Degraded output mode"): every shared-label value emitted as
// data becomes a placeholder expression plus a marker label threaded into
// a runtime-walked singly-linked list terminated by __fixup_ptr.
type fixupChain struct {
	markers []string
}

func newFixupChain() *fixupChain { return &fixupChain{} }

// placeholder returns the fixup-record expression for reloc r against
// label, and the marker label name the caller must plant immediately
// after it. The expression encodes `((next_fixup_label - 4) << 16) +
// @label[+addend]`; the "next_fixup_label - 4" term is resolved by the
// downstream assembler's own label arithmetic, not computed here.
func (f *fixupChain) placeholder(label string, r operand.Reloc) (expr, marker string) {
	marker = fmt.Sprintf("__fixup_%04d", len(f.markers)+1)
	f.markers = append(f.markers, marker)
	if r.Value == 0 {
		return fmt.Sprintf("((%s-4)<<16)+@%s", marker, label), marker
	}
	return fmt.Sprintf("((%s-4)<<16)+@%s+%d", marker, label, r.Value), marker
}

// finalize emits the __fixup_ptr long pointing at the chain's last marker
// (or 0 if no fixups were ever planted), which the mailbox shim's
// __fixup_addresses routine walks at program start.
func (f *fixupChain) finalize(e *Emitter) {
	e.writeLine("__fixup_ptr")
	if len(f.markers) == 0 {
		e.writeLine("\tlong\t0")
		return
	}
	e.writeLine("\tlong\t%s", f.markers[len(f.markers)-1])
}
