package asmemit

import (
	"fmt"
	"strings"

	"github.com/openspin/spinc/internal/operand"
)

// bytesPerDataLine bounds how many literal bytes one `byte` directive
// packs per output line (spec §4.4).
const bytesPerDataLine = 16

// minRunLength is the threshold for collapsing an identical-byte run into
// a single repeated-byte directive: only runs longer than minRunLength
// collapse; a run of minRunLength bytes or fewer is packed literally
// (spec §4.4 "runs of identical bytes longer than 4").
const minRunLength = 4

// emitBlob renders an ImmBinary operand's data and relocation vector as
// assembler text: pad to a 4-byte multiple, then walk the byte array and
// the relocation vector (already in Offset order) in parallel, grounded
// line-for-line on the original compiler's OutputBlob (spec §4.4).
func (e *Emitter) emitBlob(label string, op *operand.Operand) {
	data := op.Bytes()
	padded := (len(data) + 3) &^ 3
	relocs := op.Relocs()

	pos, ri := 0, 0
	for pos < padded {
		if ri < len(relocs) && relocs[ri].Offset == pos {
			r := relocs[ri]
			ri++
			if r.Kind == operand.RelocDebugLine {
				e.writeLine("\t' line %d", r.Value)
				continue
			}
			e.writeLine("\tlong\t%s", e.relocText(label, r))
			pos += 4
			continue
		}
		end := padded
		if ri < len(relocs) {
			end = relocs[ri].Offset
		}
		pos = e.emitDataRun(data, pos, end)
	}
}

// relocText renders one AbsoluteLong relocation's value: the assembler's
// `@@@label[+addend]` absolute-address operator normally, or a degraded-
// mode fixup-chain placeholder when the target assembler lacks it.
func (e *Emitter) relocText(label string, r operand.Reloc) string {
	if !e.cfg.DegradedAssembler() {
		if r.Value == 0 {
			return fmt.Sprintf("@@@%s", label)
		}
		return fmt.Sprintf("@@@%s+%d", label, r.Value)
	}
	text, marker := e.fixups.placeholder(label, r)
	e.writeLine("%s", marker)
	return text
}

// emitDataRun packs data[pos:end] (positions at or beyond len(data) are
// implicit zero padding), returning the new position. A run longer than
// minRunLength of one repeated byte collapses to a single directive;
// otherwise bytes are packed bytesPerDataLine to a line.
func (e *Emitter) emitDataRun(data []byte, pos, end int) int {
	for pos < end {
		b := byteAt(data, pos)
		run := 1
		for pos+run < end && byteAt(data, pos+run) == b {
			run++
		}
		if run > minRunLength {
			e.writeLine("\tbyte\t$%02x[%d]", b, run)
			pos += run
			continue
		}
		lineEnd := pos + bytesPerDataLine
		if lineEnd > end {
			lineEnd = end
		}
		parts := make([]string, 0, lineEnd-pos)
		for i := pos; i < lineEnd; i++ {
			parts = append(parts, fmt.Sprintf("$%02x", byteAt(data, i)))
		}
		e.writeLine("\tbyte\t%s", strings.Join(parts, ","))
		pos = lineEnd
	}
	return pos
}

func byteAt(data []byte, i int) byte {
	if i < len(data) {
		return data[i]
	}
	return 0
}
