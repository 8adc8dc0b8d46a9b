package bytecode

import "sort"

// Usage tracks per-opcode emission counts across one program, the
// stack-machine analogue of nuir.c's static opusage array.
type Usage struct {
	counts [opcodeCount]int
}

func newUsage() *Usage {
	return &Usage{}
}

func (u *Usage) record(op Opcode) {
	if int(op) < len(u.counts) {
		u.counts[op]++
	}
}

// Entry pairs an opcode with its emission count.
type Entry struct {
	Op    Opcode
	Count int
}

// SortByUsage returns one Entry per opcode, most-used first, ties broken
// by opcode value to keep the ordering deterministic. This mirrors
// NuAssignOpcodes's qsort over opusage (original_source/backends/nucode/
// nuir.c), which later drives opcode-assignment decisions the bytecode
// encoder itself does not need to make.
func (u *Usage) SortByUsage() []Entry {
	entries := make([]Entry, len(u.counts))
	for i, c := range u.counts {
		entries[i] = Entry{Op: Opcode(i), Count: c}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

// Most and Least return the opcodes with the highest and lowest emission
// counts, matching NuAssignOpcodes's "Most used opcode"/"Least used
// opcode" report.
func (u *Usage) Most() Opcode {
	return u.SortByUsage()[0].Op
}

func (u *Usage) Least() Opcode {
	entries := u.SortByUsage()
	return entries[len(entries)-1].Op
}

// Count returns how many times op was emitted.
func (u *Usage) Count(op Opcode) int {
	if int(op) < len(u.counts) {
		return u.counts[op]
	}
	return 0
}
