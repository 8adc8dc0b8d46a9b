// Package regalloc assigns the finite hardware register file: preserved
// (callee-saved-style) registers, argument/result register windows, and
// local/temporary storage placement in either the fast or shared region
// per function's placement mode (spec §4.3).
//
// RealReg's bit layout is grounded on wazero's
// internal/engine/wazevo/backend/regalloc.VReg, which packs a register
// type and a real-register slot into the high bits of a machine word and
// an identifier into the low bits so later passes can compare registers
// by plain integer equality.
package regalloc

import "fmt"

// RealReg names one physical hardware register slot. The concrete
// register file (arg0.., result0.., preserved general-purpose slots) is
// supplied by internal/lower per target ISA; this package only reasons
// about sets and assignment, not mnemonics.
type RealReg uint8

const RealRegInvalid RealReg = 0

// VReg is a virtual register: either backed by a RealReg (a pre-colored
// argument/result/preserved slot) or a plain numbered temporary awaiting
// assignment. The low 24 bits are the identifier, bit 24 flags
// "is-real", and bits 25-31 carry the RealReg when set.
type VReg uint32

const vRegRealFlag VReg = 1 << 24

func FromRealReg(r RealReg) VReg {
	return VReg(r)<<25 | vRegRealFlag
}

func FromID(id uint32) VReg {
	if id >= 1<<24 {
		panic(fmt.Sprintf("BUG: vreg id %d overflows 24 bits", id))
	}
	return VReg(id)
}

func (v VReg) IsReal() bool   { return v&vRegRealFlag != 0 }
func (v VReg) RealReg() RealReg {
	if !v.IsReal() {
		return RealRegInvalid
	}
	return RealReg(v >> 25)
}
func (v VReg) ID() uint32 { return uint32(v & (vRegRealFlag - 1)) }

func (v VReg) String() string {
	if v.IsReal() {
		return fmt.Sprintf("r%d", v.RealReg())
	}
	return fmt.Sprintf("v%d", v.ID())
}

// RegSet is a bitset over RealReg (at most 64 physical registers, which
// comfortably covers both ISAs' register files).
type RegSet uint64

func (s RegSet) Add(r RealReg) RegSet     { return s | (1 << r) }
func (s RegSet) Remove(r RealReg) RegSet  { return s &^ (1 << r) }
func (s RegSet) Contains(r RealReg) bool  { return s&(1<<r) != 0 }
func (s RegSet) Union(o RegSet) RegSet    { return s | o }
func (s RegSet) Intersect(o RegSet) RegSet { return s & o }
func (s RegSet) Empty() bool              { return s == 0 }

func (s RegSet) Each(f func(RealReg)) {
	for r := RealReg(0); r < 64; r++ {
		if s.Contains(r) {
			f(r)
		}
	}
}
