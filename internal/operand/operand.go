// Package operand implements the compiler's interned operand pool: the
// symbolic references to hardware registers, temporaries, immediates,
// labels, string literals and binary blobs shared by every later pass.
//
// Interning is by (kind, name, value); identical operands share identity
// so that later passes may compare operands by pointer equality, the same
// trick ssa.Value and regalloc.VReg use to keep a packed integer handle as
// the only identity a later pass needs to carry around.
package operand

import "fmt"

// Kind tags the variant an Operand carries. Exactly one kind is valid at a
// time; Effect is only legal on HwReg.
type Kind byte

const (
	ImmInt Kind = iota
	ImmFastLabel
	ImmSharedLabel
	ImmString
	ImmBinary
	HwReg
	LocalReg
	TempReg
	HubPtr
	CogPtr
	// MemRef and PcRelative exist only before the emitter boundary; see
	// Invariant.
	MemRef
	PcRelative
)

func (k Kind) String() string {
	switch k {
	case ImmInt:
		return "ImmInt"
	case ImmFastLabel:
		return "ImmFastLabel"
	case ImmSharedLabel:
		return "ImmSharedLabel"
	case ImmString:
		return "ImmString"
	case ImmBinary:
		return "ImmBinary"
	case HwReg:
		return "HwReg"
	case LocalReg:
		return "LocalReg"
	case TempReg:
		return "TempReg"
	case HubPtr:
		return "HubPtr"
	case CogPtr:
		return "CogPtr"
	case MemRef:
		return "MemRef"
	case PcRelative:
		return "PcRelative"
	default:
		panic(fmt.Sprintf("BUG: unknown operand.Kind %d", k))
	}
}

// ReachesEmitter reports whether this kind is one of the operand
// variants the emitter is permitted to see (spec §3 Invariant / §8).
func (k Kind) ReachesEmitter() bool {
	switch k {
	case ImmInt, ImmFastLabel, ImmSharedLabel, ImmString, ImmBinary, HwReg, LocalReg, TempReg, HubPtr, CogPtr:
		return true
	default:
		return false
	}
}

// Effect is an operand-side addressing effect. Only HwReg on the newer
// ISA may carry a non-None effect.
type Effect byte

const (
	EffectNone Effect = iota
	EffectPreInc
	EffectPreDec
	EffectPostInc
	EffectPostDec
)

// AddressingHint modifies how an operand's address is formed at emission.
type AddressingHint byte

const (
	HintNone AddressingHint = iota
	HintForceHub
	HintForceAbs
	HintNoImm
)

// smallImmThreshold is the boundary below which an ImmInt encodes as the
// compact `#value` form; at or above it a wider encoding is required
// (spec §3).
const smallImmThreshold = 512

// Reloc is a relocation request attached to an ImmBinary blob.
type Reloc struct {
	Kind   RelocKind
	Offset int  // byte offset into the blob; must be long-aligned for AbsoluteLong.
	Value  int64
}

type RelocKind byte

const (
	RelocAbsoluteLong RelocKind = iota
	RelocDebugLine
)

func (k RelocKind) String() string {
	if k == RelocDebugLine {
		return "DebugLine"
	}
	return "AbsoluteLong"
}

// Operand is the tagged record described in spec §3. Only the fields
// relevant to Kind are meaningful; readers must branch on Kind first.
type Operand struct {
	kind Kind
	name string
	val  int64

	// data holds ImmBinary's byte payload.
	data []byte
	// relocs holds ImmBinary's relocation vector, stored in source order
	// of Offset (spec §3 Relocation).
	relocs []Reloc

	// effect is meaningful only when kind == HwReg.
	effect Effect
	// hint is an addressing-mode hint independent of kind.
	hint AddressingHint
	// indirect is meaningful only for HubPtr/CogPtr: the address of
	// another operand.
	indirect *Operand
	// size is meaningful only for MemRef: 1, 2, or 4.
	size int
}

func (o *Operand) Kind() Kind           { return o.kind }
func (o *Operand) Name() string         { return o.name }
func (o *Operand) Value() int64         { return o.val }
func (o *Operand) Effect() Effect       { return o.effect }
func (o *Operand) Hint() AddressingHint { return o.hint }
func (o *Operand) Indirect() *Operand   { return o.indirect }
func (o *Operand) MemSize() int         { return o.size }
func (o *Operand) Bytes() []byte        { return o.data }
func (o *Operand) Relocs() []Reloc      { return o.relocs }

// IsSmallImmediate reports whether an ImmInt encodes as the compact
// `#value` form on both ISAs (spec §3, §8 scenario 6).
func (o *Operand) IsSmallImmediate() bool {
	if o.kind != ImmInt {
		panic("BUG: IsSmallImmediate on non-ImmInt operand")
	}
	v := o.val
	if v < 0 {
		v = -v
	}
	return v < smallImmThreshold
}

func (o *Operand) String() string {
	switch o.kind {
	case ImmInt:
		return fmt.Sprintf("#%d", o.val)
	case ImmString:
		return fmt.Sprintf("%q", o.name)
	case ImmBinary:
		return fmt.Sprintf("<blob %s, %d bytes, %d relocs>", o.name, len(o.data), len(o.relocs))
	default:
		return fmt.Sprintf("%s(%s)", o.kind, o.name)
	}
}

// key is the interning identity: (kind, name, value). Binary blobs are
// never interned by content (each NewBinary call mints a fresh identity,
// matching the original compiler's per-literal blob allocation); they are
// excluded from the pool map.
type key struct {
	kind Kind
	name string
	val  int64
}

// Pool interns operands for the lifetime of one compilation unit. The pool
// is append-only: Get never evicts or replaces an entry.
type Pool struct {
	interned  map[key]*Operand
	labelNext int
}

// NewPool constructs an empty, ready-to-use Pool.
func NewPool() *Pool {
	return &Pool{interned: make(map[key]*Operand)}
}

// Get interns an operand by (kind, name, val), returning the same *Operand
// for equal arguments (spec §8 invariant: "get(kind,name,val) called twice
// with equal arguments returns identical references").
func (p *Pool) Get(kind Kind, name string, val int64) *Operand {
	k := key{kind, name, val}
	if o, ok := p.interned[k]; ok {
		return o
	}
	o := &Operand{kind: kind, name: name, val: val}
	p.interned[k] = o
	return o
}

// Immediate interns an ImmInt operand.
func (p *Pool) Immediate(v int64) *Operand {
	return p.Get(ImmInt, "", v)
}

// HardwareRegister interns a HwReg operand with the given addressing
// effect. Only legal on the newer ISA per spec §3; callers must check
// config.ISA before requesting a non-None effect.
func (p *Pool) HardwareRegister(name string, effect Effect) *Operand {
	o := p.Get(HwReg, name, 0)
	if effect != EffectNone {
		// HwReg operands with distinct effects are distinct identities:
		// a single register name can appear with and without
		// post-increment in the same function.
		o = p.Get(HwReg, name, int64(effect)+1)
		o.effect = effect
		o.name = name
	}
	return o
}

// LocalRegister / TempRegister intern function-scoped fast-region
// bindings.
func (p *Pool) LocalRegister(name string) *Operand { return p.Get(LocalReg, name, 0) }
func (p *Pool) TempRegister(name string) *Operand  { return p.Get(TempReg, name, 0) }

// FastLabel / SharedLabel intern code-region-tagged label references by
// name; NewFastLabel / NewSharedLabel mint fresh, uniquely-named labels.
func (p *Pool) FastLabel(name string) *Operand   { return p.Get(ImmFastLabel, name, 0) }
func (p *Pool) SharedLabel(name string) *Operand { return p.Get(ImmSharedLabel, name, 0) }

// NewFastLabel mints a fresh fast-region label with a monotonic counter
// suffix, used while lowering a single function (spec §4.2).
func (p *Pool) NewFastLabel(prefix string) *Operand {
	p.labelNext++
	return p.FastLabel(fmt.Sprintf("%s_%04d", prefix, p.labelNext))
}

// NewSharedLabel mints a fresh shared-region label.
func (p *Pool) NewSharedLabel(prefix string) *Operand {
	p.labelNext++
	return p.SharedLabel(fmt.Sprintf("%s_%04d", prefix, p.labelNext))
}

// StringLiteral interns an inline string operand.
func (p *Pool) StringLiteral(s string) *Operand {
	return p.Get(ImmString, s, 0)
}

// NewBinary constructs a fresh, non-interned ImmBinary operand carrying
// data and its relocation vector. Relocations must already be in source
// order of Offset (spec §3).
func (p *Pool) NewBinary(label string, data []byte, relocs []Reloc) *Operand {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &Operand{kind: ImmBinary, name: label, data: cp, relocs: relocs}
}

// HubPointer / CogPointer build pointer operands whose value is the
// address of another operand; not interned since their identity is tied
// to the pointee operand's identity, not a (kind,name,val) tuple.
func (p *Pool) HubPointer(of *Operand) *Operand {
	return &Operand{kind: HubPtr, indirect: of}
}

func (p *Pool) CogPointer(of *Operand) *Operand {
	return &Operand{kind: CogPtr, indirect: of}
}

// MemRef builds a typed dereference; callers must resolve this to a
// legal addressing mode before the emitter boundary (spec §3 invariant).
func (p *Pool) MemRef(size int, addr *Operand) *Operand {
	if size != 1 && size != 2 && size != 4 {
		panic(fmt.Sprintf("BUG: invalid MemRef size %d", size))
	}
	return &Operand{kind: MemRef, size: size, indirect: addr}
}

// PcRelative builds a `$±k` inline-asm operand; must be resolved to a
// synthesized label before reaching the emitter (spec §3, §4.5 point 5).
func (p *Pool) PcRelative(offset int64) *Operand {
	return &Operand{kind: PcRelative, val: offset}
}

// WithHint returns a copy of o tagged with an addressing hint. Operands
// are otherwise immutable once interned; hints are applied at lowering
// time to a freshly-built (not yet interned) wrapper when the underlying
// identity must remain shared — callers needing a hinted *and* shared
// operand should intern the hint into the key instead by using Get with a
// distinguishing name suffix.
func (o *Operand) WithHint(h AddressingHint) *Operand {
	cp := *o
	cp.hint = h
	return &cp
}
