package ir

import "github.com/openspin/spinc/internal/operand"

// CallConvention distinguishes the register-passing fast call from a
// stack-passing convention used for recursive/address-taken functions
// (spec §4.3).
type CallConvention byte

const (
	FastCall CallConvention = iota
	StackCall
)

// Param describes one function parameter or tuple-return slot.
type Param struct {
	Name string
	// Type is an opaque handle into internal/types' Type lattice; kept
	// untyped here to avoid an import cycle between ir and types (types
	// builds on ir.Function, not the reverse).
	Type any
}

// Function holds everything spec §3 attributes to a Function: parameters,
// locals, possibly-tuple return types, placement, and the instruction
// sublists that make up its assembled body.
type Function struct {
	Name       string
	Params     []Param
	Locals     []Param
	Results    []Param
	Visibility Visibility
	Language   Language

	Placement CodePlacement
	// LocalAddressTaken forces stack residency for locals and, per
	// spec §4.3, forces SharedRegion placement.
	LocalAddressTaken bool
	InlineEligible    bool

	CallConv CallConvention

	// Header is the leading-comment sublist, Body is the function's own
	// instructions, Tail is the return epilogue (spec §3 "a header
	// sublist ... the function body ... a tail sublist").
	Header *List
	Body   *List
	Tail   *List

	// Preserved is the set of registers this function must restore for
	// its caller, computed by internal/regalloc.
	Preserved []*operand.Operand

	// AsmName/AsmReturnLabel are the emitted entry/return labels,
	// mirroring the original compiler's ir_bedata (outasm.h).
	AsmName         *operand.Operand
	AsmReturnLabel  *operand.Operand
	// AsmAltName is the optional COGSPIN-wrapper entry point used by the
	// degraded-mode mailbox shim (spec §4.6).
	AsmAltName *operand.Operand

	// sizeBytes is a cached estimate of the assembled body size, used by
	// the placement decision (spec §4.3) and fcache legality check
	// (spec §4.5 point 4).
	sizeBytes int
}

// NewFunction allocates a Function with empty Header/Body/Tail sublists.
func NewFunction(name string) *Function {
	return &Function{
		Name:   name,
		Header: NewList(),
		Body:   NewList(),
		Tail:   NewList(),
	}
}

// SizeBytes returns the cached assembled-size estimate.
func (f *Function) SizeBytes() int { return f.sizeBytes }

// SetSizeBytes records the assembled-size estimate computed by lowering.
func (f *Function) SetSizeBytes(n int) { f.sizeBytes = n }

// EffectivePlacement applies spec §4.3's placement-flip rule: a function
// switches from its requested placement to SharedRegion if its size
// exceeds budget, its address is taken, or it was explicitly marked.
func (f *Function) EffectivePlacement(fastRegionBudget int) CodePlacement {
	if f.Placement == SharedRegion {
		return SharedRegion
	}
	if f.LocalAddressTaken {
		return SharedRegion
	}
	if f.sizeBytes > fastRegionBudget {
		return SharedRegion
	}
	return FastRegion
}

// Each walks Header, then Body, then Tail — spec §5's "header → body (in
// parse order) → epilogue" emission order.
func (f *Function) Each(visit func(*Instruction)) {
	f.Header.Each(visit)
	f.Body.Each(visit)
	f.Tail.Each(visit)
}

// Visibility controls cross-module symbol exposure.
type Visibility byte

const (
	VisibilityPrivate Visibility = iota
	VisibilityPublic
)

// Language tags which front-end lowered this function, needed because the
// inline-assembly embedder and coercion rules differ slightly by source
// language (spec §1, §4.5).
type Language byte

const (
	LangPascalObject Language = iota
	LangBasic
	LangCSubset
)

func (l Language) String() string {
	switch l {
	case LangPascalObject:
		return "pascal-object"
	case LangBasic:
		return "basic"
	case LangCSubset:
		return "c-subset"
	default:
		return "unknown"
	}
}
