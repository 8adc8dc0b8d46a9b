package lower

import (
	"strconv"

	"github.com/openspin/spinc/internal/config"
	"github.com/openspin/spinc/internal/diag"
	"github.com/openspin/spinc/internal/ir"
	"github.com/openspin/spinc/internal/operand"
)

// Embedder implements spec §4.5's inline-assembly block: label pre-pass,
// operand resolution, condition-code decode, and the ptra/ptrb safety
// heuristic. fcache wrapping and PC-relative fixup live in fcache.go and
// fixup.go since each is a separate post-emission walk over the block's
// IR list.
//
// Grounded on original_source/backends/asm/inlineasm.c's
// CompileInlineOperand/CompileInlineInstr shape: one big dispatch over
// the AST node's operand notation, translated here into a dispatch over
// OperandExprKind instead of a raw AST_* switch.
type Embedder struct {
	pool *operand.Pool
	diag *diag.Collector
	cfg  config.Config
	syms SymbolTable

	// savedPtrs tracks which of ptra/ptrb this block has already observed
	// being saved (moved into another register) before being overwritten,
	// satisfying point 6's "unless the pointer was previously saved".
	savedPtrs map[string]bool
}

// NewEmbedder constructs an Embedder bound to one function's inline-asm
// block.
func NewEmbedder(pool *operand.Pool, d *diag.Collector, cfg config.Config, syms SymbolTable) *Embedder {
	return &Embedder{pool: pool, diag: d, cfg: cfg, syms: syms, savedPtrs: map[string]bool{}}
}

// LabelPrePass implements point 1: every identifier-only node mints a
// label operand — fast-region unless the enclosing function sits in the
// shared region and no fcache window is requested, in which case the
// label is shared-region — and binds it into the function's local symbol
// table so later instruction operands that reference it resolve.
func (e *Embedder) LabelPrePass(nodes []Node, placement ir.CodePlacement, inFcache bool) {
	for _, n := range nodes {
		id, ok := n.(IdentNode)
		if !ok {
			continue
		}
		var label *operand.Operand
		if inFcache || placement == ir.FastRegion {
			label = e.pool.NewFastLabel(id.Name())
		} else {
			label = e.pool.NewSharedLabel(id.Name())
		}
		e.syms.BindLocalLabel(id.Name(), label)
	}
}

// Emit implements point 2 and point 3: build one ir.Instruction per
// InstrNode, resolving its operand expressions and decoding its
// predicate from the raw encoding.
func (e *Embedder) Emit(nodes []InstrNode) *ir.List {
	list := ir.NewList()
	for _, n := range nodes {
		inst := ir.New(ir.OpALU)
		inst.Descr = n.Descr()
		inst.Flags = n.Flags()

		pred, synthReturn := e.DecodePredicate(n.Encoding())
		inst.Predicate = pred

		operands := n.Operands()
		slots := []**operand.Operand{&inst.Dst, &inst.Src, &inst.Src2}
		for i, oe := range operands {
			if i >= len(slots) {
				e.diag.Error(diag.KindOperandLegality, n.Pos(), "too many operands for %s", n.Mnemonic())
				break
			}
			resolved := e.resolveOperand(n.Pos(), oe)
			*slots[i] = resolved
			if i == 0 {
				e.checkPtraPtrbSafety(n.Pos(), resolved, oe)
			}
		}
		list.Append(inst)

		if synthReturn {
			list.Append(ir.New(ir.OpRet))
		}
	}
	return list
}

// DecodePredicate recovers the 4-bit condition field and translates it
// to the IR's predicate enum (point 3). On the newer ISA, predicate 0
// synthesizes a trailing return.
func (e *Embedder) DecodePredicate(encoding uint32) (ir.Predicate, bool) {
	field := byte((encoding >> 18) & 0xF)
	if field == 0 && e.cfg.ISA() == config.ISAP2 {
		return ir.PredTrue, true
	}
	return decodeFourBitCond(field), false
}

// decodeFourBitCond maps the raw 4-bit condition-code field to the IR's
// Predicate enum. The encoding mirrors the target's native EEEE condition
// field ordering (spec §6 "Predicates").
func decodeFourBitCond(field byte) ir.Predicate {
	table := [...]ir.Predicate{
		ir.PredTrue, // 0: handled specially by callers on P2; plain "always" on P1
		ir.PredEQ,
		ir.PredNE,
		ir.PredLT,
		ir.PredGE,
		ir.PredGT,
		ir.PredLE,
		ir.PredC,
		ir.PredNC,
	}
	if int(field) < len(table) {
		return table[field]
	}
	return ir.PredTrue
}

// resolveOperand dispatches on OperandExprKind, the Go analogue of
// CompileInlineOperand's switch over AST node kind.
func (e *Embedder) resolveOperand(pos diag.Pos, oe OperandExpr) *operand.Operand {
	switch oe.Kind {
	case ExprLiteral:
		return e.pool.Immediate(oe.Value)

	case ExprSelfRelative:
		return e.pool.PcRelative(oe.Value)

	case ExprSymbol:
		return e.resolveSymbol(pos, oe.Name)

	case ExprPseudo:
		return e.resolvePseudo(pos, oe.Name)

	case ExprNumberedArg:
		return e.pool.HardwareRegister(numberedArgName(oe.Name, oe.Value), operand.EffectNone)

	case ExprAddressOf:
		if oe.Inner == nil {
			e.diag.Error(diag.KindSyntax, pos, "@ requires an operand")
			return e.pool.Immediate(0)
		}
		inner := e.resolveOperand(pos, *oe.Inner)
		return e.pool.HubPointer(inner)

	case ExprCatchAddressOf:
		if oe.Inner == nil {
			e.diag.Error(diag.KindSyntax, pos, "catch(@...) requires an operand")
			return e.pool.Immediate(0)
		}
		inner := e.resolveOperand(pos, *oe.Inner)
		return inner.WithHint(operand.HintForceAbs)

	case ExprIndirect:
		base := e.resolveSymbol(pos, oe.Name)
		indirectBase := e.pool.HardwareRegister(base.Name(), oe.Effect)
		return e.pool.MemRef(4, indirectBase)

	default:
		e.diag.Error(diag.KindInternal, pos, "BUG: unhandled inline-asm operand kind %d", oe.Kind)
		return e.pool.Immediate(0)
	}
}

func (e *Embedder) resolveSymbol(pos diag.Pos, name string) *operand.Operand {
	sym, ok := e.syms.Lookup(name)
	if !ok {
		e.diag.Error(diag.KindSyntax, pos, "%s is not defined in this function", name)
		return e.pool.Immediate(0)
	}
	switch sym.Kind {
	case SymConst:
		return e.pool.Immediate(sym.Const)
	case SymParam, SymLocal, SymTemp, SymLocalLabel, SymGlobalLabel, SymHwReg, SymFunction:
		if sym.Op == nil {
			e.diag.Error(diag.KindInternal, pos, "BUG: symbol %s has no bound operand", name)
			return e.pool.Immediate(0)
		}
		return sym.Op
	default:
		e.diag.Error(diag.KindInternal, pos, "BUG: unknown symbol kind for %s", name)
		return e.pool.Immediate(0)
	}
}

// resolvePseudo handles the "objptr"/"sp"/"__heap_ptr" pseudo-registers
// (point 2), each of which names a well-known hardware register this
// function's collaborating symbol table must already expose under that
// reserved name.
func (e *Embedder) resolvePseudo(pos diag.Pos, name string) *operand.Operand {
	switch name {
	case "objptr", "sp", "__heap_ptr":
		return e.resolveSymbol(pos, name)
	default:
		e.diag.Error(diag.KindInternal, pos, "BUG: unrecognized pseudo-register %s", name)
		return e.pool.Immediate(0)
	}
}

func numberedArgName(prefix string, n int64) string {
	return prefix + strconv.FormatInt(n, 10)
}

// checkPtraPtrbSafety implements point 6: a write to ptra/ptrb warns
// unless the pointer was previously saved elsewhere. A write is any
// resolution where the operand appears as the instruction's Dst (the
// caller only invokes this for slot index 0).
func (e *Embedder) checkPtraPtrbSafety(pos diag.Pos, resolved *operand.Operand, oe OperandExpr) {
	name := resolved.Name()
	if name != "ptra" && name != "ptrb" {
		return
	}
	if e.savedPtrs[name] {
		return
	}
	e.diag.Warning(diag.KindOperandLegality, pos, "write to %s without first saving it", name)
}

// MarkSaved records that name (expected to be "ptra" or "ptrb") has been
// copied elsewhere and so a subsequent overwrite needs no warning. The
// front end calls this when it recognizes a move instruction whose
// Src is ptra/ptrb and whose Dst is some other register — that pattern
// recognition is the front end's job (it sees the real mnemonic), so
// this is exported rather than inferred here.
func (e *Embedder) MarkSaved(name string) {
	e.savedPtrs[name] = true
}
