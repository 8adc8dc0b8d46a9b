package lower

import (
	"testing"

	"github.com/openspin/spinc/internal/config"
	"github.com/openspin/spinc/internal/diag"
	"github.com/openspin/spinc/internal/ir"
	"github.com/openspin/spinc/internal/operand"
	"github.com/stretchr/testify/require"
)

func newEmbedder(cfg config.Config) (*Embedder, *diag.Collector, *operand.Pool, *fakeSymbolTable) {
	pool := operand.NewPool()
	d := diag.NewCollector(false, 0)
	syms := newFakeSymbolTable()
	return NewEmbedder(pool, d, cfg, syms), d, pool, syms
}

func TestLabelPrePass_FastRegionMintsFastLabel(t *testing.T) {
	e, _, _, syms := newEmbedder(config.Default())
	nodes := []Node{fakeIdent{name: "loop"}}
	e.LabelPrePass(nodes, ir.FastRegion, false)
	op, ok := syms.bound["loop"]
	require.True(t, ok)
	require.Equal(t, operand.ImmFastLabel, op.Kind())
}

func TestLabelPrePass_SharedRegionWithoutFcacheMintsSharedLabel(t *testing.T) {
	e, _, _, syms := newEmbedder(config.Default())
	nodes := []Node{fakeIdent{name: "loop"}}
	e.LabelPrePass(nodes, ir.SharedRegion, false)
	op := syms.bound["loop"]
	require.Equal(t, operand.ImmSharedLabel, op.Kind())
}

func TestLabelPrePass_FcacheForcesFastLabelEvenInSharedRegion(t *testing.T) {
	e, _, _, syms := newEmbedder(config.Default())
	nodes := []Node{fakeIdent{name: "loop"}}
	e.LabelPrePass(nodes, ir.SharedRegion, true)
	op := syms.bound["loop"]
	require.Equal(t, operand.ImmFastLabel, op.Kind())
}

func TestLabelPrePass_IgnoresNonIdentNodes(t *testing.T) {
	e, _, _, syms := newEmbedder(config.Default())
	e.LabelPrePass([]Node{fakeNode{}}, ir.FastRegion, false)
	require.Empty(t, syms.bound)
}

func TestDecodePredicate_OlderISAPredicateZeroIsUnconditional(t *testing.T) {
	e, _, _, _ := newEmbedder(config.Default().WithISA(config.ISAP1))
	pred, synth := e.DecodePredicate(0)
	require.Equal(t, ir.PredTrue, pred)
	require.False(t, synth)
}

func TestDecodePredicate_NewerISAPredicateZeroSynthesizesReturn(t *testing.T) {
	e, _, _, _ := newEmbedder(config.Default().WithISA(config.ISAP2))
	pred, synth := e.DecodePredicate(0)
	require.Equal(t, ir.PredTrue, pred)
	require.True(t, synth)
}

func TestDecodePredicate_DecodesNonZeroField(t *testing.T) {
	e, _, _, _ := newEmbedder(config.Default())
	pred, synth := e.DecodePredicate(uint32(3) << 18)
	require.Equal(t, ir.PredLT, pred)
	require.False(t, synth)
}

func TestEmit_NewerISASynthesizesReturnAfterPredicateZero(t *testing.T) {
	e, _, pool, syms := newEmbedder(config.Default().WithISA(config.ISAP2))
	syms.syms["x"] = Symbol{Kind: SymLocal, Op: pool.LocalRegister("x")}

	instr := fakeInstr{
		mnemonic: "mov",
		encoding: 0,
		operands: []OperandExpr{{Kind: ExprSymbol, Name: "x"}},
	}
	list := e.Emit([]InstrNode{instr})
	require.Equal(t, 2, list.Len())
	require.Equal(t, ir.OpRet, list.Tail().Opcode)
}

func TestEmit_ResolvesLiteralOperand(t *testing.T) {
	e, _, _, _ := newEmbedder(config.Default())
	instr := fakeInstr{mnemonic: "mov", operands: []OperandExpr{{Kind: ExprLiteral, Value: 42}}}
	list := e.Emit([]InstrNode{instr})
	require.Equal(t, int64(42), list.Head().Dst.Value())
}

func TestEmit_ResolvesSelfRelativeOperand(t *testing.T) {
	e, _, _, _ := newEmbedder(config.Default())
	instr := fakeInstr{mnemonic: "mov", operands: []OperandExpr{{Kind: ExprSelfRelative, Value: 2}}}
	list := e.Emit([]InstrNode{instr})
	require.Equal(t, operand.PcRelative, list.Head().Dst.Kind())
}

func TestEmit_UnresolvedSymbolReportsSyntaxError(t *testing.T) {
	e, d, _, _ := newEmbedder(config.Default())
	instr := fakeInstr{mnemonic: "mov", operands: []OperandExpr{{Kind: ExprSymbol, Name: "undefined"}}}
	e.Emit([]InstrNode{instr})
	require.True(t, d.HasErrors())
}

func TestResolveOperand_AddressOfWrapsInner(t *testing.T) {
	e, _, pool, syms := newEmbedder(config.Default())
	syms.syms["x"] = Symbol{Kind: SymLocal, Op: pool.LocalRegister("x")}
	instr := fakeInstr{mnemonic: "mov", operands: []OperandExpr{
		{Kind: ExprAddressOf, Inner: &OperandExpr{Kind: ExprSymbol, Name: "x"}},
	}}
	list := e.Emit([]InstrNode{instr})
	require.Equal(t, operand.HubPtr, list.Head().Dst.Kind())
}

func TestResolveOperand_CatchAddressOfForcesAbsoluteHint(t *testing.T) {
	e, _, pool, syms := newEmbedder(config.Default())
	syms.syms["x"] = Symbol{Kind: SymGlobalLabel, Op: pool.SharedLabel("x")}
	instr := fakeInstr{mnemonic: "mov", operands: []OperandExpr{
		{Kind: ExprCatchAddressOf, Inner: &OperandExpr{Kind: ExprSymbol, Name: "x"}},
	}}
	list := e.Emit([]InstrNode{instr})
	require.Equal(t, operand.HintForceAbs, list.Head().Dst.Hint())
}

func TestCheckPtraPtrbSafety_WarnsOnUnsavedWrite(t *testing.T) {
	e, d, pool, _ := newEmbedder(config.Default())
	e.checkPtraPtrbSafety(diag.Pos{}, pool.HardwareRegister("ptra", operand.EffectNone), OperandExpr{})
	require.Equal(t, 1, d.WarningCount())
}

func TestCheckPtraPtrbSafety_SilentAfterMarkSaved(t *testing.T) {
	e, d, pool, _ := newEmbedder(config.Default())
	e.MarkSaved("ptra")
	e.checkPtraPtrbSafety(diag.Pos{}, pool.HardwareRegister("ptra", operand.EffectNone), OperandExpr{})
	require.Equal(t, 0, d.WarningCount())
}

func TestCheckPtraPtrbSafety_IgnoresOtherRegisters(t *testing.T) {
	e, d, pool, _ := newEmbedder(config.Default())
	e.checkPtraPtrbSafety(diag.Pos{}, pool.HardwareRegister("pa", operand.EffectNone), OperandExpr{})
	require.Equal(t, 0, d.WarningCount())
}
