package bytecode

import (
	"testing"

	"github.com/openspin/spinc/internal/config"
	"github.com/openspin/spinc/internal/diag"
	"github.com/openspin/spinc/internal/ir"
	"github.com/openspin/spinc/internal/operand"
	"github.com/stretchr/testify/require"
)

func newTestEmitter() (*emitter, *diag.Collector) {
	d := diag.NewCollector(false, 0)
	return &emitter{
		cfg:       config.Default(),
		diag:      d,
		usage:     newUsage(),
		labelAddr: make(map[*operand.Operand]int),
	}, d
}

func TestEmitConst_SizesBySignedRange(t *testing.T) {
	e, _ := newTestEmitter()
	e.emitConst(100)
	e.emitConst(1000)
	e.emitConst(1 << 20)

	require.Equal(t, OpPushI8, e.prog[0].Op)
	require.Equal(t, OpPushI16, e.prog[1].Op)
	require.Equal(t, OpPushI32, e.prog[2].Op)
	require.Equal(t, int64(1000), e.prog[1].Value)
}

func TestEmitConst_BoundaryValuesStayInSmallerForm(t *testing.T) {
	e, _ := newTestEmitter()
	e.emitConst(127)
	e.emitConst(-128)
	e.emitConst(32767)
	e.emitConst(-32768)

	require.Equal(t, OpPushI8, e.prog[0].Op)
	require.Equal(t, OpPushI8, e.prog[1].Op)
	require.Equal(t, OpPushI16, e.prog[2].Op)
	require.Equal(t, OpPushI16, e.prog[3].Op)
}

func TestEmitConst_JustOverBoundaryWidens(t *testing.T) {
	e, _ := newTestEmitter()
	e.emitConst(128)
	e.emitConst(32768)

	require.Equal(t, OpPushI16, e.prog[0].Op)
	require.Equal(t, OpPushI32, e.prog[1].Op)
}

func TestEmitFunction_PlantsEntryLabelThenBody(t *testing.T) {
	pool := operand.NewPool()
	fn := ir.NewFunction("Go")
	fn.AsmName = pool.FastLabel("pasm_Go")
	fn.Body.Append(ir.New(ir.OpRet))

	e, _ := newTestEmitter()
	e.emitFunction(fn)

	require.Equal(t, OpLabel, e.prog[0].Op)
	require.Equal(t, fn.AsmName, e.prog[0].Label)
	require.Equal(t, OpReturn, e.prog[1].Op)
}

func TestEmitOne_MoveEmitsLoadThenStore(t *testing.T) {
	pool := operand.NewPool()
	inst := ir.New(ir.OpMove)
	inst.Src = pool.Immediate(5)
	inst.Dst = pool.LocalRegister("x")

	e, _ := newTestEmitter()
	e.emitOne(inst)

	require.Equal(t, OpPushI8, e.prog[0].Op)
	require.Equal(t, OpStoreLocal, e.prog[1].Op)
	require.Equal(t, inst.Dst, e.prog[1].Label)
}

func TestEmitOne_ALULooksUpMnemonicAndStores(t *testing.T) {
	pool := operand.NewPool()
	inst := ir.New(ir.OpALU)
	inst.Descr = &ir.OperandShape{Mnemonic: "add"}
	inst.Src = pool.Immediate(1)
	inst.Src2 = pool.Immediate(2)
	inst.Dst = pool.LocalRegister("sum")

	e, _ := newTestEmitter()
	e.emitOne(inst)

	require.Equal(t, OpPushI8, e.prog[0].Op)
	require.Equal(t, OpPushI8, e.prog[1].Op)
	require.Equal(t, OpAdd, e.prog[2].Op)
	require.Equal(t, OpStoreLocal, e.prog[3].Op)
}

func TestEmitOne_UnknownALUMnemonicReportsDiagnostic(t *testing.T) {
	inst := ir.New(ir.OpALU)
	inst.Descr = &ir.OperandShape{Mnemonic: "frobnicate"}

	e, d := newTestEmitter()
	e.emitOne(inst)

	require.True(t, d.HasErrors())
	require.Equal(t, OpDummy, e.prog[len(e.prog)-1].Op)
}

func TestEmitOne_DataAndDirectiveOpcodesEmitNothing(t *testing.T) {
	e, _ := newTestEmitter()
	for _, op := range []ir.Opcode{ir.OpComment, ir.OpConst, ir.OpFit, ir.OpOrg, ir.OpByte, ir.OpString} {
		e.emitOne(ir.New(op))
	}
	require.Empty(t, e.prog)
}

func TestResolveLabels_ForwardReferenceResolvesToLaterAddress(t *testing.T) {
	pool := operand.NewPool()
	target := pool.FastLabel("loop")

	e, d := newTestEmitter()
	jump := ir.New(ir.OpJump)
	jump.Dst = target
	e.emitOne(jump)
	e.emitLabelFor(target)
	e.resolveLabels()

	require.False(t, d.HasErrors())
	require.Equal(t, 1, e.prog[0].Target)
}

func TestResolveLabels_DanglingReferenceReportsPlacementError(t *testing.T) {
	pool := operand.NewPool()
	e, d := newTestEmitter()
	jump := ir.New(ir.OpJump)
	jump.Dst = pool.FastLabel("nowhere")
	e.emitOne(jump)
	e.resolveLabels()

	require.True(t, d.HasErrors())
	require.Equal(t, -1, e.prog[0].Target)
}

func TestEmit_WalksEveryFunctionInDeclarationOrder(t *testing.T) {
	pool := operand.NewPool()
	mod := ir.NewModule("m")

	a := ir.NewFunction("A")
	a.AsmName = pool.FastLabel("pasm_A")
	a.Body.Append(ir.New(ir.OpRet))

	b := ir.NewFunction("B")
	b.AsmName = pool.FastLabel("pasm_B")
	b.Body.Append(ir.New(ir.OpRet))

	mod.AddFunction(a)
	mod.AddFunction(b)

	d := diag.NewCollector(false, 0)
	prog := Emit(config.Default(), d, mod)

	require.Equal(t, a.AsmName, prog.Instrs[0].Label)
	require.Equal(t, b.AsmName, prog.Instrs[2].Label)
}

func TestEmit_SuppressesInstructionsOnceErrorCountExceedsThreshold(t *testing.T) {
	pool := operand.NewPool()
	mod := ir.NewModule("m")

	fn := ir.NewFunction("A")
	fn.AsmName = pool.FastLabel("pasm_A")
	fn.Body.Append(ir.New(ir.OpRet))
	mod.AddFunction(fn)

	d := diag.NewCollector(false, 1)
	d.Error(diag.KindInternal, diag.SyntheticPos("test"), "first")
	d.Error(diag.KindInternal, diag.SyntheticPos("test"), "second")

	prog := Emit(config.Default(), d, mod)
	require.Empty(t, prog.Instrs)
}
