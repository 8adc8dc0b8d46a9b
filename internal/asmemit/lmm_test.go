package asmemit

import (
	"strings"
	"testing"

	"github.com/openspin/spinc/internal/config"
	"github.com/openspin/spinc/internal/diag"
	"github.com/openspin/spinc/internal/ir"
	"github.com/openspin/spinc/internal/operand"
	"github.com/stretchr/testify/require"
)

func sharedFunction(pool *operand.Pool) *ir.Function {
	fn := ir.NewFunction("f")
	fn.Placement = ir.SharedRegion
	return fn
}

func TestEmitBranch_FastFunctionNeverUsesLmmTable(t *testing.T) {
	pool := operand.NewPool()
	e, _ := newTestEmitter(config.Default().WithISA(config.ISAP1))

	fn := ir.NewFunction("f")
	call := ir.New(ir.OpCall)
	call.Dst = pool.SharedLabel("target")
	fn.Body.Append(call)

	e.EmitFunction(fn)
	require.True(t, strings.Contains(e.String(), "call\t#target"))
	require.False(t, strings.Contains(e.String(), "LMM_CALL"))
}

func TestEmitLmmCall_FastToSharedEmitsCallFromCog(t *testing.T) {
	pool := operand.NewPool()
	e, _ := newTestEmitter(config.Default().WithISA(config.ISAP1))

	fn := sharedFunction(pool)
	call := ir.New(ir.OpCall)
	call.Dst = pool.SharedLabel("target")
	call.Fcache = pool.FastLabel("window") // this instruction itself runs from a cache window
	fn.Body.Append(call)

	e.EmitFunction(fn)
	out := e.String()
	require.True(t, strings.Contains(out, "LMM_CALL_FROM_COG"))
	require.True(t, strings.Contains(out, "long\ttarget"))
}

func TestEmitLmmCall_SharedToFastReportsPlacementError(t *testing.T) {
	pool := operand.NewPool()
	d := diag.NewCollector(false, 0)
	e := NewEmitter(config.Default().WithISA(config.ISAP1), d)

	fn := sharedFunction(pool)
	call := ir.New(ir.OpCall)
	call.Dst = pool.FastLabel("target") // no Fcache: this instruction runs via the LMM dispatcher
	fn.Body.Append(call)

	e.EmitFunction(fn)
	require.True(t, d.HasErrors())
}

func TestEmitLmmCall_SharedToSharedUsesJmpLmmCall(t *testing.T) {
	pool := operand.NewPool()
	e, _ := newTestEmitter(config.Default().WithISA(config.ISAP1))

	fn := sharedFunction(pool)
	call := ir.New(ir.OpCall)
	call.Dst = pool.SharedLabel("target")
	fn.Body.Append(call)

	e.EmitFunction(fn)
	require.True(t, strings.Contains(e.String(), "jmp\t#LMM_CALL"))
}

func TestEmitLmmJump_SharedToFastReportsPlacementError(t *testing.T) {
	pool := operand.NewPool()
	d := diag.NewCollector(false, 0)
	e := NewEmitter(config.Default().WithISA(config.ISAP1), d)

	fn := sharedFunction(pool)
	jmp := ir.New(ir.OpJump)
	jmp.Dst = pool.FastLabel("target")
	fn.Body.Append(jmp)

	e.EmitFunction(fn)
	require.True(t, d.HasErrors())
}

func TestEmitShortenedJump_ShortForwardOffsetUsesAdd(t *testing.T) {
	pool := operand.NewPool()
	e, _ := newTestEmitter(config.Default().WithISA(config.ISAP1))

	fn := sharedFunction(pool)
	jmp := ir.New(ir.OpJump)
	jmp.Dst = pool.SharedLabel("target")
	target := ir.New(ir.OpLabel)
	target.Dst = pool.SharedLabel("target")
	fn.Body.Append(jmp)
	fn.Body.Append(ir.New(ir.OpMove))
	fn.Body.Append(target)
	jmp.Aux = target

	fn.Body.AssignAddresses(0)
	e.EmitFunction(fn)
	require.True(t, strings.Contains(e.String(), "add\tpc,#"))
}

func TestEmitShortenedJump_LongOffsetFallsBackToRdlong(t *testing.T) {
	pool := operand.NewPool()
	e, _ := newTestEmitter(config.Default().WithISA(config.ISAP1))

	fn := sharedFunction(pool)
	jmp := ir.New(ir.OpJump)
	jmp.Dst = pool.SharedLabel("target")
	target := ir.New(ir.OpLabel)
	target.Dst = pool.SharedLabel("target")
	fn.Body.Append(jmp)
	for i := 0; i < 200; i++ {
		fn.Body.Append(ir.New(ir.OpMove))
	}
	fn.Body.Append(target)
	jmp.Aux = target

	fn.Body.AssignAddresses(0)
	e.EmitFunction(fn)
	require.True(t, strings.Contains(e.String(), "rdlong\tpc,pc"))
}

func TestBranchTargetText_RewritesThroughFcacheWindow(t *testing.T) {
	pool := operand.NewPool()
	e, _ := newTestEmitter(config.Default())

	target := ir.New(ir.OpLabel)
	target.Dst = pool.FastLabel("inner")
	target.Fcache = pool.FastLabel("window")

	jmp := ir.New(ir.OpJump)
	jmp.Dst = pool.FastLabel("inner")
	jmp.Aux = target

	require.Equal(t, "LMM_FCACHE_START+(inner-window)", e.branchTargetText(jmp))
}

func TestEmitFcacheLoad_RendersLoaderCallAndLength(t *testing.T) {
	pool := operand.NewPool()
	e, _ := newTestEmitter(config.Default())

	inst := ir.New(ir.OpFcache)
	inst.Src = pool.FastLabel("start")
	inst.Src2 = pool.FastLabel("end")

	e.emitFcacheLoad(inst)
	out := e.String()
	require.True(t, strings.Contains(out, "LMM_FCACHE_LOAD"))
	require.True(t, strings.Contains(out, "long\tend-start"))
}
