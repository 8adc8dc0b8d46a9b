package types

import (
	"testing"

	"github.com/openspin/spinc/internal/config"
	"github.com/openspin/spinc/internal/diag"
	"github.com/stretchr/testify/require"
)

func sizeOfFixed(n int) SizeOf {
	return func(Type) int { return n }
}

func TestAssignCoerce_ReferenceInsertsAddressOf(t *testing.T) {
	e, d := newEngine()
	dst := Reference(Int(4, true))
	src := Leaf{Typ: Int(4, true)}
	out := e.AssignCoerce(diag.Pos{}, dst, src, sizeOfFixed(4))
	require.False(t, d.HasErrors())
	addr, ok := out.(AddressOf)
	require.True(t, ok)
	require.Equal(t, src, addr.Inner)
}

func TestAssignCoerce_LargeAggregateUsesManagedCopy(t *testing.T) {
	e, _ := newEngine()
	dst := Object("Big")
	src := Leaf{Typ: Object("Big")}
	out := e.AssignCoerce(diag.Pos{}, dst, src, sizeOfFixed(64))
	mc, ok := out.(ManagedCopy)
	require.True(t, ok)
	require.Equal(t, 64, mc.Size)
}

func TestAssignCoerce_SmallAggregatePassesThrough(t *testing.T) {
	e, _ := newEngine()
	dst := Object("Small")
	src := Leaf{Typ: Object("Small")}
	out := e.AssignCoerce(diag.Pos{}, dst, src, sizeOfFixed(8))
	require.Equal(t, src, out)
}

func TestAssignCoerce_NarrowingInt64WidenThenMask(t *testing.T) {
	cfg := config.Default() // NarrowVia64 defaults true
	d := diag.NewCollector(false, 0)
	e := NewEngine(cfg, d)

	src := Leaf{Typ: Int(8, true)}
	out := e.AssignCoerce(diag.Pos{}, Int(4, true), src, sizeOfFixed(4))
	outer, ok := out.(Cast)
	require.True(t, ok)
	inner, ok := outer.Inner.(Cast)
	require.True(t, ok, "widen-then-mask path wraps an intermediate widen-to-4 Cast")
	require.Equal(t, 4, inner.Target.Width())
}

func TestAssignCoerce_NarrowingDirectPath(t *testing.T) {
	cfg := config.Default().WithNarrowVia64(false)
	d := diag.NewCollector(false, 0)
	e := NewEngine(cfg, d)

	src := Leaf{Typ: Int(8, true)}
	out := e.AssignCoerce(diag.Pos{}, Int(4, true), src, sizeOfFixed(4))
	outer, ok := out.(Cast)
	require.True(t, ok)
	_, doubleWrapped := outer.Inner.(Cast)
	require.False(t, doubleWrapped, "direct path narrows in one step")
}

func TestAssignCoerce_WideningToInt64InsertsHelper(t *testing.T) {
	e, _ := newEngine()
	src := Leaf{Typ: Int(2, true)}
	out := e.AssignCoerce(diag.Pos{}, Int(8, true), src, sizeOfFixed(8))
	cast := out.(Cast)
	require.Equal(t, HelperInt64SignX, cast.Via)
}

func TestAssignCoerce_WideningUnsignedToInt64UsesZerox(t *testing.T) {
	e, _ := newEngine()
	src := Leaf{Typ: Int(2, false)}
	out := e.AssignCoerce(diag.Pos{}, Int(8, true), src, sizeOfFixed(8))
	cast := out.(Cast)
	require.Equal(t, HelperInt64ZeroX, cast.Via)
}

func TestAssignCoerce_WideningBelowFourBytesNoHelper(t *testing.T) {
	e, _ := newEngine()
	src := Leaf{Typ: Int(1, true)}
	out := e.AssignCoerce(diag.Pos{}, Int(4, true), src, sizeOfFixed(4))
	cast := out.(Cast)
	require.Empty(t, cast.Via)
}

func TestAssignCoerce_ConstDestinationWarns(t *testing.T) {
	e, d := newEngine()
	dst := Const(Int(4, true))
	src := Leaf{Typ: Int(4, true)}
	e.AssignCoerce(diag.Pos{}, dst, src, sizeOfFixed(4))
	require.Equal(t, 1, d.WarningCount())
}

func TestAssignCoerce_TypeMismatchErrors(t *testing.T) {
	e, d := newEngine()
	e.AssignCoerce(diag.Pos{}, Object("A"), Leaf{Typ: Object("B")}, sizeOfFixed(4))
	require.True(t, d.HasErrors())
}

func TestAssignCoerce_PointerConstDiscardWarns(t *testing.T) {
	e, d := newEngine()
	dst := Pointer(Int(1, true))
	src := Leaf{Typ: Pointer(Const(Int(1, true)))}
	e.AssignCoerce(diag.Pos{}, dst, src, sizeOfFixed(4))
	require.Equal(t, 1, d.WarningCount())
}

func TestCheckOperator_RejectsUndefinedOperator(t *testing.T) {
	e, d := newEngine()
	ok := e.CheckOperator(diag.Pos{}, OpAdd, Leaf{Typ: Object("A")}, Leaf{Typ: Object("B")})
	require.False(t, ok)
	require.True(t, d.HasErrors())
}

func TestCheckOperator_AllowsPointerArithmetic(t *testing.T) {
	e, d := newEngine()
	ok := e.CheckOperator(diag.Pos{}, OpAdd, Leaf{Typ: Pointer(Int(4, true))}, Leaf{Typ: Int(4, true)})
	require.True(t, ok)
	require.False(t, d.HasErrors())
}
