package operand

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPool_InterningIdentity(t *testing.T) {
	p := NewPool()
	a := p.Get(LocalReg, "x", 0)
	b := p.Get(LocalReg, "x", 0)
	require.Same(t, a, b)

	c := p.Get(LocalReg, "y", 0)
	require.NotSame(t, a, c)
}

func TestPool_ImmediateSmallThreshold(t *testing.T) {
	p := NewPool()
	require.True(t, p.Immediate(511).IsSmallImmediate())
	require.True(t, p.Immediate(-511).IsSmallImmediate())
	require.False(t, p.Immediate(512).IsSmallImmediate())
	require.False(t, p.Immediate(0x8000).IsSmallImmediate())
}

func TestPool_LabelsAreUnique(t *testing.T) {
	p := NewPool()
	l1 := p.NewFastLabel("L")
	l2 := p.NewFastLabel("L")
	require.NotEqual(t, l1.Name(), l2.Name())
	require.Equal(t, ImmFastLabel, l1.Kind())
}

func TestPool_HwRegEffectsAreDistinctIdentities(t *testing.T) {
	p := NewPool()
	plain := p.HardwareRegister("ptra", EffectNone)
	postinc := p.HardwareRegister("ptra", EffectPostInc)
	require.NotSame(t, plain, postinc)
	require.Equal(t, EffectPostInc, postinc.Effect())
	require.Equal(t, "ptra", postinc.Name())
}

func TestKind_ReachesEmitter(t *testing.T) {
	require.True(t, ImmInt.ReachesEmitter())
	require.True(t, HwReg.ReachesEmitter())
	require.False(t, MemRef.ReachesEmitter())
	require.False(t, PcRelative.ReachesEmitter())
}

func TestPool_BinaryBlobNotInterned(t *testing.T) {
	p := NewPool()
	relocs := []Reloc{{Kind: RelocAbsoluteLong, Offset: 4, Value: 8}}
	blob1 := p.NewBinary("blob", []byte{1, 2, 3, 4, 5, 6, 7, 8}, relocs)
	blob2 := p.NewBinary("blob", []byte{1, 2, 3, 4, 5, 6, 7, 8}, relocs)
	require.NotSame(t, blob1, blob2, "blobs are allocated fresh, not interned by content")
	require.Equal(t, relocs, blob1.Relocs())
}

func TestPool_MemRefRejectsBadSize(t *testing.T) {
	p := NewPool()
	require.Panics(t, func() { p.MemRef(3, p.Immediate(0)) })
}
