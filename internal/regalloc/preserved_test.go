package regalloc

import (
	"testing"

	"github.com/openspin/spinc/internal/ir"
	"github.com/openspin/spinc/internal/operand"
	"github.com/stretchr/testify/require"
)

// fakeRegisterFile assigns RealReg slots by registration order and treats
// every even slot as callee-saved under FastCall, every slot as
// callee-saved under StackCall — enough variance to exercise both the
// write-set intersection and the calling-convention parameter.
type fakeRegisterFile struct {
	slots map[*operand.Operand]RealReg
}

func newFakeRegisterFile(pool *operand.Pool, names ...string) *fakeRegisterFile {
	rf := &fakeRegisterFile{slots: map[*operand.Operand]RealReg{}}
	for i, name := range names {
		rf.slots[pool.HardwareRegister(name, operand.EffectNone)] = RealReg(i + 1)
	}
	return rf
}

func (rf *fakeRegisterFile) Slot(hw *operand.Operand) (RealReg, bool) {
	r, ok := rf.slots[hw]
	return r, ok
}

func (rf *fakeRegisterFile) CalleeSaved(conv ir.CallConvention) RegSet {
	var set RegSet
	for _, r := range rf.slots {
		if conv == ir.StackCall || r%2 == 0 {
			set = set.Add(r)
		}
	}
	return set
}

func TestWriteSet_CollectsHwRegDestinations(t *testing.T) {
	pool := operand.NewPool()
	rf := newFakeRegisterFile(pool, "pa", "pb", "ptra")

	fn := ir.NewFunction("f")
	mov := ir.New(ir.OpMove)
	mov.Dst = pool.HardwareRegister("pa", operand.EffectNone)
	fn.Body.Append(mov)

	mov2 := ir.New(ir.OpMove)
	mov2.Dst = pool.HardwareRegister("ptra", operand.EffectNone)
	fn.Body.Append(mov2)

	set := WriteSet(fn, rf)
	require.True(t, set.Contains(1)) // pa
	require.True(t, set.Contains(3)) // ptra
	require.False(t, set.Contains(2))
}

func TestWriteSet_IgnoresDummyInstructions(t *testing.T) {
	pool := operand.NewPool()
	rf := newFakeRegisterFile(pool, "pa")

	fn := ir.NewFunction("f")
	mov := ir.New(ir.OpMove)
	mov.Dst = pool.HardwareRegister("pa", operand.EffectNone)
	fn.Body.Append(mov)
	mov.MarkDummy()

	require.True(t, WriteSet(fn, rf).Empty())
}

func TestPreserved_IntersectsWriteSetWithCalleeSaved(t *testing.T) {
	pool := operand.NewPool()
	rf := newFakeRegisterFile(pool, "pa", "pb") // pa=1 (not saved under FastCall), pb=2 (saved)

	fn := ir.NewFunction("f")
	fn.CallConv = ir.FastCall
	for _, name := range []string{"pa", "pb"} {
		mov := ir.New(ir.OpMove)
		mov.Dst = pool.HardwareRegister(name, operand.EffectNone)
		fn.Body.Append(mov)
	}

	preserved := Preserved(fn, rf)
	require.False(t, preserved.Contains(1))
	require.True(t, preserved.Contains(2))
}

func TestPreserved_StackCallPreservesEverythingWritten(t *testing.T) {
	pool := operand.NewPool()
	rf := newFakeRegisterFile(pool, "pa", "pb")

	fn := ir.NewFunction("f")
	fn.CallConv = ir.StackCall
	mov := ir.New(ir.OpMove)
	mov.Dst = pool.HardwareRegister("pa", operand.EffectNone)
	fn.Body.Append(mov)

	preserved := Preserved(fn, rf)
	require.True(t, preserved.Contains(1))
}

func TestPreservedOperands_ResolvesInAscendingOrder(t *testing.T) {
	pool := operand.NewPool()
	rf := newFakeRegisterFile(pool, "pa", "pb", "ptra", "ptrb")

	fn := ir.NewFunction("f")
	fn.CallConv = ir.StackCall
	for _, name := range []string{"ptrb", "pa", "ptra", "pb"} {
		mov := ir.New(ir.OpMove)
		mov.Dst = pool.HardwareRegister(name, operand.EffectNone)
		fn.Body.Append(mov)
	}

	byReg := map[RealReg]*operand.Operand{}
	for op, r := range rf.slots {
		byReg[r] = op
	}
	ops := PreservedOperands(fn, rf, func(r RealReg) *operand.Operand { return byReg[r] })
	require.Len(t, ops, 4)
	for i := 1; i < len(ops); i++ {
		require.Less(t, rf.slots[ops[i-1]], rf.slots[ops[i]])
	}
}
