package asmemit

import (
	"strings"
	"testing"

	"github.com/openspin/spinc/internal/config"
	"github.com/openspin/spinc/internal/diag"
	"github.com/openspin/spinc/internal/operand"
	"github.com/stretchr/testify/require"
)

func TestEmitBlob_PadsToFourByteMultiple(t *testing.T) {
	pool := operand.NewPool()
	e, _ := newTestEmitter(config.Default())

	blob := pool.NewBinary("b", []byte{1, 2, 3}, nil)
	e.emitBlob("b", blob)
	// 3 bytes padded to 4: one packed-byte line of exactly 4 values.
	require.True(t, strings.Contains(e.String(), "$01,$02,$03,$00"))
}

func TestEmitBlob_CollapsesLongIdenticalRuns(t *testing.T) {
	pool := operand.NewPool()
	e, _ := newTestEmitter(config.Default())

	data := make([]byte, 8)
	blob := pool.NewBinary("b", data, nil)
	e.emitBlob("b", blob)
	require.True(t, strings.Contains(e.String(), "byte\t$00[8]"))
}

func TestEmitBlob_RelocEmitsAbsoluteAddressOperator(t *testing.T) {
	pool := operand.NewPool()
	e, _ := newTestEmitter(config.Default())

	data := make([]byte, 4)
	blob := pool.NewBinary("b", data, []operand.Reloc{{Kind: operand.RelocAbsoluteLong, Offset: 0, Value: 4}})
	e.emitBlob("b", blob)
	require.True(t, strings.Contains(e.String(), "long\t@@@b+4"))
}

func TestEmitBlob_DebugLineRelocConsumesNoBytes(t *testing.T) {
	pool := operand.NewPool()
	e, _ := newTestEmitter(config.Default())

	data := make([]byte, 4)
	blob := pool.NewBinary("b", data, []operand.Reloc{{Kind: operand.RelocDebugLine, Offset: 0, Value: 42}})
	e.emitBlob("b", blob)
	out := e.String()
	require.True(t, strings.Contains(out, "' line 42"))
	// The 4 data bytes still get emitted since the debug reloc consumed none.
	require.True(t, strings.Contains(out, "$00,$00,$00,$00"))
}

func TestEmitBlob_DegradedModeEmitsFixupPlaceholder(t *testing.T) {
	pool := operand.NewPool()
	d := diag.NewCollector(false, 0)
	e := NewEmitter(config.Default().WithDegradedAssembler(true), d)

	data := make([]byte, 4)
	blob := pool.NewBinary("b", data, []operand.Reloc{{Kind: operand.RelocAbsoluteLong, Offset: 0}})
	e.emitBlob("b", blob)
	out := e.String()
	require.True(t, strings.Contains(out, "__fixup_0001"))
	require.True(t, strings.Contains(out, "<<16)+@b"))
}
