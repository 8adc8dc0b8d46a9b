package asmemit

import (
	"testing"

	"github.com/openspin/spinc/internal/ir"
	"github.com/stretchr/testify/require"
)

func TestBuildImage_ChecksumMakesImageSumToTarget(t *testing.T) {
	img := BuildImage(80_000_000, 0x6f, [2]uint32{0x10, 0x20}, []byte{0xAA}, []byte{1, 2, 3, 4})

	var sum byte
	for _, b := range img {
		sum += b
	}
	require.Equal(t, byte(checksumTarget), sum)
}

func TestBuildImage_HeaderSizeAndLayout(t *testing.T) {
	img := BuildImage(1000, 7, [2]uint32{0xAABBCCDD, 0x11223344}, nil, nil)
	require.Len(t, img, imageHeaderSize)
	require.Equal(t, byte(1000), img[0]) // little-endian clock freq low byte
	require.Equal(t, byte(7), img[4])
	require.Equal(t, byte(0xDD), img[objectTableOffset])
}

func TestEmitImage_UsesModuleScratchAsBody(t *testing.T) {
	mod := ir.NewModule("m")
	mod.AppendScratch([]byte{9, 9, 9, 9})

	img := EmitImage(1000, 0, [2]uint32{}, nil, mod)
	require.Equal(t, []byte{9, 9, 9, 9}, img[imageHeaderSize:])
}
