package asmemit

import "github.com/openspin/spinc/internal/ir"

// P1 binary-image header layout (SPEC_FULL.md SUPPLEMENTED FEATURES #1,
// grounded on original_source/backends/dat/outdat.c): a clock-frequency
// long, a clock-mode byte, a checksum byte patched after the whole image
// is assembled, two object-table pointer longs, then the init bytecode
// and the assembled body.
const (
	imageHeaderSize   = 16
	checksumOffset    = 5
	checksumTarget    = 0x14
	objectTableOffset = 6
)

// BuildImage assembles a P1 boot image: header, init bytecode, assembled
// body, with the checksum byte patched so every byte in the image sums to
// checksumTarget mod 256 (SPEC_FULL.md SUPPLEMENTED FEATURES #1).
func BuildImage(clockFreq uint32, clockMode byte, objectTablePtrs [2]uint32, initBytecode, body []byte) []byte {
	header := make([]byte, imageHeaderSize)
	putLE32(header[0:4], clockFreq)
	header[4] = clockMode
	header[checksumOffset] = 0
	for i, ptr := range objectTablePtrs {
		off := objectTableOffset + i*4
		putLE32(header[off:off+4], ptr)
	}

	img := make([]byte, 0, len(header)+len(initBytecode)+len(body))
	img = append(img, header...)
	img = append(img, initBytecode...)
	img = append(img, body...)

	var sum byte
	for _, b := range img {
		sum += b
	}
	img[checksumOffset] = byte(checksumTarget - int(sum))
	return img
}

// EmitImage is BuildImage's entry point for a finished module: the body
// is whatever bytes an upstream numeric encoder accumulated into the
// module's scratch buffer (internal/asmemit's own Emit only produces
// assembler text, spec §1's primary emitter target — a binary image is
// this package's supplemental second output kind).
func EmitImage(clockFreq uint32, clockMode byte, objectTablePtrs [2]uint32, initBytecode []byte, mod *ir.Module) []byte {
	return BuildImage(clockFreq, clockMode, objectTablePtrs, initBytecode, mod.Scratch())
}

func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
