// Package config holds the compiler's immutable, fluently-built
// configuration, threaded through a CompileContext for the lifetime of one
// compilation unit.
package config

// ISA selects the target instruction set family.
type ISA byte

const (
	// ISAP1 is the older ISA: no large immediates, COG-relative direct
	// addressing only, LMM required for SharedRegion code.
	ISAP1 ISA = iota
	// ISAP2 is the newer ISA: ##immediate forms, pointer auto-inc/dec
	// operand effects, hub-exec addressing that removes most LMM need.
	ISAP2
)

func (i ISA) String() string {
	if i == ISAP2 {
		return "P2"
	}
	return "P1"
}

// OutputKind selects what the emitter produces.
type OutputKind byte

const (
	OutputAssemblerText OutputKind = iota
	OutputBinaryImage
)

// Config is immutable; every With* method returns a modified copy,
// mirroring wazero's root RuntimeConfig builder API.
type Config struct {
	isa ISA

	// fastRegionBudget is the byte budget a function's body may consume
	// before placement flips from FastRegion to SharedRegion.
	fastRegionBudget int

	// fcacheSize is the byte size of the runtime fcache window.
	fcacheSize int

	// degradedAssembler selects the fixup-chain output mode for a
	// downstream assembler lacking the absolute-address operator.
	degradedAssembler bool

	warningsAreErrors bool
	maxErrors         int
	output            OutputKind

	// narrowVia64 selects Open Question (b)'s narrowing strategy: true
	// widens 8-byte values to 4 bytes then masks (the original compiler's
	// behavior and this config's default); false narrows directly.
	narrowVia64 bool
}

// Default returns the baseline configuration: P1 target, text output, a
// 2KB fast-region budget, 512-byte fcache window, widen-then-mask
// narrowing, warnings not promoted, unbounded error count.
func Default() Config {
	return Config{
		isa:              ISAP1,
		fastRegionBudget: 2048,
		fcacheSize:       512,
		narrowVia64:      true,
		maxErrors:        0,
	}
}

func (c Config) WithISA(isa ISA) Config              { c.isa = isa; return c }
func (c Config) WithFastRegionBudget(n int) Config   { c.fastRegionBudget = n; return c }
func (c Config) WithFcacheSize(n int) Config         { c.fcacheSize = n; return c }
func (c Config) WithDegradedAssembler(v bool) Config { c.degradedAssembler = v; return c }
func (c Config) WithWarningsAreErrors(v bool) Config { c.warningsAreErrors = v; return c }
func (c Config) WithMaxErrors(n int) Config          { c.maxErrors = n; return c }
func (c Config) WithOutput(k OutputKind) Config      { c.output = k; return c }
func (c Config) WithNarrowVia64(v bool) Config       { c.narrowVia64 = v; return c }

func (c Config) ISA() ISA                { return c.isa }
func (c Config) FastRegionBudget() int   { return c.fastRegionBudget }
func (c Config) FcacheSize() int         { return c.fcacheSize }
func (c Config) DegradedAssembler() bool { return c.degradedAssembler }
func (c Config) WarningsAreErrors() bool { return c.warningsAreErrors }
func (c Config) MaxErrors() int          { return c.maxErrors }
func (c Config) Output() OutputKind      { return c.output }
func (c Config) NarrowVia64() bool       { return c.narrowVia64 }

// IsOlderISA reports whether LMM / fcache / fixup-chain machinery applies.
// Only the P1 ISA needs the large-memory-model dispatcher; P2 can execute
// hub memory directly.
func (c Config) IsOlderISA() bool { return c.isa == ISAP1 }
