// Package compiler glues internal/operand, internal/ir, internal/types,
// internal/regalloc, internal/lower, internal/asmemit and
// internal/bytecode into the three entry points spec §6 names the
// compiler exposes to its driver: ParseTopFile, IRAssemble, and
// OutputDatFile. It groups the process-wide state spec §5/§9 describe —
// the current-module pointer, the error counter, the label counter —
// behind a single CompileContext, following spec §9's explicit
// recommendation ("group these in an explicit CompileContext threaded
// through all passes... eliminates order-of-initialization bugs").
package compiler

import (
	"path/filepath"

	"github.com/openspin/spinc/internal/config"
	"github.com/openspin/spinc/internal/diag"
	"github.com/openspin/spinc/internal/ir"
	"github.com/openspin/spinc/internal/operand"
)

// FrontEnd is the external collaborator spec §1 ¶3 carves out: the
// source-language lexer, parser, and preprocessor, which hand back the
// parsed (but not yet lowered) shape of one source module. Lowering that
// parse tree into IR — inline-assembly embedding, type unification and
// numeric promotion, and register & resource assignment — is this
// package's own job (spec §1 ¶2), done by lowerModule/lowerFunction in
// lower.go; CompileContext never constructs a FrontEnd itself, only
// calls the one it was given.
type FrontEnd interface {
	// ParseFile parses name — and, recursively, any sub-objects it
	// instantiates as subclasses — and returns the ModuleAST rooted at
	// name's top-level module, ready for this package to lower.
	ParseFile(ctx *CompileContext, name string) (*ModuleAST, error)
}

// CompileContext is the single mutable home for the state spec §5 calls
// "shared mutable state" and spec §9 calls out as process-wide: the
// current-module pointer, the diagnostics collector (which owns the error
// counter), and the operand pool (which owns the label counter).
type CompileContext struct {
	cfg   config.Config
	diag  *diag.Collector
	pool  *operand.Pool
	front FrontEnd

	// current names the module presently under compilation (spec §5 "A
	// thread-local-equivalent current pointer names the module under
	// compilation").
	current *ir.Module

	// parsed caches completed top-level parses by basename so a file
	// instantiated as a subclass by more than one importer is only
	// parsed once (spec §5 Reentrancy: "parsing the same file twice is
	// avoided by keyed lookup on basename").
	parsed map[string]*ir.Module
}

// NewCompileContext constructs a CompileContext bound to cfg and front.
func NewCompileContext(cfg config.Config, front FrontEnd) *CompileContext {
	return &CompileContext{
		cfg:    cfg,
		diag:   diag.NewCollector(cfg.WarningsAreErrors(), cfg.MaxErrors()),
		pool:   operand.NewPool(),
		front:  front,
		parsed: make(map[string]*ir.Module),
	}
}

// Config returns the context's configuration.
func (c *CompileContext) Config() config.Config { return c.cfg }

// Diagnostics returns the error/warning collector every pass reports
// through.
func (c *CompileContext) Diagnostics() *diag.Collector { return c.diag }

// Pool returns the operand pool shared by every pass, including the
// monotonic label counter internal/operand.Pool.NewFastLabel/
// NewSharedLabel advance (spec §9's "next-temp-label" counter).
func (c *CompileContext) Pool() *operand.Pool { return c.pool }

// Current returns the module presently under compilation, or nil outside
// any ParseTopFile/descent.
func (c *CompileContext) Current() *ir.Module { return c.current }

// enterModule installs mod as Current for the duration of fn, restoring
// whatever was Current beforehand — the save/restore discipline spec §5
// requires "across every descent into a sub-module", ported directly from
// OutputDatFile's `save = current; current = P; ...; current = save`
// (original_source/backends/dat/outdat.c).
func (c *CompileContext) enterModule(mod *ir.Module, fn func()) {
	save := c.current
	c.current = mod
	fn()
	c.current = save
}

func basename(name string) string {
	return filepath.Base(name)
}
