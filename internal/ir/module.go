package ir

// Module is the symbol-table-scoped container spec §3 describes: a DAG
// rooted at the top-level module, never mutated after the fixup pass
// completes except through the emitter's shared mutable output buffer.
type Module struct {
	Name string

	// Next chains to the enclosing (lexically outer) module for scoped
	// symbol lookup, mirroring the original compiler's symbol-table
	// chaining (spec §3 "lexically scoped via next chaining to the
	// global module").
	Next *Module

	Functions []*Function

	// DefaultPlacement is the placement new functions receive absent an
	// explicit override or a size-triggered flip (spec §4.3).
	DefaultPlacement CodePlacement

	Language Language

	// VarSectionSize is the final computed size, in bytes, of the
	// module's VAR block, assigned once object-offset assignment
	// completes (spec §5 pipeline).
	VarSectionSize int

	// Subclasses lists modules instantiated as this module's object
	// members (spec §3 "subclass list").
	Subclasses []*Module

	// scratch is the back-end's mutable output buffer (assembled text or
	// image bytes accumulated by internal/asmemit); spec §3 explicitly
	// permits mutation here even after the module DAG is otherwise
	// frozen.
	scratch []byte
}

// NewModule allocates an empty Module.
func NewModule(name string) *Module {
	return &Module{Name: name}
}

// Scratch returns the back-end's mutable output buffer.
func (m *Module) Scratch() []byte { return m.scratch }

// AppendScratch appends bytes to the back-end's output buffer.
func (m *Module) AppendScratch(b []byte) { m.scratch = append(m.scratch, b...) }

// AddFunction registers fn with the module in declaration order — parse
// order, which spec §5 requires emission to preserve.
func (m *Module) AddFunction(fn *Function) {
	m.Functions = append(m.Functions, fn)
}

// Lookup searches this module's function list, then recurses through
// Next, matching the original compiler's lexical symbol-table chaining.
func (m *Module) Lookup(name string) *Function {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	if m.Next != nil {
		return m.Next.Lookup(name)
	}
	return nil
}
