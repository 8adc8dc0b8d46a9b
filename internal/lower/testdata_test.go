package lower

import (
	"github.com/openspin/spinc/internal/diag"
	"github.com/openspin/spinc/internal/ir"
	"github.com/openspin/spinc/internal/operand"
)

// fakeNode/fakeIdent/fakeInstr implement Node/IdentNode/InstrNode for
// tests, standing in for a real front-end's AST node types.

type fakeNode struct{ pos diag.Pos }

func (n fakeNode) Pos() diag.Pos { return n.pos }

type fakeIdent struct {
	fakeNode
	name string
}

func (n fakeIdent) Name() string { return n.name }

type fakeInstr struct {
	fakeNode
	mnemonic string
	encoding uint32
	operands []OperandExpr
	flags    ir.FlagBits
	descr    *ir.OperandShape
}

func (n fakeInstr) Mnemonic() string        { return n.mnemonic }
func (n fakeInstr) Encoding() uint32        { return n.encoding }
func (n fakeInstr) Operands() []OperandExpr { return n.operands }
func (n fakeInstr) Flags() ir.FlagBits      { return n.flags }
func (n fakeInstr) Descr() *ir.OperandShape { return n.descr }

// fakeSymbolTable is an in-memory SymbolTable for tests.
type fakeSymbolTable struct {
	syms  map[string]Symbol
	bound map[string]*operand.Operand
}

func newFakeSymbolTable() *fakeSymbolTable {
	return &fakeSymbolTable{syms: map[string]Symbol{}, bound: map[string]*operand.Operand{}}
}

func (s *fakeSymbolTable) Lookup(name string) (Symbol, bool) {
	sym, ok := s.syms[name]
	return sym, ok
}

func (s *fakeSymbolTable) BindLocalLabel(name string, op *operand.Operand) {
	s.bound[name] = op
}
