// Package lower turns front-end ASTs into the typed IR internal/ir and
// internal/types define: ordinary expression/statement lowering plus the
// inline-assembly embedder (spec §4.5). The front-end itself — lexer,
// parser, concrete AST types — is an external collaborator (spec §6);
// this package only depends on the small interfaces below, the same
// boundary wazero's frontend package draws against a WASM binary decoder
// it does not itself implement.
package lower

import (
	"github.com/openspin/spinc/internal/diag"
	"github.com/openspin/spinc/internal/ir"
	"github.com/openspin/spinc/internal/operand"
)

// Node is the minimal contract every front-end AST node satisfies: a
// source position for diagnostics.
type Node interface {
	Pos() diag.Pos
}

// IdentNode is a bare identifier appearing alone on its own line inside
// an inline-assembly block — spec §4.5 point 1's "identifier-only node",
// which the label pre-pass turns into a local label binding.
type IdentNode interface {
	Node
	Name() string
}

// InstrNode is one inline-assembly instruction line, still carrying its
// raw encoding and unresolved operand expressions (spec §4.5 point 2).
type InstrNode interface {
	Node
	Mnemonic() string
	// Encoding is the raw instruction word the condition-code decode
	// (point 3) extracts the 4-bit predicate field from.
	Encoding() uint32
	Operands() []OperandExpr
	Flags() ir.FlagBits
	Descr() *ir.OperandShape
}

// OperandExprKind tags the addressing notations spec §4.5 point 2
// enumerates for inline-assembly operands.
type OperandExprKind byte

const (
	ExprSymbol         OperandExprKind = iota // parameter/local/temp/const/label/hwreg/function name
	ExprPseudo                                // objptr / sp / __heap_ptr
	ExprNumberedArg                           // result0.., arg00..
	ExprLiteral                               // plain numeric literal
	ExprSelfRelative                          // $ or $±k
	ExprAddressOf                             // @x
	ExprCatchAddressOf                        // @x wrapped in catch(...), forces absolute addressing
	ExprIndirect                              // pointer-indirection, Inner names the base register
)

// OperandExpr is one raw operand appearing in an inline-asm instruction.
type OperandExpr struct {
	Kind  OperandExprKind
	Name  string // set for Symbol/Pseudo/NumberedArg-prefix/Indirect base register name
	Value int64  // literal value, numbered-arg index, or self-relative offset k
	Inner *OperandExpr
	Effect operand.Effect
}

// SymbolKind is the category a name resolves to inside the current
// function/module scope (spec §4.5 point 2's resolution list).
type SymbolKind byte

const (
	SymParam SymbolKind = iota
	SymLocal
	SymTemp
	SymConst
	SymLocalLabel
	SymGlobalLabel
	SymHwReg
	SymFunction
)

// Symbol is what a name resolves to: its category and, where applicable,
// the operand already bound to it (locals/temps/hwregs/labels) or a
// constant value (SymConst).
type Symbol struct {
	Kind  SymbolKind
	Op    *operand.Operand
	Const int64
}

// SymbolTable resolves names against the enclosing function and module,
// and lets the label pre-pass bind freshly-minted local labels.
type SymbolTable interface {
	Lookup(name string) (Symbol, bool)
	BindLocalLabel(name string, op *operand.Operand)
}
