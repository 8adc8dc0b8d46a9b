package compiler

import (
	"github.com/openspin/spinc/internal/diag"
	"github.com/openspin/spinc/internal/ir"
	"github.com/openspin/spinc/internal/lower"
	"github.com/openspin/spinc/internal/operand"
	"github.com/openspin/spinc/internal/regalloc"
	"github.com/openspin/spinc/internal/types"
)

// ModuleAST is the parsed, not-yet-lowered shape of one source module a
// FrontEnd hands back from ParseFile. Everything downstream of this
// point — inline-assembly embedding, register assignment — is this
// package's own responsibility (spec §1 ¶2).
type ModuleAST struct {
	Name      string
	Placement ir.CodePlacement
	Language  ir.Language
	Functions []*FunctionAST
}

// FunctionAST is one function's signature plus its body, the construct
// this compiler core lowers end to end. A function can carry an
// inline-assembly block (Labels/Instrs, spec §4.5), an ordinary
// statement body (Statements, spec §4.1), or both — Symbols/Helpers
// resolve the names and runtime-helper calls either one references,
// supplied by the front end since they close over the module's real
// symbol table.
type FunctionAST struct {
	Name       string
	Params     []ir.Param
	Locals     []ir.Param
	Results    []ir.Param
	Visibility ir.Visibility
	Language   ir.Language
	Placement  ir.CodePlacement
	CallConv   ir.CallConvention
	InFcache   bool

	Labels  []lower.Node
	Instrs  []lower.InstrNode
	Symbols lower.SymbolTable
	Helpers lower.HelperResolver

	// Statements is the function's ordinary (non-inline-assembly) body,
	// lowered after the inline-assembly block, if any: type unification
	// and numeric promotion (spec §1 ¶2) over internal/types' Expr trees,
	// turned into IR by internal/lower.ValueLowerer. SizeOf backs
	// AssignCoerce's CopyRefType rule and is required whenever
	// Statements is non-empty.
	Statements []Statement
	SizeOf     types.SizeOf

	// RegisterFile and RegisterLookup, when both non-nil, drive register
	// & resource assignment for this function (spec §2 item 5):
	// RegisterFile answers which hardware registers its calling
	// convention must preserve, RegisterLookup maps a resolved RealReg
	// back to the concrete operand the emitter pushes/pops.
	RegisterFile   regalloc.RegisterFile
	RegisterLookup func(regalloc.RealReg) *operand.Operand

	// Push/Pop build the instructions InsertCallSiteSpills wraps every
	// call site with when this function turns out to be recursive (spec
	// §4.3); nil disables call-site spilling even if the function is
	// recursive, since the exact encoding is ISA-specific and left to
	// the front end.
	Push func(*operand.Operand) *ir.Instruction
	Pop  func(*operand.Operand) *ir.Instruction
}

// Statement is one typed, not-yet-lowered statement lowerFunction appends
// to a function's ordinary body, after its inline-assembly block if any.
// The two shapes below are what a front end needs to express "assign an
// already-built Expr" and "assign the result of a binary operator" — the
// two cases spec §4.1 names numeric promotion and assignment coercion
// for.
type Statement interface {
	lower(eng *types.Engine, vl *lower.ValueLowerer, list *ir.List, sizeOf types.SizeOf)
}

// AssignStatement lowers `Dst = Src`: AssignCoerce inserts whatever
// narrowing, widening, or managed-copy the destination type requires
// (spec §4.1 "Assignment coercion"), then ValueLowerer emits it.
type AssignStatement struct {
	Pos     diag.Pos
	Dst     *operand.Operand
	DstType types.Type
	Src     types.Expr
}

func (s AssignStatement) lower(eng *types.Engine, vl *lower.ValueLowerer, list *ir.List, sizeOf types.SizeOf) {
	coerced := eng.AssignCoerce(s.Pos, s.DstType, s.Src, sizeOf)
	vl.LowerAssign(list, s.Dst, coerced)
}

// BinaryStatement lowers `Dst = Lhs Op Rhs` end to end: CheckOperator
// rejects operand pairs the operator isn't defined on, Promote works out
// the common type and any widening/helper-call coercions (spec §4.1
// "Numeric promotion"), and the promoted result is assignment-coerced
// into Dst exactly as AssignStatement does — the two rules compose
// because a binary result is itself just another typed Expr.
type BinaryStatement struct {
	Pos      diag.Pos
	Dst      *operand.Operand
	DstType  types.Type
	Op       types.BinOp
	Lhs, Rhs types.Expr
	Mnemonic *ir.OperandShape
}

func (s BinaryStatement) lower(eng *types.Engine, vl *lower.ValueLowerer, list *ir.List, sizeOf types.SizeOf) {
	if !eng.CheckOperator(s.Pos, s.Op, s.Lhs, s.Rhs) {
		return
	}
	result := eng.Promote(s.Op, s.Lhs, s.Rhs)
	value := vl.LowerBinary(list, result, s.Mnemonic)
	coerced := eng.AssignCoerce(s.Pos, s.DstType, types.Leaf{Typ: result.Type, Tag: value}, sizeOf)
	vl.LowerAssign(list, s.Dst, coerced)
}

// lowerModule builds mod's IR from ast: one lowerFunction call per
// function, followed by a whole-module pass that resolves the call
// graph and assigns preserved registers and call-site spills (spec §4.3)
// — a pass that needs every function's AsmName already bound, hence it
// runs after the per-function loop rather than inside it.
func (c *CompileContext) lowerModule(ast *ModuleAST) *ir.Module {
	mod := ir.NewModule(ast.Name)
	mod.DefaultPlacement = ast.Placement
	mod.Language = ast.Language

	c.enterModule(mod, func() {
		byFunction := make(map[*ir.Function]*FunctionAST, len(ast.Functions))
		for _, fa := range ast.Functions {
			fn := c.lowerFunction(fa)
			mod.AddFunction(fn)
			byFunction[fn] = fa
		}
		c.assignRegisters(mod, byFunction)
	})
	return mod
}

// lowerFunction builds one Function's signature, then its body in up to
// two stages: when the front end supplied an inline-assembly block,
// LabelPrePass binds every local label it defines and Emit resolves
// operand expressions and predicates into an ir.List (spec §4.5 points
// 1-3); when it supplied ordinary Statements, each is driven through a
// fresh internal/types.Engine and internal/lower.ValueLowerer and
// appended after the inline-assembly instructions, if any, in source
// order (spec §1 ¶2: type unification and numeric promotion are this
// package's own job, not the front end's).
func (c *CompileContext) lowerFunction(fa *FunctionAST) *ir.Function {
	fn := ir.NewFunction(fa.Name)
	fn.Params = fa.Params
	fn.Locals = fa.Locals
	fn.Results = fa.Results
	fn.Visibility = fa.Visibility
	fn.Language = fa.Language
	fn.Placement = fa.Placement
	fn.CallConv = fa.CallConv

	if fa.Symbols != nil {
		embedder := lower.NewEmbedder(c.pool, c.diag, c.cfg, fa.Symbols)
		embedder.LabelPrePass(fa.Labels, fa.Placement, fa.InFcache)
		fn.Body = embedder.Emit(fa.Instrs)
	}

	if len(fa.Statements) > 0 {
		eng := types.NewEngine(c.cfg, c.diag)
		vl := lower.NewValueLowerer(c.pool, fa.Helpers)
		for _, stmt := range fa.Statements {
			stmt.lower(eng, vl, fn.Body, fa.SizeOf)
		}
	}
	return fn
}

// assignRegisters implements spec §4.3's register & resource assignment
// for every function in mod that supplied a RegisterFile: the preserved
// set (write set intersected with the calling convention's callee-saved
// set), and — for functions the call graph shows participate in a
// recursion cycle — a push/pop wrap around every call site.
func (c *CompileContext) assignRegisters(mod *ir.Module, byFunction map[*ir.Function]*FunctionAST) {
	resolve := func(inst *ir.Instruction) *ir.Function {
		if inst.Src == nil {
			return nil
		}
		name := inst.Src.Name()
		for _, fn := range mod.Functions {
			if fn.AsmName != nil && fn.AsmName.Name() == name {
				return fn
			}
		}
		return nil
	}
	graph := regalloc.BuildCallGraph(mod.Functions, resolve)
	recursive := regalloc.Recursive(graph)

	for _, fn := range mod.Functions {
		fa := byFunction[fn]
		if fa == nil || fa.RegisterFile == nil || fa.RegisterLookup == nil {
			continue
		}
		fn.Preserved = regalloc.PreservedOperands(fn, fa.RegisterFile, fa.RegisterLookup)
		if recursive[fn] && fa.Push != nil && fa.Pop != nil {
			regalloc.InsertCallSiteSpills(fn, fa.RegisterFile, fa.RegisterLookup, fa.Push, fa.Pop)
		}
	}
}
