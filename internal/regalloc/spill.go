package regalloc

import (
	"github.com/openspin/spinc/internal/ir"
	"github.com/openspin/spinc/internal/operand"
)

// CallGraph maps each function to the functions it calls directly,
// resolved from OpCall instructions once lowering has assigned their Aux
// back-pointers (spec §3).
type CallGraph map[*ir.Function][]*ir.Function

// BuildCallGraph walks every function's body for OpCall instructions and
// resolves each call site to a callee via resolve, which is left to the
// caller because label-to-function resolution depends on the module
// symbol table internal/regalloc does not own.
func BuildCallGraph(fns []*ir.Function, resolve func(*ir.Instruction) *ir.Function) CallGraph {
	g := make(CallGraph, len(fns))
	for _, fn := range fns {
		var callees []*ir.Function
		fn.Each(func(inst *ir.Instruction) {
			if inst.Dummy() || inst.Opcode != ir.OpCall {
				return
			}
			if callee := resolve(inst); callee != nil {
				callees = append(callees, callee)
			}
		})
		g[fn] = callees
	}
	return g
}

// Recursive reports which functions participate in a call cycle — direct
// self-recursion or mutual recursion through a multi-member strongly
// connected component — found with Tarjan's SCC algorithm, grounded on
// the SCC-walk shape falcon's lsra.go uses to find loop-carried live
// ranges before its linear-scan pass.
func Recursive(g CallGraph) map[*ir.Function]bool {
	idx := 0
	indices := map[*ir.Function]int{}
	low := map[*ir.Function]int{}
	onStack := map[*ir.Function]bool{}
	var stack []*ir.Function
	result := map[*ir.Function]bool{}

	var strongconnect func(v *ir.Function)
	strongconnect = func(v *ir.Function) {
		indices[v] = idx
		low[v] = idx
		idx++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g[v] {
			if _, seen := indices[w]; !seen {
				strongconnect(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] {
				if indices[w] < low[v] {
					low[v] = indices[w]
				}
			}
		}

		if low[v] == indices[v] {
			var scc []*ir.Function
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			if len(scc) > 1 || selfCall(g, scc[0]) {
				for _, f := range scc {
					result[f] = true
				}
			}
		}
	}

	for v := range g {
		if _, seen := indices[v]; !seen {
			strongconnect(v)
		}
	}
	return result
}

func selfCall(g CallGraph, f *ir.Function) bool {
	for _, w := range g[f] {
		if w == f {
			return true
		}
	}
	return false
}

// InsertCallSiteSpills implements spec §4.3's "recursive functions
// additionally push all live registers at call sites to a software
// stack": for every OpCall in fn, it wraps the call with a push of fn's
// preserved-register set immediately before and a matching pop,
// innermost-pushed-first, immediately after — grounded on the
// spill-around-call shape of wazero's backend/regalloc/spill_handler.go,
// adapted from "spill before a clobbering point" to "spill around every
// call site" since recursive calls clobber the whole register file.
func InsertCallSiteSpills(fn *ir.Function, rf RegisterFile, lookup func(RealReg) *operand.Operand, push, pop func(*operand.Operand) *ir.Instruction) {
	regs := PreservedOperands(fn, rf, lookup)
	if len(regs) == 0 {
		return
	}

	var sites []*ir.Instruction
	fn.Body.Each(func(inst *ir.Instruction) {
		if !inst.Dummy() && inst.Opcode == ir.OpCall {
			sites = append(sites, inst)
		}
	})

	for _, call := range sites {
		pred := call.Prev()
		for _, r := range regs {
			pushInst := push(r)
			fn.Body.InsertAfter(pred, pushInst)
			pred = pushInst
		}

		after := call
		for i := len(regs) - 1; i >= 0; i-- {
			popInst := pop(regs[i])
			fn.Body.InsertAfter(after, popInst)
			after = popInst
		}
	}
}
