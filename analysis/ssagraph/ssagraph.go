// Copyright (c) the Semantica Codegraph authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ssagraph adapts a built SSA program into the solver's supergraph format. Nodes are
// SSA instructions plus one synthetic entry and exit per function; call sites are static calls
// whose resolved callees have bodies, everything else stays a normal node.
package ssagraph

import (
	"fmt"

	"golang.org/x/tools/go/callgraph"
	"golang.org/x/tools/go/callgraph/cha"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

	"github.com/josongsong/semantica-codegraph-sub006/analysis/dataflow"
)

// Instruction is a supergraph node backed by one SSA instruction. Two nodes are equal iff they
// wrap the same instruction.
type Instruction struct {
	Instr ssa.Instruction
}

func (n Instruction) String() string {
	if v, ok := n.Instr.(ssa.Value); ok {
		return n.Instr.Parent().Name() + "." + v.Name()
	}
	return n.Instr.Parent().Name() + ".[" + n.Instr.String() + "]"
}

// funcEntry and funcExit are the synthetic endpoints of a function. SSA has no dedicated
// entry or exit instruction, and functions with several Return instructions need a single
// confluence point for summaries.
type funcEntry struct {
	fn *ssa.Function
}

func (n funcEntry) String() string { return n.fn.Name() + ".entry" }

type funcExit struct {
	fn *ssa.Function
}

func (n funcExit) String() string { return n.fn.Name() + ".exit" }

// Graph is a supergraph over the bodies of an SSA program. It keeps the function behind each
// procedure available for clients that define flows in terms of SSA values.
type Graph struct {
	*dataflow.GraphBuilder
	funcs map[dataflow.Proc]*ssa.Function
}

// FuncOf returns the SSA function behind procedure p.
func (g *Graph) FuncOf(p dataflow.Proc) (*ssa.Function, bool) {
	fn, ok := g.funcs[p]
	return fn, ok
}

// EntryOf returns the synthetic entry node of fn.
func EntryOf(fn *ssa.Function) dataflow.Node { return funcEntry{fn: fn} }

// ExitOf returns the synthetic exit node of fn.
func ExitOf(fn *ssa.Function) dataflow.Node { return funcExit{fn: fn} }

// NewGraph builds the supergraph of prog. Callees are resolved with the class-hierarchy call
// graph; calls whose resolved callees all lack a body (external or intrinsic functions) are kept
// as plain nodes and flow through the normal role.
func NewGraph(prog *ssa.Program) (*Graph, error) {
	if prog == nil {
		return nil, fmt.Errorf("no program")
	}
	cg := cha.CallGraph(prog)
	callees := resolveCallees(cg)

	g := &Graph{
		GraphBuilder: dataflow.NewGraphBuilder(),
		funcs:        map[dataflow.Proc]*ssa.Function{},
	}

	bodies := map[*ssa.Function]bool{}
	for fn := range ssautil.AllFunctions(prog) {
		if len(fn.Blocks) > 0 {
			bodies[fn] = true
		}
	}

	for fn := range bodies {
		p := procOf(fn)
		g.funcs[p] = fn
		g.AddProc(p, funcEntry{fn: fn}, funcExit{fn: fn})
		addFunctionBody(g, p, fn, callees, bodies)
	}
	return g, nil
}

func procOf(fn *ssa.Function) dataflow.Proc {
	return dataflow.Proc(fn.String())
}

// resolveCallees indexes the call graph by call instruction.
func resolveCallees(cg *callgraph.Graph) map[ssa.CallInstruction][]*ssa.Function {
	out := map[ssa.CallInstruction][]*ssa.Function{}
	for _, node := range cg.Nodes {
		for _, edge := range node.Out {
			if edge.Site == nil || edge.Callee == nil || edge.Callee.Func == nil {
				continue
			}
			out[edge.Site] = append(out[edge.Site], edge.Callee.Func)
		}
	}
	return out
}

func addFunctionBody(g *Graph, p dataflow.Proc, fn *ssa.Function,
	callees map[ssa.CallInstruction][]*ssa.Function, bodies map[*ssa.Function]bool) {

	entry := funcEntry{fn: fn}
	exit := funcExit{fn: fn}

	if first, ok := firstInstr(fn.Blocks[0]); ok {
		g.AddEdge(p, entry, Instruction{Instr: first})
	} else {
		g.AddEdge(p, entry, exit)
	}

	for _, block := range fn.Blocks {
		instrs := block.Instrs
		for i, instr := range instrs {
			node := Instruction{Instr: instr}

			if _, ok := instr.(*ssa.Return); ok {
				g.AddEdge(p, node, exit)
				continue
			}

			// non-terminator: the successor is the next instruction of the block
			if i+1 < len(instrs) {
				next := Instruction{Instr: instrs[i+1]}
				if call, ok := asAnalyzableCall(instr, callees, bodies); ok {
					g.AddCall(p, node, next, callProcs(call, callees, bodies)...)
				} else {
					g.AddEdge(p, node, next)
				}
				continue
			}

			// block terminator: successors are the first instructions of the successor blocks
			for _, succ := range block.Succs {
				if first, ok := firstInstr(succ); ok {
					g.AddEdge(p, node, Instruction{Instr: first})
				}
			}
		}
	}
}

func firstInstr(block *ssa.BasicBlock) (ssa.Instruction, bool) {
	if len(block.Instrs) == 0 {
		return nil, false
	}
	return block.Instrs[0], true
}

// asAnalyzableCall returns instr as a call site if it is a synchronous call with at least one
// resolved callee that has a body. Deferred and spawned calls do not resume at a return site
// and are left as normal nodes.
func asAnalyzableCall(instr ssa.Instruction,
	callees map[ssa.CallInstruction][]*ssa.Function, bodies map[*ssa.Function]bool) (*ssa.Call, bool) {

	call, ok := instr.(*ssa.Call)
	if !ok {
		return nil, false
	}
	for _, fn := range callees[call] {
		if bodies[fn] {
			return call, true
		}
	}
	return nil, false
}

func callProcs(call *ssa.Call,
	callees map[ssa.CallInstruction][]*ssa.Function, bodies map[*ssa.Function]bool) []dataflow.Proc {

	var out []dataflow.Proc
	for _, fn := range callees[call] {
		if bodies[fn] {
			out = append(out, procOf(fn))
		}
	}
	return out
}
