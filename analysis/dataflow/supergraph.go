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

package dataflow

// Node identifies one control point of the program under analysis. Implementations must be
// comparable values: the solver uses nodes as map keys and compares them with ==.
type Node interface {
	String() string
}

// NodeName is a plain string control point, the simplest Node implementation.
type NodeName string

func (n NodeName) String() string { return string(n) }

// Proc identifies a procedure of the program under analysis.
type Proc string

// SuperGraph is the control-flow provider the solver runs on: entry and exit points per
// procedure, successor and predecessor lookup, and call-site structure. Implementations must be
// pure query interfaces; the solver never mutates the graph and assumes answers are stable for
// the duration of a run.
type SuperGraph interface {
	// Procs returns all procedures of the graph.
	Procs() []Proc

	// Entry returns the entry control point of procedure p.
	Entry(p Proc) (Node, bool)

	// Exit returns the unique exit control point of procedure p.
	Exit(p Proc) (Node, bool)

	// ProcOf returns the procedure owning control point n.
	ProcOf(n Node) (Proc, bool)

	// Succs returns the intraprocedural successors of n.
	Succs(n Node) []Node

	// Preds returns the intraprocedural predecessors of n.
	Preds(n Node) []Node

	// IsCall returns true iff n is a call site.
	IsCall(n Node) bool

	// Callees returns the procedures that may be invoked at call site n.
	Callees(n Node) []Proc

	// ReturnSite returns the control point where execution resumes after the call at n.
	ReturnSite(n Node) (Node, bool)
}

// IsEntry returns true iff n is the entry point of its procedure.
func IsEntry(g SuperGraph, n Node) bool {
	p, ok := g.ProcOf(n)
	if !ok {
		return false
	}
	entry, ok := g.Entry(p)
	return ok && entry == n
}

// IsExit returns true iff n is the exit point of its procedure.
func IsExit(g SuperGraph, n Node) bool {
	p, ok := g.ProcOf(n)
	if !ok {
		return false
	}
	exit, ok := g.Exit(p)
	return ok && exit == n
}
