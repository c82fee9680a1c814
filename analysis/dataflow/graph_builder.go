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

import "github.com/josongsong/semantica-codegraph-sub006/internal/funcutil"

// procEndpoints records the entry and exit control points of one procedure.
type procEndpoints struct {
	entry Node
	exit  Node
}

// callSite records the interprocedural structure of one call control point.
type callSite struct {
	callees []Proc
	ret     Node
}

// GraphBuilder is an in-memory SuperGraph. It is the canonical implementation for tests and for
// adapters that translate an external program representation into the solver's input format.
//
// A node belongs to the procedure that first mentions it; mentioning it again under a different
// procedure is ignored and left for validation to flag.
type GraphBuilder struct {
	order  []Proc
	procs  map[Proc]procEndpoints
	procOf map[Node]Proc
	succs  map[Node][]Node
	preds  map[Node][]Node
	calls  map[Node]*callSite
}

// NewGraphBuilder returns an empty graph.
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		procs:  map[Proc]procEndpoints{},
		procOf: map[Node]Proc{},
		succs:  map[Node][]Node{},
		preds:  map[Node][]Node{},
		calls:  map[Node]*callSite{},
	}
}

func (g *GraphBuilder) claim(p Proc, n Node) {
	if _, ok := g.procOf[n]; !ok {
		g.procOf[n] = p
	}
}

// AddProc registers procedure p with its entry and exit control points.
func (g *GraphBuilder) AddProc(p Proc, entry, exit Node) *GraphBuilder {
	if _, ok := g.procs[p]; !ok {
		g.order = append(g.order, p)
	}
	g.procs[p] = procEndpoints{entry: entry, exit: exit}
	g.claim(p, entry)
	g.claim(p, exit)
	return g
}

// AddEdge adds the intraprocedural edge from -> to inside procedure p.
func (g *GraphBuilder) AddEdge(p Proc, from, to Node) *GraphBuilder {
	g.claim(p, from)
	g.claim(p, to)
	if !funcutil.Contains(g.succs[from], to) {
		g.succs[from] = append(g.succs[from], to)
		g.preds[to] = append(g.preds[to], from)
	}
	return g
}

// AddCall marks call inside procedure p as a call site invoking callees, resuming at ret. The
// intraprocedural edge call -> ret is added implicitly so that call-to-return propagation has a
// path to follow.
func (g *GraphBuilder) AddCall(p Proc, call, ret Node, callees ...Proc) *GraphBuilder {
	g.AddEdge(p, call, ret)
	site := g.calls[call]
	if site == nil {
		site = &callSite{ret: ret}
		g.calls[call] = site
	}
	for _, callee := range callees {
		if !funcutil.Contains(site.callees, callee) {
			site.callees = append(site.callees, callee)
		}
	}
	return g
}

// Procs returns the registered procedures in registration order.
func (g *GraphBuilder) Procs() []Proc {
	out := make([]Proc, len(g.order))
	copy(out, g.order)
	return out
}

// Entry returns the entry control point of p.
func (g *GraphBuilder) Entry(p Proc) (Node, bool) {
	ep, ok := g.procs[p]
	if !ok || ep.entry == nil {
		return nil, false
	}
	return ep.entry, true
}

// Exit returns the exit control point of p.
func (g *GraphBuilder) Exit(p Proc) (Node, bool) {
	ep, ok := g.procs[p]
	if !ok || ep.exit == nil {
		return nil, false
	}
	return ep.exit, true
}

// ProcOf returns the procedure owning n.
func (g *GraphBuilder) ProcOf(n Node) (Proc, bool) {
	p, ok := g.procOf[n]
	return p, ok
}

// Succs returns the intraprocedural successors of n.
func (g *GraphBuilder) Succs(n Node) []Node {
	return g.succs[n]
}

// Preds returns the intraprocedural predecessors of n.
func (g *GraphBuilder) Preds(n Node) []Node {
	return g.preds[n]
}

// IsCall returns true iff n was registered with AddCall.
func (g *GraphBuilder) IsCall(n Node) bool {
	_, ok := g.calls[n]
	return ok
}

// Callees returns the procedures invoked at call site n.
func (g *GraphBuilder) Callees(n Node) []Proc {
	if site, ok := g.calls[n]; ok {
		return site.callees
	}
	return nil
}

// ReturnSite returns the return site of call site n.
func (g *GraphBuilder) ReturnSite(n Node) (Node, bool) {
	if site, ok := g.calls[n]; ok {
		return site.ret, true
	}
	return nil, false
}

// CallAdjacency returns the procedure-level call graph as an adjacency list, for use with the
// graphutil package.
func (g *GraphBuilder) CallAdjacency() map[string][]string {
	adj := make(map[string][]string, len(g.order))
	for _, p := range g.order {
		adj[string(p)] = nil
	}
	for call, site := range g.calls {
		caller, ok := g.procOf[call]
		if !ok {
			continue
		}
		for _, callee := range site.callees {
			adj[string(caller)] = append(adj[string(caller)], string(callee))
		}
	}
	return adj
}
