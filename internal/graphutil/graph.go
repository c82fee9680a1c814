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

// Package graphutil provides an abstraction over the procedure call graph of an analyzed
// program so that it can be used with existing graph libraries.
package graphutil

import (
	"sort"

	"gonum.org/v1/gonum/graph"
)

// ProcGraph is an abstraction over a procedure-level call graph. It implements the methods to
// satisfy yourbasic's graph.Iterator and Gonum's graph.Graph.
type ProcGraph struct {
	// The order of the graph
	order int

	// Names maps node IDs back to procedure names
	Names map[int64]PNode

	// IDs maps procedure names to node IDs
	IDs map[string]int64

	// Keys are all the node IDs in increasing order
	Keys []int64

	// Edges is an adjacency matrix: Edges[x][y] means there is a directed edge between Names[x] and Names[y]
	Edges map[int64]map[int64]bool
}

// NewProcGraph builds a ProcGraph from an adjacency list mapping each procedure name to the
// procedures it calls. Callees that do not appear as keys are added as nodes without successors.
func NewProcGraph(adjacency map[string][]string) ProcGraph {
	ids := make(map[string]int64, len(adjacency))
	names := make(map[int64]PNode, len(adjacency))

	intern := func(name string) int64 {
		if id, ok := ids[name]; ok {
			return id
		}
		id := int64(len(ids))
		ids[name] = id
		names[id] = PNode{name: name, id: id}
		return id
	}

	// Deterministic interning order
	keys := make([]string, 0, len(adjacency))
	for name := range adjacency {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	for _, name := range keys {
		intern(name)
	}

	edges := make(map[int64]map[int64]bool, len(ids))
	for _, name := range keys {
		id := intern(name)
		if edges[id] == nil {
			edges[id] = map[int64]bool{}
		}
		for _, callee := range adjacency[name] {
			cid := intern(callee)
			if edges[cid] == nil {
				edges[cid] = map[int64]bool{}
			}
			edges[id][cid] = true
		}
	}

	allIds := make([]int64, 0, len(ids))
	for id := range names {
		allIds = append(allIds, id)
	}
	sort.Slice(allIds, func(i, j int) bool { return allIds[i] < allIds[j] })

	return ProcGraph{
		order: len(names),
		Names: names,
		IDs:   ids,
		Keys:  allIds,
		Edges: edges,
	}
}

// Order implements the order of the graph.Iterator interface for the ProcGraph
func (g ProcGraph) Order() int {
	return g.order
}

// Visit implements the graph.Iterator interface for the ProcGraph
func (g ProcGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if _, ok := g.Names[int64(v)]; !ok {
		return false
	}
	for w := range g.Edges[int64(v)] {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// *************** Gonum Graph interface implementation **********************

// Node implements the Graph interface
func (g ProcGraph) Node(v int64) graph.Node {
	return g.Names[v]
}

// Nodes returns the set of nodes in the graph
func (g ProcGraph) Nodes() graph.Nodes {
	ids := make([]int64, len(g.Keys))
	copy(ids, g.Keys)
	return &NodeSet{
		nodes: g.Names,
		ids:   ids,
		cur:   -1,
	}
}

// From returns the set of nodes reachable from the id
func (g ProcGraph) From(id int64) graph.Nodes {
	var ids []int64
	for out := range g.Edges[id] {
		ids = append(ids, out)
	}
	return &NodeSet{
		nodes: g.Names,
		ids:   ids,
		cur:   -1,
	}
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two node identifiers
func (g ProcGraph) HasEdgeBetween(xid, yid int64) bool {
	xe := g.Edges[xid]
	ye := g.Edges[yid]
	return xe[yid] || ye[xid]
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (g ProcGraph) Edge(uid, vid int64) graph.Edge {
	ue := g.Edges[uid]
	if ue != nil {
		if ue[vid] {
			return PEdge{from: g.Names[uid], to: g.Names[vid]}
		}
	}
	return nil
}

// *************** Nodes implementation **********************

// PNode is a procedure node that implements the graph.Node interface
type PNode struct {
	name string
	id   int64
}

// ID returns the id of the node
func (n PNode) ID() int64 {
	return n.id
}

func (n PNode) String() string {
	return n.name
}

// NodeSet implements the graph.Nodes interface, an iterator over a set of nodes
type NodeSet struct {
	// nodes is the set of nodes in the iterator
	nodes map[int64]PNode

	// ids is the set of node ids in the iterator
	// invariant: len(ids) = len(nodes)
	ids []int64

	// cur is the current index of the iterator. The current node is nodes[ids[cur]];
	// cur starts at -1, before the first node
	cur int
}

// Next moves the current node to the next, and returns true if such a node exists. Otherwise, returns false
// and the current node has not changed.
func (ns *NodeSet) Next() bool {
	if ns.cur < len(ns.ids)-1 {
		ns.cur++
		return true
	}
	return false
}

// Len returns the number of nodes remaining in the iterator
func (ns *NodeSet) Len() int {
	return len(ns.ids) - ns.cur - 1
}

// Reset rewinds the iterator to before the first node
func (ns *NodeSet) Reset() {
	ns.cur = -1
}

// Node return the current node in the set
func (ns *NodeSet) Node() graph.Node {
	return ns.nodes[ns.ids[ns.cur]]
}

// *************** Edge implementation **********************

// PEdge implements the graph.Edge interface
type PEdge struct {
	from PNode
	to   PNode
}

// From returns the origin of the edge
func (e PEdge) From() graph.Node {
	return e.from
}

// To returns the destination of the edge
func (e PEdge) To() graph.Node {
	return e.to
}

// ReversedEdge returns a new value representing the reversed edge
func (e PEdge) ReversedEdge() graph.Edge {
	return PEdge{from: e.to, to: e.from}
}
