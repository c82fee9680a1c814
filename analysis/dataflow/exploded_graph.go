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

import (
	"golang.org/x/exp/slices"
)

// ExplodedNode is one node of the exploded supergraph: a (control point, fact) pair. Exploded
// nodes exist only once discovered by tabulation; the full product space is never materialized.
type ExplodedNode struct {
	Node Node
	Fact Fact
}

func (n ExplodedNode) String() string {
	return "(" + n.Node.String() + ", " + n.Fact.String() + ")"
}

// ExplodedGraph is the portion of the exploded supergraph that a solver run actually explored.
// Membership and adjacency queries are O(1) amortized on hash-indexed adjacency built as edges
// were discovered.
type ExplodedGraph struct {
	nodes map[ExplodedNode]bool
	succs map[ExplodedNode]map[ExplodedNode]bool
	preds map[ExplodedNode]map[ExplodedNode]bool

	numEdges int
}

func newExplodedGraph() *ExplodedGraph {
	return &ExplodedGraph{
		nodes: map[ExplodedNode]bool{},
		succs: map[ExplodedNode]map[ExplodedNode]bool{},
		preds: map[ExplodedNode]map[ExplodedNode]bool{},
	}
}

func (g *ExplodedGraph) addNode(n ExplodedNode) {
	g.nodes[n] = true
}

func (g *ExplodedGraph) addEdge(from, to ExplodedNode) {
	g.addNode(from)
	g.addNode(to)
	if g.succs[from] == nil {
		g.succs[from] = map[ExplodedNode]bool{}
	}
	if !g.succs[from][to] {
		g.succs[from][to] = true
		if g.preds[to] == nil {
			g.preds[to] = map[ExplodedNode]bool{}
		}
		g.preds[to][from] = true
		g.numEdges++
	}
}

// HasNode returns true iff the exploded node was discovered during the run.
func (g *ExplodedGraph) HasNode(n ExplodedNode) bool {
	return g.nodes[n]
}

// HasEdge returns true iff the exploded edge was explored during the run.
func (g *ExplodedGraph) HasEdge(from, to ExplodedNode) bool {
	return g.succs[from][to]
}

// Succs returns the explored successors of n, in deterministic order.
func (g *ExplodedGraph) Succs(n ExplodedNode) []ExplodedNode {
	return sortedExploded(g.succs[n])
}

// Preds returns the explored predecessors of n, in deterministic order.
func (g *ExplodedGraph) Preds(n ExplodedNode) []ExplodedNode {
	return sortedExploded(g.preds[n])
}

// NumNodes returns the number of discovered exploded nodes.
func (g *ExplodedGraph) NumNodes() int {
	return len(g.nodes)
}

// NumEdges returns the number of explored exploded edges.
func (g *ExplodedGraph) NumEdges() int {
	return g.numEdges
}

func sortedExploded(set map[ExplodedNode]bool) []ExplodedNode {
	if len(set) == 0 {
		return nil
	}
	out := make([]ExplodedNode, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b ExplodedNode) bool {
		return a.String() < b.String()
	})
	return out
}
