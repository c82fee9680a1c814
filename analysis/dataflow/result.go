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

	"github.com/josongsong/semantica-codegraph-sub006/analysis/lattice"
	"github.com/josongsong/semantica-codegraph-sub006/internal/funcutil"
)

// Results is the immutable outcome of one [Solve] run. All query methods are safe for
// concurrent use once Solve has returned.
type Results struct {
	// Complete is false when a budget or cancellation interrupted the run; the answers below
	// then under-approximate reachability.
	Complete bool

	stats     RunStatistics
	reach     map[Node]map[Fact]map[Fact]bool
	values    map[Node]map[Fact]lattice.Value
	summaries []SummaryEdge
	exploded  *ExplodedGraph
}

// IsReachable reports whether target is reachable at n under the assumption that source held at
// the context entry of n's procedure.
func (r *Results) IsReachable(n Node, source, target Fact) bool {
	return r.reach[n][target][source]
}

// FactsAt returns the facts reachable at n under any context, in deterministic order. The Zero
// fact is included whenever control reaches n at all.
func (r *Results) FactsAt(n Node) []Fact {
	byTarget := r.reach[n]
	if len(byTarget) == 0 {
		return nil
	}
	out := make([]Fact, 0, len(byTarget))
	for d := range byTarget {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b Fact) bool {
		return a.String() < b.String()
	})
	return out
}

// ValueAt returns the lattice value computed for fact d at node n, or none when the problem had
// no value component or the pair was never reached.
func (r *Results) ValueAt(n Node, d Fact) funcutil.Optional[lattice.Value] {
	v, ok := r.values[n][d]
	if !ok {
		return funcutil.None[lattice.Value]()
	}
	return funcutil.Some(v)
}

// PathEdges returns every discovered path edge at n, in deterministic order.
func (r *Results) PathEdges(n Node) []PathEdge {
	byTarget := r.reach[n]
	if len(byTarget) == 0 {
		return nil
	}
	var out []PathEdge
	for target, sources := range byTarget {
		for source := range sources {
			out = append(out, PathEdge{SourceFact: source, Node: n, TargetFact: target})
		}
	}
	slices.SortFunc(out, func(a, b PathEdge) bool {
		if a.TargetFact.String() != b.TargetFact.String() {
			return a.TargetFact.String() < b.TargetFact.String()
		}
		return a.SourceFact.String() < b.SourceFact.String()
	})
	return out
}

// Summaries returns the summary edges recorded during the run, in deterministic order.
func (r *Results) Summaries() []SummaryEdge {
	out := make([]SummaryEdge, len(r.summaries))
	copy(out, r.summaries)
	return out
}

// Stats returns the counters of the run.
func (r *Results) Stats() RunStatistics {
	return r.stats
}

// Graph returns the discovered portion of the exploded supergraph.
func (r *Results) Graph() *ExplodedGraph {
	return r.exploded
}

// extractResults converts the solver's interned state into the exported query structures. The
// interned tables die with the solver state; Results holds only client-visible types.
func (s *solverState) extractResults(complete bool, values map[nodeFact]lattice.Value) *Results {
	r := &Results{
		Complete: complete,
		stats:    s.stats,
		reach:    map[Node]map[Fact]map[Fact]bool{},
		values:   map[Node]map[Fact]lattice.Value{},
		exploded: newExplodedGraph(),
	}

	for e := range s.seen {
		n := s.nodes[e.node]
		target := s.facts[e.d2]
		source := s.facts[e.d1]
		if r.reach[n] == nil {
			r.reach[n] = map[Fact]map[Fact]bool{}
		}
		if r.reach[n][target] == nil {
			r.reach[n][target] = map[Fact]bool{}
		}
		r.reach[n][target][source] = true
	}

	for call, rets := range s.summaries {
		for ret := range rets {
			r.summaries = append(r.summaries, SummaryEdge{
				Call:     s.nodes[call.node],
				CallFact: s.facts[call.fact],
				Ret:      s.nodes[ret.node],
				RetFact:  s.facts[ret.fact],
			})
		}
	}
	slices.SortFunc(r.summaries, func(a, b SummaryEdge) bool {
		if a.Call.String() != b.Call.String() {
			return a.Call.String() < b.Call.String()
		}
		return a.CallFact.String() < b.CallFact.String()
	})

	for from, tos := range s.succs {
		fromEx := ExplodedNode{Node: s.nodes[from.node], Fact: s.facts[from.fact]}
		r.exploded.addNode(fromEx)
		for to := range tos {
			r.exploded.addEdge(fromEx, ExplodedNode{Node: s.nodes[to.node], Fact: s.facts[to.fact]})
		}
	}

	for nf, v := range values {
		n := s.nodes[nf.node]
		if r.values[n] == nil {
			r.values[n] = map[Fact]lattice.Value{}
		}
		r.values[n][s.facts[nf.fact]] = v
	}

	return r
}
