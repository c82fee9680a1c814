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
	"fmt"
	"os"

	"github.com/josongsong/semantica-codegraph-sub006/analysis/config"
	"github.com/josongsong/semantica-codegraph-sub006/internal/funcutil"
)

// nodeFact is an interned (control point, fact) pair, the hot-path key of the solver's caches.
// Interning nodes and facts to dense ids keeps the worklist loop free of string hashing.
type nodeFact struct {
	node uint32
	fact uint32
}

// pathEdge is the interned form of a PathEdge: d1 holds at the entry of the procedure owning
// node, and d2 is reachable at node under that assumption.
type pathEdge struct {
	d1   uint32
	node uint32
	d2   uint32
}

// procFact keys per-callee state by (procedure, entry fact).
type procFact struct {
	proc uint32
	fact uint32
}

// solverState owns all the mutable state of one solve() invocation: the worklist, the seen set,
// the summary caches and the statistics. It is created inside Solve and never escapes it, so
// concurrent runs are fully independent.
type solverState struct {
	graph   SuperGraph
	problem Problem
	config  *config.Config
	logger  *config.LogGroup

	// intern tables
	nodes  []Node
	nodeID map[Node]uint32
	facts  []Fact
	factID map[Fact]uint32
	procs  []Proc
	procID map[Proc]uint32

	// tabulation state; the seen set and all caches grow monotonically
	worklist []pathEdge
	seen     map[pathEdge]bool

	// entryFacts indexes seen path edges: (node, d2) -> set of d1
	entryFacts map[nodeFact]map[uint32]bool

	// incoming maps (callee, entry fact) -> call sites that seeded it, as (call node, fact at
	// call) pairs
	incoming map[procFact]map[nodeFact]bool

	// endSummaries maps (procedure, entry fact) -> facts reaching the procedure's exit
	endSummaries map[procFact]map[uint32]bool

	// summaries is the SummaryEdge cache: (call node, fact at call) -> (return site, fact)
	summaries map[nodeFact]map[nodeFact]bool

	// exploded adjacency over interned pairs
	succs map[nodeFact]map[nodeFact]bool
	preds map[nodeFact]map[nodeFact]bool

	stats RunStatistics
}

func newSolverState(g SuperGraph, p Problem, cfg *config.Config, logger *config.LogGroup) *solverState {
	s := &solverState{
		graph:        g,
		problem:      p,
		config:       cfg,
		logger:       logger,
		nodeID:       map[Node]uint32{},
		factID:       map[Fact]uint32{},
		procID:       map[Proc]uint32{},
		seen:         map[pathEdge]bool{},
		entryFacts:   map[nodeFact]map[uint32]bool{},
		incoming:     map[procFact]map[nodeFact]bool{},
		endSummaries: map[procFact]map[uint32]bool{},
		summaries:    map[nodeFact]map[nodeFact]bool{},
		succs:        map[nodeFact]map[nodeFact]bool{},
		preds:        map[nodeFact]map[nodeFact]bool{},
	}
	// Zero is always fact id 0
	s.internFact(Zero)
	return s
}

func (s *solverState) internNode(n Node) uint32 {
	if id, ok := s.nodeID[n]; ok {
		return id
	}
	id := uint32(len(s.nodes))
	s.nodes = append(s.nodes, n)
	s.nodeID[n] = id
	return id
}

func (s *solverState) internFact(d Fact) uint32 {
	if id, ok := s.factID[d]; ok {
		return id
	}
	id := uint32(len(s.facts))
	s.facts = append(s.facts, d)
	s.factID[d] = id
	s.stats.Facts = len(s.facts)
	return id
}

func (s *solverState) internProc(p Proc) uint32 {
	if id, ok := s.procID[p]; ok {
		return id
	}
	id := uint32(len(s.procs))
	s.procs = append(s.procs, p)
	s.procID[p] = id
	return id
}

// propagate records the path edge (d1, node, d2) if it is new, and schedules it. This is the
// only place path edges are added; the seen set only ever grows.
func (s *solverState) propagate(d1, node, d2 uint32) {
	e := pathEdge{d1: d1, node: node, d2: d2}
	if s.seen[e] {
		return
	}
	s.seen[e] = true
	s.stats.PathEdges++
	nf := nodeFact{node: node, fact: d2}
	if s.entryFacts[nf] == nil {
		s.entryFacts[nf] = map[uint32]bool{}
	}
	s.entryFacts[nf][d1] = true
	s.worklist = append(s.worklist, e)
	if s.logger.Level() >= config.TraceLevel {
		s.logger.Tracef("path edge <%s> %s <%s>",
			s.facts[d1], s.nodes[node], s.facts[d2])
	}
}

// addExplodedEdge records the discovery of one exploded edge.
func (s *solverState) addExplodedEdge(from, to nodeFact) {
	if s.succs[from] == nil {
		s.succs[from] = map[nodeFact]bool{}
	}
	if s.succs[from][to] {
		return
	}
	s.succs[from][to] = true
	if s.preds[to] == nil {
		s.preds[to] = map[nodeFact]bool{}
	}
	s.preds[to][from] = true
	s.stats.ExplodedEdges++
}

// addSummary records the summary edge (call, fact at call) -> (ret, fact at ret). Returns true
// if the summary is new.
func (s *solverState) addSummary(call, ret nodeFact) bool {
	if s.summaries[call] == nil {
		s.summaries[call] = map[nodeFact]bool{}
	}
	if s.summaries[call][ret] {
		return false
	}
	s.summaries[call][ret] = true
	s.stats.SummaryEdges++
	return true
}

// applyFlow applies a flow function and keeps the Zero fact alive across every edge: Zero is
// the no-information fact and must hold wherever control reaches.
func (s *solverState) applyFlow(f FlowFunction, d Fact) []Fact {
	out := f.Apply(d)
	if d == Zero {
		hasZero := false
		for _, x := range out {
			if x == Zero {
				hasZero = true
				break
			}
		}
		if !hasZero {
			out = append(out, Zero)
		}
	}
	return out
}

// isExitNode returns true iff n is the exit point of its procedure.
func (s *solverState) isExitNode(n Node) bool {
	q, ok := s.graph.ProcOf(n)
	if !ok {
		return false
	}
	exit, ok := s.graph.Exit(q)
	return ok && exit == n
}

// dumpSummaries writes the discovered summary edges to a summaries-*.out file in the reports
// directory, if the configuration asks for it. Adapted reporting surface; the caller owns no
// file handle.
func (s *solverState) dumpSummaries() {
	if !s.config.ReportSummaries || s.config.ReportsDir == "" {
		return
	}
	f, err := os.CreateTemp(s.config.ReportsDir, "summaries-*.out")
	if err != nil {
		s.logger.Warnf("Could not create summaries file, continuing.")
		s.logger.Warnf("Error was: %s", err)
		return
	}
	defer f.Close()
	lines := map[string]bool{}
	for call, rets := range s.summaries {
		for ret := range rets {
			lines[fmt.Sprintf("%s <%s> -> %s <%s>",
				s.nodes[call.node], s.facts[call.fact],
				s.nodes[ret.node], s.facts[ret.fact])] = true
		}
	}
	// Sorted output so diffing two runs of the same program is meaningful.
	for _, line := range funcutil.SetToOrderedSlice(lines) {
		fmt.Fprintln(f, line)
	}
	s.logger.Infof("Wrote summary edges to %s", f.Name())
}
