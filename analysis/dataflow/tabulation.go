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
	"context"
	"time"

	"github.com/josongsong/semantica-codegraph-sub006/analysis/config"
	"github.com/josongsong/semantica-codegraph-sub006/analysis/lattice"
	"github.com/josongsong/semantica-codegraph-sub006/internal/funcutil"
)

// Solve runs the tabulation fixpoint for problem p over graph g and, if p is a [ValueProblem],
// the value-propagation phase on top of it. It returns an error only for malformed control-flow
// input, detected before any tabulation work; a tripped resource budget is not an error and is
// reported through [Results.Complete] instead.
//
// Callee scheduling is eager: the entry of a callee is seeded the moment a call edge first
// reaches it, rather than deferred until its summary is demanded. The summary-reuse statistic
// counts call sites that found the callee already seeded or summarized for their calling-context
// fact.
//
// The worklist loop is sequential; processing order cannot change the fixpoint because flow
// functions are pure and the path-edge and summary sets grow monotonically. Cancellation is
// cooperative: ctx and the configured budgets are checked once per worklist pop.
func Solve(ctx context.Context, g SuperGraph, p Problem, cfg *config.Config, logger *config.LogGroup) (*Results, error) {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	if logger == nil {
		logger = config.NewLogGroup(cfg)
	}

	if !cfg.SkipValidation {
		if err := ValidateGraph(g, logger); err != nil {
			return nil, err
		}
	}

	s := newSolverState(g, p, cfg, logger)
	start := time.Now()
	var deadline time.Time
	if d := cfg.Timeout(); d > 0 {
		deadline = start.Add(d)
	}

	seeds := p.Seeds()
	logger.Infof("Tabulation starting with %d seeds", len(seeds))
	zero := s.factID[Zero]
	for _, seed := range seeds {
		n := s.internNode(seed.Node)
		d := s.internFact(seed.Fact)
		// The zero fact holds wherever a seed does, whether or not the
		// problem seeds it explicitly.
		s.propagate(zero, n, zero)
		s.propagate(zero, n, d)
	}

	complete := true
	for len(s.worklist) > 0 {
		s.stats.WorklistIterations++
		if ctx.Err() != nil {
			logger.Warnf("Tabulation cancelled after %d iterations", s.stats.WorklistIterations)
			complete = false
			break
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			logger.Warnf("Tabulation deadline exceeded after %d iterations", s.stats.WorklistIterations)
			complete = false
			break
		}
		if cfg.ExceedsMaxIterations(s.stats.WorklistIterations) {
			logger.Warnf("Tabulation iteration budget exceeded (%d)", cfg.MaxIterations)
			complete = false
			break
		}

		e := s.worklist[len(s.worklist)-1]
		s.worklist = s.worklist[:len(s.worklist)-1]

		n := s.nodes[e.node]
		switch {
		case s.graph.IsCall(n):
			s.processCall(e)
		case s.isExitNode(n):
			s.processExit(e)
		default:
			s.processNormal(e)
		}
	}

	logger.Debugf("Tabulation done: %d path edges, %d summary edges",
		s.stats.PathEdges, s.stats.SummaryEdges)

	var values map[nodeFact]lattice.Value
	if vp, ok := p.(ValueProblem); ok {
		if complete {
			values, complete = s.propagateValues(ctx, vp, deadline)
		} else {
			logger.Warnf("Skipping value propagation: tabulation was incomplete")
		}
	}

	s.stats.ExplodedNodes = s.countExplodedNodes()
	s.stats.Elapsed = time.Since(start)

	s.dumpSummaries()
	if cfg.ReportStatistics {
		s.stats.Report(logger)
	}

	return s.extractResults(complete, values), nil
}

// processNormal applies the normal flow functions of the edges out of the popped node and
// propagates to the successors.
func (s *solverState) processNormal(e pathEdge) {
	n := s.nodes[e.node]
	d2 := s.facts[e.d2]
	from := nodeFact{node: e.node, fact: e.d2}
	for _, m := range s.graph.Succs(n) {
		ff := s.problem.NormalFlow(n, m)
		mid := s.internNode(m)
		for _, d3 := range s.applyFlow(ff, d2) {
			d3id := s.internFact(d3)
			s.addExplodedEdge(from, nodeFact{node: mid, fact: d3id})
			s.propagate(e.d1, mid, d3id)
		}
	}
}

// processCall handles a path edge whose target is a call site: seed the callees, apply any known
// summaries, and propagate the bypassing call-to-return facts.
func (s *solverState) processCall(e pathEdge) {
	c := s.nodes[e.node]
	d2 := s.facts[e.d2]
	callNF := nodeFact{node: e.node, fact: e.d2}

	ret, hasRet := s.graph.ReturnSite(c)
	var retID uint32
	if hasRet {
		retID = s.internNode(ret)
	}

	// A summary cached for this exact (call site, fact) applies without touching the callee.
	if cached, ok := s.summaries[callNF]; ok && len(cached) > 0 {
		s.stats.SummaryReuses++
		for rf := range cached {
			s.propagate(e.d1, rf.node, rf.fact)
		}
	}

	for _, q := range s.graph.Callees(c) {
		entry, ok := s.graph.Entry(q)
		if !ok {
			continue
		}
		entryID := s.internNode(entry)
		qID := s.internProc(q)
		exit, hasExit := s.graph.Exit(q)
		var exitID uint32
		if hasExit {
			exitID = s.internNode(exit)
		}

		cf := s.problem.CallFlow(c, q)
		for _, d3 := range s.applyFlow(cf, d2) {
			d3id := s.internFact(d3)
			s.addExplodedEdge(callNF, nodeFact{node: entryID, fact: d3id})

			pf := procFact{proc: qID, fact: d3id}
			seedEdge := pathEdge{d1: d3id, node: entryID, d2: d3id}
			if s.seen[seedEdge] {
				// The callee is already being (or has been) analyzed under this
				// calling-context fact; this call site rides on its summaries.
				s.stats.SummaryReuses++
			} else {
				s.propagate(d3id, entryID, d3id)
			}
			if s.incoming[pf] == nil {
				s.incoming[pf] = map[nodeFact]bool{}
			}
			s.incoming[pf][callNF] = true

			// Facts already known to reach the callee's exit yield return-site facts
			// immediately.
			if hasRet && hasExit {
				for d4id := range s.endSummaries[pf] {
					rf := s.problem.ReturnFlow(exit, c, ret)
					for _, d5 := range s.applyFlow(rf, s.facts[d4id]) {
						d5id := s.internFact(d5)
						retNF := nodeFact{node: retID, fact: d5id}
						s.addSummary(callNF, retNF)
						s.addExplodedEdge(nodeFact{node: exitID, fact: d4id}, retNF)
						s.propagate(e.d1, retID, d5id)
					}
				}
			}
		}
	}

	// Facts the callee cannot touch bypass the call entirely.
	if hasRet {
		crf := s.problem.CallToReturnFlow(c, ret)
		for _, d3 := range s.applyFlow(crf, d2) {
			d3id := s.internFact(d3)
			s.addExplodedEdge(callNF, nodeFact{node: retID, fact: d3id})
			s.propagate(e.d1, retID, d3id)
		}
	}
}

// processExit handles a path edge whose target is a procedure exit: record the end summary and
// propagate return-site facts into every caller whose calling-context fact matches.
func (s *solverState) processExit(e pathEdge) {
	x := s.nodes[e.node]
	q, ok := s.graph.ProcOf(x)
	if !ok {
		return
	}
	qID := s.internProc(q)
	pf := procFact{proc: qID, fact: e.d1}

	if s.endSummaries[pf] == nil {
		s.endSummaries[pf] = map[uint32]bool{}
	}
	s.endSummaries[pf][e.d2] = true

	for caller := range s.incoming[pf] {
		c := s.nodes[caller.node]
		ret, hasRet := s.graph.ReturnSite(c)
		if !hasRet {
			continue
		}
		retID := s.internNode(ret)
		rf := s.problem.ReturnFlow(x, c, ret)
		for _, d5 := range s.applyFlow(rf, s.facts[e.d2]) {
			d5id := s.internFact(d5)
			retNF := nodeFact{node: retID, fact: d5id}
			s.addSummary(caller, retNF)
			s.addExplodedEdge(nodeFact{node: e.node, fact: e.d2}, retNF)
			// resume every caller context that reached (c, caller.fact)
			for d3 := range s.entryFacts[caller] {
				s.propagate(d3, retID, d5id)
			}
		}
	}
}

func (s *solverState) countExplodedNodes() int {
	nodes := map[nodeFact]bool{}
	for from, tos := range s.succs {
		nodes[from] = true
		funcutil.Union(nodes, tos)
	}
	return len(nodes)
}
