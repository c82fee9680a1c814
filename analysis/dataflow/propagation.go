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

	"github.com/josongsong/semantica-codegraph-sub006/analysis/lattice"
)

// memoKey identifies one edge-function request by roles and exploded endpoints. The facts are
// part of the endpoints, so two requests with the same key always get the same function.
type memoKey struct {
	kind uint8
	from nodeFact
	to   nodeFact
}

const (
	memoNormal uint8 = iota
	memoCall
	memoReturn
	memoCallToReturn
)

// valueState carries the value-propagation phase: the jump-function table, its worklist, and
// the per-edge micro memo that spares repeated edge-function construction.
type valueState struct {
	s  *solverState
	vp ValueProblem

	jump     map[pathEdge]EdgeFunction
	worklist []pathEdge
	memo     map[memoKey]EdgeFunction
}

// propagateValues runs the two value phases over the path edges the tabulation discovered:
// first the jump-function fixpoint, then the resolution of concrete lattice values. The
// returned flag is false when a budget or the context tripped mid-phase; the partial value map
// is still safe to read, it only under-approximates how far meets have converged.
func (s *solverState) propagateValues(ctx context.Context, vp ValueProblem, deadline time.Time) (map[nodeFact]lattice.Value, bool) {
	v := &valueState{
		s:    s,
		vp:   vp,
		jump: map[pathEdge]EdgeFunction{},
		memo: map[memoKey]EdgeFunction{},
	}

	s.logger.Infof("Value propagation starting over %d path edges", len(s.seen))
	if !v.computeJumpFunctions(ctx, deadline) {
		return nil, false
	}
	return v.resolveValues(ctx, deadline)
}

func (v *valueState) edgeFn(kind uint8, from, to nodeFact, build func() EdgeFunction) EdgeFunction {
	k := memoKey{kind: kind, from: from, to: to}
	if f, ok := v.memo[k]; ok {
		v.s.stats.MicroMemoHits++
		return f
	}
	f := build()
	v.memo[k] = f
	return f
}

// setJump meets f into the jump function of e and reschedules e when the entry changed. Only
// edges the tabulation discovered participate; anything else is unreachable and stays at top.
func (v *valueState) setJump(e pathEdge, f EdgeFunction) {
	if !v.s.seen[e] {
		return
	}
	cur, ok := v.jump[e]
	if !ok {
		v.jump[e] = f
		v.worklist = append(v.worklist, e)
		return
	}
	merged := cur.MeetWith(f)
	if merged.Equal(cur) {
		return
	}
	v.jump[e] = merged
	v.worklist = append(v.worklist, e)
}

// computeJumpFunctions is the first value phase: a fixpoint that composes edge functions along
// every discovered path edge, mirroring the tabulation's case split. Returns false when
// interrupted.
func (v *valueState) computeJumpFunctions(ctx context.Context, deadline time.Time) bool {
	s := v.s

	// every procedure context starts from the identity at its origin
	for e := range s.seen {
		if e.d1 == e.d2 && v.isContextOrigin(e) {
			v.setJump(e, IdentityEdge())
		}
	}
	for _, seed := range v.vp.Seeds() {
		n, ok := s.nodeID[seed.Node]
		if !ok {
			continue
		}
		d, ok := s.factID[seed.Fact]
		if !ok {
			continue
		}
		zero := s.factID[Zero]
		v.setJump(pathEdge{d1: zero, node: n, d2: zero}, IdentityEdge())
		v.setJump(pathEdge{d1: zero, node: n, d2: d}, IdentityEdge())
	}

	for len(v.worklist) > 0 {
		s.stats.ValueIterations++
		if !v.withinBudget(ctx, deadline, s.stats.ValueIterations) {
			return false
		}

		e := v.worklist[len(v.worklist)-1]
		v.worklist = v.worklist[:len(v.worklist)-1]
		f := v.jump[e]
		n := s.nodes[e.node]

		switch {
		case s.graph.IsCall(n):
			v.jumpThroughCall(e, f)
		case s.isExitNode(n):
			v.jumpThroughExit(e, f)
		default:
			v.jumpThroughNormal(e, f)
		}
	}
	return true
}

func (v *valueState) jumpThroughNormal(e pathEdge, f EdgeFunction) {
	s := v.s
	n := s.nodes[e.node]
	d2 := s.facts[e.d2]
	for _, m := range s.graph.Succs(n) {
		mid, ok := s.nodeID[m]
		if !ok {
			continue
		}
		ff := s.problem.NormalFlow(n, m)
		for _, d3 := range s.applyFlow(ff, d2) {
			d3id, ok := s.factID[d3]
			if !ok {
				continue
			}
			from := nodeFact{node: e.node, fact: e.d2}
			to := nodeFact{node: mid, fact: d3id}
			ef := v.edgeFn(memoNormal, from, to, func() EdgeFunction {
				return v.vp.NormalEdge(n, m, d2, d3)
			})
			v.setJump(pathEdge{d1: e.d1, node: mid, d2: d3id}, f.ComposeWith(ef))
		}
	}
}

func (v *valueState) jumpThroughCall(e pathEdge, f EdgeFunction) {
	s := v.s
	c := s.nodes[e.node]
	d2 := s.facts[e.d2]
	callNF := nodeFact{node: e.node, fact: e.d2}

	ret, hasRet := s.graph.ReturnSite(c)
	var retID uint32
	if hasRet {
		retID, hasRet = s.nodeID[ret]
	}

	for _, q := range s.graph.Callees(c) {
		entry, ok := s.graph.Entry(q)
		if !ok {
			continue
		}
		entryID, ok := s.nodeID[entry]
		if !ok {
			continue
		}
		qID := s.internProc(q)
		exit, hasExit := s.graph.Exit(q)
		var exitID uint32
		if hasExit {
			exitID, hasExit = s.nodeID[exit]
		}

		cf := s.problem.CallFlow(c, q)
		for _, d3 := range s.applyFlow(cf, d2) {
			d3id, ok := s.factID[d3]
			if !ok {
				continue
			}
			entryNF := nodeFact{node: entryID, fact: d3id}
			callEF := v.edgeFn(memoCall, callNF, entryNF, func() EdgeFunction {
				return v.vp.CallEdge(c, q, d2, d3)
			})

			if !hasRet || !hasExit {
				continue
			}
			// pre-computed callee summaries compose into the caller's jump function
			for d4id := range s.endSummaries[procFact{proc: qID, fact: d3id}] {
				exitJump, ok := v.jump[pathEdge{d1: d3id, node: exitID, d2: d4id}]
				if !ok {
					continue
				}
				d4 := s.facts[d4id]
				rf := s.problem.ReturnFlow(exit, c, ret)
				for _, d5 := range s.applyFlow(rf, d4) {
					d5id, ok := s.factID[d5]
					if !ok {
						continue
					}
					retEF := v.edgeFn(memoReturn,
						nodeFact{node: exitID, fact: d4id},
						nodeFact{node: retID, fact: d5id},
						func() EdgeFunction {
							return v.vp.ReturnEdge(exit, c, ret, d4, d5)
						})
					summary := callEF.ComposeWith(exitJump).ComposeWith(retEF)
					v.setJump(pathEdge{d1: e.d1, node: retID, d2: d5id}, f.ComposeWith(summary))
				}
			}
		}
	}

	if hasRet {
		crf := s.problem.CallToReturnFlow(c, ret)
		for _, d3 := range s.applyFlow(crf, d2) {
			d3id, ok := s.factID[d3]
			if !ok {
				continue
			}
			ef := v.edgeFn(memoCallToReturn, callNF, nodeFact{node: retID, fact: d3id},
				func() EdgeFunction {
					return v.vp.CallToReturnEdge(c, ret, d2, d3)
				})
			v.setJump(pathEdge{d1: e.d1, node: retID, d2: d3id}, f.ComposeWith(ef))
		}
	}
}

// jumpThroughExit revisits the call sites the tabulation recorded for this context so their
// return-site jump functions pick up the refined exit jump function.
func (v *valueState) jumpThroughExit(e pathEdge, f EdgeFunction) {
	s := v.s
	x := s.nodes[e.node]
	q, ok := s.graph.ProcOf(x)
	if !ok {
		return
	}
	qID := s.internProc(q)
	d2 := s.facts[e.d2]

	for caller := range s.incoming[procFact{proc: qID, fact: e.d1}] {
		c := s.nodes[caller.node]
		ret, hasRet := s.graph.ReturnSite(c)
		if !hasRet {
			continue
		}
		retID, ok := s.nodeID[ret]
		if !ok {
			continue
		}
		dCall := s.facts[caller.fact]
		callEF := v.edgeFn(memoCall, caller, nodeFact{node: v.entryNodeID(q), fact: e.d1},
			func() EdgeFunction {
				return v.vp.CallEdge(c, q, dCall, s.facts[e.d1])
			})
		rf := s.problem.ReturnFlow(x, c, ret)
		for _, d5 := range s.applyFlow(rf, d2) {
			d5id, ok := s.factID[d5]
			if !ok {
				continue
			}
			retEF := v.edgeFn(memoReturn,
				nodeFact{node: e.node, fact: e.d2},
				nodeFact{node: retID, fact: d5id},
				func() EdgeFunction {
					return v.vp.ReturnEdge(x, c, ret, d2, d5)
				})
			summary := callEF.ComposeWith(f).ComposeWith(retEF)
			for d3 := range s.entryFacts[caller] {
				callerJump, ok := v.jump[pathEdge{d1: d3, node: caller.node, d2: caller.fact}]
				if !ok {
					continue
				}
				v.setJump(pathEdge{d1: d3, node: retID, d2: d5id}, callerJump.ComposeWith(summary))
			}
		}
	}
}

func (v *valueState) entryNodeID(q Proc) uint32 {
	entry, ok := v.s.graph.Entry(q)
	if !ok {
		return 0
	}
	return v.s.internNode(entry)
}

// isContextOrigin reports whether e is the identity edge opening a procedure context, i.e. its
// node is the entry of its procedure.
func (v *valueState) isContextOrigin(e pathEdge) bool {
	n := v.s.nodes[e.node]
	q, ok := v.s.graph.ProcOf(n)
	if !ok {
		return false
	}
	entry, ok := v.s.graph.Entry(q)
	return ok && entry == n
}

// resolveValues is the second value phase: concrete lattice values flow from the seeds through
// the jump functions, context by context. A context is a (procedure, entry fact) pair; its
// value is the meet over every call that opened it.
func (v *valueState) resolveValues(ctx context.Context, deadline time.Time) (map[nodeFact]lattice.Value, bool) {
	s := v.s
	bottom := v.vp.Lattice().Bottom()

	// group the discovered path edges by context for the per-context sweeps
	edgesByContext := map[procFact][]pathEdge{}
	for e := range s.seen {
		n := s.nodes[e.node]
		q, ok := s.graph.ProcOf(n)
		if !ok {
			continue
		}
		pf := procFact{proc: s.internProc(q), fact: e.d1}
		edgesByContext[pf] = append(edgesByContext[pf], e)
	}

	entryVal := map[procFact]lattice.Value{}
	var contexts []procFact
	push := func(pf procFact, val lattice.Value) {
		cur, ok := entryVal[pf]
		if !ok {
			entryVal[pf] = val
			contexts = append(contexts, pf)
			return
		}
		merged := lattice.Meet(cur, val)
		if merged.Equal(cur) {
			return
		}
		entryVal[pf] = merged
		contexts = append(contexts, pf)
	}

	for _, seed := range v.vp.Seeds() {
		q, ok := s.graph.ProcOf(seed.Node)
		if !ok {
			continue
		}
		val := seed.Value
		if val == nil {
			val = bottom
		}
		push(procFact{proc: s.internProc(q), fact: s.factID[Zero]}, val)
	}

	values := map[nodeFact]lattice.Value{}
	meetInto := func(nf nodeFact, val lattice.Value) {
		if cur, ok := values[nf]; ok {
			values[nf] = lattice.Meet(cur, val)
			return
		}
		values[nf] = val
	}

	for len(contexts) > 0 {
		s.stats.ValueIterations++
		if !v.withinBudget(ctx, deadline, s.stats.ValueIterations) {
			return values, false
		}

		pf := contexts[len(contexts)-1]
		contexts = contexts[:len(contexts)-1]
		val := entryVal[pf]

		for _, e := range edgesByContext[pf] {
			jf, ok := v.jump[e]
			if !ok {
				continue
			}
			nf := nodeFact{node: e.node, fact: e.d2}
			nodeVal := jf.Apply(val)
			meetInto(nf, nodeVal)

			// call sites open callee contexts with the value at the call
			n := s.nodes[e.node]
			if !s.graph.IsCall(n) {
				continue
			}
			d2 := s.facts[e.d2]
			for _, q := range s.graph.Callees(n) {
				entry, ok := s.graph.Entry(q)
				if !ok {
					continue
				}
				cf := s.problem.CallFlow(n, q)
				for _, d3 := range s.applyFlow(cf, d2) {
					d3id, ok := s.factID[d3]
					if !ok {
						continue
					}
					entryID, ok := s.nodeID[entry]
					if !ok {
						continue
					}
					callEF := v.edgeFn(memoCall, nf, nodeFact{node: entryID, fact: d3id},
						func() EdgeFunction {
							return v.vp.CallEdge(n, q, d2, d3)
						})
					push(procFact{proc: s.internProc(q), fact: d3id}, callEF.Apply(nodeVal))
				}
			}
		}
	}
	return values, true
}

func (v *valueState) withinBudget(ctx context.Context, deadline time.Time, iterations int) bool {
	if ctx.Err() != nil {
		v.s.logger.Warnf("Value propagation cancelled after %d iterations", iterations)
		return false
	}
	if !deadline.IsZero() && time.Now().After(deadline) {
		v.s.logger.Warnf("Value propagation deadline exceeded after %d iterations", iterations)
		return false
	}
	if v.s.config.ExceedsMaxIterations(iterations) {
		v.s.logger.Warnf("Value propagation iteration budget exceeded (%d)", v.s.config.MaxIterations)
		return false
	}
	return true
}
