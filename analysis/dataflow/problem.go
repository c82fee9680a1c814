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

import "github.com/josongsong/semantica-codegraph-sub006/analysis/lattice"

// Seed is one starting point of a solver run: Fact holds at Node before anything executes. For
// value problems, Value is the initial value of that fact; a nil Value defaults to the lattice's
// Bottom.
type Seed struct {
	Node  Node
	Fact  Fact
	Value lattice.Value
}

// Problem is the client contract of a reachability (IFDS) analysis: the initial facts and one
// flow function per control-flow edge kind. Problems must be immutable for the duration of a
// run; all methods must be pure and total.
//
// Embed [IdentityFlows] to only override the edge kinds the analysis cares about.
type Problem interface {
	// Seeds returns the initial facts. Seeds at entry points of root procedures are the usual
	// shape.
	Seeds() []Seed

	// NormalFlow returns the flow function of the intraprocedural edge from -> to.
	NormalFlow(from, to Node) FlowFunction

	// CallFlow returns the flow function mapping facts at call site call into facts at the
	// entry of callee. Facts it drops are invisible to the callee; they can still bypass the
	// call through CallToReturnFlow.
	CallFlow(call Node, callee Proc) FlowFunction

	// ReturnFlow returns the flow function mapping facts at the callee's exit back to facts at
	// the return site ret of call site call.
	ReturnFlow(exit Node, call Node, ret Node) FlowFunction

	// CallToReturnFlow returns the flow function for facts that bypass the call entirely, e.g.
	// locals the callee cannot touch.
	CallToReturnFlow(call, ret Node) FlowFunction
}

// ValueProblem is the client contract of a value (IDE) analysis: a Problem plus a value lattice
// and one edge function per exploded edge. Each edge function is parameterized by the pair of
// facts the edge connects, so a value transformation can apply to one fact and not another.
type ValueProblem interface {
	Problem

	// Lattice returns the value domain. It must have finite height.
	Lattice() lattice.Lattice

	// NormalEdge returns the value-transfer function of the intraprocedural exploded edge
	// (from, dFrom) -> (to, dTo).
	NormalEdge(from, to Node, dFrom, dTo Fact) EdgeFunction

	// CallEdge returns the value-transfer function from (call, dCall) to the callee's entry
	// fact dEntry.
	CallEdge(call Node, callee Proc, dCall, dEntry Fact) EdgeFunction

	// ReturnEdge returns the value-transfer function from (exit, dExit) to (ret, dRet).
	ReturnEdge(exit, call, ret Node, dExit, dRet Fact) EdgeFunction

	// CallToReturnEdge returns the value-transfer function for the bypassing edge
	// (call, dCall) -> (ret, dRet).
	CallToReturnEdge(call, ret Node, dCall, dRet Fact) EdgeFunction
}

// IdentityFlows provides identity flow functions for every edge kind. Embed it in problems that
// only need standard propagation on some kinds.
type IdentityFlows struct{}

// NormalFlow returns the identity flow function.
func (IdentityFlows) NormalFlow(_, _ Node) FlowFunction { return Identity() }

// CallFlow returns the identity flow function.
func (IdentityFlows) CallFlow(_ Node, _ Proc) FlowFunction { return Identity() }

// ReturnFlow returns the identity flow function.
func (IdentityFlows) ReturnFlow(_, _, _ Node) FlowFunction { return Identity() }

// CallToReturnFlow returns the identity flow function.
func (IdentityFlows) CallToReturnFlow(_, _ Node) FlowFunction { return Identity() }

// IdentityEdges provides identity edge functions for every exploded edge kind. Embed it in value
// problems that only transform values on some kinds.
type IdentityEdges struct{}

// NormalEdge returns the identity edge function.
func (IdentityEdges) NormalEdge(_, _ Node, _, _ Fact) EdgeFunction { return IdentityEdge() }

// CallEdge returns the identity edge function.
func (IdentityEdges) CallEdge(_ Node, _ Proc, _, _ Fact) EdgeFunction { return IdentityEdge() }

// ReturnEdge returns the identity edge function.
func (IdentityEdges) ReturnEdge(_, _, _ Node, _, _ Fact) EdgeFunction { return IdentityEdge() }

// CallToReturnEdge returns the identity edge function.
func (IdentityEdges) CallToReturnEdge(_, _ Node, _, _ Fact) EdgeFunction { return IdentityEdge() }
