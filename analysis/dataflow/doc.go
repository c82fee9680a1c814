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

/*
Package dataflow implements the interprocedural dataflow solver at the core of the code
intelligence analyses: a tabulation engine for IFDS problems (which facts are reachable at which
control points) and its value-propagating IDE extension (what lattice value each fact carries).

A client provides two things: a [SuperGraph], the control-flow structure of the program under
analysis, and a [Problem], the fact domain with its seeds and per-edge flow functions. Solving is
one call:

	results, err := dataflow.Solve(ctx, graph, problem, cfg, logger)
	if err != nil { ... }                        // malformed control-flow input
	if !results.Complete { ... }                 // resource budget tripped, absence is not proof
	ok := results.IsReachable(node, dataflow.Zero, fact)

If the problem also implements [ValueProblem], the solver additionally runs the value-propagation
phase and [Results.ValueAt] answers value queries.

The exploded supergraph (control point × fact pairs) is never materialized eagerly: exploded
nodes and edges come into existence only when the tabulation worklist discovers them, which keeps
memory proportional to facts actually reachable. The effect of a whole procedure invocation is
memoized as summary edges, so a callee analyzed once under some calling-context fact is never
re-analyzed for another call site using the same fact.

Flow functions must be distributive over set union and edge functions monotonic with respect to
the value lattice. The solver does not verify either property; violating them silently breaks the
termination and precision guarantees.
*/
package dataflow
