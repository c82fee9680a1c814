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

package dataflow_test

import (
	"context"
	"strings"
	"testing"

	"github.com/josongsong/semantica-codegraph-sub006/analysis/dataflow"
)

func TestValidateAcceptsWellFormedGraph(t *testing.T) {
	g := dataflow.NewGraphBuilder().
		AddProc("main", n("entry"), n("exit")).
		AddProc("f", n("f.entry"), n("f.exit")).
		AddCall("main", n("c"), n("r"), "f").
		AddEdge("main", n("entry"), n("c")).
		AddEdge("main", n("r"), n("exit")).
		AddEdge("f", n("f.entry"), n("f.exit"))

	if err := dataflow.ValidateGraph(g, nil); err != nil {
		t.Errorf("well-formed graph rejected: %s", err)
	}
}

func TestValidateRejectsUnreachableExit(t *testing.T) {
	// exit has no incoming edge
	g := dataflow.NewGraphBuilder().
		AddProc("main", n("entry"), n("exit")).
		AddEdge("main", n("entry"), n("s1"))

	err := dataflow.ValidateGraph(g, nil)
	if err == nil {
		t.Fatalf("expected an error for the unreachable exit")
	}
	if !strings.Contains(err.Error(), "unreachable") {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestValidateRejectsCallWithoutCallees(t *testing.T) {
	g := dataflow.NewGraphBuilder().
		AddProc("main", n("entry"), n("exit")).
		AddCall("main", n("c"), n("r")).
		AddEdge("main", n("entry"), n("c")).
		AddEdge("main", n("r"), n("exit"))

	err := dataflow.ValidateGraph(g, nil)
	if err == nil {
		t.Fatalf("expected an error for the callee-less call site")
	}
	if !strings.Contains(err.Error(), "callees") {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestValidateRejectsUnknownCallee(t *testing.T) {
	g := dataflow.NewGraphBuilder().
		AddProc("main", n("entry"), n("exit")).
		AddCall("main", n("c"), n("r"), "ghost").
		AddEdge("main", n("entry"), n("c")).
		AddEdge("main", n("r"), n("exit"))

	err := dataflow.ValidateGraph(g, nil)
	if err == nil {
		t.Fatalf("expected an error for the unknown callee")
	}
	if !strings.Contains(err.Error(), "unknown procedure") {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestValidateRejectsRecursionWithoutBaseCase(t *testing.T) {
	// f's only entry-to-exit path crosses the recursive call
	g := dataflow.NewGraphBuilder().
		AddProc("f", n("f.entry"), n("f.exit")).
		AddCall("f", n("f.rec"), n("f.ret"), "f").
		AddEdge("f", n("f.entry"), n("f.rec")).
		AddEdge("f", n("f.ret"), n("f.exit"))

	err := dataflow.ValidateGraph(g, nil)
	if err == nil {
		t.Fatalf("expected an error for the base-case-less recursion")
	}
	if !strings.Contains(err.Error(), "terminating") {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestValidateAcceptsMutualRecursionWithBaseCase(t *testing.T) {
	// even <-> odd, both with a direct entry-to-exit edge
	g := dataflow.NewGraphBuilder().
		AddProc("even", n("e.entry"), n("e.exit")).
		AddProc("odd", n("o.entry"), n("o.exit")).
		AddCall("even", n("e.c"), n("e.r"), "odd").
		AddEdge("even", n("e.entry"), n("e.exit")).
		AddEdge("even", n("e.entry"), n("e.c")).
		AddEdge("even", n("e.r"), n("e.exit")).
		AddCall("odd", n("o.c"), n("o.r"), "even").
		AddEdge("odd", n("o.entry"), n("o.exit")).
		AddEdge("odd", n("o.entry"), n("o.c")).
		AddEdge("odd", n("o.r"), n("o.exit"))

	if err := dataflow.ValidateGraph(g, nil); err != nil {
		t.Errorf("mutual recursion with base cases rejected: %s", err)
	}
}

func TestSolveRejectsMalformedGraph(t *testing.T) {
	g := dataflow.NewGraphBuilder().
		AddProc("main", n("entry"), n("exit")).
		AddEdge("main", n("entry"), n("s1"))

	p := &testProblem{seeds: []dataflow.Seed{{Node: n("entry"), Fact: taint("y")}}}
	if _, err := dataflow.Solve(context.Background(), g, p, quietConfig(), nil); err == nil {
		t.Fatalf("Solve should refuse a malformed graph")
	}
}

func TestSolveSkipValidation(t *testing.T) {
	g := dataflow.NewGraphBuilder().
		AddProc("main", n("entry"), n("exit")).
		AddEdge("main", n("entry"), n("s1"))

	cfg := quietConfig()
	cfg.SkipValidation = true
	p := &testProblem{seeds: []dataflow.Seed{{Node: n("entry"), Fact: taint("y")}}}
	res, err := dataflow.Solve(context.Background(), g, p, cfg, nil)
	if err != nil {
		t.Fatalf("Solve with SkipValidation: %s", err)
	}
	if !res.IsReachable(n("s1"), dataflow.Zero, taint("y")) {
		t.Errorf("tabulation should still run on the reachable part")
	}
}
