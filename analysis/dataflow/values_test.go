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
	"fmt"
	"testing"

	"github.com/josongsong/semantica-codegraph-sub006/analysis/dataflow"
	"github.com/josongsong/semantica-codegraph-sub006/analysis/lattice"
)

// severityProblem tracks a severity level alongside reachability; its edge functions default to
// identity with per-role hooks, like testProblem does for flows.
type severityProblem struct {
	testProblem
	normalEdge func(from, to dataflow.Node, dFrom, dTo dataflow.Fact) dataflow.EdgeFunction
	returnEdge func(x, c, r dataflow.Node, dExit, dRet dataflow.Fact) dataflow.EdgeFunction
}

func (p *severityProblem) Lattice() lattice.Lattice { return lattice.Severity() }

func (p *severityProblem) NormalEdge(from, to dataflow.Node, dFrom, dTo dataflow.Fact) dataflow.EdgeFunction {
	if p.normalEdge == nil {
		return dataflow.IdentityEdge()
	}
	return p.normalEdge(from, to, dFrom, dTo)
}

func (p *severityProblem) CallEdge(_ dataflow.Node, _ dataflow.Proc, _, _ dataflow.Fact) dataflow.EdgeFunction {
	return dataflow.IdentityEdge()
}

func (p *severityProblem) ReturnEdge(x, c, r dataflow.Node, dExit, dRet dataflow.Fact) dataflow.EdgeFunction {
	if p.returnEdge == nil {
		return dataflow.IdentityEdge()
	}
	return p.returnEdge(x, c, r, dExit, dRet)
}

func (p *severityProblem) CallToReturnEdge(_, _ dataflow.Node, _, _ dataflow.Fact) dataflow.EdgeFunction {
	return dataflow.IdentityEdge()
}

// subEdge lowers a severity level by n.
func subEdge(n int) dataflow.EdgeFunction {
	return dataflow.CustomEdge(fmt.Sprintf("sub:%d", n), func(v lattice.Value) lattice.Value {
		if sv, ok := v.(lattice.SeverityValue); ok {
			return sv.Sub(n)
		}
		return v
	})
}

func wantSeverity(t *testing.T, res *dataflow.Results, node dataflow.Node, d dataflow.Fact, level int) {
	t.Helper()
	opt := res.ValueAt(node, d)
	if opt.IsNone() {
		t.Fatalf("no value at (%s, %s)", node, d)
	}
	want := lattice.SeverityLevel(level)
	if !opt.Value().Equal(want) {
		t.Errorf("value at (%s, %s) is %s, want %s", node, d, opt.Value(), want)
	}
}

func TestSeverityLowersAlongPath(t *testing.T) {
	g := dataflow.NewGraphBuilder().
		AddProc("main", n("entry"), n("exit")).
		AddEdge("main", n("entry"), n("a")).
		AddEdge("main", n("a"), n("b")).
		AddEdge("main", n("b"), n("exit"))

	f := taint("alert")
	p := &severityProblem{
		testProblem: testProblem{
			seeds: []dataflow.Seed{{Node: n("entry"), Fact: f, Value: lattice.SeverityLevel(10)}},
		},
		normalEdge: func(from, to dataflow.Node, dFrom, dTo dataflow.Fact) dataflow.EdgeFunction {
			if dFrom != f || dTo != f {
				return dataflow.IdentityEdge()
			}
			switch {
			case from == n("entry") && to == n("a"):
				return subEdge(3)
			case from == n("a") && to == n("b"):
				return subEdge(5)
			}
			return dataflow.IdentityEdge()
		},
	}

	res, err := dataflow.Solve(context.Background(), g, p, quietConfig(), nil)
	if err != nil {
		t.Fatalf("Solve: %s", err)
	}
	if !res.Complete {
		t.Fatalf("expected a complete run")
	}
	wantSeverity(t, res, n("entry"), f, 10)
	wantSeverity(t, res, n("a"), f, 7)
	wantSeverity(t, res, n("b"), f, 2)
	wantSeverity(t, res, n("exit"), f, 2)
	if res.Stats().ValueIterations == 0 {
		t.Errorf("the value phase should have iterated")
	}
}

func TestSeveritySaturatesAtZero(t *testing.T) {
	g := dataflow.NewGraphBuilder().
		AddProc("main", n("entry"), n("exit")).
		AddEdge("main", n("entry"), n("exit"))

	f := taint("alert")
	p := &severityProblem{
		testProblem: testProblem{
			seeds: []dataflow.Seed{{Node: n("entry"), Fact: f, Value: lattice.SeverityLevel(2)}},
		},
		normalEdge: func(from, to dataflow.Node, dFrom, dTo dataflow.Fact) dataflow.EdgeFunction {
			if dFrom == f && dTo == f {
				return subEdge(5)
			}
			return dataflow.IdentityEdge()
		},
	}

	res, err := dataflow.Solve(context.Background(), g, p, quietConfig(), nil)
	if err != nil {
		t.Fatalf("Solve: %s", err)
	}
	wantSeverity(t, res, n("exit"), f, 0)
}

// TestSeverityThroughCall routes the tracked fact through a callee whose body lowers the level;
// the fact does not bypass the call.
func TestSeverityThroughCall(t *testing.T) {
	g := dataflow.NewGraphBuilder().
		AddProc("main", n("entry"), n("exit")).
		AddProc("helper", n("h.entry"), n("h.exit")).
		AddCall("main", n("c"), n("r"), "helper").
		AddEdge("main", n("entry"), n("c")).
		AddEdge("main", n("r"), n("exit")).
		AddEdge("helper", n("h.entry"), n("h.mid")).
		AddEdge("helper", n("h.mid"), n("h.exit"))

	f := taint("alert")
	p := &severityProblem{
		testProblem: testProblem{
			seeds: []dataflow.Seed{{Node: n("entry"), Fact: f, Value: lattice.SeverityLevel(10)}},
			callRet: func(c, r dataflow.Node) dataflow.FlowFunction {
				return dataflow.KillFacts(f)
			},
		},
		normalEdge: func(from, to dataflow.Node, dFrom, dTo dataflow.Fact) dataflow.EdgeFunction {
			switch {
			case dFrom != f || dTo != f:
				return dataflow.IdentityEdge()
			case from == n("h.entry") && to == n("h.mid"):
				return subEdge(3)
			case from == n("r") && to == n("exit"):
				return subEdge(5)
			}
			return dataflow.IdentityEdge()
		},
	}

	res, err := dataflow.Solve(context.Background(), g, p, quietConfig(), nil)
	if err != nil {
		t.Fatalf("Solve: %s", err)
	}
	if !res.Complete {
		t.Fatalf("expected a complete run")
	}
	wantSeverity(t, res, n("h.mid"), f, 7)
	wantSeverity(t, res, n("r"), f, 7)
	wantSeverity(t, res, n("exit"), f, 2)
	// The call edge into helper is built during jump-function propagation and
	// requested again while resolving values, so the micro-function memo must
	// record at least one hit.
	if hits := res.Stats().MicroMemoHits; hits == 0 {
		t.Fatalf("expected micro-function memo hits, got %d", hits)
	}
}

// TestSeverityMeetsAtJoin checks that two paths assigning different levels meet to the worse
// one at the join point.
func TestSeverityMeetsAtJoin(t *testing.T) {
	g := dataflow.NewGraphBuilder().
		AddProc("main", n("entry"), n("exit")).
		AddEdge("main", n("entry"), n("left")).
		AddEdge("main", n("entry"), n("right")).
		AddEdge("main", n("left"), n("join")).
		AddEdge("main", n("right"), n("join")).
		AddEdge("main", n("join"), n("exit"))

	f := taint("alert")
	p := &severityProblem{
		testProblem: testProblem{
			seeds: []dataflow.Seed{{Node: n("entry"), Fact: f, Value: lattice.SeverityLevel(10)}},
		},
		normalEdge: func(from, to dataflow.Node, dFrom, dTo dataflow.Fact) dataflow.EdgeFunction {
			if dFrom == f && dTo == f && from == n("entry") && to == n("left") {
				return subEdge(6)
			}
			return dataflow.IdentityEdge()
		},
	}

	res, err := dataflow.Solve(context.Background(), g, p, quietConfig(), nil)
	if err != nil {
		t.Fatalf("Solve: %s", err)
	}
	// left path carries 4, right path carries 10; the meet keeps the worse level
	wantSeverity(t, res, n("left"), f, 4)
	wantSeverity(t, res, n("right"), f, 10)
	wantSeverity(t, res, n("join"), f, 10)
}
