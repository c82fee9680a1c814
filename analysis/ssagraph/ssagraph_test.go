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

package ssagraph_test

import (
	"context"
	"path"
	"runtime"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"

	"github.com/josongsong/semantica-codegraph-sub006/analysis/config"
	"github.com/josongsong/semantica-codegraph-sub006/analysis/dataflow"
	"github.com/josongsong/semantica-codegraph-sub006/analysis/ssagraph"
)

func loadSimple(t *testing.T) *ssagraph.Graph {
	t.Helper()
	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "testdata", "simple")
	cfg := &packages.Config{
		Mode: ssagraph.PkgLoadMode,
		Dir:  dir,
	}
	prog, err := ssagraph.LoadProgram(cfg, ssa.BuilderMode(0), []string{"."})
	if err != nil {
		t.Fatalf("error loading program: %s", err)
	}
	g, err := ssagraph.NewGraph(prog)
	if err != nil {
		t.Fatalf("error building supergraph: %s", err)
	}
	return g
}

func findProc(g *ssagraph.Graph, suffix string) (dataflow.Proc, bool) {
	for _, p := range g.Procs() {
		if strings.HasSuffix(string(p), suffix) {
			return p, true
		}
	}
	return "", false
}

func TestSupergraphShape(t *testing.T) {
	g := loadSimple(t)

	for _, name := range []string{"main", "source", "sanitize"} {
		p, ok := findProc(g, "."+name)
		if !ok {
			t.Fatalf("procedure %s not found among %v", name, g.Procs())
		}
		if _, ok := g.Entry(p); !ok {
			t.Errorf("%s has no entry", p)
		}
		if _, ok := g.Exit(p); !ok {
			t.Errorf("%s has no exit", p)
		}
	}

	mainP, _ := findProc(g, ".main")
	adj := g.CallAdjacency()
	var callees []string
	for _, callee := range adj[string(mainP)] {
		callees = append(callees, callee)
	}
	wantCallee := func(suffix string) {
		for _, c := range callees {
			if strings.HasSuffix(c, suffix) {
				return
			}
		}
		t.Errorf("main should call %s, calls %v", suffix, callees)
	}
	wantCallee(".source")
	wantCallee(".sanitize")
}

func TestSupergraphValidates(t *testing.T) {
	g := loadSimple(t)
	if err := dataflow.ValidateGraph(g, nil); err != nil {
		t.Errorf("the built supergraph should be well formed: %s", err)
	}
}

// TestSolveOverSSA runs the engine end to end over the loaded program with identity flows,
// checking that control reaches every exit through the calls.
func TestSolveOverSSA(t *testing.T) {
	g := loadSimple(t)
	mainP, ok := findProc(g, ".main")
	if !ok {
		t.Fatalf("no main procedure")
	}
	entry, _ := g.Entry(mainP)

	p := &identityProblem{seeds: []dataflow.Seed{{Node: entry, Fact: dataflow.Zero}}}
	cfg := config.NewDefault()
	cfg.LogLevel = int(config.ErrLevel)

	res, err := dataflow.Solve(context.Background(), g, p, cfg, nil)
	if err != nil {
		t.Fatalf("Solve: %s", err)
	}
	if !res.Complete {
		t.Fatalf("expected a complete run")
	}
	for _, name := range []string{"main", "source", "sanitize"} {
		q, _ := findProc(g, "."+name)
		exit, _ := g.Exit(q)
		if !res.IsReachable(exit, dataflow.Zero, dataflow.Zero) {
			t.Errorf("control should reach the exit of %s", q)
		}
	}
}

type identityProblem struct {
	dataflow.IdentityFlows
	seeds []dataflow.Seed
}

func (p *identityProblem) Seeds() []dataflow.Seed { return p.seeds }
