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

	"github.com/josongsong/semantica-codegraph-sub006/analysis/config"
	"github.com/josongsong/semantica-codegraph-sub006/internal/funcutil"
	"github.com/josongsong/semantica-codegraph-sub006/internal/graphutil"
)

// ValidateGraph checks that g is well formed before any tabulation work: every procedure has an
// entry and an exit, every call site has a return site and resolvable callees, exits are
// reachable from entries, and recursive call cycles admit a terminating path. The returned
// error describes the first malformation found per category; logger receives one warning per
// finding.
func ValidateGraph(g SuperGraph, logger *config.LogGroup) error {
	if logger == nil {
		logger = config.NewLogGroup(config.NewDefault())
	}
	var problems []string
	report := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		logger.Warnf("graph validation: %s", msg)
		problems = append(problems, msg)
	}

	procSet := map[Proc]bool{}
	for _, q := range g.Procs() {
		procSet[q] = true
	}

	for _, q := range g.Procs() {
		entry, ok := g.Entry(q)
		if !ok {
			report("procedure %s has no entry node", q)
			continue
		}
		if _, ok := g.Exit(q); !ok {
			report("procedure %s has no exit node", q)
			continue
		}
		if !exitReachable(g, q, entry) {
			report("exit of procedure %s is unreachable from its entry", q)
		}
	}

	for _, q := range g.Procs() {
		entry, ok := g.Entry(q)
		if !ok {
			continue
		}
		for _, n := range procNodes(g, q, entry) {
			if !g.IsCall(n) {
				continue
			}
			if _, ok := g.ReturnSite(n); !ok {
				report("call site %s in %s has no return site", n, q)
			}
			callees := g.Callees(n)
			if len(callees) == 0 {
				report("call site %s in %s has no callees", n, q)
			}
			for _, callee := range callees {
				if !procSet[callee] {
					report("call site %s in %s targets unknown procedure %s", n, q, callee)
				}
			}
		}
	}

	for _, component := range recursiveGroups(g) {
		inComponent := map[Proc]bool{}
		for _, q := range component {
			inComponent[q] = true
		}
		terminating := funcutil.Exists(component, func(q Proc) bool {
			entry, ok := g.Entry(q)
			return ok && hasTerminatingPath(g, q, entry, inComponent)
		})
		if !terminating {
			report("recursive cycle %v has no terminating path", component)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("malformed control-flow graph: %d problem(s), first is %q",
			len(problems), problems[0])
	}
	return nil
}

// procNodes collects the nodes of q reachable from entry, stepping over calls through their
// return sites.
func procNodes(g SuperGraph, q Proc, entry Node) []Node {
	var nodes []Node
	seen := map[Node]bool{entry: true}
	stack := []Node{entry}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes = append(nodes, n)
		for _, m := range g.Succs(n) {
			if p, ok := g.ProcOf(m); ok && p == q && !seen[m] {
				seen[m] = true
				stack = append(stack, m)
			}
		}
	}
	return nodes
}

// exitReachable reports whether the exit of q can be reached from entry by an intraprocedural
// walk that steps from a call site to its return site.
func exitReachable(g SuperGraph, q Proc, entry Node) bool {
	exit, ok := g.Exit(q)
	if !ok {
		return false
	}
	seen := map[Node]bool{entry: true}
	stack := []Node{entry}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == exit {
			return true
		}
		if g.IsCall(n) {
			if ret, ok := g.ReturnSite(n); ok && !seen[ret] {
				seen[ret] = true
				stack = append(stack, ret)
			}
			continue
		}
		for _, m := range g.Succs(n) {
			if !seen[m] {
				seen[m] = true
				stack = append(stack, m)
			}
		}
	}
	return false
}

// hasTerminatingPath reports whether q has an entry-to-exit path that never crosses a call into
// its own recursion group. Such a path is the base case that lets the cycle terminate.
func hasTerminatingPath(g SuperGraph, q Proc, entry Node, group map[Proc]bool) bool {
	exit, ok := g.Exit(q)
	if !ok {
		return false
	}
	seen := map[Node]bool{entry: true}
	stack := []Node{entry}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == exit {
			return true
		}
		if g.IsCall(n) {
			if funcutil.Exists(g.Callees(n), func(c Proc) bool { return group[c] }) {
				continue
			}
			if ret, ok := g.ReturnSite(n); ok && !seen[ret] {
				seen[ret] = true
				stack = append(stack, ret)
			}
			continue
		}
		for _, m := range g.Succs(n) {
			if !seen[m] {
				seen[m] = true
				stack = append(stack, m)
			}
		}
	}
	return false
}

// recursiveGroups returns the groups of mutually recursive procedures of g, each as a slice of
// procedure names, including single procedures that call themselves.
func recursiveGroups(g SuperGraph) [][]Proc {
	adjacency := map[string][]string{}
	for _, q := range g.Procs() {
		adjacency[string(q)] = nil
		entry, ok := g.Entry(q)
		if !ok {
			continue
		}
		for _, n := range procNodes(g, q, entry) {
			if !g.IsCall(n) {
				continue
			}
			for _, callee := range g.Callees(n) {
				adjacency[string(q)] = append(adjacency[string(q)], string(callee))
			}
		}
	}
	pg := graphutil.NewProcGraph(adjacency)
	var groups [][]Proc
	for _, component := range graphutil.RecursiveComponents(pg) {
		groups = append(groups, funcutil.Map(component, func(name string) Proc { return Proc(name) }))
	}
	return groups
}
