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

import "github.com/josongsong/semantica-codegraph-sub006/internal/funcutil"

// flowKind discriminates the canonical flow function forms.
type flowKind uint8

const (
	flowIdentity flowKind = iota
	flowKill
	flowKillFacts
	flowGen
	flowCustom
)

// FlowFunction is the fact-transfer function attached to one control-flow edge: it maps each
// fact holding before the edge to the set of facts holding after it. The canonical forms
// (identity, kill, gen) cover standard propagation without allocation; only Transfer carries a
// client closure.
//
// Flow functions must be distributive over set union, i.e. fully determined by their effect on
// individual facts. The solver does not check this.
type FlowFunction struct {
	kind  flowKind
	facts []Fact
	fn    func(Fact) []Fact
}

// Identity returns the flow function mapping every fact to itself.
func Identity() FlowFunction {
	return FlowFunction{kind: flowIdentity}
}

// Kill returns the flow function killing every fact. The solver keeps Zero alive regardless.
func Kill() FlowFunction {
	return FlowFunction{kind: flowKill}
}

// KillFacts returns the identity flow function except that the given facts are killed. This is
// the shape of sanitizer edges.
func KillFacts(ds ...Fact) FlowFunction {
	return FlowFunction{kind: flowKillFacts, facts: ds}
}

// Gen returns the identity flow function except that the given facts are additionally generated
// from Zero. This is the shape of source edges.
func Gen(ds ...Fact) FlowFunction {
	return FlowFunction{kind: flowGen, facts: ds}
}

// Transfer returns a flow function computed by the client closure. The closure must be pure and
// total.
func Transfer(fn func(Fact) []Fact) FlowFunction {
	return FlowFunction{kind: flowCustom, fn: fn}
}

// Apply returns the facts holding after the edge, given that d holds before it.
func (f FlowFunction) Apply(d Fact) []Fact {
	switch f.kind {
	case flowIdentity:
		return []Fact{d}
	case flowKill:
		return nil
	case flowKillFacts:
		if funcutil.Contains(f.facts, d) {
			return nil
		}
		return []Fact{d}
	case flowGen:
		if d == Zero {
			return append([]Fact{d}, f.facts...)
		}
		return []Fact{d}
	default:
		return f.fn(d)
	}
}

// IsIdentity returns true iff f is the canonical identity flow function.
func (f FlowFunction) IsIdentity() bool {
	return f.kind == flowIdentity
}
