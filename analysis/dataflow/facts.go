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

// Fact is one abstract dataflow item, e.g. "variable x is tainted". Implementations must be
// comparable values: the solver deduplicates facts with == and uses them as map keys. Facts are
// owned by value and have no identity beyond equality.
type Fact interface {
	String() string
}

// zeroFact is the distinguished no-information fact.
type zeroFact struct{}

func (zeroFact) String() string { return "Λ" }

// Zero is the distinguished universal fact. It holds at every control point reachable from a
// seed and is the source from which gen-style flow functions introduce new facts. The solver
// keeps Zero alive across every edge, including kill edges.
var Zero Fact = zeroFact{}

// PathEdge is a witness that TargetFact is reachable at Node, assuming SourceFact held at the
// entry of the procedure owning Node. The set of discovered path edges only grows during a run.
type PathEdge struct {
	SourceFact Fact
	Node       Node
	TargetFact Fact
}

// SummaryEdge is the memoized net effect of an entire procedure invocation: if CallFact holds at
// Call, then RetFact holds at Ret. Any call site invoking the same callee with the same
// calling-context fact reuses the summary without reanalysis.
type SummaryEdge struct {
	Call     Node
	CallFact Fact
	Ret      Node
	RetFact  Fact
}
