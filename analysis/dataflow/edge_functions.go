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

	"github.com/josongsong/semantica-codegraph-sub006/analysis/lattice"
)

// edgeKind discriminates the canonical edge function forms. The zero value is identity so that
// an uninitialized EdgeFunction behaves neutrally.
type edgeKind uint8

const (
	edgeIdentity edgeKind = iota
	edgeConstant
	edgeCustom
)

// EdgeFunction is the value-transfer function of one exploded edge: a pure mapping from lattice
// values to lattice values, used by the IDE phase to compute what value each reachable fact
// carries. The canonical forms (identity, constant, all-top) compose in constant time; only
// CustomEdge carries a client closure.
//
// Edge functions must be monotonic with respect to the value lattice and total. The solver does
// not check either.
type EdgeFunction struct {
	kind edgeKind
	c    lattice.Value
	id   string
	fn   func(lattice.Value) lattice.Value
}

// IdentityEdge returns the edge function mapping every value to itself.
func IdentityEdge() EdgeFunction {
	return EdgeFunction{kind: edgeIdentity}
}

// ConstantEdge returns the edge function mapping every value to v.
func ConstantEdge(v lattice.Value) EdgeFunction {
	return EdgeFunction{kind: edgeConstant, c: v}
}

// AllTop returns the edge function mapping every value to the lattice's Top, i.e. discarding
// all value information along the edge.
func AllTop(l lattice.Lattice) EdgeFunction {
	return ConstantEdge(l.Top())
}

// CustomEdge returns an edge function computed by the client closure. The identifier takes part
// in equality: two custom edge functions are equal iff their identifiers are. Clients must keep
// the space of identifiers reachable by composition finite, or the value phase falls back on the
// run's resource budget for termination.
func CustomEdge(id string, fn func(lattice.Value) lattice.Value) EdgeFunction {
	return EdgeFunction{kind: edgeCustom, id: id, fn: fn}
}

// Apply returns the value after the edge, given value v before it.
func (e EdgeFunction) Apply(v lattice.Value) lattice.Value {
	switch e.kind {
	case edgeIdentity:
		return v
	case edgeConstant:
		return e.c
	default:
		return e.fn(v)
	}
}

// ComposeWith returns the edge function "e then g": v -> g(e(v)). Compositions involving the
// canonical forms collapse in constant time; only custom-custom compositions allocate a closure.
func (e EdgeFunction) ComposeWith(g EdgeFunction) EdgeFunction {
	switch {
	case e.kind == edgeIdentity:
		return g
	case g.kind == edgeIdentity:
		return e
	case g.kind == edgeConstant:
		// g discards its input, so e is irrelevant
		return g
	case e.kind == edgeConstant:
		// g is custom here; the composition is constant
		return ConstantEdge(g.fn(e.c))
	default:
		f1, f2 := e.fn, g.fn
		return CustomEdge(e.id+" ; "+g.id, func(v lattice.Value) lattice.Value {
			return f2(f1(v))
		})
	}
}

// MeetWith returns the pointwise meet of e and o: v -> meet(e(v), o(v)). Equal functions and
// constant-constant meets collapse without allocation.
func (e EdgeFunction) MeetWith(o EdgeFunction) EdgeFunction {
	if e.Equal(o) {
		return e
	}
	if e.kind == edgeConstant && o.kind == edgeConstant {
		return ConstantEdge(lattice.Meet(e.c, o.c))
	}
	lhs, rhs := e, o
	return CustomEdge("meet("+e.describe()+", "+o.describe()+")",
		func(v lattice.Value) lattice.Value {
			return lattice.Meet(lhs.Apply(v), rhs.Apply(v))
		})
}

// Equal returns true iff the two edge functions are known to denote the same mapping. Custom
// functions compare by identifier.
func (e EdgeFunction) Equal(o EdgeFunction) bool {
	if e.kind != o.kind {
		return false
	}
	switch e.kind {
	case edgeIdentity:
		return true
	case edgeConstant:
		return e.c.Equal(o.c)
	default:
		return e.id == o.id
	}
}

func (e EdgeFunction) describe() string {
	switch e.kind {
	case edgeIdentity:
		return "id"
	case edgeConstant:
		return fmt.Sprintf("const %s", e.c)
	default:
		return e.id
	}
}

func (e EdgeFunction) String() string {
	return e.describe()
}
