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

// Package lattice defines the value domains used by the value-propagation (IDE) layer of the
// dataflow solver. A value domain is a finite-height meet-semilattice with a greatest element Top
// (no information) and a least element Bottom (absorbing, most precise).
//
// The meet operation must be commutative, associative and idempotent; Top must be its identity
// and Bottom absorbing. The solver relies on these laws for termination and does not check them
// at runtime; the package tests verify them for the lattices defined here.
package lattice

// Value is an element of a meet-semilattice. Implementations must be comparable values so that
// the solver can use them in maps.
type Value interface {
	// Meet combines this value with o, conservatively. Implementations may assume o belongs to
	// the same lattice, and panic otherwise.
	Meet(o Value) Value

	// Equal returns true iff o is the same lattice element.
	Equal(o Value) bool

	String() string
}

// Lattice describes a meet-semilattice of finite height.
type Lattice interface {
	// Top returns the greatest element, the identity of Meet.
	Top() Value

	// Bottom returns the least element, absorbing for Meet.
	Bottom() Value

	String() string
}

// Meet combines two values, treating a nil operand as Top.
func Meet(a, b Value) Value {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return a.Meet(b)
}

// twoElemValue is an element of the two-element lattice.
type twoElemValue struct {
	top bool
}

func (v twoElemValue) Meet(o Value) Value {
	w := o.(twoElemValue)
	if v.top && w.top {
		return v
	}
	return twoElemValue{top: false}
}

func (v twoElemValue) Equal(o Value) bool {
	w, ok := o.(twoElemValue)
	return ok && v.top == w.top
}

func (v twoElemValue) String() string {
	if v.top {
		return "⊤"
	}
	return "⊥"
}

// TwoElementLattice is the two element lattice:
//
//	⊤
//	|
//	⊥
type TwoElementLattice struct{}

var twoElementLattice = &TwoElementLattice{}

// TwoElement returns the two-element lattice.
func TwoElement() *TwoElementLattice {
	return twoElementLattice
}

// Top returns the ⊤ element of the two-element lattice.
func (*TwoElementLattice) Top() Value {
	return twoElemValue{top: true}
}

// Bottom returns the ⊥ element of the two-element lattice.
func (*TwoElementLattice) Bottom() Value {
	return twoElemValue{top: false}
}

func (*TwoElementLattice) String() string {
	return "two-element"
}
