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

package lattice

import "fmt"

// flatKind discriminates the three layers of a flat lattice.
type flatKind uint8

const (
	flatTop flatKind = iota
	flatConst
	flatBot
)

// FlatValue is an element of a flat lattice over T:
//
//	      ⊤
//	   /  |  \
//	  c1  c2  c3 ...
//	   \  |  /
//	      ⊥
//
// The meet of two distinct constants is ⊥. This is the shape of constant-propagation domains.
type FlatValue[T comparable] struct {
	kind flatKind
	v    T
}

// FlatConst returns the lattice element wrapping the constant v.
func FlatConst[T comparable](v T) FlatValue[T] {
	return FlatValue[T]{kind: flatConst, v: v}
}

// Const returns the constant wrapped in this element, and true iff the element is a constant
// (neither ⊤ nor ⊥).
func (a FlatValue[T]) Const() (T, bool) {
	return a.v, a.kind == flatConst
}

// Meet implements the flat meet: ⊤ is identity, ⊥ absorbing, distinct constants collapse to ⊥.
func (a FlatValue[T]) Meet(o Value) Value {
	b := o.(FlatValue[T])
	switch {
	case a.kind == flatTop:
		return b
	case b.kind == flatTop:
		return a
	case a.kind == flatBot || b.kind == flatBot:
		return FlatValue[T]{kind: flatBot}
	case a.v == b.v:
		return a
	default:
		return FlatValue[T]{kind: flatBot}
	}
}

// Equal returns true iff o is the same element of the same flat lattice.
func (a FlatValue[T]) Equal(o Value) bool {
	b, ok := o.(FlatValue[T])
	if !ok || a.kind != b.kind {
		return false
	}
	return a.kind != flatConst || a.v == b.v
}

func (a FlatValue[T]) String() string {
	switch a.kind {
	case flatTop:
		return "⊤"
	case flatBot:
		return "⊥"
	default:
		return fmt.Sprintf("%v", a.v)
	}
}

// FlatLattice is the flat lattice over the comparable payload type T.
type FlatLattice[T comparable] struct{}

// Flat returns the flat lattice over T.
func Flat[T comparable]() FlatLattice[T] {
	return FlatLattice[T]{}
}

// Top returns the ⊤ element of the flat lattice.
func (FlatLattice[T]) Top() Value {
	return FlatValue[T]{kind: flatTop}
}

// Bottom returns the ⊥ element of the flat lattice.
func (FlatLattice[T]) Bottom() Value {
	return FlatValue[T]{kind: flatBot}
}

func (FlatLattice[T]) String() string {
	var zero T
	return fmt.Sprintf("flat[%T]", zero)
}
