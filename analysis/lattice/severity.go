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

// severityKind discriminates the layers of the severity lattice.
type severityKind uint8

const (
	severityTop severityKind = iota
	severityLevel
	severityBot
)

// SeverityValue is an element of the severity lattice: ⊤, a non-negative level, or ⊥.
// The meet of two levels keeps the higher severity, so that merging control-flow paths reports
// the worst case.
type SeverityValue struct {
	kind  severityKind
	level int
}

// SeverityLevel returns the lattice element for the given severity level. Negative levels are
// clamped to 0.
func SeverityLevel(n int) SeverityValue {
	if n < 0 {
		n = 0
	}
	return SeverityValue{kind: severityLevel, level: n}
}

// Level returns the severity level of the element, and true iff the element is a level
// (neither ⊤ nor ⊥).
func (a SeverityValue) Level() (int, bool) {
	return a.level, a.kind == severityLevel
}

// Sub returns the element with n subtracted from the level, saturating at 0. ⊤ and ⊥ are
// unchanged.
func (a SeverityValue) Sub(n int) SeverityValue {
	if a.kind != severityLevel {
		return a
	}
	return SeverityLevel(a.level - n)
}

// Meet keeps the higher severity of two levels; ⊤ is identity, ⊥ absorbing.
func (a SeverityValue) Meet(o Value) Value {
	b := o.(SeverityValue)
	switch {
	case a.kind == severityTop:
		return b
	case b.kind == severityTop:
		return a
	case a.kind == severityBot || b.kind == severityBot:
		return SeverityValue{kind: severityBot}
	case a.level >= b.level:
		return a
	default:
		return b
	}
}

// Equal returns true iff o is the same severity element.
func (a SeverityValue) Equal(o Value) bool {
	b, ok := o.(SeverityValue)
	if !ok || a.kind != b.kind {
		return false
	}
	return a.kind != severityLevel || a.level == b.level
}

func (a SeverityValue) String() string {
	switch a.kind {
	case severityTop:
		return "⊤"
	case severityBot:
		return "⊥"
	default:
		return fmt.Sprintf("sev(%d)", a.level)
	}
}

// SeverityLattice ranks findings by a non-negative severity level.
type SeverityLattice struct{}

var severityLattice = &SeverityLattice{}

// Severity returns the severity lattice.
func Severity() *SeverityLattice {
	return severityLattice
}

// Top returns the ⊤ element of the severity lattice.
func (*SeverityLattice) Top() Value {
	return SeverityValue{kind: severityTop}
}

// Bottom returns the ⊥ element of the severity lattice.
func (*SeverityLattice) Bottom() Value {
	return SeverityValue{kind: severityBot}
}

func (*SeverityLattice) String() string {
	return "severity"
}
