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

package lattice_test

import (
	"math/rand"
	"testing"

	"github.com/josongsong/semantica-codegraph-sub006/analysis/lattice"
	"github.com/stretchr/testify/assert"
)

// checkMeetLaws verifies the semilattice laws on randomly drawn elements.
func checkMeetLaws(t *testing.T, l lattice.Lattice, draw func(r *rand.Rand) lattice.Value) {
	t.Helper()
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		a, b, c := draw(r), draw(r), draw(r)

		assert.True(t, a.Meet(a).Equal(a), "meet must be idempotent: %s", a)
		assert.True(t, a.Meet(b).Equal(b.Meet(a)), "meet must be commutative: %s, %s", a, b)
		assert.True(t, a.Meet(b).Meet(c).Equal(a.Meet(b.Meet(c))),
			"meet must be associative: %s, %s, %s", a, b, c)
		assert.True(t, l.Top().Meet(a).Equal(a), "top must be an identity for meet: %s", a)
		assert.True(t, l.Bottom().Meet(a).Equal(l.Bottom()), "bottom must be absorbing: %s", a)
	}
}

func TestTwoElementLaws(t *testing.T) {
	l := lattice.TwoElement()
	checkMeetLaws(t, l, func(r *rand.Rand) lattice.Value {
		if r.Intn(2) == 0 {
			return l.Top()
		}
		return l.Bottom()
	})
}

func TestFlatLatticeLaws(t *testing.T) {
	l := lattice.Flat[int]()
	checkMeetLaws(t, l, func(r *rand.Rand) lattice.Value {
		switch r.Intn(4) {
		case 0:
			return l.Top()
		case 1:
			return l.Bottom()
		default:
			return lattice.FlatConst(r.Intn(5))
		}
	})
}

func TestSeverityLaws(t *testing.T) {
	l := lattice.Severity()
	checkMeetLaws(t, l, func(r *rand.Rand) lattice.Value {
		switch r.Intn(5) {
		case 0:
			return l.Top()
		case 1:
			return l.Bottom()
		default:
			return lattice.SeverityLevel(r.Intn(10))
		}
	})
}

func TestFlatMeetDistinctConstants(t *testing.T) {
	l := lattice.Flat[string]()
	a := lattice.FlatConst("x")
	b := lattice.FlatConst("y")
	assert.True(t, a.Meet(b).Equal(l.Bottom()), "distinct constants must meet to bottom")
	assert.True(t, a.Meet(lattice.FlatConst("x")).Equal(a), "equal constants must meet to themselves")
}

func TestSeverityMeetKeepsWorst(t *testing.T) {
	a := lattice.SeverityLevel(3)
	b := lattice.SeverityLevel(7)
	assert.True(t, a.Meet(b).Equal(b), "meet of severities must keep the higher one")
}

func TestSeveritySubSaturates(t *testing.T) {
	v := lattice.SeverityLevel(2).Sub(5)
	level, ok := v.Level()
	assert.True(t, ok)
	assert.Equal(t, 0, level, "subtraction must saturate at 0")
}

func TestMeetNilIsTopLike(t *testing.T) {
	a := lattice.SeverityLevel(4)
	assert.True(t, lattice.Meet(nil, a).Equal(a))
	assert.True(t, lattice.Meet(a, nil).Equal(a))
}
