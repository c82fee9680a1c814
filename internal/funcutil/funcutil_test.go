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

package funcutil

import (
	"strconv"
	"testing"
)

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, strconv.Itoa)
	want := []string{"1", "2", "3"}
	if len(got) != len(want) {
		t.Fatalf("Map returned %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Map[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestExistsContains(t *testing.T) {
	a := []int{1, 3, 5}
	if !Exists(a, func(x int) bool { return x > 4 }) {
		t.Errorf("Exists should find 5")
	}
	if Exists(a, func(x int) bool { return x%2 == 0 }) {
		t.Errorf("Exists should not find an even number")
	}
	if !Contains(a, 3) || Contains(a, 4) {
		t.Errorf("Contains misbehaves on %v", a)
	}
}

func TestUnion(t *testing.T) {
	a := map[string]bool{"x": true}
	b := map[string]bool{"y": true, "x": true}
	u := Union(a, b)
	if len(u) != 2 || !u["x"] || !u["y"] {
		t.Errorf("Union = %v", u)
	}
}

func TestSetToOrderedSlice(t *testing.T) {
	s := SetToOrderedSlice(map[int]bool{3: true, 1: true, 2: true, 9: false})
	want := []int{1, 2, 3}
	if len(s) != len(want) {
		t.Fatalf("SetToOrderedSlice = %v", s)
	}
	for i := range want {
		if s[i] != want[i] {
			t.Errorf("element %d = %d, want %d", i, s[i], want[i])
		}
	}
}

func TestMapParallelKeepsOrder(t *testing.T) {
	var a []int
	for i := 0; i < 100; i++ {
		a = append(a, i)
	}
	got := MapParallel(a, func(x int) int { return x * x }, 8)
	if len(got) != len(a) {
		t.Fatalf("MapParallel returned %d elements", len(got))
	}
	for i, x := range got {
		if x != i*i {
			t.Errorf("element %d = %d, want %d", i, x, i*i)
		}
	}
}

func TestOptional(t *testing.T) {
	s := Some(41)
	if s.IsNone() || s.Value() != 41 || s.ValueOr(0) != 41 {
		t.Errorf("Some misbehaves: %s", s)
	}
	n := None[int]()
	if n.IsSome() || n.ValueOr(7) != 7 {
		t.Errorf("None misbehaves: %s", n)
	}
}
