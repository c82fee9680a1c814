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

package graphutil

import (
	"github.com/yourbasic/graph"
)

// StrongComponents returns the strongly connected components of the procedure graph, as slices of
// procedure names. Components are returned in reverse topological order of the condensation, i.e.
// callees appear before their callers, which is the order a bottom-up summary computation wants.
func StrongComponents(g ProcGraph) [][]string {
	components := graph.StrongComponents(g)
	result := make([][]string, 0, len(components))
	for _, component := range components {
		names := make([]string, 0, len(component))
		for _, id := range component {
			if node, ok := g.Names[int64(id)]; ok {
				names = append(names, node.name)
			}
		}
		result = append(result, names)
	}
	return result
}

// RecursiveComponents returns only the components that contain a cycle: either more than one
// procedure, or a single procedure that calls itself.
func RecursiveComponents(g ProcGraph) [][]string {
	var result [][]string
	for _, component := range StrongComponents(g) {
		if len(component) > 1 {
			result = append(result, component)
			continue
		}
		if len(component) == 1 {
			id := g.IDs[component[0]]
			if g.Edges[id][id] {
				result = append(result, component)
			}
		}
	}
	return result
}
