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
	"time"

	"github.com/josongsong/semantica-codegraph-sub006/analysis/config"
)

// RunStatistics are the counters of one solver run. They are informational: no invariant holds
// on them beyond being non-negative and monotone during the run.
type RunStatistics struct {
	// PathEdges is the number of distinct path edges discovered.
	PathEdges int

	// SummaryEdges is the number of distinct summary edges recorded.
	SummaryEdges int

	// SummaryReuses counts the times a call site obtained return-site facts from an already
	// summarized callee instead of triggering its analysis.
	SummaryReuses int

	// MicroMemoHits counts the micro-function memoization hits of the value phase.
	MicroMemoHits int

	// WorklistIterations is the number of tabulation worklist pops.
	WorklistIterations int

	// ValueIterations is the number of value-phase worklist pops.
	ValueIterations int

	// ExplodedNodes and ExplodedEdges measure the discovered portion of the exploded graph.
	ExplodedNodes int
	ExplodedEdges int

	// Facts is the number of distinct facts interned during the run.
	Facts int

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// Report logs the statistics at Info level.
func (st RunStatistics) Report(logger *config.LogGroup) {
	logger.Infof("solver run finished in %s", st.Elapsed)
	logger.Infof("  path edges:          %d", st.PathEdges)
	logger.Infof("  summary edges:       %d (%d reuses)", st.SummaryEdges, st.SummaryReuses)
	logger.Infof("  exploded graph:      %d nodes, %d edges", st.ExplodedNodes, st.ExplodedEdges)
	logger.Infof("  facts:               %d", st.Facts)
	logger.Infof("  worklist iterations: %d tabulation, %d value", st.WorklistIterations, st.ValueIterations)
	if st.MicroMemoHits > 0 {
		logger.Infof("  micro-function memo hits: %d", st.MicroMemoHits)
	}
}
